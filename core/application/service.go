package application

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/charbel-francis/saleaf/core"
)

var (
	// errors
	ErrNotFound = errors.New("application not found")
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		// QueryApplications applies AND operation on available QueryFilter fields.
		QueryApplications(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		UpdateApplicationStatus(ctx context.Context, app Application) (Application, error)
	}

	Service struct {
		repo Repository
		mail core.EmailService
		conf *core.Config
	}
)

var _ Submitter = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo: repo,
		mail: mailSvc,
		conf: conf,
	}
}

// Submit validates every step of the draft, snapshots it with its derived
// totals and persists it as a pending application. The caller's draft is
// never mutated: on failure it survives unchanged for re-submission.
func (svc *Service) Submit(ctx context.Context, applicant Applicant, draft Draft) (Application, error) {
	var flds []core.FieldError
	for s := StepPersonalDetails; s <= LastStep; s++ {
		if err := ValidateStep(s, &draft); err != nil {
			var vErr *core.ValidationError
			if errors.As(err, &vErr) {
				flds = append(flds, vErr.Fields...)
				continue
			}
			return Application{}, err
		}
	}
	if flds != nil {
		return Application{}, core.NewValidationError(errIncompleteStep, flds...)
	}

	docs := make([]StoredDocument, 0, len(draft.Documents))
	for _, field := range DocumentFields {
		if up, ok := draft.Document(field); ok {
			docs = append(docs, StoredDocument{
				Field:       field,
				Filename:    up.Filename,
				ContentType: up.ContentType,
				Size:        up.Size(),
			})
		}
	}

	app := Application{
		ApplicantID:      applicant.ID,
		Draft:            draft,
		Documents:        docs,
		TotalAssets:      decimal.NewFromFloat(draft.TotalAssets()),
		TotalLiabilities: decimal.NewFromFloat(draft.TotalLiabilities()),
		NetWorth:         decimal.NewFromFloat(draft.NetWorth()),
		Status:           StatusPending,
		SubmittedAt:      time.Now().UTC(),
	}

	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "creating application")
	}

	if applicant.Email != "" {
		svc.mail.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: applicant.Name, Address: applicant.Email}},
			Subject:      "Bursary Application Received",
			TemplateName: "application-submitted",
			TemplateData: struct {
				Name          string
				ApplicationID string
			}{applicant.Name, app.ID},
		})
	}
	return app, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Application, error) {
	return svc.repo.QueryApplications(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, id)
}

func (svc *Service) GetByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	return svc.repo.QueryApplications(ctx, &QueryFilter{ApplicantID: applicantID}, nil)
}

// UpdateStatus records an admin review decision.
func (svc *Service) UpdateStatus(ctx context.Context, id, reviewerID string, data StatusUpdate) (Application, error) {
	app, err := svc.repo.GetApplication(ctx, id)
	if err != nil {
		return Application{}, err
	}
	app.Status = data.Status
	app.ReviewNote = data.Note
	app.ReviewerID = reviewerID
	app.ReviewedAt = time.Now().UTC()
	return svc.repo.UpdateApplicationStatus(ctx, app)
}

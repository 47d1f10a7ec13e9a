package donation

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
)

var (
	// errors
	ErrNotFound        = errors.New("donation not found")
	ErrAlreadyVerified = errors.New("donation is already verified")
)

// for mocking
var nowFunc = time.Now

type (
	Repository interface {
		CreateDonation(ctx context.Context, don Donation) (Donation, error)
		// QueryDonations applies AND operation on available QueryFilter fields.
		QueryDonations(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Donation, error)
		GetDonation(ctx context.Context, id string) (Donation, error)
		UpdateDonation(ctx context.Context, don Donation) (Donation, error)
	}

	Service struct {
		repo Repository
		mail core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo: repo,
		mail: mailSvc,
	}
}

// newReference builds the Section 18A receipt reference recorded on every
// donation, e.g. "S18A-20240801-1A2B3C4D".
func newReference() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("S18A-%s-%s", nowFunc().UTC().Format("20060102"), short)
}

// Create records a gateway-initiated donation; it is verified immediately.
func (svc *Service) Create(ctx context.Context, donorID string, nd NewDonation) (Donation, error) {
	don := Donation{
		DonorID:     donorID,
		Amount:      nd.Amount,
		Currency:    Currency,
		Method:      MethodOnline,
		Reference:   newReference(),
		IsAnonymous: nd.IsAnonymous,
		Message:     nd.Message,
		Status:      StatusVerified,
	}
	return svc.repo.CreateDonation(ctx, don)
}

// CreateManual records an EFT donation awaiting proof of payment.
func (svc *Service) CreateManual(ctx context.Context, donorID string, nd NewDonation) (Donation, error) {
	don := Donation{
		DonorID:     donorID,
		Amount:      nd.Amount,
		Currency:    Currency,
		Method:      MethodManual,
		Reference:   newReference(),
		IsAnonymous: nd.IsAnonymous,
		Message:     nd.Message,
		Status:      StatusPendingVerification,
	}
	return svc.repo.CreateDonation(ctx, don)
}

// AttachProof stores the donor's proof of payment against a manual donation.
// Re-uploading replaces the previous document until the donation is verified.
func (svc *Service) AttachProof(ctx context.Context, id string, up core.Upload) (Donation, error) {
	don, err := svc.repo.GetDonation(ctx, id)
	if err != nil {
		return Donation{}, err
	}
	if don.Status == StatusVerified {
		return Donation{}, ErrAlreadyVerified
	}
	if err = core.ValidateUpload(&up, "document"); err != nil {
		return Donation{}, err
	}

	don.ProofFilename = up.Filename
	don.ProofContentType = up.ContentType
	don.Proof = up.Content
	return svc.repo.UpdateDonation(ctx, don)
}

// Verify marks a manual donation as verified after proof review and sends the
// donor their receipt reference.
func (svc *Service) Verify(ctx context.Context, id string, donorEmail, donorName string) (Donation, error) {
	don, err := svc.repo.GetDonation(ctx, id)
	if err != nil {
		return Donation{}, err
	}
	if don.Status == StatusVerified {
		return Donation{}, ErrAlreadyVerified
	}

	don.Status = StatusVerified
	don, err = svc.repo.UpdateDonation(ctx, don)
	if err != nil {
		return Donation{}, err
	}

	if donorEmail != "" {
		svc.mail.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: donorName, Address: donorEmail}},
			Subject:      "Donation Received",
			TemplateName: "donation-verified",
			TemplateData: struct {
				Name      string
				Reference string
				Amount    string
			}{donorName, don.Reference, don.Amount.StringFixed(2) + " " + don.Currency},
		})
	}
	return don, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Donation, error) {
	return svc.repo.QueryDonations(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Donation, error) {
	return svc.repo.GetDonation(ctx, id)
}

func (svc *Service) GetByDonor(ctx context.Context, donorID string) ([]Donation, error) {
	return svc.repo.QueryDonations(ctx, &QueryFilter{DonorID: donorID}, nil)
}

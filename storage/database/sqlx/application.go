package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/application"
)

// dbApplication stores the draft as a JSONB snapshot; review fields stay
// scalar so admins can filter without unpacking the document.
type dbApplication struct {
	ID               string          `db:"id"`
	ApplicantID      string          `db:"applicant_id"`
	Draft            []byte          `db:"draft"`
	Documents        []byte          `db:"documents"`
	TotalAssets      decimal.Decimal `db:"total_assets"`
	TotalLiabilities decimal.Decimal `db:"total_liabilities"`
	NetWorth         decimal.Decimal `db:"net_worth"`
	Status           string          `db:"status"`
	ReviewerID       null.String     `db:"reviewer_id"`
	ReviewNote       string          `db:"review_note"`
	SubmittedAt      time.Time       `db:"submitted_at"`
	ReviewedAt       null.Time       `db:"reviewed_at"`
}

func (a dbApplication) toCore() (application.Application, error) {
	app := application.Application{
		ID:               a.ID,
		ApplicantID:      a.ApplicantID,
		TotalAssets:      a.TotalAssets,
		TotalLiabilities: a.TotalLiabilities,
		NetWorth:         a.NetWorth,
		Status:           application.Status(a.Status),
		ReviewerID:       a.ReviewerID.String,
		ReviewNote:       a.ReviewNote,
		SubmittedAt:      a.SubmittedAt,
		ReviewedAt:       a.ReviewedAt.Time,
	}
	if err := json.Unmarshal(a.Draft, &app.Draft); err != nil {
		return application.Application{}, errors.Wrap(err, "unmarshalling draft snapshot")
	}
	if err := json.Unmarshal(a.Documents, &app.Documents); err != nil {
		return application.Application{}, errors.Wrap(err, "unmarshalling document metadata")
	}
	return app, nil
}

var applicationSortable = map[string]bool{
	"status":            true,
	"submitted_at":      true,
	"reviewed_at":       true,
	"total_assets":      true,
	"total_liabilities": true,
	"net_worth":         true,
}

type applicationRepository struct {
	db *sqlx.DB
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *sqlx.DB) *applicationRepository {
	return &applicationRepository{db: db}
}

func (repo applicationRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return application.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	app.ID = uuid.New().String()

	draft, err := json.Marshal(app.Draft)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "marshalling draft snapshot")
	}
	docs, err := json.Marshal(app.Documents)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "marshalling document metadata")
	}

	query := `
		INSERT INTO bursary_application
			(id, applicant_id, draft, documents, total_assets, total_liabilities, net_worth, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = repo.db.ExecContext(ctx, query,
		app.ID, app.ApplicantID, draft, docs,
		app.TotalAssets, app.TotalLiabilities, app.NetWorth,
		string(app.Status), app.SubmittedAt.UTC(),
	)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo applicationRepository) QueryApplications(ctx context.Context, filter *application.QueryFilter, ordering []core.DBOrdering) ([]application.Application, error) {
	query := `SELECT * FROM bursary_application`
	var conds []string
	var args argList

	if filter != nil {
		if filter.Status != "" {
			conds = append(conds, "status = "+args.add(string(filter.Status)))
		}
		if filter.ApplicantID != "" {
			conds = append(conds, "applicant_id = "+args.add(filter.ApplicantID))
		}
		if !filter.SubmittedFrom.IsZero() {
			conds = append(conds, "submitted_at >= "+args.add(filter.SubmittedFrom.UTC()))
		}
		if !filter.SubmittedTo.IsZero() {
			conds = append(conds, "submitted_at <= "+args.add(filter.SubmittedTo.UTC()))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + joinAnd(conds)
	}
	query += orderClause(ordering, applicationSortable)

	var rows []dbApplication
	if err := repo.db.SelectContext(ctx, &rows, query, args.args...); err != nil {
		return nil, errors.Wrap(err, "querying applications")
	}

	apps := make([]application.Application, 0, len(rows))
	for _, row := range rows {
		app, err := row.toCore()
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (repo applicationRepository) GetApplication(ctx context.Context, id string) (application.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return application.Application{}, application.ErrNotFound
	}

	var row dbApplication
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM bursary_application WHERE id = $1`, id)
	if err != nil {
		return application.Application{}, repo.trapNoRowsErr(err, "finding application")
	}
	return row.toCore()
}

func (repo applicationRepository) UpdateApplicationStatus(ctx context.Context, app application.Application) (application.Application, error) {
	query := `
		UPDATE bursary_application SET
			status      = $2,
			reviewer_id = $3,
			review_note = $4,
			reviewed_at = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		app.ID, string(app.Status),
		null.NewString(app.ReviewerID, app.ReviewerID != ""),
		app.ReviewNote,
		null.NewTime(app.ReviewedAt.UTC(), !app.ReviewedAt.IsZero()),
	)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "updating application status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return application.Application{}, application.ErrNotFound
	}
	return app, nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/donation"
)

type dbDonation struct {
	ID               string          `db:"id"`
	DonorID          null.String     `db:"donor_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Method           string          `db:"method"`
	Reference        string          `db:"reference"`
	IsAnonymous      bool            `db:"is_anonymous"`
	Message          string          `db:"message"`
	Status           string          `db:"status"`
	ProofFilename    null.String     `db:"proof_filename"`
	ProofContentType null.String     `db:"proof_content_type"`
	Proof            []byte          `db:"proof"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (d dbDonation) toCore() donation.Donation {
	return donation.Donation{
		ID:               d.ID,
		DonorID:          d.DonorID.String,
		Amount:           d.Amount,
		Currency:         d.Currency,
		Method:           donation.Method(d.Method),
		Reference:        d.Reference,
		IsAnonymous:      d.IsAnonymous,
		Message:          d.Message,
		Status:           donation.Status(d.Status),
		ProofFilename:    d.ProofFilename.String,
		ProofContentType: d.ProofContentType.String,
		Proof:            d.Proof,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

var donationSortable = map[string]bool{
	"amount":     true,
	"currency":   true,
	"method":     true,
	"reference":  true,
	"status":     true,
	"created_at": true,
}

type donationRepository struct {
	db *sqlx.DB
}

var _ donation.Repository = (*donationRepository)(nil) // interface compliance check

func NewDonationRepository(db *sqlx.DB) *donationRepository {
	return &donationRepository{db: db}
}

func (repo donationRepository) CreateDonation(ctx context.Context, don donation.Donation) (donation.Donation, error) {
	don.ID = uuid.New().String()
	now := time.Now().UTC()
	don.CreatedAt, don.UpdatedAt = now, now

	query := `
		INSERT INTO donation
			(id, donor_id, amount, currency, method, reference, is_anonymous, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(ctx, query,
		don.ID, null.NewString(don.DonorID, don.DonorID != ""),
		don.Amount, don.Currency, string(don.Method), don.Reference,
		don.IsAnonymous, don.Message, string(don.Status), don.CreatedAt, don.UpdatedAt,
	)
	if err != nil {
		return donation.Donation{}, errors.Wrap(err, "inserting donation")
	}
	return don, nil
}

func (repo donationRepository) QueryDonations(ctx context.Context, filter *donation.QueryFilter, ordering []core.DBOrdering) ([]donation.Donation, error) {
	query := `SELECT * FROM donation`
	var conds []string
	var args argList

	if filter != nil {
		if filter.DonorID != "" {
			conds = append(conds, "donor_id = "+args.add(filter.DonorID))
		}
		if filter.Method != "" {
			conds = append(conds, "method = "+args.add(string(filter.Method)))
		}
		if filter.Status != "" {
			conds = append(conds, "status = "+args.add(string(filter.Status)))
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, "created_at >= "+args.add(filter.CreatedFrom.UTC()))
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, "created_at <= "+args.add(filter.CreatedTo.UTC()))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + joinAnd(conds)
	}
	query += orderClause(ordering, donationSortable)

	var rows []dbDonation
	if err := repo.db.SelectContext(ctx, &rows, query, args.args...); err != nil {
		return nil, errors.Wrap(err, "querying donations")
	}

	donations := make([]donation.Donation, 0, len(rows))
	for _, row := range rows {
		donations = append(donations, row.toCore())
	}
	return donations, nil
}

func (repo donationRepository) GetDonation(ctx context.Context, id string) (donation.Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return donation.Donation{}, donation.ErrNotFound
	}

	var row dbDonation
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM donation WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return donation.Donation{}, donation.ErrNotFound
		}
		return donation.Donation{}, errors.Wrap(err, "finding donation")
	}
	return row.toCore(), nil
}

func (repo donationRepository) UpdateDonation(ctx context.Context, don donation.Donation) (donation.Donation, error) {
	don.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE donation SET
			status             = $2,
			proof_filename     = $3,
			proof_content_type = $4,
			proof              = COALESCE($5, proof),
			updated_at         = $6
		WHERE id = $1`
	var proof interface{}
	if len(don.Proof) > 0 {
		proof = don.Proof
	}
	res, err := repo.db.ExecContext(ctx, query,
		don.ID, string(don.Status),
		null.NewString(don.ProofFilename, don.ProofFilename != ""),
		null.NewString(don.ProofContentType, don.ProofContentType != ""),
		proof, don.UpdatedAt,
	)
	if err != nil {
		return donation.Donation{}, errors.Wrap(err, "updating donation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return donation.Donation{}, donation.ErrNotFound
	}
	return don, nil
}

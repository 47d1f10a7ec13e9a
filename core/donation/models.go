package donation

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/charbel-francis/saleaf/core"
)

// Currency is fixed; the platform only accepts South African Rand.
const Currency = "ZAR"

// Method distinguishes gateway-initiated donations from manual EFTs.
type Method string

const (
	MethodOnline Method = "online"
	MethodManual Method = "manual"
)

// Status tracks a donation through verification. Online donations are
// verified on creation; manual ones once proof of payment is reviewed.
type Status string

const (
	StatusPendingVerification Status = "pending_verification"
	StatusVerified            Status = "verified"
)

type Donation struct {
	ID      string `json:"id"`
	DonorID string `json:"donor_id,omitempty"` // empty for anonymous donations

	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      Method          `json:"method"`
	Reference   string          `json:"reference"` // Section 18A receipt reference
	IsAnonymous bool            `json:"is_anonymous"`
	Message     string          `json:"message,omitempty"`

	Status Status `json:"status"`

	ProofFilename    string `json:"proof_filename,omitempty"`
	ProofContentType string `json:"proof_content_type,omitempty"`
	Proof            []byte `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d Donation) HasProof() bool { return len(d.Proof) > 0 }

var errNonPositiveAmount = errors.New("donation amount must be greater than zero")

// NewDonation is all the info needed to record a donation.
type NewDonation struct {
	Amount      decimal.Decimal `json:"amount"`
	IsAnonymous bool            `json:"is_anonymous"`
	Message     string          `json:"message" validate:"max=1000"`
}

func (nd *NewDonation) Validate() error {
	nd.Message = core.CleanString(nd.Message)
	if err := core.Validate.Struct(nd); err != nil {
		return err
	}
	if !nd.Amount.IsPositive() {
		return core.NewValidationError(errNonPositiveAmount,
			core.FieldError{Field: "amount", Error: errNonPositiveAmount.Error()})
	}
	return nil
}

// QueryFilter narrows admin donation listings; fields combine with AND.
type QueryFilter struct {
	DonorID     string    `query:"donor_id"`
	Method      Method    `query:"method"`
	Status      Status    `query:"status"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.DonorID == "" && qf.Method == "" && qf.Status == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

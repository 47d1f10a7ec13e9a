package application

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/charbel-francis/saleaf/core"
)

// Status of a submitted application through admin review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Applicant identifies the submitting student for persistence and notification.
type Applicant struct {
	ID    string
	Name  string
	Email string
}

// StoredDocument is the persisted metadata of a submitted supporting document.
type StoredDocument struct {
	Field       DocumentField `json:"field"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
}

// Application is a submitted bursary application.
type Application struct {
	ID          string `json:"id"`
	ApplicantID string `json:"applicant_id"`

	Draft     Draft            `json:"draft"` // snapshot at submission time
	Documents []StoredDocument `json:"documents"`

	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`

	Status      Status    `json:"status"`
	ReviewerID  string    `json:"reviewer_id,omitempty"`
	ReviewNote  string    `json:"review_note,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
	ReviewedAt  time.Time `json:"reviewed_at"`  // UTC; zero until reviewed
}

// StatusUpdate is what an admin may provide when reviewing an application.
type StatusUpdate struct {
	Status Status `json:"status"`
	Note   string `json:"note"`
}

var errUnknownStatus = errors.New("unknown application status")

func (su *StatusUpdate) Validate() error {
	su.Note = core.CleanString(su.Note)
	if !su.Status.IsValid() {
		return core.NewValidationError(errUnknownStatus,
			core.FieldError{Field: "status", Error: errUnknownStatus.Error()})
	}
	return nil
}

// QueryFilter narrows admin application listings; fields combine with AND.
type QueryFilter struct {
	Status        Status    `query:"status"`
	ApplicantID   string    `query:"applicant_id"`
	SubmittedFrom time.Time `query:"submitted_from"`
	SubmittedTo   time.Time `query:"submitted_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Status == "" && qf.ApplicantID == "" && qf.SubmittedFrom.IsZero() && qf.SubmittedTo.IsZero()
}

package event

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/charbel-francis/saleaf/core"
)

type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	StartDate   time.Time       `json:"start_date"` // UTC
	EndDate     time.Time       `json:"end_date"`   // UTC
	Capacity    int             `json:"capacity"`   // 0 means unlimited
	TicketPrice decimal.Decimal `json:"ticket_price"`
	IsPublished bool            `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the event has not yet ended at the given instant.
// Events spanning now are upcoming, not past.
func (e Event) IsUpcoming(now time.Time) bool {
	end := e.EndDate
	if end.IsZero() {
		end = e.StartDate
	}
	return !end.Before(now)
}

// SplitByDate partitions events into upcoming and past relative to now,
// preserving the input order within each group.
func SplitByDate(events []Event, now time.Time) (upcoming, past []Event) {
	upcoming, past = []Event{}, []Event{}
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	return upcoming, past
}

// NewEvent is all the info needed to publish an event.
type NewEvent struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"max=5000"`
	Location    string          `json:"location" validate:"required"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	EndDate     time.Time       `json:"end_date"`
	Capacity    int             `json:"capacity" validate:"min=0"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	IsPublished bool            `json:"is_published"`
}

var (
	errEndsBeforeStart     = errors.New("end date cannot precede the start date")
	errNegativeTicketPrice = errors.New("ticket price cannot be negative")
)

func endsBeforeStartError() error {
	return core.NewValidationError(errEndsBeforeStart,
		core.FieldError{Field: "end_date", Error: errEndsBeforeStart.Error()})
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)

	if err := core.Validate.Struct(ne); err != nil {
		return err
	}
	if !ne.EndDate.IsZero() && ne.EndDate.Before(ne.StartDate) {
		return endsBeforeStartError()
	}
	if ne.TicketPrice.IsNegative() {
		return core.NewValidationError(errNegativeTicketPrice,
			core.FieldError{Field: "ticket_price", Error: errNegativeTicketPrice.Error()})
	}
	return nil
}

// UpdateEvent is what an admin may change on an event. Omitted fields keep
// their original values.
type UpdateEvent struct {
	Title       string           `json:"title"`
	Description string           `json:"description" validate:"max=5000"`
	Location    string           `json:"location"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Capacity    *int             `json:"capacity"`
	TicketPrice *decimal.Decimal `json:"ticket_price"`
	IsPublished *bool            `json:"is_published"`
}

func (ue *UpdateEvent) Validate(orig Event) error {
	ue.Title = core.CleanString(ue.Title)
	if ue.Title == "" {
		ue.Title = orig.Title
	}
	ue.Description = core.CleanString(ue.Description)
	if ue.Description == "" {
		ue.Description = orig.Description
	}
	ue.Location = core.CleanString(ue.Location)
	if ue.Location == "" {
		ue.Location = orig.Location
	}
	if ue.StartDate.IsZero() {
		ue.StartDate = orig.StartDate
	}
	if ue.EndDate.IsZero() {
		ue.EndDate = orig.EndDate
	}
	if ue.Capacity == nil {
		ue.Capacity = &orig.Capacity
	}
	if ue.TicketPrice == nil {
		ue.TicketPrice = &orig.TicketPrice
	}
	if ue.IsPublished == nil {
		ue.IsPublished = &orig.IsPublished
	}

	if err := core.Validate.Struct(ue); err != nil {
		return err
	}
	if !ue.EndDate.IsZero() && ue.EndDate.Before(ue.StartDate) {
		return endsBeforeStartError()
	}
	return nil
}

// Registration records a user's attendance at an event.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type NewRegistration struct {
	EventID      string `json:"event_id" validate:"required"`
	Participants int    `json:"participants" validate:"min=1"`
}

func (nr *NewRegistration) Validate() error {
	nr.EventID = core.CleanString(nr.EventID)
	if nr.Participants == 0 {
		nr.Participants = 1
	}
	return core.Validate.Struct(nr)
}

// QueryFilter narrows event listings; fields combine with AND.
type QueryFilter struct {
	Search      string `query:"search"`
	IsPublished *bool  `query:"is_published"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IsPublished == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

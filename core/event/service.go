package event

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"github.com/charbel-francis/saleaf/core"
)

var (
	// errors
	ErrNotFound             = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrEventFull            = errors.New("event is fully booked")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrEventEnded           = errors.New("event has already ended")
)

// for mocking
var nowFunc = time.Now

const ticketQRSize = 256 // px

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEvents applies AND operation on available QueryFilter fields.
		QueryEvents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error)
		GetEvent(ctx context.Context, id string) (Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)

		CreateRegistration(ctx context.Context, reg Registration) (Registration, error)
		GetRegistration(ctx context.Context, eventID, userID string) (Registration, error)
		QueryRegistrationsByUser(ctx context.Context, userID string) ([]Registration, error)
		CountRegistrations(ctx context.Context, eventID string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	evt := Event{
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		StartDate:   ne.StartDate.UTC(),
		EndDate:     ne.EndDate.UTC(),
		Capacity:    ne.Capacity,
		TicketPrice: ne.TicketPrice,
		IsPublished: ne.IsPublished,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, filter, ordering)
}

// LatestThree returns the three most recently starting published events.
func (svc *Service) LatestThree(ctx context.Context) ([]Event, error) {
	published := true
	events, err := svc.repo.QueryEvents(ctx,
		&QueryFilter{IsPublished: &published},
		[]core.DBOrdering{{Field: "start_date"}}, // most recent first
	)
	if err != nil {
		return nil, err
	}
	if len(events) > 3 {
		events = events[:3]
	}
	return events, nil
}

// Split returns published events partitioned into upcoming and past.
func (svc *Service) Split(ctx context.Context) (upcoming, past []Event, err error) {
	published := true
	events, err := svc.repo.QueryEvents(ctx,
		&QueryFilter{IsPublished: &published},
		[]core.DBOrdering{{Field: "start_date", Ascending: true}},
	)
	if err != nil {
		return nil, nil, err
	}
	upcoming, past = SplitByDate(events, nowFunc().UTC())
	return upcoming, past, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err = ue.Validate(evt); err != nil {
		return Event{}, err
	}

	evt.Title = ue.Title
	evt.Description = ue.Description
	evt.Location = ue.Location
	evt.StartDate = ue.StartDate.UTC()
	evt.EndDate = ue.EndDate.UTC()
	evt.Capacity = *ue.Capacity
	evt.TicketPrice = *ue.TicketPrice
	evt.IsPublished = *ue.IsPublished
	return svc.repo.UpdateEvent(ctx, evt)
}

// Register books a user onto an event, enforcing the capacity ceiling and
// one registration per user per event.
func (svc *Service) Register(ctx context.Context, userID string, nr NewRegistration) (Registration, error) {
	evt, err := svc.repo.GetEvent(ctx, nr.EventID)
	if err != nil {
		return Registration{}, err
	}
	if !evt.IsUpcoming(nowFunc().UTC()) {
		return Registration{}, ErrEventEnded
	}

	if _, err = svc.repo.GetRegistration(ctx, evt.ID, userID); err == nil {
		return Registration{}, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrRegistrationNotFound) {
		return Registration{}, err
	}

	if evt.Capacity > 0 {
		count, err := svc.repo.CountRegistrations(ctx, evt.ID)
		if err != nil {
			return Registration{}, err
		}
		if count+nr.Participants > evt.Capacity {
			return Registration{}, ErrEventFull
		}
	}

	reg := Registration{
		EventID:      evt.ID,
		UserID:       userID,
		Participants: nr.Participants,
	}
	return svc.repo.CreateRegistration(ctx, reg)
}

func (svc *Service) RegistrationsFor(ctx context.Context, userID string) ([]Registration, error) {
	return svc.repo.QueryRegistrationsByUser(ctx, userID)
}

// TicketQR renders the user's ticket for the event as a PNG QR code. The
// payload carries the registration identity so gate staff can verify it.
func (svc *Service) TicketQR(ctx context.Context, eventID, userID string) ([]byte, error) {
	reg, err := svc.repo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	payload := fmt.Sprintf("saleaf:ticket:%s:%s:%d", reg.EventID, reg.ID, reg.Participants)
	png, err := qrcode.Encode(payload, qrcode.Medium, ticketQRSize)
	if err != nil {
		return nil, errors.Wrap(err, "encoding ticket QR code")
	}
	return png, nil
}

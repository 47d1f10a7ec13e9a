package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		events = append(events, *evt)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	evt.ID = uuid.New().String()
	now := time.Now().UTC()
	evt.CreatedAt, evt.UpdatedAt = now, now
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context, filter *event.QueryFilter, ordering []core.DBOrdering) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := repo.query()
	if len(ordering) > 0 && ordering[0].Field == "start_date" {
		asc := ordering[0].Ascending
		sort.Slice(events, func(i, j int) bool {
			if asc {
				return events[i].StartDate.Before(events[j].StartDate)
			}
			return events[j].StartDate.Before(events[i].StartDate)
		})
	}

	if filter == nil || filter.IsEmpty() {
		return events, nil
	}

	res := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(evt.Title), search) &&
				!strings.Contains(strings.ToLower(evt.Description), search) &&
				!strings.Contains(strings.ToLower(evt.Location), search) {
				continue
			}
		}
		if filter.IsPublished != nil && evt.IsPublished != *filter.IsPublished {
			continue
		}
		res = append(res, evt)
	}
	return res, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.events[evt.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	evt.UpdatedAt = time.Now().UTC()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) CreateRegistration(ctx context.Context, reg event.Registration) (event.Registration, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()
	repo.db.registrations[reg.ID] = &reg
	return reg, nil
}

func (repo *eventRepository) GetRegistration(ctx context.Context, eventID, userID string) (event.Registration, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, reg := range repo.db.registrations {
		if reg.EventID == eventID && reg.UserID == userID {
			return *reg, nil
		}
	}
	return event.Registration{}, event.ErrRegistrationNotFound
}

func (repo *eventRepository) QueryRegistrationsByUser(ctx context.Context, userID string) ([]event.Registration, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	regs := make([]event.Registration, 0)
	for _, reg := range repo.db.registrations {
		if reg.UserID == userID {
			regs = append(regs, *reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[j].CreatedAt.Before(regs[i].CreatedAt) })
	return regs, nil
}

func (repo *eventRepository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, reg := range repo.db.registrations {
		if reg.EventID == eventID {
			count += reg.Participants
		}
	}
	return count, nil
}

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
	"github.com/charbel-francis/saleaf/core/event"
)

type dbEvent struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Location    string          `db:"location"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     null.Time       `db:"end_date"`
	Capacity    int             `db:"capacity"`
	TicketPrice decimal.Decimal `db:"ticket_price"`
	IsPublished bool            `db:"is_published"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (e dbEvent) toCore() event.Event {
	return event.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate.Time,
		Capacity:    e.Capacity,
		TicketPrice: e.TicketPrice,
		IsPublished: e.IsPublished,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type dbRegistration struct {
	ID           string    `db:"id"`
	EventID      string    `db:"event_id"`
	UserID       string    `db:"user_id"`
	Participants int       `db:"participants"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r dbRegistration) toCore() event.Registration {
	return event.Registration(r)
}

var eventSortable = map[string]bool{
	"title":        true,
	"location":     true,
	"start_date":   true,
	"end_date":     true,
	"capacity":     true,
	"ticket_price": true,
	"is_published": true,
	"created_at":   true,
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.New().String()
	now := time.Now().UTC()
	evt.CreatedAt, evt.UpdatedAt = now, now

	query := `
		INSERT INTO event
			(id, title, description, location, start_date, end_date, capacity, ticket_price, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(ctx, query,
		evt.ID, evt.Title, evt.Description, evt.Location,
		evt.StartDate.UTC(), null.NewTime(evt.EndDate.UTC(), !evt.EndDate.IsZero()),
		evt.Capacity, evt.TicketPrice, evt.IsPublished, evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo eventRepository) QueryEvents(ctx context.Context, filter *event.QueryFilter, ordering []core.DBOrdering) ([]event.Event, error) {
	query := `SELECT * FROM event`
	var conds []string
	var args argList

	if filter != nil {
		if filter.Search != "" {
			p := args.add("%" + filter.Search + "%")
			conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+" OR location ILIKE "+p+")")
		}
		if filter.IsPublished != nil {
			conds = append(conds, "is_published = "+args.add(*filter.IsPublished))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + joinAnd(conds)
	}
	query += orderClause(ordering, eventSortable)

	var rows []dbEvent
	if err := repo.db.SelectContext(ctx, &rows, query, args.args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}

	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toCore())
	}
	return events, nil
}

func (repo eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}

	var row dbEvent
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM event WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "finding event")
	}
	return row.toCore(), nil
}

func (repo eventRepository) UpdateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE event SET
			title        = $2,
			description  = $3,
			location     = $4,
			start_date   = $5,
			end_date     = $6,
			capacity     = $7,
			ticket_price = $8,
			is_published = $9,
			updated_at   = $10
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		evt.ID, evt.Title, evt.Description, evt.Location,
		evt.StartDate.UTC(), null.NewTime(evt.EndDate.UTC(), !evt.EndDate.IsZero()),
		evt.Capacity, evt.TicketPrice, evt.IsPublished, evt.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}

func (repo eventRepository) CreateRegistration(ctx context.Context, reg event.Registration) (event.Registration, error) {
	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO event_registration (id, event_id, user_id, participants, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, query, reg.ID, reg.EventID, reg.UserID, reg.Participants, reg.CreatedAt)
	if err != nil {
		return event.Registration{}, errors.Wrap(err, "inserting registration")
	}
	return reg, nil
}

func (repo eventRepository) GetRegistration(ctx context.Context, eventID, userID string) (event.Registration, error) {
	var row dbRegistration
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM event_registration WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Registration{}, event.ErrRegistrationNotFound
		}
		return event.Registration{}, errors.Wrap(err, "finding registration")
	}
	return row.toCore(), nil
}

func (repo eventRepository) QueryRegistrationsByUser(ctx context.Context, userID string) ([]event.Registration, error) {
	var rows []dbRegistration
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM event_registration WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying registrations")
	}

	regs := make([]event.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, row.toCore())
	}
	return regs, nil
}

func (repo eventRepository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT COALESCE(SUM(participants), 0) FROM event_registration WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, errors.Wrap(err, "counting registrations")
	}
	return count, nil
}

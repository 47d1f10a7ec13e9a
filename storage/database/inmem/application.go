package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/application"
)

type applicationRepository struct {
	db *DB
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *DB) *applicationRepository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) query() []application.Application {
	apps := make([]application.Application, 0, len(repo.db.applications))
	for _, app := range repo.db.applications {
		apps = append(apps, *app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].SubmittedAt.Before(apps[j].SubmittedAt) })
	return apps
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	app.ID = uuid.New().String()
	repo.db.applications[app.ID] = &app
	return app, nil
}

func (repo *applicationRepository) QueryApplications(ctx context.Context, filter *application.QueryFilter, ordering []core.DBOrdering) ([]application.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	apps := repo.query()
	if filter == nil || filter.IsEmpty() {
		return apps, nil
	}

	res := make([]application.Application, 0, len(apps))
	for _, app := range apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.ApplicantID != "" && app.ApplicantID != filter.ApplicantID {
			continue
		}
		if !filter.SubmittedFrom.IsZero() && app.SubmittedAt.Before(filter.SubmittedFrom) {
			continue
		}
		if !filter.SubmittedTo.IsZero() && app.SubmittedAt.After(filter.SubmittedTo) {
			continue
		}
		res = append(res, app)
	}
	return res, nil
}

func (repo *applicationRepository) GetApplication(ctx context.Context, id string) (application.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if app, ok := repo.db.applications[id]; ok {
		return *app, nil
	}
	return application.Application{}, application.ErrNotFound
}

func (repo *applicationRepository) UpdateApplicationStatus(ctx context.Context, app application.Application) (application.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.applications[app.ID]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	orig.Status = app.Status
	orig.ReviewerID = app.ReviewerID
	orig.ReviewNote = app.ReviewNote
	orig.ReviewedAt = app.ReviewedAt
	return *orig, nil
}

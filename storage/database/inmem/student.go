package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/charbel-francis/saleaf/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prof.ID = uuid.New().String()
	now := time.Now().UTC()
	prof.CreatedAt, prof.UpdatedAt = now, now
	repo.db.profiles[prof.ID] = &prof
	return prof, nil
}

func (repo *studentRepository) GetProfileByUserID(ctx context.Context, userID string) (student.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prof := range repo.db.profiles {
		if prof.UserID == userID {
			return *prof, nil
		}
	}
	return student.Profile{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.profiles[prof.ID]; !ok {
		return student.Profile{}, student.ErrNotFound
	}
	prof.UpdatedAt = time.Now().UTC()
	repo.db.profiles[prof.ID] = &prof
	return prof, nil
}

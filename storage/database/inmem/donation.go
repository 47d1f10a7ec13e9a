package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/donation"
)

type donationRepository struct {
	db *DB
}

var _ donation.Repository = (*donationRepository)(nil) // interface compliance check

func NewDonationRepository(db *DB) *donationRepository {
	return &donationRepository{db: db}
}

func (repo *donationRepository) query() []donation.Donation {
	donations := make([]donation.Donation, 0, len(repo.db.donations))
	for _, don := range repo.db.donations {
		donations = append(donations, *don)
	}
	sort.Slice(donations, func(i, j int) bool { return donations[i].CreatedAt.Before(donations[j].CreatedAt) })
	return donations
}

func (repo *donationRepository) CreateDonation(ctx context.Context, don donation.Donation) (donation.Donation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	don.ID = uuid.New().String()
	now := time.Now().UTC()
	don.CreatedAt, don.UpdatedAt = now, now
	repo.db.donations[don.ID] = &don
	return don, nil
}

func (repo *donationRepository) QueryDonations(ctx context.Context, filter *donation.QueryFilter, ordering []core.DBOrdering) ([]donation.Donation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	donations := repo.query()
	if filter == nil || filter.IsEmpty() {
		return donations, nil
	}

	res := make([]donation.Donation, 0, len(donations))
	for _, don := range donations {
		if filter.DonorID != "" && don.DonorID != filter.DonorID {
			continue
		}
		if filter.Method != "" && don.Method != filter.Method {
			continue
		}
		if filter.Status != "" && don.Status != filter.Status {
			continue
		}
		if !filter.CreatedFrom.IsZero() && don.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && don.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		res = append(res, don)
	}
	return res, nil
}

func (repo *donationRepository) GetDonation(ctx context.Context, id string) (donation.Donation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if don, ok := repo.db.donations[id]; ok {
		return *don, nil
	}
	return donation.Donation{}, donation.ErrNotFound
}

func (repo *donationRepository) UpdateDonation(ctx context.Context, don donation.Donation) (donation.Donation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.donations[don.ID]; !ok {
		return donation.Donation{}, donation.ErrNotFound
	}
	don.UpdatedAt = time.Now().UTC()
	repo.db.donations[don.ID] = &don
	return don, nil
}

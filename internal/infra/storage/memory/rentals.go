package memory

import (
	"context"
	"sync"

	domainrentals "vacationrental/internal/domain/rentals"
)

// RentalRepository keeps rentals in memory and issues ids from 1.
type RentalRepository struct {
	mu     sync.RWMutex
	nextID domainrentals.RentalID
	items  map[domainrentals.RentalID]*domainrentals.Rental
}

func NewRentalRepository() *RentalRepository {
	return &RentalRepository{
		nextID: 1,
		items:  make(map[domainrentals.RentalID]*domainrentals.Rental),
	}
}

// ByID returns a copy of the stored rental.
func (r *RentalRepository) ByID(ctx context.Context, id domainrentals.RentalID) (*domainrentals.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rental, ok := r.items[id]
	if !ok {
		return nil, domainrentals.ErrRentalNotFound
	}
	return rental.Clone(), nil
}

// ByIDForUpdate relies on the unit of work's exclusive lock for isolation.
func (r *RentalRepository) ByIDForUpdate(ctx context.Context, id domainrentals.RentalID) (*domainrentals.Rental, error) {
	return r.ByID(ctx, id)
}

func (r *RentalRepository) Create(ctx context.Context, rental *domainrentals.Rental) (domainrentals.RentalID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := rental.Clone()
	stored.ID = id
	stored.Version = 1
	r.items[id] = stored
	rental.Version = stored.Version
	return id, nil
}

func (r *RentalRepository) Update(ctx context.Context, rental *domainrentals.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[rental.ID]
	if !ok {
		return domainrentals.ErrRentalNotFound
	}
	stored := rental.Clone()
	stored.Version = current.Version + 1
	r.items[rental.ID] = stored
	rental.Version = stored.Version
	return nil
}

func (r *RentalRepository) restore(id domainrentals.RentalID, previous *domainrentals.Rental) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if previous == nil {
		delete(r.items, id)
		return
	}
	r.items[id] = previous
}

func (r *RentalRepository) snapshot(id domainrentals.RentalID) *domainrentals.Rental {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id].Clone()
}

package memory

import (
	"context"
	"sync"

	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

// BookingRepository keeps bookings in memory with a per-rental index in
// creation order.
type BookingRepository struct {
	mu       sync.RWMutex
	nextID   domainbooking.BookingID
	items    map[domainbooking.BookingID]*domainbooking.Booking
	byRental map[domainrentals.RentalID][]domainbooking.BookingID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		nextID:   1,
		items:    make(map[domainbooking.BookingID]*domainbooking.Booking),
		byRental: make(map[domainrentals.RentalID][]domainbooking.BookingID),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) ListByRental(ctx context.Context, rentalID domainrentals.RentalID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byRental[rentalID]
	out := make([]*domainbooking.Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) (domainbooking.BookingID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := b.Clone()
	stored.ID = id
	r.items[id] = stored
	r.byRental[stored.RentalID] = append(r.byRental[stored.RentalID], id)
	return id, nil
}

// remove undoes Create. The id is not reissued.
func (r *BookingRepository) remove(id domainbooking.BookingID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return
	}
	delete(r.items, id)
	ids := r.byRental[b.RentalID]
	for i, candidate := range ids {
		if candidate == id {
			r.byRental[b.RentalID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

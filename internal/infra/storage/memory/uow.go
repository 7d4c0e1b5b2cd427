package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "vacationrental/internal/app/outbox"
	"vacationrental/internal/app/uow"
	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

var (
	ErrUnitClosed = errors.New("memory: unit of work already finished")
	ErrReadOnly   = errors.New("memory: write in read-only unit of work")
)

// Store groups the in-memory collections shared by all units of work.
type Store struct {
	Rentals  *RentalRepository
	Bookings *BookingRepository
	Outbox   *OutboxStore

	// mu serialises write units; read-only units share it.
	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		Rentals:  NewRentalRepository(),
		Bookings: NewBookingRepository(),
		Outbox:   NewOutboxStore(),
	}
}

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Begin blocks until the store lock is available. A write unit holds it
// exclusively until Commit or Rollback, so a capacity check and the write it
// guards cannot interleave with another writer.
func (f *UnitOfWorkFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.ReadOnly {
		f.store.mu.RLock()
	} else {
		f.store.mu.Lock()
	}
	return &unitOfWork{store: f.store, readOnly: opts.ReadOnly}, nil
}

type unitOfWork struct {
	store    *Store
	readOnly bool
	done     bool
	undo     []func()
	staged   []appoutbox.EventRecord
}

func (u *unitOfWork) Rentals() domainrentals.Repository {
	return rentalsInUnit{RentalRepository: u.store.Rentals, unit: u}
}

func (u *unitOfWork) Bookings() domainbooking.Repository {
	return bookingsInUnit{BookingRepository: u.store.Bookings, unit: u}
}

func (u *unitOfWork) Outbox() appoutbox.Outbox {
	return outboxInUnit{unit: u}
}

// Commit publishes staged outbox records and releases the store.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitClosed
	}
	u.store.Outbox.append(u.staged)
	u.finish()
	return nil
}

// Rollback reverts this unit's writes in reverse order. Safe to call after Commit.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.done = true
	u.undo = nil
	u.staged = nil
	if u.readOnly {
		u.store.mu.RUnlock()
	} else {
		u.store.mu.Unlock()
	}
}

func (u *unitOfWork) writable() error {
	if u.done {
		return ErrUnitClosed
	}
	if u.readOnly {
		return ErrReadOnly
	}
	return nil
}

type rentalsInUnit struct {
	*RentalRepository
	unit *unitOfWork
}

func (r rentalsInUnit) Create(ctx context.Context, rental *domainrentals.Rental) (domainrentals.RentalID, error) {
	if err := r.unit.writable(); err != nil {
		return 0, err
	}
	id, err := r.RentalRepository.Create(ctx, rental)
	if err != nil {
		return 0, err
	}
	r.unit.undo = append(r.unit.undo, func() { r.restore(id, nil) })
	return id, nil
}

func (r rentalsInUnit) Update(ctx context.Context, rental *domainrentals.Rental) error {
	if err := r.unit.writable(); err != nil {
		return err
	}
	previous := r.snapshot(rental.ID)
	if err := r.RentalRepository.Update(ctx, rental); err != nil {
		return err
	}
	r.unit.undo = append(r.unit.undo, func() { r.restore(rental.ID, previous) })
	return nil
}

type bookingsInUnit struct {
	*BookingRepository
	unit *unitOfWork
}

func (r bookingsInUnit) Create(ctx context.Context, b *domainbooking.Booking) (domainbooking.BookingID, error) {
	if err := r.unit.writable(); err != nil {
		return 0, err
	}
	id, err := r.BookingRepository.Create(ctx, b)
	if err != nil {
		return 0, err
	}
	r.unit.undo = append(r.unit.undo, func() { r.remove(id) })
	return id, nil
}

type outboxInUnit struct {
	unit *unitOfWork
}

func (o outboxInUnit) Add(ctx context.Context, record appoutbox.EventRecord) error {
	if err := o.unit.writable(); err != nil {
		return err
	}
	o.unit.staged = append(o.unit.staged, record)
	return nil
}

var _ uow.UoWFactory = (*UnitOfWorkFactory)(nil)

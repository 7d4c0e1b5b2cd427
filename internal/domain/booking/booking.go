package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vacationrental/internal/domain/rentals"
	"vacationrental/internal/domain/shared/daterange"
	"vacationrental/internal/domain/shared/errs"
	"vacationrental/internal/domain/shared/events"
)

//go:generate go run go.uber.org/mock/mockgen -source=booking.go -destination=mocks/repository.go -package=mocks

var (
	ErrInvalidNights   = fmt.Errorf("%w: booking: nights must be positive", errs.ErrInvalidInput)
	ErrInvalidID       = fmt.Errorf("%w: booking: booking id must be positive", errs.ErrInvalidInput)
	ErrMissingStart    = fmt.Errorf("%w: booking: start date is required", errs.ErrInvalidInput)
	ErrBookingNotFound = fmt.Errorf("%w: booking", errs.ErrNotFound)
	ErrUnavailable     = fmt.Errorf("%w: booking: not available", errs.ErrConflict)
)

type BookingID int

func (id BookingID) String() string { return strconv.Itoa(int(id)) }

func (id BookingID) Validate() error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

// Booking reserves one unit of a rental for Nights nights starting at Start.
// The checkout day, Start+Nights, is not occupied.
type Booking struct {
	ID        BookingID
	RentalID  rentals.RentalID
	Start     time.Time
	Nights    int
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ListByRental enumerates in creation order; calendar unit numbers depend on it.
	ListByRental(ctx context.Context, rentalID rentals.RentalID) ([]*Booking, error)
	Create(ctx context.Context, b *Booking) (BookingID, error)
}

type CreateParams struct {
	RentalID  rentals.RentalID
	Start     time.Time
	Nights    int
	CreatedAt time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Nights <= 0 {
		return nil, ErrInvalidNights
	}
	if err := params.RentalID.Validate(); err != nil {
		return nil, err
	}
	if params.Start.IsZero() {
		return nil, ErrMissingStart
	}
	return &Booking{
		RentalID:  params.RentalID,
		Start:     daterange.Day(params.Start),
		Nights:    params.Nights,
		CreatedAt: params.CreatedAt.UTC(),
	}, nil
}

func (b *Booking) End() time.Time {
	return b.Start.AddDate(0, 0, b.Nights)
}

func (b *Booking) Range() daterange.DateRange {
	return daterange.ForNights(b.Start, b.Nights)
}

// Assign sets the store-issued identity and records the creation event.
func (b *Booking) Assign(id BookingID) {
	b.ID = id
	b.Record(BookingCreated{
		BookingID: id,
		RentalID:  b.RentalID,
		Start:     b.Start,
		Nights:    b.Nights,
		At:        b.CreatedAt,
	})
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	return &Booking{
		ID:        b.ID,
		RentalID:  b.RentalID,
		Start:     b.Start,
		Nights:    b.Nights,
		CreatedAt: b.CreatedAt,
	}
}

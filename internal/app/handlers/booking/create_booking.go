package booking

import (
	"context"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/middleware"
	"vacationrental/internal/app/outbox"
	"vacationrental/internal/app/uow"
	"vacationrental/internal/domain/availability"
	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	RentalID        domainrentals.RentalID
	Start           time.Time
	Nights          int
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.ResourceID{} }

// CreateBookingHandler admits a booking when fewer than Units existing bookings
// conflict with it. The check and the insert share one unit of work.
type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.ResourceID, error) {
	candidate, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RentalID:  cmd.RentalID,
		Start:     cmd.Start,
		Nights:    cmd.Nights,
		CreatedAt: now(h.Now),
	})
	if err != nil {
		return nil, err
	}

	unit, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	rental, err := unit.Rentals().ByIDForUpdate(unit.Ctx, candidate.RentalID)
	if err != nil {
		return nil, err
	}
	existing, err := unit.Bookings().ListByRental(unit.Ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	if !availability.IsAvailable(availability.CapacityOf(rental), candidate, existing) {
		return nil, domainbooking.ErrUnavailable
	}

	id, err := unit.Bookings().Create(unit.Ctx, candidate)
	if err != nil {
		return nil, err
	}
	candidate.Assign(id)

	pending := candidate.PendingEvents()
	candidate.ClearEvents()
	if err := outbox.RecordDomainEvents(unit.Ctx, unit.Outbox(), h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := unit.Commit(); err != nil {
		return nil, err
	}
	return &dto.ResourceID{ID: int(id)}, nil
}

func now(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateBookingCommand, *dto.ResourceID] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}

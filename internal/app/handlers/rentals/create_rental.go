package rentals

import (
	"context"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/middleware"
	"vacationrental/internal/app/outbox"
	"vacationrental/internal/app/uow"
	domainrentals "vacationrental/internal/domain/rentals"
)

const createRentalKey = "rentals.create"

type CreateRentalCommand struct {
	Units                 int `validate:"min=0"`
	PreparationTimeInDays int `validate:"min=0"`
	IdempotencyKeyV       string
}

func (c CreateRentalCommand) Key() string { return createRentalKey }

func (c CreateRentalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateRentalCommand) ResultPrototype() any { return &dto.ResourceID{} }

type CreateRentalHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateRentalHandler) Handle(ctx context.Context, cmd CreateRentalCommand) (*dto.ResourceID, error) {
	rental, err := domainrentals.NewRental(domainrentals.CreateParams{
		Units:                 cmd.Units,
		PreparationTimeInDays: cmd.PreparationTimeInDays,
		CreatedAt:             now(h.Now),
	})
	if err != nil {
		return nil, err
	}

	unit, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	id, err := unit.Rentals().Create(unit.Ctx, rental)
	if err != nil {
		return nil, err
	}
	rental.Assign(id)

	pending := rental.PendingEvents()
	rental.ClearEvents()
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

var _ commands.Handler[CreateRentalCommand, *dto.ResourceID] = (*CreateRentalHandler)(nil)
var _ middleware.IdempotentCommand = CreateRentalCommand{}

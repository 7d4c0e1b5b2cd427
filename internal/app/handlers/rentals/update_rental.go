package rentals

import (
	"context"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/outbox"
	"vacationrental/internal/app/uow"
	"vacationrental/internal/domain/availability"
	domainrentals "vacationrental/internal/domain/rentals"
)

const updateRentalKey = "rentals.update"

type UpdateRentalCommand struct {
	RentalID              domainrentals.RentalID
	Units                 int `validate:"min=0"`
	PreparationTimeInDays int `validate:"min=0"`
}

func (c UpdateRentalCommand) Key() string { return updateRentalKey }

// UpdateRentalHandler changes a rental's capacity only if every existing
// booking still fits under it. A rejected update leaves the store untouched.
type UpdateRentalHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *UpdateRentalHandler) Handle(ctx context.Context, cmd UpdateRentalCommand) (*dto.Rental, error) {
	if err := domainrentals.ValidateConfig(cmd.Units, cmd.PreparationTimeInDays); err != nil {
		return nil, err
	}
	if err := cmd.RentalID.Validate(); err != nil {
		return nil, err
	}

	unit, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	rental, err := unit.Rentals().ByIDForUpdate(unit.Ctx, cmd.RentalID)
	if err != nil {
		return nil, err
	}
	existing, err := unit.Bookings().ListByRental(unit.Ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	proposed := availability.Capacity{Units: cmd.Units, PreparationDays: cmd.PreparationTimeInDays}
	if err := availability.Revalidate(proposed, existing); err != nil {
		return nil, err
	}

	if err := rental.Reconfigure(cmd.Units, cmd.PreparationTimeInDays, now(h.Now)); err != nil {
		return nil, err
	}
	if err := unit.Rentals().Update(unit.Ctx, rental); err != nil {
		return nil, err
	}

	pending := rental.PendingEvents()
	rental.ClearEvents()
	if err := outbox.RecordDomainEvents(unit.Ctx, unit.Outbox(), h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := unit.Commit(); err != nil {
		return nil, err
	}
	view := dto.MapRental(rental)
	return &view, nil
}

var _ commands.Handler[UpdateRentalCommand, *dto.Rental] = (*UpdateRentalHandler)(nil)

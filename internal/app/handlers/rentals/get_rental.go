package rentals

import (
	"context"

	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/queries"
	"vacationrental/internal/app/uow"
	domainrentals "vacationrental/internal/domain/rentals"
)

const getRentalKey = "rentals.get"

type GetRentalQuery struct {
	RentalID domainrentals.RentalID
}

func (q GetRentalQuery) Key() string { return getRentalKey }

type GetRentalHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRentalHandler) Handle(ctx context.Context, q GetRentalQuery) (*dto.Rental, error) {
	if err := q.RentalID.Validate(); err != nil {
		return nil, err
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rental, err := unit.Rentals().ByID(execCtx, q.RentalID)
	if err != nil {
		return nil, err
	}
	view := dto.MapRental(rental)
	return &view, nil
}

var _ queries.Handler[GetRentalQuery, *dto.Rental] = (*GetRentalHandler)(nil)

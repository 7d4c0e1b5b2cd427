package booking

import (
	"context"

	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/queries"
	"vacationrental/internal/app/uow"
	domainbooking "vacationrental/internal/domain/booking"
)

const getBookingKey = "booking.get"

type GetBookingQuery struct {
	BookingID domainbooking.BookingID
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (*dto.Booking, error) {
	if err := q.BookingID.Validate(); err != nil {
		return nil, err
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	b, err := unit.Bookings().ByID(execCtx, q.BookingID)
	if err != nil {
		return nil, err
	}
	view := dto.MapBooking(b)
	return &view, nil
}

var _ queries.Handler[GetBookingQuery, *dto.Booking] = (*GetBookingHandler)(nil)

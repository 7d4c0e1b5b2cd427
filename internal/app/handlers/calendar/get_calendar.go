package calendar

import (
	"context"
	"fmt"
	"time"

	"vacationrental/internal/app/dto"
	"vacationrental/internal/app/handlers/support"
	"vacationrental/internal/app/queries"
	"vacationrental/internal/app/uow"
	"vacationrental/internal/domain/availability"
	domainrentals "vacationrental/internal/domain/rentals"
)

const getCalendarKey = "calendar.get"

type GetCalendarQuery struct {
	RentalID domainrentals.RentalID
	Start    time.Time
	Nights   int
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler projects at most MaxNights days per read; zero means
// availability.DefaultMaxNights.
type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Projector  availability.Projector
	MaxNights  int
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (*dto.Calendar, error) {
	if q.Nights < 0 {
		return nil, availability.ErrNegativeNights
	}
	if limit := h.maxNights(); q.Nights > limit {
		return nil, fmt.Errorf("%w: %d > %d", availability.ErrTooManyNights, q.Nights, limit)
	}
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
	bookings, err := unit.Bookings().ListByRental(execCtx, rental.ID)
	if err != nil {
		return nil, err
	}
	cal, err := h.Projector.Project(rental, bookings, q.Start, q.Nights)
	if err != nil {
		return nil, err
	}
	view := dto.MapCalendar(cal)
	return &view, nil
}

func (h *GetCalendarHandler) maxNights() int {
	if h.MaxNights > 0 {
		return h.MaxNights
	}
	return availability.DefaultMaxNights
}

var _ queries.Handler[GetCalendarQuery, *dto.Calendar] = (*GetCalendarHandler)(nil)

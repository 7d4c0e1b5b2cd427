package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vacationrental/internal/domain/booking"
	"vacationrental/internal/domain/rentals"
	"vacationrental/internal/domain/shared/daterange"
	"vacationrental/internal/domain/shared/errs"
)

var (
	ErrNegativeNights   = fmt.Errorf("%w: calendar: nights must not be negative", errs.ErrInvalidInput)
	ErrUnknownNumbering = fmt.Errorf("%w: calendar: unknown unit numbering", errs.ErrInvalidInput)
	ErrTooManyNights    = fmt.Errorf("%w: calendar: nights exceeds the maximum", errs.ErrInvalidInput)
)

// DefaultMaxNights caps a calendar read at about ten years of days.
const DefaultMaxNights = 3660

// Numbering selects how calendar unit numbers are derived.
type Numbering string

const (
	// NumberingPositional numbers each booking by its position in the rental's
	// booking list. Stable across days, but two bookings sharing a unit number
	// says nothing about whether they could share a physical unit.
	NumberingPositional Numbering = "positional"
	// NumberingPacked gives each booking the lowest unit free at its check-in,
	// preparation days included.
	NumberingPacked Numbering = "packed"
)

func ParseNumbering(raw string) (Numbering, error) {
	switch Numbering(strings.ToLower(strings.TrimSpace(raw))) {
	case "", NumberingPositional:
		return NumberingPositional, nil
	case NumberingPacked:
		return NumberingPacked, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNumbering, raw)
	}
}

type BookedUnit struct {
	BookingID booking.BookingID
	Unit      int
}

type PreparationUnit struct {
	Unit int
}

type Day struct {
	Date             time.Time
	Bookings         []BookedUnit
	PreparationTimes []PreparationUnit
}

type Calendar struct {
	RentalID rentals.RentalID
	Dates    []Day
}

type Projector struct {
	Numbering Numbering
}

// Project lays bookings out over nights days starting at start's date. A day
// lists the bookings occupying it and the units still in preparation after a checkout.
func (p Projector) Project(rental *rentals.Rental, bookings []*booking.Booking, start time.Time, nights int) (Calendar, error) {
	if nights < 0 {
		return Calendar{}, ErrNegativeNights
	}
	units := p.units(bookings, rental.PreparationTimeInDays)
	cal := Calendar{RentalID: rental.ID, Dates: make([]Day, 0, nights)}
	for _, day := range daterange.Days(start, nights) {
		entry := Day{
			Date:             day,
			Bookings:         []BookedUnit{},
			PreparationTimes: []PreparationUnit{},
		}
		for i, b := range bookings {
			stay := b.Range()
			if stay.Contains(day) {
				entry.Bookings = append(entry.Bookings, BookedUnit{BookingID: b.ID, Unit: units[i]})
			}
			if stay.Tail(rental.PreparationTimeInDays).Contains(day) {
				entry.PreparationTimes = append(entry.PreparationTimes, PreparationUnit{Unit: units[i]})
			}
		}
		cal.Dates = append(cal.Dates, entry)
	}
	return cal, nil
}

// units returns the unit number of bookings[i] at index i.
func (p Projector) units(bookings []*booking.Booking, preparationDays int) []int {
	if p.Numbering == NumberingPacked {
		return packUnits(bookings, preparationDays)
	}
	out := make([]int, len(bookings))
	for i := range bookings {
		out[i] = i + 1
	}
	return out
}

func packUnits(bookings []*booking.Booking, preparationDays int) []int {
	order := make([]int, len(bookings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bookings[order[a]].Start.Before(bookings[order[b]].Start)
	})

	out := make([]int, len(bookings))
	// freeAt[u] is the first day unit u+1 can be checked into again.
	var freeAt []time.Time
	for _, idx := range order {
		b := bookings[idx]
		unit := -1
		for u, free := range freeAt {
			if !free.After(b.Start) {
				unit = u
				break
			}
		}
		if unit < 0 {
			freeAt = append(freeAt, time.Time{})
			unit = len(freeAt) - 1
		}
		freeAt[unit] = b.Range().Extend(preparationDays).End
		out[idx] = unit + 1
	}
	return out
}

// Package availability decides whether a rental can take another booking and
// projects its bookings onto a per-day calendar.
//
// Units are interchangeable: a booking never owns a specific unit, so the
// admission rule is a capacity count over conflicting stays, and the unit
// numbers shown on a calendar are derived each time it is projected.
package availability

import (
	"fmt"

	"vacationrental/internal/domain/booking"
	"vacationrental/internal/domain/rentals"
	"vacationrental/internal/domain/shared/daterange"
)

// Capacity is the part of a rental's configuration the admission rule reads.
type Capacity struct {
	Units           int
	PreparationDays int
}

func CapacityOf(r *rentals.Rental) Capacity {
	return Capacity{Units: r.Units, PreparationDays: r.PreparationTimeInDays}
}

// Conflicts reports whether two stays need different units. Each stay blocks
// its unit for preparationDays after checkout; nothing is blocked before check-in.
func Conflicts(a, b daterange.DateRange, preparationDays int) bool {
	return a.Extend(preparationDays).Overlaps(b.Extend(preparationDays))
}

// CountConflicts counts existing bookings that compete with candidate. A
// candidate already present in existing (same non-zero id) is not counted against itself.
func CountConflicts(c Capacity, candidate *booking.Booking, existing []*booking.Booking) int {
	want := candidate.Range()
	count := 0
	for _, b := range existing {
		if candidate.ID != 0 && b.ID == candidate.ID {
			continue
		}
		if Conflicts(want, b.Range(), c.PreparationDays) {
			count++
		}
	}
	return count
}

func IsAvailable(c Capacity, candidate *booking.Booking, existing []*booking.Booking) bool {
	return CountConflicts(c, candidate, existing) < c.Units
}

// Revalidate replays every booking against the others under c and fails on the
// first one that would no longer fit.
//
// Each booking is checked on its own, so a set of bookings that individually
// pass but together exceed c.Units at some instant is not detected.
func Revalidate(c Capacity, existing []*booking.Booking) error {
	for _, b := range existing {
		if !IsAvailable(c, b, existing) {
			return fmt.Errorf("%w: booking %d does not fit %d unit(s) with %d preparation day(s)",
				booking.ErrUnavailable, b.ID, c.Units, c.PreparationDays)
		}
	}
	return nil
}

package booking

import (
	"time"

	"vacationrental/internal/domain/rentals"
)

type BookingCreated struct {
	BookingID BookingID        `json:"bookingId"`
	RentalID  rentals.RentalID `json:"rentalId"`
	Start     time.Time        `json:"start"`
	Nights    int              `json:"nights"`
	At        time.Time        `json:"at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return e.BookingID.String() }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

package dto

import domainbooking "vacationrental/internal/domain/booking"

type Booking struct {
	ID       int  `json:"id"`
	RentalID int  `json:"rentalId"`
	Start    Date `json:"start"`
	Nights   int  `json:"nights"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:       int(b.ID),
		RentalID: int(b.RentalID),
		Start:    NewDate(b.Start),
		Nights:   b.Nights,
	}
}

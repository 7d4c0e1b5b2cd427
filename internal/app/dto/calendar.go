package dto

import "vacationrental/internal/domain/availability"

type CalendarBooking struct {
	ID   int `json:"id"`
	Unit int `json:"unit"`
}

type CalendarPreparation struct {
	Unit int `json:"unit"`
}

type CalendarDate struct {
	Date             Date                  `json:"date"`
	Bookings         []CalendarBooking     `json:"bookings"`
	PreparationTimes []CalendarPreparation `json:"preparationTimes"`
}

type Calendar struct {
	RentalID int            `json:"rentalId"`
	Dates    []CalendarDate `json:"dates"`
}

// MapCalendar keeps empty collections as [] so clients never see null.
func MapCalendar(cal availability.Calendar) Calendar {
	dates := make([]CalendarDate, 0, len(cal.Dates))
	for _, day := range cal.Dates {
		bookings := make([]CalendarBooking, 0, len(day.Bookings))
		for _, b := range day.Bookings {
			bookings = append(bookings, CalendarBooking{ID: int(b.BookingID), Unit: b.Unit})
		}
		preps := make([]CalendarPreparation, 0, len(day.PreparationTimes))
		for _, p := range day.PreparationTimes {
			preps = append(preps, CalendarPreparation{Unit: p.Unit})
		}
		dates = append(dates, CalendarDate{
			Date:             NewDate(day.Date),
			Bookings:         bookings,
			PreparationTimes: preps,
		})
	}
	return Calendar{RentalID: int(cal.RentalID), Dates: dates}
}

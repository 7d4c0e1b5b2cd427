package dto

import domainrentals "vacationrental/internal/domain/rentals"

// ResourceID is returned by creation endpoints.
type ResourceID struct {
	ID int `json:"id"`
}

type Rental struct {
	ID                    int `json:"id"`
	Units                 int `json:"units"`
	PreparationTimeInDays int `json:"preparationTimeInDays"`
}

func MapRental(r *domainrentals.Rental) Rental {
	if r == nil {
		return Rental{}
	}
	return Rental{
		ID:                    int(r.ID),
		Units:                 r.Units,
		PreparationTimeInDays: r.PreparationTimeInDays,
	}
}

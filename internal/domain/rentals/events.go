package rentals

import "time"

type RentalCreated struct {
	RentalID              RentalID  `json:"rentalId"`
	Units                 int       `json:"units"`
	PreparationTimeInDays int       `json:"preparationTimeInDays"`
	At                    time.Time `json:"at"`
}

func (e RentalCreated) EventName() string     { return "rental.created" }
func (e RentalCreated) AggregateID() string   { return e.RentalID.String() }
func (e RentalCreated) OccurredAt() time.Time { return e.At }

type RentalReconfigured struct {
	RentalID                  RentalID  `json:"rentalId"`
	PreviousUnits             int       `json:"previousUnits"`
	PreviousPreparationInDays int       `json:"previousPreparationTimeInDays"`
	Units                     int       `json:"units"`
	PreparationTimeInDays     int       `json:"preparationTimeInDays"`
	At                        time.Time `json:"at"`
}

func (e RentalReconfigured) EventName() string     { return "rental.reconfigured" }
func (e RentalReconfigured) AggregateID() string   { return e.RentalID.String() }
func (e RentalReconfigured) OccurredAt() time.Time { return e.At }

package rentals

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vacationrental/internal/domain/shared/errs"
	"vacationrental/internal/domain/shared/events"
)

//go:generate go run go.uber.org/mock/mockgen -source=rental.go -destination=mocks/repository.go -package=mocks

var (
	ErrNegativeUnits       = fmt.Errorf("%w: rentals: units must not be negative", errs.ErrInvalidInput)
	ErrNegativePreparation = fmt.Errorf("%w: rentals: preparation time in days must not be negative", errs.ErrInvalidInput)
	ErrInvalidID           = fmt.Errorf("%w: rentals: rental id must be positive", errs.ErrInvalidInput)
	ErrRentalNotFound      = fmt.Errorf("%w: rental", errs.ErrNotFound)
)

type RentalID int

func (id RentalID) String() string { return strconv.Itoa(int(id)) }

// Validate rejects identifiers the store could never have assigned.
func (id RentalID) Validate() error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

// Rental is a property with a fixed count of interchangeable units.
type Rental struct {
	ID                    RentalID
	Units                 int
	PreparationTimeInDays int
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Version               int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id RentalID) (*Rental, error)
	// ByIDForUpdate loads a rental and holds it against concurrent writers until the unit of work ends.
	ByIDForUpdate(ctx context.Context, id RentalID) (*Rental, error)
	Create(ctx context.Context, rental *Rental) (RentalID, error)
	Update(ctx context.Context, rental *Rental) error
}

type CreateParams struct {
	Units                 int
	PreparationTimeInDays int
	CreatedAt             time.Time
}

func ValidateConfig(units, preparationTimeInDays int) error {
	if preparationTimeInDays < 0 {
		return ErrNegativePreparation
	}
	if units < 0 {
		return ErrNegativeUnits
	}
	return nil
}

func NewRental(params CreateParams) (*Rental, error) {
	if err := ValidateConfig(params.Units, params.PreparationTimeInDays); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	return &Rental{
		Units:                 params.Units,
		PreparationTimeInDays: params.PreparationTimeInDays,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// Assign sets the store-issued identity and records the creation event.
func (r *Rental) Assign(id RentalID) {
	r.ID = id
	r.Record(RentalCreated{
		RentalID:              id,
		Units:                 r.Units,
		PreparationTimeInDays: r.PreparationTimeInDays,
		At:                    r.CreatedAt,
	})
}

// Reconfigure applies a new capacity. Callers re-validate existing bookings first.
func (r *Rental) Reconfigure(units, preparationTimeInDays int, now time.Time) error {
	if err := ValidateConfig(units, preparationTimeInDays); err != nil {
		return err
	}
	prevUnits, prevPrep := r.Units, r.PreparationTimeInDays
	r.Units = units
	r.PreparationTimeInDays = preparationTimeInDays
	r.UpdatedAt = now.UTC()
	r.Record(RentalReconfigured{
		RentalID:                  r.ID,
		PreviousUnits:             prevUnits,
		PreviousPreparationInDays: prevPrep,
		Units:                     units,
		PreparationTimeInDays:     preparationTimeInDays,
		At:                        r.UpdatedAt,
	})
	return nil
}

// Clone returns a copy without pending events, suitable for handing out of a store.
func (r *Rental) Clone() *Rental {
	if r == nil {
		return nil
	}
	return &Rental{
		ID:                    r.ID,
		Units:                 r.Units,
		PreparationTimeInDays: r.PreparationTimeInDays,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Version:               r.Version,
	}
}

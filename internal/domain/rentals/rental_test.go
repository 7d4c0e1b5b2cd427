package rentals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationrental/internal/domain/shared/errs"
)

func TestNewRental(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	r, err := NewRental(CreateParams{Units: 2, PreparationTimeInDays: 1, CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Units)
	assert.Equal(t, 1, r.PreparationTimeInDays)
	assert.Empty(t, r.PendingEvents())

	r.Assign(7)
	assert.Equal(t, RentalID(7), r.ID)
	evs := r.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "rental.created", evs[0].EventName())
	assert.Equal(t, "7", evs[0].AggregateID())
}

func TestNewRentalRejectsNegatives(t *testing.T) {
	_, err := NewRental(CreateParams{Units: -1, PreparationTimeInDays: 1})
	require.ErrorIs(t, err, ErrNegativeUnits)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = NewRental(CreateParams{Units: 1, PreparationTimeInDays: -1})
	require.ErrorIs(t, err, ErrNegativePreparation)

	_, err = NewRental(CreateParams{Units: 0, PreparationTimeInDays: 0})
	require.NoError(t, err)
}

func TestReconfigure(t *testing.T) {
	r := &Rental{ID: 1, Units: 1, PreparationTimeInDays: 1}
	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Reconfigure(4, 2, now))
	assert.Equal(t, 4, r.Units)
	assert.Equal(t, 2, r.PreparationTimeInDays)
	assert.Equal(t, now, r.UpdatedAt)
	evs := r.PendingEvents()
	require.Len(t, evs, 1)
	ev, ok := evs[0].(RentalReconfigured)
	require.True(t, ok)
	assert.Equal(t, 1, ev.PreviousUnits)
	assert.Equal(t, 4, ev.Units)

	r.ClearEvents()
	require.ErrorIs(t, r.Reconfigure(-5, 15, now), ErrNegativeUnits)
	assert.Equal(t, 4, r.Units)
	assert.Empty(t, r.PendingEvents())
}

func TestRentalIDValidate(t *testing.T) {
	assert.ErrorIs(t, RentalID(-1).Validate(), errs.ErrInvalidInput)
	assert.ErrorIs(t, RentalID(0).Validate(), ErrInvalidID)
	assert.NoError(t, RentalID(1).Validate())
}

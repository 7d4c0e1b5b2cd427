package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationrental/internal/domain/rentals"
	"vacationrental/internal/domain/shared/errs"
)

func TestNewBooking(t *testing.T) {
	b, err := NewBooking(CreateParams{
		RentalID: 1,
		Start:    time.Date(2002, time.January, 1, 18, 45, 0, 0, time.UTC),
		Nights:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2002, time.January, 1, 0, 0, 0, 0, time.UTC), b.Start)
	assert.Equal(t, time.Date(2002, time.January, 4, 0, 0, 0, 0, time.UTC), b.End())
	assert.Equal(t, 3, b.Range().Nights())

	b.Assign(5)
	evs := b.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "booking.created", evs[0].EventName())
	assert.Equal(t, "5", evs[0].AggregateID())
	assert.Empty(t, b.Clone().PendingEvents())
}

func TestNewBookingValidation(t *testing.T) {
	start := time.Date(2002, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{name: "zero nights", params: CreateParams{RentalID: 1, Start: start, Nights: 0}, want: ErrInvalidNights},
		{name: "negative nights", params: CreateParams{RentalID: 1, Start: start, Nights: -2}, want: ErrInvalidNights},
		{name: "bad rental", params: CreateParams{RentalID: -1, Start: start, Nights: 1}, want: rentals.ErrInvalidID},
		{name: "no start", params: CreateParams{RentalID: 1, Nights: 1}, want: ErrMissingStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.params)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
}

package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appoutbox "vacationrental/internal/app/outbox"
	bookingapp "vacationrental/internal/app/handlers/booking"
	uowmocks "vacationrental/internal/app/uow/mocks"
	domainbooking "vacationrental/internal/domain/booking"
	bookingmocks "vacationrental/internal/domain/booking/mocks"
	domainrentals "vacationrental/internal/domain/rentals"
	rentalmocks "vacationrental/internal/domain/rentals/mocks"
	"vacationrental/internal/domain/shared/errs"
)

type recordingOutbox struct {
	records []appoutbox.EventRecord
}

func (o *recordingOutbox) Add(_ context.Context, rec appoutbox.EventRecord) error {
	o.records = append(o.records, rec)
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func existing(id int, start string, nights int) *domainbooking.Booking {
	return &domainbooking.Booking{ID: domainbooking.BookingID(id), RentalID: 1, Start: day(start), Nights: nights}
}

type fixture struct {
	factory  *uowmocks.MockUoWFactory
	unit     *uowmocks.MockUnitOfWork
	rentals  *rentalmocks.MockRepository
	bookings *bookingmocks.MockRepository
	box      *recordingOutbox
	handler  *bookingapp.CreateBookingHandler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		factory:  uowmocks.NewMockUoWFactory(ctrl),
		unit:     uowmocks.NewMockUnitOfWork(ctrl),
		rentals:  rentalmocks.NewMockRepository(ctrl),
		bookings: bookingmocks.NewMockRepository(ctrl),
		box:      &recordingOutbox{},
	}
	f.unit.EXPECT().Rentals().Return(f.rentals).AnyTimes()
	f.unit.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.unit.EXPECT().Outbox().Return(f.box).AnyTimes()
	f.handler = &bookingapp.CreateBookingHandler{
		UoWFactory: f.factory,
		Now:        func() time.Time { return day("2024-01-01") },
	}
	return f
}

func TestCreateBooking(t *testing.T) {
	type mockBehavior func(f fixture)

	tests := []struct {
		name     string
		cmd      bookingapp.CreateBookingCommand
		behavior mockBehavior
		wantID   int
		wantErr  error
	}{
		{
			name: "ok",
			cmd:  bookingapp.CreateBookingCommand{RentalID: 1, Start: day("2024-03-01"), Nights: 3},
			behavior: func(f fixture) {
				f.factory.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(f.unit, nil)
				f.rentals.EXPECT().ByIDForUpdate(gomock.Any(), domainrentals.RentalID(1)).
					Return(&domainrentals.Rental{ID: 1, Units: 1, PreparationTimeInDays: 1}, nil)
				f.bookings.EXPECT().ListByRental(gomock.Any(), domainrentals.RentalID(1)).
					Return([]*domainbooking.Booking{existing(1, "2024-02-25", 3)}, nil)
				f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domainbooking.BookingID(2), nil)
				f.unit.EXPECT().Commit(gomock.Any()).Return(nil)
				f.unit.EXPECT().Rollback(gomock.Any()).Times(0)
			},
			wantID: 2,
		},
		{
			name: "unavailable never writes",
			cmd:  bookingapp.CreateBookingCommand{RentalID: 1, Start: day("2024-03-02"), Nights: 1},
			behavior: func(f fixture) {
				f.factory.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(f.unit, nil)
				f.rentals.EXPECT().ByIDForUpdate(gomock.Any(), domainrentals.RentalID(1)).
					Return(&domainrentals.Rental{ID: 1, Units: 1, PreparationTimeInDays: 2}, nil)
				// checkout 03-01 plus two preparation days blocks 03-01 and 03-02
				f.bookings.EXPECT().ListByRental(gomock.Any(), domainrentals.RentalID(1)).
					Return([]*domainbooking.Booking{existing(1, "2024-02-27", 3)}, nil)
				f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
				f.unit.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
			wantErr: domainbooking.ErrUnavailable,
		},
		{
			name: "rental not found",
			cmd:  bookingapp.CreateBookingCommand{RentalID: 9, Start: day("2024-03-01"), Nights: 1},
			behavior: func(f fixture) {
				f.factory.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(f.unit, nil)
				f.rentals.EXPECT().ByIDForUpdate(gomock.Any(), domainrentals.RentalID(9)).
					Return(nil, domainrentals.ErrRentalNotFound)
				f.unit.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
			wantErr: domainrentals.ErrRentalNotFound,
		},
		{
			name:     "zero nights rejected before any lookup",
			cmd:      bookingapp.CreateBookingCommand{RentalID: 1, Start: day("2024-03-01"), Nights: 0},
			behavior: func(f fixture) {},
			wantErr:  domainbooking.ErrInvalidNights,
		},
		{
			name:     "invalid rental id",
			cmd:      bookingapp.CreateBookingCommand{RentalID: 0, Start: day("2024-03-01"), Nights: 2},
			behavior: func(f fixture) {},
			wantErr:  domainrentals.ErrInvalidID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.behavior(f)

			res, err := f.handler.Handle(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, res)
				assert.Empty(t, f.box.records)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, res.ID)
			require.Len(t, f.box.records, 1)
			assert.Equal(t, "booking.created", f.box.records[0].Name)
			assert.Equal(t, "2", f.box.records[0].Aggregate)
		})
	}
}

func TestCreateBookingKinds(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), bookingapp.CreateBookingCommand{RentalID: 1, Start: day("2024-03-01"), Nights: -1})
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

package ginserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	bookingapp "vacationrental/internal/app/handlers/booking"
	calendarapp "vacationrental/internal/app/handlers/calendar"
	rentalsapp "vacationrental/internal/app/handlers/rentals"
	"vacationrental/internal/app/queries"
	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
	"vacationrental/internal/infra/config"
	"vacationrental/internal/infra/obs"
	"vacationrental/internal/infra/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type commandStub func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandStub) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type queryStub func(ctx context.Context, q queries.Query) (any, error)

func (f queryStub) Ask(ctx context.Context, q queries.Query) (any, error) { return f(ctx, q) }

func router(cmds commands.Bus, qs queries.Bus, cfg config.Config) *gin.Engine {
	return NewRouter(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Rentals:  RentalHandler{Commands: cmds, Queries: qs},
		Bookings: BookingHandler{Commands: cmds, Queries: qs},
		Calendar: CalendarHandler{Queries: qs},
	})
}

func serve(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateBookingRoute(t *testing.T) {
	var got bookingapp.CreateBookingCommand
	cmds := commandStub(func(_ context.Context, cmd commands.Command) (any, error) {
		got = cmd.(bookingapp.CreateBookingCommand)
		return &dto.ResourceID{ID: 4}, nil
	})
	r := router(cmds, nil, config.Config{})

	rec := serve(r, http.MethodPost, "/api/v1/bookings", `{"rentalId":1,"start":"2000-01-02","nights":3}`,
		map[string]string{"Idempotency-Key": "abc"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":4}`, rec.Body.String())
	assert.Equal(t, domainrentals.RentalID(1), got.RentalID)
	assert.Equal(t, time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, "abc", got.IdempotencyKeyV)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid", err: domainbooking.ErrInvalidNights, want: http.StatusBadRequest},
		{name: "not found", err: domainrentals.ErrRentalNotFound, want: http.StatusNotFound},
		{name: "conflict", err: domainbooking.ErrUnavailable, want: http.StatusConflict},
		{name: "unclassified", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := commandStub(func(context.Context, commands.Command) (any, error) { return nil, tt.err })
			rec := serve(router(cmds, nil, config.Config{}), http.MethodPost, "/api/v1/bookings",
				`{"rentalId":1,"start":"2000-01-02","nights":1}`, nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.err.Error()+`"}`, rec.Body.String())
		})
	}
}

func TestMalformedBodies(t *testing.T) {
	cmds := commandStub(func(context.Context, commands.Command) (any, error) {
		t.Fatal("command must not be dispatched")
		return nil, nil
	})
	r := router(cmds, nil, config.Config{})

	for _, body := range []string{`{"rentalId":1,"start":"yesterday","nights":1}`, `not json`, `{"rentalId":"one"}`} {
		rec := serve(r, http.MethodPost, "/api/v1/bookings", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	rec := serve(r, http.MethodPut, "/api/v1/rentals/abc", `{"units":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentalRoutes(t *testing.T) {
	cmds := commandStub(func(_ context.Context, cmd commands.Command) (any, error) {
		switch c := cmd.(type) {
		case rentalsapp.CreateRentalCommand:
			return &dto.ResourceID{ID: 1}, nil
		case rentalsapp.UpdateRentalCommand:
			return &dto.Rental{ID: int(c.RentalID), Units: c.Units, PreparationTimeInDays: c.PreparationTimeInDays}, nil
		}
		return nil, errors.New("unexpected")
	})
	qs := queryStub(func(_ context.Context, q queries.Query) (any, error) {
		id := q.(rentalsapp.GetRentalQuery).RentalID
		if id != 1 {
			return nil, domainrentals.ErrRentalNotFound
		}
		return &dto.Rental{ID: 1, Units: 2, PreparationTimeInDays: 1}, nil
	})
	r := router(cmds, qs, config.Config{})

	rec := serve(r, http.MethodPost, "/api/v1/rentals", `{"units":2,"preparationTimeInDays":1}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/rentals/1", "", nil)
	assert.JSONEq(t, `{"id":1,"units":2,"preparationTimeInDays":1}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/rentals/9", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, http.MethodPut, "/api/v1/rentals/1", `{"units":3,"preparationTimeInDays":0}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"units":3,"preparationTimeInDays":0}`, rec.Body.String())
}

func TestCalendarRoute(t *testing.T) {
	var got calendarapp.GetCalendarQuery
	qs := queryStub(func(_ context.Context, q queries.Query) (any, error) {
		got = q.(calendarapp.GetCalendarQuery)
		return &dto.Calendar{RentalID: 1, Dates: []dto.CalendarDate{{
			Date:             dto.NewDate(got.Start),
			Bookings:         []dto.CalendarBooking{{ID: 1, Unit: 1}},
			PreparationTimes: []dto.CalendarPreparation{},
		}}}, nil
	})
	r := router(nil, qs, config.Config{})

	rec := serve(r, http.MethodGet, "/api/v1/calendar?rentalId=1&start=2000-01-02T12:00:00Z&nights=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, got.Nights)
	assert.JSONEq(t, `{"rentalId":1,"dates":[{"date":"2000-01-02","bookings":[{"id":1,"unit":1}],"preparationTimes":[]}]}`, rec.Body.String())

	for _, target := range []string{
		"/api/v1/calendar?rentalId=x&start=2000-01-02&nights=1",
		"/api/v1/calendar?rentalId=1&nights=1",
		"/api/v1/calendar?rentalId=1&start=2000-01-02",
	} {
		rec := serve(r, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCalendarRouteBoundsNights(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	_, err := (&rentalsapp.CreateRentalHandler{UoWFactory: factory}).Handle(context.Background(), rentalsapp.CreateRentalCommand{Units: 1})
	require.NoError(t, err)

	qs := queries.NewInMemoryBus()
	queries.RegisterHandler[calendarapp.GetCalendarQuery, *dto.Calendar](qs, &calendarapp.GetCalendarHandler{UoWFactory: factory, MaxNights: 10})
	r := router(nil, qs, config.Config{})

	tests := []struct {
		nights string
		want   int
	}{
		{nights: "10", want: http.StatusOK},
		{nights: "11", want: http.StatusBadRequest},
		{nights: "2000000000", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := serve(r, http.MethodGet, "/api/v1/calendar?rentalId=1&start=2000-01-01&nights="+tt.nights, "", nil)
		assert.Equal(t, tt.want, rec.Code, tt.nights)
	}
}

func TestRateLimiter(t *testing.T) {
	qs := queryStub(func(context.Context, queries.Query) (any, error) {
		return &dto.Booking{ID: 1}, nil
	})
	r := router(nil, qs, config.Config{HTTPRateLimitRPS: 0.001, HTTPRateLimitBurst: 1})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/bookings/1", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/v1/bookings/1", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/livez", "", nil).Code)
}

func TestSwaggerRoutes(t *testing.T) {
	r := router(nil, nil, config.Config{})
	rec := serve(r, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/calendar")
}

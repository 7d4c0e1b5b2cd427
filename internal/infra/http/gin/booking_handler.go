package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	bookingapp "vacationrental/internal/app/handlers/booking"
	"vacationrental/internal/app/queries"
	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	RentalID int      `json:"rentalId"`
	Start    dto.Date `json:"start"`
	Nights   int      `json:"nights"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, bindError(err))
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		RentalID:        domainrentals.RentalID(req.RentalID),
		Start:           req.Start.Time,
		Nights:          req.Nights,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.ResourceID](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	id, err := intParam(c.Param("bookingId"), "bookingId")
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	query := bookingapp.GetBookingQuery{BookingID: domainbooking.BookingID(id)}
	result, err := queries.Ask[bookingapp.GetBookingQuery, *dto.Booking](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}

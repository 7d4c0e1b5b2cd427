package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"vacationrental/internal/app/dto"
	calendarapp "vacationrental/internal/app/handlers/calendar"
	"vacationrental/internal/app/queries"
	domainrentals "vacationrental/internal/domain/rentals"
)

type CalendarHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

// Get serves /calendar?rentalId=1&start=2000-01-01&nights=5.
func (h CalendarHandler) Get(c *gin.Context) {
	rentalID, err := intParam(c.Query("rentalId"), "rentalId")
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	start, err := dto.ParseDate(c.Query("start"))
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	nights, err := intParam(c.Query("nights"), "nights")
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	query := calendarapp.GetCalendarQuery{
		RentalID: domainrentals.RentalID(rentalID),
		Start:    start.Time,
		Nights:   nights,
	}
	result, err := queries.Ask[calendarapp.GetCalendarQuery, *dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CalendarHTTP = CalendarHandler{}

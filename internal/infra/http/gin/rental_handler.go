package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	rentalsapp "vacationrental/internal/app/handlers/rentals"
	"vacationrental/internal/app/queries"
	domainrentals "vacationrental/internal/domain/rentals"
)

type RentalHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type rentalRequest struct {
	Units                 int `json:"units"`
	PreparationTimeInDays int `json:"preparationTimeInDays"`
}

func (h RentalHandler) Create(c *gin.Context) {
	var req rentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, bindError(err))
		return
	}
	cmd := rentalsapp.CreateRentalCommand{
		Units:                 req.Units,
		PreparationTimeInDays: req.PreparationTimeInDays,
		IdempotencyKeyV:       c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalsapp.CreateRentalCommand, *dto.ResourceID](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Get(c *gin.Context) {
	id, err := intParam(c.Param("rentalId"), "rentalId")
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	query := rentalsapp.GetRentalQuery{RentalID: domainrentals.RentalID(id)}
	result, err := queries.Ask[rentalsapp.GetRentalQuery, *dto.Rental](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Update(c *gin.Context) {
	id, err := intParam(c.Param("rentalId"), "rentalId")
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	var req rentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, bindError(err))
		return
	}
	cmd := rentalsapp.UpdateRentalCommand{
		RentalID:              domainrentals.RentalID(id),
		Units:                 req.Units,
		PreparationTimeInDays: req.PreparationTimeInDays,
	}
	result, err := commands.Dispatch[rentalsapp.UpdateRentalCommand, *dto.Rental](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ RentalHTTP = RentalHandler{}

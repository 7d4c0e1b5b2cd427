package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vacationrental/internal/domain/shared/errs"
)

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	logError(logger, c, status, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// intParam reads an integer path or query value. Range checks belong to the
// command handlers so that 0 and negatives get their domain message.
func intParam(raw, name string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errs.ErrInvalidInput, name)
	}
	return value, nil
}

func bindError(err error) error {
	return fmt.Errorf("%w: malformed request body: %v", errs.ErrInvalidInput, err)
}

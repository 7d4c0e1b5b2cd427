package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"vacationrental/internal/domain/shared/errs"
)

// ErrConcurrentUpdate reports that another transaction touched the same
// rental first. Callers may retry the whole command.
var ErrConcurrentUpdate = fmt.Errorf("%w: mongo: concurrent update detected", errs.ErrConflict)

// translate maps transaction write conflicts onto ErrConcurrentUpdate.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && (serverErr.HasErrorLabel("TransientTransactionError") || serverErr.HasErrorCode(112)) {
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	return err
}

package middleware

import (
	"context"
	"log/slog"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/outbox"
)

// OutboxFlush nudges the publisher once a command has succeeded. Place it
// outside Transaction so the records are committed by then. A failed flush is
// logged only: the records stay queued for the next poll.
func OutboxFlush(flusher outbox.Flusher, logger *slog.Logger) CommandMiddleware {
	if flusher == nil {
		panic("middleware: outbox flusher required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := flusher.Flush(ctx); err != nil && logger != nil {
				logger.Warn("outbox flush failed", "command", cmd.Key(), "error", err)
			}
			return res, nil
		})
	}
}

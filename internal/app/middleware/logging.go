package middleware

import (
	"context"
	"log/slog"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/queries"
	"vacationrental/internal/domain/shared/errs"
)

// Logging records every dispatched command with its outcome. Rejections with a
// known kind are logged at info level, anything else at error level.
func Logging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logOutcome(ctx, logger, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, elapsed time.Duration, err error) {
	switch {
	case err == nil:
		logger.DebugContext(ctx, kind+" handled", "key", key, "duration", elapsed)
	case errs.Kind(err) != nil:
		logger.InfoContext(ctx, kind+" rejected", "key", key, "duration", elapsed, "reason", errs.Kind(err).Error(), "error", err)
	default:
		logger.ErrorContext(ctx, kind+" failed", "key", key, "duration", elapsed, "error", err)
	}
}

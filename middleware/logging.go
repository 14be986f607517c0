package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs operation start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		logger.Info("operation started",
			slog.String("op", c.Op),
			slog.String("page_id", c.PageID),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("operation failed",
				slog.String("op", c.Op),
				slog.String("page_id", c.PageID),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("operation completed",
				slog.String("op", c.Op),
				slog.String("page_id", c.PageID),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}

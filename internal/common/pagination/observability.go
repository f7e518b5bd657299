package pagination

import (
	"log/slog"
	"time"
)

// LogResponse logs a paginated response with duration and status.
func LogResponse(logger *slog.Logger, requestID string, params Params, total, returnedCount int, duration time.Duration, statusCode int) {
	logger.Info("Paginated response",
		slog.String("request_id", requestID),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Int("total", total),
		slog.Int("returned_count", returnedCount),
		slog.Int64("duration_ms", duration.Milliseconds()),
		slog.Int("status", statusCode))
}

package obs

import (
	"context"
	"time"

	"trip-planner-service/internal/platform/logger"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores a request id for later timing lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time starts a timer for op name and returns the function that logs it.
// Use as: defer obs.Time(ctx, "op")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		fields := map[string]interface{}{
			"req_id": reqID,
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		}

		if errp != nil && *errp != nil {
			logger.Error("op failed", *errp, fields)
			return
		}
		logger.Debug("op done", fields)
	}
}

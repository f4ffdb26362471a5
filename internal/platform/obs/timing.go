package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

// RequestIDKey carries the per-request ID assigned by the HTTP middleware.
const RequestIDKey ctxKey = "req_id"

// RequestID returns the request ID stored on the context, or "" when the
// call did not come through the HTTP layer.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func runs.
// Pass a pointer to the surrounding function's named error so failures are
// logged with the timing:
//
//	defer obs.Time(ctx, "generate day")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		evt := log.Debug()
		if errp != nil && *errp != nil {
			evt = log.Error().Err(*errp)
		}
		evt.Str("req_id", reqID).
			Str("op", name).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("op finished")
	}
}

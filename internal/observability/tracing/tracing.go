package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID returns a context whose logger tags every line with a fresh
// trace id. Both server requests and CLI runs pass through here, so log lines
// belonging to one operation can be correlated.
func InjectTraceID(ctx context.Context) context.Context {
	traceID := uuid.NewString()
	logger := log.With().Str("traceId", traceID).Logger()
	return logger.WithContext(ctx)
}

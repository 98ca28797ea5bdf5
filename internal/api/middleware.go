package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/tracing"
)

// tracing injects a per-request trace id into the logger context and
// records the request duration.
func (s *Server) tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.InjectTraceID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		stopTimer := metrics.StartHttpRequestDurationTimer(r.Method, r.URL.Path)

		next.ServeHTTP(ww, r.WithContext(ctx))

		stopTimer(ww.Status())
		log.Ctx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Msg("request served")
	})
}

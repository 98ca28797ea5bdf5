package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/config"
	"github.com/fundpool-labs/fundpool-ledger/internal/services"
)

// CallerHeader carries the caller identity that role-gated operations check.
const CallerHeader = "X-Caller"

type Server struct {
	cfg     *config.APIConfig
	service *services.Service
	httpSrv *http.Server
}

func New(cfg *config.APIConfig, service *services.Service) *Server {
	srv := &Server{
		cfg:     cfg,
		service: service,
	}
	srv.httpSrv = &http.Server{
		Addr:         cfg.Address(),
		Handler:      srv.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return srv
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracing)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/deposit", s.handleDeposit)
		r.Post("/distribute", s.handleDistribute)
		r.Post("/withdrawals", s.handleRequestWithdrawal)
		r.Post("/withdrawals/release", s.handleReleaseWithdrawal)
		r.Post("/snapshots", s.handleCreateSnapshot)
		r.Put("/params/{name}", s.handleSetParam)
		r.Put("/roles/{role}", s.handleSetRole)
		r.Put("/pause", s.handleSetPaused)

		r.Get("/accounts/{participant}", s.handleGetAccount)
		r.Get("/totals", s.handleGetTotals)
		r.Get("/snapshots", s.handleGetSnapshots)
		r.Get("/withdrawals/unlocking", s.handleUnlocking)
		r.Get("/withdrawals/{participant}", s.handleGetWithdrawals)
		r.Get("/withdrawals/{participant}/{index}", s.handleGetWithdrawal)
		r.Get("/return-rate", s.handleReturnRate)
		r.Get("/distributions/last", s.handleLastDistribution)
		r.Get("/custody", s.handleCustody)
	})
	r.Get("/healthcheck", s.handleHealthcheck)

	return r
}

// Start blocks serving requests until the context is cancelled, then shuts
// the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting api server on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

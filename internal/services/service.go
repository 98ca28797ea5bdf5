package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/config"
	"github.com/fundpool-labs/fundpool-ledger/internal/custody"
	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
)

// eventPublisher is what the service needs from the queue manager; tests
// substitute a recorder.
type eventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Service hosts the ledger engine behind the external surfaces. Mutating
// operations take the write lock so the engine only ever runs one at a
// time; the engine's own busy flag then only trips on genuine reentrancy
// (a collaborator calling back in).
type Service struct {
	cfg          *config.Config
	db           db.DbInterface
	ledger       *ledger.Ledger
	queueManager eventPublisher
	custody      *custody.MongoCustody

	// mu serializes engine access: mutations hold the write lock, queries
	// the read lock.
	mu     sync.RWMutex
	paused atomic.Bool

	// investor and pauser are reassignable at runtime; owner is fixed.
	rolesMu  sync.RWMutex
	investor string
	pauser   string
}

func NewService(
	cfg *config.Config,
	dbClient db.DbInterface,
	qm eventPublisher,
	custodyClient *custody.MongoCustody,
) (*Service, error) {
	eng, err := ledger.New(ledger.Config{
		Owner:   cfg.Ledger.OwnerAccount,
		Creator: cfg.Ledger.CreatorAccount,
		Params: ledger.Params{
			MinDeposit:             cfg.Ledger.MinDeposit,
			MaxDeposit:             cfg.Ledger.MaxDeposit,
			WithdrawalCooldown:     cfg.Ledger.WithdrawalCooldown,
			WithdrawalFreezePeriod: cfg.Ledger.WithdrawalFreezePeriod,
			CommissionRate:         cfg.Ledger.CommissionRate,
		},
		Custody: custodyClient,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:          cfg,
		db:           dbClient,
		ledger:       eng,
		queueManager: qm,
		custody:      custodyClient,
		investor:     cfg.Ledger.InvestorAccount,
		pauser:       cfg.Ledger.PauserAccount,
	}, nil
}

// Bootstrap rehydrates the engine from the database. On the very first boot
// there is nothing to load and the initial pool state is persisted instead.
func (s *Service) Bootstrap(ctx context.Context) error {
	state, poolState, err := s.db.LoadLedgerState(ctx, time.Now())
	if db.IsNotFoundError(err) {
		log.Ctx(ctx).Info().Msg("no persisted pool state, starting fresh")
		return s.persistPoolState(ctx)
	}
	if err != nil {
		return err
	}

	if err := s.ledger.Restore(state); err != nil {
		return err
	}

	s.paused.Store(poolState.Paused)
	s.rolesMu.Lock()
	if poolState.Investor != "" {
		s.investor = poolState.Investor
	}
	if poolState.Pauser != "" {
		s.pauser = poolState.Pauser
	}
	s.rolesMu.Unlock()

	s.refreshGauges(ctx)
	log.Ctx(ctx).Info().
		Uint64("total_deposits", s.ledger.TotalDeposits()).
		Int("members", s.ledger.MemberCount()).
		Msg("ledger state restored")
	return nil
}

// publish sends an event without failing the operation that produced it.
func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.queueManager == nil {
		return
	}
	if err := s.queueManager.Publish(ctx, eventType, payload); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event_type", eventType).
			Msg("failed to publish event")
	}
}

func (s *Service) refreshGauges(ctx context.Context) {
	metrics.RecordTotalDeposits(s.ledger.TotalDeposits())
	metrics.RecordPoolMemberCount(s.ledger.MemberCount())
	metrics.RecordSnapshotCount(len(s.ledger.Snapshots()))

	if balance, err := s.ledger.CustodyBalance(ctx); err == nil {
		metrics.RecordCustodyBalance(balance)
	}
}

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// CreateSnapshot records the current pool total out of band. Owner only;
// the timestamp must strictly advance past the previous entry.
func (s *Service) CreateSnapshot(ctx context.Context, caller string) (result *ledger.DepositSnapshot, txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "create_snapshot", txErr != nil)
	}()

	if err := s.requireRole(caller, types.RoleOwner); err != nil {
		return nil, err
	}
	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.ledger.CreateManualSnapshot(time.Now())
	if err != nil {
		return nil, mapLedgerError("create_snapshot", err)
	}

	if err := s.persistSnapshot(ctx, *snap); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	metrics.RecordSnapshotCount(len(s.ledger.Snapshots()))

	log.Ctx(ctx).Info().
		Time("timestamp", snap.Timestamp).
		Uint64("total_deposits", snap.TotalDeposits).
		Msg("manual snapshot recorded")
	return snap, nil
}

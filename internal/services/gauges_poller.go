package services

import (
	"context"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/utils/poller"
)

const gaugePollingInterval = 30 * time.Second

// StartGaugePoller keeps the observability gauges fresh even when the pool
// is idle, so custody drift shows up without waiting for the next operation.
func (s *Service) StartGaugePoller(ctx context.Context) {
	gaugePoller := poller.NewPoller(
		gaugePollingInterval,
		metrics.RecordPollerDuration("gauges", s.updateGauges),
	)
	go gaugePoller.Start(ctx)
}

func (s *Service) updateGauges(ctx context.Context) error {
	balance, err := s.ledger.CustodyBalance(ctx)
	if err != nil {
		return err
	}
	metrics.RecordCustodyBalance(balance)

	unlockable, err := s.db.FindUnlockingWithdrawals(ctx, time.Now())
	if err != nil {
		return err
	}
	metrics.RecordUnlockableWithdrawals(len(unlockable))

	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.RecordTotalDeposits(s.ledger.TotalDeposits())
	metrics.RecordPoolMemberCount(s.ledger.MemberCount())
	metrics.RecordSnapshotCount(len(s.ledger.Snapshots()))
	metrics.RecordPendingWithdrawals(s.ledger.PendingWithdrawalCount())
	return nil
}

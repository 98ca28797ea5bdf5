package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/queue"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// DistributeProfit applies a signed profit/loss report pro rata across the
// pool. Only the investor role may report.
func (s *Service) DistributeProfit(ctx context.Context, caller string, profit int64) (result *ledger.DistributionResult, txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "distribute", txErr != nil)
	}()

	if err := s.requireRole(caller, types.RoleInvestor); err != nil {
		return nil, err
	}
	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// members before the loss pass, so zeroed accounts still get persisted
	touched := s.ledger.Members()

	res, err := s.ledger.DistributeProfit(ctx, profit, time.Now())
	if err != nil {
		return nil, mapLedgerError("distribute", err)
	}

	touched = append(touched, s.ledger.Owner(), s.ledger.Creator())
	if err := s.persistBalances(ctx, touched...); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.db.SaveProfitRecord(ctx, &model.ProfitDocument{
		Timestamp: res.Timestamp,
		Profit:    res.Profit,
	}); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.persistSnapshot(ctx, ledger.DepositSnapshot{
		Timestamp:     res.Timestamp,
		TotalDeposits: s.ledger.TotalDeposits(),
	}); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.persistPoolState(ctx); err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventProfitDistributed, queue.ProfitDistributedEvent{
		Profit:        res.Profit,
		Commission:    res.Commission,
		CreatorTax:    res.CreatorTax,
		Distributed:   res.Distributed,
		TotalDeposits: s.ledger.TotalDeposits(),
	})
	s.refreshGauges(ctx)

	log.Ctx(ctx).Info().
		Int64("profit", profit).
		Uint64("commission", res.Commission).
		Uint64("creator_tax", res.CreatorTax).
		Uint64("distributed", res.Distributed).
		Msg("profit distributed")
	return res, nil
}

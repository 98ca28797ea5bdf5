package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/queue"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// Deposit credits the participant and funds custody with the received
// amount, so custody always covers the tracked total.
func (s *Service) Deposit(ctx context.Context, participant string, amount uint64) (result *ledger.DepositResult, txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "deposit", txErr != nil)
	}()

	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ledger.Deposit(participant, amount)
	if err != nil {
		return nil, mapLedgerError("deposit", err)
	}

	if err := s.custody.Fund(ctx, amount); err != nil {
		// the engine already committed; surface the drift loudly
		log.Ctx(ctx).Error().Err(err).Uint64("amount", amount).
			Msg("deposit committed but custody funding failed")
		return nil, types.NewInternalServiceError(err)
	}

	if err := s.persistBalances(ctx, participant); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.persistPoolState(ctx); err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventDepositReceived, queue.DepositReceivedEvent{
		Participant:   res.Participant,
		Amount:        res.Amount,
		Balance:       res.Balance,
		TotalDeposits: s.ledger.TotalDeposits(),
	})
	s.refreshGauges(ctx)

	log.Ctx(ctx).Info().
		Str("participant", participant).
		Uint64("amount", amount).
		Uint64("balance", res.Balance).
		Msg("deposit accepted")
	return res, nil
}

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

// RequestWithdrawal enqueues a time-locked withdrawal request. The balance
// is not reserved; it is re-validated at release time.
func (s *Service) RequestWithdrawal(ctx context.Context, participant string, amount uint64) (result *ledger.WithdrawalRequestResult, txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "request_withdrawal", txErr != nil)
	}()

	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.ledger.RequestWithdrawal(participant, amount, now)
	if err != nil {
		return nil, mapLedgerError("request_withdrawal", err)
	}

	doc := model.NewWithdrawalDocument(res.Participant, res.Index, res.Amount, res.UnlockTime, now)
	if err := s.db.SaveWithdrawalRequest(ctx, doc); err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventWithdrawalRequested, queue.WithdrawalRequestedEvent{
		Participant: res.Participant,
		Amount:      res.Amount,
		Index:       res.Index,
		UnlockTime:  res.UnlockTime,
	})
	metrics.RecordPendingWithdrawals(s.ledger.PendingWithdrawalCount())

	log.Ctx(ctx).Info().
		Str("participant", participant).
		Uint64("amount", amount).
		Int("index", res.Index).
		Time("unlock_time", res.UnlockTime).
		Msg("withdrawal requested")
	return res, nil
}

// ReleaseWithdrawal processes an unlocked request. The engine triggers the
// custody release before mutating, so a custody failure aborts the whole
// operation.
func (s *Service) ReleaseWithdrawal(ctx context.Context, participant string, index int) (result *ledger.WithdrawalResult, txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "release_withdrawal", txErr != nil)
	}()

	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ledger.WithdrawShare(ctx, participant, index, time.Now())
	if err != nil {
		return nil, mapLedgerError("release_withdrawal", err)
	}

	if err := s.db.MarkWithdrawalProcessed(ctx, participant, index); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.persistBalances(ctx, participant); err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if err := s.persistPoolState(ctx); err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventWithdrawalReleased, queue.WithdrawalReleasedEvent{
		Participant:   res.Participant,
		Amount:        res.Amount,
		Index:         res.Index,
		TotalDeposits: s.ledger.TotalDeposits(),
	})
	s.refreshGauges(ctx)
	metrics.RecordPendingWithdrawals(s.ledger.PendingWithdrawalCount())

	log.Ctx(ctx).Info().
		Str("participant", participant).
		Uint64("amount", res.Amount).
		Int("index", index).
		Msg("withdrawal released")
	return res, nil
}

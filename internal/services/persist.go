package services

import (
	"context"
	"fmt"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

// persistPoolState writes the pool-level document from the current engine
// state. Callers hold the service lock.
func (s *Service) persistPoolState(ctx context.Context) error {
	state := s.ledger.ExportState()

	s.rolesMu.RLock()
	investor, pauser := s.investor, s.pauser
	s.rolesMu.RUnlock()

	doc := &model.PoolStateDocument{
		TotalDeposits: state.TotalDeposits,
		Params: model.PoolParams{
			MinDeposit:             state.Params.MinDeposit,
			MaxDeposit:             state.Params.MaxDeposit,
			WithdrawalCooldown:     state.Params.WithdrawalCooldown,
			WithdrawalFreezePeriod: state.Params.WithdrawalFreezePeriod,
			CommissionRate:         state.Params.CommissionRate,
		},
		Investor:           investor,
		Pauser:             pauser,
		Paused:             s.paused.Load(),
		LastDistributionAt: state.LastDistributionAt,
		LastWithdrawalAt:   state.LastWithdrawalAt,
	}
	if err := s.db.UpsertPoolState(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist pool state: %w", err)
	}
	return nil
}

// persistBalances writes the given participants' current balances.
func (s *Service) persistBalances(ctx context.Context, participants ...string) error {
	docs := make([]model.AccountDocument, 0, len(participants))
	for _, p := range participants {
		docs = append(docs, model.AccountDocument{
			Participant: p,
			Balance:     s.ledger.Balance(p),
		})
	}
	if err := s.db.UpsertAccounts(ctx, docs); err != nil {
		return fmt.Errorf("failed to persist balances: %w", err)
	}
	return nil
}

func (s *Service) persistSnapshot(ctx context.Context, snap ledger.DepositSnapshot) error {
	doc := &model.SnapshotDocument{
		Timestamp:     snap.Timestamp,
		TotalDeposits: snap.TotalDeposits,
	}
	if err := s.db.SaveDepositSnapshot(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

// profitLoadWindow matches the engine's in-memory profit retention: only
// records the return calculator can still read are loaded on restart.
const profitLoadWindow = 366 * 24 * time.Hour

// LoadLedgerState assembles an engine state from the persisted collections.
// Returns a NotFoundError when no pool state document exists yet, i.e. on
// the very first boot.
func (db *Database) LoadLedgerState(ctx context.Context, now time.Time) (*ledger.State, *model.PoolStateDocument, error) {
	poolState, err := db.GetPoolState(ctx)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := db.GetAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	balances := make(map[string]uint64, len(accounts))
	for _, account := range accounts {
		balances[account.Participant] = account.Balance
	}

	withdrawalDocs, err := db.GetWithdrawals(ctx)
	if err != nil {
		return nil, nil, err
	}
	withdrawals := make(map[string][]ledger.WithdrawalRequest)
	for _, doc := range withdrawalDocs {
		list := withdrawals[doc.Participant]
		// indexes are dense (append-only queue) but load order is not
		// guaranteed, so grow and place by index
		for len(list) <= doc.Index {
			list = append(list, ledger.WithdrawalRequest{})
		}
		list[doc.Index] = ledger.WithdrawalRequest{
			Amount:     doc.Amount,
			UnlockTime: doc.UnlockTime,
			Processed:  doc.Processed,
		}
		withdrawals[doc.Participant] = list
	}

	snapshotDocs, err := db.GetRecentSnapshots(ctx, ledger.SnapshotCapacity)
	if err != nil {
		return nil, nil, err
	}
	snapshots := make([]ledger.DepositSnapshot, 0, len(snapshotDocs))
	for _, doc := range snapshotDocs {
		snapshots = append(snapshots, ledger.DepositSnapshot{
			Timestamp:     doc.Timestamp,
			TotalDeposits: doc.TotalDeposits,
		})
	}

	profitDocs, err := db.GetProfitRecordsSince(ctx, now.Add(-profitLoadWindow))
	if err != nil {
		return nil, nil, err
	}
	profits := make([]ledger.ProfitRecord, 0, len(profitDocs))
	for _, doc := range profitDocs {
		profits = append(profits, ledger.ProfitRecord{
			Timestamp: doc.Timestamp,
			Profit:    doc.Profit,
		})
	}

	state := &ledger.State{
		Balances:           balances,
		TotalDeposits:      poolState.TotalDeposits,
		Snapshots:          snapshots,
		Profits:            profits,
		Withdrawals:        withdrawals,
		LastWithdrawalAt:   poolState.LastWithdrawalAt,
		LastDistributionAt: poolState.LastDistributionAt,
		Params: ledger.Params{
			MinDeposit:             poolState.Params.MinDeposit,
			MaxDeposit:             poolState.Params.MaxDeposit,
			WithdrawalCooldown:     poolState.Params.WithdrawalCooldown,
			WithdrawalFreezePeriod: poolState.Params.WithdrawalFreezePeriod,
			CommissionRate:         poolState.Params.CommissionRate,
		},
	}
	return state, poolState, nil
}

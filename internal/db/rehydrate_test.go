//go:build integration

package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func TestLoadLedgerState(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, testDB.UpsertPoolState(ctx, &model.PoolStateDocument{
		TotalDeposits: 1500,
		Params: model.PoolParams{
			MinDeposit:             100,
			MaxDeposit:             10_000,
			WithdrawalCooldown:     24 * time.Hour,
			WithdrawalFreezePeriod: 48 * time.Hour,
			CommissionRate:         10,
		},
	}))
	require.NoError(t, testDB.UpsertAccounts(ctx, []model.AccountDocument{
		{Participant: "alice", Balance: 1000},
		{Participant: "bob", Balance: 500},
		{Participant: "gone", Balance: 0},
	}))
	require.NoError(t, testDB.SaveWithdrawalRequest(ctx,
		model.NewWithdrawalDocument("alice", 0, 300, now.Add(48*time.Hour), now)))
	require.NoError(t, testDB.SaveDepositSnapshot(ctx, &model.SnapshotDocument{
		Timestamp:     now,
		TotalDeposits: 1500,
	}))
	require.NoError(t, testDB.SaveProfitRecord(ctx, &model.ProfitDocument{
		Timestamp: now,
		Profit:    100,
	}))

	state, poolState, err := testDB.LoadLedgerState(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, uint64(1500), poolState.TotalDeposits)
	assert.Equal(t, uint64(1000), state.Balances["alice"])
	assert.Equal(t, uint64(500), state.Balances["bob"])
	assert.Contains(t, state.Balances, "gone")

	require.Len(t, state.Withdrawals["alice"], 1)
	assert.Equal(t, uint64(300), state.Withdrawals["alice"][0].Amount)

	require.Len(t, state.Snapshots, 1)
	assert.Equal(t, uint64(1500), state.Snapshots[0].TotalDeposits)

	require.Len(t, state.Profits, 1)
	assert.Equal(t, int64(100), state.Profits[0].Profit)
}

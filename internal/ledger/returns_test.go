package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualReturnRateDegenerate(t *testing.T) {
	now := time.Now()

	t.Run("no history", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		assert.Zero(t, l.AnnualReturnRate(now))
	})
	t.Run("no deposits", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.CreateManualSnapshot(now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, l.AnnualReturnRate(now))
	})
	t.Run("zero average", func(t *testing.T) {
		l := newTestLedger(t, nil)
		// snapshot of an empty pool, deposits arrive later
		_, err := l.CreateManualSnapshot(now.Add(-time.Hour))
		require.NoError(t, err)
		_, err = l.Deposit("alice", 1000)
		require.NoError(t, err)
		assert.Zero(t, l.AnnualReturnRate(now))
	})
}

func TestAnnualReturnRateSingleSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)
	// distribution appends the snapshot and the profit record
	_, err = l.DistributeProfit(ctx, 100, now.Add(-30*24*time.Hour))
	require.NoError(t, err)

	// the single snapshot (total 1100) is weighted over the 30 days to now:
	// average = 1100, windowed profit = 100 → 100*100/1100 = 9
	assert.Equal(t, int64(9), l.AnnualReturnRate(now))
}

func TestAnnualReturnRateTimeWeighted(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLedger(t, nil)
	l.totalDeposits = 3000

	// two snapshots fully inside the window: 1000 for 100 days, then 3000
	// for 50 days
	day := 24 * time.Hour
	require.NoError(t, l.snapshots.append(DepositSnapshot{Timestamp: now.Add(-150 * day), TotalDeposits: 1000}))
	require.NoError(t, l.snapshots.append(DepositSnapshot{Timestamp: now.Add(-50 * day), TotalDeposits: 3000}))
	l.profits.append(ProfitRecord{Timestamp: now.Add(-50 * day), Profit: 2000})

	// average = (1000*100d + 3000*50d) / 150d = 1666
	// rate = 2000*100/1666 = 120
	assert.Equal(t, int64(120), l.AnnualReturnRate(now))
}

func TestAnnualReturnRateWindowBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLedger(t, nil)
	l.totalDeposits = 2000

	day := 24 * time.Hour
	// older than the window: contributes one partial segment clipped at the
	// 365-day boundary, then the walk stops
	require.NoError(t, l.snapshots.append(DepositSnapshot{Timestamp: now.Add(-500 * day), TotalDeposits: 1000}))
	require.NoError(t, l.snapshots.append(DepositSnapshot{Timestamp: now.Add(-100 * day), TotalDeposits: 2000}))
	l.profits.append(ProfitRecord{Timestamp: now.Add(-400 * day), Profit: 999_999})
	l.profits.append(ProfitRecord{Timestamp: now.Add(-100 * day), Profit: 500})

	// weighted: 2000 over the last 100 days, 1000 over the 265 days from
	// the boundary to the second snapshot → avg = (2000*100 + 1000*265)/365
	// = 1273; only the in-window profit counts: 500*100/1273 = 39
	assert.Equal(t, int64(39), l.AnnualReturnRate(now))
}

func TestAnnualReturnRateNegativeProfit(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)
	_, err = l.DistributeProfit(ctx, -200, now.Add(-10*24*time.Hour))
	require.NoError(t, err)

	// average 800 over the trailing 10 days, windowed profit -200
	assert.Equal(t, int64(-25), l.AnnualReturnRate(now))
}

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeProfitValidation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("zero profit", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.DistributeProfit(ctx, 0, now)
		require.ErrorIs(t, err, ErrZeroProfit)
	})
	t.Run("no deposits", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.DistributeProfit(ctx, 100, now)
		require.ErrorIs(t, err, ErrNoDeposits)
	})
	t.Run("insufficient custody", func(t *testing.T) {
		l := newTestLedger(t, &fakeCustody{available: 99})
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.DistributeProfit(ctx, 100, now)
		require.ErrorIs(t, err, ErrInsufficientCustody)
		assert.Equal(t, uint64(1000), l.TotalDeposits())
	})
	// A rejection must leave the ledger untouched, even when the failing
	// check is the one that guards the trailing snapshot.
	t.Run("timestamp behind newest snapshot", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.CreateManualSnapshot(now.Add(time.Hour))
		require.NoError(t, err)

		_, err = l.DistributeProfit(ctx, 100, now)
		require.ErrorIs(t, err, ErrNonMonotonicSnapshot)

		assert.Equal(t, uint64(1000), l.TotalDeposits())
		assert.Equal(t, uint64(1000), l.Balance("alice"))
		assert.Zero(t, l.Balance("owner"))
		assert.Empty(t, l.ProfitHistory())
		assert.True(t, l.LastDistributionTime().IsZero())
		assert.Len(t, l.Snapshots(), 1)

		_, err = l.DistributeProfit(ctx, -100, now)
		require.ErrorIs(t, err, ErrNonMonotonicSnapshot)
		assert.Equal(t, uint64(1000), l.TotalDeposits())
		assert.Equal(t, uint64(1000), l.Balance("alice"))
	})
	t.Run("loss above total", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.DistributeProfit(ctx, -1001, now)
		require.ErrorIs(t, err, ErrLossExceedsDeposits)
	})
}

// The worked example: single depositor, commission rate 10. The remainder
// stays uncredited because there is no member besides owner and creator to
// take it, yet the total still grows by the full profit.
func TestDistributeProfitSoleDepositor(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)

	// Alice is the only non-owner/creator member, so she takes the remainder.
	res, err := l.DistributeProfit(ctx, 100, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), res.Commission)
	assert.Equal(t, uint64(1), res.CreatorTax)
	assert.Equal(t, uint64(89), res.Distributed)
	assert.Equal(t, uint64(1100), l.TotalDeposits())
	assert.Equal(t, uint64(1089), l.Balance("alice"))
	assert.Equal(t, uint64(10), l.Balance("owner"))
	assert.Equal(t, uint64(1), l.Balance("creator"))
	assert.Equal(t, now, l.LastDistributionTime())
}

func TestDistributeProfitProRata(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)
	_, err = l.Deposit("bob", 3000)
	require.NoError(t, err)

	res, err := l.DistributeProfit(ctx, 400, now)
	require.NoError(t, err)
	// commission 40, tax 4, remainder 356 over base 4000
	assert.Equal(t, uint64(40), res.Commission)
	assert.Equal(t, uint64(4), res.CreatorTax)
	assert.Equal(t, uint64(1000+89), l.Balance("alice"))
	assert.Equal(t, uint64(3000+267), l.Balance("bob"))
	assert.Equal(t, uint64(89+267), res.Distributed)

	// conservation: commission + tax + remainder == profit, and the total
	// grows by the full profit
	assert.Equal(t, uint64(400), res.Commission+res.CreatorTax+res.Distributed)
	assert.Equal(t, uint64(4400), l.TotalDeposits())
}

func TestDistributeProfitRoundingDust(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)
	_, err = l.Deposit("bob", 1000)
	require.NoError(t, err)
	_, err = l.Deposit("carol", 1000)
	require.NoError(t, err)

	// commission 0 (rate 10, profit 7 → 0), tax 0, remainder 7 over 3000:
	// each share truncates to 2, one unit vanishes by design
	res, err := l.DistributeProfit(ctx, 7, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.Commission)
	assert.Equal(t, uint64(0), res.CreatorTax)
	assert.Equal(t, uint64(6), res.Distributed)
	assert.Equal(t, uint64(3007), l.TotalDeposits())

	var sum uint64
	for _, m := range l.Members() {
		sum += l.Balance(m)
	}
	assert.Equal(t, uint64(3006), sum)
	assert.Equal(t, uint64(1), l.TotalDeposits()-sum)
}

func TestDistributeLoss(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("pro-rata absorption", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.Deposit("bob", 3000)
		require.NoError(t, err)

		res, err := l.DistributeProfit(ctx, -400, now)
		require.NoError(t, err)
		assert.Equal(t, uint64(900), l.Balance("alice"))
		assert.Equal(t, uint64(2700), l.Balance("bob"))
		assert.Equal(t, uint64(400), res.Distributed)
		// total shrinks by the full loss
		assert.Equal(t, uint64(3600), l.TotalDeposits())
	})

	t.Run("shortfall taken from owner", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)
		_, err = l.Deposit("bob", 1000)
		require.NoError(t, err)
		// give the owner a balance via a profit event
		_, err = l.DistributeProfit(ctx, 1000, now)
		require.NoError(t, err)
		ownerBefore := l.Balance("owner")
		require.NotZero(t, ownerBefore)

		totalBefore := l.TotalDeposits()
		loss := int64(7)
		res, err := l.DistributeProfit(ctx, -loss, now.Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, totalBefore-uint64(loss), l.TotalDeposits())
		// whatever truncation left over came out of the owner
		absorbed := res.Distributed
		assert.Equal(t, ownerBefore-(uint64(loss)-absorbed)-ownerShare(ownerBefore, uint64(loss), totalBefore), l.Balance("owner"))
	})

	t.Run("owner clamped at zero", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 101)
		require.NoError(t, err)
		_, err = l.Deposit("bob", 100)
		require.NoError(t, err)

		// owner has no balance: shortfall is silently dropped
		_, err = l.DistributeProfit(ctx, -3, now)
		require.NoError(t, err)
		assert.Equal(t, uint64(198), l.TotalDeposits())
		assert.Zero(t, l.Balance("owner"))
		// drift between total and the sum of balances persists by design
		assert.Equal(t, uint64(100), l.Balance("alice"))
		assert.Equal(t, uint64(99), l.Balance("bob"))
	})

	t.Run("wiped out member leaves membership", func(t *testing.T) {
		l := newTestLedger(t, nil)
		_, err := l.Deposit("alice", 1000)
		require.NoError(t, err)

		_, err = l.DistributeProfit(ctx, -1000, now)
		require.NoError(t, err)
		assert.Zero(t, l.TotalDeposits())
		assert.Zero(t, l.Balance("alice"))
		assert.Zero(t, l.MemberCount())
	})
}

// ownerShare mirrors the pro-rata floor division applied to the owner when
// it is itself a member during a loss event.
func ownerShare(ownerBalance, loss, totalBefore uint64) uint64 {
	return ownerBalance * loss / totalBefore
}

func TestDistributionAppendsHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := newTestLedger(t, nil)

	_, err := l.Deposit("alice", 1000)
	require.NoError(t, err)

	_, err = l.DistributeProfit(ctx, 100, now)
	require.NoError(t, err)
	_, err = l.DistributeProfit(ctx, -50, now.Add(time.Minute))
	require.NoError(t, err)

	snaps := l.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, uint64(1100), snaps[0].TotalDeposits)
	assert.Equal(t, uint64(1050), snaps[1].TotalDeposits)

	history := l.ProfitHistory()
	require.Len(t, history, 2)
	assert.Equal(t, int64(100), history[0].Profit)
	assert.Equal(t, int64(-50), history[1].Profit)
}

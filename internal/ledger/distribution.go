package ledger

import (
	"context"
	"math/bits"
	"time"
)

// DistributionResult is the notification payload of a committed
// profit/loss distribution.
type DistributionResult struct {
	Profit      int64     `json:"profit"`
	Commission  uint64    `json:"commission"`
	CreatorTax  uint64    `json:"creator_tax"`
	Distributed uint64    `json:"distributed"`
	Timestamp   time.Time `json:"timestamp"`
}

// DistributeProfit spreads an externally reported signed profit across the
// membership set.
//
// Positive profit: a commission (CommissionRate%) and a fixed 1% creator tax
// are carved out to the owner and creator accounts; the remainder is split
// pro-rata across every other member relative to the pre-distribution total
// minus the owner and creator balances. Per-share floor division truncates,
// and the truncated dust is credited to nobody; the total still grows by
// the full profit. This imbalance is intentional and must not be
// re-normalized.
//
// Negative profit: every member absorbs balance*loss/total (floor), the
// shortfall left by truncation is taken from the owner clamped at zero, and
// the total shrinks by the full loss. The resulting drift between the total
// and the sum of balances is a documented property of the design.
func (l *Ledger) DistributeProfit(ctx context.Context, profit int64, now time.Time) (*DistributionResult, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.exit()

	if profit == 0 {
		return nil, ErrZeroProfit
	}
	if l.totalDeposits == 0 {
		return nil, ErrNoDeposits
	}
	// The snapshot appended after the balance pass must not be able to
	// reject, so the timestamp is validated before anything is mutated.
	if prev, ok := l.snapshots.newest(); ok && now.Before(prev.Timestamp) {
		return nil, ErrNonMonotonicSnapshot
	}

	var (
		result *DistributionResult
		err    error
	)
	if profit > 0 {
		result, err = l.distributeGain(ctx, uint64(profit), now)
	} else {
		result, err = l.distributeLoss(uint64(-profit), now)
	}
	if err != nil {
		return nil, err
	}

	l.lastDistributionAt = now
	l.profits.append(ProfitRecord{Timestamp: now, Profit: profit})
	// Non-manual snapshots tolerate equal timestamps; the ordering check
	// already passed above, so push directly.
	l.snapshots.push(DepositSnapshot{Timestamp: now, TotalDeposits: l.totalDeposits})
	return result, nil
}

func (l *Ledger) distributeGain(ctx context.Context, profit uint64, now time.Time) (*DistributionResult, error) {
	available, err := l.custody.Available(ctx)
	if err != nil {
		return nil, err
	}
	if available < profit {
		return nil, ErrInsufficientCustody
	}
	if !canAdd(l.totalDeposits, profit) {
		return nil, ErrTotalOverflow
	}

	totalBefore := l.totalDeposits
	ownerBefore := l.accounts.balance(l.owner)
	creatorBefore := l.accounts.balance(l.creator)

	commission := mulDiv(profit, l.params.CommissionRate, 100)
	creatorTax := profit / 100
	toDistribute := profit - commission - creatorTax

	l.accounts.credit(l.owner, commission)
	l.accounts.credit(l.creator, creatorTax)

	// Shares are computed against the pre-distribution balances. The owner
	// and creator never take part in the pro-rata split.
	base := totalBefore - ownerBefore - creatorBefore
	var distributed uint64
	if base > 0 && toDistribute > 0 {
		for _, member := range l.accounts.memberSnapshot() {
			if member == l.owner || member == l.creator {
				continue
			}
			share := mulDiv(l.accounts.balance(member), toDistribute, base)
			if share == 0 {
				continue
			}
			l.accounts.credit(member, share)
			distributed += share
		}
	}

	// The total grows by the full profit regardless of per-share rounding
	// loss; the dust stays uncredited.
	l.totalDeposits = totalBefore + profit

	return &DistributionResult{
		Profit:      int64(profit),
		Commission:  commission,
		CreatorTax:  creatorTax,
		Distributed: distributed,
		Timestamp:   now,
	}, nil
}

func (l *Ledger) distributeLoss(loss uint64, now time.Time) (*DistributionResult, error) {
	totalBefore := l.totalDeposits
	if loss > totalBefore {
		return nil, ErrLossExceedsDeposits
	}

	var totalLossDistributed uint64
	members := l.accounts.memberSnapshot()
	for _, member := range members {
		bal := l.accounts.balance(member)
		if bal == 0 {
			continue
		}
		userLoss := mulDiv(bal, loss, totalBefore)
		if userLoss == 0 {
			continue
		}
		// userLoss <= bal because loss <= totalBefore.
		if err := l.accounts.debit(member, userLoss); err != nil {
			return nil, err
		}
		totalLossDistributed += userLoss
	}

	// Whatever floor division left undistributed comes out of the owner,
	// clamped at zero, never from any other account.
	if totalLossDistributed < loss {
		shortfall := loss - totalLossDistributed
		if ownerBal := l.accounts.balance(l.owner); shortfall > ownerBal {
			shortfall = ownerBal
		}
		if shortfall > 0 {
			if err := l.accounts.debit(l.owner, shortfall); err != nil {
				return nil, err
			}
		}
	}

	// The total shrinks by the full loss even when less was removed from
	// individual balances.
	l.totalDeposits = totalBefore - loss

	for _, member := range members {
		l.accounts.removeIfEmpty(member)
	}
	l.accounts.removeIfEmpty(l.owner)

	return &DistributionResult{
		Profit:      -int64(loss),
		Distributed: totalLossDistributed,
		Timestamp:   now,
	}, nil
}

// mulDiv computes a*b/c without intermediate overflow. c must be nonzero
// and the quotient must fit in 64 bits; both hold for pro-rata shares where
// a <= c.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo / c
	}
	quo, _ := bits.Div64(hi, lo, c)
	return quo
}

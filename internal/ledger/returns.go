package ledger

import (
	"math"
	"math/bits"
	"time"
)

// returnWindow is the trailing window the annualized return is derived from.
const returnWindow = 365 * 24 * time.Hour

// AnnualReturnRate derives the trailing-12-month return percentage from the
// snapshot log and profit history: the windowed profit sum over the
// time-weighted average of the pool total.
//
// The snapshot walk goes from the most recent entry backward with a signed
// index so it terminates explicitly at the first element instead of
// wrapping. Each snapshot's value is weighted by the time delta to its
// newer neighbour (or to now for the most recent); the first snapshot older
// than the window boundary contributes one partial segment clipped at the
// boundary, then the walk stops.
//
// Returns 0 when there is no history, no deposits, or the average computes
// to zero.
func (l *Ledger) AnnualReturnRate(now time.Time) int64 {
	n := l.snapshots.len()
	if n == 0 || l.totalDeposits == 0 {
		return 0
	}

	windowStart := now.Add(-returnWindow)

	var (
		weightedHi, weightedLo uint64
		totalSeconds           uint64
	)
	segmentEnd := now
	for i := n - 1; i >= 0; i-- {
		snap := l.snapshots.at(i)
		segmentStart := snap.Timestamp
		older := snap.Timestamp.Before(windowStart)
		if older {
			segmentStart = windowStart
		}
		if segmentEnd.Before(segmentStart) {
			break
		}
		dt := uint64(segmentEnd.Sub(segmentStart) / time.Second)
		if dt > 0 {
			hi, lo := bits.Mul64(snap.TotalDeposits, dt)
			var carry uint64
			weightedLo, carry = bits.Add64(weightedLo, lo, 0)
			weightedHi, _ = bits.Add64(weightedHi, hi, carry)
			totalSeconds += dt
		}
		if older {
			break
		}
		segmentEnd = snap.Timestamp
	}

	if totalSeconds == 0 {
		return 0
	}
	// Each weighted value is below 2^64, so the quotient fits and
	// weightedHi < totalSeconds holds by construction.
	average, _ := bits.Div64(weightedHi, weightedLo, totalSeconds)
	if average == 0 || average > math.MaxInt64 {
		return 0
	}

	profitSum := l.profits.sumWindow(windowStart, now)
	return profitSum * 100 / int64(average)
}

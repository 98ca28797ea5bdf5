package ledger

import (
	"context"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// WithdrawalRequest is one entry in a participant's append-only request
// list, addressed by index. Processed transitions false→true exactly once.
type WithdrawalRequest struct {
	Amount     uint64
	UnlockTime time.Time
	Processed  bool
}

// State derives the request's position in the
// REQUESTED → UNLOCKABLE → PROCESSED machine at the given time.
func (r WithdrawalRequest) State(now time.Time) types.WithdrawalState {
	switch {
	case r.Processed:
		return types.WithdrawalStateProcessed
	case !now.Before(r.UnlockTime):
		return types.WithdrawalStateUnlockable
	default:
		return types.WithdrawalStateRequested
	}
}

// WithdrawalRequestResult is the notification payload of a committed
// withdrawal request.
type WithdrawalRequestResult struct {
	Participant string    `json:"participant"`
	Amount      uint64    `json:"amount"`
	Index       int       `json:"index"`
	UnlockTime  time.Time `json:"unlock_time"`
}

// WithdrawalResult is the notification payload of a released withdrawal.
type WithdrawalResult struct {
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
	Index       int    `json:"index"`
}

// RequestWithdrawal enqueues a time-locked withdrawal. The balance is not
// reserved or debited at request time: it stays spendable and may shrink
// below the requested amount (by another request's release or a loss
// distribution) before this request is released. WithdrawShare re-validates
// the amount at release time for exactly that reason.
func (l *Ledger) RequestWithdrawal(participant string, amount uint64, now time.Time) (*WithdrawalRequestResult, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.exit()

	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if amount > l.accounts.balance(participant) {
		return nil, ErrInsufficientBalance
	}

	req := WithdrawalRequest{
		Amount:     amount,
		UnlockTime: now.Add(l.params.WithdrawalFreezePeriod),
	}
	l.withdrawals[participant] = append(l.withdrawals[participant], req)
	index := len(l.withdrawals[participant]) - 1

	return &WithdrawalRequestResult{
		Participant: participant,
		Amount:      amount,
		Index:       index,
		UnlockTime:  req.UnlockTime,
	}, nil
}

// WithdrawShare releases a previously requested withdrawal. Both time gates
// are boundary-inclusive: release is accepted exactly at the unlock time and
// exactly at the end of the cooldown. The custody release runs before any
// balance mutation so a failed transfer rejects the whole operation.
func (l *Ledger) WithdrawShare(ctx context.Context, participant string, index int, now time.Time) (*WithdrawalResult, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.exit()

	reqs := l.withdrawals[participant]
	if index < 0 || index >= len(reqs) {
		return nil, ErrRequestNotFound
	}
	req := reqs[index]
	if req.Processed {
		return nil, ErrAlreadyProcessed
	}
	if now.Before(req.UnlockTime) {
		return nil, ErrStillFrozen
	}
	if last, ok := l.lastWithdrawalAt[participant]; ok {
		if now.Before(last.Add(l.params.WithdrawalCooldown)) {
			return nil, ErrCooldownActive
		}
	}
	// The request did not reserve the balance, so the amount may no longer
	// be covered. An uncovered release is rejected, never allowed to drive
	// the balance negative.
	if req.Amount > l.accounts.balance(participant) {
		return nil, ErrInsufficientBalance
	}
	// Loss rounding drift can leave the tracked total below the sum of
	// balances; guard the unsigned subtraction explicitly.
	if req.Amount > l.totalDeposits {
		return nil, ErrTotalBelowWithdrawal
	}

	if err := l.custody.Release(ctx, participant, req.Amount); err != nil {
		return nil, err
	}

	if err := l.accounts.debit(participant, req.Amount); err != nil {
		return nil, err
	}
	l.totalDeposits -= req.Amount
	l.withdrawals[participant][index].Processed = true
	l.lastWithdrawalAt[participant] = now
	l.accounts.removeIfEmpty(participant)

	return &WithdrawalResult{
		Participant: participant,
		Amount:      req.Amount,
		Index:       index,
	}, nil
}

// Request returns a specific withdrawal request by index.
func (l *Ledger) Request(participant string, index int) (WithdrawalRequest, error) {
	reqs := l.withdrawals[participant]
	if index < 0 || index >= len(reqs) {
		return WithdrawalRequest{}, ErrRequestNotFound
	}
	return reqs[index], nil
}

// RequestCount returns the number of requests ever made by the participant.
func (l *Ledger) RequestCount(participant string) int {
	return len(l.withdrawals[participant])
}

// RequestsUnlockedWithin counts requests whose unlock time falls within the
// last `days` days, processed or not.
func (l *Ledger) RequestsUnlockedWithin(days int, now time.Time) int {
	from := now.AddDate(0, 0, -days)
	count := 0
	for _, reqs := range l.withdrawals {
		for _, req := range reqs {
			if req.UnlockTime.After(from) && !req.UnlockTime.After(now) {
				count++
			}
		}
	}
	return count
}

// PendingWithdrawalCount returns the number of unprocessed requests across
// all participants.
func (l *Ledger) PendingWithdrawalCount() int {
	count := 0
	for _, reqs := range l.withdrawals {
		for _, req := range reqs {
			if !req.Processed {
				count++
			}
		}
	}
	return count
}

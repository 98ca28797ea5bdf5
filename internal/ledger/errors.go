package ledger

import "errors"

// Every rejection is synchronous and leaves the ledger untouched. The host
// maps these onto transport-level error codes.
var (
	ErrBusy                 = errors.New("another ledger operation is in flight")
	ErrPaused               = errors.New("pool is paused")
	ErrAmountOutOfBounds    = errors.New("deposit amount outside configured bounds")
	ErrZeroAmount           = errors.New("amount must be positive")
	ErrTotalOverflow        = errors.New("total deposits would overflow")
	ErrInsufficientBalance  = errors.New("amount exceeds participant balance")
	ErrInsufficientCustody  = errors.New("custody does not hold enough funds")
	ErrZeroProfit           = errors.New("profit must be non-zero")
	ErrNoDeposits           = errors.New("no deposits to distribute over")
	ErrLossExceedsDeposits  = errors.New("loss exceeds total deposits")
	ErrRequestNotFound      = errors.New("withdrawal request not found")
	ErrAlreadyProcessed     = errors.New("withdrawal request already processed")
	ErrStillFrozen          = errors.New("withdrawal freeze period not yet elapsed")
	ErrCooldownActive       = errors.New("withdrawal cooldown not yet elapsed")
	ErrNonMonotonicSnapshot = errors.New("snapshot timestamp must exceed the previous one")
	ErrParamAboveCeiling    = errors.New("parameter exceeds configured ceiling")
	ErrTotalBelowWithdrawal = errors.New("withdrawal exceeds tracked total deposits")
	ErrUnknownRole          = errors.New("unknown role")
)

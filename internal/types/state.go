package types

// Enum values for withdrawal request state. A request starts out REQUESTED,
// becomes UNLOCKABLE once its unlock time is reached and ends PROCESSED.
// PROCESSED is terminal.
type WithdrawalState string

const (
	WithdrawalStateRequested  WithdrawalState = "REQUESTED"
	WithdrawalStateUnlockable WithdrawalState = "UNLOCKABLE"
	WithdrawalStateProcessed  WithdrawalState = "PROCESSED"
)

func (s WithdrawalState) String() string {
	return string(s)
}

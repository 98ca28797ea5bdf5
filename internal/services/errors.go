package services

import (
	"errors"
	"net/http"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

var validationErrs = []error{
	ledger.ErrAmountOutOfBounds,
	ledger.ErrZeroAmount,
	ledger.ErrTotalOverflow,
	ledger.ErrInsufficientBalance,
	ledger.ErrInsufficientCustody,
	ledger.ErrZeroProfit,
	ledger.ErrNoDeposits,
	ledger.ErrLossExceedsDeposits,
	ledger.ErrNonMonotonicSnapshot,
	ledger.ErrParamAboveCeiling,
	ledger.ErrTotalBelowWithdrawal,
	ledger.ErrUnknownRole,
}

var conflictErrs = []error{
	ledger.ErrBusy,
	ledger.ErrAlreadyProcessed,
	ledger.ErrStillFrozen,
	ledger.ErrCooldownActive,
}

// mapLedgerError translates an engine rejection into a transport error and
// counts it. Errors that are not engine sentinels are internal failures.
func mapLedgerError(operation string, err error) *types.Error {
	var typedErr *types.Error
	if errors.As(err, &typedErr) {
		return typedErr
	}

	for _, sentinel := range conflictErrs {
		if errors.Is(err, sentinel) {
			metrics.RecordLedgerRejection(operation, sentinel.Error())
			return types.NewError(http.StatusConflict, types.Conflict, err)
		}
	}
	if errors.Is(err, ledger.ErrRequestNotFound) {
		metrics.RecordLedgerRejection(operation, ledger.ErrRequestNotFound.Error())
		return types.NewError(http.StatusNotFound, types.NotFound, err)
	}
	if errors.Is(err, ledger.ErrPaused) {
		metrics.RecordLedgerRejection(operation, ledger.ErrPaused.Error())
		return types.NewError(http.StatusForbidden, types.SystemPaused, err)
	}
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			metrics.RecordLedgerRejection(operation, sentinel.Error())
			return types.NewValidationError(err)
		}
	}

	return types.NewInternalServiceError(err)
}

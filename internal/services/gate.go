package services

import (
	"fmt"
	"net/http"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// requireRole rejects callers that do not hold the given role. The owner
// account is fixed at configuration time; investor and pauser can be
// reassigned while running.
func (s *Service) requireRole(caller string, role types.Role) *types.Error {
	if caller == "" {
		return types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "caller identity is required")
	}

	s.rolesMu.RLock()
	defer s.rolesMu.RUnlock()

	var holder string
	switch role {
	case types.RoleOwner:
		holder = s.cfg.Ledger.OwnerAccount
	case types.RoleInvestor:
		holder = s.investor
	case types.RolePauser:
		holder = s.pauser
	default:
		return types.NewValidationError(ledger.ErrUnknownRole)
	}

	if caller != holder {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.Forbidden,
			fmt.Sprintf("caller does not hold the %s role", role),
		)
	}
	return nil
}

// checkPaused gates every mutating operation while the pool is paused.
func (s *Service) checkPaused() *types.Error {
	if s.paused.Load() {
		return types.NewError(http.StatusForbidden, types.SystemPaused, ledger.ErrPaused)
	}
	return nil
}

func (s *Service) Paused() bool {
	return s.paused.Load()
}

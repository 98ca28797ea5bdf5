package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/queue"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

// Tunable parameter names accepted by SetParam.
const (
	ParamMinDeposit             = "min-deposit"
	ParamMaxDeposit             = "max-deposit"
	ParamWithdrawalCooldown     = "withdrawal-cooldown"
	ParamWithdrawalFreezePeriod = "withdrawal-freeze-period"
	ParamCommissionRate         = "commission-rate"
)

// SetParam updates one tunable. Owner only; each parameter is checked
// against its ceiling by the engine.
func (s *Service) SetParam(ctx context.Context, caller, name, value string) (txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "set_param", txErr != nil)
	}()

	if err := s.requireRole(caller, types.RoleOwner); err != nil {
		return err
	}
	if err := s.checkPaused(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch name {
	case ParamMinDeposit:
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 64); err == nil {
			err = s.ledger.SetMinDeposit(v)
		}
	case ParamMaxDeposit:
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 64); err == nil {
			err = s.ledger.SetMaxDeposit(v)
		}
	case ParamWithdrawalCooldown:
		var d time.Duration
		if d, err = time.ParseDuration(value); err == nil {
			err = s.ledger.SetWithdrawalCooldown(d)
		}
	case ParamWithdrawalFreezePeriod:
		var d time.Duration
		if d, err = time.ParseDuration(value); err == nil {
			err = s.ledger.SetWithdrawalFreezePeriod(d)
		}
	case ParamCommissionRate:
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 64); err == nil {
			err = s.ledger.SetCommissionRate(v)
		}
	default:
		return types.NewValidationError(fmt.Errorf("unknown parameter %q", name))
	}
	if err != nil {
		return mapLedgerError("set_param", err)
	}

	if err := s.persistPoolState(ctx); err != nil {
		return types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventParamChanged, queue.ParamChangedEvent{
		Name:  name,
		Value: value,
	})

	log.Ctx(ctx).Info().Str("param", name).Str("value", value).Msg("parameter updated")
	return nil
}

// SetRole reassigns the investor or pauser role. Owner only; the owner role
// itself is fixed at configuration time.
func (s *Service) SetRole(ctx context.Context, caller string, role types.Role, account string) (txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "set_role", txErr != nil)
	}()

	if err := s.requireRole(caller, types.RoleOwner); err != nil {
		return err
	}
	if account == "" {
		return types.NewValidationError(fmt.Errorf("account is required"))
	}

	s.rolesMu.Lock()
	switch role {
	case types.RoleInvestor:
		s.investor = account
	case types.RolePauser:
		s.pauser = account
	default:
		s.rolesMu.Unlock()
		return types.NewValidationError(fmt.Errorf("role %q cannot be reassigned", role))
	}
	s.rolesMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistPoolState(ctx); err != nil {
		return types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventRoleChanged, queue.RoleChangedEvent{
		Role:    role.String(),
		Account: account,
	})

	log.Ctx(ctx).Info().Str("role", role.String()).Str("account", account).Msg("role reassigned")
	return nil
}

// SetPaused toggles the pause switch. Pauser only. Pausing is allowed while
// paused (idempotent), unlike the other mutating operations.
func (s *Service) SetPaused(ctx context.Context, caller string, paused bool) (txErr *types.Error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordLedgerOperation(time.Since(startTime), "set_paused", txErr != nil)
	}()

	if err := s.requireRole(caller, types.RolePauser); err != nil {
		return err
	}

	s.paused.Store(paused)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistPoolState(ctx); err != nil {
		return types.NewInternalServiceError(err)
	}

	s.publish(ctx, queue.EventPoolPaused, queue.PoolPausedEvent{Paused: paused})

	log.Ctx(ctx).Info().Bool("paused", paused).Msg("pause switch toggled")
	return nil
}

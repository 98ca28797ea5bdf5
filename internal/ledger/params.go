package ledger

import (
	"fmt"
	"time"
)

// Ceilings for the tunable parameters. Setter calls above these are
// rejected regardless of caller role.
const (
	MaxCommissionRate     = 50
	MaxWithdrawalCooldown = 90 * 24 * time.Hour
	MaxWithdrawalFreeze   = 90 * 24 * time.Hour
)

// Params are the tunables the engine consumes. All amounts are integer
// units of the pooled asset.
type Params struct {
	MinDeposit             uint64
	MaxDeposit             uint64
	WithdrawalCooldown     time.Duration
	WithdrawalFreezePeriod time.Duration
	// CommissionRate is a percentage (floor division by 100 on distribution).
	CommissionRate uint64
}

func (p *Params) Validate() error {
	if p.MinDeposit == 0 {
		return fmt.Errorf("min deposit must be positive")
	}
	if p.MaxDeposit < p.MinDeposit {
		return fmt.Errorf("max deposit %d below min deposit %d", p.MaxDeposit, p.MinDeposit)
	}
	if p.CommissionRate > MaxCommissionRate {
		return fmt.Errorf("commission rate %d above ceiling %d", p.CommissionRate, MaxCommissionRate)
	}
	if p.WithdrawalCooldown < 0 || p.WithdrawalCooldown > MaxWithdrawalCooldown {
		return fmt.Errorf("withdrawal cooldown out of range")
	}
	if p.WithdrawalFreezePeriod < 0 || p.WithdrawalFreezePeriod > MaxWithdrawalFreeze {
		return fmt.Errorf("withdrawal freeze period out of range")
	}
	return nil
}

// Params returns a copy of the current tunables.
func (l *Ledger) Params() Params {
	return l.params
}

func (l *Ledger) SetMinDeposit(v uint64) error {
	if v == 0 || v > l.params.MaxDeposit {
		return ErrParamAboveCeiling
	}
	l.params.MinDeposit = v
	return nil
}

func (l *Ledger) SetMaxDeposit(v uint64) error {
	if v < l.params.MinDeposit {
		return ErrParamAboveCeiling
	}
	l.params.MaxDeposit = v
	return nil
}

func (l *Ledger) SetWithdrawalCooldown(v time.Duration) error {
	if v < 0 || v > MaxWithdrawalCooldown {
		return ErrParamAboveCeiling
	}
	l.params.WithdrawalCooldown = v
	return nil
}

func (l *Ledger) SetWithdrawalFreezePeriod(v time.Duration) error {
	if v < 0 || v > MaxWithdrawalFreeze {
		return ErrParamAboveCeiling
	}
	l.params.WithdrawalFreezePeriod = v
	return nil
}

func (l *Ledger) SetCommissionRate(v uint64) error {
	if v > MaxCommissionRate {
		return ErrParamAboveCeiling
	}
	l.params.CommissionRate = v
	return nil
}

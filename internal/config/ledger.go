package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

type LedgerConfig struct {
	// OwnerAccount receives the commission carve-out and absorbs loss
	// shortfalls; it also holds the OWNER role at startup.
	OwnerAccount string `mapstructure:"owner-account"`
	// CreatorAccount receives the fixed 1% creator tax.
	CreatorAccount string `mapstructure:"creator-account"`
	// InvestorAccount holds the INVESTOR role (profit reporting) at startup.
	InvestorAccount string `mapstructure:"investor-account"`
	// PauserAccount holds the PAUSER role at startup.
	PauserAccount string `mapstructure:"pauser-account"`

	MinDeposit             uint64        `mapstructure:"min-deposit"`
	MaxDeposit             uint64        `mapstructure:"max-deposit"`
	WithdrawalCooldown     time.Duration `mapstructure:"withdrawal-cooldown"`
	WithdrawalFreezePeriod time.Duration `mapstructure:"withdrawal-freeze-period"`
	CommissionRate         uint64        `mapstructure:"commission-rate"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.OwnerAccount == "" {
		return errors.New("owner-account is required")
	}
	if cfg.CreatorAccount == "" {
		return errors.New("creator-account is required")
	}
	if cfg.InvestorAccount == "" {
		return errors.New("investor-account is required")
	}
	if cfg.PauserAccount == "" {
		return errors.New("pauser-account is required")
	}
	if cfg.MinDeposit == 0 {
		return errors.New("min-deposit must be positive")
	}
	if cfg.MaxDeposit < cfg.MinDeposit {
		return fmt.Errorf("max-deposit %d must not be below min-deposit %d", cfg.MaxDeposit, cfg.MinDeposit)
	}
	if cfg.WithdrawalCooldown < 0 {
		return errors.New("withdrawal-cooldown must not be negative")
	}
	if cfg.WithdrawalFreezePeriod < 0 {
		return errors.New("withdrawal-freeze-period must not be negative")
	}
	if cfg.CommissionRate > ledger.MaxCommissionRate {
		return fmt.Errorf("commission-rate %d above ceiling %d", cfg.CommissionRate, ledger.MaxCommissionRate)
	}

	return nil
}

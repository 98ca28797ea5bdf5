package model

import "time"

const (
	PoolStateCollection = "pool_state"
	PoolStateID         = "pool"
)

type PoolParams struct {
	MinDeposit             uint64        `bson:"min_deposit"`
	MaxDeposit             uint64        `bson:"max_deposit"`
	WithdrawalCooldown     time.Duration `bson:"withdrawal_cooldown"`
	WithdrawalFreezePeriod time.Duration `bson:"withdrawal_freeze_period"`
	CommissionRate         uint64        `bson:"commission_rate"`
}

// PoolStateDocument is the single-document record of everything about the
// pool that is not per-participant: the tracked total, tunable parameters,
// reassignable role holders and per-participant cooldown anchors.
type PoolStateDocument struct {
	ID                 string               `bson:"_id"` // Always PoolStateID
	TotalDeposits      uint64               `bson:"total_deposits"`
	Params             PoolParams           `bson:"params"`
	Investor           string               `bson:"investor"`
	Pauser             string               `bson:"pauser"`
	Paused             bool                 `bson:"paused"`
	LastDistributionAt time.Time            `bson:"last_distribution_at"`
	LastWithdrawalAt   map[string]time.Time `bson:"last_withdrawal_at"`
}

package queue

import "time"

const (
	EventDepositReceived     = "deposit_received"
	EventProfitDistributed   = "profit_distributed"
	EventWithdrawalRequested = "withdrawal_requested"
	EventWithdrawalReleased  = "withdrawal_released"
	EventParamChanged        = "param_changed"
	EventRoleChanged         = "role_changed"
	EventPoolPaused          = "pool_paused"
)

// Event is the envelope every published message shares. Payload carries the
// event-specific body.
type Event struct {
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type DepositReceivedEvent struct {
	Participant   string `json:"participant"`
	Amount        uint64 `json:"amount"`
	Balance       uint64 `json:"balance"`
	TotalDeposits uint64 `json:"total_deposits"`
}

type ProfitDistributedEvent struct {
	Profit        int64  `json:"profit"`
	Commission    uint64 `json:"commission"`
	CreatorTax    uint64 `json:"creator_tax"`
	Distributed   uint64 `json:"distributed"`
	TotalDeposits uint64 `json:"total_deposits"`
}

type WithdrawalRequestedEvent struct {
	Participant string    `json:"participant"`
	Amount      uint64    `json:"amount"`
	Index       int       `json:"index"`
	UnlockTime  time.Time `json:"unlock_time"`
}

type WithdrawalReleasedEvent struct {
	Participant   string `json:"participant"`
	Amount        uint64 `json:"amount"`
	Index         int    `json:"index"`
	TotalDeposits uint64 `json:"total_deposits"`
}

type ParamChangedEvent struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RoleChangedEvent struct {
	Role    string `json:"role"`
	Account string `json:"account"`
}

type PoolPausedEvent struct {
	Paused bool `json:"paused"`
}

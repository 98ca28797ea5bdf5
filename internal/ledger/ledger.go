package ledger

import (
	"context"
	"sync/atomic"
	"time"
)

// Custody is the external asset-transfer collaborator. The engine never
// moves funds itself: it checks available custody before crediting profit
// and triggers a release when a withdrawal is processed. Implementations
// must not call back into the engine.
type Custody interface {
	Available(ctx context.Context) (uint64, error)
	Release(ctx context.Context, participant string, amount uint64) error
}

// Config carries everything the engine needs at construction time.
type Config struct {
	// Owner receives the commission carve-out and absorbs loss shortfalls.
	Owner string
	// Creator receives the fixed 1% creator tax on profit events.
	Creator string
	Params  Params
	Custody Custody
}

// Ledger is the single owned state of the pool: per-participant balances,
// the tracked total, snapshot/profit history and the withdrawal queues.
// Execution is strictly serialized; every mutating entry point acquires the
// busy flag and rejects immediately if it is already held. There is no
// background work: all time gates are evaluated against the caller-supplied
// current time.
type Ledger struct {
	busy atomic.Bool

	owner   string
	creator string
	params  Params
	custody Custody

	accounts      *accountSet
	totalDeposits uint64

	snapshots *snapshotRing
	profits   *profitLog

	withdrawals      map[string][]WithdrawalRequest
	lastWithdrawalAt map[string]time.Time

	lastDistributionAt time.Time
}

func New(cfg Config) (*Ledger, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	return &Ledger{
		owner:            cfg.Owner,
		creator:          cfg.Creator,
		params:           cfg.Params,
		custody:          cfg.Custody,
		accounts:         newAccountSet(),
		snapshots:        newSnapshotRing(),
		profits:          &profitLog{},
		withdrawals:      make(map[string][]WithdrawalRequest),
		lastWithdrawalAt: make(map[string]time.Time),
	}, nil
}

// enter acquires the reentrancy guard. Callers must pair it with a deferred
// exit so the flag is released on every path, including early rejection.
func (l *Ledger) enter() error {
	if !l.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (l *Ledger) exit() {
	l.busy.Store(false)
}

// DepositResult is the notification payload of a committed deposit.
type DepositResult struct {
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
	Balance     uint64 `json:"balance"`
}

// Deposit credits amount to the participant, growing the pool total. The
// amount must lie within the configured [MinDeposit, MaxDeposit] bounds and
// must not overflow the total.
func (l *Ledger) Deposit(participant string, amount uint64) (*DepositResult, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.exit()

	if amount < l.params.MinDeposit || amount > l.params.MaxDeposit {
		return nil, ErrAmountOutOfBounds
	}
	if !canAdd(l.totalDeposits, amount) {
		return nil, ErrTotalOverflow
	}

	l.accounts.credit(participant, amount)
	l.totalDeposits += amount

	return &DepositResult{
		Participant: participant,
		Amount:      amount,
		Balance:     l.accounts.balance(participant),
	}, nil
}

// CreateManualSnapshot records the current total. Unlike distribution
// snapshots, the timestamp must strictly exceed the previous entry's.
func (l *Ledger) CreateManualSnapshot(now time.Time) (*DepositSnapshot, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.exit()

	snap := DepositSnapshot{Timestamp: now, TotalDeposits: l.totalDeposits}
	if err := l.snapshots.appendStrict(snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// --- Read-only queries ---

func (l *Ledger) Balance(participant string) uint64 {
	return l.accounts.balance(participant)
}

func (l *Ledger) TotalDeposits() uint64 {
	return l.totalDeposits
}

func (l *Ledger) MemberCount() int {
	return l.accounts.memberCount()
}

func (l *Ledger) Members() []string {
	return l.accounts.memberSnapshot()
}

func (l *Ledger) Owner() string {
	return l.owner
}

func (l *Ledger) Creator() string {
	return l.creator
}

func (l *Ledger) LastDistributionTime() time.Time {
	return l.lastDistributionAt
}

func (l *Ledger) Snapshots() []DepositSnapshot {
	return l.snapshots.entries()
}

func (l *Ledger) ProfitHistory() []ProfitRecord {
	return l.profits.entries()
}

// CustodyBalance reports the funds the custody collaborator currently holds.
func (l *Ledger) CustodyBalance(ctx context.Context) (uint64, error) {
	return l.custody.Available(ctx)
}

// --- Persistence helpers ---

// State is the serializable snapshot of the full ledger, used to rehydrate
// the engine from the database on restart.
type State struct {
	Balances           map[string]uint64
	Members            []string
	TotalDeposits      uint64
	Snapshots          []DepositSnapshot
	Profits            []ProfitRecord
	Withdrawals        map[string][]WithdrawalRequest
	LastWithdrawalAt   map[string]time.Time
	LastDistributionAt time.Time
	Params             Params
}

// ExportState captures the current in-memory state.
func (l *Ledger) ExportState() *State {
	balances := make(map[string]uint64, len(l.accounts.balances))
	for p, b := range l.accounts.balances {
		balances[p] = b
	}
	withdrawals := make(map[string][]WithdrawalRequest, len(l.withdrawals))
	for p, reqs := range l.withdrawals {
		cp := make([]WithdrawalRequest, len(reqs))
		copy(cp, reqs)
		withdrawals[p] = cp
	}
	lastWithdrawals := make(map[string]time.Time, len(l.lastWithdrawalAt))
	for p, t := range l.lastWithdrawalAt {
		lastWithdrawals[p] = t
	}
	return &State{
		Balances:           balances,
		Members:            l.accounts.memberSnapshot(),
		TotalDeposits:      l.totalDeposits,
		Snapshots:          l.snapshots.entries(),
		Profits:            l.profits.entries(),
		Withdrawals:        withdrawals,
		LastWithdrawalAt:   lastWithdrawals,
		LastDistributionAt: l.lastDistributionAt,
		Params:             l.params,
	}
}

// Restore replaces the in-memory state with a previously exported one.
// Membership is rebuilt from the balance map, not trusted from the input.
func (l *Ledger) Restore(state *State) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.exit()

	accounts := newAccountSet()
	for p, b := range state.Balances {
		accounts.balances[p] = b
		if b > 0 {
			accounts.addMember(p)
		}
	}
	snapshots := newSnapshotRing()
	for _, s := range state.Snapshots {
		if err := snapshots.append(s); err != nil {
			return err
		}
	}
	profits := &profitLog{}
	for _, rec := range state.Profits {
		profits.append(rec)
	}

	l.accounts = accounts
	l.totalDeposits = state.TotalDeposits
	l.snapshots = snapshots
	l.profits = profits
	l.withdrawals = make(map[string][]WithdrawalRequest, len(state.Withdrawals))
	for p, reqs := range state.Withdrawals {
		cp := make([]WithdrawalRequest, len(reqs))
		copy(cp, reqs)
		l.withdrawals[p] = cp
	}
	l.lastWithdrawalAt = make(map[string]time.Time, len(state.LastWithdrawalAt))
	for p, t := range state.LastWithdrawalAt {
		l.lastWithdrawalAt[p] = t
	}
	l.lastDistributionAt = state.LastDistributionAt
	l.params = state.Params
	return nil
}

package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

// MemDb is an in-memory db.DbInterface for tests that do not need a real
// mongo instance. Fields are exported so tests can assert on what was
// persisted.
type MemDb struct {
	Mu          sync.Mutex
	Accounts    map[string]uint64
	Withdrawals map[string]*model.WithdrawalDocument
	Snapshots   []model.SnapshotDocument
	Profits     []model.ProfitDocument
	PoolState   *model.PoolStateDocument
	Custody     uint64
}

var _ db.DbInterface = (*MemDb)(nil)

func NewMemDb() *MemDb {
	return &MemDb{
		Accounts:    make(map[string]uint64),
		Withdrawals: make(map[string]*model.WithdrawalDocument),
	}
}

func (m *MemDb) Ping(ctx context.Context) error { return nil }

func (m *MemDb) UpsertAccount(ctx context.Context, account *model.AccountDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Accounts[account.Participant] = account.Balance
	return nil
}

func (m *MemDb) UpsertAccounts(ctx context.Context, accounts []model.AccountDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	for _, account := range accounts {
		m.Accounts[account.Participant] = account.Balance
	}
	return nil
}

func (m *MemDb) GetAccount(ctx context.Context, participant string) (*model.AccountDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	balance, ok := m.Accounts[participant]
	if !ok {
		return nil, &db.NotFoundError{Key: participant, Message: "account not found"}
	}
	return model.NewAccountDocument(participant, balance), nil
}

func (m *MemDb) GetAccounts(ctx context.Context) ([]model.AccountDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	docs := make([]model.AccountDocument, 0, len(m.Accounts))
	for p, b := range m.Accounts {
		docs = append(docs, model.AccountDocument{Participant: p, Balance: b})
	}
	return docs, nil
}

func (m *MemDb) SaveWithdrawalRequest(ctx context.Context, doc *model.WithdrawalDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if _, ok := m.Withdrawals[doc.ID]; ok {
		return &db.DuplicateKeyError{Key: doc.ID, Message: "withdrawal request already exists"}
	}
	cp := *doc
	m.Withdrawals[doc.ID] = &cp
	return nil
}

func (m *MemDb) MarkWithdrawalProcessed(ctx context.Context, participant string, index int) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	doc, ok := m.Withdrawals[model.WithdrawalID(participant, index)]
	if !ok {
		return &db.NotFoundError{Message: "withdrawal request not found"}
	}
	doc.Processed = true
	return nil
}

func (m *MemDb) GetWithdrawalsByParticipant(ctx context.Context, participant string) ([]model.WithdrawalDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var docs []model.WithdrawalDocument
	for _, doc := range m.Withdrawals {
		if doc.Participant == participant {
			docs = append(docs, *doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Index < docs[j].Index })
	return docs, nil
}

func (m *MemDb) GetWithdrawals(ctx context.Context) ([]model.WithdrawalDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var docs []model.WithdrawalDocument
	for _, doc := range m.Withdrawals {
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (m *MemDb) FindUnlockingWithdrawals(ctx context.Context, deadline time.Time) ([]model.WithdrawalDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var docs []model.WithdrawalDocument
	for _, doc := range m.Withdrawals {
		if !doc.Processed && !doc.UnlockTime.After(deadline) {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (m *MemDb) SaveDepositSnapshot(ctx context.Context, doc *model.SnapshotDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Snapshots = append(m.Snapshots, *doc)
	return nil
}

func (m *MemDb) GetRecentSnapshots(ctx context.Context, limit int64) ([]model.SnapshotDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	docs := m.Snapshots
	if int64(len(docs)) > limit {
		docs = docs[int64(len(docs))-limit:]
	}
	out := make([]model.SnapshotDocument, len(docs))
	copy(out, docs)
	return out, nil
}

func (m *MemDb) SaveProfitRecord(ctx context.Context, doc *model.ProfitDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Profits = append(m.Profits, *doc)
	return nil
}

func (m *MemDb) GetProfitRecordsSince(ctx context.Context, since time.Time) ([]model.ProfitDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var docs []model.ProfitDocument
	for _, doc := range m.Profits {
		if !doc.Timestamp.Before(since) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (m *MemDb) UpsertPoolState(ctx context.Context, doc *model.PoolStateDocument) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	cp := *doc
	m.PoolState = &cp
	return nil
}

func (m *MemDb) GetPoolState(ctx context.Context) (*model.PoolStateDocument, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.PoolState == nil {
		return nil, &db.NotFoundError{Message: "pool state not found"}
	}
	cp := *m.PoolState
	return &cp, nil
}

func (m *MemDb) LoadLedgerState(ctx context.Context, now time.Time) (*ledger.State, *model.PoolStateDocument, error) {
	poolState, err := m.GetPoolState(ctx)
	if err != nil {
		return nil, nil, err
	}
	accounts, _ := m.GetAccounts(ctx)
	balances := make(map[string]uint64, len(accounts))
	for _, account := range accounts {
		balances[account.Participant] = account.Balance
	}
	withdrawalDocs, _ := m.GetWithdrawals(ctx)
	withdrawals := make(map[string][]ledger.WithdrawalRequest)
	for _, doc := range withdrawalDocs {
		list := withdrawals[doc.Participant]
		for len(list) <= doc.Index {
			list = append(list, ledger.WithdrawalRequest{})
		}
		list[doc.Index] = ledger.WithdrawalRequest{
			Amount:     doc.Amount,
			UnlockTime: doc.UnlockTime,
			Processed:  doc.Processed,
		}
		withdrawals[doc.Participant] = list
	}
	snapshotDocs, _ := m.GetRecentSnapshots(ctx, ledger.SnapshotCapacity)
	snapshots := make([]ledger.DepositSnapshot, 0, len(snapshotDocs))
	for _, doc := range snapshotDocs {
		snapshots = append(snapshots, ledger.DepositSnapshot{
			Timestamp:     doc.Timestamp,
			TotalDeposits: doc.TotalDeposits,
		})
	}
	profitDocs, _ := m.GetProfitRecordsSince(ctx, now.Add(-366*24*time.Hour))
	profits := make([]ledger.ProfitRecord, 0, len(profitDocs))
	for _, doc := range profitDocs {
		profits = append(profits, ledger.ProfitRecord{
			Timestamp: doc.Timestamp,
			Profit:    doc.Profit,
		})
	}
	return &ledger.State{
		Balances:           balances,
		TotalDeposits:      poolState.TotalDeposits,
		Snapshots:          snapshots,
		Profits:            profits,
		Withdrawals:        withdrawals,
		LastWithdrawalAt:   poolState.LastWithdrawalAt,
		LastDistributionAt: poolState.LastDistributionAt,
		Params: ledger.Params{
			MinDeposit:             poolState.Params.MinDeposit,
			MaxDeposit:             poolState.Params.MaxDeposit,
			WithdrawalCooldown:     poolState.Params.WithdrawalCooldown,
			WithdrawalFreezePeriod: poolState.Params.WithdrawalFreezePeriod,
			CommissionRate:         poolState.Params.CommissionRate,
		},
	}, poolState, nil
}

func (m *MemDb) GetCustodyBalance(ctx context.Context) (uint64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Custody, nil
}

func (m *MemDb) FundCustody(ctx context.Context, amount uint64) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Custody += amount
	return nil
}

func (m *MemDb) ReleaseCustody(ctx context.Context, amount uint64) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Custody < amount {
		return &db.InsufficientCustodyError{Requested: amount, Message: "insufficient custody"}
	}
	m.Custody -= amount
	return nil
}

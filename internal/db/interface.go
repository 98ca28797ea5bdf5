package db

import (
	"context"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	UpsertAccount(ctx context.Context, account *model.AccountDocument) error
	UpsertAccounts(ctx context.Context, accounts []model.AccountDocument) error
	GetAccount(ctx context.Context, participant string) (*model.AccountDocument, error)
	GetAccounts(ctx context.Context) ([]model.AccountDocument, error)

	SaveWithdrawalRequest(ctx context.Context, doc *model.WithdrawalDocument) error
	MarkWithdrawalProcessed(ctx context.Context, participant string, index int) error
	GetWithdrawalsByParticipant(ctx context.Context, participant string) ([]model.WithdrawalDocument, error)
	GetWithdrawals(ctx context.Context) ([]model.WithdrawalDocument, error)
	FindUnlockingWithdrawals(ctx context.Context, deadline time.Time) ([]model.WithdrawalDocument, error)

	SaveDepositSnapshot(ctx context.Context, doc *model.SnapshotDocument) error
	GetRecentSnapshots(ctx context.Context, limit int64) ([]model.SnapshotDocument, error)
	SaveProfitRecord(ctx context.Context, doc *model.ProfitDocument) error
	GetProfitRecordsSince(ctx context.Context, since time.Time) ([]model.ProfitDocument, error)

	UpsertPoolState(ctx context.Context, doc *model.PoolStateDocument) error
	GetPoolState(ctx context.Context) (*model.PoolStateDocument, error)
	LoadLedgerState(ctx context.Context, now time.Time) (*ledger.State, *model.PoolStateDocument, error)

	GetCustodyBalance(ctx context.Context) (uint64, error)
	FundCustody(ctx context.Context, amount uint64) error
	ReleaseCustody(ctx context.Context, amount uint64) error
}

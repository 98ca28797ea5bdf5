package db

import (
	"context"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) UpsertAccount(ctx context.Context, account *model.AccountDocument) error {
	return d.run("UpsertAccount", func() error {
		return d.db.UpsertAccount(ctx, account)
	})
}

func (d *DbWithMetrics) UpsertAccounts(ctx context.Context, accounts []model.AccountDocument) error {
	return d.run("UpsertAccounts", func() error {
		return d.db.UpsertAccounts(ctx, accounts)
	})
}

func (d *DbWithMetrics) GetAccount(ctx context.Context, participant string) (result *model.AccountDocument, err error) {
	//nolint:errcheck
	d.run("GetAccount", func() error {
		result, err = d.db.GetAccount(ctx, participant)
		return err
	})
	return
}

func (d *DbWithMetrics) GetAccounts(ctx context.Context) (result []model.AccountDocument, err error) {
	//nolint:errcheck
	d.run("GetAccounts", func() error {
		result, err = d.db.GetAccounts(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveWithdrawalRequest(ctx context.Context, doc *model.WithdrawalDocument) error {
	return d.run("SaveWithdrawalRequest", func() error {
		return d.db.SaveWithdrawalRequest(ctx, doc)
	})
}

func (d *DbWithMetrics) MarkWithdrawalProcessed(ctx context.Context, participant string, index int) error {
	return d.run("MarkWithdrawalProcessed", func() error {
		return d.db.MarkWithdrawalProcessed(ctx, participant, index)
	})
}

func (d *DbWithMetrics) GetWithdrawalsByParticipant(ctx context.Context, participant string) (result []model.WithdrawalDocument, err error) {
	//nolint:errcheck
	d.run("GetWithdrawalsByParticipant", func() error {
		result, err = d.db.GetWithdrawalsByParticipant(ctx, participant)
		return err
	})
	return
}

func (d *DbWithMetrics) GetWithdrawals(ctx context.Context) (result []model.WithdrawalDocument, err error) {
	//nolint:errcheck
	d.run("GetWithdrawals", func() error {
		result, err = d.db.GetWithdrawals(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) FindUnlockingWithdrawals(ctx context.Context, deadline time.Time) (result []model.WithdrawalDocument, err error) {
	//nolint:errcheck
	d.run("FindUnlockingWithdrawals", func() error {
		result, err = d.db.FindUnlockingWithdrawals(ctx, deadline)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveDepositSnapshot(ctx context.Context, doc *model.SnapshotDocument) error {
	return d.run("SaveDepositSnapshot", func() error {
		return d.db.SaveDepositSnapshot(ctx, doc)
	})
}

func (d *DbWithMetrics) GetRecentSnapshots(ctx context.Context, limit int64) (result []model.SnapshotDocument, err error) {
	//nolint:errcheck
	d.run("GetRecentSnapshots", func() error {
		result, err = d.db.GetRecentSnapshots(ctx, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveProfitRecord(ctx context.Context, doc *model.ProfitDocument) error {
	return d.run("SaveProfitRecord", func() error {
		return d.db.SaveProfitRecord(ctx, doc)
	})
}

func (d *DbWithMetrics) GetProfitRecordsSince(ctx context.Context, since time.Time) (result []model.ProfitDocument, err error) {
	//nolint:errcheck
	d.run("GetProfitRecordsSince", func() error {
		result, err = d.db.GetProfitRecordsSince(ctx, since)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertPoolState(ctx context.Context, doc *model.PoolStateDocument) error {
	return d.run("UpsertPoolState", func() error {
		return d.db.UpsertPoolState(ctx, doc)
	})
}

func (d *DbWithMetrics) GetPoolState(ctx context.Context) (result *model.PoolStateDocument, err error) {
	//nolint:errcheck
	d.run("GetPoolState", func() error {
		result, err = d.db.GetPoolState(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) LoadLedgerState(ctx context.Context, now time.Time) (state *ledger.State, poolState *model.PoolStateDocument, err error) {
	//nolint:errcheck
	d.run("LoadLedgerState", func() error {
		state, poolState, err = d.db.LoadLedgerState(ctx, now)
		return err
	})
	return
}

func (d *DbWithMetrics) GetCustodyBalance(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetCustodyBalance", func() error {
		result, err = d.db.GetCustodyBalance(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) FundCustody(ctx context.Context, amount uint64) error {
	return d.run("FundCustody", func() error {
		return d.db.FundCustody(ctx, amount)
	})
}

func (d *DbWithMetrics) ReleaseCustody(ctx context.Context, amount uint64) error {
	return d.run("ReleaseCustody", func() error {
		return d.db.ReleaseCustody(ctx, amount)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}

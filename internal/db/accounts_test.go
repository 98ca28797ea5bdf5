//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/testutil"
)

func TestAccounts(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("not found", func(t *testing.T) {
		doc, err := testDB.GetAccount(ctx, "nobody")
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, doc)
	})
	t.Run("upsert and get", func(t *testing.T) {
		doc := model.NewAccountDocument("alice", 1000)
		require.NoError(t, testDB.UpsertAccount(ctx, doc))

		found, err := testDB.GetAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, doc, found)

		// upsert overwrites the balance
		doc.Balance = 500
		require.NoError(t, testDB.UpsertAccount(ctx, doc))
		found, err = testDB.GetAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(500), found.Balance)
	})
	t.Run("bulk upsert", func(t *testing.T) {
		docs := []model.AccountDocument{
			*testutil.RandomAccountDocument(),
			*testutil.RandomAccountDocument(),
		}
		require.NoError(t, testDB.UpsertAccounts(ctx, docs))

		all, err := testDB.GetAccounts(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)
	})
}

func TestCustodyBalance(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("empty custody reads zero", func(t *testing.T) {
		balance, err := testDB.GetCustodyBalance(ctx)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})
	t.Run("fund and release", func(t *testing.T) {
		require.NoError(t, testDB.FundCustody(ctx, 1000))
		require.NoError(t, testDB.ReleaseCustody(ctx, 400))

		balance, err := testDB.GetCustodyBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), balance)
	})
	t.Run("release above balance rejected", func(t *testing.T) {
		err := testDB.ReleaseCustody(ctx, 10_000)
		assert.True(t, db.IsInsufficientCustodyError(err))
	})
}

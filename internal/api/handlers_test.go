package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundpool-labs/fundpool-ledger/internal/config"
	"github.com/fundpool-labs/fundpool-ledger/internal/custody"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/services"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
	"github.com/fundpool-labs/fundpool-ledger/testutil"
)

func newTestHandler(t *testing.T) (http.Handler, *testutil.MemDb) {
	t.Helper()
	metrics.Init(9999)

	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			OwnerAccount:           "owner",
			CreatorAccount:         "creator",
			InvestorAccount:        "investor",
			PauserAccount:          "pauser",
			MinDeposit:             100,
			MaxDeposit:             10_000,
			WithdrawalCooldown:     24 * time.Hour,
			WithdrawalFreezePeriod: 48 * time.Hour,
			CommissionRate:         10,
		},
		API: config.APIConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	mem := testutil.NewMemDb()
	svc, err := services.NewService(cfg, mem, nil, custody.New(mem))
	require.NoError(t, err)

	return New(&cfg.API, svc).routes(), mem
}

func doRequest(t *testing.T, handler http.Handler, method, path, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestDepositEndpoint(t *testing.T) {
	handler, mem := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
		Participant: "alice",
		Amount:      1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, float64(1000), res["balance"])
	assert.Equal(t, uint64(1000), mem.Accounts["alice"])

	t.Run("missing participant", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{Amount: 1000})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("amount below minimum", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
			Participant: "alice",
			Amount:      50,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		res := decodeBody[errorResponse](t, rec)
		assert.Equal(t, types.ValidationError.String(), res.ErrorCode)
	})
}

func TestDistributeEndpoint(t *testing.T) {
	handler, mem := newTestHandler(t)
	ctx := context.Background()

	rec := doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
		Participant: "alice",
		Amount:      1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("requires the investor role", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/v1/distribute", "alice", distributeRequest{Profit: 100})
		require.Equal(t, http.StatusForbidden, rec.Code)
		res := decodeBody[errorResponse](t, rec)
		assert.Equal(t, types.Forbidden.String(), res.ErrorCode)
	})

	t.Run("distributes and reports the carve-outs", func(t *testing.T) {
		require.NoError(t, mem.FundCustody(ctx, 100))

		rec := doRequest(t, handler, http.MethodPost, "/v1/distribute", "investor", distributeRequest{Profit: 100})
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[map[string]interface{}](t, rec)
		assert.Equal(t, float64(10), res["commission"])
		assert.Equal(t, float64(1), res["creator_tax"])
		assert.Equal(t, float64(89), res["distributed"])
	})

	t.Run("last distribution becomes queryable", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/v1/distributions/last", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[map[string]interface{}](t, rec)
		assert.Equal(t, float64(100), res["profit"])
	})
}

func TestWithdrawalEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
		Participant: "alice",
		Amount:      1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/v1/withdrawals", "", withdrawalRequest{
		Participant: "alice",
		Amount:      400,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, float64(0), created["index"])

	t.Run("release during the freeze period conflicts", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/v1/withdrawals/release", "", releaseRequest{
			Participant: "alice",
			Index:       0,
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		res := decodeBody[errorResponse](t, rec)
		assert.Equal(t, types.Conflict.String(), res.ErrorCode)
	})

	t.Run("list and single lookup", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/v1/withdrawals/alice", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeBody[[]services.WithdrawalStatus](t, rec)
		require.Len(t, list, 1)
		assert.Equal(t, types.WithdrawalStateRequested, list[0].State)

		rec = doRequest(t, handler, http.MethodGet, "/v1/withdrawals/alice/0", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/v1/withdrawals/alice/5", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unlocking count needs a positive days parameter", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/v1/withdrawals/unlocking", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/v1/withdrawals/unlocking?days=7", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[map[string]int](t, rec)
		assert.Zero(t, res["count"])
	})
}

func TestAdminEndpoints(t *testing.T) {
	handler, mem := newTestHandler(t)

	t.Run("set param is owner gated", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPut, "/v1/params/min-deposit", "alice", setParamRequest{Value: "200"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, handler, http.MethodPut, "/v1/params/min-deposit", "owner", setParamRequest{Value: "200"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint64(200), mem.PoolState.Params.MinDeposit)
	})

	t.Run("set role", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPut, "/v1/roles/investor", "owner", setRoleRequest{Account: "analyst"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "analyst", mem.PoolState.Investor)

		rec = doRequest(t, handler, http.MethodPut, "/v1/roles/owner", "owner", setRoleRequest{Account: "usurper"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pause blocks mutations", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPut, "/v1/pause", "pauser", setPausedRequest{Paused: true})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
			Participant: "alice",
			Amount:      1000,
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		res := decodeBody[errorResponse](t, rec)
		assert.Equal(t, types.SystemPaused.String(), res.ErrorCode)

		rec = doRequest(t, handler, http.MethodPut, "/v1/pause", "pauser", setPausedRequest{Paused: false})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("manual snapshot", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/v1/snapshots", "owner", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, mem.Snapshots, 1)
	})
}

func TestQueryEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/v1/accounts/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/v1/distributions/last", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/v1/deposit", "", depositRequest{
		Participant: "alice",
		Amount:      1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/v1/accounts/alice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	account := decodeBody[services.AccountStatus](t, rec)
	assert.Equal(t, uint64(1000), account.Balance)

	rec = doRequest(t, handler, http.MethodGet, "/v1/totals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decodeBody[services.PoolTotals](t, rec)
	assert.Equal(t, uint64(1000), totals.TotalDeposits)
	assert.Equal(t, 1, totals.MemberCount)

	rec = doRequest(t, handler, http.MethodGet, "/v1/return-rate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rate := decodeBody[map[string]int64](t, rec)
	assert.Zero(t, rate["annual_return_rate"])

	rec = doRequest(t, handler, http.MethodGet, "/v1/custody", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	custodyRes := decodeBody[map[string]uint64](t, rec)
	assert.Equal(t, uint64(1000), custodyRes["balance"])

	rec = doRequest(t, handler, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

type depositRequest struct {
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Participant == "" {
		badRequest(w, "participant is required")
		return
	}

	res, err := s.service.Deposit(r.Context(), req.Participant, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type distributeRequest struct {
	Profit int64 `json:"profit"`
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	res, err := s.service.DistributeProfit(r.Context(), r.Header.Get(CallerHeader), req.Profit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type withdrawalRequest struct {
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Participant == "" {
		badRequest(w, "participant is required")
		return
	}

	res, err := s.service.RequestWithdrawal(r.Context(), req.Participant, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type releaseRequest struct {
	Participant string `json:"participant"`
	Index       int    `json:"index"`
}

func (s *Server) handleReleaseWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Participant == "" {
		badRequest(w, "participant is required")
		return
	}

	res, err := s.service.ReleaseWithdrawal(r.Context(), req.Participant, req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.CreateSnapshot(r.Context(), r.Header.Get(CallerHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type setParamRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetParam(w http.ResponseWriter, r *http.Request) {
	var req setParamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.service.SetParam(r.Context(), r.Header.Get(CallerHeader), name, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type setRoleRequest struct {
	Account string `json:"account"`
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	role := types.Role(strings.ToUpper(chi.URLParam(r, "role")))
	if err := s.service.SetRole(r.Context(), r.Header.Get(CallerHeader), role, req.Account); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type setPausedRequest struct {
	Paused bool `json:"paused"`
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	var req setPausedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.service.SetPaused(r.Context(), r.Header.Get(CallerHeader), req.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.GetAccount(chi.URLParam(r, "participant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.GetTotals())
}

func (s *Server) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.GetSnapshots())
}

func (s *Server) handleGetWithdrawals(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.GetWithdrawals(r.Context(), chi.URLParam(r, "participant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetWithdrawal(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "index must be an integer")
		return
	}

	res, typedErr := s.service.GetWithdrawal(chi.URLParam(r, "participant"), index)
	if typedErr != nil {
		writeError(w, typedErr)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUnlocking(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		badRequest(w, "days must be a positive integer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": s.service.CountUnlockedWithin(days)})
}

func (s *Server) handleReturnRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"annual_return_rate": s.service.AnnualReturnRate()})
}

func (s *Server) handleLastDistribution(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.GetLastDistribution()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCustody(w http.ResponseWriter, r *http.Request) {
	balance, err := s.service.GetCustodyBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": balance})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

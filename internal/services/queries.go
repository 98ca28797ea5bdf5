package services

import (
	"context"
	"net/http"
	"time"

	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

type AccountStatus struct {
	Participant  string `json:"participant"`
	Balance      uint64 `json:"balance"`
	RequestCount int    `json:"request_count"`
}

type PoolTotals struct {
	TotalDeposits      uint64    `json:"total_deposits"`
	MemberCount        int       `json:"member_count"`
	Paused             bool      `json:"paused"`
	LastDistributionAt time.Time `json:"last_distribution_at"`
}

type WithdrawalStatus struct {
	Index      int                   `json:"index"`
	Amount     uint64                `json:"amount"`
	UnlockTime time.Time             `json:"unlock_time"`
	State      types.WithdrawalState `json:"state"`
}

func (s *Service) GetAccount(participant string) (*AccountStatus, *types.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance := s.ledger.Balance(participant)
	count := s.ledger.RequestCount(participant)
	if balance == 0 && count == 0 {
		return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "participant not found")
	}
	return &AccountStatus{
		Participant:  participant,
		Balance:      balance,
		RequestCount: count,
	}, nil
}

func (s *Service) GetTotals() *PoolTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &PoolTotals{
		TotalDeposits:      s.ledger.TotalDeposits(),
		MemberCount:        s.ledger.MemberCount(),
		Paused:             s.paused.Load(),
		LastDistributionAt: s.ledger.LastDistributionTime(),
	}
}

// GetWithdrawals lists a participant's withdrawal requests from the store,
// deriving each request's lifecycle state at the current time.
func (s *Service) GetWithdrawals(ctx context.Context, participant string) ([]WithdrawalStatus, *types.Error) {
	docs, err := s.db.GetWithdrawalsByParticipant(ctx, participant)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	now := time.Now()
	statuses := make([]WithdrawalStatus, 0, len(docs))
	for _, doc := range docs {
		req := ledger.WithdrawalRequest{
			Amount:     doc.Amount,
			UnlockTime: doc.UnlockTime,
			Processed:  doc.Processed,
		}
		statuses = append(statuses, WithdrawalStatus{
			Index:      doc.Index,
			Amount:     doc.Amount,
			UnlockTime: doc.UnlockTime,
			State:      req.State(now),
		})
	}
	return statuses, nil
}

func (s *Service) GetWithdrawal(participant string, index int) (*WithdrawalStatus, *types.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, err := s.ledger.Request(participant, index)
	if err != nil {
		return nil, mapLedgerError("get_withdrawal", err)
	}
	return &WithdrawalStatus{
		Index:      index,
		Amount:     req.Amount,
		UnlockTime: req.UnlockTime,
		State:      req.State(time.Now()),
	}, nil
}

// CountUnlockedWithin reports how many requests unlocked within the last
// `days` days, processed or not.
func (s *Service) CountUnlockedWithin(days int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.RequestsUnlockedWithin(days, time.Now())
}

// AnnualReturnRate reports the trailing-365-day annualized return, as an
// integer percentage.
func (s *Service) AnnualReturnRate() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.AnnualReturnRate(time.Now())
}

type LastDistribution struct {
	Timestamp time.Time `json:"timestamp"`
	Profit    int64     `json:"profit"`
}

// GetLastDistribution returns the most recent distribution event, or a
// NOT_FOUND error if nothing has been distributed yet.
func (s *Service) GetLastDistribution() (*LastDistribution, *types.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.ledger.ProfitHistory()
	if len(history) == 0 {
		return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "no distributions yet")
	}
	last := history[len(history)-1]
	return &LastDistribution{
		Timestamp: last.Timestamp,
		Profit:    last.Profit,
	}, nil
}

func (s *Service) GetCustodyBalance(ctx context.Context) (uint64, *types.Error) {
	balance, err := s.ledger.CustodyBalance(ctx)
	if err != nil {
		return 0, types.NewInternalServiceError(err)
	}
	return balance, nil
}

func (s *Service) GetSnapshots() []ledger.DepositSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Snapshots()
}

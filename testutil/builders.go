package testutil

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

// RandomParticipant returns a fake participant identity.
func RandomParticipant() string {
	return gofakeit.Username()
}

// RandomAmount returns an amount within [min, max].
func RandomAmount(min, max uint64) uint64 {
	return uint64(gofakeit.UintRange(uint(min), uint(max)))
}

func RandomAccountDocument() *model.AccountDocument {
	return model.NewAccountDocument(
		RandomParticipant(),
		RandomAmount(100, 1_000_000),
	)
}

func RandomWithdrawalDocument(participant string, index int) *model.WithdrawalDocument {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return model.NewWithdrawalDocument(
		participant,
		index,
		RandomAmount(1, 10_000),
		now.Add(time.Duration(gofakeit.IntRange(1, 96))*time.Hour),
		now,
	)
}

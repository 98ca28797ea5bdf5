package model

import (
	"fmt"
	"time"
)

const WithdrawalCollection = "withdrawals"

type WithdrawalDocument struct {
	ID          string    `bson:"_id"` // "<participant>:<index>"
	Participant string    `bson:"participant"`
	Index       int       `bson:"index"`
	Amount      uint64    `bson:"amount"`
	UnlockTime  time.Time `bson:"unlock_time"`
	Processed   bool      `bson:"processed"`
	RequestedAt time.Time `bson:"requested_at"`
}

func NewWithdrawalDocument(participant string, index int, amount uint64, unlockTime, requestedAt time.Time) *WithdrawalDocument {
	return &WithdrawalDocument{
		ID:          WithdrawalID(participant, index),
		Participant: participant,
		Index:       index,
		Amount:      amount,
		UnlockTime:  unlockTime,
		RequestedAt: requestedAt,
	}
}

func WithdrawalID(participant string, index int) string {
	return fmt.Sprintf("%s:%d", participant, index)
}

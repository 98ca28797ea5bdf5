package model

import "time"

const (
	SnapshotCollection = "deposit_snapshots"
	ProfitCollection   = "profit_records"
)

// SnapshotDocument stores the pool total at a point in time. Unlike the
// in-memory ring the collection keeps full history; only the most recent
// entries are loaded on restart.
type SnapshotDocument struct {
	Timestamp     time.Time `bson:"_id"`
	TotalDeposits uint64    `bson:"total_deposits"`
}

type ProfitDocument struct {
	Timestamp time.Time `bson:"_id"`
	Profit    int64     `bson:"profit"`
}

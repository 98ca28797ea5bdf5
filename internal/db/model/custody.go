package model

const (
	CustodyCollection = "custody"
	CustodyID         = "custody"
)

// CustodyDocument tracks the funds held outside the ledger that back
// profit credits and withdrawal releases.
type CustodyDocument struct {
	ID      string `bson:"_id"` // Always CustodyID
	Balance uint64 `bson:"balance"`
}

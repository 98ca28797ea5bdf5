package ledger

import "time"

// SnapshotCapacity bounds the historical snapshot log. When the ring is
// full the oldest entry is evicted before the newest is appended.
const SnapshotCapacity = 100

// profitRetention bounds the in-memory profit history to what the return
// calculator can ever read (trailing 365-day window plus one day of slack).
// Records are persisted externally before being pruned here.
const profitRetention = 366 * 24 * time.Hour

// DepositSnapshot is a timestamped record of the pool total.
type DepositSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalDeposits uint64    `json:"total_deposits"`
}

// ProfitRecord is an immutable record of one distribution event.
type ProfitRecord struct {
	Timestamp time.Time
	Profit    int64
}

// snapshotRing is a head-indexed ring buffer over DepositSnapshot with FIFO
// eviction. Observable ordering matches shift-and-append semantics with O(1)
// eviction cost.
type snapshotRing struct {
	buf  []DepositSnapshot
	head int
	size int
}

func newSnapshotRing() *snapshotRing {
	return &snapshotRing{buf: make([]DepositSnapshot, SnapshotCapacity)}
}

func (r *snapshotRing) len() int {
	return r.size
}

// at returns the i-th snapshot with 0 being the oldest retained entry.
func (r *snapshotRing) at(i int) DepositSnapshot {
	return r.buf[(r.head+i)%len(r.buf)]
}

func (r *snapshotRing) newest() (DepositSnapshot, bool) {
	if r.size == 0 {
		return DepositSnapshot{}, false
	}
	return r.at(r.size - 1), true
}

// append adds a snapshot, evicting the oldest entry when full. Timestamps
// must be non-decreasing across appends; strict ordering is only enforced
// for manual snapshots (appendStrict).
func (r *snapshotRing) append(s DepositSnapshot) error {
	if prev, ok := r.newest(); ok && s.Timestamp.Before(prev.Timestamp) {
		return ErrNonMonotonicSnapshot
	}
	r.push(s)
	return nil
}

// appendStrict requires the new timestamp to strictly exceed the previous
// entry's timestamp.
func (r *snapshotRing) appendStrict(s DepositSnapshot) error {
	if prev, ok := r.newest(); ok && !s.Timestamp.After(prev.Timestamp) {
		return ErrNonMonotonicSnapshot
	}
	r.push(s)
	return nil
}

func (r *snapshotRing) push(s DepositSnapshot) {
	if r.size == len(r.buf) {
		r.buf[r.head] = s
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.size)%len(r.buf)] = s
	r.size++
}

func (r *snapshotRing) entries() []DepositSnapshot {
	out := make([]DepositSnapshot, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.at(i)
	}
	return out
}

// profitLog is the ordered history of distribution outcomes. Appends prune
// records that fell out of the retention window; the full history lives in
// the database.
type profitLog struct {
	records []ProfitRecord
}

func (l *profitLog) append(rec ProfitRecord) {
	cutoff := rec.Timestamp.Add(-profitRetention)
	drop := 0
	for drop < len(l.records) && l.records[drop].Timestamp.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		l.records = append(l.records[:0], l.records[drop:]...)
	}
	l.records = append(l.records, rec)
}

func (l *profitLog) len() int {
	return len(l.records)
}

// sumWindow adds up profits with from <= timestamp <= to.
func (l *profitLog) sumWindow(from, to time.Time) int64 {
	var sum int64
	for _, rec := range l.records {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		sum += rec.Profit
	}
	return sum
}

func (l *profitLog) entries() []ProfitRecord {
	out := make([]ProfitRecord, len(l.records))
	copy(out, l.records)
	return out
}

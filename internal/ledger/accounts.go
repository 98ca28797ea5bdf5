package ledger

import "math"

// accountSet is the per-participant balance map plus the membership set of
// participants with a strictly positive balance. Membership is held as a
// dense slice with an identifier→index map so distribution can enumerate
// members without walking the whole balance map and removal is swap-and-pop.
// The balance map is the source of truth; the slice only aids iteration.
type accountSet struct {
	balances map[string]uint64
	members  []string
	index    map[string]int
}

func newAccountSet() *accountSet {
	return &accountSet{
		balances: make(map[string]uint64),
		index:    make(map[string]int),
	}
}

func (s *accountSet) balance(participant string) uint64 {
	return s.balances[participant]
}

// credit increases the participant balance, adding it to the membership set
// when the balance becomes nonzero. The caller is responsible for any
// overflow check against the pool total; individual balances are bounded by
// the total and cannot overflow first.
func (s *accountSet) credit(participant string, amount uint64) {
	if amount == 0 {
		return
	}
	prev := s.balances[participant]
	s.balances[participant] = prev + amount
	if prev == 0 {
		s.addMember(participant)
	}
}

// debit decreases the participant balance. A debit below zero is a rejected
// operation, never a clamp. Membership is left untouched so callers can
// decide when to prune (removeIfEmpty).
func (s *accountSet) debit(participant string, amount uint64) error {
	bal := s.balances[participant]
	if amount > bal {
		return ErrInsufficientBalance
	}
	s.balances[participant] = bal - amount
	return nil
}

// removeIfEmpty drops the participant from the membership set once its
// balance is exactly zero. The zero balance stays in the map because history
// queries may still reference the identifier.
func (s *accountSet) removeIfEmpty(participant string) {
	if s.balances[participant] != 0 {
		return
	}
	i, ok := s.index[participant]
	if !ok {
		return
	}
	last := len(s.members) - 1
	if i != last {
		moved := s.members[last]
		s.members[i] = moved
		s.index[moved] = i
	}
	s.members = s.members[:last]
	delete(s.index, participant)
}

func (s *accountSet) addMember(participant string) {
	if _, ok := s.index[participant]; ok {
		return
	}
	s.index[participant] = len(s.members)
	s.members = append(s.members, participant)
}

func (s *accountSet) isMember(participant string) bool {
	_, ok := s.index[participant]
	return ok
}

func (s *accountSet) memberCount() int {
	return len(s.members)
}

// memberSnapshot returns a copy of the membership slice so callers can
// iterate while crediting/debiting (which may reorder the live slice).
func (s *accountSet) memberSnapshot() []string {
	out := make([]string, len(s.members))
	copy(out, s.members)
	return out
}

// sumBalances walks the membership set. Used by invariant checks and tests,
// not by the hot distribution path.
func (s *accountSet) sumBalances() uint64 {
	var sum uint64
	for _, m := range s.members {
		sum += s.balances[m]
	}
	return sum
}

// canAdd reports whether amount can be added to total without overflow.
func canAdd(total, amount uint64) bool {
	return amount <= math.MaxUint64-total
}

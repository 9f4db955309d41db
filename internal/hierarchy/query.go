package hierarchy

import (
	"fmt"

	"succession-go/internal/model"
	"succession-go/pkg/log"
)

// Rank is the result of CompareRank.
type Rank struct {
	ID1    int64 `json:"id1"`
	Count1 int   `json:"count1"`
	ID2    int64 `json:"id2"`
	Count2 int   `json:"count2"`
	// Winner is the id with the strictly larger active subordinate count, 0 on a tie.
	Winner int64 `json:"winner"`
	Tie    bool  `json:"tie"`
}

// DirectSubordinates returns every member whose parent is memberID, in collection order.
// Inactive members are skipped unless includeInactive is set.
func (e *Engine) DirectSubordinates(memberID int64, includeInactive bool) ([]model.Member, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.emptyLocked() {
		return []model.Member{}, ErrNoCollectionLoaded
	}
	return e.snapshot(e.directPositions(memberID, includeInactive)), nil
}

// Subordinates returns the transitive subordinates of memberID in depth-first pre-order.
// The parent references must be acyclic.
func (e *Engine) Subordinates(memberID int64, includeInactive bool) ([]model.Member, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.emptyLocked() {
		return []model.Member{}, ErrNoCollectionLoaded
	}
	return e.snapshot(e.subordinatePositions(memberID, includeInactive)), nil
}

// IsBigBoss reports whether the member has more active subordinates than the configured threshold.
func (e *Engine) IsBigBoss(memberID int64) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.emptyLocked() {
		return false, ErrNoCollectionLoaded
	}
	if _, ok := e.byID[memberID]; !ok {
		return false, fmt.Errorf("member %d: %w", memberID, ErrMemberNotFound)
	}
	return len(e.subordinatePositions(memberID, false)) > e.opts.BigNumber, nil
}

// CompareRank compares the active subordinate counts of two members.
func (e *Engine) CompareRank(id1, id2 int64) (Rank, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.emptyLocked() {
		return Rank{}, ErrNoCollectionLoaded
	}
	for _, id := range []int64{id1, id2} {
		if _, ok := e.byID[id]; !ok {
			return Rank{}, fmt.Errorf("member %d: %w", id, ErrMemberNotFound)
		}
	}

	r := Rank{
		ID1:    id1,
		Count1: len(e.subordinatePositions(id1, false)),
		ID2:    id2,
		Count2: len(e.subordinatePositions(id2, false)),
	}
	switch {
	case r.Count1 > r.Count2:
		r.Winner = id1
	case r.Count2 > r.Count1:
		r.Winner = id2
	default:
		r.Tie = true
	}
	return r, nil
}

// emptyLocked logs the diagnostic for a query against an empty collection.
func (e *Engine) emptyLocked() bool {
	if len(e.members) == 0 {
		log.Warnf("hierarchy: %v", ErrNoCollectionLoaded)
		return true
	}
	return false
}

func (e *Engine) directPositions(memberID int64, includeInactive bool) []int {
	positions := []int{}
	for pos, m := range e.members {
		if m.ParentID != memberID {
			continue
		}
		if !includeInactive && !m.Active {
			continue
		}
		positions = append(positions, pos)
	}
	return positions
}

func (e *Engine) subordinatePositions(memberID int64, includeInactive bool) []int {
	var walk func(id int64, acc []int) []int
	walk = func(id int64, acc []int) []int {
		for _, pos := range e.directPositions(id, includeInactive) {
			acc = append(acc, pos)
			acc = walk(e.members[pos].ID, acc)
		}
		return acc
	}
	return walk(memberID, []int{})
}

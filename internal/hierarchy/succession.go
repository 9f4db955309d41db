package hierarchy

import (
	"fmt"
)

// Replacement describes who inherits the direct reports of a member being removed.
type Replacement struct {
	MemberID int64 `json:"memberId"`
	// Promoted is set when the successor comes from the member's own team and takes over
	// the member's position instead of being a sibling.
	Promoted bool `json:"promoted"`

	pos int
}

// SelectReplacement picks the successor for memberID without changing anything.
// The oldest active sibling wins; without one, the oldest active direct subordinate is
// promoted. Equal ages resolve to the record that comes first in the collection.
func (e *Engine) SelectReplacement(memberID int64) (Replacement, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos, ok := e.byID[memberID]
	if !ok {
		return Replacement{}, fmt.Errorf("member %d: %w", memberID, ErrMemberNotFound)
	}
	return e.selectReplacement(pos)
}

func (e *Engine) selectReplacement(pos int) (Replacement, error) {
	m := e.members[pos]

	// Roots have parent 0, so other active roots count as their siblings.
	if sibling := e.oldest(e.directPositions(m.ParentID, false), m.ID); sibling >= 0 {
		return Replacement{MemberID: e.members[sibling].ID, pos: sibling}, nil
	}
	if child := e.oldest(e.directPositions(m.ID, false), m.ID); child >= 0 {
		return Replacement{MemberID: e.members[child].ID, Promoted: true, pos: child}, nil
	}
	return Replacement{}, fmt.Errorf("member %d: %w", m.ID, ErrNoReplacementAvailable)
}

// oldest returns the position of the oldest candidate whose id is not excludeID, or -1.
// Candidates are in collection order and only a strictly greater age displaces the current
// pick, which is what a stable descending sort on age would put first.
func (e *Engine) oldest(candidates []int, excludeID int64) int {
	best := -1
	for _, pos := range candidates {
		if e.members[pos].ID == excludeID {
			continue
		}
		if best < 0 || e.members[pos].Age > e.members[best].Age {
			best = pos
		}
	}
	return best
}

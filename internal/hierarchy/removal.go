package hierarchy

import (
	"fmt"
)

// Outcome reports what a removal or restoration changed.
type Outcome struct {
	MemberID    int64 `json:"memberId"`
	SuccessorID int64 `json:"successorId"`
	// Promoted is set when the successor was taken from the member's own team.
	Promoted bool `json:"promoted"`
	// TeamIDs are the ids recorded on (removal) or read from (restoration) the member.
	TeamIDs []int64 `json:"teamIds"`
	// Redirected are the ids whose parent reference actually changed.
	Redirected []int64 `json:"redirected"`
}

// RemoveMember deactivates memberID and hands its active direct reports to a successor.
// Nothing is changed when an error is returned.
func (e *Engine) RemoveMember(memberID int64) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.byID[memberID]
	if !ok {
		return Outcome{}, fmt.Errorf("remove member %d: %w", memberID, ErrMemberNotFound)
	}
	if !e.members[pos].Active {
		return Outcome{}, fmt.Errorf("remove member %d: already inactive: %w", memberID, ErrInvalidStateTransition)
	}

	successor, err := e.selectReplacement(pos)
	if err != nil {
		return Outcome{}, fmt.Errorf("remove member %d: %w", memberID, err)
	}

	team := e.directPositions(memberID, false)
	teamIDs := make([]int64, 0, len(team))
	for _, p := range team {
		teamIDs = append(teamIDs, e.members[p].ID)
	}

	// All checks passed; mutate from here on.
	removed := &e.members[pos]
	heir := &e.members[successor.pos]
	if successor.Promoted {
		heir.ParentID = removed.ParentID
		heir.SubstitutingFor = removed.ID
	}

	removed.Active = false
	removed.SupersededTeamIDs = teamIDs
	removed.SupersededBy = heir.ID

	inTeam := idSet(teamIDs)
	redirected := []int64{}
	for i := range e.members {
		if i == successor.pos {
			continue
		}
		m := &e.members[i]
		if _, ok := inTeam[m.ID]; ok && m.ParentID == memberID {
			m.ParentID = heir.ID
			redirected = append(redirected, m.ID)
		}
	}

	return Outcome{
		MemberID:    memberID,
		SuccessorID: heir.ID,
		Promoted:    successor.Promoted,
		TeamIDs:     cloneIDs(teamIDs),
		Redirected:  redirected,
	}, nil
}

// RestoreMember reactivates memberID and points its recorded team back at it.
// Only the most recent removal is undone. Nothing is changed when an error is returned.
func (e *Engine) RestoreMember(memberID int64) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.byID[memberID]
	if !ok {
		return Outcome{}, fmt.Errorf("restore member %d: %w", memberID, ErrMemberNotFound)
	}
	if e.members[pos].Active {
		return Outcome{}, fmt.Errorf("restore member %d: already active: %w", memberID, ErrInvalidStateTransition)
	}

	restored := &e.members[pos]
	teamIDs := cloneIDs(restored.SupersededTeamIDs)
	successorID := restored.SupersededBy
	promoted := false

	inTeam := idSet(teamIDs)
	redirected := []int64{}
	for i := range e.members {
		m := &e.members[i]
		if _, ok := inTeam[m.ID]; !ok {
			continue
		}
		if m.ID == successorID && m.SubstitutingFor == memberID {
			promoted = true
		}
		m.ParentID = memberID
		m.SubstitutingFor = 0
		redirected = append(redirected, m.ID)
	}

	restored.Active = true
	restored.SupersededTeamIDs = []int64{}
	restored.SupersededBy = 0

	return Outcome{
		MemberID:    memberID,
		SuccessorID: successorID,
		Promoted:    promoted,
		TeamIDs:     teamIDs,
		Redirected:  redirected,
	}, nil
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func cloneIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// Package hierarchy keeps a flat, parent-referenced member collection in memory and
// implements the subordinate queries, successor selection, removal and restoration over it.
//
// Records live in one slice and are always resolved to a position before they are
// mutated, so a promoted successor and a redirected subordinate are the same record the
// collection holds. Read methods hand out copies.
package hierarchy

import (
	"fmt"
	"sync"

	"succession-go/internal/model"
)

// Engine owns the member collection and the big-boss threshold.
// Queries take the read lock; Load, Insert, RemoveMember and RestoreMember hold the
// write lock for their whole read-then-write sequence.
type Engine struct {
	mu      sync.RWMutex
	opts    Options
	members []model.Member
	// byID maps an id to the position of its first record.
	byID map[int64]int
}

// NewEngine creates an Engine with an empty collection.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts:    opts,
		members: []model.Member{},
		byID:    make(map[int64]int),
	}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Load replaces the whole collection. A nil slice loads an empty collection.
func (e *Engine) Load(members []model.Member) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.members = make([]model.Member, 0, len(members))
	e.byID = make(map[int64]int, len(members))
	for _, m := range members {
		e.appendLocked(m)
	}
}

// LoadRoster decodes an external payload and loads it. See ParseRoster.
func (e *Engine) LoadRoster(data []byte, format Format) (int, error) {
	members, err := ParseRoster(data, format)
	if err != nil {
		return 0, err
	}
	e.Load(members)
	return len(members), nil
}

// Insert appends one record without any duplicate or schema check.
func (e *Engine) Insert(m model.Member) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendLocked(m)
}

func (e *Engine) appendLocked(m model.Member) {
	m = m.Clone()
	if m.SupersededTeamIDs == nil {
		m.SupersededTeamIDs = []int64{}
	}
	if _, ok := e.byID[m.ID]; !ok {
		e.byID[m.ID] = len(e.members)
	}
	e.members = append(e.members, m)
}

// Len returns the number of records in the collection.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.members)
}

// Member returns a copy of the first record with the given id.
func (e *Engine) Member(id int64) (model.Member, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos, ok := e.byID[id]
	if !ok {
		return model.Member{}, fmt.Errorf("member %d: %w", id, ErrMemberNotFound)
	}
	return e.members[pos].Clone(), nil
}

// Members returns a snapshot of the collection in collection order.
func (e *Engine) Members() []model.Member {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Member, len(e.members))
	for i, m := range e.members {
		out[i] = m.Clone()
	}
	return out
}

// Tree arranges the collection into a forest. Inactive members are included; a record whose
// parent id is unknown is placed at the top level. Duplicate ids after the first are skipped.
func (e *Engine) Tree() []*model.MemberNode {
	e.mu.RLock()
	defer e.mu.RUnlock()

	nodes := make(map[int64]*model.MemberNode, len(e.members))
	for pos, m := range e.members {
		if e.byID[m.ID] != pos {
			continue
		}
		nodes[m.ID] = &model.MemberNode{
			ID:       m.ID,
			Name:     m.Name,
			Age:      m.Age,
			Active:   m.Active,
			ParentID: m.ParentID,
			Children: []*model.MemberNode{},
		}
	}

	tree := []*model.MemberNode{}
	for pos, m := range e.members {
		if e.byID[m.ID] != pos {
			continue
		}
		node := nodes[m.ID]
		if parent, ok := nodes[m.ParentID]; ok && m.ParentID != 0 && parent != node {
			parent.Children = append(parent.Children, node)
			continue
		}
		tree = append(tree, node)
	}
	return tree
}

func (e *Engine) snapshot(positions []int) []model.Member {
	out := make([]model.Member, len(positions))
	for i, pos := range positions {
		out[i] = e.members[pos].Clone()
	}
	return out
}

package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"succession-go/internal/model"
)

func TestLoad_ReplacesCollection(t *testing.T) {
	e := newMafiaEngine(t)

	e.Load([]model.Member{member(100, 0, "Solo", 30)})

	assert.Equal(t, 1, e.Len())
	_, err := e.Member(1)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, "Solo", mustMember(t, e, 100).Name)
}

func TestLoad_NilLoadsEmptyCollection(t *testing.T) {
	e := newMafiaEngine(t)

	e.Load(nil)

	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.Members())
}

func TestLoad_NormalizesMissingTeamIDs(t *testing.T) {
	e := NewEngine(DefaultOptions())
	e.Load([]model.Member{{ID: 1, Active: true}})

	m := mustMember(t, e, 1)
	assert.NotNil(t, m.SupersededTeamIDs)
	assert.Empty(t, m.SupersededTeamIDs)
}

func TestInsert_AppendsWithoutDuplicateCheck(t *testing.T) {
	e := newMafiaEngine(t)

	e.Insert(member(2, 0, "Tony Again", 20))

	assert.Equal(t, 19, e.Len())
	// lookup resolves to the first record
	assert.Equal(t, "Tony", mustMember(t, e, 2).Name)
	all := e.Members()
	assert.Equal(t, "Tony Again", all[len(all)-1].Name)
}

func TestInsert_IntoEmptyEngine(t *testing.T) {
	e := NewEngine(DefaultOptions())

	e.Insert(member(7, 0, "First", 50))

	assert.Equal(t, 1, e.Len())
	assert.Equal(t, int64(7), mustMember(t, e, 7).ID)
}

func TestMember_NotFound(t *testing.T) {
	e := newMafiaEngine(t)

	_, err := e.Member(999)

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMembers_ReturnsDetachedCopies(t *testing.T) {
	e := newMafiaEngine(t)

	all := e.Members()
	all[0].Name = "changed"
	all[0].SupersededTeamIDs = append(all[0].SupersededTeamIDs, 42)

	m := mustMember(t, e, 1)
	assert.Equal(t, "Big Boss", m.Name)
	assert.Empty(t, m.SupersededTeamIDs)
}

func TestLoad_CopiesInput(t *testing.T) {
	roster := mafiaRoster()
	e := NewEngine(DefaultOptions())
	e.Load(roster)

	roster[1].ParentID = 99

	assert.Equal(t, int64(1), mustMember(t, e, 2).ParentID)
}

func TestTree(t *testing.T) {
	e := newMafiaEngine(t)

	tree := e.Tree()

	require.Len(t, tree, 1)
	root := tree[0]
	assert.Equal(t, int64(1), root.ID)
	require.Len(t, root.Children, 4)
	assert.Equal(t, int64(2), root.Children[0].ID)
	assert.Len(t, root.Children[0].Children, 4)
	assert.Len(t, root.Children[0].Children[0].Children, 2)
}

func TestTree_OrphanGoesToTopLevel(t *testing.T) {
	e := NewEngine(DefaultOptions())
	e.Load([]model.Member{member(1, 0, "root", 50), member(2, 77, "orphan", 40)})

	tree := e.Tree()

	require.Len(t, tree, 2)
	assert.Equal(t, int64(2), tree[1].ID)
}

func TestTree_ShowsRemovedMembers(t *testing.T) {
	e := newMafiaEngine(t)
	_, err := e.RemoveMember(2)
	require.NoError(t, err)

	tree := e.Tree()

	require.Len(t, tree, 1)
	var tony *model.MemberNode
	for _, n := range tree[0].Children {
		if n.ID == 2 {
			tony = n
		}
	}
	require.NotNil(t, tony)
	assert.False(t, tony.Active)
	assert.Empty(t, tony.Children)
}

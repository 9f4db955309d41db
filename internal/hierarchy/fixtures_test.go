package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"succession-go/internal/model"
)

func member(id, parent int64, name string, age int) model.Member {
	return model.Member{ID: id, ParentID: parent, Name: name, Age: age, Active: true, SupersededTeamIDs: []int64{}}
}

// mafiaRoster is the reference roster: a big boss, four team leaders and their teams.
func mafiaRoster() []model.Member {
	return []model.Member{
		member(1, 0, "Big Boss", 65),

		member(2, 1, "Tony", 70),
		member(3, 1, "Garry", 51),
		member(4, 1, "Sanny", 52),
		member(5, 1, "Sam", 53),

		member(6, 2, "Peter", 40),
		member(7, 2, "TM2_2", 41),
		member(8, 2, "TM2_3", 42),
		member(9, 2, "TM2_4", 40),

		member(10, 3, "TM3_1", 38),
		member(11, 3, "TM3_2", 39),
		member(12, 3, "TM3_3", 40),
		member(13, 3, "TM3_4", 40),
		member(14, 3, "TM3_5", 41),
		member(15, 3, "TM3_6", 42),

		member(16, 6, "TM6_1", 27),
		member(17, 6, "TM6_2", 28),

		member(18, 5, "TM5_1", 31),
	}
}

func newMafiaEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(DefaultOptions())
	e.Load(mafiaRoster())
	require.Equal(t, 18, e.Len())
	return e
}

func ids(members []model.Member) []int64 {
	out := make([]int64, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func mustMember(t *testing.T, e *Engine, id int64) model.Member {
	t.Helper()
	m, err := e.Member(id)
	require.NoError(t, err)
	return m
}

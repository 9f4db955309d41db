// Package model 定义了服务中流转的领域结构体。
package model

// Member 是层级结构中的一个成员。层级关系只通过 ParentID 表达，集合本身是扁平的。
// JSON/YAML 键沿用外部名册数据的字段名（bossId、replacedBy ...），以便原样导入已有数据。
type Member struct {
	// ID 由调用方分配，在记录的生命周期内保持不变。
	ID int64 `json:"id" yaml:"id"`
	// ParentID 指向直接上级，0 表示根节点。
	ParentID int64  `json:"bossId" yaml:"bossId"`
	Name     string `json:"name" yaml:"name"`
	// Age 是接任者排序时唯一使用的属性。
	Age int `json:"age" yaml:"age"`
	// Active 为 false 表示成员已被移除且尚未恢复。
	Active bool `json:"active" yaml:"active"`
	// SupersededTeamIDs 记录成员被移除那一刻的直接下属 id，按集合顺序排列。
	SupersededTeamIDs []int64 `json:"replacedTeamIds" yaml:"replacedTeamIds"`
	// SupersededBy 是当前接管该成员原团队的成员 id，不适用时为 0。
	SupersededBy int64 `json:"replacedBy" yaml:"replacedBy"`
	// SubstitutingFor 只在通过下级提拔成为接任者的记录上设置，恢复时清除。
	SubstitutingFor int64 `json:"replacedBoss,omitempty" yaml:"replacedBoss,omitempty"`
}

// IsRoot reports whether the member has no superior.
func (m Member) IsRoot() bool {
	return m.ParentID == 0
}

// Clone returns a copy that shares no slice storage with m.
func (m Member) Clone() Member {
	if m.SupersededTeamIDs != nil {
		ids := make([]int64, len(m.SupersededTeamIDs))
		copy(ids, m.SupersededTeamIDs)
		m.SupersededTeamIDs = ids
	}
	return m
}

// MemberNode represents a node in the member tree view.
type MemberNode struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Age      int           `json:"age"`
	Active   bool          `json:"active"`
	ParentID int64         `json:"bossId"`
	Children []*MemberNode `json:"children"`
}

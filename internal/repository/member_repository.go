package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"succession-go/internal/model"
)

// memberRow 对应数据库中的名册表。Seq 决定集合顺序，MemberID 才是成员 id。
type memberRow struct {
	Seq             uint    `gorm:"primaryKey;autoIncrement"`
	MemberID        int64   `gorm:"column:member_id;not null;index"`
	BossID          int64   `gorm:"column:boss_id;not null;default:0;index"`
	Name            string  `gorm:"type:varchar(100)"`
	Age             int     `gorm:"not null"`
	Active          bool    `gorm:"not null;default:true"`
	ReplacedTeamIDs []int64 `gorm:"column:replaced_team_ids;serializer:json"`
	ReplacedBy      int64   `gorm:"column:replaced_by;not null;default:0"`
	ReplacedBoss    int64   `gorm:"column:replaced_boss;not null;default:0"`
}

func (r memberRow) toMember() model.Member {
	m := model.Member{
		ID:                r.MemberID,
		ParentID:          r.BossID,
		Name:              r.Name,
		Age:               r.Age,
		Active:            r.Active,
		SupersededTeamIDs: r.ReplacedTeamIDs,
		SupersededBy:      r.ReplacedBy,
		SubstitutingFor:   r.ReplacedBoss,
	}
	if m.SupersededTeamIDs == nil {
		m.SupersededTeamIDs = []int64{}
	}
	return m
}

// memberRepository 是从 MySQL 名册表读取成员的 GORM 实现。
type memberRepository struct {
	db    *gorm.DB
	table string
}

// NewMemberRepository 创建一个读取指定名册表的数据源。
func NewMemberRepository(db *gorm.DB, table string) MemberSource {
	return &memberRepository{db: db, table: table}
}

func (r *memberRepository) Name() string {
	return "mysql:" + r.table
}

// LoadMembers 按 seq 升序读取整张名册表。
func (r *memberRepository) LoadMembers(ctx context.Context) ([]model.Member, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).Table(r.table).Order("seq ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query roster table %s: %w", r.table, err)
	}

	members := make([]model.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toMember())
	}
	return members, nil
}

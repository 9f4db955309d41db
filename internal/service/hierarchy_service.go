// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"

	"succession-go/internal/hierarchy"
	"succession-go/internal/model"
	"succession-go/internal/repository"
	"succession-go/pkg/events"
	"succession-go/pkg/log"
	"succession-go/pkg/metrics"
	"succession-go/pkg/tasks"
)

// ErrNoRosterSource 表示未配置可用于重新加载的名册来源。
var ErrNoRosterSource = errors.New("no roster source configured")

// HierarchyService 接口定义了成员层级相关的全部业务操作。
type HierarchyService interface {
	// 查询
	ListMembers() []model.Member
	GetMemberTree() []*model.MemberNode
	GetMember(memberID int64) (model.Member, error)
	GetSubordinates(memberID int64, direct, includeInactive bool) ([]model.Member, error)
	IsBigBoss(memberID int64) (bool, error)
	CompareRank(id1, id2 int64) (hierarchy.Rank, error)

	// 变更
	AddMember(ctx context.Context, m model.Member)
	LoadRoster(ctx context.Context, data []byte, format hierarchy.Format) (int, error)
	Reload(ctx context.Context) (int, error)
	RemoveMember(ctx context.Context, memberID int64) (hierarchy.Outcome, error)
	RestoreMember(ctx context.Context, memberID int64) (hierarchy.Outcome, error)

	// Process 实现 kafka.CommandProcessor，处理远程下发的成员命令。
	Process(ctx context.Context, cmd tasks.MemberCommand) error
}

// hierarchyService 是 HierarchyService 接口的实现。
type hierarchyService struct {
	engine    *hierarchy.Engine
	source    repository.MemberSource
	publisher events.Publisher
	metrics   *metrics.Recorder
}

// NewHierarchyService 创建一个新的 HierarchyService 实例。
// source 可以为 nil，此时 Reload 返回 ErrNoRosterSource；publisher 为 nil 时事件被丢弃。
func NewHierarchyService(engine *hierarchy.Engine, source repository.MemberSource, publisher events.Publisher, recorder *metrics.Recorder) HierarchyService {
	if publisher == nil {
		publisher = events.NopPublisher()
	}
	if recorder == nil {
		recorder = metrics.New()
	}
	return &hierarchyService{engine: engine, source: source, publisher: publisher, metrics: recorder}
}

func (s *hierarchyService) ListMembers() []model.Member {
	return s.engine.Members()
}

func (s *hierarchyService) GetMemberTree() []*model.MemberNode {
	return s.engine.Tree()
}

func (s *hierarchyService) GetMember(memberID int64) (model.Member, error) {
	return s.engine.Member(memberID)
}

func (s *hierarchyService) GetSubordinates(memberID int64, direct, includeInactive bool) ([]model.Member, error) {
	if direct {
		return s.engine.DirectSubordinates(memberID, includeInactive)
	}
	return s.engine.Subordinates(memberID, includeInactive)
}

func (s *hierarchyService) IsBigBoss(memberID int64) (bool, error) {
	return s.engine.IsBigBoss(memberID)
}

func (s *hierarchyService) CompareRank(id1, id2 int64) (hierarchy.Rank, error) {
	return s.engine.CompareRank(id1, id2)
}

// AddMember 原样追加一个成员记录，不做唯一性或字段校验。
func (s *hierarchyService) AddMember(ctx context.Context, m model.Member) {
	s.engine.Insert(m)
	s.metrics.Members.Set(float64(s.engine.Len()))
	log.Infof("成员已添加: id=%d name=%s boss=%d", m.ID, m.Name, m.ParentID)
	s.publish(ctx, events.New(tasks.EventMemberInserted, m.ID))
}

// LoadRoster 解析外部名册并替换当前集合。
func (s *hierarchyService) LoadRoster(ctx context.Context, data []byte, format hierarchy.Format) (int, error) {
	n, err := s.engine.LoadRoster(data, format)
	if err != nil {
		return 0, err
	}
	s.afterLoad(ctx, "payload", n)
	return n, nil
}

// Reload 从配置的名册来源重新导入全部成员。
func (s *hierarchyService) Reload(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, ErrNoRosterSource
	}
	members, err := s.source.LoadMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("从 %s 加载名册失败: %w", s.source.Name(), err)
	}
	s.engine.Load(members)
	s.afterLoad(ctx, s.source.Name(), len(members))
	return len(members), nil
}

func (s *hierarchyService) afterLoad(ctx context.Context, source string, n int) {
	s.metrics.RosterLoads.WithLabelValues(source).Inc()
	s.metrics.Members.Set(float64(n))
	log.Infof("名册加载完成: source=%s members=%d", source, n)

	evt := events.New(tasks.EventRosterLoaded, 0)
	evt.Count = n
	evt.Source = source
	s.publish(ctx, evt)
}

// RemoveMember 移除成员，并将其直属下级交给继任者。
func (s *hierarchyService) RemoveMember(ctx context.Context, memberID int64) (hierarchy.Outcome, error) {
	out, err := s.engine.RemoveMember(memberID)
	if err != nil {
		s.metrics.Failures.WithLabelValues("remove", failureReason(err)).Inc()
		log.Warnf("RemoveMember: 成员 %d 移除失败, error: %v", memberID, err)
		return out, err
	}
	s.metrics.Removals.Inc()
	if out.Promoted {
		s.metrics.Promotions.Inc()
	}
	log.Infow("成员已移除",
		"memberId", out.MemberID,
		"successorId", out.SuccessorID,
		"promoted", out.Promoted,
		"teamIds", out.TeamIDs,
	)
	s.publish(ctx, outcomeEvent(tasks.EventMemberRemoved, out))
	return out, nil
}

// RestoreMember 恢复成员，并把其原团队重新指回该成员。
func (s *hierarchyService) RestoreMember(ctx context.Context, memberID int64) (hierarchy.Outcome, error) {
	out, err := s.engine.RestoreMember(memberID)
	if err != nil {
		s.metrics.Failures.WithLabelValues("restore", failureReason(err)).Inc()
		log.Warnf("RestoreMember: 成员 %d 恢复失败, error: %v", memberID, err)
		return out, err
	}
	s.metrics.Restorations.Inc()
	log.Infow("成员已恢复",
		"memberId", out.MemberID,
		"successorId", out.SuccessorID,
		"redirected", out.Redirected,
	)
	s.publish(ctx, outcomeEvent(tasks.EventMemberRestored, out))
	return out, nil
}

// Process 执行一条成员命令。业务规则导致的失败会被标记为 tasks.ErrPermanent，消费者不再重试；
// reload 时名册来源的读取错误保持原样，由消费者重试。
func (s *hierarchyService) Process(ctx context.Context, cmd tasks.MemberCommand) error {
	var err error
	switch cmd.Action {
	case tasks.ActionRemove:
		_, err = s.RemoveMember(ctx, cmd.MemberID)
	case tasks.ActionRestore:
		_, err = s.RestoreMember(ctx, cmd.MemberID)
	case tasks.ActionInsert:
		if cmd.Member == nil {
			return fmt.Errorf("%w: insert command without member", tasks.ErrPermanent)
		}
		s.AddMember(ctx, *cmd.Member)
	case tasks.ActionReload:
		_, err = s.Reload(ctx)
		if errors.Is(err, ErrNoRosterSource) {
			return fmt.Errorf("%w: %w", tasks.ErrPermanent, err)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", tasks.ErrPermanent, cmd.Action)
	}
	if err != nil && isDomainError(err) {
		return fmt.Errorf("%w: %w", tasks.ErrPermanent, err)
	}
	return err
}

func (s *hierarchyService) publish(ctx context.Context, evt tasks.SuccessionEvent) {
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		// 状态已经变更，事件发送失败只记录日志
		log.Warnf("发布事件失败: type=%s member=%d error: %v", evt.Type, evt.MemberID, err)
	}
}

func outcomeEvent(eventType string, out hierarchy.Outcome) tasks.SuccessionEvent {
	evt := events.New(eventType, out.MemberID)
	evt.SuccessorID = out.SuccessorID
	evt.Promoted = out.Promoted
	evt.TeamIDs = out.TeamIDs
	evt.Redirected = out.Redirected
	return evt
}

func isDomainError(err error) bool {
	return errors.Is(err, hierarchy.ErrMemberNotFound) ||
		errors.Is(err, hierarchy.ErrInvalidStateTransition) ||
		errors.Is(err, hierarchy.ErrNoReplacementAvailable) ||
		errors.Is(err, hierarchy.ErrNoCollectionLoaded)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, hierarchy.ErrMemberNotFound):
		return "not_found"
	case errors.Is(err, hierarchy.ErrInvalidStateTransition):
		return "invalid_state"
	case errors.Is(err, hierarchy.ErrNoReplacementAvailable):
		return "no_replacement"
	default:
		return "other"
	}
}

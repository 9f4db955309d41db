// Package repository 包含了读取成员名册的各种数据源。
// 引擎状态只保存在内存中，这里的数据源全部是只读的。
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"succession-go/internal/config"
	"succession-go/internal/hierarchy"
	"succession-go/internal/model"
)

// MemberSource 是批量导入名册的来源。
type MemberSource interface {
	// Name 返回用于日志的来源描述。
	Name() string
	// LoadMembers 按集合顺序返回完整名册。
	LoadMembers(ctx context.Context) ([]model.Member, error)
}

type fileMemberSource struct {
	path string
}

// NewFileMemberSource 创建一个从本地 JSON/YAML 文件读取名册的数据源。
func NewFileMemberSource(path string) MemberSource {
	return &fileMemberSource{path: path}
}

func (s *fileMemberSource) Name() string {
	return "file:" + s.path
}

// LoadMembers 读取整个文件并按扩展名解析。
func (s *fileMemberSource) LoadMembers(ctx context.Context) ([]model.Member, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return hierarchy.ParseRoster(data, hierarchy.FormatFromPath(s.path))
}

// SourceDeps 汇总各类数据源需要的客户端，未启用的来源可以留空。
type SourceDeps struct {
	DB      *gorm.DB
	Redis   StringGetter
	Objects ObjectReader
}

// ErrUnknownSource 表示配置了不支持的名册来源。
var ErrUnknownSource = errors.New("unknown roster source")

// NewMemberSource 根据配置选择名册来源。source 为 none 时返回 nil。
func NewMemberSource(cfg config.RosterConfig, deps SourceDeps) (MemberSource, error) {
	switch strings.ToLower(cfg.Source) {
	case "", "none":
		return nil, nil
	case "file":
		return NewFileMemberSource(cfg.Path), nil
	case "mysql":
		if deps.DB == nil {
			return nil, errors.New("roster source mysql requires a database connection")
		}
		return NewMemberRepository(deps.DB, cfg.Table), nil
	case "redis":
		if deps.Redis == nil {
			return nil, errors.New("roster source redis requires a redis client")
		}
		return NewRedisMemberSource(deps.Redis, cfg.RedisKey), nil
	case "minio":
		if deps.Objects == nil {
			return nil, errors.New("roster source minio requires an object reader")
		}
		return NewObjectMemberSource(deps.Objects, cfg.ObjectKey), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"succession-go/internal/hierarchy"
	"succession-go/internal/model"
	"succession-go/pkg/log"
)

// StringGetter 是 *redis.Client 中数据源用到的部分。
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type redisMemberSource struct {
	client StringGetter
	key    string
}

// NewRedisMemberSource 创建一个从 Redis 字符串键读取 JSON 名册的数据源。
func NewRedisMemberSource(client StringGetter, key string) MemberSource {
	return &redisMemberSource{client: client, key: key}
}

func (s *redisMemberSource) Name() string {
	return "redis:" + s.key
}

// LoadMembers 读取键中的 JSON 名册；键不存在时返回空名册。
func (s *redisMemberSource) LoadMembers(ctx context.Context) ([]model.Member, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		log.Warnf("roster key '%s' does not exist, loading an empty list", s.key)
		return []model.Member{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get roster key %s: %w", s.key, err)
	}
	return hierarchy.ParseRoster(data, hierarchy.FormatJSON)
}

package repository

import (
	"context"

	"succession-go/internal/hierarchy"
	"succession-go/internal/model"
)

// ObjectReader 读取对象存储中的单个对象，由 storage.BucketReader 实现。
type ObjectReader interface {
	ReadObject(ctx context.Context, objectName string) ([]byte, error)
}

type objectMemberSource struct {
	reader ObjectReader
	key    string
}

// NewObjectMemberSource 创建一个从对象存储读取名册文件的数据源。
func NewObjectMemberSource(reader ObjectReader, key string) MemberSource {
	return &objectMemberSource{reader: reader, key: key}
}

func (s *objectMemberSource) Name() string {
	return "minio:" + s.key
}

func (s *objectMemberSource) LoadMembers(ctx context.Context) ([]model.Member, error) {
	data, err := s.reader.ReadObject(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return hierarchy.ParseRoster(data, hierarchy.FormatFromPath(s.key))
}

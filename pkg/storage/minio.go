// Package storage 提供了与对象存储服务（MinIO）交互的功能，用于读取名册文件。
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"succession-go/internal/config"
	"succession-go/pkg/log"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确认存放名册的存储桶存在。
// 名册只读，因此存储桶不存在时直接报错而不是自动创建。
func InitMinIO(cfg config.MinIOConfig) error {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.BucketName)
	if err != nil {
		return fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if !exists {
		return fmt.Errorf("存储桶 '%s' 不存在", cfg.BucketName)
	}

	MinioClient = client
	log.Infof("MinIO 客户端初始化成功, bucket=%s", cfg.BucketName)
	return nil
}

// BucketReader 从固定的存储桶中读取整个对象。
type BucketReader struct {
	client *minio.Client
	bucket string
}

// NewBucketReader 创建一个 BucketReader。
func NewBucketReader(client *minio.Client, bucket string) *BucketReader {
	return &BucketReader{client: client, bucket: bucket}
}

// ReadObject 读取对象的全部内容。
func (r *BucketReader) ReadObject(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", r.bucket, objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", r.bucket, objectName, err)
	}
	return data, nil
}

package client

import (
	"context"
	"fmt"
	"time"

	"scoreboard/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioClient 連接 MinIO（備份用）；BACKUP__MINIO__ENDPOINT 未設定時為停用狀態
type MinioClient struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinioClient(logger *zap.Logger, config *config.Configuration) (*MinioClient, error) {
	conf := config.Backup.Minio
	minioClient := &MinioClient{logger: logger, bucket: conf.Bucket}
	if conf.Endpoint == "" {
		logger.Info("MinIO disabled: BACKUP__MINIO__ENDPOINT not set")
		return minioClient, nil
	}
	if conf.Bucket == "" {
		return nil, fmt.Errorf("BACKUP__MINIO__BUCKET is required when MinIO is enabled")
	}

	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check MinIO bucket failed: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{Region: conf.Region}); err != nil {
			return nil, fmt.Errorf("create MinIO bucket failed: %w", err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", conf.Bucket))
	}
	logger.Info("Connected to MinIO", zap.String("bucket", conf.Bucket))
	minioClient.client = client
	return minioClient, nil
}

func (m *MinioClient) Client() *minio.Client {
	if m == nil {
		return nil
	}
	return m.client
}

func (m *MinioClient) Bucket() string {
	return m.bucket
}

func (m *MinioClient) Enabled() bool {
	return m.Client() != nil
}

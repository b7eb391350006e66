package repository

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/telemetry"

	"github.com/minio/minio-go/v7"
)

const backupPrefix = "registry-backups"

// BackupRepository 上傳 registry 匯出檔到 MinIO；未設定 MinIO 時 Enabled() 為 false
type BackupRepository struct {
	trace  *telemetry.Trace
	client *minio.Client
	bucket string
}

func NewBackupRepository(trace *telemetry.Trace, minioClient *client.MinioClient) *BackupRepository {
	return &BackupRepository{trace: trace, client: minioClient.Client(), bucket: minioClient.Bucket()}
}

func (repository *BackupRepository) Enabled() bool {
	return repository.client != nil
}

// Upload 以 registry-backups/<fileName> 存放，回傳 object key
func (repository *BackupRepository) Upload(contextValue context.Context, fileName string, data []byte) (objectKey string, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceBackupMeta{
		FileName: fileName,
		Bytes:    len(data),
		Remote:   true,
		Bucket:   repository.bucket,
	})
	if repository.client == nil {
		returnedError = fmt.Errorf("minio is not configured")
		return "", returnedError
	}

	objectKey = ObjectKey(fileName)
	_, returnedError = repository.client.PutObject(
		contextValue,
		repository.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if returnedError != nil {
		return "", fmt.Errorf("upload backup to MinIO failed: %w", returnedError)
	}
	return objectKey, nil
}

// ObjectKey 回傳備份檔在 bucket 中的路徑
func ObjectKey(fileName string) string {
	return path.Join(backupPrefix, path.Base(fileName))
}

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/database/fluentd/model"
	minioRepo "scoreboard/internal/database/minio/repository"
	"scoreboard/internal/dto"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/path"

	"go.uber.org/zap"
)

const (
	backupActor    = "cron"
	backupSuccess  = "success"
	backupFailure  = "failure"
	backupDirPerm  = 0o755
	backupFilePerm = 0o644
)

// BackupService 匯出 registry 寫到本機目錄，設定 MinIO 時另外上傳一份
type BackupService struct {
	trace    *telemetry.Trace
	metric   *telemetry.Metric
	logger   *zap.Logger
	registry *RegistryService
	remote   *minioRepo.BackupRepository
	dir      string
}

func NewBackupService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	config *config.Configuration,
	registryService *RegistryService,
	remote *minioRepo.BackupRepository,
) *BackupService {
	dir := config.Backup.Dir
	if dir == "" {
		dir = path.DataDir("backups")
	}
	return &BackupService{
		trace:    trace,
		metric:   metric,
		logger:   logger.Named("backup"),
		registry: registryService,
		remote:   remote,
		dir:      dir,
	}
}

func (s *BackupService) Run(ctx context.Context) (resp *dto.BackupResponseDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanBackupJob))
	defer func() {
		end(returnedError)
		if returnedError != nil {
			s.metric.IncBackup(backupFailure)
			s.logger.Error("registry backup failed", zap.Error(returnedError))
			return
		}
		s.metric.IncBackup(backupSuccess)
	}()

	export, err := s.registry.Export(ctx, backupActor)
	if err != nil {
		return nil, err
	}
	data := []byte(export.Content)
	resp = &dto.BackupResponseDto{FileName: export.FileName, Bytes: len(data)}

	if err := os.MkdirAll(s.dir, backupDirPerm); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	resp.LocalPath = filepath.Join(s.dir, export.FileName)
	if err := os.WriteFile(resp.LocalPath, data, backupFilePerm); err != nil {
		return nil, fmt.Errorf("write backup file: %w", err)
	}

	if s.remote != nil && s.remote.Enabled() {
		objectKey, err := s.remote.Upload(ctx, export.FileName, data)
		if err != nil {
			return nil, err
		}
		resp.ObjectKey = objectKey
	}

	s.trace.ApplyTraceAttributes(span, core.TraceBackupMeta{
		FileName: export.FileName,
		Bytes:    len(data),
		Local:    true,
		Remote:   resp.ObjectKey != "",
	})
	s.registry.audit(ctx, model.RegistryAuditLog{
		Action:    string(core.AuditBackup),
		Actor:     backupActor,
		TargetKey: resp.LocalPath,
		Success:   true,
	})
	s.logger.Info("registry backup written",
		zap.String("file", resp.LocalPath),
		zap.String("objectKey", resp.ObjectKey),
		zap.Int("bytes", resp.Bytes),
	)
	return resp, nil
}

package service

import (
	"context"
	"strings"

	"scoreboard/internal/core"
	"scoreboard/internal/database/fluentd/model"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RegistryService 為管理後台與 CLI 共用的 registry 操作，異動皆寫入稽核紀錄
type RegistryService struct {
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	logger  *zap.Logger
	store   *registry.Store
	auditor *fluentdRepo.LogRepository
}

func NewRegistryService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	store *registry.Store,
	auditor *fluentdRepo.LogRepository,
) *RegistryService {
	return &RegistryService{
		trace:   trace,
		metric:  metric,
		logger:  logger.Named("registry_admin"),
		store:   store,
		auditor: auditor,
	}
}

func (s *RegistryService) ListUsers(ctx context.Context, view core.RegistryView) *dto.ListUsersResponseDto {
	_, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if view == "" {
		view = core.RegistryViewAll
	}
	var users []registry.UserRecord
	if view == core.RegistryViewBlacklist {
		users = s.store.ListBlacklisted()
	} else {
		users = s.store.ListAll()
	}
	total, blacklisted := s.store.Stats()
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "list", View: string(view), ResultCount: len(users)})

	return &dto.ListUsersResponseDto{
		View:        view,
		Total:       total,
		Blacklisted: blacklisted,
		Users:       users,
	}
}

func (s *RegistryService) GetUser(ctx context.Context, userID string) (*registry.UserRecord, error) {
	_, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	record, ok := s.store.Get(userID)
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "get", Key: userID, Found: ok})
	if !ok {
		return nil, cErr.NotFound("user not found")
	}
	return &record, nil
}

// SetBlacklisted 調整黑名單；key 不存在時仍會更新黑名單集合
func (s *RegistryService) SetBlacklisted(ctx context.Context, actor, userID string, blacklisted bool) (*dto.SetBlacklistResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if strings.TrimSpace(userID) == "" {
		return nil, cErr.ValidatePathParamsErr("userID is required")
	}
	existed := s.store.SetBlacklisted(ctx, userID, blacklisted)
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "blacklist", Key: userID, Blacklisted: blacklisted, Found: existed})
	s.observe()

	action := core.AuditBlacklist
	if !blacklisted {
		action = core.AuditUnblacklist
	}
	s.audit(ctx, model.RegistryAuditLog{Action: string(action), Actor: actor, TargetKey: userID, Success: true})

	return &dto.SetBlacklistResponseDto{UserID: userID, Blacklisted: blacklisted, Existed: existed}, nil
}

func (s *RegistryService) DeleteUser(ctx context.Context, actor, userID string) (*dto.DeleteUserResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	existed := s.store.Delete(ctx, userID)
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "delete", Key: userID, Found: existed})
	if !existed {
		return nil, cErr.NotFound("user not found")
	}
	s.observe()
	s.audit(ctx, model.RegistryAuditLog{Action: string(core.AuditDelete), Actor: actor, TargetKey: userID, Success: true})

	return &dto.DeleteUserResponseDto{UserID: userID, Existed: existed}, nil
}

// Export 匯出整份 registry，回傳下載檔名與內容
func (s *RegistryService) Export(ctx context.Context, actor string) (resp *dto.ExportResponseDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	content, err := s.store.Export()
	if err != nil {
		return nil, cErr.InternalServer("export registry failed")
	}
	total, _ := s.store.Stats()
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "export", ResultCount: total, Bytes: len(content)})
	s.audit(ctx, model.RegistryAuditLog{Action: string(core.AuditExport), Actor: actor, Count: total, Success: true})

	return &dto.ExportResponseDto{
		FileName: registry.ExportFileName(nowUTC()),
		Content:  content,
	}, nil
}

// Import 合併匯入；內容格式錯誤時不異動 registry 並回 IMPORT_REJECTED
func (s *RegistryService) Import(ctx context.Context, actor, content string) (resp *dto.ImportResponseDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	result := s.store.Import(ctx, content)
	meta := core.TraceRegistryMeta{Op: "import", ResultCount: result.ImportedCount, Bytes: len(content)}
	if !result.Success {
		meta.Error = &result.Message
	}
	s.trace.ApplyTraceAttributes(span, meta)
	s.audit(ctx, model.RegistryAuditLog{
		Action:  string(core.AuditImport),
		Actor:   actor,
		Count:   result.ImportedCount,
		Success: result.Success,
		Message: result.Message,
	})
	if !result.Success {
		return nil, cErr.ImportRejected(result.Message)
	}
	s.observe()
	return &result, nil
}

func (s *RegistryService) Clear(ctx context.Context, actor string) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	total, _ := s.store.Stats()
	s.store.Clear(ctx)
	s.trace.ApplyTraceAttributes(span, core.TraceRegistryMeta{Op: "clear", ResultCount: total})
	s.observe()
	s.audit(ctx, model.RegistryAuditLog{Action: string(core.AuditClear), Actor: actor, Count: total, Success: true})
}

func (s *RegistryService) Stats() (users int, blacklisted int) {
	return s.store.Stats()
}

func (s *RegistryService) observe() {
	s.metric.ObserveRegistry(s.store.Stats())
}

// audit 失敗只記 log
func (s *RegistryService) audit(ctx context.Context, entry model.RegistryAuditLog) {
	if s.auditor == nil {
		return
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		entry.RequestID = sc.TraceID().String()
	}
	if err := s.auditor.LogAudit(ctx, entry); err != nil {
		s.logger.Warn("audit log failed", zap.String("action", entry.Action), zap.Error(err))
	}
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/database/client"
	"scoreboard/internal/database/fluentd/model"
)

const fluentdTimeLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/Audit Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	app           string
	version       string
}

func NewLogRepository(config *config.Configuration, client client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, app: config.App.Name, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	if req.App == "" {
		req.App = repository.app
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	if resp.App == "" {
		resp.App = repository.app
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

// LogAudit 送出 registry 管理操作紀錄
func (repository *LogRepository) LogAudit(ctx context.Context, audit model.RegistryAuditLog) error {
	if audit.LoggedAt == "" {
		audit.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if audit.Version == "" {
		audit.Version = repository.version
	}
	if audit.App == "" {
		audit.App = repository.app
	}
	return repository.post(ctx, core.FluentdAudit, audit)
}

// fluent-logger 以 map 形式送出，欄位名稱沿用 json tag
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var fluentdMessage map[string]any
	if err := json.Unmarshal(b, &fluentdMessage); err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}

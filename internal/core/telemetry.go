package core

const (
	ContextTraceKey        = "telemetry_trace_ctx"
	ContextRequestStartKey = "request_start"
)

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAdminMiddleware    TraceSpanName = "admin_auth_middleware"
	SpanPlatformCall       TraceSpanName = "platform.call"
	SpanPlatformForward    TraceSpanName = "platform.forward"
	SpanBackupJob          TraceSpanName = "cron.backup"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal    MetricName = "requests_total"
	MetricHttpRequestDuration  MetricName = "request_duration_seconds"
	MetricResponsesTotal       MetricName = "responses_total"
	MetricErrorsTotal          MetricName = "errors_total"
	MetricUpstreamCallsTotal   MetricName = "upstream_calls_total"
	MetricRegistryUsers        MetricName = "registry_users"
	MetricRegistryBlacklisted  MetricName = "registry_blacklisted"
	MetricBlockedLoginsTotal   MetricName = "blocked_logins_total"
	MetricBackupRunsTotal      MetricName = "backup_runs_total"
	MetricSmsCooldownHitsTotal MetricName = "sms_cooldown_hits_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelResult   MetricLabelName = "result"
	MetricLabelMode     MetricLabelName = "mode"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

// 管理後台 registry 操作
type TraceRegistryMeta struct {
	Op          string  `trace:"registry.op"`
	Key         string  `trace:"registry.key,omitempty"`
	View        string  `trace:"registry.view,omitempty"`
	Blacklisted bool    `trace:"registry.blacklisted"`
	Found       bool    `trace:"registry.found"`
	ResultCount int     `trace:"result.count,omitempty"`
	Bytes       int     `trace:"registry.bytes,omitempty"`
	Error       *string `trace:"error,omitempty"`
}

// 上游平台呼叫
type TracePlatformCallMeta struct {
	Endpoint    string `trace:"platform.endpoint"`
	Method      string `trace:"http.method"`
	AccountType int    `trace:"platform.account_type"`
	Status      int    `trace:"http.status_code"`
	Code        int    `trace:"platform.code"`
	Success     bool   `trace:"platform.success"`
	Encoding    string `trace:"http.content_encoding,omitempty"`
}

// 簡訊冷卻 Acquire / Release
type TraceSmsCooldownMeta struct {
	Phone     string `trace:"sms.phone_masked"`
	WindowSec int64  `trace:"sms.window_sec"`
	Acquired  bool   `trace:"sms.acquired"`
	TTL       int64  `trace:"sms.ttl_sec,omitempty"`
	Backend   string `trace:"sms.backend"`
	Op        string `trace:"sms.op"`
}

// snapshot 讀寫
type TraceSnapshotMeta struct {
	Driver string `trace:"snapshot.driver"`
	Key    string `trace:"snapshot.key"`
	Bytes  int    `trace:"snapshot.bytes,omitempty"`
	Found  bool   `trace:"snapshot.found"`
	Op     string `trace:"snapshot.op"`
}

type TraceAdminAuthMeta struct {
	Username string `trace:"auth.username,omitempty"`
	Status   string `trace:"auth.status"`
	Reason   string `trace:"auth.reason,omitempty"`
}

type TraceBackupMeta struct {
	FileName string `trace:"backup.file_name"`
	Bytes    int    `trace:"backup.bytes"`
	Local    bool   `trace:"backup.local"`
	Remote   bool   `trace:"backup.remote"`
	Bucket   string `trace:"backup.bucket,omitempty"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path        string  `trace:"http.path"`
	Method      string  `trace:"http.method"`
	Status      int     `trace:"http.status_code"`
	Message     string  `trace:"response.message,omitempty"`
	Service     string  `trace:"response.service,omitempty"`
	Passthrough bool    `trace:"response.passthrough"`
	DurationMs  float64 `trace:"response.latency_ms"`
	Data        string  `trace:"response.data_preview,omitempty"`
}
type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

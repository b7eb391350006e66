package model

// RequestLog 進站請求；Service 只有 /api/{service}/* 轉發時才有值
type RequestLog struct {
	RequestID  string `json:"request_id"`
	App        string `json:"app"`
	Route      string `json:"route,omitempty"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Service    string `json:"service,omitempty"`
	Body       string `json:"body,omitempty"`
	ClientHash string `json:"client_hash,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	Version    string `json:"version,omitempty"`
	RequestTS  string `json:"request_ts"`
	LoggedAt   string `json:"logged_at"`
}

package model

type ResponseLog struct {
	RequestID   string  `json:"request_id"`
	App         string  `json:"app"`
	Route       string  `json:"route,omitempty"`
	Service     string  `json:"service,omitempty"`
	Code        int     `json:"code"`
	StatusCode  int     `json:"status_code"`
	Passthrough bool    `json:"passthrough,omitempty"`
	Body        string  `json:"body,omitempty"`
	Error       string  `json:"error,omitempty"`
	DurationMs  float64 `json:"duration_ms"`
	Version     string  `json:"version,omitempty"`
	ResponseTS  string  `json:"response_ts"`
	LoggedAt    string  `json:"logged_at"`
}

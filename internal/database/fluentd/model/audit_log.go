package model

// RegistryAuditLog 記錄 registry 的管理操作（匯入、匯出、黑名單…）
type RegistryAuditLog struct {
	RequestID   string `json:"request_id,omitempty"`
	App         string `json:"app,omitempty"`
	Action      string `json:"action"`
	Actor       string `json:"actor,omitempty"`
	TargetKey   string `json:"target_key,omitempty"`
	Count       int    `json:"count,omitempty"`
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Version     string `json:"version,omitempty"`
	LoggedAt    string `json:"logged_at"`
}

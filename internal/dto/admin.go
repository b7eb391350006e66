package dto

import "time"

// 管理後台登入
type AdminLoginDto struct {
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponseDto struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// 備份結果
type BackupResponseDto struct {
	FileName  string `json:"fileName"`
	Bytes     int    `json:"bytes"`
	LocalPath string `json:"localPath,omitempty"`
	ObjectKey string `json:"objectKey,omitempty"`
}

// 健康狀態
type HealthResponseDto struct {
	Status      string `json:"status"`
	Users       int    `json:"users"`
	Blacklisted int    `json:"blacklisted"`
}

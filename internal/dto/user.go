package dto

import (
	"scoreboard/internal/core"
	"scoreboard/internal/registry"
)

// 列出 registry
type ListUsersQuery struct {
	View core.RegistryView `form:"view" binding:"omitempty,oneof=all blacklist"`
}

type ListUsersResponseDto struct {
	View        core.RegistryView     `json:"view"`
	Total       int                   `json:"total"`
	Blacklisted int                   `json:"blacklisted"`
	Users       []registry.UserRecord `json:"users"`
}

// 調整黑名單
type SetBlacklistDto struct {
	Blacklisted *bool `json:"blacklisted" binding:"required"`
}

type SetBlacklistResponseDto struct {
	UserID      string `json:"userId"`
	Blacklisted bool   `json:"blacklisted"`
	Existed     bool   `json:"existed"`
}

type DeleteUserResponseDto struct {
	UserID  string `json:"userId"`
	Existed bool   `json:"existed"`
}

type ExportResponseDto struct {
	FileName string `json:"fileName"`
	Content  string `json:"-"`
}

type ImportResponseDto = registry.ImportResult

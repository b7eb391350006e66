package dto

import (
	"scoreboard/internal/core"
	"scoreboard/internal/pkg/request"
	"scoreboard/internal/registry"
)

// 發送簡訊驗證碼
type SendSmsCodeDto struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"` // 11 碼手機號
}

func (SendSmsCodeDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"PhoneNumber.required": "phoneNumber is required",
		"PhoneNumber.phone":    "invalid phone number",
	}
}

type SendSmsCodeResponseDto struct {
	PhoneNumber string `json:"phoneNumber"`
	Cooldown    int64  `json:"cooldown"` // 下次可發送前的秒數
}

// 登入：password 模式帶 password，sms 模式帶 6 碼 smsCode
type LoginDto struct {
	Mode     core.LoginMode `json:"mode" binding:"required,oneof=password sms"`
	Account  string         `json:"account" binding:"required"`
	Password string         `json:"password,omitempty" binding:"required_if=Mode password"`
	SmsCode  string         `json:"smsCode,omitempty" binding:"required_if=Mode sms,omitempty,smscode"`
}

func (LoginDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Mode.required":        "mode is required",
		"Mode.oneof":           "mode must be password or sms",
		"Account.required":     "account is required",
		"Password.required_if": "password is required",
		"SmsCode.required_if":  "smsCode is required",
		"SmsCode.smscode":      "smsCode must be 6 digits",
	}
}

type LoginResponseDto struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refreshToken"`
	AccountType  core.AccountType    `json:"accountType"`
	UserID       string              `json:"userId"`
	Account      string              `json:"account"`
	User         registry.UserRecord `json:"user"`
}

// 個人資料（取自 get_user_info，並同步寫入 registry）
type ProfileResponseDto struct {
	User       registry.UserRecord `json:"user"`
	ClassID    string              `json:"classId"`
	GradeID    string              `json:"gradeId"`
	PeriodName string              `json:"periodName"`
}

package request

import (
	"errors"
	"regexp"

	cErr "scoreboard/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator DTO 實作後可針對 "Field.tag" 自訂錯誤訊息
type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// 自訂 tag 對應專屬錯誤碼，其餘一律 BAD_REQUEST_BODY
var tagErrors = map[string]func(string) *cErr.Error{
	"phone":   cErr.InvalidPhoneNumber,
	"smscode": cErr.InvalidSmsCode,
}

// GetError 取第一個驗證失敗欄位轉成 *cErr.Error
func GetError(request any, err error) *cErr.Error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return cErr.ValidateErr("Parameter error")
	}
	first := validationErrors[0]
	message := first.Error()
	if v, ok := request.(Validator); ok {
		key := indexPattern.ReplaceAllString(first.Field(), ".*") + "." + first.Tag()
		if custom, exist := v.GetMessages()[key]; exist {
			message = custom
		}
	}
	if build, ok := tagErrors[first.Tag()]; ok {
		return build(message)
	}
	return cErr.ValidateErr(message)
}

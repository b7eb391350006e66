package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/request"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^1\d{10}$`)
	smsCodePattern = regexp.MustCompile(`^\d{6}$`)

	registerOnce sync.Once
)

// IsPhoneNumber 大陸手機號碼：1 開頭共 11 碼
func IsPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsSmsCode 6 位數驗證碼
func IsSmsCode(code string) bool {
	return smsCodePattern.MatchString(code)
}

// RegisterValidations 註冊 binding tag：phone、smscode
func RegisterValidations() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhoneNumber(fl.Field().String())
		})
		_ = engine.RegisterValidation("smscode", func(fl validator.FieldLevel) bool {
			return IsSmsCode(fl.Field().String())
		})
	})
}

// 輸出格式化的 validator error（欄位 json 名/型別/規則列表）
func ValidationErrorResponse(obj interface{}, err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var b strings.Builder
		b.WriteString("Validation error:\n")
		for _, fe := range errs {
			field := jsonFieldName(obj, fe.StructField())
			ftype := fieldType(obj, fe.StructField())
			format := getFieldFormat(obj, fe.StructField())
			b.WriteString(fmt.Sprintf(" - Field \"%s\" (type: %s) failed the '%s' validation (rules: %v)\n",
				field, ftype, fe.Tag(), format))
		}
		return b.String()
	}
	return fmt.Sprintf("Validation error: %s", err.Error())
}

func jsonFieldName(obj interface{}, structField string) string {
	if f, ok := structFieldOf(obj, structField); ok {
		tag := f.Tag.Get("json")
		if tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}
	return structField
}

func fieldType(obj interface{}, structField string) string {
	if f, ok := structFieldOf(obj, structField); ok {
		return f.Type.Name()
	}
	return ""
}

func getFieldFormat(obj interface{}, structField string) []string {
	if f, ok := structFieldOf(obj, structField); ok {
		tag := f.Tag.Get("binding")
		if tag != "" {
			return strings.Split(tag, ",")
		}
	}
	return nil
}

func structFieldOf(obj interface{}, name string) (reflect.StructField, bool) {
	t := reflect.TypeOf(obj)
	if t == nil {
		return reflect.StructField{}, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	return t.FieldByName(name)
}

// BindAndValidate 綁定 JSON body；DTO 有實作 request.Validator 時使用自訂訊息
func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		if _, isValidator := req.(request.Validator); isValidator {
			if _, isValidationErr := err.(validator.ValidationErrors); isValidationErr {
				return err, request.GetError(req, err)
			}
		}
		return err, cErr.ValidateErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

// BindQuery 綁定 query string
func BindQuery(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindQuery(req); err != nil {
		if _, isValidator := req.(request.Validator); isValidator {
			if _, isValidationErr := err.(validator.ValidationErrors); isValidationErr {
				return err, request.GetError(req, err)
			}
		}
		return err, cErr.BadRequestParams(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

func GetInt64Query(c *gin.Context, key string, defaultVal int64) (int64, error) {
	if v := c.Query(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return defaultVal, nil
}

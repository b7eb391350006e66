package handler

import (
	"strconv"

	"scoreboard/internal/core"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/validate"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	trace          *telemetry.Trace
	sessionService *service.SessionService
}

func NewSessionHandler(trace *telemetry.Trace, sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{trace: trace, sessionService: sessionService}
}

// SendSmsCode 發送登入驗證碼
// @Summary 發送簡訊驗證碼
// @Tags Session
// @Accept json
// @Produce json
// @Param body body dto.SendSmsCodeDto true "手機號碼"
// @Success 200 {object} dto.SendSmsCodeResponseDto
// @Failure 400 {object} cErr.Error
// @Failure 429 {object} cErr.Error
// @Router /api/session/sms-code [post]
func (h *SessionHandler) SendSmsCode(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.SendSmsCodeDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.sessionService.SendSmsCode(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Login 密碼或簡訊登入
// @Summary 登入
// @Tags Session
// @Accept json
// @Produce json
// @Param body body dto.LoginDto true "登入資訊"
// @Success 200 {object} dto.LoginResponseDto
// @Failure 400 {object} cErr.Error
// @Failure 403 {object} cErr.Error "帳號已被拉黑"
// @Failure 502 {object} cErr.Error
// @Router /api/session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.LoginDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.sessionService.Login(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Profile 取得個人資料
// @Summary 取得個人資料
// @Tags Session
// @Produce json
// @Param token header string true "平台 token"
// @Param accountType header int false "0 密碼登入 / 8 簡訊登入"
// @Success 200 {object} dto.ProfileResponseDto
// @Failure 401 {object} cErr.Error
// @Router /api/session/profile [get]
func (h *SessionHandler) Profile(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	accountType, err := accountTypeHeader(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	res, err := h.sessionService.Profile(ctx, platformToken(c), accountType)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// platformToken 讀 token header
func platformToken(c *gin.Context) string {
	return c.GetHeader(core.DeviceHeaderToken)
}

func accountTypeHeader(c *gin.Context) (core.AccountType, error) {
	raw := c.GetHeader(core.DeviceHeaderAccountType)
	if raw == "" {
		if cookie, err := c.Cookie(core.DeviceHeaderAccountType); err == nil {
			raw = cookie
		}
	}
	if raw == "" {
		return core.AccountTypePassword, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cErr.BadRequestHeaders("accountType must be a number")
	}
	return core.AccountType(v), nil
}

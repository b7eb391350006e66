package handler

import (
	"io"
	"mime/multipart"
	"strings"

	"scoreboard/internal/core"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/validate"

	"github.com/gin-gonic/gin"
)

// 匯入檔上限 32MB
const maxImportBytes = 32 << 20

type AdminUserHandler struct {
	trace           *telemetry.Trace
	registryService *service.RegistryService
}

func NewAdminUserHandler(trace *telemetry.Trace, registryService *service.RegistryService) *AdminUserHandler {
	return &AdminUserHandler{trace: trace, registryService: registryService}
}

// List 使用者列表
// @Summary 取得 registry 使用者列表
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param view query string false "all / blacklist" Enums(all, blacklist)
// @Success 200 {object} dto.ListUsersResponseDto
// @Failure 400 {object} cErr.Error
// @Failure 401 {object} cErr.Error
// @Router /admin/users [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListUsersQuery
	if cause, respErr := validate.BindQuery(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	response.Success(c, h.registryService.ListUsers(ctx, query.View))
}

// Get 取得單一使用者
// @Summary 取得單一使用者
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param userID path string true "registry key"
// @Success 200 {object} registry.UserRecord
// @Failure 404 {object} cErr.Error
// @Router /admin/users/{userID} [get]
func (h *AdminUserHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	user, err := h.registryService.GetUser(ctx, c.Param("userID"))
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, user)
}

// SetBlacklist 加入 / 移出黑名單
// @Summary 調整黑名單
// @Tags Admin-User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userID path string true "registry key"
// @Param body body dto.SetBlacklistDto true "黑名單狀態"
// @Success 200 {object} dto.SetBlacklistResponseDto
// @Failure 400 {object} cErr.Error
// @Router /admin/users/{userID}/blacklist [patch]
func (h *AdminUserHandler) SetBlacklist(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.SetBlacklistDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.registryService.SetBlacklisted(ctx, actorOf(c), c.Param("userID"), *req.Blacklisted)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 刪除使用者
// @Summary 刪除使用者
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param userID path string true "registry key"
// @Success 200 {object} dto.DeleteUserResponseDto
// @Failure 404 {object} cErr.Error
// @Router /admin/users/{userID} [delete]
func (h *AdminUserHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	res, err := h.registryService.DeleteUser(ctx, actorOf(c), c.Param("userID"))
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

type AdminDataHandler struct {
	trace           *telemetry.Trace
	registryService *service.RegistryService
	backupService   *service.BackupService
}

func NewAdminDataHandler(trace *telemetry.Trace, registryService *service.RegistryService, backupService *service.BackupService) *AdminDataHandler {
	return &AdminDataHandler{trace: trace, registryService: registryService, backupService: backupService}
}

// Export 下載整份 registry
// @Summary 匯出 registry
// @Tags Admin-Data
// @Security BearerAuth
// @Produce json
// @Success 200 {file} file "user_data_<date>.json"
// @Router /admin/data/export [get]
func (h *AdminDataHandler) Export(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	res, err := h.registryService.Export(ctx, actorOf(c))
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Attachment(c, res.FileName, "application/json; charset=utf-8", []byte(res.Content))
}

// Import 匯入 registry（raw JSON body 或 multipart file）
// @Summary 匯入 registry
// @Tags Admin-Data
// @Security BearerAuth
// @Accept json
// @Accept mpfd
// @Produce json
// @Param file formData file false "匯出檔"
// @Success 200 {object} registry.ImportResult
// @Failure 400 {object} cErr.Error
// @Router /admin/data/import [post]
func (h *AdminDataHandler) Import(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	content, err := readImportContent(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	res, err := h.registryService.Import(ctx, actorOf(c), content)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Clear 清空 registry
// @Summary 清空 registry
// @Tags Admin-Data
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/data [delete]
func (h *AdminDataHandler) Clear(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	h.registryService.Clear(ctx, actorOf(c))
	response.Success(c, "registry cleared")
}

// Backup 立即執行一次備份
// @Summary 立即備份
// @Tags Admin-Data
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BackupResponseDto
// @Router /admin/data/backup [post]
func (h *AdminDataHandler) Backup(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	res, err := h.backupService.Run(ctx)
	if err != nil {
		response.AbortWithError(c, cErr.From(err))
		return
	}
	response.Success(c, res)
}

type AdminAuthHandler struct {
	trace       *telemetry.Trace
	authService *service.AdminAuthService
}

func NewAdminAuthHandler(trace *telemetry.Trace, authService *service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{trace: trace, authService: authService}
}

// Login 管理後台登入
// @Summary 管理後台登入
// @Tags Admin-Auth
// @Accept json
// @Produce json
// @Param body body dto.AdminLoginDto true "管理密碼"
// @Success 200 {object} dto.AdminLoginResponseDto
// @Failure 401 {object} cErr.Error
// @Router /admin/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.AdminLoginDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.authService.Login(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// actorOf 取 admin middleware 放入的使用者名稱
func actorOf(c *gin.Context) string {
	if v, ok := c.Get(core.ContextAdminClaimsKey); ok {
		if claims, ok := v.(*core.Claims); ok {
			return claims.Username
		}
	}
	return ""
}

func readImportContent(c *gin.Context) (string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return "", cErr.BadRequestBody("multipart field 'file' is required")
		}
		if fileHeader.Size > maxImportBytes {
			return "", cErr.BadRequestBody("import file too large")
		}
		return readMultipartFile(fileHeader)
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		return "", cErr.BadRequestBody("read request body failed")
	}
	if len(raw) > maxImportBytes {
		return "", cErr.BadRequestBody("import file too large")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return "", cErr.BadRequestBody("import body is empty")
	}
	return string(raw), nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", cErr.BadRequestBody("open upload failed")
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", cErr.BadRequestBody("read upload failed")
	}
	return string(raw), nil
}

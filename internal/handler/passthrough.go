package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"scoreboard/internal/core"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/decompress"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// 回應預覽（log 用）上限
const previewRunes = 2000

type PassthroughHandler struct {
	trace        *telemetry.Trace
	proxyService *service.ProxyService
	logger       *zap.Logger
}

func NewPassthroughHandler(trace *telemetry.Trace, proxyService *service.ProxyService, logger *zap.Logger) *PassthroughHandler {
	return &PassthroughHandler{trace: trace, proxyService: proxyService, logger: logger}
}

// Forward 返回綁定指定 service 的轉傳 handler
// @Summary 上游平台透明轉傳
// @Description 將 /api/{service}/... 原樣轉送到學校平台並補上裝置標頭，回傳上游的狀態碼、標頭與內容。
// @Tags Passthrough
// @Accept */*
// @Produce application/json
// @Param service path string true "上游服務" Enums(passport, platform, sxt-h5)
// @Param path path string true "上游路徑"
// @Param token header string false "平台 token"
// @Param accountType header int false "0 密碼登入 / 8 簡訊登入"
// @Success 200 {string} string "上游原始回應"
// @Failure 502 {object} cErr.Error
// @Router /api/{service}/{path} [get]
// @Router /api/{service}/{path} [post]
func (h *PassthroughHandler) Forward(platformService core.PlatformService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := h.trace.WithSpan(c)
		defer end(nil)

		path := "/" + string(platformService) + c.Param("path")
		span.SetAttributes(
			attribute.String("proxy.service", string(platformService)),
			attribute.String("proxy.path", path),
			attribute.String("http.method", c.Request.Method),
		)

		resp, err := h.proxyService.Forward(ctx, service.ForwardParams{
			Service:  platformService,
			Method:   c.Request.Method,
			Path:     path,
			RawQuery: c.Request.URL.RawQuery,
			Header:   c.Request.Header,
			Cookies:  c.Request.Cookies(),
			Body:     c.Request.Body,
		})
		if err != nil {
			end(err)
			response.AbortWithError(c, err)
			return
		}
		defer resp.Body.Close()

		c.Set(response.PassthroughKey, true)
		c.Writer.Header().Set("X-Proxy-Passthrough", "true")

		streaming := isStream(resp.Header)
		copyDownstreamHeaders(resp.Header, c.Writer.Header(), streaming)
		c.Status(resp.StatusCode)

		if streaming {
			h.stream(c, resp)
			return
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			h.logger.Warn("read upstream body failed", zap.Error(err))
			return
		}
		c.Set("data", previewOf(body, resp.Header))
		if _, werr := c.Writer.Write(body); werr != nil {
			h.logger.Warn("write downstream body failed", zap.Error(werr))
		}
	}
}

func (h *PassthroughHandler) stream(c *gin.Context, resp *http.Response) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		_, _ = io.Copy(c.Writer, resp.Body)
		return
	}
	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				break
			}
			flusher.Flush()
		}
		if rerr != nil { // EOF or error
			break
		}
	}
}

// previewOf 解壓後能解析為 JSON 就回傳物件，否則截斷文字
func previewOf(raw []byte, header http.Header) any {
	decoded, err := decompress.Body(raw, header)
	if err != nil {
		decoded = raw
	}
	var anyJSON any
	if err := json.Unmarshal(decoded, &anyJSON); err == nil {
		return anyJSON
	}
	return safeTruncateRunes(string(decoded), previewRunes)
}

func copyDownstreamHeaders(src, dst http.Header, isStream bool) {
	for k, vv := range src {
		ck := http.CanonicalHeaderKey(k)
		switch ck {
		case "Connection",
			"Proxy-Connection",
			"Keep-Alive",
			"Proxy-Authenticate",
			"Proxy-Authorization",
			"Te",
			"Trailer",
			"Transfer-Encoding",
			"Upgrade":
			continue
		case "Content-Length":
			if isStream { // 串流不設定 Content-Length，避免分塊衝突
				continue
			}
		}
		dst.Del(ck)
		for _, v := range vv {
			dst.Add(ck, v)
		}
	}
}

func isStream(h http.Header) bool {
	return strings.Contains(strings.ToLower(h.Get("Content-Type")), "text/event-stream")
}

func safeTruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}

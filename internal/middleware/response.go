package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/database/fluentd/model"
	"scoreboard/internal/database/fluentd/repository"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	responseModeEnvelope    = "envelope"
	responseModePassthrough = "passthrough"

	defaultSuccessMessage = "Request Success"
	previewLimit          = 2000
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	metric            *telemetry.Metric
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		metric:            metric,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// outcome 為一次成功回應要記錄的內容
type outcome struct {
	requestID   string
	endpoint    string
	status      int
	message     string
	data        any
	passthrough bool
	duration    time.Duration
}

// FormatHandler 將 handler 透過 response.Success 放入的 data 包成統一 envelope；
// 透明轉傳與檔案下載已自行寫出 body，只做紀錄
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if untraced(endpoint) {
			c.Next()
			return
		}
		start := requestStart(c)

		c.Next()

		passthrough := c.GetBool(response.PassthroughKey)
		// 錯誤交給 Recovery；非轉傳但已寫出代表 handler 自行處理
		if len(c.Errors) > 0 || (!passthrough && c.Writer.Written()) {
			return
		}
		status := c.Writer.Status()
		if status >= http.StatusBadRequest && !passthrough {
			response.AbortWithError(c, cErr.MapHttpStatusToError(status, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, message := payloadOf(c)
		sc := span.SpanContext()
		out := outcome{
			requestID:   requestIDOf(sc.TraceID().String(), sc.HasTraceID()),
			endpoint:    endpoint,
			status:      status,
			message:     message,
			data:        data,
			passthrough: passthrough,
			duration:    time.Since(start),
		}
		if passthrough {
			out.data = nil
		}
		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:        c.Request.URL.Path,
			Method:      c.Request.Method,
			Status:      status,
			Message:     message,
			Service:     proxyServiceOf(c.Request.URL.Path),
			Passthrough: passthrough,
			DurationMs:  float64(out.duration.Milliseconds()),
			Data:        previewOfData(out.data, previewLimit),
		})
		middleware.record(ctx, c, out)

		if passthrough {
			return
		}
		if err := writeEnvelope(c, out); err != nil {
			response.AbortWithError(c, err)
		}
	}
}

// payloadOf 取出 handler 設定的 data 與 message，缺省時補預設值
func payloadOf(c *gin.Context) (any, string) {
	data, _ := c.Get("data")
	if data == nil {
		data = map[string]any{}
	}
	message := c.GetString("message")
	if message == "" {
		message = defaultSuccessMessage
	}
	return data, message
}

// record 寫 zap、fluentd 與回應計數
func (middleware *Response) record(ctx context.Context, c *gin.Context, out outcome) {
	mode := responseModeEnvelope
	if out.passthrough {
		mode = responseModePassthrough
	}
	middleware.logger.Info("[Response] "+out.message,
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("mode", mode),
		zap.Int("status", out.status),
		zap.Duration("duration", out.duration),
		zap.String("traceId", out.requestID),
	)

	var body string
	if out.data != nil {
		if b, err := json.Marshal(out.data); err == nil {
			body = string(b)
		}
	}
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   out.requestID,
		App:         middleware.config.App.Name,
		Route:       out.endpoint,
		Service:     proxyServiceOf(c.Request.URL.Path),
		StatusCode:  out.status,
		Passthrough: out.passthrough,
		Body:        body,
		DurationMs:  float64(out.duration.Milliseconds()),
		ResponseTS:  fluentdTS(time.Now()),
		Version:     middleware.config.App.Version,
	})
	if err != nil {
		middleware.logger.Debug("fluentd response log failed", zap.Error(err))
	}
	middleware.metric.IncResponse(out.endpoint, out.status, mode)
}

// writeEnvelope 保留 handler 設定的狀態碼（例如 201）
func writeEnvelope(c *gin.Context, out outcome) error {
	b, err := json.Marshal(response.Response{
		RequestID:   out.requestID,
		Code:        0,
		Data:        out.data,
		Message:     "OK",
		Description: out.message,
	})
	if err != nil {
		return cErr.InternalServer("marshal response failed")
	}
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("X-Request-ID", out.requestID)
	c.Writer.WriteHeader(out.status)
	if _, err := c.Writer.Write(b); err != nil {
		return cErr.InternalServer("write response failed")
	}
	return nil
}

// previewOfData 序列化後截斷；字串若本身是 JSON 先正規化
func previewOfData(data any, max int) string {
	if data == nil {
		return ""
	}
	if s, ok := data.(string); ok {
		var js any
		if json.Unmarshal([]byte(s), &js) != nil {
			return truncate(s, max)
		}
		data = js
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("[marshal error: %v]", err)
	}
	return truncate(string(b), max)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

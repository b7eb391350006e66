package middleware

import (
	"net"
	"strconv"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// 未匹配路由統一一個 label，避免 metric 基數爆增
const unmatchedEndpoint = "unmatched"

type TraceEntry struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	conf   *config.Configuration
}

func NewTraceEntry(trace *telemetry.Trace, metric *telemetry.Metric, conf *config.Configuration) *TraceEntry {
	return &TraceEntry{trace: trace, metric: metric, conf: conf}
}

// Handler 開 server span，下游 middleware 透過 core.ContextTraceKey 取得 ctx
func (m *TraceEntry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if untraced(endpoint) {
			c.Next()
			return
		}
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := m.trace.StartSpanForLayer(ctx,
			core.TraceSpanName(c.Request.Method+" "+c.Request.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Set(core.ContextTraceKey, ctx)

		start := requestStart(c)

		meta := m.serverMeta(c, span)
		m.trace.ApplyTraceAttributes(span, &meta)

		c.Next()

		status := c.Writer.Status()
		meta.HttpStatusCode = status
		m.trace.ApplyTraceAttributes(span, &meta)
		m.metric.ObserveRequest(endpoint, status, time.Since(start))

		var err error
		if status >= 400 && len(c.Errors) > 0 {
			err = c.Errors.Last().Err
		}
		m.trace.EndSpan(span, err)
	}
}

func (m *TraceEntry) serverMeta(c *gin.Context, span trace.Span) core.TraceHttpServerMeta {
	peerAddr, peerPort := peerOf(c)
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return core.TraceHttpServerMeta{
		ClientAddr:        c.ClientIP(),
		HttpRequestMethod: c.Request.Method,
		HttpRoute:         c.FullPath(),
		UrlPath:           c.Request.URL.Path,
		UrlScheme:         scheme,
		UserAgent:         c.Request.UserAgent(),
		ServerAddress:     m.conf.App.Name,
		NetworkPeerAddr:   peerAddr,
		NetworkPeerPort:   peerPort,
		NetworkProtoVer:   c.Request.Proto,
		SpanKind:          trace.SpanKindServer.String(),
		SpanTraceID:       span.SpanContext().TraceID().String(),
	}
}

// peerOf 拆 RemoteAddr；格式不對時退回 ClientIP
func peerOf(c *gin.Context) (string, int) {
	host, port, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP(), 0
	}
	p, _ := strconv.Atoi(port)
	return host, p
}

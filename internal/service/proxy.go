package service

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

type ForwardParams struct {
	Service  core.PlatformService // passport / platform / sxt-h5
	Method   string               // GET/POST/PUT/DELETE...
	Path     string               // 去掉 /api 前綴後的路徑，例：/passport/api/auth/login
	RawQuery string               // 原始 query string（不含 ?）
	Header   http.Header          // 來自前端的 header（會做 hop-by-hop 過濾）
	Cookies  []*http.Cookie
	Body     io.Reader
}

// ProxyService 等同開發環境的 proxy：轉送 /api/<service>/... 到上游並補上裝置標頭
type ProxyService struct {
	httpClient *http.Client
	platform   *platform.HTTPClient
	trace      *telemetry.Trace
}

func NewProxyService(trace *telemetry.Trace, client *http.Client, platformClient *platform.HTTPClient) *ProxyService {
	return &ProxyService{
		httpClient: client,
		platform:   platformClient,
		trace:      trace,
	}
}

func (service *ProxyService) Forward(ctx context.Context, req ForwardParams) (*http.Response, error) {
	ctx, span, end := service.trace.WithSpan(ctx, string(core.SpanPlatformForward))
	defer end(nil)

	switch req.Service {
	case core.PlatformPassport, core.PlatformPlatform, core.PlatformSxtH5:
	default:
		return nil, cErr.NotFound("unknown platform service: " + string(req.Service))
	}

	path := "/" + strings.TrimLeft(req.Path, "/")
	target := service.platform.BaseURL(req.Service) + path
	if req.RawQuery != "" {
		target = target + "?" + req.RawQuery
	}
	accountType := accountTypeOf(req.Header, req.Cookies)
	span.SetAttributes(
		attribute.String("platform.service", string(req.Service)),
		attribute.String("http.method", req.Method),
		attribute.String("http.url", target),
		attribute.Int("platform.account_type", accountType),
	)

	request, err := http.NewRequestWithContext(ctx, req.Method, target, req.Body)
	if err != nil {
		end(err)
		return nil, cErr.InternalServer("create platform request failed")
	}

	// 1) 複製前端 header（去除 hop-by-hop 與來源相關 header）
	copySafeHeaders(req.Header, request.Header)

	// 2) 裝置標頭
	platform.ApplyDeviceHeaders(request.Header, req.Service, path, accountType)

	if request.Header.Get("Accept") == "" {
		request.Header.Set("Accept", "application/json")
	}

	resp, err := service.httpClient.Do(request)
	if err != nil {
		end(err)
		return nil, cErr.ExternalRequestError("platform request failed")
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp, nil
}

// accountTypeOf 依序讀 accountType header、cookie；皆無時視為密碼登入
func accountTypeOf(header http.Header, cookies []*http.Cookie) int {
	raw := header.Get(core.DeviceHeaderAccountType)
	if raw == "" {
		for _, cookie := range cookies {
			if cookie.Name == core.DeviceHeaderAccountType {
				raw = cookie.Value
				break
			}
		}
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return int(core.AccountTypePassword)
	}
	return v
}

// ---- helpers ----

var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Proxy-Connection":    {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// 上游以 Host / Origin 判斷來源，不沿用瀏覽器的值
var rewrittenHeaders = map[string]struct{}{
	"Host":    {},
	"Origin":  {},
	"Referer": {},
}

func copySafeHeaders(src http.Header, dst http.Header) {
	for k, vv := range src {
		ck := http.CanonicalHeaderKey(k)
		if _, banned := hopByHopHeaders[ck]; banned {
			continue
		}
		if _, rewritten := rewrittenHeaders[ck]; rewritten {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
	// RFC7230: 若 Connection 有列出其他 header，也必須移除
	if cval := src.Get("Connection"); cval != "" {
		tokens := strings.Split(cval, ",")
		for _, t := range tokens {
			if h := http.CanonicalHeaderKey(strings.TrimSpace(t)); h != "" {
				dst.Del(h)
			}
		}
	}
}

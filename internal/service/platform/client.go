package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/crypto"
	"scoreboard/utils/decompress"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// ExamPageSize 為考試列表每頁筆數
const ExamPageSize = 10

// Client 為上游學校平台的呼叫介面
type Client interface {
	SendSmsCode(ctx context.Context, phoneNumber string) error
	ValidSmsCode(ctx context.Context, phoneNumber, code string) error
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	GetUserInfo(ctx context.Context, token string, accountType int) (*UserInfo, error)
	ListExams(ctx context.Context, token, studentID string, page, size int) (*ExamPage, error)
	FindScoreList(ctx context.Context, token, examID, accountID string) (json.RawMessage, error)
	FindStudentQuestion(ctx context.Context, token, classID, studentID, examCourseID string) (json.RawMessage, error)
}

var ProviderSet = wire.NewSet(
	NewHTTPClient,
	wire.Bind(new(Client), new(*HTTPClient)),
)

type HTTPClient struct {
	httpClient *http.Client
	trace      *telemetry.Trace
	metric     *telemetry.Metric
	logger     *zap.Logger

	apiBase    string
	portalBase string
	aesKey     string
}

func NewHTTPClient(
	conf *config.Configuration,
	httpClient *http.Client,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
) *HTTPClient {
	c := &HTTPClient{
		httpClient: httpClient,
		trace:      trace,
		metric:     metric,
		logger:     logger.Named("platform"),
		apiBase:    strings.TrimRight(conf.Platform.APIBaseURL, "/"),
		portalBase: strings.TrimRight(conf.Platform.PortalBaseURL, "/"),
		aesKey:     conf.Platform.AESKey,
	}
	if c.apiBase == "" {
		c.apiBase = core.PlatformAPIBaseURL
	}
	if c.portalBase == "" {
		c.portalBase = core.PlatformPortalBaseURL
	}
	if c.aesKey == "" {
		c.aesKey = core.PlatformDefaultAESKey
	}
	return c
}

// NewHttpClient 建立呼叫上游用的 http.Client，逾時取 PLATFORM__TIMEOUT（秒）
func NewHttpClient(conf *config.Configuration) *http.Client {
	timeout := time.Duration(conf.Platform.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// BaseURL 回傳 service 對應的上游 base
func (c *HTTPClient) BaseURL(service core.PlatformService) string {
	if service == core.PlatformSxtH5 {
		return c.portalBase
	}
	return c.apiBase
}

func (c *HTTPClient) SendSmsCode(ctx context.Context, phoneNumber string) error {
	q := url.Values{}
	q.Set("phoneNumber", phoneNumber)
	_, err := c.call(ctx, callParams{
		endpoint: core.EndpointSendSmsCode,
		method:   http.MethodPost,
		query:    q,
	})
	return err
}

func (c *HTTPClient) ValidSmsCode(ctx context.Context, phoneNumber, code string) error {
	q := url.Values{}
	q.Set("phoneNumber", phoneNumber)
	q.Set("authCode", code)
	_, err := c.call(ctx, callParams{
		endpoint: core.EndpointValidSmsCode,
		method:   http.MethodPost,
		query:    q,
	})
	return err
}

// Login 密碼（或簡訊驗證碼）以 AES-ECB 加密後送出
func (c *HTTPClient) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	encrypted, err := crypto.EncryptECB(c.aesKey, params.Secret)
	if err != nil {
		return nil, cErr.InternalServer("encrypt login secret failed: " + err.Error())
	}
	data, err := c.call(ctx, callParams{
		endpoint:    core.EndpointLogin,
		method:      http.MethodPost,
		accountType: params.AccountType,
		body: loginBody{
			App:         core.LoginApp,
			Password:    encrypted,
			AccountType: params.AccountType,
			Client:      core.LoginClient,
			Account:     params.Account,
			Platform:    core.LoginPlatform,
		},
	})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, cErr.ExternalResponseFormatError("invalid login data: " + err.Error())
	}
	if result.Token == "" {
		return nil, cErr.ExternalResponseFormatError("login response has no token")
	}
	result.Raw = data
	return &result, nil
}

func (c *HTTPClient) GetUserInfo(ctx context.Context, token string, accountType int) (*UserInfo, error) {
	data, err := c.call(ctx, callParams{
		endpoint:    core.EndpointUserInfo,
		method:      http.MethodGet,
		token:       token,
		accountType: accountType,
	})
	if err != nil {
		return nil, err
	}
	var info UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, cErr.ExternalResponseFormatError("invalid user info data: " + err.Error())
	}
	return &info, nil
}

func (c *HTTPClient) ListExams(ctx context.Context, token, studentID string, page, size int) (*ExamPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = ExamPageSize
	}
	data, err := c.call(ctx, callParams{
		endpoint: core.EndpointExamPage,
		method:   http.MethodPost,
		token:    token,
		body: examPageBody{
			IsLoading: true,
			Body: examPageInner{
				PageableDto:      pageable{Page: page, Size: size},
				SemesterID:       "",
				StudentAccountID: studentID,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	var examPage ExamPage
	if len(nonNull(data)) > 0 {
		if err := json.Unmarshal(data, &examPage); err != nil {
			return nil, cErr.ExternalResponseFormatError("invalid exam page data: " + err.Error())
		}
	}
	if examPage.DataList == nil {
		examPage.DataList = []json.RawMessage{}
	}
	if examPage.TotalPage < 1 {
		examPage.TotalPage = 1
	}
	return &examPage, nil
}

func (c *HTTPClient) FindScoreList(ctx context.Context, token, examID, accountID string) (json.RawMessage, error) {
	return c.call(ctx, callParams{
		endpoint: core.EndpointScoreList,
		method:   http.MethodPost,
		token:    token,
		body:     scoreListBody{IsLoading: true, ExamID: examID, AccountID: accountID},
	})
}

func (c *HTTPClient) FindStudentQuestion(ctx context.Context, token, classID, studentID, examCourseID string) (json.RawMessage, error) {
	return c.call(ctx, callParams{
		endpoint: core.EndpointStudentQuestion,
		method:   http.MethodPost,
		token:    token,
		body: studentQuestionBody{
			IsLoading:         true,
			ClassID:           classID,
			StudentID:         studentID,
			ExamCourseID:      examCourseID,
			CourseChooseTrend: 1,
		},
	})
}

// ---- transport ----

type callParams struct {
	endpoint    core.PlatformEndpoint
	method      string
	query       url.Values
	token       string
	accountType int
	body        any
}

// ServiceOf 由 endpoint 路徑判斷所屬 service
func ServiceOf(path string) core.PlatformService {
	trimmed := strings.TrimPrefix(path, "/")
	name, _, _ := strings.Cut(trimmed, "/")
	return core.PlatformService(name)
}

// ApplyDeviceHeaders 設定上游要求的裝置標頭；簡訊登入的使用者資訊查詢需額外帶版本資訊
func ApplyDeviceHeaders(h http.Header, service core.PlatformService, path string, accountType int) {
	h.Set(core.DeviceHeaderPid, core.DevicePid)
	h.Set(core.DeviceHeaderAppType, core.DeviceAppType)
	h.Set(core.DeviceHeaderOperatingSystem, core.DeviceOperatingSystem)
	if service == core.PlatformSxtH5 {
		h.Set("User-Agent", core.DeviceH5UserAgent)
		return
	}
	h.Set("User-Agent", core.DeviceUserAgent)
	if strings.HasPrefix(path, string(core.EndpointUserInfo)) && accountType == int(core.AccountTypeSms) {
		h.Set(core.DeviceHeaderVersionName, core.DeviceVersionName)
		h.Set(core.DeviceHeaderVersionCode, core.DeviceVersionCode)
		h.Set("Content-Type", "application/json;charset=UTF-8")
		h.Set("Accept-Encoding", "gzip")
	}
}

func (c *HTTPClient) call(ctx context.Context, params callParams) (data json.RawMessage, returnedError error) {
	ctx, span, end := c.trace.WithSpan(ctx, string(core.SpanPlatformCall))
	defer func() { end(returnedError) }()

	meta := core.TracePlatformCallMeta{
		Endpoint:    string(params.endpoint),
		Method:      params.method,
		AccountType: params.accountType,
	}
	result := "error"
	defer func() {
		c.metric.IncUpstream(params.endpoint, result)
		c.trace.ApplyTraceAttributes(span, meta)
	}()

	service := ServiceOf(string(params.endpoint))
	target := c.BaseURL(service) + string(params.endpoint)
	if len(params.query) > 0 {
		target += "?" + params.query.Encode()
	}

	var body io.Reader
	if params.body != nil {
		b, err := json.Marshal(params.body)
		if err != nil {
			return nil, cErr.InternalServer("encode upstream request failed")
		}
		body = bytes.NewReader(b)
	}
	request, err := http.NewRequestWithContext(ctx, params.method, target, body)
	if err != nil {
		return nil, cErr.InternalServer("create upstream request failed")
	}
	if params.body != nil || params.method == http.MethodPost {
		request.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}
	request.Header.Set("Accept", "application/json")
	ApplyDeviceHeaders(request.Header, service, string(params.endpoint), params.accountType)
	if params.token != "" {
		request.Header.Set(core.DeviceHeaderToken, params.token)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("endpoint", string(params.endpoint)), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, cErr.GatewayTimeout("upstream request timed out")
		}
		return nil, cErr.ExternalRequestError("upstream request failed")
	}
	defer resp.Body.Close()
	meta.Status = resp.StatusCode
	meta.Encoding = resp.Header.Get("Content-Encoding")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cErr.ExternalRequestError("read upstream body failed")
	}
	decoded, err := decompress.Body(raw, resp.Header)
	if err != nil {
		return nil, cErr.ExternalResponseFormatError("decode upstream body failed: " + err.Error())
	}

	var envelope Envelope
	if err := json.Unmarshal(decoded, &envelope); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, cErr.MapHttpStatusToError(resp.StatusCode, "upstream returned HTTP "+strconv.Itoa(resp.StatusCode))
		}
		return nil, cErr.ExternalResponseFormatError("upstream response is not JSON")
	}
	meta.Code, meta.Success = envelope.Code, envelope.Success
	if !envelope.OK() {
		result = "rejected"
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("upstream rejected the request (code %d)", envelope.Code)
		}
		return nil, cErr.UpstreamRejected(message)
	}
	result = "success"
	return envelope.Data, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

package platform

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, *[]captured) {
	t.Helper()
	var calls []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, captured{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	conf := &config.Configuration{Platform: config.Platform{APIBaseURL: srv.URL, PortalBaseURL: srv.URL + "/"}}
	c := NewHTTPClient(conf, srv.Client(), &telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop())
	return c, &calls
}

func writeEnvelope(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"code":200,"success":true,"message":"ok","data":`+data+`}`)
}

func TestLogin_EncryptsSecretAndSendsDeviceHeaders(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, `{"token":"tk","refreshToken":"rt","userId":12345,"userName":"张三","gender":1,"idnumber":"110"}`)
	})

	result, err := c.Login(context.Background(), LoginParams{Account: "13800000000", Secret: "123456", AccountType: 8})
	require.NoError(t, err)
	assert.Equal(t, "tk", result.Token)
	assert.Equal(t, "rt", result.RefreshToken)
	assert.Equal(t, FlexString("12345"), result.UserID)
	assert.Equal(t, FlexString("1"), result.Gender)
	assert.Equal(t, FlexString("110"), result.IDNumber)
	assert.JSONEq(t, `{"token":"tk","refreshToken":"rt","userId":12345,"userName":"张三","gender":1,"idnumber":"110"}`, string(result.Raw))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, string(core.EndpointLogin), call.path)
	assert.Equal(t, "SXT", call.header.Get("pid"))
	assert.Equal(t, "student", call.header.Get("appType"))
	assert.Equal(t, "android", call.header.Get("operatingSystem"))
	assert.Equal(t, core.DeviceUserAgent, call.header.Get("User-Agent"))
	assert.Equal(t, "application/json;charset=UTF-8", call.header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(call.body, &body))
	want, err := crypto.EncryptECB(core.PlatformDefaultAESKey, "123456")
	require.NoError(t, err)
	assert.Equal(t, want, body["password"])
	assert.Equal(t, "SXT", body["app"])
	assert.Equal(t, "STUDENT", body["client"])
	assert.Equal(t, "ANDROID", body["platform"])
	assert.Equal(t, "13800000000", body["account"])
	assert.Equal(t, float64(8), body["accountType"])
}

func TestLogin_UpstreamRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":500,"success":false,"message":"账号或密码错误"}`)
	})

	_, err := c.Login(context.Background(), LoginParams{Account: "a", Secret: "b"})
	require.Error(t, err)
	appErr := cErr.From(err)
	assert.Equal(t, cErr.UPSTREAM_REJECTED, appErr.ErrorCode())
	assert.Equal(t, "账号或密码错误", appErr.ErrorDesc())
}

func TestSendSmsCode_Query(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, `null`)
	})

	require.NoError(t, c.SendSmsCode(context.Background(), "13800000000"))
	require.NoError(t, c.ValidSmsCode(context.Background(), "13800000000", "123456"))

	require.Len(t, *calls, 2)
	assert.Equal(t, string(core.EndpointSendSmsCode), (*calls)[0].path)
	assert.Equal(t, "phoneNumber=13800000000", (*calls)[0].query)
	assert.Equal(t, string(core.EndpointValidSmsCode), (*calls)[1].path)
	assert.Equal(t, "authCode=123456&phoneNumber=13800000000", (*calls)[1].query)
}

func TestGetUserInfo_SmsHeadersAndGzip(t *testing.T) {
	payload := `{"code":200,"success":true,"data":{
		"userSimpleDTO":{"id":777,"account":"13800000000","name":"张三","sxwnumber":"S1"},
		"areaDTO":{"id":"a1","name":"第一中学"},
		"classComplexDTO":{"classSimpleDTO":{"id":"c1","name":"高一(1)班"},"gradeComplexDTO":{"id":"g1","gradeName":"高一","periodName":"高中"}}}}`
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(payload))
		_ = gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	})

	info, err := c.GetUserInfo(context.Background(), "tk", int(core.AccountTypeSms))
	require.NoError(t, err)
	assert.Equal(t, FlexString("777"), info.User.ID)
	assert.Equal(t, FlexString("第一中学"), info.Area.Name)
	assert.Equal(t, FlexString("高一(1)班"), info.Clazz.Name)
	assert.Equal(t, FlexString("高一"), info.Grade.GradeName)

	var bundle map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(info.Bundle(), &bundle))
	assert.JSONEq(t, `{"id":"a1","name":"第一中学"}`, string(bundle["area"]))

	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "tk", call.header.Get("token"))
	assert.Equal(t, "3.3.5", call.header.Get("versionName"))
	assert.Equal(t, "335", call.header.Get("versionCode"))
	assert.Equal(t, "gzip", call.header.Get("Accept-Encoding"))
}

func TestGetUserInfo_PasswordModeOmitsVersionHeaders(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, `{"userSimpleDTO":{"id":"1"}}`)
	})

	info, err := c.GetUserInfo(context.Background(), "tk", int(core.AccountTypePassword))
	require.NoError(t, err)
	assert.Equal(t, FlexString("1"), info.User.ID)
	assert.Nil(t, info.ClazzRaw)
	assert.Empty(t, (*calls)[0].header.Get("versionName"))
}

func TestListExams_BodyAndDefaults(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, `{"dataList":[{"id":"e1","name":"期中考试","startTime":"2024-04-01","state":7}],"totalPage":3}`)
	})

	page, err := c.ListExams(context.Background(), "tk", "777", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPage)
	require.Len(t, page.DataList, 1)
	exams := ParseExams(page.DataList)
	require.Len(t, exams, 1)
	assert.Equal(t, FlexString("期中考试"), exams[0].Name)
	assert.Equal(t, FlexString("7"), exams[0].State)

	call := (*calls)[0]
	assert.Equal(t, string(core.EndpointExamPage), call.path)
	assert.Equal(t, core.DeviceH5UserAgent, call.header.Get("User-Agent"))
	assert.JSONEq(t, `{"isLoading":true,"body":{"pageableDto":{"page":2,"size":10},"isObjective":false,"semesterId":"","studentAccountId":"777","notNeedNceExam":false}}`, string(call.body))
}

func TestFindScoreList_And_Question(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, `[{"courseName":"数学","gainScore":120,"fullScore":150}]`)
	})

	raw, err := c.FindScoreList(context.Background(), "tk", "e1", "777")
	require.NoError(t, err)
	scores, err := ParseScores(raw)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 120.0, scores[0].EffectiveScore())
	assert.JSONEq(t, `{"isLoading":true,"examId":"e1","accountId":"777"}`, string((*calls)[0].body))

	_, err = c.FindStudentQuestion(context.Background(), "tk", "c1", "777", "ec1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isLoading":true,"classId":"c1","studentId":"777","examCourseId":"ec1","courseChooseTrend":1}`, string((*calls)[1].body))
}

func TestCall_NonJSONResponses(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == string(core.EndpointScoreList) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
			return
		}
		_, _ = io.WriteString(w, "<html>ok</html>")
	})

	_, err := c.FindScoreList(context.Background(), "tk", "e1", "1")
	assert.Equal(t, cErr.EXTERNAL_REQUEST_ERROR, cErr.From(err).ErrorCode())

	_, err = c.FindStudentQuestion(context.Background(), "tk", "c", "s", "e")
	assert.Equal(t, cErr.EXTERNAL_RESPONSE_FORMAT_ERROR, cErr.From(err).ErrorCode())
}

func TestServiceOf(t *testing.T) {
	assert.Equal(t, core.PlatformSxtH5, ServiceOf("/sxt-h5/api/x"))
	assert.Equal(t, core.PlatformPassport, ServiceOf("passport/api/auth/login"))
}

func TestFlexTypes(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexFloat  `json:"d"`
		E FlexFloat  `json:"e"`
		F FlexFloat  `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":12,"c":null,"d":"98.5","e":null,"f":0.75}`), &v))
	assert.Equal(t, FlexString("x"), v.A)
	assert.Equal(t, FlexString("12"), v.B)
	assert.Equal(t, FlexString(""), v.C)
	assert.Equal(t, FlexFloat(98.5), v.D)
	assert.Equal(t, FlexFloat(0), v.E)
	assert.Equal(t, FlexFloat(0.75), v.F)
}

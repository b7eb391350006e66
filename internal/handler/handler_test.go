package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestAccountTypeHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	accountType, err := accountTypeHeader(newContext(req))
	require.NoError(t, err)
	assert.Equal(t, core.AccountTypePassword, accountType)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accountType", Value: "8"})
	accountType, err = accountTypeHeader(newContext(req))
	require.NoError(t, err)
	assert.Equal(t, core.AccountTypeSms, accountType)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("accountType", "0")
	req.AddCookie(&http.Cookie{Name: "accountType", Value: "8"})
	accountType, err = accountTypeHeader(newContext(req))
	require.NoError(t, err)
	assert.Equal(t, core.AccountTypePassword, accountType)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("accountType", "sms")
	_, err = accountTypeHeader(newContext(req))
	require.Error(t, err)
	assert.Equal(t, cErr.BAD_REQUEST_HEADERS, cErr.From(err).ErrorCode())
}

func TestReadImportContent_RawBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"users":{}}`))
	req.Header.Set("Content-Type", "application/json")
	content, err := readImportContent(newContext(req))
	require.NoError(t, err)
	assert.Equal(t, `{"users":{}}`, content)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  \n"))
	_, err = readImportContent(newContext(req))
	require.Error(t, err)
	assert.Equal(t, cErr.BAD_REQUEST_BODY, cErr.From(err).ErrorCode())
}

func TestReadImportContent_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "user_data_2024-01-01.json")
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"users":{}}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	content, err := readImportContent(newContext(req))
	require.NoError(t, err)
	assert.Equal(t, `{"users":{}}`, content)

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = readImportContent(newContext(req))
	require.Error(t, err)
}

func TestActorOf(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "", actorOf(c))

	c.Set(core.ContextAdminClaimsKey, &core.Claims{Username: "admin"})
	assert.Equal(t, "admin", actorOf(c))
}

func TestPreviewOf(t *testing.T) {
	assert.Equal(t, map[string]any{"ok": true}, previewOf([]byte(`{"ok":true}`), http.Header{}))

	var compressed bytes.Buffer
	bw := brotli.NewWriter(&compressed)
	_, _ = bw.Write([]byte(`{"ok":1}`))
	require.NoError(t, bw.Close())
	header := http.Header{"Content-Encoding": []string{"br"}}
	assert.Equal(t, map[string]any{"ok": float64(1)}, previewOf(compressed.Bytes(), header))

	long := strings.Repeat("分", previewRunes+10)
	preview, ok := previewOf([]byte(long), http.Header{}).(string)
	require.True(t, ok)
	assert.Equal(t, previewRunes+1, len([]rune(preview)))
}

func TestCopyDownstreamHeaders(t *testing.T) {
	src := http.Header{
		"Connection":     []string{"keep-alive"},
		"Content-Length": []string{"12"},
		"Content-Type":   []string{"text/event-stream"},
		"Set-Cookie":     []string{"a=1", "b=2"},
	}
	dst := http.Header{}
	copyDownstreamHeaders(src, dst, isStream(src))

	assert.Empty(t, dst.Get("Connection"))
	assert.Empty(t, dst.Get("Content-Length"))
	assert.Equal(t, []string{"a=1", "b=2"}, dst.Values("Set-Cookie"))
	assert.True(t, isStream(dst))
}

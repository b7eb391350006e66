package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/database/client"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	"scoreboard/internal/registry"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"go.uber.org/zap"
)

// fakePlatform 依欄位回傳固定結果，並記錄呼叫
type fakePlatform struct {
	mu sync.Mutex

	sendErr   error
	validErr  error
	login     *platform.LoginResult
	loginErr  error
	userInfo  *platform.UserInfo
	exams     *platform.ExamPage
	scores    map[string]json.RawMessage // examID → score list
	questions json.RawMessage

	calls []string
	last  platform.LoginParams
}

func (f *fakePlatform) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakePlatform) SendSmsCode(context.Context, string) error {
	f.record("send")
	return f.sendErr
}

func (f *fakePlatform) ValidSmsCode(context.Context, string, string) error {
	f.record("valid")
	return f.validErr
}

func (f *fakePlatform) Login(_ context.Context, params platform.LoginParams) (*platform.LoginResult, error) {
	f.record("login")
	f.last = params
	return f.login, f.loginErr
}

func (f *fakePlatform) GetUserInfo(context.Context, string, int) (*platform.UserInfo, error) {
	f.record("userInfo")
	return f.userInfo, nil
}

func (f *fakePlatform) ListExams(context.Context, string, string, int, int) (*platform.ExamPage, error) {
	f.record("exams")
	return f.exams, nil
}

func (f *fakePlatform) FindScoreList(_ context.Context, _ string, examID, _ string) (json.RawMessage, error) {
	f.record("scores:" + examID)
	return f.scores[examID], nil
}

func (f *fakePlatform) FindStudentQuestion(context.Context, string, string, string, string) (json.RawMessage, error) {
	f.record("questions")
	return f.questions, nil
}

type fakeCooldown struct {
	held     map[string]bool
	released []string
}

func (f *fakeCooldown) Acquire(_ context.Context, phone string, window int64) (bool, int64, error) {
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[phone] {
		return false, window, nil
	}
	f.held[phone] = true
	return true, 0, nil
}

func (f *fakeCooldown) Release(_ context.Context, phone string) error {
	delete(f.held, phone)
	f.released = append(f.released, phone)
	return nil
}

func newTestStore(t *testing.T) *registry.Store {
	t.Helper()
	store := registry.NewStore(registry.NewMemoryPersister(), zap.NewNop())
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

func newTestRegistryService(store *registry.Store) *RegistryService {
	auditor := fluentdRepo.NewLogRepository(&config.Configuration{}, &client.NoopClient{})
	return NewRegistryService(&telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop(), store, auditor)
}

func mustUserInfo(t *testing.T, raw string) *platform.UserInfo {
	t.Helper()
	var info platform.UserInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		t.Fatalf("decode user info: %v", err)
	}
	return &info
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionService(t *testing.T, fake *fakePlatform, cooldown *fakeCooldown) (*SessionService, *fakePlatform) {
	t.Helper()
	store := newTestStore(t)
	svc := NewSessionService(&telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop(), &config.Configuration{}, fake, store, cooldown)
	return svc, fake
}

func TestSendSmsCode_Cooldown(t *testing.T) {
	svc, fake := newTestSessionService(t, &fakePlatform{}, &fakeCooldown{})
	ctx := context.Background()

	resp, err := svc.SendSmsCode(ctx, &dto.SendSmsCodeDto{PhoneNumber: "13800000000"})
	require.NoError(t, err)
	assert.Equal(t, int64(defaultSmsCooldownSeconds), resp.Cooldown)

	_, err = svc.SendSmsCode(ctx, &dto.SendSmsCodeDto{PhoneNumber: "13800000000"})
	require.Error(t, err)
	assert.Equal(t, cErr.RATE_LIMIT_EXCEEDED, cErr.From(err).ErrorCode())
	assert.Equal(t, []string{"send"}, fake.calls)
}

func TestSendSmsCode_ReleasesCooldownOnUpstreamFailure(t *testing.T) {
	cooldown := &fakeCooldown{}
	svc, _ := newTestSessionService(t, &fakePlatform{sendErr: cErr.UpstreamRejected("too frequent")}, cooldown)

	_, err := svc.SendSmsCode(context.Background(), &dto.SendSmsCodeDto{PhoneNumber: "13800000000"})
	require.Error(t, err)
	assert.Equal(t, []string{"13800000000"}, cooldown.released)
}

func TestLogin_PasswordUpsertsRecord(t *testing.T) {
	fake := &fakePlatform{login: &platform.LoginResult{
		Token:        "tok",
		RefreshToken: "ref",
		ID:           "u-1",
		UserName:     "小明",
		IDNumber:     "110101",
		SxwNumber:    "SXW9",
		Raw:          json.RawMessage(`{"token":"tok","id":"u-1"}`),
	}}
	svc, _ := newTestSessionService(t, fake, &fakeCooldown{})

	resp, err := svc.Login(context.Background(), &dto.LoginDto{
		Mode:     core.LoginModePassword,
		Account:  "13800000000",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "ref", resp.RefreshToken)
	assert.Equal(t, core.AccountTypePassword, resp.AccountType)
	assert.Equal(t, "u-1", resp.UserID)
	assert.Equal(t, "secret", fake.last.Secret)
	assert.Equal(t, 0, fake.last.AccountType)

	user := resp.User
	assert.Equal(t, "13800000000", user.ID)
	assert.Equal(t, "13800000000", user.Account)
	assert.Equal(t, "13800000000", user.PhoneNumber)
	assert.Equal(t, "小明", user.Name)
	assert.Equal(t, "110101", user.IDCard)
	assert.Equal(t, "SXW9", user.StudentID)
	assert.JSONEq(t, `{"token":"tok","id":"u-1"}`, string(user.UserInfo))
}

func TestLogin_SmsValidatesCodeFirst(t *testing.T) {
	fake := &fakePlatform{login: &platform.LoginResult{Token: "tok", UserID: "9"}}
	svc, _ := newTestSessionService(t, fake, &fakeCooldown{})

	resp, err := svc.Login(context.Background(), &dto.LoginDto{
		Mode:    core.LoginModeSms,
		Account: "13800000000",
		SmsCode: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"valid", "login"}, fake.calls)
	assert.Equal(t, "123456", fake.last.Secret)
	assert.Equal(t, 8, fake.last.AccountType)
	assert.Equal(t, core.AccountTypeSms, resp.AccountType)
	assert.Equal(t, "13800000000", resp.User.Name)
}

func TestLogin_InvalidSmsCodeStops(t *testing.T) {
	fake := &fakePlatform{validErr: cErr.UpstreamRejected("wrong code")}
	svc, _ := newTestSessionService(t, fake, &fakeCooldown{})

	_, err := svc.Login(context.Background(), &dto.LoginDto{Mode: core.LoginModeSms, Account: "13800000000", SmsCode: "000000"})
	require.Error(t, err)
	assert.Equal(t, []string{"valid"}, fake.calls)
}

func TestLogin_BlacklistedAccountRejected(t *testing.T) {
	fake := &fakePlatform{login: &platform.LoginResult{Token: "tok"}}
	svc, _ := newTestSessionService(t, fake, &fakeCooldown{})
	svc.store.SetBlacklisted(context.Background(), "13800000000", true)

	_, err := svc.Login(context.Background(), &dto.LoginDto{Mode: core.LoginModePassword, Account: "13800000000", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, cErr.ACCOUNT_BLACKLISTED, cErr.From(err).ErrorCode())
	users, _ := svc.store.Stats()
	assert.Equal(t, 0, users)
}

func TestLogin_UpstreamErrorPassesThrough(t *testing.T) {
	upstream := cErr.UpstreamRejected("账号或密码错误")
	svc, _ := newTestSessionService(t, &fakePlatform{loginErr: upstream}, &fakeCooldown{})

	_, err := svc.Login(context.Background(), &dto.LoginDto{Mode: core.LoginModePassword, Account: "a", Password: "b"})
	assert.True(t, errors.Is(err, upstream))
}

func TestProfile_UpsertsAndKeepsLoginKey(t *testing.T) {
	fake := &fakePlatform{
		login: &platform.LoginResult{Token: "tok"},
		userInfo: mustUserInfo(t, `{
			"userSimpleDTO": {"id": 501, "account": "13800000000", "name": "小明"},
			"areaDTO": {"id": "A1", "name": "第一中学"},
			"classComplexDTO": {
				"classSimpleDTO": {"id": "C3", "className": "高一(3)班"},
				"gradeComplexDTO": {"gradeId": "G1", "gradeName": "高一", "periodName": "高中"}
			}
		}`),
	}
	svc, _ := newTestSessionService(t, fake, &fakeCooldown{})
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginDto{Mode: core.LoginModePassword, Account: "13800000000", Password: "x"})
	require.NoError(t, err)

	resp, err := svc.Profile(ctx, "tok", core.AccountTypePassword)
	require.NoError(t, err)

	user := resp.User
	assert.Equal(t, "13800000000", user.ID, "merge keeps the login key")
	assert.Equal(t, "小明", user.Name)
	assert.Equal(t, "高一", user.GradeName)
	assert.Equal(t, "第一中学", user.SchoolName)
	assert.Equal(t, "高一(3)班", user.ClassName)
	assert.Equal(t, "G1", user.GradeID)
	assert.Equal(t, "A1", user.SchoolID)
	assert.Equal(t, "C3", user.ClazzID)
	assert.Equal(t, "C3", resp.ClassID)
	assert.Equal(t, "高中", resp.PeriodName)

	var bundle map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(user.UserInfo, &bundle))
	assert.Contains(t, bundle, "grade")

	users, _ := svc.store.Stats()
	assert.Equal(t, 1, users)
}

func TestProfile_RequiresToken(t *testing.T) {
	svc, _ := newTestSessionService(t, &fakePlatform{}, &fakeCooldown{})
	_, err := svc.Profile(context.Background(), "", core.AccountTypePassword)
	require.Error(t, err)
	assert.Equal(t, cErr.INVALID_SESSION, cErr.From(err).ErrorCode())
}

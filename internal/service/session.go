package service

import (
	"context"
	"errors"
	"strconv"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/database/redis/repository"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/registry"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"go.uber.org/zap"
)

const defaultSmsCooldownSeconds = 60

// SmsCooldown 為同一手機號碼的發送間隔
type SmsCooldown interface {
	Acquire(ctx context.Context, phone string, windowSeconds int64) (bool, int64, error)
	Release(ctx context.Context, phone string) error
}

var _ SmsCooldown = (*repository.SmsCooldownRepository)(nil)

type SessionService struct {
	trace    *telemetry.Trace
	metric   *telemetry.Metric
	logger   *zap.Logger
	platform platform.Client
	store    *registry.Store
	cooldown SmsCooldown
	window   int64
}

func NewSessionService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	config *config.Configuration,
	platformClient platform.Client,
	store *registry.Store,
	cooldown SmsCooldown,
) *SessionService {
	window := int64(config.Sms.Cooldown)
	if window <= 0 {
		window = defaultSmsCooldownSeconds
	}
	return &SessionService{
		trace:    trace,
		metric:   metric,
		logger:   logger.Named("session"),
		platform: platformClient,
		store:    store,
		cooldown: cooldown,
		window:   window,
	}
}

// SendSmsCode 發送登入驗證碼；冷卻期間內直接回 429
func (s *SessionService) SendSmsCode(ctx context.Context, req *dto.SendSmsCodeDto) (resp *dto.SendSmsCodeResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	acquired, ttl, err := s.cooldown.Acquire(ctx, req.PhoneNumber, s.window)
	if err != nil {
		return nil, cErr.DatabaseError("sms cooldown unavailable")
	}
	if !acquired {
		s.metric.IncSmsCooldownHit()
		return nil, cErr.RateLimitExceeded("please wait " + strconv.FormatInt(ttl, 10) + "s before requesting another code")
	}

	if err := s.platform.SendSmsCode(ctx, req.PhoneNumber); err != nil {
		// 上游失敗不佔用冷卻
		if rErr := s.cooldown.Release(ctx, req.PhoneNumber); rErr != nil {
			s.logger.Warn("release sms cooldown failed", zap.Error(rErr))
		}
		return nil, err
	}
	return &dto.SendSmsCodeResponseDto{PhoneNumber: req.PhoneNumber, Cooldown: s.window}, nil
}

// Login 以密碼或簡訊驗證碼登入，成功後寫入 registry
func (s *SessionService) Login(ctx context.Context, req *dto.LoginDto) (resp *dto.LoginResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	secret := req.Password
	if req.Mode == core.LoginModeSms {
		if err := s.platform.ValidSmsCode(ctx, req.Account, req.SmsCode); err != nil {
			return nil, err
		}
		secret = req.SmsCode
	}
	accountType := req.Mode.AccountType()

	result, err := s.platform.Login(ctx, platform.LoginParams{
		Account:     req.Account,
		Secret:      secret,
		AccountType: int(accountType),
	})
	if err != nil {
		return nil, err
	}

	if s.store.IsBlacklisted(req.Account) {
		s.metric.IncBlockedLogin()
		s.logger.Info("blacklisted account rejected", zap.String("account", req.Account))
		return nil, cErr.AccountBlacklisted("account has been disabled")
	}

	record, err := s.store.Upsert(ctx, loginPatch(req.Account, result))
	if err != nil {
		return nil, registryError(err)
	}
	s.metric.ObserveRegistry(s.store.Stats())

	return &dto.LoginResponseDto{
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		AccountType:  accountType,
		UserID:       firstNonEmpty(result.UserID.String(), result.ID.String()),
		Account:      req.Account,
		User:         record,
	}, nil
}

// Profile 取得個人資料並同步 registry
func (s *SessionService) Profile(ctx context.Context, token string, accountType core.AccountType) (resp *dto.ProfileResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if token == "" {
		return nil, cErr.InvalidSession("token is required")
	}
	info, err := s.platform.GetUserInfo(ctx, token, int(accountType))
	if err != nil {
		return nil, err
	}

	patch := profilePatch(info)
	if s.isBlacklisted(info.User.ID.String(), info.User.Account.String(), info.User.PhoneNumber.String()) {
		s.metric.IncBlockedLogin()
		return nil, cErr.AccountBlacklisted("account has been disabled")
	}
	record, err := s.store.Upsert(ctx, patch)
	if err != nil {
		return nil, registryError(err)
	}
	s.metric.ObserveRegistry(s.store.Stats())

	return &dto.ProfileResponseDto{
		User:       record,
		ClassID:    info.Clazz.ID.String(),
		GradeID:    firstNonEmpty(info.Grade.GradeID.String(), info.Grade.ID.String()),
		PeriodName: info.Grade.PeriodName.String(),
	}, nil
}

func (s *SessionService) isBlacklisted(identifiers ...string) bool {
	for _, id := range identifiers {
		if id != "" && s.store.IsBlacklisted(id) {
			return true
		}
	}
	return false
}

// loginPatch 登入回應 → record；主鍵為登入帳號
func loginPatch(account string, result *platform.LoginResult) registry.UserPatch {
	opt := func(values ...string) *string {
		if v := firstNonEmpty(values...); v != "" {
			return &v
		}
		return nil
	}
	return registry.UserPatch{
		ID:          registry.String(account),
		Account:     registry.String(account),
		PhoneNumber: registry.String(account),
		Name:        opt(result.UserName.String(), account),
		UserID:      opt(result.UserID.String(), result.ID.String()),
		UserName:    opt(result.UserName.String()),
		RealName:    opt(result.RealName.String()),
		Email:       opt(result.Email.String()),
		Avatar:      opt(result.Avatar.String()),
		Gender:      opt(result.Gender.String()),
		Birthday:    opt(result.Birthday.String()),
		Address:     opt(result.Address.String()),
		IDCard:      opt(result.IDNumber.String(), result.IDCard.String()),
		StudentID:   opt(result.SxwNumber.String(), result.ID.String(), result.UserID.String()),
		UserInfo:    result.Raw,
	}
}

// profilePatch get_user_info → record；主鍵為平台 user.id
func profilePatch(info *platform.UserInfo) registry.UserPatch {
	opt := func(values ...string) *string {
		if v := firstNonEmpty(values...); v != "" {
			return &v
		}
		return nil
	}
	user := info.User
	return registry.UserPatch{
		ID:          opt(user.ID.String()),
		Account:     opt(user.Account.String()),
		PhoneNumber: opt(user.PhoneNumber.String(), user.Account.String()),
		Name:        opt(user.Name.String(), user.RealName.String(), user.UserName.String()),
		GradeName:   opt(info.Grade.GradeName.String()),
		SchoolName:  opt(info.Area.Name.String()),
		UserName:    opt(user.UserName.String()),
		RealName:    opt(user.RealName.String()),
		Email:       opt(user.Email.String()),
		Avatar:      opt(user.Avatar.String()),
		Gender:      opt(user.Gender.String()),
		Birthday:    opt(user.Birthday.String()),
		Address:     opt(user.Address.String()),
		IDCard:      opt(user.IDNumber.String(), user.IDCard.String()),
		StudentID:   opt(user.SxwNumber.String()),
		ClassName:   opt(info.Clazz.ClassName.String(), info.Clazz.Name.String()),
		GradeID:     opt(info.Grade.GradeID.String(), info.Grade.ID.String()),
		SchoolID:    opt(info.Area.ID.String()),
		AreaID:      opt(info.Area.ID.String()),
		ClazzID:     opt(info.Clazz.ID.String()),
		UserInfo:    info.Bundle(),
	}
}

func registryError(err error) error {
	if errors.Is(err, registry.ErrMissingIdentity) {
		return cErr.MissingIdentity(err.Error())
	}
	return cErr.InternalServer(err.Error())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

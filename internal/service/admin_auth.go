package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/telemetry"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminUsername      = "admin"
	defaultAdminTTLMin = 120
	tokenTypeBearer    = "Bearer"
)

// AdminAuthService 簽發與驗證管理後台 JWT
type AdminAuthService struct {
	trace        *telemetry.Trace
	secret       []byte
	passwordHash string
	password     string
	ttl          time.Duration
	now          func() time.Time
}

func NewAdminAuthService(trace *telemetry.Trace, config *config.Configuration) *AdminAuthService {
	ttl := time.Duration(config.Admin.TokenTTL) * time.Minute
	if ttl <= 0 {
		ttl = defaultAdminTTLMin * time.Minute
	}
	return &AdminAuthService{
		trace:        trace,
		secret:       []byte(config.App.SecretKey),
		passwordHash: config.Admin.PasswordHash,
		password:     config.Admin.Password,
		ttl:          ttl,
		now:          nowUTC,
	}
}

// Enabled 未設定密碼或 secret 時管理後台一律拒絕
func (s *AdminAuthService) Enabled() bool {
	return len(s.secret) > 0 && (s.passwordHash != "" || s.password != "")
}

func (s *AdminAuthService) Login(ctx context.Context, req *dto.AdminLoginDto) (resp *dto.AdminLoginResponseDto, returnedError error) {
	_, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if !s.Enabled() {
		s.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Status: "rejected", Reason: "admin_disabled"})
		return nil, cErr.ServiceUnavailable("admin console is not configured")
	}
	if !s.checkPassword(req.Password) {
		s.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Status: "rejected", Reason: "bad_password"})
		return nil, cErr.Unauthorized("invalid admin password")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := core.Claims{
		Username: adminUsername,
		Role:     core.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminUsername,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, cErr.InternalServer("sign admin token failed")
	}
	s.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Username: adminUsername, Status: "issued"})

	return &dto.AdminLoginResponseDto{Token: token, TokenType: tokenTypeBearer, ExpiresAt: expiresAt}, nil
}

// ParseToken 驗證簽章、有效期與角色
func (s *AdminAuthService) ParseToken(tokenString string) (*core.Claims, error) {
	if !s.Enabled() {
		return nil, cErr.ServiceUnavailable("admin console is not configured")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	claims := &core.Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, cErr.InvalidSession("admin token expired")
		}
		return nil, cErr.Unauthorized("invalid admin token")
	}
	if !token.Valid || claims.Role != core.RoleAdmin {
		return nil, cErr.UnauthorizedAdmin("admin role required")
	}
	return claims, nil
}

func (s *AdminAuthService) checkPassword(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/uptime-status/pkg/errors"
)

// Service exposes the site login workflow.
type Service interface {
	Enabled() bool
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Authorize(ctx context.Context, credential string) error
}

type service struct {
	cfg    Config
	tokens *JWTTokens
	gate   *Gate
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, tokens *JWTTokens, gate *Gate, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		tokens: tokens,
		gate:   gate,
		logger: logger.With("component", "auth.service"),
	}
}

func (s *service) Enabled() bool {
	return s.gate.Enabled()
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if !s.gate.Enabled() {
		return LoginResponse{}, apperrors.Wrap("auth_disabled", "no password required", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	if !s.passwordMatches(req.Password) {
		s.logger.Warn("site login rejected")
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "incorrect password", nil)
	}
	token, expires, err := s.tokens.Issue()
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: token, ExpiresAt: expires}, nil
}

func (s *service) Authorize(ctx context.Context, credential string) error {
	return s.gate.Authorize(ctx, credential)
}

// passwordMatches accepts either a bcrypt hash or a plain value in the configuration.
func (s *service) passwordMatches(candidate string) bool {
	if isBcryptHash(s.cfg.Password) {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.Password), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(candidate)) == 1
}

func isBcryptHash(value string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

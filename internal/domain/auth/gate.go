package auth

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/uptime-status/pkg/errors"
)

// Gate rejection codes.
const (
	CodeAuthRequired = "auth_required"
	CodeAuthInvalid  = "auth_invalid"
)

// Gate enforces the site token when a password and secret are configured.
type Gate struct {
	enabled  bool
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewGate builds a gate; with an incomplete Config every request is authorized.
func NewGate(cfg Config, verifier TokenVerifier, logger *slog.Logger) *Gate {
	return &Gate{
		enabled:  cfg.Enabled(),
		verifier: verifier,
		logger:   logger.With("component", "auth.gate"),
	}
}

// Enabled reports whether credentials are checked.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// Authorize returns nil when the request may proceed.
func (g *Gate) Authorize(ctx context.Context, credential string) error {
	if !g.enabled {
		return nil
	}
	if strings.TrimSpace(credential) == "" {
		return apperrors.Wrap(CodeAuthRequired, "Please log in first", nil)
	}
	ok, err := g.verifier.Verify(ctx, credential)
	if err != nil {
		g.logger.Debug("token verification failed", "error", err)
		ok = false
	}
	if !ok {
		return apperrors.Wrap(CodeAuthInvalid, "Invalid or expired token", nil)
	}
	return nil
}

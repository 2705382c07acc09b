package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/uptime-status/internal/domain/auth"
	"github.com/yanqian/uptime-status/internal/domain/monitor"
	apperrors "github.com/yanqian/uptime-status/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	monitorSvc monitor.Service
	authSvc    auth.Service
	cookies    CookieConfig
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(monitorSvc monitor.Service, authSvc auth.Service, cookies CookieConfig, logger *slog.Logger) *Handler {
	return &Handler{
		monitorSvc: monitorSvc,
		authSvc:    authSvc,
		cookies:    cookies,
		logger:     logger.With("component", "http.handler"),
	}
}

// GetMonitors serves monitor data wrapped in the response envelope.
func (h *Handler) GetMonitors(c *gin.Context) {
	token := readAuthCookie(c, h.cookies)
	res, err := h.monitorSvc.GetMonitors(c.Request.Context(), token)
	status, env := monitor.NewEnvelope(res, err)
	if err != nil {
		h.logger.Warn("get monitors failed", "code", apperrors.CodeOf(err), "request_id", requestID(c), "error", err)
	}
	c.JSON(status, env)
}

// Login exchanges the site password for a token cookie.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsCode(err, "auth_disabled") {
			c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": errMessage(err)})
			return
		}
		status := http.StatusInternalServerError
		code := "login_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			code = "invalid_credentials"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	setAuthCookie(c, h.cookies, resp.Token)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "expiresAt": resp.ExpiresAt})
}

// Logout clears the token cookie.
func (h *Handler) Logout(c *gin.Context) {
	clearAuthCookie(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
}

// Verify reports whether the caller's cookie passes the gate. It runs behind authMiddleware.
func (h *Handler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "required": h.authSvc.Enabled()})
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.MessageOf(err)
}

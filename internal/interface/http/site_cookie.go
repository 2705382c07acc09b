package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls the site token cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func setAuthCookie(c *gin.Context, cfg CookieConfig, token string) {
	secure := cfg.Secure || c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Name, token, int(cfg.MaxAge.Seconds()), "/", "", secure, true)
}

func clearAuthCookie(c *gin.Context, cfg CookieConfig) {
	secure := cfg.Secure || c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Name, "", -1, "/", "", secure, true)
}

func readAuthCookie(c *gin.Context, cfg CookieConfig) string {
	value, err := c.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return value
}

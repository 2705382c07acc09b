package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/uptime-status/internal/domain/auth"
	apperrors "github.com/yanqian/uptime-status/pkg/errors"
)

func authMiddleware(svc auth.Service, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := readAuthCookie(c, cookies)
		if err := svc.Authorize(c.Request.Context(), token); err != nil {
			code := apperrors.CodeOf(err)
			if code == "" {
				code = "unauthorized"
			}
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, code, errMessage(err), err))
			return
		}
		c.Next()
	}
}

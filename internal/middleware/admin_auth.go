package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/response"
)

// AdminAuthMiddleware 校验管理端令牌，X-Admin-Token 或 Authorization: Bearer <token>
// 未配置令牌时拒绝所有管理端请求
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Token")
		if provided == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				provided = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" || provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			zap.L().Warn("Admin request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			appErr := apperrors.UnauthorizedError(i18n.T(c.Request.Context(), "Unauthorized", nil))
			c.AbortWithStatusJSON(appErr.Code, response.ErrorFromAppError(appErr))
			return
		}
		c.Next()
	}
}

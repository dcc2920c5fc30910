package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/response"
)

// GlobalErrorMiddleware 全局错误中间件
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				c.AbortWithStatusJSON(appErr.Code, response.ErrorFromAppError(appErr))
				return
			}
		}

		// 默认处理未定义的错误
		zap.L().Error("Unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(c.Errors.Last().Err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(i18n.T(c.Request.Context(), "SystemError", nil)))
	}
}

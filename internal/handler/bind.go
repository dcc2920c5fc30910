package handler

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/i18n"
)

// bindingError 优先使用字段 msg 标签中的 i18n 消息 ID
func bindingError(c *gin.Context, err error, req any) *apperrors.AppError {
	zap.L().Warn("Request body binding failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)

	ctx := c.Request.Context()
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		t := reflect.TypeOf(req)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		for _, e := range validationErrs {
			// 通过反射获取字段的 msg 标签值
			field, ok := t.FieldByName(e.StructField())
			if !ok {
				continue
			}
			if key := field.Tag.Get("msg"); key != "" {
				return apperrors.InvalidRequestError(i18n.T(ctx, key, nil))
			}
		}
	}
	return apperrors.InvalidRequestError(i18n.T(ctx, "InvalidRequest", nil))
}

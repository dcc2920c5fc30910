package apperrors

import (
	"net/http"
)

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 保留底层错误，便于 errors.Is 判断
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

func NotFoundError(message string) *AppError {
	return WithCode(http.StatusNotFound, message)
}

func UnauthorizedError(message string) *AppError {
	return WithCode(http.StatusUnauthorized, message)
}

func ConflictError(message string) *AppError {
	return WithCode(http.StatusConflict, message)
}

// SystemError 封装系统内部错误
func SystemError(message string, cause error) *AppError {
	return Wrap(http.StatusInternalServerError, message, cause)
}

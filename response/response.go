package response

import (
	"time"

	"shortlink-redirect/internal/apperrors"
)

// Response 是一个通用的 API 响应结构
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// PageResponse 分页响应结构体
type PageResponse[T any] struct {
	Page      int `json:"page"`
	Size      int `json:"size"`
	TotalPage int `json:"total_page"`
	Total     int `json:"total"`
	List      []T `json:"list"`
}

// NewPage 根据总数计算总页数
func NewPage[T any](list []T, page, size int, total int64) *PageResponse[T] {
	totalPage := 0
	if size > 0 {
		totalPage = int((total + int64(size) - 1) / int64(size))
	}
	return &PageResponse[T]{
		Page:      page,
		Size:      size,
		TotalPage: totalPage,
		Total:     int(total),
		List:      list,
	}
}

// OK 构造一个成功的响应
func OK[T any](data T, message string) *Response[T] {
	return &Response[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Error 构造一个失败的响应
func Error(message string) *Response[any] {
	return &Response[any]{
		Success:   false,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ErrorFromAppError 基于 AppError 构造错误响应
func ErrorFromAppError(err *apperrors.AppError) *Response[any] {
	return Error(err.Message)
}

// ErrorBody 验证密码等页面接口使用的精简错误体
type ErrorBody struct {
	Error string `json:"error"`
}

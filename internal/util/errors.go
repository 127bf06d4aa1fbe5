package util

import (
	"errors"
	"fmt"
)

// ErrorKind 领域错误分类，HTTP 状态码映射在 controller 层完成
type ErrorKind int

const (
	// KindValidation 输入不合法/题库不足/选项与题目不匹配，客户端可修正
	KindValidation ErrorKind = iota
	// KindUnauthorized 签名缺失或无效，不做服务端重试
	KindUnauthorized
	// KindNotFound 引用了不存在的会话/题目/索引
	KindNotFound
)

// AppError 领域错误，始终作为普通 error 返回给调用方
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

// AsAppError errors.As 的便捷封装
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrUnauthorized = &AppError{Kind: KindUnauthorized, Message: "unauthorized"}
)

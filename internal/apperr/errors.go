// Package apperr 定义了业务层统一的错误类型，handler 根据 Kind 映射 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindEncoding    Kind = "encoding"
	KindPersistence Kind = "persistence"
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Field   string // 仅校验错误使用
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 必填字段缺失或非法
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound 引用的联系人不存在
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Encoding 图片或文档生成失败
func Encoding(message string, err error) *Error {
	return &Error{Kind: KindEncoding, Message: message, Err: err}
}

// Persistence 存储读写失败
func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// IsKind 判断错误链中是否包含指定类别的错误
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf 返回错误类别，非业务错误返回空字符串
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

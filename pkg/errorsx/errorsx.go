// Package errorsx 定义业务错误分类，底层为 xerrors.Error，HTTP 层据此映射状态码
package errorsx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wyfcoding/pkg/xerrors"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 业务错误，Base.Message 可直接展示给用户
type Error struct {
	Base *xerrors.Error
}

func newError(t xerrors.ErrorType, status int, msg string, cause error) *Error {
	return &Error{Base: xerrors.New(t, status, msg, "", cause)}
}

// Error 返回 "消息: 原因"，不带 xerrors 的类型前缀
func (e *Error) Error() string {
	if e.Base.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Base.Message, e.Base.Cause)
	}
	return e.Base.Message
}

func (e *Error) Unwrap() error { return e.Base.Cause }

// As 让 errors.As 能取出底层 *xerrors.Error
func (e *Error) As(target any) bool {
	if x, ok := target.(**xerrors.Error); ok {
		*x = e.Base
		return true
	}
	return false
}

// HTTPStatus 实现 response.HTTPStatusProvider
func (e *Error) HTTPStatus() int { return e.Base.HTTPStatus() }

// Kind 返回业务类别
func (e *Error) Kind() Kind {
	switch e.Base.Type {
	case xerrors.ErrInvalidArg, xerrors.ErrAlreadyExists:
		return KindValidation
	case xerrors.ErrNotFound:
		return KindNotFound
	case xerrors.ErrUnauthenticated:
		return KindUnauthorized
	case xerrors.ErrPermissionDenied:
		return KindForbidden
	default:
		return KindInternal
	}
}

// Stack 返回创建时捕获的调用栈
func (e *Error) Stack() []string { return e.Base.Stack }

// Validation 创建校验错误
func Validation(format string, args ...any) *Error {
	return newError(xerrors.ErrInvalidArg, http.StatusBadRequest, fmt.Sprintf(format, args...), nil)
}

// NotFound 创建资源不存在错误
func NotFound(entity string) *Error {
	return newError(xerrors.ErrNotFound, http.StatusNotFound, entity+" not found", nil)
}

// Unauthorized 创建未登录错误
func Unauthorized(msg string) *Error {
	return newError(xerrors.ErrUnauthenticated, http.StatusUnauthorized, msg, nil)
}

// Forbidden 创建无权限错误
func Forbidden(msg string) *Error {
	return newError(xerrors.ErrPermissionDenied, http.StatusForbidden, msg, nil)
}

// Wrap 包装底层错误为内部错误
func Wrap(cause error, msg string) *Error {
	return newError(xerrors.ErrInternal, http.StatusInternalServerError, msg, cause)
}

// KindOf 返回错误链中第一个业务错误的类别，非业务错误视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	var x *xerrors.Error
	if errors.As(err, &x) {
		return (&Error{Base: x}).Kind()
	}
	return KindInternal
}

// Is 判断错误链中是否存在指定类别的业务错误
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message 返回面向用户的错误信息
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Base.Message
	}
	var x *xerrors.Error
	if errors.As(err, &x) {
		return x.Message
	}
	return err.Error()
}

package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError 表示客户端必填项等校验失败，Message 可直接展示给用户
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// optional 去除首尾空白，空字符串返回 nil 以便写入 NULL
func optional(value string) *string {
	trimmed := trimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// validEmail 使用 validator 的 email 规则校验地址格式
func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

package util

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRegistered    = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("the email or password is not correct")
	ErrSessionClosed      = errors.New("practice session is already closed")
	ErrMailDisabled       = errors.New("mail delivery is not configured")
)

// ValidationError 缺少或非法的请求字段，映射为 400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 引用的资源不存在，映射为 404
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// GatewayError 语言模型或邮件等外部调用失败
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// StoreError 持久化失败
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsGateway(err error) bool {
	var g *GatewayError
	return errors.As(err, &g)
}

// IsClientError 是否可以把错误原文返回给调用方
func IsClientError(err error) bool {
	return IsValidation(err) ||
		errors.Is(err, ErrSessionClosed) ||
		errors.Is(err, ErrEmailRegistered) ||
		errors.Is(err, ErrInvalidCredentials)
}

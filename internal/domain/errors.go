package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoteNotFound 目标笔记不存在
	ErrNoteNotFound = errors.New("note not found")
	// ErrImageNotFound 目标图片不存在
	ErrImageNotFound = errors.New("image not found")
	// ErrCycle 移动会使笔记成为自身的后代
	ErrCycle = errors.New("cannot move a note to be its own descendant")
)

// ValidationError 输入校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError 创建校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError 存储层故障，Op 为失败的操作名
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

// NewStoreError 包装存储层错误，nil 原样返回
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError 判断是否为存储层错误
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

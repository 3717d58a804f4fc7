// Package rpc
package rpc

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNamespace 同一层级下出现重复的名称
	ErrDuplicateNamespace = errors.New("duplicate namespace")
	// ErrInvalidName 名称为空或者包含路径分隔符
	ErrInvalidName = errors.New("invalid router entry name")
	// ErrNilEntry 挂载了空的路由或者过程
	ErrNilEntry = errors.New("nil router entry")
	// ErrProcedureNotFound 路径没有指向任何过程
	ErrProcedureNotFound = errors.New("procedure not found")
	// ErrInputValidation 输入解析或者校验失败
	ErrInputValidation = errors.New("input validation failed")
	// ErrOutputType 过程返回值类型与调用方期望不一致
	ErrOutputType = errors.New("unexpected procedure output type")
	// ErrRefType 类型化引用与路由中的过程签名不一致
	ErrRefType = errors.New("procedure signature mismatch")
)

type DuplicateNamespaceError struct {
	Name string
}

func (e *DuplicateNamespaceError) Error() string {
	return fmt.Sprintf("duplicate namespace %q", e.Name)
}

func (e *DuplicateNamespaceError) Is(target error) bool { return target == ErrDuplicateNamespace }

type ProcedureNotFoundError struct {
	Path string
}

func (e *ProcedureNotFoundError) Error() string {
	return fmt.Sprintf("no procedure on path %q", e.Path)
}

func (e *ProcedureNotFoundError) Is(target error) bool { return target == ErrProcedureNotFound }

type InputValidationError struct {
	Path string
	Err  error
}

func (e *InputValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}
	return fmt.Sprintf("invalid input for %s: %v", e.Path, e.Err)
}

func (e *InputValidationError) Unwrap() error { return e.Err }

func (e *InputValidationError) Is(target error) bool { return target == ErrInputValidation }

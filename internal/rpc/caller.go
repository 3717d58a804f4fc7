// Package rpc
package rpc

import (
	"fmt"
	"reflect"
)

// Caller 绑定了上下文的路由视图, 用于进程内直接调用过程
type Caller[C any] struct {
	router *Router[C]
	ctx    C
}

type CallerFactory[C any] func(ctx C) *Caller[C]

func CreateCallerFactory[C any](router *Router[C]) CallerFactory[C] {
	return func(ctx C) *Caller[C] {
		return &Caller[C]{router: router, ctx: ctx}
	}
}

func (c *Caller[C]) Context() C { return c.ctx }

func (c *Caller[C]) Has(path string) bool {
	_, err := c.router.Lookup(path)
	return err == nil
}

func (c *Caller[C]) Paths() []string { return c.router.Paths() }

// Call 查找路径对应的过程并执行, 过程返回的错误不做任何包装
func (c *Caller[C]) Call(path string, input any) (any, error) {
	procedure, err := c.router.Lookup(path)
	if err != nil {
		return nil, err
	}
	return Execute(c.ctx, path, procedure, input)
}

// Execute 依次执行守卫, 输入解析校验和处理函数
func Execute[C any](ctx C, path string, procedure Procedure[C], input any) (any, error) {
	if err := procedure.Guard(ctx); err != nil {
		return nil, err
	}
	parsed, err := procedure.Parse(input)
	if err != nil {
		return nil, &InputValidationError{Path: path, Err: err}
	}
	return procedure.Invoke(ctx, parsed)
}

func Invoke[O, C any](caller *Caller[C], path string, input any) (*O, error) {
	out, err := caller.Call(path, input)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	typed, ok := out.(*O)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrOutputType, path, out)
	}
	return typed, nil
}

// Ref 指向某个叶子过程的类型化引用
type Ref[C, I, O any] struct {
	path string
}

func Bind[I, O, C any](router *Router[C], path string) (Ref[C, I, O], error) {
	procedure, err := router.Lookup(path)
	if err != nil {
		return Ref[C, I, O]{}, err
	}
	if procedure.InputType() != reflect.TypeFor[I]() || procedure.OutputType() != reflect.TypeFor[O]() {
		return Ref[C, I, O]{}, fmt.Errorf("%w: %s is %s -> %s", ErrRefType, path, procedure.InputType(), procedure.OutputType())
	}
	return Ref[C, I, O]{path: path}, nil
}

func MustBind[I, O, C any](router *Router[C], path string) Ref[C, I, O] {
	ref, err := Bind[I, O](router, path)
	if err != nil {
		panic(err)
	}
	return ref
}

func (r Ref[C, I, O]) Path() string { return r.path }

func (r Ref[C, I, O]) Call(caller *Caller[C], input *I) (*O, error) {
	return Invoke[O](caller, r.path, input)
}

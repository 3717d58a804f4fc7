// Package rpc
package rpc

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Empty 无输入或者无输出的过程使用的占位类型
type Empty struct{}

type Handler[C, I, O any] func(ctx C, input *I) (*O, error)

// Guard 在解析输入之前执行, 返回的错误原样交给调用方
type Guard[C any] func(ctx C) error

// Procedure 路由树上的叶子节点
type Procedure[C any] interface {
	Kind() Kind
	InputType() reflect.Type
	OutputType() reflect.Type
	Shape() *ProcedureShape
	Guard(ctx C) error
	Parse(input any) (any, error)
	Invoke(ctx C, input any) (any, error)
}

type Proc[C, I, O any] struct {
	kind    Kind
	handler Handler[C, I, O]
	guards  []Guard[C]
	shape   *ProcedureShape
}

func NewQuery[C, I, O any](handler Handler[C, I, O]) *Proc[C, I, O] {
	return newProc(Query, handler)
}

func NewMutation[C, I, O any](handler Handler[C, I, O]) *Proc[C, I, O] {
	return newProc(Mutation, handler)
}

func newProc[C, I, O any](kind Kind, handler Handler[C, I, O]) *Proc[C, I, O] {
	return &Proc[C, I, O]{
		kind:    kind,
		handler: handler,
		shape: &ProcedureShape{
			Kind:   kind,
			Input:  schemaOf(reflect.TypeFor[I]()),
			Output: schemaOf(reflect.TypeFor[O]()),
		},
	}
}

// Use 返回追加了守卫的新过程, 原过程不受影响
func (p *Proc[C, I, O]) Use(guards ...Guard[C]) *Proc[C, I, O] {
	proc := *p
	proc.guards = append(slices.Clone(p.guards), guards...)
	return &proc
}

func (p *Proc[C, I, O]) Kind() Kind { return p.kind }

func (p *Proc[C, I, O]) InputType() reflect.Type { return reflect.TypeFor[I]() }

func (p *Proc[C, I, O]) OutputType() reflect.Type { return reflect.TypeFor[O]() }

func (p *Proc[C, I, O]) Shape() *ProcedureShape { return p.shape }

func (p *Proc[C, I, O]) Guard(ctx C) error {
	for _, guard := range p.guards {
		if err := guard(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *Proc[C, I, O]) Parse(input any) (any, error) {
	in, err := decodeInput[I](input)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return in, nil
}

// Invoke 直接接受 Parse 的结果, 其他输入会先经过 Parse
func (p *Proc[C, I, O]) Invoke(ctx C, input any) (any, error) {
	in, ok := input.(*I)
	if !ok || in == nil {
		parsed, err := p.Parse(input)
		if err != nil {
			return nil, &InputValidationError{Err: err}
		}
		in = parsed.(*I)
	}
	out, err := p.handler(ctx, in)
	if out == nil {
		return nil, err
	}
	return out, err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type selfValidator interface {
	Validate() error
}

func decodeInput[I any](input any) (*I, error) {
	switch value := input.(type) {
	case nil:
		return new(I), nil
	case *I:
		if value == nil {
			return new(I), nil
		}
		return value, nil
	case I:
		return &value, nil
	case json.RawMessage:
		return unmarshalInput[I](value)
	case []byte:
		return unmarshalInput[I](value)
	case string:
		return unmarshalInput[I]([]byte(value))
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return unmarshalInput[I](data)
	}
}

func unmarshalInput[I any](data []byte) (*I, error) {
	in := new(I)
	if len(data) == 0 || string(data) == "null" {
		return in, nil
	}
	if err := json.Unmarshal(data, in); err != nil {
		return nil, err
	}
	return in, nil
}

func validateInput[I any](in *I) error {
	if reflect.TypeFor[I]().Kind() == reflect.Struct {
		if err := validate.Struct(in); err != nil {
			return err
		}
	}
	if v, ok := any(in).(selfValidator); ok {
		return v.Validate()
	}
	return nil
}

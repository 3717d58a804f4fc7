// Package procedure
package procedure

import (
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
)

type (
	Router        = rpc.Router[*Context]
	Entry         = rpc.Entry[*Context]
	Caller        = rpc.Caller[*Context]
	CallerFactory = rpc.CallerFactory[*Context]
	Ref[I, O any] = rpc.Ref[*Context, I, O]
)

// Authed 拒绝匿名调用和刷新令牌
func Authed(ctx *Context) error {
	if ctx.Claims != nil && ctx.Claims.FlushToken {
		return &service.ErrInvalidOrExpiredJwt
	}
	if !ctx.Authenticated() {
		return &service.ErrUnauthorized
	}
	return nil
}

// RequireRefresh 只接受刷新令牌
func RequireRefresh(ctx *Context) error {
	if ctx.Claims == nil || ctx.Claims.Uid == 0 {
		return &service.ErrUnauthorized
	}
	if !ctx.Claims.FlushToken {
		return &service.ErrInvalidOrExpiredJwt
	}
	return nil
}

func PublicQuery[I, O any](handler rpc.Handler[*Context, I, O]) *rpc.Proc[*Context, I, O] {
	return rpc.NewQuery(handler)
}

func PublicMutation[I, O any](handler rpc.Handler[*Context, I, O]) *rpc.Proc[*Context, I, O] {
	return rpc.NewMutation(handler)
}

func ProtectedQuery[I, O any](handler rpc.Handler[*Context, I, O]) *rpc.Proc[*Context, I, O] {
	return rpc.NewQuery(handler).Use(Authed)
}

func ProtectedMutation[I, O any](handler rpc.Handler[*Context, I, O]) *rpc.Proc[*Context, I, O] {
	return rpc.NewMutation(handler).Use(Authed)
}

func Handle(name string, proc rpc.Procedure[*Context]) Entry {
	return rpc.Handle(name, proc)
}

func Mount(name string, router *Router) Entry {
	return rpc.Mount(name, router)
}

func NewRouter(entries ...Entry) (*Router, error) {
	return rpc.NewRouter(entries...)
}

type jwtCarrier interface {
	SetJwtHeader(value service.JwtHeader)
}

type clientCarrier interface {
	SetClientHeader(value service.ClientHeader)
}

// Forward 把业务服务方法适配为过程处理函数, 调用前将令牌与来源信息写入请求
func Forward[I, O any](fn func(req *I) (*O, error)) rpc.Handler[*Context, I, O] {
	return func(ctx *Context, input *I) (*O, error) {
		if carrier, ok := any(input).(jwtCarrier); ok {
			carrier.SetJwtHeader(ctx.JwtHeader())
		}
		if carrier, ok := any(input).(clientCarrier); ok {
			carrier.SetClientHeader(ctx.ClientHeader())
		}
		return fn(input)
	}
}

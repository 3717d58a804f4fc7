// Package procedure 应用过程共享的请求上下文与构造函数
package procedure

import (
	"context"

	"github.com/google/uuid"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
)

// Context 单次调用的上下文, Claims 为 nil 表示匿名调用
type Context struct {
	context.Context
	RequestId string
	Claims    *service.Claims
	Ip        string
	UserAgent string
}

func NewContext(ctx context.Context, ip, userAgent string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context:   ctx,
		RequestId: uuid.NewString(),
		Ip:        ip,
		UserAgent: userAgent,
	}
}

// WithClaims 返回携带令牌声明的副本
func (ctx *Context) WithClaims(claims *service.Claims) *Context {
	next := *ctx
	next.Claims = claims
	return &next
}

// Authenticated 只有访问令牌视为已登录, 刷新令牌只能用于换取新令牌
func (ctx *Context) Authenticated() bool {
	return ctx.Claims != nil && ctx.Claims.Uid != 0 && !ctx.Claims.FlushToken
}

// JwtHeader 匿名调用或携带刷新令牌时返回零值
func (ctx *Context) JwtHeader() service.JwtHeader {
	if !ctx.Authenticated() {
		return service.JwtHeader{}
	}
	return service.JwtHeader{Uid: ctx.Claims.Uid, Permission: ctx.Claims.Permission}
}

func (ctx *Context) ClientHeader() service.ClientHeader {
	return service.ClientHeader{Ip: ctx.Ip, UserAgent: ctx.UserAgent}
}

package controller

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/http_server/middleware"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

// ProcedureContext 由请求构造过程上下文, 带有合法令牌时附加声明
func ProcedureContext(ctx echo.Context) *procedure.Context {
	request := ctx.Request()
	result := procedure.NewContext(request.Context(), ctx.RealIP(), request.UserAgent())
	if requestId := ctx.Response().Header().Get(echo.HeaderXRequestID); requestId != "" {
		result.RequestId = requestId
	}
	if token, ok := ctx.Get(middleware.ClaimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*service.Claims); ok {
			return result.WithClaims(claims)
		}
	}
	return result
}

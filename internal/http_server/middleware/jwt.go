package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ClaimsContextKey 校验通过的令牌在 echo 上下文中的键
const ClaimsContextKey = "user"

// JWTMiddleware 校验 Authorization 头中的令牌, 没有令牌时按匿名请求继续处理
func JWTMiddleware(config *c.JWTConfig) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ",
		ContextKey:  ClaimsContextKey,
		ParseTokenFunc: func(_ echo.Context, auth string) (interface{}, error) {
			claims, err := service.ParseClaims(config, auth)
			if err != nil {
				return nil, err
			}
			return &jwt.Token{Claims: claims, Valid: true}, nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			switch {
			case errors.Is(err, echojwt.ErrJWTMissing):
				return nil
			case errors.Is(err, echojwt.ErrJWTInvalid):
				return &service.ErrInvalidOrExpiredJwt
			default:
				return &service.ErrMissingOrMalformedJwt
			}
		},
		ContinueOnIgnoredError: true,
	})
}

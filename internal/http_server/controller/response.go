// Package controller
package controller

import (
	"errors"
	"net/http"

	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
	"github.com/labstack/echo/v4"
)

// statusOf 把过程返回的错误转换为业务状态, 未知错误统一视为服务器内部错误
func statusOf(logger log.LoggerInterface, err error) *ApiStatus {
	var status *ApiStatus
	var httpError *echo.HTTPError
	switch {
	case errors.As(err, &status):
		return status
	case errors.Is(err, rpc.ErrProcedureNotFound):
		return &ErrProcedureNotFound
	case errors.Is(err, rpc.ErrInputValidation):
		return &ApiStatus{StatusName: ErrInputInvalid.StatusName, Description: err.Error(), HttpCode: ErrInputInvalid.HttpCode}
	case errors.As(err, &httpError):
		return &ApiStatus{
			StatusName:  "HTTP_ERROR",
			Description: http.StatusText(httpError.Code),
			HttpCode:    HttpCode(httpError.Code),
		}
	default:
		logger.ErrorF("Unexpected error: %v", err)
		return &ErrServerInternal
	}
}

func writeResponse[T any](ctx echo.Context, res *ApiResponse[T]) error {
	return ctx.JSON(res.HttpCode, res)
}

func writeData[T any](ctx echo.Context, data *T) error {
	return writeResponse(ctx, NewApiResponse(&SuccessCall, Unsatisfied, data))
}

func writeError(logger log.LoggerInterface, ctx echo.Context, err error) error {
	return writeResponse(ctx, NewApiResponse[any](statusOf(logger, err), Unsatisfied, nil))
}

// ErrorHandler 替换 echo 默认的错误处理, 保持统一的响应格式
func ErrorHandler(logger log.LoggerInterface) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}
		if writeErr := writeError(logger, ctx, err); writeErr != nil {
			logger.ErrorF("Error writing error response: %v", writeErr)
		}
	}
}

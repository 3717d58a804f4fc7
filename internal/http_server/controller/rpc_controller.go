package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/half-nothing/simple-schedule/internal/api"
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/http_server/middleware"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/half-nothing/simple-schedule/internal/rpc"
	"github.com/labstack/echo/v4"
)

const batchSeparator = ","

type RpcControllerInterface interface {
	GetShape(ctx echo.Context) error
	Query(ctx echo.Context) error
	Mutation(ctx echo.Context) error
}

// RpcController 把应用路由暴露为 HTTP 接口, 查询使用 GET, 变更使用 POST
// 限流按过程计数, 批量调用的每一项都会占用对应过程的名额
type RpcController struct {
	logger       log.LoggerInterface
	router       *api.AppRouter
	metrics      *middleware.Metrics
	limiter      *middleware.SlidingWindowLimiter
	maxBatchSize int
}

func NewRpcController(
	logger log.LoggerInterface,
	router *api.AppRouter,
	metrics *middleware.Metrics,
	limiter *middleware.SlidingWindowLimiter,
	maxBatchSize int,
) *RpcController {
	return &RpcController{
		logger:       logger,
		router:       router,
		metrics:      metrics,
		limiter:      limiter,
		maxBatchSize: maxBatchSize,
	}
}

// BatchResult 批量调用中单个过程的结果
type BatchResult struct {
	Status int `json:"status"`
	*ApiResponse[any]
}

func (controller *RpcController) GetShape(ctx echo.Context) error {
	return writeData(ctx, controller.router.Shape())
}

func (controller *RpcController) Query(ctx echo.Context) error {
	var input json.RawMessage
	if raw := ctx.QueryParam("input"); raw != "" {
		input = json.RawMessage(raw)
	}
	return controller.handle(ctx, rpc.Query, input)
}

func (controller *RpcController) Mutation(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		controller.logger.WarnF("Error reading request body: %v", err)
		return writeError(controller.logger, ctx, &ErrIllegalParam)
	}
	return controller.handle(ctx, rpc.Mutation, body)
}

func (controller *RpcController) handle(ctx echo.Context, kind rpc.Kind, input json.RawMessage) error {
	path := ctx.Param("path")
	caller := controller.router.CreateCaller(ProcedureContext(ctx))
	if !isBatch(ctx) {
		return writeResponse(ctx, controller.call(caller, kind, path, input))
	}

	paths := strings.Split(path, batchSeparator)
	if len(paths) > controller.maxBatchSize {
		return writeResponse(ctx, invalidInput(fmt.Sprintf("batch size %d exceeds limit %d", len(paths), controller.maxBatchSize)))
	}
	inputs := make(map[string]json.RawMessage)
	if len(input) > 0 {
		if err := json.Unmarshal(input, &inputs); err != nil {
			return writeResponse(ctx, invalidInput("batch input must be an object keyed by index"))
		}
	}
	results := make([]BatchResult, 0, len(paths))
	for index, item := range paths {
		res := controller.call(caller, kind, item, inputs[strconv.Itoa(index)])
		results = append(results, BatchResult{Status: res.HttpCode, ApiResponse: res})
	}
	return writeData(ctx, &results)
}

func invalidInput(description string) *ApiResponse[any] {
	return NewApiResponse[any](&ApiStatus{
		StatusName:  ErrInputInvalid.StatusName,
		Description: description,
		HttpCode:    ErrInputInvalid.HttpCode,
	}, Unsatisfied, nil)
}

// call 执行单个过程, 过程类型与请求方法不符时返回 METHOD_NOT_SUPPORTED
func (controller *RpcController) call(caller *procedure.Caller, kind rpc.Kind, path string, input json.RawMessage) *ApiResponse[any] {
	if controller.limiter != nil && !controller.limiter.Allow(middleware.ProcedureKey(caller.Context().Ip, path)) {
		return NewApiResponse[any](&ErrRateLimited, Unsatisfied, nil)
	}
	start := time.Now()
	var output any
	proc, err := controller.router.Lookup(path)
	if err == nil {
		if proc.Kind() != kind {
			err = &ErrMethodNotSupported
		} else {
			output, err = rpc.Execute(caller.Context(), path, proc, rawInput(input))
		}
	}

	var res *ApiResponse[any]
	if err != nil {
		res = NewApiResponse[any](statusOf(controller.logger, err), Unsatisfied, nil)
	} else {
		res = NewApiResponse(&SuccessCall, Unsatisfied, &output)
	}
	if controller.metrics != nil {
		controller.metrics.ObserveCall(path, proc != nil, res.Code, time.Since(start))
	}
	return res
}

func rawInput(input json.RawMessage) any {
	if len(input) == 0 {
		return nil
	}
	return input
}

func isBatch(ctx echo.Context) bool {
	batch := ctx.QueryParam("batch")
	return batch != "" && batch != "0" && batch != "false"
}

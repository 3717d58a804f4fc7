package controller

import (
	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type FileControllerInterface interface {
	UploadImages(ctx echo.Context) error
}

type FileController struct {
	logger       log.LoggerInterface
	storeService StoreServiceInterface
}

func NewFileController(logger log.LoggerInterface, storeService StoreServiceInterface) *FileController {
	return &FileController{logger: logger, storeService: storeService}
}

func (controller *FileController) UploadImages(ctx echo.Context) error {
	procedureCtx := ProcedureContext(ctx)
	if err := procedure.Authed(procedureCtx); err != nil {
		return writeError(controller.logger, ctx, err)
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return writeError(controller.logger, ctx, &ErrLackParam)
	}
	data := &RequestUploadFile{
		JwtHeader:    procedureCtx.JwtHeader(),
		ClientHeader: procedureCtx.ClientHeader(),
		File:         file,
	}
	res, err := controller.storeService.SaveUploadImages(data)
	if err != nil {
		return writeError(controller.logger, ctx, err)
	}
	return writeResponse(ctx, NewApiResponse(&SuccessUploadFile, Unsatisfied, res))
}

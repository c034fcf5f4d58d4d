package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/dto"
	"fixtrack/internal/services"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/utils"
)

const defaultTechListLimit = 10

// TechController рабочее место техника: свои заявки, статусы, вложения и технические комментарии.
type TechController struct {
	orderService      services.OrderServiceInterface
	commentService    services.OrderCommentServiceInterface
	attachmentService services.AttachmentServiceInterface
	logger            *zap.Logger
}

func NewTechController(
	orderService services.OrderServiceInterface,
	commentService services.OrderCommentServiceInterface,
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) *TechController {
	return &TechController{
		orderService:      orderService,
		commentService:    commentService,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

func (c *TechController) AssignedOrders(ctx echo.Context) error {
	return c.list(ctx, true)
}

func (c *TechController) AllOrders(ctx echo.Context) error {
	return c.list(ctx, false)
}

func (c *TechController) list(ctx echo.Context, onlyMine bool) error {
	query := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), defaultTechListLimit, services.OrderFilterKeys...)
	filter, err := services.BuildOrderFilter(query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	orders, total, err := c.orderService.ListForTech(ctx.Request().Context(), onlyMine, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, orders, query, total, "Заявки успешно получены")
}

func (c *TechController) UpdateStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки обновлён", http.StatusOK)
}

func (c *TechController) SelfAssign(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.orderService.SelfAssign(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка взята в работу", http.StatusOK)
}

func (c *TechController) Reassign(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.orderService.Reassign(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка переназначена", http.StatusOK)
}

// UploadAttachment принимает multipart-поле file.
func (c *TechController) UploadAttachment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Файл не загружен"), c.logger)
	}
	src, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInternalError(err, nil), c.logger)
	}
	defer src.Close()

	res, err := c.attachmentService.Add(ctx.Request().Context(), id, services.UploadedFile{
		Content: src,
		Name:    header.Filename,
		Size:    header.Size,
	})
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Файл загружен", http.StatusCreated)
}

func (c *TechController) AddComment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.CreateCommentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат комментария"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.commentService.AddTechComment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Комментарий добавлен", http.StatusCreated)
}

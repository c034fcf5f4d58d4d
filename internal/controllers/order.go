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

const defaultOrderListLimit = 20

type OrderController struct {
	orderService   services.OrderServiceInterface
	commentService services.OrderCommentServiceInterface
	logger         *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	commentService services.OrderCommentServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService:   orderService,
		commentService: commentService,
		logger:         logger,
	}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	query := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), defaultOrderListLimit, services.OrderFilterKeys...)
	filter, err := services.BuildOrderFilter(query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	orders, total, err := c.orderService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, orders, query, total, "Заявки успешно получены")
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	var payload dto.CreateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("CreateOrder: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат данных заявки"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.orderService.Detail(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка найдена", http.StatusOK)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат данных заявки"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateFields(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка обновлена", http.StatusOK)
}

func (c *OrderController) AssignTechnician(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.AssignTechnicianDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.AssignTechnician(ctx.Request().Context(), id, payload.TechnicianID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Техник назначен", http.StatusOK)
}

func (c *OrderController) CloseOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.CloseOrderDTO
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный формат данных"), c.logger)
		}
	}

	res, err := c.orderService.Close(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка закрыта", http.StatusOK)
}

func (c *OrderController) AddComment(ctx echo.Context) error {
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

	res, err := c.commentService.AddComment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Комментарий добавлен", http.StatusCreated)
}

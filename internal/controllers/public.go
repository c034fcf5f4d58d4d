package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/services"
	"fixtrack/pkg/utils"
)

// PublicController анонимный доступ клиента по номеру заявки и ключу.
type PublicController struct {
	publicService services.PublicServiceInterface
	logger        *zap.Logger
}

func NewPublicController(publicService services.PublicServiceInterface, logger *zap.Logger) *PublicController {
	return &PublicController{publicService: publicService, logger: logger}
}

func (c *PublicController) GetOrder(ctx echo.Context) error {
	res, err := c.publicService.Lookup(ctx.Request().Context(), ctx.Param("ticket_code"), ctx.Param("security_key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка найдена", http.StatusOK)
}

func (c *PublicController) GetUpdates(ctx echo.Context) error {
	res, err := c.publicService.Updates(ctx.Request().Context(), ctx.Param("ticket_code"), ctx.Param("security_key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "История статусов получена", http.StatusOK)
}

func (c *PublicController) GetComments(ctx echo.Context) error {
	res, err := c.publicService.Comments(ctx.Request().Context(), ctx.Param("ticket_code"), ctx.Param("security_key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Комментарии получены", http.StatusOK)
}

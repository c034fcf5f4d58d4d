package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	"fixtrack/internal/services"
	"fixtrack/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// parseFilters общие фильтры отчётов; пагинация к отчётам не применяется.
func (c *ReportController) parseFilters(ctx echo.Context) (entities.OrderFilter, error) {
	query := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), 0, services.OrderFilterKeys...)
	filter, err := services.BuildOrderFilter(query)
	if err != nil {
		return filter, err
	}
	filter.Limit, filter.Offset = 0, 0
	return filter, nil
}

func (c *ReportController) StatusDistribution(ctx echo.Context) error {
	filter, err := c.parseFilters(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.reportService.StatusDistribution(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отчёт сформирован", http.StatusOK)
}

func (c *ReportController) TechnicianPerformance(ctx echo.Context) error {
	filter, err := c.parseFilters(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.reportService.TechnicianPerformance(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отчёт сформирован", http.StatusOK)
}

func (c *ReportController) CommonProblems(ctx echo.Context) error {
	filter, err := c.parseFilters(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	res, err := c.reportService.CommonProblems(ctx.Request().Context(), filter, limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отчёт сформирован", http.StatusOK)
}

func (c *ReportController) ExportOrders(ctx echo.Context) error {
	filter, err := c.parseFilters(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	format := ctx.QueryParam("format")
	if format == "" {
		format = "excel"
	}

	res, err := c.reportService.ExportOrders(ctx.Request().Context(), format, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, res.FileName))
	return ctx.Blob(http.StatusOK, res.ContentType, res.Content)
}

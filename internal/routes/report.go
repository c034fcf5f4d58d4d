package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/controllers"
	"fixtrack/internal/services"
	"fixtrack/pkg/middleware"
)

func runReportRouter(
	secureGroup *echo.Group,
	reportService services.ReportServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	reportController := controllers.NewReportController(reportService, logger)

	reports := secureGroup.Group("/reports")
	reports.GET("/status-distribution", reportController.StatusDistribution, authMW.Authorize(authz.ReportsStatus))
	reports.GET("/technician-performance", reportController.TechnicianPerformance, authMW.Authorize(authz.ReportsAdvanced))
	reports.GET("/common-problems", reportController.CommonProblems, authMW.Authorize(authz.ReportsAdvanced))
	reports.GET("/export-orders", reportController.ExportOrders, authMW.Authorize(authz.ReportsExport))
}

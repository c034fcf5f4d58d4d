package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/controllers"
	"fixtrack/internal/services"
)

func runAuthRouter(api, secureGroup *echo.Group, authService services.AuthServiceInterface, logger *zap.Logger) {
	authController := controllers.NewAuthController(authService, logger)

	api.POST("/auth/login", authController.Login)
	secureGroup.PUT("/auth/change-password", authController.ChangePassword)
	secureGroup.GET("/auth/profile", authController.Profile)
}

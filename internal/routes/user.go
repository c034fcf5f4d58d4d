package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/controllers"
	"fixtrack/internal/services"
	"fixtrack/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, userService services.UserServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	userController := controllers.NewUserController(userService, logger)

	users := secureGroup.Group("/admin/users")
	users.GET("", userController.GetUsers, authMW.Authorize(authz.UsersView))
	users.POST("", userController.CreateUser, authMW.Authorize(authz.UsersManage))
	users.GET("/:id", userController.FindUser, authMW.Authorize(authz.UsersManage))
	users.PUT("/:id", userController.UpdateUser, authMW.Authorize(authz.UsersManage))
	users.PUT("/:id/activate", userController.SetActive, authMW.Authorize(authz.UsersManage))
	users.POST("/:id/reset-password", userController.ResetPassword, authMW.Authorize(authz.UsersManage))
}

func runClientRouter(secureGroup *echo.Group, clientService services.ClientServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	clientController := controllers.NewClientController(clientService, logger)

	clients := secureGroup.Group("/clients", authMW.Authorize(authz.ClientsView))
	clients.GET("", clientController.GetClients)
	clients.GET("/check-duplicate", clientController.CheckDuplicate)
	clients.GET("/:id", clientController.FindClient)
	clients.POST("", clientController.CreateClient, authMW.Authorize(authz.ClientsManage))
	clients.PUT("/:id", clientController.UpdateClient, authMW.Authorize(authz.ClientsManage))
}

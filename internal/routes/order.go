package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/controllers"
	"fixtrack/internal/services"
	"fixtrack/pkg/middleware"
)

func runOrderRouter(
	secureGroup *echo.Group,
	orderService services.OrderServiceInterface,
	commentService services.OrderCommentServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	orderCtrl := controllers.NewOrderController(orderService, commentService, logger)

	orders := secureGroup.Group("/orders")
	orders.GET("", orderCtrl.GetOrders, authMW.Authorize(authz.OrdersList))
	orders.POST("", orderCtrl.CreateOrder, authMW.Authorize(authz.OrdersCreate))
	// карточку видит и назначенный техник, владение проверяет сервис
	orders.GET("/:id", orderCtrl.FindOrder, authMW.Authorize(authz.OrdersView))
	orders.PUT("/:id", orderCtrl.UpdateOrder, authMW.Authorize(authz.OrdersUpdate))
	orders.PUT("/:id/assign", orderCtrl.AssignTechnician, authMW.Authorize(authz.OrdersAssign))
	orders.PUT("/:id/close", orderCtrl.CloseOrder, authMW.Authorize(authz.OrdersClose))
	orders.POST("/:id/comments", orderCtrl.AddComment,
		authMW.AuthorizeAny(authz.CommentsClientCreate, authz.CommentsTechnicalCreate, authz.CommentsStatusUpdateCreate))
}

func runTechRouter(
	secureGroup *echo.Group,
	orderService services.OrderServiceInterface,
	commentService services.OrderCommentServiceInterface,
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	techCtrl := controllers.NewTechController(orderService, commentService, attachmentService, logger)

	tech := secureGroup.Group("/tech", authMW.Authorize(authz.OrdersTechView))
	tech.GET("/assigned-orders", techCtrl.AssignedOrders)
	tech.GET("/all-orders", techCtrl.AllOrders)
	tech.PUT("/orders/:id/status", techCtrl.UpdateStatus, authMW.Authorize(authz.OrdersStatusUpdate))
	tech.PUT("/orders/:id/self-assign", techCtrl.SelfAssign, authMW.Authorize(authz.OrdersSelfAssign))
	tech.PUT("/orders/:id/reassign", techCtrl.Reassign, authMW.Authorize(authz.OrdersReassign))
	tech.POST("/orders/:id/attachments", techCtrl.UploadAttachment, authMW.Authorize(authz.AttachmentsCreate))
	tech.POST("/orders/:id/comments", techCtrl.AddComment,
		authMW.AuthorizeAny(authz.CommentsTechnicalCreate, authz.CommentsStatusUpdateCreate))
}

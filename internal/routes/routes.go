package routes

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/controllers"
	"fixtrack/internal/repositories"
	"fixtrack/internal/services"
	"fixtrack/pkg/config"
	"fixtrack/pkg/eventbus"
	"fixtrack/pkg/filestorage"
	"fixtrack/pkg/middleware"
	"fixtrack/pkg/service"
	"fixtrack/pkg/utils"
)

type Loggers struct {
	Main   *zap.Logger
	Auth   *zap.Logger
	Order  *zap.Logger
	User   *zap.Logger
	Report *zap.Logger
}

// Deps внешние зависимости, которые создаются в main.
type Deps struct {
	DB          *pgxpool.Pool
	Cache       repositories.CacheRepositoryInterface
	JWT         service.JWTService
	Bus         *eventbus.Bus
	FileStorage filestorage.FileStorageInterface
	Hasher      utils.PasswordHasher
}

const changePasswordPath = "/api/auth/change-password"

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	api.GET("", health)
	txManager := repositories.NewTxManager(deps.DB)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(deps.DB, loggers.User)
	clientRepo := repositories.NewClientRepository(deps.DB, loggers.Main)
	orderRepo := repositories.NewOrderRepository(deps.DB, loggers.Order)
	updateRepo := repositories.NewOrderUpdateRepository(deps.DB, loggers.Order)
	commentRepo := repositories.NewOrderCommentRepository(deps.DB, loggers.Order)
	attachRepo := repositories.NewAttachmentRepository(deps.DB, loggers.Order)
	reportRepo := repositories.NewReportRepository(deps.DB, loggers.Report)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(userRepo, deps.Hasher, deps.JWT, cfg.PasswordPolicy, loggers.Auth)
	userService := services.NewUserService(userRepo, deps.Hasher, cfg.PasswordPolicy, loggers.User)
	clientService := services.NewClientService(clientRepo, orderRepo, loggers.Main)
	orderService := services.NewOrderService(
		txManager, orderRepo, updateRepo, commentRepo, attachRepo,
		clientRepo, userRepo, deps.FileStorage, deps.Bus, loggers.Order,
	)
	commentService := services.NewOrderCommentService(orderRepo, commentRepo, loggers.Order)
	attachmentService := services.NewAttachmentService(orderRepo, attachRepo, deps.FileStorage, cfg.Upload, loggers.Order)
	publicService := services.NewPublicService(orderRepo, updateRepo, commentRepo, loggers.Main)
	reportService := services.NewReportService(reportRepo, deps.Cache, cfg.Report, loggers.Report)

	// --- 3. РОУТЕРЫ ---
	authMW := middleware.NewAuthMiddleware(authService, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth, authMW.RequirePasswordChanged(changePasswordPath))

	runPublicRouter(api, publicService, loggers.Main)
	runAuthRouter(api, secureGroup, authService, loggers.Auth)
	runUserRouter(secureGroup, userService, loggers.User, authMW)
	runClientRouter(secureGroup, clientService, loggers.Main, authMW)
	runOrderRouter(secureGroup, orderService, commentService, loggers.Order, authMW)
	runTechRouter(secureGroup, orderService, commentService, attachmentService, loggers.Order, authMW)
	runReportRouter(secureGroup, reportService, loggers.Report, authMW)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
}

func health(c echo.Context) error {
	return utils.SuccessResponse(c, map[string]string{"service": "fixtrack", "status": "ok"}, "Сервис работает", http.StatusOK)
}

func runPublicRouter(api *echo.Group, publicService services.PublicServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewPublicController(publicService, logger)

	public := api.Group("/public/order")
	public.GET("/:ticket_code/:security_key", ctrl.GetOrder)
	public.GET("/updates/:ticket_code/:security_key", ctrl.GetUpdates)
	public.GET("/comments/:ticket_code/:security_key", ctrl.GetComments)
}

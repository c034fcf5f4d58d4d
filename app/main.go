// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fixtrack/internal/listeners"
	"fixtrack/internal/repositories"
	"fixtrack/internal/routes"
	"fixtrack/pkg/config"
	"fixtrack/pkg/constants"
	"fixtrack/pkg/customvalidator"
	"fixtrack/pkg/database/migrations"
	"fixtrack/pkg/database/postgresql"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/eventbus"
	"fixtrack/pkg/filestorage"
	applogger "fixtrack/pkg/logger"
	"fixtrack/pkg/middleware"
	"fixtrack/pkg/service"
	"fixtrack/pkg/utils"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))
	e.Use(middleware.RequestLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 1. База данных и миграции
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		cancel()
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Up(ctx, cfg.Postgres.DSN); err != nil {
		cancel()
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	// 2. Redis для кэша отчётов
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		cancel()
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	cancel()
	defer redisClient.Close()
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// 3. Хранилище вложений
	absPath, err := filepath.Abs(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("не удалось получить абсолютный путь к uploads", zap.Error(err))
	}
	fileStorage, err := filestorage.NewLocalFileStorage(absPath, cfg.Upload.URLPrefix)
	if err != nil {
		logger.Fatal("не удалось подготовить хранилище файлов", zap.Error(err))
	}
	e.Static(strings.TrimSuffix(constants.UploadURLPrefix, "/"), absPath)

	// 4. События и сервисы
	bus := eventbus.New(logger.Named("eventbus"))
	listeners.NewReportCacheListener(cacheRepo, logger.Named("listeners")).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger.Named("jwt"))

	loggers := &routes.Loggers{
		Main:   logger,
		Auth:   logger.Named("auth"),
		Order:  logger.Named("orders"),
		User:   logger.Named("users"),
		Report: logger.Named("reports"),
	}
	routes.InitRouter(e, routes.Deps{
		DB:          dbConn,
		Cache:       cacheRepo,
		JWT:         jwtSvc,
		Bus:         bus,
		FileStorage: fileStorage,
		Hasher:      utils.NewBcryptHasher(bcrypt.DefaultCost),
	}, loggers, cfg)

	// 5. Запуск и корректная остановка
	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка сервера...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	bus.Wait()
}

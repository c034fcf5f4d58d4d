package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fixtrack/internal/repositories"
	"fixtrack/pkg/config"
	"fixtrack/pkg/database/migrations"
	"fixtrack/pkg/database/postgresql"
	applogger "fixtrack/pkg/logger"
	"fixtrack/pkg/utils"
	"fixtrack/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runAdmin := flag.Bool("admin", false, "Создать первого администратора (логин и пароль из SEED_ADMIN_*)")
	runDemo := flag.Bool("demo", false, "Создать демо-сотрудников: секретаря и двух техников")
	demoPassword := flag.String("demo-password", "Demo@1234", "Пароль демо-сотрудников")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -admin -demo)")

	flag.Parse()

	if !*runAdmin && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if err := migrations.Up(ctx, cfg.Postgres.DSN); err != nil {
		log.Fatalf("❌ Не удалось применить миграции: %v", err)
	}

	userRepo := repositories.NewUserRepository(dbPool, logger.With(zap.String("component", "seeder")))
	hasher := utils.NewBcryptHasher(bcrypt.DefaultCost)

	log.Println("======================================================")

	if *runAll || *runAdmin {
		if _, err := seeders.SeedAdmin(ctx, userRepo, hasher, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
			log.Fatalf("❌ Ошибка создания администратора: %v", err)
		}
		log.Println("======================================================")
	}

	if *runAll || *runDemo {
		if _, err := seeders.SeedDemoStaff(ctx, userRepo, hasher, *demoPassword); err != nil {
			log.Fatalf("❌ Ошибка создания демо-сотрудников: %v", err)
		}
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}

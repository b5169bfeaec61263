package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"asset-system/pkg/config"
	"asset-system/pkg/database/postgresql"
	"asset-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCore := flag.Bool("core", false, "Применить миграции схемы")
	runStaff := flag.Bool("staff", false, "Создать администратора и демо-сотрудников")
	runAssets := flag.Bool("assets", false, "Зарегистрировать демо-активы")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -core -staff -assets)")

	flag.Parse()

	if !*runCore && !*runStaff && !*runAssets && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -core")
		log.Println("  go run ./seeders/cmd/seed -staff -assets")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := zap.NewNop()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)

	if *runAll || *runCore {
		seeders.SeedCore(cfg, logger)
		log.Println("======================================================")
	}

	if !*runAll && !*runStaff && !*runAssets {
		return
	}

	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if *runAll || *runStaff {
		seeders.SeedStaff(dbPool, cfg, logger)
		log.Println("======================================================")
	}

	if *runAll || *runAssets {
		seeders.SeedAssets(dbPool, logger)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}

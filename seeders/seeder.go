package seeders

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/repositories"
	"asset-system/internal/services"
	"asset-system/pkg/config"
	"asset-system/pkg/database/postgresql"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/eventbus"
	"asset-system/pkg/types"
)

// SeedCore применяет миграции схемы.
func SeedCore(cfg *config.Config, logger *zap.Logger) {
	log.Println("▶️  Применение миграций...")
	if err := postgresql.Migrate(cfg.Postgres.DSN, logger); err != nil {
		log.Fatalf("❌ Ошибка применения миграций: %v", err)
	}
	log.Println("✅ Миграции применены!")
}

// SeedStaff создаёт администратора из конфига и демо-сотрудников. Существующие email пропускаются.
func SeedStaff(db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) {
	ctx := context.Background()
	log.Println("▶️  Наполнение сотрудников...")

	svc := services.NewStaffService(repositories.NewStaffRepository(db, logger), logger)
	all := append([]dto.CreateStaffDTO{{
		FullName:   "Администратор",
		Email:      cfg.Seed.AdminEmail,
		Position:   "Администратор системы",
		Department: "administration",
		Password:   cfg.Seed.AdminPassword,
	}}, staffSeed...)

	for _, d := range all {
		_, err := svc.Create(ctx, d)
		switch {
		case err == nil:
			log.Printf("  - Создан сотрудник %s", d.Email)
		case errors.Is(err, apperrors.ErrConflict):
			log.Printf("  - Сотрудник %s уже существует. Пропускаем.", d.Email)
		default:
			log.Fatalf("❌ Ошибка создания сотрудника %s: %v", d.Email, err)
		}
	}
	log.Println("✅ Сотрудники готовы!")
}

// SeedAssets регистрирует демо-активы, если реестр пуст.
func SeedAssets(db *pgxpool.Pool, logger *zap.Logger) {
	ctx := context.Background()
	log.Println("▶️  Наполнение реестра активов...")

	assetRepo := repositories.NewAssetRepository(db, logger)
	_, total, err := assetRepo.GetAll(ctx, types.Filter{Limit: 1})
	if err != nil {
		log.Fatalf("❌ Ошибка чтения реестра активов: %v", err)
	}
	if total > 0 {
		log.Printf("  - В реестре уже %d активов. Пропускаем.", total)
		return
	}

	bus := eventbus.New(logger)
	svc := services.NewAssetService(
		assetRepo,
		repositories.NewDepreciationSnapshotRepository(db),
		repositories.NewTxManager(db),
		bus,
		logger,
	)
	for _, d := range assetSeed {
		res, err := svc.Register(ctx, d)
		if err != nil {
			log.Fatalf("❌ Ошибка регистрации актива %q: %v", d.Name, err)
		}
		log.Printf("  - %s: %s", res.Code, d.Name)
	}
	bus.Wait()
	log.Println("✅ Реестр активов наполнен!")
}

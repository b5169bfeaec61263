package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"asset-system/internal/entities"
	"asset-system/internal/repositories"
	"asset-system/pkg/constants"
	"asset-system/pkg/depreciation"
	"asset-system/pkg/metrics"
)

type DepreciationSnapshotServiceInterface interface {
	TakeSnapshots(ctx context.Context, date time.Time) (int, error)
}

type DepreciationSnapshotService struct {
	assetRepo    repositories.AssetRepositoryInterface
	snapshotRepo repositories.DepreciationSnapshotRepositoryInterface
	logger       *zap.Logger
}

func NewDepreciationSnapshotService(
	assetRepo repositories.AssetRepositoryInterface,
	snapshotRepo repositories.DepreciationSnapshotRepositoryInterface,
	logger *zap.Logger,
) *DepreciationSnapshotService {
	return &DepreciationSnapshotService{assetRepo: assetRepo, snapshotRepo: snapshotRepo, logger: logger}
}

// TakeSnapshots пересчитывает остаточную стоимость всех активных активов на дату
// и сохраняет по строке на актив. Повторный запуск за ту же дату перезаписывает строки.
// Ошибка отдельного актива логируется и не останавливает прогон.
func (s *DepreciationSnapshotService) TakeSnapshots(ctx context.Context, date time.Time) (int, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	assets, err := s.assetRepo.ListByStatus(ctx, constants.AssetStatusActive)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		res, err := depreciation.Calculate(a.DepreciationInput(day))
		if err != nil {
			s.logger.Warn("Снимок амортизации пропущен", zap.Uint64("assetID", a.ID), zap.Error(err))
			continue
		}
		err = s.snapshotRepo.Upsert(ctx, entities.DepreciationSnapshot{
			AssetID:                 a.ID,
			SnapshotDate:            day,
			AccumulatedDepreciation: res.AccumulatedDepreciation,
			BookValue:               res.BookValue,
		})
		if err != nil {
			s.logger.Error("Ошибка сохранения снимка амортизации", zap.Uint64("assetID", a.ID), zap.Error(err))
			continue
		}
		saved++
	}

	metrics.SnapshotAssets.Set(float64(saved))
	s.logger.Info("Снимок амортизации сохранён",
		zap.String("date", day.Format(dateLayout)), zap.Int("assets", saved), zap.Int("total", len(assets)))
	return saved, nil
}

package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asset-system/internal/entities"
)

const snapshotTable = "asset_depreciation_snapshots"

type DepreciationSnapshotRepositoryInterface interface {
	Upsert(ctx context.Context, s entities.DepreciationSnapshot) error
	ListByAsset(ctx context.Context, assetID uint64, limit uint64) ([]entities.DepreciationSnapshot, error)
}

type depreciationSnapshotRepository struct {
	storage *pgxpool.Pool
}

func NewDepreciationSnapshotRepository(storage *pgxpool.Pool) DepreciationSnapshotRepositoryInterface {
	return &depreciationSnapshotRepository{storage: storage}
}

// Upsert: один снимок на актив в день, повторный запуск перезаписывает значения.
func (r *depreciationSnapshotRepository) Upsert(ctx context.Context, s entities.DepreciationSnapshot) error {
	query, args, err := psql.Insert(snapshotTable).
		Columns("asset_id", "snapshot_date", "accumulated_depreciation", "book_value", "created_at").
		Values(s.AssetID, s.SnapshotDate, s.AccumulatedDepreciation, s.BookValue, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (asset_id, snapshot_date) DO UPDATE SET " +
			"accumulated_depreciation = EXCLUDED.accumulated_depreciation, " +
			"book_value = EXCLUDED.book_value, created_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса snapshot: %w", err)
	}
	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка записи снимка амортизации: %w", err)
	}
	return nil
}

func (r *depreciationSnapshotRepository) ListByAsset(ctx context.Context, assetID uint64, limit uint64) ([]entities.DepreciationSnapshot, error) {
	builder := psql.Select("asset_id", "snapshot_date", "accumulated_depreciation", "book_value", "created_at").
		From(snapshotTable).
		Where(sq.Eq{"asset_id": assetID}).
		OrderBy("snapshot_date DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL snapshots: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки снимков: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.DepreciationSnapshot, error) {
		var s entities.DepreciationSnapshot
		err := row.Scan(&s.AssetID, &s.SnapshotDate, &s.AccumulatedDepreciation, &s.BookValue, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования снимков: %w", err)
	}
	return list, nil
}

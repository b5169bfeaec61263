package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/pkg/constants"
)

type DashboardRepositoryInterface interface {
	AssetsByStatus(ctx context.Context) (map[string]uint64, error)
	AssetsByCategory(ctx context.Context) (map[string]uint64, error)
	PurchaseValueByCurrency(ctx context.Context) (map[string]float64, error)
	OperationsByStatus(ctx context.Context) (map[string]uint64, error)
	TasksByStatus(ctx context.Context) (map[string]uint64, error)
	PurchasesByStatus(ctx context.Context) (map[string]uint64, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// countGroup - COUNT(*) GROUP BY column. table и column приходят только из констант этого файла.
func (r *DashboardRepository) countGroup(ctx context.Context, table, column string, where sq.Sqlizer) (map[string]uint64, error) {
	builder := psql.Select(column, "COUNT(*)").From(table).GroupBy(column)
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL сводки %s: %w", table, err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка сводки %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	result := make(map[string]uint64)
	for rows.Next() {
		var key string
		var count uint64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки %s: %w", table, err)
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *DashboardRepository) AssetsByStatus(ctx context.Context) (map[string]uint64, error) {
	return r.countGroup(ctx, assetTable, "status", nil)
}

func (r *DashboardRepository) AssetsByCategory(ctx context.Context) (map[string]uint64, error) {
	return r.countGroup(ctx, assetTable, "category", sq.NotEq{"status": constants.AssetStatusDisposed})
}

// PurchaseValueByCurrency - сумма цен покупки активов (кроме списанных) по валютам.
func (r *DashboardRepository) PurchaseValueByCurrency(ctx context.Context) (map[string]float64, error) {
	query, args, err := psql.Select("currency", "COALESCE(SUM(purchase_price), 0)").
		From(assetTable).
		Where(sq.NotEq{"status": constants.AssetStatusDisposed}).
		GroupBy("currency").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL PurchaseValueByCurrency: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта стоимости активов: %w", err)
	}
	defer rows.Close()

	result := make(map[string]float64)
	for rows.Next() {
		var currency string
		var sum float64
		if err := rows.Scan(&currency, &sum); err != nil {
			return nil, fmt.Errorf("ошибка сканирования стоимости активов: %w", err)
		}
		result[currency] = sum
	}
	return result, rows.Err()
}

func (r *DashboardRepository) OperationsByStatus(ctx context.Context) (map[string]uint64, error) {
	return r.countGroup(ctx, operationTable, "status", nil)
}

func (r *DashboardRepository) TasksByStatus(ctx context.Context) (map[string]uint64, error) {
	return r.countGroup(ctx, taskTable, "status", nil)
}

func (r *DashboardRepository) PurchasesByStatus(ctx context.Context) (map[string]uint64, error) {
	return r.countGroup(ctx, purchaseTable, "status", nil)
}

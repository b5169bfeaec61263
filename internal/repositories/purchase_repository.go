package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/internal/entities"
	db "asset-system/internal/infrastructure/bd"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

const (
	purchaseTable  = "purchases"
	purchaseFields = "id, reference, supplier, item, asset_id, quantity, unit_price, currency, total, status, requested_by, " +
		"ordered_at, received_at, created_at, updated_at"
)

var allowedPurchaseFields = map[string]string{
	"id":           "id",
	"reference":    "reference",
	"supplier":     "supplier",
	"asset_id":     "asset_id",
	"currency":     "currency",
	"status":       "status",
	"total":        "total",
	"requested_by": "requested_by",
	"created_at":   "created_at",
}

type PurchaseRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Purchase, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Purchase, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Purchase) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, p entities.Purchase) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type purchaseRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPurchaseRepository(storage *pgxpool.Pool, logger *zap.Logger) PurchaseRepositoryInterface {
	return &purchaseRepository{storage: storage, logger: logger}
}

func (r *purchaseRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *purchaseRepository) scanRow(row pgx.Row) (*entities.Purchase, error) {
	var p entities.Purchase
	err := row.Scan(
		&p.ID, &p.Reference, &p.Supplier, &p.Item, &p.AssetID, &p.Quantity, &p.UnitPrice, &p.Currency, &p.Total,
		&p.Status, &p.RequestedBy, &p.OrderedAt, &p.ReceivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования purchases: %w", err)
	}
	return &p, nil
}

func (r *purchaseRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Purchase, error) {
	builder := psql.Select(purchaseFields).From(purchaseTable).Where(sq.Eq{"id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *purchaseRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Purchase, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(psql.Select("COUNT(id)").From(purchaseTable), filter, allowedPurchaseFields, "reference", "supplier", "item").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []*entities.Purchase{}, 0, nil
	}

	query, args, err := db.ApplyListParams(psql.Select(purchaseFields).From(purchaseTable), filter, allowedPurchaseFields, "id DESC", "reference", "supplier", "item").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select purchases: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Purchase, 0)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *purchaseRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Purchase) (uint64, error) {
	query, args, err := psql.Insert(purchaseTable).
		Columns("reference", "supplier", "item", "asset_id", "quantity", "unit_price", "currency", "total", "status", "requested_by", "created_at", "updated_at").
		Values(p.Reference, p.Supplier, p.Item, p.AssetID, p.Quantity, p.UnitPrice, p.Currency, p.Total, p.Status, p.RequestedBy, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, mapWorkWriteError(err, "закупка")
	}
	return newID, nil
}

func (r *purchaseRepository) Update(ctx context.Context, tx pgx.Tx, p entities.Purchase) error {
	query, args, err := psql.Update(purchaseTable).
		Set("supplier", p.Supplier).
		Set("item", p.Item).
		Set("asset_id", p.AssetID).
		Set("quantity", p.Quantity).
		Set("unit_price", p.UnitPrice).
		Set("currency", p.Currency).
		Set("total", p.Total).
		Set("status", p.Status).
		Set("ordered_at", p.OrderedAt).
		Set("received_at", p.ReceivedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWorkWriteError(err, "закупка")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *purchaseRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(purchaseTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления purchases: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asset-system/internal/entities"
)

const (
	statusHistoryTable  = "status_history"
	statusHistoryFields = "id, entity_type, entity_id, from_status, to_status, changed_by, comment, created_at"
)

type StatusHistoryRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, h entities.StatusHistory) error
	ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.StatusHistory, error)
}

type statusHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewStatusHistoryRepository(storage *pgxpool.Pool) StatusHistoryRepositoryInterface {
	return &statusHistoryRepository{storage: storage}
}

// Create пишет запись истории; вызывается в той же транзакции, что и смена статуса.
func (r *statusHistoryRepository) Create(ctx context.Context, tx pgx.Tx, h entities.StatusHistory) error {
	query, args, err := psql.Insert(statusHistoryTable).
		Columns("entity_type", "entity_id", "from_status", "to_status", "changed_by", "comment", "created_at").
		Values(h.EntityType, h.EntityID, h.FromStatus, h.ToStatus, h.ChangedBy, h.Comment, sq.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса status_history: %w", err)
	}

	var q Querier = r.storage
	if tx != nil {
		q = tx
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка записи истории статусов: %w", err)
	}
	return nil
}

func (r *statusHistoryRepository) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.StatusHistory, error) {
	query, args, err := psql.Select(statusHistoryFields).From(statusHistoryTable).
		Where(sq.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL status_history: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки истории статусов: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.StatusHistory, error) {
		var h entities.StatusHistory
		err := row.Scan(&h.ID, &h.EntityType, &h.EntityID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.Comment, &h.CreatedAt)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования истории статусов: %w", err)
	}
	return list, nil
}

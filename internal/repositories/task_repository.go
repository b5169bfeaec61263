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
	taskTable  = "tasks"
	taskFields = "id, title, description, asset_id, operation_id, priority, status, progress, assignee_id, due_date, " +
		"started_at, completed_at, created_by, created_at, updated_at"
)

var allowedTaskFields = map[string]string{
	"id":           "id",
	"title":        "title",
	"asset_id":     "asset_id",
	"operation_id": "operation_id",
	"priority":     "priority",
	"status":       "status",
	"progress":     "progress",
	"assignee_id":  "assignee_id",
	"due_date":     "due_date",
	"created_at":   "created_at",
}

type TaskRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Task, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Task, error)
	Create(ctx context.Context, tx pgx.Tx, t entities.Task) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, t entities.Task) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type taskRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTaskRepository(storage *pgxpool.Pool, logger *zap.Logger) TaskRepositoryInterface {
	return &taskRepository{storage: storage, logger: logger}
}

func (r *taskRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *taskRepository) scanRow(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssetID, &t.OperationID, &t.Priority, &t.Status, &t.Progress,
		&t.AssigneeID, &t.DueDate, &t.StartedAt, &t.CompletedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования tasks: %w", err)
	}
	return &t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Task, error) {
	builder := psql.Select(taskFields).From(taskTable).Where(sq.Eq{"id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *taskRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Task, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(psql.Select("COUNT(id)").From(taskTable), filter, allowedTaskFields, "title", "description").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []*entities.Task{}, 0, nil
	}

	query, args, err := db.ApplyListParams(psql.Select(taskFields).From(taskTable), filter, allowedTaskFields, "id DESC", "title", "description").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select tasks: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Task, 0)
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *taskRepository) Create(ctx context.Context, tx pgx.Tx, t entities.Task) (uint64, error) {
	query, args, err := psql.Insert(taskTable).
		Columns("title", "description", "asset_id", "operation_id", "priority", "status", "progress", "assignee_id", "due_date", "created_by", "created_at", "updated_at").
		Values(t.Title, t.Description, t.AssetID, t.OperationID, t.Priority, t.Status, t.Progress, t.AssigneeID, t.DueDate, t.CreatedBy, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, mapWorkWriteError(err, "задача")
	}
	return newID, nil
}

func (r *taskRepository) Update(ctx context.Context, tx pgx.Tx, t entities.Task) error {
	query, args, err := psql.Update(taskTable).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("asset_id", t.AssetID).
		Set("operation_id", t.OperationID).
		Set("priority", t.Priority).
		Set("status", t.Status).
		Set("progress", t.Progress).
		Set("assignee_id", t.AssigneeID).
		Set("due_date", t.DueDate).
		Set("started_at", t.StartedAt).
		Set("completed_at", t.CompletedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWorkWriteError(err, "задача")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(taskTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления tasks: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

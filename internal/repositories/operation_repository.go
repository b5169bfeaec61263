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
	operationTable      = "operations"
	operationStaffTable = "operation_staff"
	operationFields     = "id, reference, type, warehouse, asset_id, quantity, unit, scheduled_at, status, progress, notes, " +
		"started_at, completed_at, created_by, created_at, updated_at"
)

var allowedOperationFields = map[string]string{
	"id":           "id",
	"reference":    "reference",
	"type":         "type",
	"warehouse":    "warehouse",
	"asset_id":     "asset_id",
	"unit":         "unit",
	"status":       "status",
	"progress":     "progress",
	"scheduled_at": "scheduled_at",
	"created_at":   "created_at",
}

type OperationRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Operation, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Operation, error)
	Create(ctx context.Context, tx pgx.Tx, op entities.Operation) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, op entities.Operation) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	ReplaceStaff(ctx context.Context, tx pgx.Tx, operationID uint64, staffIDs []uint64) error
	GetStaffIDs(ctx context.Context, tx pgx.Tx, operationID uint64) ([]uint64, error)
}

type operationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOperationRepository(storage *pgxpool.Pool, logger *zap.Logger) OperationRepositoryInterface {
	return &operationRepository{storage: storage, logger: logger}
}

func (r *operationRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *operationRepository) scanRow(row pgx.Row) (*entities.Operation, error) {
	var op entities.Operation
	err := row.Scan(
		&op.ID, &op.Reference, &op.Type, &op.Warehouse, &op.AssetID, &op.Quantity, &op.Unit,
		&op.ScheduledAt, &op.Status, &op.Progress, &op.Notes,
		&op.StartedAt, &op.CompletedAt, &op.CreatedBy, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования operations: %w", err)
	}
	return &op, nil
}

func (r *operationRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Operation, error) {
	builder := psql.Select(operationFields).From(operationTable).Where(sq.Eq{"id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}

	op, err := r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	op.StaffIDs, err = r.GetStaffIDs(ctx, tx, op.ID)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (r *operationRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Operation, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(psql.Select("COUNT(id)").From(operationTable), filter, allowedOperationFields, "reference", "warehouse", "notes").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []*entities.Operation{}, 0, nil
	}

	query, args, err := db.ApplyListParams(psql.Select(operationFields).From(operationTable), filter, allowedOperationFields, "scheduled_at DESC", "reference", "warehouse", "notes").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select operations: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Operation, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		op, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		op.StaffIDs = []uint64{}
		list = append(list, op)
		ids = append(ids, op.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	staffByOp, err := r.staffByOperations(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, op := range list {
		if staff, ok := staffByOp[op.ID]; ok {
			op.StaffIDs = staff
		}
	}
	return list, total, nil
}

func (r *operationRepository) staffByOperations(ctx context.Context, ids []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := psql.Select("operation_id", "staff_id").From(operationStaffTable).
		Where(sq.Eq{"operation_id": ids}).OrderBy("operation_id", "staff_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL operation_staff: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки operation_staff: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opID, staffID uint64
		if err := rows.Scan(&opID, &staffID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования operation_staff: %w", err)
		}
		result[opID] = append(result[opID], staffID)
	}
	return result, rows.Err()
}

func (r *operationRepository) GetStaffIDs(ctx context.Context, tx pgx.Tx, operationID uint64) ([]uint64, error) {
	query, args, err := psql.Select("staff_id").From(operationStaffTable).
		Where(sq.Eq{"operation_id": operationID}).OrderBy("staff_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL GetStaffIDs: %w", err)
	}
	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки operation_staff: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uint64])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования operation_staff: %w", err)
	}
	return ids, nil
}

func (r *operationRepository) Create(ctx context.Context, tx pgx.Tx, op entities.Operation) (uint64, error) {
	query, args, err := psql.Insert(operationTable).
		Columns("reference", "type", "warehouse", "asset_id", "quantity", "unit", "scheduled_at", "status", "progress", "notes", "created_by", "created_at", "updated_at").
		Values(op.Reference, op.Type, op.Warehouse, op.AssetID, op.Quantity, op.Unit, op.ScheduledAt, op.Status, op.Progress, op.Notes, op.CreatedBy, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, mapWorkWriteError(err, "операция")
	}
	return newID, nil
}

func (r *operationRepository) Update(ctx context.Context, tx pgx.Tx, op entities.Operation) error {
	query, args, err := psql.Update(operationTable).
		Set("type", op.Type).
		Set("warehouse", op.Warehouse).
		Set("asset_id", op.AssetID).
		Set("quantity", op.Quantity).
		Set("unit", op.Unit).
		Set("scheduled_at", op.ScheduledAt).
		Set("status", op.Status).
		Set("progress", op.Progress).
		Set("notes", op.Notes).
		Set("started_at", op.StartedAt).
		Set("completed_at", op.CompletedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": op.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWorkWriteError(err, "операция")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *operationRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(operationTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления operations: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceStaff полностью заменяет список назначенных сотрудников.
func (r *operationRepository) ReplaceStaff(ctx context.Context, tx pgx.Tx, operationID uint64, staffIDs []uint64) error {
	q := r.getQuerier(tx)

	delQuery, delArgs, err := psql.Delete(operationStaffTable).Where(sq.Eq{"operation_id": operationID}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса очистки operation_staff: %w", err)
	}
	if _, err := q.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("ошибка очистки operation_staff: %w", err)
	}
	if len(staffIDs) == 0 {
		return nil
	}

	insert := psql.Insert(operationStaffTable).Columns("operation_id", "staff_id")
	for _, staffID := range staffIDs {
		insert = insert.Values(operationID, staffID)
	}
	insQuery, insArgs, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса operation_staff: %w", err)
	}
	if _, err := q.Exec(ctx, insQuery, insArgs...); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("сотрудник не найден: %w", apperrors.ErrBadRequest)
		}
		return fmt.Errorf("ошибка записи operation_staff: %w", err)
	}
	return nil
}

// mapWorkWriteError переводит ошибки ограничений для операций и задач.
func mapWorkWriteError(err error, what string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%s с таким номером уже существует: %w", what, apperrors.ErrConflict)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s ссылается на несуществующую запись: %w", what, apperrors.ErrBadRequest)
	}
	return fmt.Errorf("ошибка записи (%s): %w", what, err)
}

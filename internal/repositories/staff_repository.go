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
	staffTable  = "staff"
	staffFields = "id, full_name, email, phone_number, position, department, status, password_hash, created_at, updated_at"
)

var allowedStaffFields = map[string]string{
	"id":         "id",
	"full_name":  "full_name",
	"email":      "email",
	"position":   "position",
	"department": "department",
	"status":     "status",
	"created_at": "created_at",
}

type StaffRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Staff, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Staff, error)
	FindByEmail(ctx context.Context, email string) (*entities.Staff, error)
	CountByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) (int, error)
	Create(ctx context.Context, tx pgx.Tx, s entities.Staff) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, s entities.Staff) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type staffRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewStaffRepository(storage *pgxpool.Pool, logger *zap.Logger) StaffRepositoryInterface {
	return &staffRepository{storage: storage, logger: logger}
}

func (r *staffRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *staffRepository) scanRow(row pgx.Row) (*entities.Staff, error) {
	var s entities.Staff
	err := row.Scan(
		&s.ID, &s.FullName, &s.Email, &s.PhoneNumber, &s.Position, &s.Department,
		&s.Status, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования staff: %w", err)
	}
	return &s, nil
}

func (r *staffRepository) findOne(ctx context.Context, querier Querier, where sq.Sqlizer) (*entities.Staff, error) {
	query, args, err := psql.Select(staffFields).From(staffTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для staff: %w", err)
	}
	return r.scanRow(querier.QueryRow(ctx, query, args...))
}

func (r *staffRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Staff, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

// FindByEmail ищет без учёта регистра.
func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*entities.Staff, error) {
	return r.findOne(ctx, r.storage, sq.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *staffRepository) CountByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := psql.Select("COUNT(id)").From(staffTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки SQL CountByIDs: %w", err)
	}
	var count int
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сотрудников: %w", err)
	}
	return count, nil
}

func (r *staffRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Staff, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(psql.Select("COUNT(id)").From(staffTable), filter, allowedStaffFields, "full_name", "email").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []*entities.Staff{}, 0, nil
	}

	query, args, err := db.ApplyListParams(psql.Select(staffFields).From(staffTable), filter, allowedStaffFields, "full_name ASC", "full_name", "email").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select staff: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Staff, 0)
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *staffRepository) Create(ctx context.Context, tx pgx.Tx, s entities.Staff) (uint64, error) {
	query, args, err := psql.Insert(staffTable).
		Columns("full_name", "email", "phone_number", "position", "department", "status", "password_hash", "created_at", "updated_at").
		Values(s.FullName, s.Email, s.PhoneNumber, s.Position, s.Department, s.Status, s.PasswordHash, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return 0, fmt.Errorf("сотрудник с email %s уже существует: %w", s.Email, apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания staff: %w", err)
	}
	return newID, nil
}

func (r *staffRepository) Update(ctx context.Context, tx pgx.Tx, s entities.Staff) error {
	query, args, err := psql.Update(staffTable).
		Set("full_name", s.FullName).
		Set("email", s.Email).
		Set("phone_number", s.PhoneNumber).
		Set("position", s.Position).
		Set("department", s.Department).
		Set("status", s.Status).
		Set("password_hash", s.PasswordHash).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("сотрудник с email %s уже существует: %w", s.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления staff: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(staffTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления staff: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

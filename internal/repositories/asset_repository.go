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
	assetTable  = "assets"
	assetFields = "id, code, name, serial_number, manufacturer, model, category, subcategory, asset_type, classification, " +
		"branch, building, floor, room, purchase_price, currency, purchase_date, depreciation_method, salvage_value, " +
		"useful_life_years, status, condition, criticality, responsible_staff_id, specifications, created_at, updated_at"
)

// allowedAssetFields - белый список полей для filter[...] и sort[...]
var allowedAssetFields = map[string]string{
	"id":                   "id",
	"code":                 "code",
	"name":                 "name",
	"category":             "category",
	"subcategory":          "subcategory",
	"asset_type":           "asset_type",
	"classification":       "classification",
	"branch":               "branch",
	"building":             "building",
	"status":               "status",
	"condition":            "condition",
	"criticality":          "criticality",
	"currency":             "currency",
	"depreciation_method":  "depreciation_method",
	"responsible_staff_id": "responsible_staff_id",
	"purchase_date":        "purchase_date",
	"purchase_price":       "purchase_price",
	"created_at":           "created_at",
	"updated_at":           "updated_at",
}

var assetSearchColumns = []string{"name", "code", "serial_number", "manufacturer", "model"}

type AssetRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Asset, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Asset, error)
	FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Asset, error)
	ListByStatus(ctx context.Context, status string) ([]*entities.Asset, error)
	NextCodeSequence(ctx context.Context, tx pgx.Tx) (uint64, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.Asset) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, a entities.Asset) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type assetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &assetRepository{storage: storage, logger: logger}
}

func (r *assetRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *assetRepository) scanRow(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(
		&a.ID, &a.Code, &a.Name, &a.SerialNumber, &a.Manufacturer, &a.Model,
		&a.Category, &a.Subcategory, &a.AssetType, &a.Classification,
		&a.Branch, &a.Building, &a.Floor, &a.Room,
		&a.PurchasePrice, &a.Currency, &a.PurchaseDate, &a.DepreciationMethod, &a.SalvageValue,
		&a.UsefulLifeYears, &a.Status, &a.Condition, &a.Criticality, &a.ResponsibleStaffID,
		&a.Specifications, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования assets: %w", err)
	}
	if a.Specifications == nil {
		a.Specifications = map[string]string{}
	}
	return &a, nil
}

func (r *assetRepository) findOne(ctx context.Context, tx pgx.Tx, where sq.Eq) (*entities.Asset, error) {
	builder := psql.Select(assetFields).From(assetTable).Where(where)
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для assets: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *assetRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Asset, error) {
	return r.findOne(ctx, tx, sq.Eq{"id": id})
}

func (r *assetRepository) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Asset, error) {
	return r.findOne(ctx, tx, sq.Eq{"code": code})
}

func (r *assetRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Asset, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(id)").From(assetTable), filter, allowedAssetFields, assetSearchColumns...)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []*entities.Asset{}, 0, nil
	}

	selectBuilder := db.ApplyListParams(psql.Select(assetFields).From(assetTable), filter, allowedAssetFields, "id DESC", assetSearchColumns...)
	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	list, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *assetRepository) ListByStatus(ctx context.Context, status string) ([]*entities.Asset, error) {
	query, args, err := psql.Select(assetFields).From(assetTable).Where(sq.Eq{"status": status}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListByStatus: %w", err)
	}
	return r.queryList(ctx, query, args...)
}

func (r *assetRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*entities.Asset, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения select assets: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Asset, 0)
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк assets: %w", err)
	}
	return list, nil
}

// NextCodeSequence - следующий номер для кода вида AST-YYYY-NNNNNN.
func (r *assetRepository) NextCodeSequence(ctx context.Context, tx pgx.Tx) (uint64, error) {
	var next uint64
	if err := r.getQuerier(tx).QueryRow(ctx, "SELECT nextval('asset_code_seq')").Scan(&next); err != nil {
		return 0, fmt.Errorf("ошибка получения номера актива: %w", err)
	}
	return next, nil
}

func (r *assetRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Asset) (uint64, error) {
	query, args, err := psql.Insert(assetTable).
		Columns(
			"code", "name", "serial_number", "manufacturer", "model", "category", "subcategory", "asset_type", "classification",
			"branch", "building", "floor", "room", "purchase_price", "currency", "purchase_date", "depreciation_method",
			"salvage_value", "useful_life_years", "status", "condition", "criticality", "responsible_staff_id", "specifications",
			"created_at", "updated_at",
		).
		Values(
			a.Code, a.Name, a.SerialNumber, a.Manufacturer, a.Model, a.Category, a.Subcategory, a.AssetType, a.Classification,
			a.Branch, a.Building, a.Floor, a.Room, a.PurchasePrice, a.Currency, a.PurchaseDate, a.DepreciationMethod,
			a.SalvageValue, a.UsefulLifeYears, a.Status, a.Condition, a.Criticality, a.ResponsibleStaffID, a.Specifications,
			sq.Expr("NOW()"), sq.Expr("NOW()"),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, r.mapWriteError(err, a.Code)
	}
	return newID, nil
}

func (r *assetRepository) Update(ctx context.Context, tx pgx.Tx, a entities.Asset) error {
	query, args, err := psql.Update(assetTable).
		Set("code", a.Code).
		Set("name", a.Name).
		Set("serial_number", a.SerialNumber).
		Set("manufacturer", a.Manufacturer).
		Set("model", a.Model).
		Set("category", a.Category).
		Set("subcategory", a.Subcategory).
		Set("asset_type", a.AssetType).
		Set("classification", a.Classification).
		Set("branch", a.Branch).
		Set("building", a.Building).
		Set("floor", a.Floor).
		Set("room", a.Room).
		Set("purchase_price", a.PurchasePrice).
		Set("currency", a.Currency).
		Set("purchase_date", a.PurchaseDate).
		Set("depreciation_method", a.DepreciationMethod).
		Set("salvage_value", a.SalvageValue).
		Set("useful_life_years", a.UsefulLifeYears).
		Set("status", a.Status).
		Set("condition", a.Condition).
		Set("criticality", a.Criticality).
		Set("responsible_staff_id", a.ResponsibleStaffID).
		Set("specifications", a.Specifications).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return r.mapWriteError(err, a.Code)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(assetTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления assets: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) mapWriteError(err error, code string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("актив с кодом %s уже существует: %w", code, apperrors.ErrConflict)
	case pgForeignKeyViolation:
		return fmt.Errorf("ответственный сотрудник не найден: %w", apperrors.ErrBadRequest)
	}
	return fmt.Errorf("ошибка записи assets: %w", err)
}

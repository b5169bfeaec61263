package repositories

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/entities"
	"asset-system/pkg/constants"
	"asset-system/pkg/database/postgresql"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

var testPool *pgxpool.Pool

// TestMain поднимает соединение с тестовой БД, если задан TEST_DATABASE_URL,
// и применяет миграции. Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		if err := postgresql.Migrate(dsn, zap.NewNop()); err != nil {
			log.Fatalf("Не удалось применить миграции: %v", err)
		}
		var err error
		testPool, err = pgxpool.New(context.Background(), dsn)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE asset_depreciation_snapshots, status_history, purchases, tasks, operation_staff, operations, assets, staff RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func sampleAsset(code string) entities.Asset {
	return entities.Asset{
		Code:               code,
		Name:               "Dell Latitude 5440",
		Category:           "it-equipment",
		Subcategory:        "laptop",
		Branch:             "Душанбе",
		PurchasePrice:      12000,
		Currency:           "TJS",
		PurchaseDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DepreciationMethod: "straight-line",
		SalvageValue:       1200,
		UsefulLifeYears:    4,
		Status:             constants.AssetStatusActive,
		Condition:          "good",
		Criticality:        3,
		Specifications:     map[string]string{"cpu": "i5-1345U", "ram": "16GB"},
	}
}

func TestAssetRepository_Integration_CRUD(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAssetRepository(testPool, zap.NewNop())

	id, err := repo.Create(ctx, nil, sampleAsset("AST-2024-000001"))
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, nil, id)
	require.NoError(t, err)
	assert.Equal(t, "AST-2024-000001", got.Code)
	assert.Equal(t, "16GB", got.Specifications["ram"])
	assert.InDelta(t, 12000, got.PurchasePrice, 0.001)

	_, err = repo.Create(ctx, nil, sampleAsset("AST-2024-000001"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got.Status = constants.AssetStatusInRepair
	require.NoError(t, repo.Update(ctx, nil, *got))

	list, total, err := repo.GetAll(ctx, types.Filter{
		Filter:         map[string]interface{}{"status": constants.AssetStatusInRepair},
		Search:         "latitude",
		Limit:          10,
		WithPagination: true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, nil, id))
	_, err = repo.FindByID(ctx, nil, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOperationRepository_Integration_StaffAndHistory(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	staffRepo := NewStaffRepository(testPool, zap.NewNop())
	opRepo := NewOperationRepository(testPool, zap.NewNop())
	historyRepo := NewStatusHistoryRepository(testPool)
	txManager := NewTxManager(testPool)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	staffID, err := staffRepo.Create(ctx, nil, entities.Staff{FullName: "Иван Петров", Email: "ivan@example.com", Status: constants.StaffStatusActive, PasswordHash: hash})
	require.NoError(t, err)

	opID, err := opRepo.Create(ctx, nil, entities.Operation{
		Reference: "OP-1A2B3C4D", Type: constants.OperationTypeLoading, Warehouse: "Склад A",
		Quantity: 12, Unit: "pallet", ScheduledAt: time.Now().UTC(),
		WorkState: entities.WorkState{Status: constants.WorkStatusPending},
	})
	require.NoError(t, err)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := opRepo.ReplaceStaff(ctx, tx, opID, []uint64{staffID}); err != nil {
			return err
		}
		op, err := opRepo.FindByID(ctx, tx, opID)
		if err != nil {
			return err
		}
		op.Status = constants.WorkStatusInProgress
		if err := opRepo.Update(ctx, tx, *op); err != nil {
			return err
		}
		return historyRepo.Create(ctx, tx, entities.StatusHistory{
			EntityType: entities.EntityOperation, EntityID: opID,
			FromStatus: constants.WorkStatusPending, ToStatus: constants.WorkStatusInProgress, ChangedBy: &staffID,
		})
	})
	require.NoError(t, err)

	op, err := opRepo.FindByID(ctx, nil, opID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{staffID}, op.StaffIDs)
	assert.Equal(t, constants.WorkStatusInProgress, op.Status)

	history, err := historyRepo.ListByEntity(ctx, entities.EntityOperation, opID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, constants.WorkStatusInProgress, history[0].ToStatus)

	err = opRepo.ReplaceStaff(ctx, nil, opID, []uint64{staffID + 100})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestDepreciationSnapshotRepository_Integration_Upsert(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	assetID, err := NewAssetRepository(testPool, zap.NewNop()).Create(ctx, nil, sampleAsset("AST-2024-000002"))
	require.NoError(t, err)

	repo := NewDepreciationSnapshotRepository(testPool)
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, entities.DepreciationSnapshot{AssetID: assetID, SnapshotDate: day, AccumulatedDepreciation: 100, BookValue: 11900}))
	require.NoError(t, repo.Upsert(ctx, entities.DepreciationSnapshot{AssetID: assetID, SnapshotDate: day, AccumulatedDepreciation: 200, BookValue: 11800}))

	list, err := repo.ListByAsset(ctx, assetID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 11800, list[0].BookValue, 0.001)
}

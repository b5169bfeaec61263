package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/events"
	"asset-system/internal/repositories"
	"asset-system/pkg/constants"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type OperationServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.OperationResponseDTO], error)
	GetByID(ctx context.Context, id uint64) (*dto.OperationResponseDTO, error)
	Create(ctx context.Context, d dto.CreateOperationDTO) (*dto.OperationResponseDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateOperationDTO) (*dto.OperationResponseDTO, error)
	Delete(ctx context.Context, id uint64) error
	ChangeStatus(ctx context.Context, id uint64, d dto.UpdateStatusDTO) (*dto.OperationResponseDTO, error)
	UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.OperationResponseDTO, error)
	AssignStaff(ctx context.Context, id uint64, staffIDs []uint64) (*dto.OperationResponseDTO, error)
	History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error)
}

type OperationService struct {
	repo        repositories.OperationRepositoryInterface
	staffRepo   repositories.StaffRepositoryInterface
	historyRepo repositories.StatusHistoryRepositoryInterface
	txManager   txRunner
	bus         EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewOperationService(
	repo repositories.OperationRepositoryInterface,
	staffRepo repositories.StaffRepositoryInterface,
	historyRepo repositories.StatusHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *OperationService {
	return &OperationService{
		repo:        repo,
		staffRepo:   staffRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

func operationToDTO(op *entities.Operation) dto.OperationResponseDTO {
	staff := op.StaffIDs
	if staff == nil {
		staff = []uint64{}
	}
	scheduled := op.ScheduledAt
	return dto.OperationResponseDTO{
		ID:          op.ID,
		Reference:   op.Reference,
		Type:        op.Type,
		Warehouse:   op.Warehouse,
		AssetID:     op.AssetID,
		Quantity:    op.Quantity,
		Unit:        op.Unit,
		ScheduledAt: formatTime(&scheduled),
		Status:      op.Status,
		Progress:    op.Progress,
		Notes:       op.Notes,
		StaffIDs:    staff,
		StartedAt:   formatTimePtr(op.StartedAt),
		CompletedAt: formatTimePtr(op.CompletedAt),
		CreatedAt:   formatTime(op.CreatedAt),
		UpdatedAt:   formatTime(op.UpdatedAt),
	}
}

// uniqueIDs убирает повторы, сохраняя порядок.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *OperationService) checkStaffExist(ctx context.Context, tx pgx.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.staffRepo.CountByIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return apperrors.NewInvalidInputError("некоторые сотрудники не найдены")
	}
	return nil
}

func (s *OperationService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.OperationResponseDTO], error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.OperationResponseDTO, 0, len(list))
	for _, op := range list {
		dtos = append(dtos, operationToDTO(op))
	}
	return &dto.PaginatedResponse[dto.OperationResponseDTO]{List: dtos, Pagination: utils.BuildPagination(total, filter)}, nil
}

func (s *OperationService) GetByID(ctx context.Context, id uint64) (*dto.OperationResponseDTO, error) {
	op, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := operationToDTO(op)
	return &res, nil
}

func (s *OperationService) Create(ctx context.Context, d dto.CreateOperationDTO) (*dto.OperationResponseDTO, error) {
	op := entities.Operation{
		Reference:   newReference("OP"),
		Type:        d.Type,
		Warehouse:   strings.TrimSpace(d.Warehouse),
		AssetID:     nullUint64Ptr(d.AssetID),
		Quantity:    d.Quantity,
		Unit:        d.Unit,
		ScheduledAt: d.ScheduledAt,
		Notes:       strings.TrimSpace(d.Notes),
		CreatedBy:   actorFromCtx(ctx),
		WorkState:   entities.WorkState{Status: constants.WorkStatusPending},
		StaffIDs:    uniqueIDs(d.StaffIDs),
	}

	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkStaffExist(ctx, tx, op.StaffIDs); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, op)
		if err != nil {
			return err
		}
		newID = id
		if len(op.StaffIDs) > 0 {
			return s.repo.ReplaceStaff(ctx, tx, id, op.StaffIDs)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка создания операции", zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityOperation, EntityID: newID, Action: events.ActionCreated})
	s.logger.Info("Операция создана", zap.Uint64("operationID", newID), zap.String("reference", op.Reference))
	return s.GetByID(ctx, newID)
}

func (s *OperationService) Update(ctx context.Context, id uint64, d dto.UpdateOperationDTO) (*dto.OperationResponseDTO, error) {
	var updated *entities.Operation
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		op, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if constants.IsFinalWorkStatus(op.Status) {
			return apperrors.NewInvalidInputError("операция в статусе %s не редактируется", op.Status)
		}
		if d.Type != nil {
			op.Type = *d.Type
		}
		if d.Warehouse != nil {
			op.Warehouse = strings.TrimSpace(*d.Warehouse)
		}
		if d.AssetID.Set {
			op.AssetID = nullUint64Ptr(d.AssetID.Uint64)
		}
		if d.Quantity != nil {
			op.Quantity = *d.Quantity
		}
		if d.Unit != nil {
			op.Unit = *d.Unit
		}
		if d.ScheduledAt != nil {
			op.ScheduledAt = *d.ScheduledAt
		}
		if d.Notes != nil {
			op.Notes = strings.TrimSpace(*d.Notes)
		}
		if err := s.repo.Update(ctx, tx, *op); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityOperation, EntityID: id, Action: events.ActionUpdated})
	res := operationToDTO(updated)
	return &res, nil
}

func (s *OperationService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityOperation, EntityID: id, Action: events.ActionDeleted})
	return nil
}

// ChangeStatus проводит переход, пишет историю в той же транзакции и после
// коммита публикует StatusChangedEvent.
func (s *OperationService) ChangeStatus(ctx context.Context, id uint64, d dto.UpdateStatusDTO) (*dto.OperationResponseDTO, error) {
	var (
		updated *entities.Operation
		change  statusChange
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		op, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		change = statusChange{
			entityType: entities.EntityOperation,
			entityID:   id,
			from:       op.Status,
			to:         d.Status,
			actor:      actorFromCtx(ctx),
			at:         now,
		}
		if err := transitionWork(&op.WorkState, d.Status, now); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *op); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, s.historyRepo, change, d.Comment); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}

	announceStatusChange(ctx, s.bus, change)
	s.logger.Info("Статус операции изменён",
		zap.Uint64("operationID", id), zap.String("from", change.from), zap.String("to", change.to))
	res := operationToDTO(updated)
	return &res, nil
}

func (s *OperationService) UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.OperationResponseDTO, error) {
	var updated *entities.Operation
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		op, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := setWorkProgress(&op.WorkState, progress); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *op); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityOperation, EntityID: id, Action: events.ActionUpdated})
	res := operationToDTO(updated)
	return &res, nil
}

// AssignStaff заменяет состав исполнителей целиком; пустой список снимает всех.
func (s *OperationService) AssignStaff(ctx context.Context, id uint64, staffIDs []uint64) (*dto.OperationResponseDTO, error) {
	ids := uniqueIDs(staffIDs)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		op, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if constants.IsFinalWorkStatus(op.Status) {
			return apperrors.NewInvalidInputError("операция в статусе %s не принимает назначения", op.Status)
		}
		if err := s.checkStaffExist(ctx, tx, ids); err != nil {
			return err
		}
		return s.repo.ReplaceStaff(ctx, tx, id, ids)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Исполнители операции обновлены", zap.Uint64("operationID", id), zap.Int("count", len(ids)))
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityOperation, EntityID: id, Action: events.ActionUpdated})
	return s.GetByID(ctx, id)
}

func (s *OperationService) History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, nil, id); err != nil {
		return nil, err
	}
	list, err := s.historyRepo.ListByEntity(ctx, entities.EntityOperation, id)
	if err != nil {
		return nil, err
	}
	return historyToDTO(list), nil
}

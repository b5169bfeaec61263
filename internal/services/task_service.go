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

const defaultTaskPriority = "medium"

type TaskServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.TaskResponseDTO], error)
	GetByID(ctx context.Context, id uint64) (*dto.TaskResponseDTO, error)
	Create(ctx context.Context, d dto.CreateTaskDTO) (*dto.TaskResponseDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateTaskDTO) (*dto.TaskResponseDTO, error)
	Delete(ctx context.Context, id uint64) error
	ChangeStatus(ctx context.Context, id uint64, d dto.UpdateStatusDTO) (*dto.TaskResponseDTO, error)
	UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.TaskResponseDTO, error)
	History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error)
}

type TaskService struct {
	repo        repositories.TaskRepositoryInterface
	staffRepo   repositories.StaffRepositoryInterface
	historyRepo repositories.StatusHistoryRepositoryInterface
	txManager   txRunner
	bus         EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewTaskService(
	repo repositories.TaskRepositoryInterface,
	staffRepo repositories.StaffRepositoryInterface,
	historyRepo repositories.StatusHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		repo:        repo,
		staffRepo:   staffRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

// isOverdue: срок прошёл (сравнение по дням), а задача ещё не завершена.
func isOverdue(t *entities.Task, now time.Time) bool {
	if t.DueDate == nil || constants.IsFinalWorkStatus(t.Status) {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

func (s *TaskService) toDTO(t *entities.Task) dto.TaskResponseDTO {
	return dto.TaskResponseDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssetID:     t.AssetID,
		OperationID: t.OperationID,
		Priority:    t.Priority,
		Status:      t.Status,
		Progress:    t.Progress,
		AssigneeID:  t.AssigneeID,
		DueDate:     formatDatePtr(t.DueDate),
		Overdue:     isOverdue(t, s.now()),
		StartedAt:   formatTimePtr(t.StartedAt),
		CompletedAt: formatTimePtr(t.CompletedAt),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func (s *TaskService) checkAssignee(ctx context.Context, tx pgx.Tx, id *uint64) error {
	if id == nil {
		return nil
	}
	n, err := s.staffRepo.CountByIDs(ctx, tx, []uint64{*id})
	if err != nil {
		return err
	}
	if n != 1 {
		return apperrors.NewInvalidInputError("исполнитель %d не найден", *id)
	}
	return nil
}

func parseDueDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := parseDate(raw)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверный срок: %s", raw)
	}
	return &d, nil
}

func (s *TaskService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.TaskResponseDTO], error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.TaskResponseDTO, 0, len(list))
	for _, t := range list {
		dtos = append(dtos, s.toDTO(t))
	}
	return &dto.PaginatedResponse[dto.TaskResponseDTO]{List: dtos, Pagination: utils.BuildPagination(total, filter)}, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uint64) (*dto.TaskResponseDTO, error) {
	t, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := s.toDTO(t)
	return &res, nil
}

func (s *TaskService) Create(ctx context.Context, d dto.CreateTaskDTO) (*dto.TaskResponseDTO, error) {
	due, err := parseDueDate(d.DueDate)
	if err != nil {
		return nil, err
	}
	task := entities.Task{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		AssetID:     nullUint64Ptr(d.AssetID),
		OperationID: nullUint64Ptr(d.OperationID),
		Priority:    d.Priority,
		AssigneeID:  nullUint64Ptr(d.AssigneeID),
		DueDate:     due,
		CreatedBy:   actorFromCtx(ctx),
		WorkState:   entities.WorkState{Status: constants.WorkStatusPending},
	}
	if task.Priority == "" {
		task.Priority = defaultTaskPriority
	}

	var newID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkAssignee(ctx, tx, task.AssigneeID); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, task)
		if err != nil {
			return err
		}
		newID = id
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка создания задачи", zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityTask, EntityID: newID, Action: events.ActionCreated})
	return s.GetByID(ctx, newID)
}

func (s *TaskService) Update(ctx context.Context, id uint64, d dto.UpdateTaskDTO) (*dto.TaskResponseDTO, error) {
	var updated *entities.Task
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if constants.IsFinalWorkStatus(t.Status) {
			return apperrors.NewInvalidInputError("задача в статусе %s не редактируется", t.Status)
		}
		if d.Title != nil {
			t.Title = strings.TrimSpace(*d.Title)
		}
		if d.Description != nil {
			t.Description = strings.TrimSpace(*d.Description)
		}
		if d.AssetID.Set {
			t.AssetID = nullUint64Ptr(d.AssetID.Uint64)
		}
		if d.OperationID.Set {
			t.OperationID = nullUint64Ptr(d.OperationID.Uint64)
		}
		if d.Priority != nil {
			t.Priority = *d.Priority
		}
		if d.AssigneeID.Set {
			t.AssigneeID = nullUint64Ptr(d.AssigneeID.Uint64)
			if err := s.checkAssignee(ctx, tx, t.AssigneeID); err != nil {
				return err
			}
		}
		if d.DueDate != nil {
			due, err := parseDueDate(*d.DueDate)
			if err != nil {
				return err
			}
			t.DueDate = due
		}
		if err := s.repo.Update(ctx, tx, *t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityTask, EntityID: id, Action: events.ActionUpdated})
	res := s.toDTO(updated)
	return &res, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityTask, EntityID: id, Action: events.ActionDeleted})
	return nil
}

func (s *TaskService) ChangeStatus(ctx context.Context, id uint64, d dto.UpdateStatusDTO) (*dto.TaskResponseDTO, error) {
	var (
		updated *entities.Task
		change  statusChange
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		change = statusChange{
			entityType: entities.EntityTask,
			entityID:   id,
			from:       t.Status,
			to:         d.Status,
			actor:      actorFromCtx(ctx),
			at:         now,
		}
		if err := transitionWork(&t.WorkState, d.Status, now); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *t); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, s.historyRepo, change, d.Comment); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	announceStatusChange(ctx, s.bus, change)
	res := s.toDTO(updated)
	return &res, nil
}

func (s *TaskService) UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.TaskResponseDTO, error) {
	var updated *entities.Task
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := setWorkProgress(&t.WorkState, progress); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityTask, EntityID: id, Action: events.ActionUpdated})
	res := s.toDTO(updated)
	return &res, nil
}

func (s *TaskService) History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, nil, id); err != nil {
		return nil, err
	}
	list, err := s.historyRepo.ListByEntity(ctx, entities.EntityTask, id)
	if err != nil {
		return nil, err
	}
	return historyToDTO(list), nil
}

package services

import (
	"context"
	"fmt"
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

type PurchaseServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.PurchaseResponseDTO], error)
	GetByID(ctx context.Context, id uint64) (*dto.PurchaseResponseDTO, error)
	Create(ctx context.Context, d dto.CreatePurchaseDTO) (*dto.PurchaseResponseDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdatePurchaseDTO) (*dto.PurchaseResponseDTO, error)
	Delete(ctx context.Context, id uint64) error
	ChangeStatus(ctx context.Context, id uint64, d dto.UpdatePurchaseStatusDTO) (*dto.PurchaseResponseDTO, error)
	History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error)
}

type PurchaseService struct {
	repo        repositories.PurchaseRepositoryInterface
	historyRepo repositories.StatusHistoryRepositoryInterface
	txManager   txRunner
	bus         EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewPurchaseService(
	repo repositories.PurchaseRepositoryInterface,
	historyRepo repositories.StatusHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		repo:        repo,
		historyRepo: historyRepo,
		txManager:   txManager,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

func purchaseToDTO(p *entities.Purchase) dto.PurchaseResponseDTO {
	return dto.PurchaseResponseDTO{
		ID:          p.ID,
		Reference:   p.Reference,
		Supplier:    p.Supplier,
		Item:        p.Item,
		AssetID:     p.AssetID,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		Currency:    p.Currency,
		Total:       p.Total,
		Status:      p.Status,
		RequestedBy: p.RequestedBy,
		OrderedAt:   formatTimePtr(p.OrderedAt),
		ReceivedAt:  formatTimePtr(p.ReceivedAt),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func purchaseTotal(qty, price float64) float64 {
	return utils.RoundMoney(qty * price)
}

func (s *PurchaseService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.PurchaseResponseDTO], error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.PurchaseResponseDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, purchaseToDTO(p))
	}
	return &dto.PaginatedResponse[dto.PurchaseResponseDTO]{List: dtos, Pagination: utils.BuildPagination(total, filter)}, nil
}

func (s *PurchaseService) GetByID(ctx context.Context, id uint64) (*dto.PurchaseResponseDTO, error) {
	p, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := purchaseToDTO(p)
	return &res, nil
}

func (s *PurchaseService) Create(ctx context.Context, d dto.CreatePurchaseDTO) (*dto.PurchaseResponseDTO, error) {
	p := entities.Purchase{
		Reference:   newReference("PO"),
		Supplier:    strings.TrimSpace(d.Supplier),
		Item:        strings.TrimSpace(d.Item),
		AssetID:     nullUint64Ptr(d.AssetID),
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Currency:    strings.ToUpper(d.Currency),
		Total:       purchaseTotal(d.Quantity, d.UnitPrice),
		Status:      constants.PurchaseStatusRequested,
		RequestedBy: actorFromCtx(ctx),
	}

	id, err := s.repo.Create(ctx, nil, p)
	if err != nil {
		s.logger.Error("Ошибка создания закупки", zap.Error(err))
		return nil, err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityPurchase, EntityID: id, Action: events.ActionCreated})
	s.logger.Info("Закупка создана", zap.Uint64("purchaseID", id), zap.String("reference", p.Reference))
	return s.GetByID(ctx, id)
}

func (s *PurchaseService) Update(ctx context.Context, id uint64, d dto.UpdatePurchaseDTO) (*dto.PurchaseResponseDTO, error) {
	var updated *entities.Purchase
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		p, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		// После согласования меняется только привязка к активу
		locked := p.Status != constants.PurchaseStatusRequested
		if locked && (d.Supplier != nil || d.Item != nil || d.Quantity != nil || d.UnitPrice != nil || d.Currency != nil) {
			return apperrors.NewInvalidInputError("закупка в статусе %s: менять можно только привязку к активу", p.Status)
		}
		if d.Supplier != nil {
			p.Supplier = strings.TrimSpace(*d.Supplier)
		}
		if d.Item != nil {
			p.Item = strings.TrimSpace(*d.Item)
		}
		if d.AssetID.Set {
			p.AssetID = nullUint64Ptr(d.AssetID.Uint64)
		}
		if d.Quantity != nil {
			p.Quantity = *d.Quantity
		}
		if d.UnitPrice != nil {
			p.UnitPrice = *d.UnitPrice
		}
		if d.Currency != nil {
			p.Currency = strings.ToUpper(*d.Currency)
		}
		p.Total = purchaseTotal(p.Quantity, p.UnitPrice)
		if err := s.repo.Update(ctx, tx, *p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityPurchase, EntityID: id, Action: events.ActionUpdated})
	res := purchaseToDTO(updated)
	return &res, nil
}

func (s *PurchaseService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityPurchase, EntityID: id, Action: events.ActionDeleted})
	return nil
}

// ChangeStatus: requested → approved → ordered → received, отмена из любого незавершённого.
// ordered и received фиксируют даты.
func (s *PurchaseService) ChangeStatus(ctx context.Context, id uint64, d dto.UpdatePurchaseStatusDTO) (*dto.PurchaseResponseDTO, error) {
	var (
		updated *entities.Purchase
		change  statusChange
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		p, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !constants.CanTransitionPurchase(p.Status, d.Status) {
			return fmt.Errorf("%s → %s: %w", p.Status, d.Status, apperrors.ErrInvalidStatusTransition)
		}
		now := s.now()
		change = statusChange{
			entityType: entities.EntityPurchase,
			entityID:   id,
			from:       p.Status,
			to:         d.Status,
			actor:      actorFromCtx(ctx),
			at:         now,
		}
		p.Status = d.Status
		switch d.Status {
		case constants.PurchaseStatusOrdered:
			p.OrderedAt = &now
		case constants.PurchaseStatusReceived:
			p.ReceivedAt = &now
		}
		if err := s.repo.Update(ctx, tx, *p); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, s.historyRepo, change, d.Comment); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	announceStatusChange(ctx, s.bus, change)
	s.logger.Info("Статус закупки изменён",
		zap.Uint64("purchaseID", id), zap.String("from", change.from), zap.String("to", change.to))
	res := purchaseToDTO(updated)
	return &res, nil
}

func (s *PurchaseService) History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, nil, id); err != nil {
		return nil, err
	}
	list, err := s.historyRepo.ListByEntity(ctx, entities.EntityPurchase, id)
	if err != nil {
		return nil, err
	}
	return historyToDTO(list), nil
}

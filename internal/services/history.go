package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/events"
	"asset-system/internal/repositories"
	"asset-system/pkg/metrics"
)

// statusChange - переход, записанный в транзакции; событие уходит после коммита.
type statusChange struct {
	entityType string
	entityID   uint64
	from       string
	to         string
	actor      *uint64
	at         time.Time
}

func recordStatusChange(ctx context.Context, tx pgx.Tx, repo repositories.StatusHistoryRepositoryInterface, ch statusChange, comment string) error {
	return repo.Create(ctx, tx, entities.StatusHistory{
		EntityType: ch.entityType,
		EntityID:   ch.entityID,
		FromStatus: ch.from,
		ToStatus:   ch.to,
		ChangedBy:  ch.actor,
		Comment:    comment,
		CreatedAt:  ch.at,
	})
}

func announceStatusChange(ctx context.Context, bus EventPublisher, ch statusChange) {
	metrics.StatusTransitions.WithLabelValues(ch.entityType, ch.to).Inc()
	bus.Publish(ctx, events.StatusChangedEvent{
		EntityType: ch.entityType,
		EntityID:   ch.entityID,
		FromStatus: ch.from,
		ToStatus:   ch.to,
		ActorID:    ch.actor,
		At:         ch.at,
	})
}

func historyToDTO(list []entities.StatusHistory) []dto.StatusHistoryDTO {
	out := make([]dto.StatusHistoryDTO, 0, len(list))
	for _, h := range list {
		created := h.CreatedAt
		out = append(out, dto.StatusHistoryDTO{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ChangedBy:  h.ChangedBy,
			Comment:    h.Comment,
			CreatedAt:  formatTime(&created),
		})
	}
	return out
}

package listeners

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"asset-system/internal/events"
	"asset-system/pkg/eventbus"
)

// DashboardInvalidator - то, что слушателю нужно от DashboardService.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// ActivityListener журналирует смены статусов и сбрасывает кэш сводки дашборда
// после любых изменений данных. Сбросы внутри окна debounce склеиваются в один.
type ActivityListener struct {
	dashboard DashboardInvalidator
	logger    *zap.Logger
	debounce  time.Duration

	mu      sync.Mutex
	pending *time.Timer
}

func NewActivityListener(dashboard DashboardInvalidator, debounce time.Duration, logger *zap.Logger) *ActivityListener {
	return &ActivityListener{dashboard: dashboard, debounce: debounce, logger: logger}
}

func (l *ActivityListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.StatusChangedEventName, l.handleStatusChanged)
	bus.Subscribe(events.DataChangedEventName, l.handleDataChanged)
	l.logger.Info("ActivityListener подписан на события",
		zap.Strings("events", []string{events.StatusChangedEventName, events.DataChangedEventName}))
}

func (l *ActivityListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.StatusChangedEvent)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("entity", e.EntityType),
		zap.Uint64("id", e.EntityID),
		zap.String("from", e.FromStatus),
		zap.String("to", e.ToStatus),
		zap.Time("at", e.At),
	}
	if e.ActorID != nil {
		fields = append(fields, zap.Uint64("actorID", *e.ActorID))
	}
	l.logger.Info("Смена статуса", fields...)
	l.scheduleInvalidate(ctx)
	return nil
}

func (l *ActivityListener) handleDataChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DataChangedEvent)
	if !ok {
		return nil
	}
	l.logger.Debug("Изменение данных",
		zap.String("entity", e.Entity), zap.Uint64("id", e.EntityID), zap.String("action", e.Action))
	l.scheduleInvalidate(ctx)
	return nil
}

func (l *ActivityListener) scheduleInvalidate(ctx context.Context) {
	if l.debounce <= 0 {
		l.dashboard.Invalidate(ctx)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending != nil {
		return
	}
	l.pending = time.AfterFunc(l.debounce, func() {
		l.mu.Lock()
		l.pending = nil
		l.mu.Unlock()
		l.dashboard.Invalidate(context.Background())
	})
}

// Stop отменяет отложенный сброс и выполняет его сразу.
func (l *ActivityListener) Stop() {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()
	if pending != nil && pending.Stop() {
		l.dashboard.Invalidate(context.Background())
	}
}

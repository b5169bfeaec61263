package listeners

import (
	"context"

	"go.uber.org/zap"

	"asset-system/internal/events"
	"asset-system/pkg/eventbus"
	"asset-system/pkg/websocket"
)

const activityMessageType = "activity"

// Broadcaster - то, что нужно слушателю от websocket.Hub.
type Broadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// NotificationListener пересылает события шины в живую ленту дашборда.
type NotificationListener struct {
	feed   Broadcaster
	logger *zap.Logger
}

func NewNotificationListener(feed Broadcaster, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{feed: feed, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.StatusChangedEventName, l.handle)
	bus.Subscribe(events.DataChangedEventName, l.handle)
	l.logger.Info("NotificationListener подписан на события ленты")
}

func (l *NotificationListener) handle(ctx context.Context, event eventbus.Event) error {
	var payload websocket.ActivityPayload
	switch e := event.(type) {
	case events.StatusChangedEvent:
		payload = websocket.ActivityPayload{
			Entity:   e.EntityType,
			EntityID: e.EntityID,
			Action:   "status",
			From:     e.FromStatus,
			To:       e.ToStatus,
			ActorID:  e.ActorID,
		}
	case events.DataChangedEvent:
		payload = websocket.ActivityPayload{Entity: e.Entity, EntityID: e.EntityID, Action: e.Action}
	default:
		return nil
	}

	if err := l.feed.Broadcast(activityMessageType, payload); err != nil {
		l.logger.Error("Не удалось отправить событие в ленту", zap.String("event", event.Name()), zap.Error(err))
		return err
	}
	return nil
}

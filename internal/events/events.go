package events

import "time"

const (
	StatusChangedEventName = "status.changed"
	DataChangedEventName   = "data.changed"
)

// StatusChangedEvent публикуется после коммита смены статуса операции, задачи или закупки.
type StatusChangedEvent struct {
	EntityType string
	EntityID   uint64
	FromStatus string
	ToStatus   string
	ActorID    *uint64
	At         time.Time
}

func (e StatusChangedEvent) Name() string {
	return StatusChangedEventName
}

// Действия для DataChangedEvent
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// DataChangedEvent - любая запись в активы, операции, задачи или закупки.
type DataChangedEvent struct {
	Entity   string
	EntityID uint64
	Action   string
}

func (e DataChangedEvent) Name() string {
	return DataChangedEventName
}

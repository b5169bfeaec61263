package entities

import "time"

// WorkState - общая часть операций и задач: статус и прогресс выполнения.
type WorkState struct {
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

package entities

import "time"

// Типы сущностей для status_history и событий
const (
	EntityAsset     = "asset"
	EntityStaff     = "staff"
	EntityOperation = "operation"
	EntityTask      = "task"
	EntityPurchase  = "purchase"
)

type StatusHistory struct {
	ID         uint64    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uint64    `json:"entity_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  *uint64   `json:"changed_by"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

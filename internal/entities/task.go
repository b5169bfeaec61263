package entities

import (
	"time"

	"asset-system/pkg/types"
)

type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssetID     *uint64    `json:"asset_id"`
	OperationID *uint64    `json:"operation_id"`
	Priority    string     `json:"priority"`
	AssigneeID  *uint64    `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   *uint64    `json:"created_by"`

	WorkState

	types.BaseEntity
}

package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Общие DTO для операций и задач: у них одна машина статусов.

type UpdateStatusDTO struct {
	Status  string `json:"status" validate:"required,work_status"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

type UpdateProgressDTO struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

type AssignStaffDTO struct {
	StaffIDs []uint64 `json:"staff_ids" validate:"dive,gt=0"`
}

type CreateOperationDTO struct {
	Type        string      `json:"type" validate:"required,op_type"`
	Warehouse   string      `json:"warehouse" validate:"required,max=100"`
	AssetID     null.Uint64 `json:"asset_id"`
	Quantity    float64     `json:"quantity" validate:"required,gt=0"`
	Unit        string      `json:"unit" validate:"required,op_unit"`
	ScheduledAt time.Time   `json:"scheduled_at" validate:"required"`
	Notes       string      `json:"notes" validate:"omitempty,max=2000"`
	StaffIDs    []uint64    `json:"staff_ids" validate:"dive,gt=0"`
}

type UpdateOperationDTO struct {
	Type        *string     `json:"type" validate:"omitempty,op_type"`
	Warehouse   *string     `json:"warehouse" validate:"omitempty,min=1,max=100"`
	AssetID     NullableID  `json:"asset_id"`
	Quantity    *float64    `json:"quantity" validate:"omitempty,gt=0"`
	Unit        *string     `json:"unit" validate:"omitempty,op_unit"`
	ScheduledAt *time.Time  `json:"scheduled_at"`
	Notes       *string     `json:"notes" validate:"omitempty,max=2000"`
}

type OperationResponseDTO struct {
	ID          uint64   `json:"id"`
	Reference   string   `json:"reference"`
	Type        string   `json:"type"`
	Warehouse   string   `json:"warehouse"`
	AssetID     *uint64  `json:"asset_id"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	ScheduledAt string   `json:"scheduled_at"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	Notes       string   `json:"notes"`
	StaffIDs    []uint64 `json:"staff_ids"`
	StartedAt   *string  `json:"started_at"`
	CompletedAt *string  `json:"completed_at"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type CreateTaskDTO struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"omitempty,max=4000"`
	AssetID     null.Uint64 `json:"asset_id"`
	OperationID null.Uint64 `json:"operation_id"`
	Priority    string      `json:"priority" validate:"omitempty,priority"`
	AssigneeID  null.Uint64 `json:"assignee_id"`
	DueDate     string      `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateTaskDTO struct {
	Title       *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string     `json:"description" validate:"omitempty,max=4000"`
	AssetID     NullableID  `json:"asset_id"`
	OperationID NullableID  `json:"operation_id"`
	Priority    *string     `json:"priority" validate:"omitempty,priority"`
	AssigneeID  NullableID  `json:"assignee_id"`
	DueDate     *string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type TaskResponseDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssetID     *uint64 `json:"asset_id"`
	OperationID *uint64 `json:"operation_id"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	AssigneeID  *uint64 `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
	Overdue     bool    `json:"overdue"`
	StartedAt   *string `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type StatusHistoryDTO struct {
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	ChangedBy  *uint64 `json:"changed_by"`
	Comment    string  `json:"comment"`
	CreatedAt  string  `json:"created_at"`
}

package entities

import (
	"time"

	"asset-system/pkg/types"
)

// Operation - складская операция погрузки или разгрузки.
type Operation struct {
	ID          uint64     `json:"id"`
	Reference   string     `json:"reference"`
	Type        string     `json:"type"`
	Warehouse   string     `json:"warehouse"`
	AssetID     *uint64    `json:"asset_id"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Notes       string     `json:"notes"`
	CreatedBy   *uint64    `json:"created_by"`

	WorkState

	types.BaseEntity

	// Не колонка: заполняется из operation_staff
	StaffIDs []uint64 `json:"staff_ids" db:"-"`
}

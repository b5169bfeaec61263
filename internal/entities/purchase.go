package entities

import (
	"time"

	"asset-system/pkg/types"
)

type Purchase struct {
	ID          uint64     `json:"id"`
	Reference   string     `json:"reference"`
	Supplier    string     `json:"supplier"`
	Item        string     `json:"item"`
	AssetID     *uint64    `json:"asset_id"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	Currency    string     `json:"currency"`
	Total       float64    `json:"total"`
	Status      string     `json:"status"`
	RequestedBy *uint64    `json:"requested_by"`
	OrderedAt   *time.Time `json:"ordered_at"`
	ReceivedAt  *time.Time `json:"received_at"`

	types.BaseEntity
}

package dto

import "github.com/aarondl/null/v8"

type CreatePurchaseDTO struct {
	Supplier  string      `json:"supplier" validate:"required,max=255"`
	Item      string      `json:"item" validate:"required,max=500"`
	AssetID   null.Uint64 `json:"asset_id"`
	Quantity  float64     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64     `json:"unit_price" validate:"gte=0"`
	Currency  string      `json:"currency" validate:"required,currency_code"`
}

type UpdatePurchaseDTO struct {
	Supplier  *string     `json:"supplier" validate:"omitempty,min=1,max=255"`
	Item      *string     `json:"item" validate:"omitempty,min=1,max=500"`
	AssetID   NullableID  `json:"asset_id"`
	Quantity  *float64    `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice *float64    `json:"unit_price" validate:"omitempty,gte=0"`
	Currency  *string     `json:"currency" validate:"omitempty,currency_code"`
}

type UpdatePurchaseStatusDTO struct {
	Status  string `json:"status" validate:"required,purchase_status"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

type PurchaseResponseDTO struct {
	ID          uint64  `json:"id"`
	Reference   string  `json:"reference"`
	Supplier    string  `json:"supplier"`
	Item        string  `json:"item"`
	AssetID     *uint64 `json:"asset_id"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	RequestedBy *uint64 `json:"requested_by"`
	OrderedAt   *string `json:"ordered_at"`
	ReceivedAt  *string `json:"received_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

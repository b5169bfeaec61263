package dto

import (
	"time"

	"asset-system/pkg/assetfields"
)

type DashboardSummaryDTO struct {
	TotalAssets        uint64             `json:"total_assets"`
	AssetsByStatus     map[string]uint64  `json:"assets_by_status"`
	AssetsByCategory   map[string]uint64  `json:"assets_by_category"`
	PurchaseValue      map[string]float64 `json:"purchase_value"`
	BookValue          map[string]float64 `json:"book_value"`
	HighRiskAssets     uint64             `json:"high_risk_assets"`
	OperationsByStatus map[string]uint64  `json:"operations_by_status"`
	TasksByStatus      map[string]uint64  `json:"tasks_by_status"`
	PurchasesByStatus  map[string]uint64  `json:"purchases_by_status"`
	GeneratedAt        time.Time          `json:"generated_at"`
}

type OptionsDTO struct {
	AssetStatuses       []string                     `json:"asset_statuses"`
	WorkStatuses        []string                     `json:"work_statuses"`
	PurchaseStatuses    []string                     `json:"purchase_statuses"`
	OperationTypes      []string                     `json:"operation_types"`
	Units               []string                     `json:"units"`
	Currencies          []string                     `json:"currencies"`
	DepreciationMethods []string                     `json:"depreciation_methods"`
	Priorities          []string                     `json:"priorities"`
	Conditions          []string                     `json:"conditions"`
	Departments         []string                     `json:"departments"`
	Categories          []assetfields.CategoryOption `json:"categories"`
}

type HealthDTO struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

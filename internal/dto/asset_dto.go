package dto

import (
	"github.com/aarondl/null/v8"

	"asset-system/pkg/depreciation"
	"asset-system/pkg/riskscore"
)

type CreateAssetDTO struct {
	Code           string `json:"code" validate:"omitempty,asset_code"`
	Name           string `json:"name" validate:"required,max=255"`
	SerialNumber   string `json:"serial_number" validate:"omitempty,max=100"`
	Manufacturer   string `json:"manufacturer" validate:"omitempty,max=100"`
	Model          string `json:"model" validate:"omitempty,max=100"`
	Category       string `json:"category" validate:"required"`
	Subcategory    string `json:"subcategory"`
	AssetType      string `json:"asset_type"`
	Classification string `json:"classification"`

	Branch   string `json:"branch" validate:"required"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`

	PurchasePrice      float64 `json:"purchase_price" validate:"gte=0"`
	Currency           string  `json:"currency" validate:"required,currency_code"`
	PurchaseDate       string  `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	DepreciationMethod string  `json:"depreciation_method"`
	SalvageValue       float64 `json:"salvage_value" validate:"gte=0,ltefield=PurchasePrice"`
	UsefulLifeYears    int     `json:"useful_life_years" validate:"required,gt=0,lte=100"`

	Status             string            `json:"status" validate:"omitempty,asset_status"`
	Condition          string            `json:"condition" validate:"omitempty,oneof=excellent good fair poor broken"`
	Criticality        int               `json:"criticality" validate:"omitempty,min=1,max=5"`
	ResponsibleStaffID null.Uint64       `json:"responsible_staff_id"`
	Specifications     map[string]string `json:"specifications"`
}

// UpdateAssetDTO - частичное обновление: nil означает "не менять".
type UpdateAssetDTO struct {
	Name           *string `json:"name" validate:"omitempty,max=255"`
	SerialNumber   *string `json:"serial_number" validate:"omitempty,max=100"`
	Manufacturer   *string `json:"manufacturer" validate:"omitempty,max=100"`
	Model          *string `json:"model" validate:"omitempty,max=100"`
	Category       *string `json:"category" validate:"omitempty,min=1"`
	Subcategory    *string `json:"subcategory"`
	AssetType      *string `json:"asset_type"`
	Classification *string `json:"classification"`

	Branch   *string `json:"branch" validate:"omitempty,min=1"`
	Building *string `json:"building"`
	Floor    *string `json:"floor"`
	Room     *string `json:"room"`

	PurchasePrice      *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	Currency           *string  `json:"currency" validate:"omitempty,currency_code"`
	PurchaseDate       *string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	DepreciationMethod *string  `json:"depreciation_method"`
	SalvageValue       *float64 `json:"salvage_value" validate:"omitempty,gte=0"`
	UsefulLifeYears    *int     `json:"useful_life_years" validate:"omitempty,gt=0,lte=100"`

	Status             *string           `json:"status" validate:"omitempty,asset_status"`
	Condition          *string           `json:"condition" validate:"omitempty,oneof=excellent good fair poor broken"`
	Criticality        *int              `json:"criticality" validate:"omitempty,min=1,max=5"`
	ResponsibleStaffID null.Uint64       `json:"responsible_staff_id"`
	Specifications     map[string]string `json:"specifications"`
}

type AssetResponseDTO struct {
	ID             uint64 `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	SerialNumber   string `json:"serial_number"`
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	AssetType      string `json:"asset_type"`
	Classification string `json:"classification"`
	Location       string `json:"location"`
	Branch         string `json:"branch"`
	Building       string `json:"building"`
	Floor          string `json:"floor"`
	Room           string `json:"room"`

	PurchasePrice      float64 `json:"purchase_price"`
	Currency           string  `json:"currency"`
	PurchaseDate       string  `json:"purchase_date"`
	DepreciationMethod string  `json:"depreciation_method"`
	SalvageValue       float64 `json:"salvage_value"`
	UsefulLifeYears    int     `json:"useful_life_years"`

	Status             string            `json:"status"`
	Condition          string            `json:"condition"`
	Criticality        int               `json:"criticality"`
	ResponsibleStaffID *uint64           `json:"responsible_staff_id"`
	Specifications     map[string]string `json:"specifications"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

type AssetRegisteredDTO struct {
	AssetID uint64 `json:"asset_id"`
	Code    string `json:"code"`
}

type AssetDepreciationDTO struct {
	AssetID  uint64                       `json:"asset_id"`
	AsOf     string                       `json:"as_of"`
	Currency string                       `json:"currency"`
	Result   depreciation.Result          `json:"result"`
	Schedule []depreciation.ScheduleEntry `json:"schedule"`
}

type AssetRiskDTO struct {
	AssetID     uint64  `json:"asset_id"`
	AgeRatio    float64 `json:"age_ratio"`
	Condition   string  `json:"condition"`
	Criticality int     `json:"criticality"`
	riskscore.Assessment
}

type AssetFieldsDTO struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Fields      []string `json:"fields"`
}

type DepreciationSnapshotDTO struct {
	SnapshotDate            string  `json:"snapshot_date"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	BookValue               float64 `json:"book_value"`
}

type ImportRowErrorDTO struct {
	Row     int    `json:"row"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type ImportReportDTO struct {
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Failed  int                 `json:"failed"`
	Errors  []ImportRowErrorDTO `json:"errors"`
}

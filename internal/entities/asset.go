package entities

import (
	"time"

	"asset-system/pkg/depreciation"
	"asset-system/pkg/types"
)

type Asset struct {
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

	// Местоположение: филиал / здание / этаж / помещение
	Branch   string `json:"branch"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`

	PurchasePrice      float64   `json:"purchase_price"`
	Currency           string    `json:"currency"`
	PurchaseDate       time.Time `json:"purchase_date"`
	DepreciationMethod string    `json:"depreciation_method"`
	SalvageValue       float64   `json:"salvage_value"`
	UsefulLifeYears    int       `json:"useful_life_years"`

	Status             string            `json:"status"`
	Condition          string            `json:"condition"`
	Criticality        int               `json:"criticality"`
	ResponsibleStaffID *uint64           `json:"responsible_staff_id"`
	Specifications     map[string]string `json:"specifications"`

	types.BaseEntity
}

// DepreciationInput собирает вход калькулятора амортизации на дату asOf.
func (a *Asset) DepreciationInput(asOf time.Time) depreciation.Input {
	return depreciation.Input{
		PurchasePrice:   a.PurchasePrice,
		SalvageValue:    a.SalvageValue,
		UsefulLifeYears: a.UsefulLifeYears,
		PurchaseDate:    a.PurchaseDate,
		AsOf:            asOf,
		Method:          depreciation.NormalizeMethod(a.DepreciationMethod),
	}
}

// AgeRatio - доля выработанного срока полезного использования.
func (a *Asset) AgeRatio(asOf time.Time) float64 {
	if a.UsefulLifeYears <= 0 {
		return 0
	}
	return depreciation.YearsBetween(a.PurchaseDate, asOf) / float64(a.UsefulLifeYears)
}

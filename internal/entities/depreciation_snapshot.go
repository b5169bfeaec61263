package entities

import "time"

type DepreciationSnapshot struct {
	AssetID                 uint64    `json:"asset_id"`
	SnapshotDate            time.Time `json:"snapshot_date"`
	AccumulatedDepreciation float64   `json:"accumulated_depreciation"`
	BookValue               float64   `json:"book_value"`
	CreatedAt               time.Time `json:"created_at"`
}

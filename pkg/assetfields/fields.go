// Package assetfields хранит справочник полей характеристик по категориям активов:
// какие поля формы показывать для категории и подкатегории.
package assetfields

import (
	"sort"
	"strings"
)

const DefaultCategory = "default"

type categoryFields struct {
	Common []string
	Sub    map[string][]string
}

var fieldsByCategory = map[string]categoryFields{
	"it-equipment": {
		Common: []string{"manufacturer", "model", "serial_number", "warranty_expiry"},
		Sub: map[string][]string{
			"computer": {"cpu", "ram", "storage", "operating_system"},
			"laptop":   {"cpu", "ram", "storage", "operating_system", "screen_size", "battery_health"},
			"server":   {"cpu", "ram", "storage", "rack_unit", "ip_address"},
			"network":  {"ip_address", "mac_address", "port_count", "firmware_version"},
			"printer":  {"print_technology", "color", "network_enabled"},
		},
	},
	"vehicles": {
		Common: []string{"manufacturer", "model", "vin", "license_plate", "year_of_manufacture", "fuel_type"},
		Sub: map[string][]string{
			"car":      {"seats", "mileage"},
			"truck":    {"payload_capacity", "axle_count", "mileage"},
			"forklift": {"lift_capacity", "lift_height", "operating_hours"},
		},
	},
	"machinery": {
		Common: []string{"manufacturer", "model", "serial_number", "power_rating", "operating_hours"},
		Sub: map[string][]string{
			"production":   {"capacity_per_hour", "voltage"},
			"construction": {"engine_type", "weight"},
			"generator":    {"power_rating", "power_output", "fuel_type", "voltage"},
		},
	},
	"furniture": {
		Common: []string{"material", "color", "dimensions"},
		Sub: map[string][]string{
			"office":  {"ergonomic"},
			"storage": {"shelf_count", "load_capacity"},
		},
	},
	"buildings": {
		Common: []string{"address", "total_area", "year_built"},
		Sub: map[string][]string{
			"warehouse": {"storage_capacity", "loading_docks", "ceiling_height"},
			"office":    {"floor_count", "parking_spaces"},
		},
	},
	DefaultCategory: {
		Common: []string{"manufacturer", "model", "serial_number", "description"},
	},
}

type CategoryOption struct {
	Code          string   `json:"code"`
	Subcategories []string `json:"subcategories"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FieldsByCategory возвращает общие поля категории плюс поля подкатегории без
// повторов. Для неизвестной категории отдаются общие поля default.
func FieldsByCategory(category, subcategory string) []string {
	entry, ok := fieldsByCategory[normalize(category)]
	if !ok {
		return append([]string(nil), fieldsByCategory[DefaultCategory].Common...)
	}

	extra := entry.Sub[normalize(subcategory)]
	out := make([]string, 0, len(entry.Common)+len(extra))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{entry.Common, extra} {
		for _, f := range list {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func IsFieldVisible(category, subcategory, field string) bool {
	field = normalize(field)
	for _, f := range FieldsByCategory(category, subcategory) {
		if f == field {
			return true
		}
	}
	return false
}

// UnknownFields возвращает отсортированные ключи характеристик, которые форма
// для этой категории не показывает.
func UnknownFields(category, subcategory string, specs map[string]string) []string {
	var unknown []string
	for key := range specs {
		if !IsFieldVisible(category, subcategory, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func IsKnownCategory(category string) bool {
	c := normalize(category)
	_, ok := fieldsByCategory[c]
	return ok && c != DefaultCategory
}

func Categories() []CategoryOption {
	out := make([]CategoryOption, 0, len(fieldsByCategory)-1)
	for code, entry := range fieldsByCategory {
		if code == DefaultCategory {
			continue
		}
		subs := make([]string, 0, len(entry.Sub))
		for sub := range entry.Sub {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		out = append(out, CategoryOption{Code: code, Subcategories: subs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

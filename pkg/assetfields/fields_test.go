package assetfields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsByCategory_UnknownCategoryFallsBackToDefault(t *testing.T) {
	got := FieldsByCategory("spaceships", "shuttle")
	assert.Equal(t, fieldsByCategory[DefaultCategory].Common, got)

	// возвращается копия, справочник не портится
	got[0] = "hacked"
	assert.Equal(t, "manufacturer", fieldsByCategory[DefaultCategory].Common[0])
}

func TestFieldsByCategory_CommonPlusSubcategory(t *testing.T) {
	got := FieldsByCategory("IT-Equipment", " Laptop ")
	assert.Equal(t, []string{
		"manufacturer", "model", "serial_number", "warranty_expiry",
		"cpu", "ram", "storage", "operating_system", "screen_size", "battery_health",
	}, got)
}

func TestFieldsByCategory_UnknownSubcategory(t *testing.T) {
	assert.Equal(t, fieldsByCategory["vehicles"].Common, FieldsByCategory("vehicles", "boat"))
}

func TestFieldsByCategory_NoDuplicates(t *testing.T) {
	for code, entry := range fieldsByCategory {
		for sub := range entry.Sub {
			fields := FieldsByCategory(code, sub)
			seen := map[string]bool{}
			for _, f := range fields {
				require.False(t, seen[f], "%s/%s: duplicate %s", code, sub, f)
				seen[f] = true
			}
			for _, f := range entry.Common {
				assert.True(t, seen[f], "%s/%s: missing common %s", code, sub, f)
			}
			for _, f := range entry.Sub[sub] {
				assert.True(t, seen[f], "%s/%s: missing %s", code, sub, f)
			}
		}
	}

	gen := FieldsByCategory("machinery", "generator")
	count := 0
	for _, f := range gen {
		if f == "power_rating" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestIsFieldVisible(t *testing.T) {
	assert.True(t, IsFieldVisible("vehicles", "truck", "payload_capacity"))
	assert.True(t, IsFieldVisible("vehicles", "truck", "VIN"))
	assert.False(t, IsFieldVisible("vehicles", "car", "payload_capacity"))
	assert.True(t, IsFieldVisible("unknown", "", "description"))
}

func TestUnknownFields(t *testing.T) {
	specs := map[string]string{"cpu": "i7", "ram": "16GB", "wheels": "4", "axle_count": "2"}
	assert.Equal(t, []string{"axle_count", "wheels"}, UnknownFields("it-equipment", "laptop", specs))
	assert.Empty(t, UnknownFields("it-equipment", "laptop", map[string]string{"cpu": "i5"}))
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, len(fieldsByCategory)-1)
	assert.Equal(t, "buildings", cats[0].Code)
	for _, c := range cats {
		assert.NotEqual(t, DefaultCategory, c.Code)
		assert.True(t, IsKnownCategory(c.Code))
	}
	assert.False(t, IsKnownCategory(DefaultCategory))
}

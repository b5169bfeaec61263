package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code     string  `validate:"omitempty,asset_code"`
	Currency string  `validate:"required,currency_code"`
	Status   *string `validate:"omitempty,asset_status"`
	Unit     string  `validate:"omitempty,op_unit"`
}

func TestRegisterCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	status := "active"
	assert.NoError(t, v.Struct(sample{Code: "AST-2026-000123", Currency: "USD", Status: &status, Unit: "pallet"}))
	assert.NoError(t, v.Struct(sample{Currency: "TJS"}))

	assert.Error(t, v.Struct(sample{Code: "ast-26-1", Currency: "USD"}))
	assert.Error(t, v.Struct(sample{Currency: "XXX"}))

	bad := "lost"
	assert.Error(t, v.Struct(sample{Currency: "USD", Status: &bad}))
	assert.Error(t, v.Struct(sample{Currency: "USD", Unit: "barrel"}))
}

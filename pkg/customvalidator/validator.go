// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"asset-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

var assetCodeRegex = regexp.MustCompile(`^[A-Z]{2,5}-\d{4}-\d{3,8}$`)

// RegisterCustomValidations регистрирует правила предметной области в
// переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"asset_code":      isAssetCode,
		"currency_code":   oneOf(constants.Currencies),
		"asset_status":    oneOf(constants.AssetStatuses),
		"work_status":     oneOf(constants.WorkStatuses),
		"op_unit":         oneOf(constants.Units),
		"op_type":         oneOf(constants.OperationTypes),
		"priority":        oneOf(constants.TaskPriorities),
		"purchase_status": oneOf(constants.PurchaseStatuses),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isAssetCode(fl validator.FieldLevel) bool {
	return assetCodeRegex.MatchString(fl.Field().String())
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}
}

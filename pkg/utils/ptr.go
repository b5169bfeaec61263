package utils

import "math"

func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

func ToPtr[T any](v T) *T {
	return &v
}

// RoundMoney округляет сумму до копеек.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func IsOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// Package depreciation считает амортизацию основных средств линейным методом
// и методом двойного уменьшаемого остатка.
package depreciation

import (
	"errors"
	"math"
	"strings"
	"time"
)

type Method string

const (
	StraightLine     Method = "straight-line"
	DecliningBalance Method = "declining-balance"
)

// Значения из формы регистрации. Всё, кроме declining-balance, считается линейно.
var MethodOptions = []string{
	string(StraightLine),
	string(DecliningBalance),
	"sum-of-years-digits",
	"units-of-production",
}

const daysPerYear = 365.25

// MaxUsefulLifeYears ограничивает срок полезного использования; график строится
// по строке на год.
const MaxUsefulLifeYears = 100

var (
	ErrInvalidUsefulLife = errors.New("срок полезного использования должен быть от 1 до 100 лет")
	ErrInvalidAmounts    = errors.New("ликвидационная стоимость должна быть в диапазоне от 0 до цены покупки")
)

type Input struct {
	PurchasePrice   float64
	SalvageValue    float64
	UsefulLifeYears int
	PurchaseDate    time.Time
	AsOf            time.Time
	Method          Method
}

type Result struct {
	Method                  Method  `json:"method"`
	AnnualDepreciation      float64 `json:"annual_depreciation"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	BookValue               float64 `json:"book_value"`
	YearsElapsed            float64 `json:"years_elapsed"`
	FullyDepreciated        bool    `json:"fully_depreciated"`
}

type ScheduleEntry struct {
	Year                    int     `json:"year"`
	BeginningValue          float64 `json:"beginning_value"`
	Depreciation            float64 `json:"depreciation"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	EndingBookValue         float64 `json:"ending_book_value"`
}

func NormalizeMethod(raw string) Method {
	switch Method(strings.ToLower(strings.TrimSpace(raw))) {
	case DecliningBalance:
		return DecliningBalance
	default:
		return StraightLine
	}
}

// YearsBetween возвращает дробное число лет между датами, 0 если to раньше from.
func YearsBetween(from, to time.Time) float64 {
	if !to.After(from) {
		return 0
	}
	return to.Sub(from).Hours() / 24 / daysPerYear
}

func validate(in Input) error {
	if in.UsefulLifeYears <= 0 || in.UsefulLifeYears > MaxUsefulLifeYears {
		return ErrInvalidUsefulLife
	}
	if in.PurchasePrice < 0 || in.SalvageValue < 0 || in.SalvageValue > in.PurchasePrice {
		return ErrInvalidAmounts
	}
	return nil
}

func Calculate(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	method := NormalizeMethod(string(in.Method))
	years := YearsBetween(in.PurchaseDate, in.AsOf)
	depreciable := in.PurchasePrice - in.SalvageValue

	res := Result{Method: method, YearsElapsed: years}

	switch method {
	case DecliningBalance:
		rate := 2 / float64(in.UsefulLifeYears)
		remaining := in.PurchasePrice
		whole := int(math.Floor(years))
		for i := 0; i < whole && i < in.UsefulLifeYears; i++ {
			remaining = math.Max(remaining-remaining*rate, in.SalvageValue)
		}
		if whole >= in.UsefulLifeYears {
			remaining = in.SalvageValue
		}
		next := math.Max(remaining-remaining*rate, in.SalvageValue)
		if whole == in.UsefulLifeYears-1 {
			next = in.SalvageValue
		}
		res.BookValue = remaining
		res.AccumulatedDepreciation = in.PurchasePrice - remaining
		res.AnnualDepreciation = remaining - next
	default:
		annual := depreciable / float64(in.UsefulLifeYears)
		res.AnnualDepreciation = annual
		res.AccumulatedDepreciation = math.Min(annual*years, depreciable)
		res.BookValue = in.PurchasePrice - res.AccumulatedDepreciation
	}

	if res.BookValue < in.SalvageValue {
		res.BookValue = in.SalvageValue
		res.AccumulatedDepreciation = depreciable
	}
	res.FullyDepreciated = res.BookValue <= in.SalvageValue && depreciable > 0

	return res, nil
}

// Schedule строит погодовой график на весь срок полезного использования.
func Schedule(in Input) ([]ScheduleEntry, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	method := NormalizeMethod(string(in.Method))
	depreciable := in.PurchasePrice - in.SalvageValue
	rate := 2 / float64(in.UsefulLifeYears)

	entries := make([]ScheduleEntry, 0, in.UsefulLifeYears)
	value := in.PurchasePrice
	accumulated := 0.0

	for year := 1; year <= in.UsefulLifeYears; year++ {
		var dep float64
		switch method {
		case DecliningBalance:
			dep = value * rate
			if year == in.UsefulLifeYears {
				// последний год списывает остаток до ликвидационной стоимости
				dep = value - in.SalvageValue
			}
		default:
			dep = depreciable / float64(in.UsefulLifeYears)
		}
		if value-dep < in.SalvageValue {
			dep = value - in.SalvageValue
		}
		if dep < 0 {
			dep = 0
		}

		accumulated += dep
		entry := ScheduleEntry{
			Year:                    year,
			BeginningValue:          value,
			Depreciation:            dep,
			AccumulatedDepreciation: accumulated,
			EndingBookValue:         in.PurchasePrice - accumulated,
		}
		entries = append(entries, entry)
		value = entry.EndingBookValue
	}

	return entries, nil
}

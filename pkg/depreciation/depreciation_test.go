package depreciation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

var purchased = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func yearsAfter(years float64) time.Time {
	return purchased.Add(time.Duration(years * daysPerYear * 24 * float64(time.Hour)))
}

func TestCalculate_StraightLineExample(t *testing.T) {
	res, err := Calculate(Input{
		PurchasePrice:   850_000_000,
		SalvageValue:    85_000_000,
		UsefulLifeYears: 10,
		PurchaseDate:    purchased,
		AsOf:            purchased.Add(time.Duration(5*daysPerYear*24) * time.Hour),
		Method:          StraightLine,
	})
	require.NoError(t, err)

	assert.InDelta(t, 76_500_000, res.AnnualDepreciation, eps)
	assert.InDelta(t, 382_500_000, res.AccumulatedDepreciation, eps)
	assert.InDelta(t, 467_500_000, res.BookValue, eps)
	assert.InDelta(t, 5, res.YearsElapsed, eps)
	assert.False(t, res.FullyDepreciated)
}

func TestCalculate_StraightLineProperties(t *testing.T) {
	in := Input{PurchasePrice: 12_000, SalvageValue: 2_000, UsefulLifeYears: 4, PurchaseDate: purchased}

	prev := in.PurchasePrice
	for step := 0.0; step <= 8; step += 0.25 {
		in.AsOf = yearsAfter(step)
		res, err := Calculate(in)
		require.NoError(t, err)

		assert.LessOrEqual(t, res.BookValue, prev+eps, "book value must not grow (t=%v)", step)
		assert.GreaterOrEqual(t, res.BookValue, in.SalvageValue, "book value below salvage (t=%v)", step)
		assert.InDelta(t, in.PurchasePrice, res.AccumulatedDepreciation+res.BookValue, eps)
		prev = res.BookValue
	}

	assert.InDelta(t, in.SalvageValue, prev, eps)
}

func TestCalculate_FullyDepreciatedAfterLife(t *testing.T) {
	res, err := Calculate(Input{PurchasePrice: 1000, SalvageValue: 100, UsefulLifeYears: 3, PurchaseDate: purchased, AsOf: yearsAfter(10)})
	require.NoError(t, err)
	assert.InDelta(t, 100, res.BookValue, eps)
	assert.InDelta(t, 900, res.AccumulatedDepreciation, eps)
	assert.True(t, res.FullyDepreciated)
}

func TestCalculate_BeforePurchaseDate(t *testing.T) {
	res, err := Calculate(Input{PurchasePrice: 1000, SalvageValue: 100, UsefulLifeYears: 3, PurchaseDate: purchased, AsOf: purchased.AddDate(-1, 0, 0)})
	require.NoError(t, err)
	assert.Zero(t, res.YearsElapsed)
	assert.InDelta(t, 1000, res.BookValue, eps)
}

func TestCalculate_DecliningBalance(t *testing.T) {
	in := Input{
		PurchasePrice:   10_000,
		SalvageValue:    1_000,
		UsefulLifeYears: 5,
		PurchaseDate:    purchased,
		Method:          DecliningBalance,
	}

	// rate = 0.4: 10000 -> 6000 -> 3600
	in.AsOf = yearsAfter(2.5)
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, DecliningBalance, res.Method)
	assert.InDelta(t, 3_600, res.BookValue, eps)
	assert.InDelta(t, 6_400, res.AccumulatedDepreciation, eps)
	assert.InDelta(t, 1_440, res.AnnualDepreciation, eps)

	// 3600 -> 2160 -> 1296 -> (последний год) 1000
	in.AsOf = yearsAfter(4.1)
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 1_296, res.BookValue, eps)
	assert.InDelta(t, 296, res.AnnualDepreciation, eps)

	in.AsOf = yearsAfter(7)
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 1_000, res.BookValue, eps)
	assert.True(t, res.FullyDepreciated)
}

func TestCalculate_DecliningBalanceNeverBelowSalvage(t *testing.T) {
	in := Input{PurchasePrice: 5_000, SalvageValue: 2_500, UsefulLifeYears: 2, PurchaseDate: purchased, Method: DecliningBalance}
	for y := 0.0; y < 5; y += 0.5 {
		in.AsOf = yearsAfter(y)
		res, err := Calculate(in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.BookValue, in.SalvageValue)
	}
}

func TestCalculate_UnknownMethodFallsBackToStraightLine(t *testing.T) {
	res, err := Calculate(Input{PurchasePrice: 1000, SalvageValue: 0, UsefulLifeYears: 10, PurchaseDate: purchased, AsOf: yearsAfter(1), Method: "units-of-production"})
	require.NoError(t, err)
	assert.Equal(t, StraightLine, res.Method)
	assert.InDelta(t, 100, res.AnnualDepreciation, eps)
}

func TestCalculate_InvalidInput(t *testing.T) {
	_, err := Calculate(Input{PurchasePrice: 1000, UsefulLifeYears: 0})
	assert.ErrorIs(t, err, ErrInvalidUsefulLife)

	_, err = Calculate(Input{PurchasePrice: 1000, SalvageValue: 2000, UsefulLifeYears: 5})
	assert.ErrorIs(t, err, ErrInvalidAmounts)

	_, err = Calculate(Input{PurchasePrice: -1, UsefulLifeYears: 5})
	assert.ErrorIs(t, err, ErrInvalidAmounts)
}

func TestSchedule_StraightLine(t *testing.T) {
	entries, err := Schedule(Input{PurchasePrice: 850_000_000, SalvageValue: 85_000_000, UsefulLifeYears: 10})
	require.NoError(t, err)
	require.Len(t, entries, 10)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Year)
		assert.InDelta(t, 76_500_000, e.Depreciation, eps)
		assert.InDelta(t, 850_000_000, e.AccumulatedDepreciation+e.EndingBookValue, eps)
	}
	assert.InDelta(t, 467_500_000, entries[4].EndingBookValue, eps)
	assert.InDelta(t, 85_000_000, entries[9].EndingBookValue, eps)
}

func TestSchedule_DecliningBalanceEndsAtSalvage(t *testing.T) {
	entries, err := Schedule(Input{PurchasePrice: 10_000, SalvageValue: 1_000, UsefulLifeYears: 5, Method: DecliningBalance})
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.InDelta(t, 4_000, entries[0].Depreciation, eps)
	assert.InDelta(t, 6_000, entries[0].EndingBookValue, eps)
	assert.InDelta(t, 1_000, entries[4].EndingBookValue, eps)
	for i := 1; i < len(entries); i++ {
		assert.InDelta(t, entries[i-1].EndingBookValue, entries[i].BeginningValue, eps)
		assert.LessOrEqual(t, entries[i].EndingBookValue, entries[i-1].EndingBookValue)
	}
}

func TestSchedule_Invalid(t *testing.T) {
	_, err := Schedule(Input{PurchasePrice: 100, UsefulLifeYears: -3})
	assert.ErrorIs(t, err, ErrInvalidUsefulLife)
}

func TestUsefulLifeAboveMaximum(t *testing.T) {
	in := Input{PurchasePrice: 1000, UsefulLifeYears: MaxUsefulLifeYears + 1, PurchaseDate: purchased, AsOf: yearsAfter(1)}

	_, err := Calculate(in)
	assert.ErrorIs(t, err, ErrInvalidUsefulLife)

	entries, err := Schedule(in)
	assert.ErrorIs(t, err, ErrInvalidUsefulLife)
	assert.Nil(t, entries)

	in.UsefulLifeYears = MaxUsefulLifeYears
	entries, err = Schedule(in)
	require.NoError(t, err)
	assert.Len(t, entries, MaxUsefulLifeYears)
}

func TestDecliningBalance_CalculateMatchesSchedule(t *testing.T) {
	for _, life := range []int{1, 2, 5, 10} {
		t.Run(fmt.Sprintf("life=%d", life), func(t *testing.T) {
			in := Input{PurchasePrice: 12_000, SalvageValue: 1_500, UsefulLifeYears: life, PurchaseDate: purchased, Method: DecliningBalance}
			entries, err := Schedule(in)
			require.NoError(t, err)
			require.Len(t, entries, life)

			for year := 0; year <= life; year++ {
				in.AsOf = yearsAfter(float64(year) + 0.001)
				res, err := Calculate(in)
				require.NoError(t, err)

				want := in.PurchasePrice
				if year > 0 {
					want = entries[year-1].EndingBookValue
				}
				assert.InDelta(t, want, res.BookValue, eps, "год %d", year)
				assert.InDelta(t, in.PurchasePrice-want, res.AccumulatedDepreciation, eps, "год %d", year)
				if year < life {
					assert.InDelta(t, entries[year].Depreciation, res.AnnualDepreciation, eps, "год %d", year)
				}
			}
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, DecliningBalance, NormalizeMethod(" Declining-Balance "))
	assert.Equal(t, StraightLine, NormalizeMethod(""))
	assert.Equal(t, StraightLine, NormalizeMethod("sum-of-years-digits"))
}

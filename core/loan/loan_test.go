package loan

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincalc/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestComputeTwentyYearMortgage(t *testing.T) {
	result := Compute(Input{
		Principal:  d("100000"),
		AnnualRate: d("8.5"),
		Tenure:     d("20"),
		Unit:       Years,
	})

	assert.Equal(t, 240, result.Months)
	assertDecimal(t, "0.0070833333333333", result.MonthlyRate)
	assertDecimal(t, "867.82", result.EMI)
	assertDecimal(t, "108277.58", result.TotalInterest)
	assertDecimal(t, "208277.58", result.TotalPayable)

	// recompute from the closed form in float64
	r := 8.5 / 12 / 100
	factor := math.Pow(1+r, 240)
	emi := 100000 * r * factor / (factor - 1)
	assert.InDelta(t, emi, result.EMI.InexactFloat64(), 0.01)
	assert.InDelta(t, emi*240-100000, result.TotalInterest.InexactFloat64(), 1.0)
	assert.InDelta(t, 108279, result.TotalInterest.InexactFloat64(), 2.0)

	require.Len(t, result.Schedule, 240)
	first := result.Schedule[0]
	assert.Equal(t, 1, first.Month)
	assertDecimal(t, "867.82", first.EMI)
	assertDecimal(t, "708.33", first.Interest)
	assertDecimal(t, "159.49", first.Principal)
	assertDecimal(t, "99840.51", first.Balance)

	last := result.Schedule[239]
	assert.Equal(t, 240, last.Month)
	assertDecimal(t, "6.10", last.Interest)
	assertDecimal(t, "861.72", last.Principal)
	assert.True(t, last.Balance.IsZero())
}

func TestComputeShares(t *testing.T) {
	result := Compute(Input{Principal: d("100000"), AnnualRate: d("8.5"), Tenure: d("240"), Unit: Months})

	assertDecimal(t, "48.01", result.PrincipalShare)
	assertDecimal(t, "51.99", result.InterestShare)
}

func TestComputeZeroRate(t *testing.T) {
	result := Compute(Input{Principal: d("1000"), AnnualRate: decimal.Zero, Tenure: d("3"), Unit: Months})

	assertDecimal(t, d("1000").Div(d("3")).Round(2).String(), result.EMI)
	assertDecimal(t, "333.33", result.EMI)
	assert.True(t, result.TotalInterest.IsZero())
	assertDecimal(t, "1000", result.TotalPayable)
	assertDecimal(t, "100", result.PrincipalShare)
	assert.True(t, result.MonthlyRate.IsZero())

	require.Len(t, result.Schedule, 3)
	wantPrincipal := []string{"333.33", "333.34", "333.33"}
	wantBalance := []string{"666.67", "333.33", "0"}
	for i, row := range result.Schedule {
		assert.True(t, row.Interest.IsZero())
		assertDecimal(t, wantPrincipal[i], row.Principal, "month %d", row.Month)
		assertDecimal(t, wantBalance[i], row.Balance, "month %d", row.Month)
	}
}

func TestComputeZeroRateExactDivision(t *testing.T) {
	result := Compute(Input{Principal: d("1200"), AnnualRate: decimal.Zero, Tenure: d("1"), Unit: Years})
	assertDecimal(t, "100", result.EMI)
	assert.True(t, result.TotalInterest.IsZero())
}

func TestComputeShortLoan(t *testing.T) {
	result := Compute(Input{Principal: d("10000"), AnnualRate: d("12"), Tenure: d("24"), Unit: Months})

	assertDecimal(t, "470.73", result.EMI)
	assertDecimal(t, "1297.63", result.TotalInterest)
	assertDecimal(t, "11297.63", result.TotalPayable)
	assertDecimal(t, "100", result.Schedule[0].Interest)
	assertDecimal(t, "9629.27", result.Schedule[0].Balance)
}

func TestComputeSingleMonth(t *testing.T) {
	result := Compute(Input{Principal: d("1000"), AnnualRate: d("12"), Tenure: d("1"), Unit: Months})

	assertDecimal(t, "1010", result.EMI)
	assertDecimal(t, "10", result.TotalInterest)
	require.Len(t, result.Schedule, 1)
	assertDecimal(t, "1000", result.Schedule[0].Principal)
	assertDecimal(t, "10", result.Schedule[0].Interest)
	assert.True(t, result.Schedule[0].Balance.IsZero())
}

func TestScheduleInvariants(t *testing.T) {
	principals := []string{"1000", "12345.67", "100000", "5000000"}
	rates := []string{"0", "0.5", "8.5", "24", "99"}
	tenures := []int{1, 7, 60, 360}

	for _, p := range principals {
		for _, rate := range rates {
			for _, n := range tenures {
				name := fmt.Sprintf("P=%s r=%s n=%d", p, rate, n)
				t.Run(name, func(t *testing.T) {
					result := Compute(Input{
						Principal:  d(p),
						AnnualRate: d(rate),
						Tenure:     decimal.NewFromInt(int64(n)),
						Unit:       Months,
					})
					require.Len(t, result.Schedule, n)

					sum := decimal.Zero
					prev := d(p)
					for _, row := range result.Schedule {
						sum = sum.Add(row.Principal)
						assert.False(t, row.Balance.IsNegative(), "month %d balance negative", row.Month)
						assert.True(t, row.Balance.LessThanOrEqual(prev), "month %d balance increased", row.Month)
						prev = row.Balance

						// a row may miss the installment by at most one cent of rounding
						gap := row.Principal.Add(row.Interest).Sub(row.EMI).Abs()
						assert.True(t, gap.LessThanOrEqual(d("0.01")), "month %d: %s + %s vs EMI %s",
							row.Month, row.Principal, row.Interest, row.EMI)
					}

					diff := sum.Sub(d(p)).Abs()
					assert.True(t, diff.LessThanOrEqual(d("0.01")), "principal sum %s", sum)

					final := result.Schedule[n-1].Balance
					assert.True(t, final.Abs().LessThanOrEqual(d("0.01")), "final balance %s", final)
				})
			}
		}
	}
}

func TestTenureMonths(t *testing.T) {
	tests := []struct {
		tenure string
		unit   TenureUnit
		want   int
	}{
		{"20", Years, 240},
		{"1.5", Years, 18},
		{"2.3", Years, 28}, // 27.6 months
		{"36", Months, 36},
		{"6.5", Months, 7},
		{"0.4", Months, 0},
	}

	for _, tt := range tests {
		t.Run(tt.tenure+string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.want, TenureMonths(d(tt.tenure), tt.unit))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Input{Principal: d("100000"), AnnualRate: d("8.5"), Tenure: d("20"), Unit: Years}

	tests := []struct {
		name   string
		mutate func(in *Input)
		field  string
	}{
		{"valid", func(in *Input) {}, ""},
		{"zero rate is valid", func(in *Input) { in.AnnualRate = decimal.Zero }, ""},
		{"zero principal", func(in *Input) { in.Principal = decimal.Zero }, "principal"},
		{"negative principal", func(in *Input) { in.Principal = d("-1") }, "principal"},
		{"huge principal", func(in *Input) { in.Principal = d("1e13") }, "principal"},
		{"negative rate", func(in *Input) { in.AnnualRate = d("-0.1") }, "annual_rate"},
		{"rate above limit", func(in *Input) { in.AnnualRate = d("150") }, "annual_rate"},
		{"zero tenure", func(in *Input) { in.Tenure = decimal.Zero }, "tenure"},
		{"tenure under a month", func(in *Input) { in.Tenure, in.Unit = d("0.2"), Months }, "tenure"},
		{"tenure above limit", func(in *Input) { in.Tenure = d("51") }, "tenure"},
		{"unknown unit", func(in *Input) { in.Unit = "weeks" }, "unit"},
		{"rate exponent too small", func(in *Input) { in.AnnualRate = d("1e-4000000") }, "annual_rate"},
		{"principal exponent too large", func(in *Input) { in.Principal = d("1e400000000") }, "principal"},
		{"tenure exponent too small", func(in *Input) { in.Tenure = d("5e-40") }, "tenure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate(DefaultLimits())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
			e, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, e.Field())
		})
	}
}

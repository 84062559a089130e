package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimasiakin/pd-bot/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestReconstructFromOpeningRow(t *testing.T) {
	txns := []model.Transaction{
		{Date: date(2024, 1, 1), Balance: nd("1000"), Description: "Входящий остаток"},
		{Date: date(2024, 1, 2), Debit: nd("200")},
		{Date: date(2024, 1, 2), Credit: nd("300")},
	}

	rec := Reconstruct(txns, decimal.Zero)

	require.Len(t, rec.Daily, 2)
	assert.True(t, rec.Daily["2024-01-01"].Equal(dec("1000")))
	assert.True(t, rec.Daily["2024-01-02"].Equal(dec("900")), "last balance of the day wins")

	assert.True(t, rec.Summary.DailyMin.Decimal.Equal(dec("900")))
	assert.True(t, rec.Summary.DailyMax.Decimal.Equal(dec("1000")))
	assert.True(t, rec.Summary.DailyAvg.Decimal.Equal(dec("950")))
	assert.True(t, rec.Summary.ByMonthEnd["2024-01"].Equal(dec("900")))
	assert.True(t, rec.Summary.ByWeekEnd["2024-W01"].Equal(dec("900")))

	assert.False(t, rec.Unknown.Valid)
	assert.Empty(t, rec.Stress)
}

func TestDeclaredBalanceOverridesRunning(t *testing.T) {
	txns := []model.Transaction{
		{Date: date(2024, 2, 1), Debit: nd("100")},
		{Date: date(2024, 2, 2), Debit: nd("9999"), Balance: nd("500")},
		{Date: date(2024, 2, 3), Credit: nd("50")},
	}

	rec := Reconstruct(txns, decimal.Zero)

	assert.True(t, rec.Daily["2024-02-01"].Equal(dec("100")))
	assert.True(t, rec.Daily["2024-02-02"].Equal(dec("500")), "declared balance wins over accumulation")
	assert.True(t, rec.Daily["2024-02-03"].Equal(dec("450")))
}

func TestReconstructUndatedBucket(t *testing.T) {
	txns := []model.Transaction{
		{Debit: nd("50"), Description: "без даты"},
		{Date: date(2024, 1, 10), Debit: nd("100")},
	}

	rec := Reconstruct(txns, decimal.Zero)

	require.True(t, rec.Unknown.Valid)
	assert.True(t, rec.Unknown.Decimal.Equal(dec("50")))
	assert.True(t, rec.Summary.ByMonthEnd[UnknownPeriod].Equal(dec("50")))
	assert.True(t, rec.Summary.ByWeekEnd[UnknownPeriod].Equal(dec("50")))

	// Undated rows still advance the running balance.
	require.Len(t, rec.Daily, 1)
	assert.True(t, rec.Daily["2024-01-10"].Equal(dec("150")))

	// They do not participate in the daily statistics.
	assert.True(t, rec.Summary.DailyMin.Decimal.Equal(dec("150")))
	assert.True(t, rec.Summary.DailyAvg.Decimal.Equal(dec("150")))
}

func TestStressTest(t *testing.T) {
	txns := []model.Transaction{
		{Date: date(2024, 1, 31), Balance: nd("200")},
		{Date: date(2024, 2, 29), Balance: nd("800")},
	}

	rec := Reconstruct(txns, dec("500"))

	require.Len(t, rec.Stress, 2)

	jan := rec.Stress["2024-01"]
	assert.True(t, jan.EndBalanceAfterPayment.Equal(dec("-300")))
	assert.True(t, jan.Shortfall.Equal(dec("300")))
	assert.True(t, jan.DefaultRisk)

	feb := rec.Stress["2024-02"]
	assert.True(t, feb.EndBalanceAfterPayment.Equal(dec("300")))
	assert.True(t, feb.Shortfall.IsZero())
	assert.False(t, feb.DefaultRisk)
}

func TestStressSkippedWithoutObligation(t *testing.T) {
	txns := []model.Transaction{{Date: date(2024, 1, 1), Debit: nd("10")}}

	assert.Empty(t, Reconstruct(txns, decimal.Zero).Stress)
	assert.Empty(t, Reconstruct(txns, dec("-5")).Stress)
}

func TestReconstructEmpty(t *testing.T) {
	rec := Reconstruct(nil, decimal.Zero)

	assert.Empty(t, rec.Daily)
	assert.False(t, rec.Unknown.Valid)
	assert.False(t, rec.Summary.DailyMin.Valid)
	assert.Empty(t, rec.Summary.ByMonthEnd)
}

func TestPeriodKeys(t *testing.T) {
	assert.Equal(t, "2024-01", MonthKey(date(2024, 1, 15)))
	// 2024-01-01 falls into ISO week 1 of 2024.
	assert.Equal(t, "2024-W01", WeekKey(date(2024, 1, 1)))
	// 2023-01-01 belongs to ISO week 52 of 2022.
	assert.Equal(t, "2022-W52", WeekKey(date(2023, 1, 1)))
}

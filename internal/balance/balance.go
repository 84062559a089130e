// Package balance reconstructs running balances from a chronologically
// ordered transaction stream.
//
// Banks report true balances only sporadically. When a row carries a
// declared balance it wins over the accumulated value; between declared
// points the balance is advanced by debit/credit deltas.
package balance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
	"github.com/dmitriimasiakin/pd-bot/internal/model"
)

// UnknownPeriod is the synthetic bucket for transactions without a
// recoverable date.
const UnknownPeriod = "unknown"

// openingMarkers flag a leading transaction as the opening balance row.
var openingMarkers = []string{"входящ", "начальн"}

// openingScanRows is how many leading transactions are checked for an
// opening marker.
const openingScanRows = 5

// Summary aggregates the reconstructed daily balances.
type Summary struct {
	DailyMin   decimal.NullDecimal        `json:"daily_min"`
	DailyMax   decimal.NullDecimal        `json:"daily_max"`
	DailyAvg   decimal.NullDecimal        `json:"daily_avg"`
	ByMonthEnd map[string]decimal.Decimal `json:"by_month_end"`
	ByWeekEnd  map[string]decimal.Decimal `json:"by_week_end"`
}

// Stress is the effect of one periodic obligation on a period-end balance.
type Stress struct {
	EndBalanceAfterPayment decimal.Decimal `json:"end_balance_after_payment"`
	Shortfall              decimal.Decimal `json:"shortfall"`
	DefaultRisk            bool            `json:"default_risk"`
}

// Reconstruction is the full balance picture for one statement.
type Reconstruction struct {
	// Daily maps "2006-01-02" to the last running balance of that day.
	Daily map[string]decimal.Decimal `json:"daily"`
	// Unknown holds the last running balance among undated
	// transactions, when any exist.
	Unknown decimal.NullDecimal `json:"unknown"`
	Summary Summary             `json:"summary"`
	// Stress is keyed by month; empty unless a positive obligation was
	// supplied.
	Stress map[string]Stress `json:"stress_test,omitempty"`
}

// Reconstruct folds transactions into daily balances, period-end
// snapshots, and an optional obligation stress test. Transactions must
// already be in chronological order, which extraction guarantees.
func Reconstruct(txns []model.Transaction, payment decimal.Decimal) Reconstruction {
	opening := findOpening(txns)

	daily := make(map[time.Time]decimal.Decimal)
	unknown := decimal.NullDecimal{}
	running := opening
	for _, t := range txns {
		if t.Balance.Valid {
			// Declared balances override accumulation.
			running = t.Balance.Decimal
		} else {
			running = running.Add(t.DebitOrZero()).Sub(t.CreditOrZero())
		}
		if t.Date.IsZero() {
			unknown = decimal.NullDecimal{Decimal: running, Valid: true}
		} else {
			daily[lexer.Day(t.Date)] = running
		}
	}

	rec := Reconstruction{
		Daily:   make(map[string]decimal.Decimal, len(daily)),
		Unknown: unknown,
		Summary: summarize(daily, unknown),
	}
	for d, v := range daily {
		rec.Daily[d.Format(model.DateFormat)] = v
	}

	if payment.IsPositive() {
		rec.Stress = stressTest(rec.Summary.ByMonthEnd, payment)
	}
	return rec
}

// findOpening scans the leading transactions for an opening-balance
// marker. The declared balance wins; failing that, debit−credit of the
// marker row; failing that, zero.
func findOpening(txns []model.Transaction) decimal.Decimal {
	limit := len(txns)
	if limit > openingScanRows {
		limit = openingScanRows
	}
	for _, t := range txns[:limit] {
		if !containsAny(t.Description, openingMarkers) {
			continue
		}
		if t.Balance.Valid {
			return t.Balance.Decimal
		}
		return t.DebitOrZero().Sub(t.CreditOrZero())
	}
	return decimal.Zero
}

func summarize(daily map[time.Time]decimal.Decimal, unknown decimal.NullDecimal) Summary {
	s := Summary{
		ByMonthEnd: make(map[string]decimal.Decimal),
		ByWeekEnd:  make(map[string]decimal.Decimal),
	}

	if unknown.Valid {
		s.ByMonthEnd[UnknownPeriod] = unknown.Decimal
		s.ByWeekEnd[UnknownPeriod] = unknown.Decimal
	}

	if len(daily) == 0 {
		return s
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	sum := decimal.Zero
	min, max := daily[dates[0]], daily[dates[0]]
	for _, d := range dates {
		v := daily[d]
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
		// Ascending iteration makes this last-observation-carried-
		// forward per period.
		s.ByMonthEnd[MonthKey(d)] = v
		s.ByWeekEnd[WeekKey(d)] = v
	}

	s.DailyMin = decimal.NullDecimal{Decimal: min, Valid: true}
	s.DailyMax = decimal.NullDecimal{Decimal: max, Valid: true}
	s.DailyAvg = decimal.NullDecimal{
		Decimal: sum.Div(decimal.NewFromInt(int64(len(dates)))),
		Valid:   true,
	}
	return s
}

func stressTest(byMonthEnd map[string]decimal.Decimal, payment decimal.Decimal) map[string]Stress {
	stress := make(map[string]Stress, len(byMonthEnd))
	for m, end := range byMonthEnd {
		after := end.Sub(payment)
		cell := Stress{EndBalanceAfterPayment: after}
		if after.IsNegative() {
			cell.Shortfall = after.Neg()
			cell.DefaultRisk = true
		}
		stress[m] = cell
	}
	return stress
}

// MonthKey formats a date's month bucket, e.g. "2024-01".
func MonthKey(d time.Time) string {
	return d.Format("2006-01")
}

// WeekKey formats a date's ISO week bucket, e.g. "2024-W03".
func WeekKey(d time.Time) string {
	y, w := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	low := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

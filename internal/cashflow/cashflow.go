// Package cashflow computes inflow/outflow aggregates and counterparty
// concentration over a normalized transaction stream.
package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmitriimasiakin/pd-bot/internal/balance"
	"github.com/dmitriimasiakin/pd-bot/internal/model"
)

// Summary holds total and per-month cash movements. Debits are inflows,
// credits are outflows; transactions without a date contribute to totals
// but not to the monthly maps.
type Summary struct {
	CashIn     decimal.Decimal            `json:"cash_in"`
	CashOut    decimal.Decimal            `json:"cash_out"`
	Delta      decimal.Decimal            `json:"delta"`
	ByMonthIn  map[string]decimal.Decimal `json:"by_month_in"`
	ByMonthOut map[string]decimal.Decimal `json:"by_month_out"`
}

// Analyze sums cash movements over all transactions.
func Analyze(txns []model.Transaction) Summary {
	s := Summary{
		CashIn:     decimal.Zero,
		CashOut:    decimal.Zero,
		ByMonthIn:  make(map[string]decimal.Decimal),
		ByMonthOut: make(map[string]decimal.Decimal),
	}
	for _, t := range txns {
		s.CashIn = s.CashIn.Add(t.DebitOrZero())
		s.CashOut = s.CashOut.Add(t.CreditOrZero())
		if t.Date.IsZero() {
			continue
		}
		m := balance.MonthKey(t.Date)
		if t.Debit.Valid && !t.Debit.Decimal.IsZero() {
			s.ByMonthIn[m] = s.ByMonthIn[m].Add(t.Debit.Decimal)
		}
		if t.Credit.Valid && !t.Credit.Decimal.IsZero() {
			s.ByMonthOut[m] = s.ByMonthOut[m].Add(t.Credit.Decimal)
		}
	}
	s.Delta = s.CashIn.Sub(s.CashOut)
	return s
}

// Ranked is one counterparty in a concentration ranking.
type Ranked struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Share  decimal.Decimal `json:"share"`
}

// Shares are cumulative concentration shares of the largest
// counterparties.
type Shares struct {
	Top1 decimal.Decimal `json:"top1"`
	Top3 decimal.Decimal `json:"top3"`
	Top5 decimal.Decimal `json:"top5"`
}

// Ranking is a top-N concentration ranking with cumulative shares.
type Ranking struct {
	Top           []Ranked `json:"top"`
	Concentration Shares   `json:"concentration"`
}

// CounterpartyReport ranks counterparties separately by inflow and
// outflow.
type CounterpartyReport struct {
	Inflow  Ranking `json:"inflow"`
	Outflow Ranking `json:"outflow"`
}

// Counterparties builds concentration rankings. Transactions without a
// counterparty are excluded; shares are taken against the summary totals.
func Counterparties(txns []model.Transaction, totals Summary) CounterpartyReport {
	inflow := make(map[string]decimal.Decimal)
	outflow := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Counterparty == "" {
			continue
		}
		if t.Debit.Valid && !t.Debit.Decimal.IsZero() {
			inflow[t.Counterparty] = inflow[t.Counterparty].Add(t.Debit.Decimal)
		}
		if t.Credit.Valid && !t.Credit.Decimal.IsZero() {
			outflow[t.Counterparty] = outflow[t.Counterparty].Add(t.Credit.Decimal)
		}
	}
	return CounterpartyReport{
		Inflow:  TopWithShares(inflow, totals.CashIn, 5),
		Outflow: TopWithShares(outflow, totals.CashOut, 5),
	}
}

// TopWithShares ranks counterparties descending by amount, keeps the top
// k, and reports each share of total plus cumulative top1/top3/top5.
// Equal amounts rank by name so output is reproducible.
func TopWithShares(amounts map[string]decimal.Decimal, total decimal.Decimal, k int) Ranking {
	names := make([]string, 0, len(amounts))
	for name := range amounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := amounts[names[i]], amounts[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})
	if len(names) > k {
		names = names[:k]
	}

	var r Ranking
	for _, name := range names {
		amt := amounts[name]
		share := decimal.Zero
		if !total.IsZero() {
			share = amt.Div(total)
		}
		r.Top = append(r.Top, Ranked{Name: name, Amount: amt, Share: share})
	}
	for i, ranked := range r.Top {
		if i == 0 {
			r.Concentration.Top1 = ranked.Share
		}
		if i < 3 {
			r.Concentration.Top3 = r.Concentration.Top3.Add(ranked.Share)
		}
		r.Concentration.Top5 = r.Concentration.Top5.Add(ranked.Share)
	}
	return r
}

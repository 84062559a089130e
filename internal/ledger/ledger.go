// Package ledger parses counterparty turnover-balance sheets: opening,
// turnover, and closing totals per counterparty, without per-transaction
// dates.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitriimasiakin/pd-bot/internal/cashflow"
	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
	"github.com/dmitriimasiakin/pd-bot/internal/model"
	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

// AccountType selects which side of the books a ledger describes.
type AccountType string

const (
	// Receivables is a customer ledger (DSO applies).
	Receivables AccountType = "receivables"
	// Payables is a supplier ledger (DPO applies).
	Payables AccountType = "payables"
)

// ledgerRoles is the reduced role set for turnover-balance sheets.
var ledgerRoles = []table.Role{
	table.RoleCounterparty,
	table.RoleDebit,
	table.RoleCredit,
	table.RoleOpening,
	table.RoleTurnover,
	table.RoleClosing,
}

// agingBuckets are the day-range buckets of the aging summary.
var agingBuckets = []string{"0-30", "31-60", "61-90", "90+"}

// turnoverDays is the period assumed for DSO/DPO.
const turnoverDays = 365

// Totals sums the ledger's amount columns.
type Totals struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Opening     decimal.Decimal `json:"opening"`
	Closing     decimal.Decimal `json:"closing"`
}

// Metrics are turnover-based aging metrics; only the one matching the
// account type is set, and neither is when turnover is zero.
type Metrics struct {
	DSO decimal.NullDecimal `json:"dso"`
	DPO decimal.NullDecimal `json:"dpo"`
}

// Report is the parse result for one turnover-balance sheet.
type Report struct {
	AccountType   AccountType                `json:"account_type"`
	Columns       map[string]string          `json:"columns"`
	Entries       []model.LedgerEntry        `json:"entries"`
	Summary       Totals                     `json:"summary"`
	Aging         map[string]decimal.Decimal `json:"aging"`
	Concentration cashflow.Ranking           `json:"concentration"`
	Metrics       Metrics                    `json:"metrics"`
}

// Parser normalizes turnover-balance sheets with the same role-inference
// and lexing machinery as account cards.
type Parser struct {
	resolver *table.Resolver
	conv     lexer.Convention
}

// NewParser creates a ledger Parser. A nil lexicon means the default one.
func NewParser(lexicon table.Lexicon, conv lexer.Convention) *Parser {
	return &Parser{resolver: table.NewResolver(lexicon, conv), conv: conv}
}

// Default returns a Parser tuned for the default locale.
func Default() *Parser {
	return NewParser(nil, lexer.Default())
}

// Parse normalizes a turnover-balance grid. Ledgers put their header in
// row 0; the role pass is keyword-only since amount columns here are too
// alike for content sampling to tell apart.
func (p *Parser) Parse(g table.Grid, at AccountType) Report {
	t := table.Normalize(g)
	roles := p.resolver.ResolveLedger(t, ledgerRoles)
	entries := p.extract(t, roles)

	totals := summarize(entries)
	return Report{
		AccountType:   at,
		Columns:       roles.Names(t, ledgerRoles),
		Entries:       entries,
		Summary:       totals,
		Aging:         aging(entries),
		Concentration: concentration(entries),
		Metrics:       metrics(totals, at),
	}
}

// ParseLines normalizes a flat text payload.
func (p *Parser) ParseLines(lines []string, at AccountType) Report {
	return p.Parse(table.FromLines(lines), at)
}

func (p *Parser) extract(t table.Table, roles table.RoleMap) []model.LedgerEntry {
	amount := func(row []any, role table.Role) decimal.NullDecimal {
		if i, ok := roles.Column(role); ok {
			return p.conv.Amount(row[i])
		}
		return decimal.NullDecimal{}
	}

	var entries []model.LedgerEntry
	for _, row := range t.Rows {
		e := model.LedgerEntry{
			Opening:  amount(row, table.RoleOpening),
			Debit:    amount(row, table.RoleDebit),
			Credit:   amount(row, table.RoleCredit),
			Turnover: amount(row, table.RoleTurnover),
			Closing:  amount(row, table.RoleClosing),
		}
		if i, ok := roles.Column(table.RoleCounterparty); ok {
			e.Counterparty = strings.TrimSpace(table.CellText(row[i]))
		} else {
			e.Counterparty = strings.TrimSpace(table.RowText(row))
		}
		if e.Empty() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func summarize(entries []model.LedgerEntry) Totals {
	t := Totals{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Opening:     decimal.Zero,
		Closing:     decimal.Zero,
	}
	for _, e := range entries {
		t.TotalDebit = t.TotalDebit.Add(orZero(e.Debit))
		t.TotalCredit = t.TotalCredit.Add(orZero(e.Credit))
		t.Opening = t.Opening.Add(orZero(e.Opening))
		t.Closing = t.Closing.Add(orZero(e.Closing))
	}
	return t
}

// aging buckets closing balances by age. Turnover ledgers carry no
// per-transaction dates, so every closing balance lands in the first
// bucket. Kept as-is pending a dates-based aging source.
func aging(entries []model.LedgerEntry) map[string]decimal.Decimal {
	buckets := make(map[string]decimal.Decimal, len(agingBuckets))
	for _, b := range agingBuckets {
		buckets[b] = decimal.Zero
	}
	for _, e := range entries {
		if !e.Closing.Valid || e.Closing.Decimal.IsZero() {
			continue
		}
		buckets[agingBuckets[0]] = buckets[agingBuckets[0]].Add(e.Closing.Decimal)
	}
	return buckets
}

// concentration ranks counterparties by closing plus turnover, the same
// way account-card counterparty concentration is built.
func concentration(entries []model.LedgerEntry) cashflow.Ranking {
	amounts := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, e := range entries {
		amt := orZero(e.Closing).Add(orZero(e.Turnover))
		amounts[e.Counterparty] = amounts[e.Counterparty].Add(amt)
		total = total.Add(amt)
	}
	return cashflow.TopWithShares(amounts, total, 5)
}

func metrics(t Totals, at AccountType) Metrics {
	turnover := t.TotalDebit.Add(t.TotalCredit)
	if !turnover.IsPositive() {
		return Metrics{}
	}
	days := t.Closing.Div(turnover).Mul(decimal.NewFromInt(turnoverDays))
	switch at {
	case Receivables:
		return Metrics{DSO: decimal.NullDecimal{Decimal: days, Valid: true}}
	case Payables:
		return Metrics{DPO: decimal.NullDecimal{Decimal: days, Valid: true}}
	default:
		return Metrics{}
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

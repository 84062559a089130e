// Package statement parses bank account-card exports into a normalized
// transaction stream with cashflow, balance, and counterparty analytics.
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/dmitriimasiakin/pd-bot/internal/balance"
	"github.com/dmitriimasiakin/pd-bot/internal/cashflow"
	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
	"github.com/dmitriimasiakin/pd-bot/internal/model"
	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

// Report is the full parse result for one account card.
type Report struct {
	// Columns maps each role to the resolved column name, "" when
	// unresolved.
	Columns        map[string]string           `json:"columns"`
	Transactions   []model.Transaction         `json:"transactions"`
	Cashflow       cashflow.Summary            `json:"cashflow"`
	Balances       balance.Reconstruction      `json:"balances"`
	Counterparties cashflow.CounterpartyReport `json:"counterparties"`
}

// Parser normalizes account-card payloads. It holds no mutable state, so
// one Parser may serve concurrent parses.
type Parser struct {
	resolver  *table.Resolver
	extractor *Extractor
}

// NewParser creates a Parser with the given role lexicon and lexing
// convention. A nil lexicon means the default one.
func NewParser(lexicon table.Lexicon, conv lexer.Convention) *Parser {
	return &Parser{
		resolver:  table.NewResolver(lexicon, conv),
		extractor: NewExtractor(conv),
	}
}

// Default returns a Parser tuned for the default locale.
func Default() *Parser {
	return NewParser(nil, lexer.Default())
}

// Parse normalizes a grid payload. payment is the periodic obligation for
// the stress test; pass zero to skip it. Structural failures (no usable
// rows) yield an empty report, not an error.
func (p *Parser) Parse(g table.Grid, payment decimal.Decimal) Report {
	t := table.Normalize(g)
	roles := p.resolver.Resolve(t)
	txns := p.extractor.Extract(t, roles)

	cf := cashflow.Analyze(txns)
	return Report{
		Columns:        roles.Names(t, table.CardRoles()),
		Transactions:   txns,
		Cashflow:       cf,
		Balances:       balance.Reconstruct(txns, payment),
		Counterparties: cashflow.Counterparties(txns, cf),
	}
}

// ParseLines normalizes a flat text payload via the free-text path.
func (p *Parser) ParseLines(lines []string, payment decimal.Decimal) Report {
	return p.Parse(table.FromLines(lines), payment)
}

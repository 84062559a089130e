package statement

import (
	"strings"

	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
	"github.com/dmitriimasiakin/pd-bot/internal/model"
	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

// maxDescription caps description length per transaction.
const maxDescription = 500

// Keywords that mark a raw text line as carrying a debit or credit amount.
const (
	debitMarker  = "деб"
	creditMarker = "кред"
)

// Extractor walks normalized rows into canonical transactions.
type Extractor struct {
	conv lexer.Convention
}

// NewExtractor creates an Extractor using the given lexing convention.
func NewExtractor(conv lexer.Convention) *Extractor {
	return &Extractor{conv: conv}
}

// Extract converts table rows into transactions, sorted ascending by date
// with unknown dates first. Rows yielding nothing are dropped.
func (e *Extractor) Extract(t table.Table, roles table.RoleMap) []model.Transaction {
	var txns []model.Transaction
	if t.Raw {
		txns = e.extractRaw(t)
	} else {
		txns = e.extractTabular(t, roles)
	}
	model.SortByDate(txns)
	return txns
}

// extractRaw lexes free-text lines: the whole line is scanned for a date
// and, when a debit/credit keyword appears, for an amount.
func (e *Extractor) extractRaw(t table.Table) []model.Transaction {
	var txns []model.Transaction
	for _, row := range t.Rows {
		line := table.CellText(row[0])
		low := strings.ToLower(line)

		var txn model.Transaction
		txn.Date, _ = e.conv.Date(line)
		if strings.Contains(low, debitMarker) {
			txn.Debit = e.conv.Amount(line)
		}
		if strings.Contains(low, creditMarker) {
			txn.Credit = e.conv.Amount(line)
		}
		txn.Counterparty = freeTextCounterparty(line)
		txn.Description = truncate(line, maxDescription)

		// The description is the line itself, so it cannot anchor the
		// row on its own.
		if txn.Date.IsZero() && !txn.Debit.Valid && !txn.Credit.Valid && txn.Counterparty == "" {
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func (e *Extractor) extractTabular(t table.Table, roles table.RoleMap) []model.Transaction {
	var txns []model.Transaction
	for _, row := range t.Rows {
		var txn model.Transaction

		if i, ok := roles.Column(table.RoleDate); ok {
			txn.Date, _ = e.conv.Date(row[i])
		} else {
			txn.Date, _ = e.conv.Date(table.RowText(row))
		}
		if i, ok := roles.Column(table.RoleDebit); ok {
			txn.Debit = e.conv.Amount(row[i])
		}
		if i, ok := roles.Column(table.RoleCredit); ok {
			txn.Credit = e.conv.Amount(row[i])
		}
		if i, ok := roles.Column(table.RoleBalance); ok {
			txn.Balance = e.conv.Amount(row[i])
		}

		descText := ""
		if i, ok := roles.Column(table.RoleDescription); ok {
			descText = table.CellText(row[i])
		}
		if i, ok := roles.Column(table.RoleCounterparty); ok {
			txn.Counterparty = strings.TrimSpace(table.CellText(row[i]))
		}
		if txn.Counterparty == "" {
			txn.Counterparty = freeTextCounterparty(descText)
		}
		txn.Description = truncate(descText, maxDescription)

		if txn.Empty() {
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

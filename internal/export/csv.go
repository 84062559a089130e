package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dmitriimasiakin/pd-bot/internal/model"
)

// Header is the CSV header for normalized transaction exports.
const Header = "date,debit,credit,balance,counterparty,description"

const (
	numFields = 6
	colDate   = 0
	colDebit  = 1
	colCredit = 2
	colBal    = 3
	colCparty = 4
	colDesc   = 5
)

// WriteTransactions writes normalized transactions as CSV, header
// included. Unset fields become empty cells; unknown dates too.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)

	if !t.Date.IsZero() {
		row[colDate] = t.Date.Format(model.DateFormat)
	}
	if t.Debit.Valid {
		row[colDebit] = t.Debit.Decimal.StringFixed(2)
	}
	if t.Credit.Valid {
		row[colCredit] = t.Credit.Decimal.StringFixed(2)
	}
	if t.Balance.Valid {
		row[colBal] = t.Balance.Decimal.StringFixed(2)
	}
	row[colCparty] = t.Counterparty
	row[colDesc] = t.Description

	return row
}

package model

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical date representation in exported output.
const DateFormat = "2006-01-02"

// Transaction is one normalized movement from a bank account card.
// Optional amounts are NullDecimal; a zero Date means the source row
// carried no recoverable date.
type Transaction struct {
	Date         time.Time           `json:"-"`
	Debit        decimal.NullDecimal `json:"debit"`
	Credit       decimal.NullDecimal `json:"credit"`
	Balance      decimal.NullDecimal `json:"balance"`
	Counterparty string              `json:"counterparty,omitempty"`
	Description  string              `json:"description,omitempty"`
}

// Empty reports whether every field is unset. Empty transactions never
// survive extraction.
func (t Transaction) Empty() bool {
	return t.Date.IsZero() &&
		!t.Debit.Valid && !t.Credit.Valid && !t.Balance.Valid &&
		t.Counterparty == "" && t.Description == ""
}

// DebitOrZero returns the debit amount, or zero when unset.
func (t Transaction) DebitOrZero() decimal.Decimal {
	if t.Debit.Valid {
		return t.Debit.Decimal
	}
	return decimal.Zero
}

// CreditOrZero returns the credit amount, or zero when unset.
func (t Transaction) CreditOrZero() decimal.Decimal {
	if t.Credit.Valid {
		return t.Credit.Decimal
	}
	return decimal.Zero
}

// MarshalJSON renders Date as "2006-01-02", or null when unknown.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	var date *string
	if !t.Date.IsZero() {
		s := t.Date.Format(DateFormat)
		date = &s
	}
	return json.Marshal(struct {
		Date *string `json:"date"`
		alias
	}{date, alias(t)})
}

// SortByDate stable-sorts transactions ascending by date. Transactions
// without a date carry the zero time and therefore sort first.
func SortByDate(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

package model

import "github.com/shopspring/decimal"

// LedgerEntry is one counterparty row of a turnover-balance sheet.
// Turnover ledgers carry no per-transaction dates, only period totals.
type LedgerEntry struct {
	Counterparty string              `json:"counterparty"`
	Opening      decimal.NullDecimal `json:"opening"`
	Debit        decimal.NullDecimal `json:"debit"`
	Credit       decimal.NullDecimal `json:"credit"`
	Turnover     decimal.NullDecimal `json:"turnover"`
	Closing      decimal.NullDecimal `json:"closing"`
}

// Empty reports whether every field of the entry is unset.
func (e LedgerEntry) Empty() bool {
	return e.Counterparty == "" &&
		!e.Opening.Valid && !e.Debit.Valid && !e.Credit.Valid &&
		!e.Turnover.Valid && !e.Closing.Valid
}

package statement

import (
	"regexp"
	"strings"
)

var (
	// 10-digit company or 12-digit sole-trader taxpayer IDs.
	taxIDRE = regexp.MustCompile(`\b\d{10}\b|\b\d{12}\b`)
	// Organizational-form abbreviation followed by a name.
	legalEntityRE = regexp.MustCompile(`(?i)(ООО|ЗАО|АО|ИП)\s+[A-Za-zА-Яа-я0-9"'«»\-\s]{2,}`)
)

// freeTextCounterparty recovers a counterparty label from payment purpose
// text. A taxpayer-ID token wins over a legal-entity name; no match yields
// "".
func freeTextCounterparty(text string) string {
	if m := taxIDRE.FindString(text); m != "" {
		return "ID " + m
	}
	if m := legalEntityRE.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

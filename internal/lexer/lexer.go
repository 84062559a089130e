// Package lexer converts raw ledger cells to amounts and dates.
//
// Bank exports are wildly inconsistent about numeric formatting: thousands
// groups separated by spaces or non-breaking spaces, decimal commas, and
// negatives written in accounting parentheses. The lexer is deliberately
// forgiving — a cell that cannot be read yields an unset value, never an
// error.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Options describe the locale convention of a ledger export.
// The zero value is not usable; call New or Default.
type Options struct {
	// DecimalComma treats "," as the decimal separator ("1 234,56").
	DecimalComma bool
	// ParenNegative treats "(1 000)" as -1000.
	ParenNegative bool
	// GroupSeparators are the characters accepted between thousands
	// groups. Defaults to space and non-breaking space.
	GroupSeparators string
	// DateLayouts are Go time layouts tried in order when scanning text
	// for a date, e.g. "02.01.2006". Only numeric layouts are supported.
	DateLayouts []string
}

// DefaultDateLayouts are the layouts accepted by the default convention.
var DefaultDateLayouts = []string{"02.01.2006", "2006-01-02"}

type dateLayout struct {
	re     *regexp.Regexp
	layout string
}

// Convention is a compiled lexing convention.
type Convention struct {
	decimalComma  bool
	parenNegative bool
	groupSeps     string
	numberRE      *regexp.Regexp
	dates         []dateLayout
}

// New compiles a Convention from Options.
func New(opts Options) (Convention, error) {
	seps := opts.GroupSeparators
	if seps == "" {
		seps = " \u00a0"
	}
	layouts := opts.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	// Grouped thousands first, then plain digit runs so unseparated
	// amounts like "1000" keep all their digits.
	numberRE, err := regexp.Compile(`\(?-?(?:\d{1,3}(?:[` + regexp.QuoteMeta(seps) + `]\d{3})+|\d+)(?:[.,]\d+)?\)?`)
	if err != nil {
		return Convention{}, fmt.Errorf("compiling number pattern: %w", err)
	}

	var dates []dateLayout
	for _, l := range layouts {
		re, err := layoutPattern(l)
		if err != nil {
			return Convention{}, fmt.Errorf("date layout %q: %w", l, err)
		}
		dates = append(dates, dateLayout{re: re, layout: l})
	}

	return Convention{
		decimalComma:  opts.DecimalComma,
		parenNegative: opts.ParenNegative,
		groupSeps:     seps,
		numberRE:      numberRE,
		dates:         dates,
	}, nil
}

// Default returns the convention most statements in the wild use here:
// decimal comma, space-grouped thousands, accounting negatives, and
// DD.MM.YYYY or ISO dates.
func Default() Convention {
	c, err := New(Options{DecimalComma: true, ParenNegative: true})
	if err != nil {
		panic("lexer: default convention: " + err.Error())
	}
	return c
}

// Amount reads a cell as a monetary amount. Already-numeric cells pass
// through unchanged; text is scanned for the first number token. A cell
// that cannot be read yields an invalid NullDecimal.
func (c Convention) Amount(cell any) decimal.NullDecimal {
	switch v := cell.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NullDecimal{Decimal: v, Valid: true}
	case decimal.NullDecimal:
		return v
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
	case float32:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat32(v), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(v)), Valid: true}
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
	case time.Time:
		return decimal.NullDecimal{}
	case string:
		return c.amountFromText(v)
	default:
		return c.amountFromText(fmt.Sprint(cell))
	}
}

func (c Convention) amountFromText(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}

	tok := c.numberRE.FindString(s)
	if tok == "" {
		return decimal.NullDecimal{}
	}

	neg := c.parenNegative && strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")")
	tok = strings.Trim(tok, "()")
	tok = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(c.groupSeps, r) {
			return -1
		}
		return r
	}, tok)
	if c.decimalComma {
		tok = strings.ReplaceAll(tok, ",", ".")
	} else {
		tok = strings.ReplaceAll(tok, ",", "")
	}

	d, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if neg {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Date reads a cell as a calendar date. Already-structured dates pass
// through truncated to midnight UTC; text is scanned against the
// configured layouts in order.
func (c Convention) Date(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return Day(v), true
	case string:
		return c.dateFromText(v)
	default:
		return c.dateFromText(fmt.Sprint(cell))
	}
}

func (c Convention) dateFromText(s string) (time.Time, bool) {
	for _, dl := range c.dates {
		tok := dl.re.FindString(s)
		if tok == "" {
			continue
		}
		t, err := time.Parse(dl.layout, tok)
		if err != nil {
			continue
		}
		return Day(t), true
	}
	return time.Time{}, false
}

// LooksNumeric reports whether the text contains a number token. Used by
// column-role sampling.
func (c Convention) LooksNumeric(s string) bool {
	return c.numberRE.MatchString(strings.ReplaceAll(s, "\u00a0", " "))
}

// ContainsDate reports whether the text contains a date token.
func (c Convention) ContainsDate(s string) bool {
	for _, dl := range c.dates {
		if dl.re.MatchString(s) {
			return true
		}
	}
	return false
}

// Day truncates a time to midnight UTC, the canonical key for daily
// balance maps.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// layoutPattern derives a word-bounded regexp from a numeric Go time
// layout: every digit becomes \d, everything else is quoted.
func layoutPattern(layout string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`\b`)
	for _, r := range layout {
		if unicode.IsDigit(r) {
			b.WriteString(`\d`)
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`\b`)
	return regexp.Compile(b.String())
}

package lexer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAmountLocaleForms(t *testing.T) {
	c := Default()

	cases := []struct {
		in   string
		want string
	}{
		{"1 234,56", "1234.56"},
		{"1\u00a0234,56", "1234.56"}, // non-breaking thousands separator
		{"(1 000)", "-1000"},
		{"-500,10", "-500.10"},
		{"12", "12"},
		{"1000", "1000"}, // no thousands separator at all
		{"25000,50", "25000.50"},
		{"итого: 2 500,00 руб.", "2500.00"},
	}
	for _, tc := range cases {
		got := c.Amount(tc.in)
		require.True(t, got.Valid, "input %q", tc.in)
		assert.True(t, got.Decimal.Equal(dec(tc.want)), "input %q: got %s", tc.in, got.Decimal)
	}
}

func TestAmountPassthrough(t *testing.T) {
	c := Default()

	got := c.Amount(1234.5)
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(dec("1234.5")))

	got = c.Amount(int64(7))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(dec("7")))

	got = c.Amount(dec("9.99"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(dec("9.99")))
}

func TestAmountUnreadable(t *testing.T) {
	c := Default()

	assert.False(t, c.Amount(nil).Valid)
	assert.False(t, c.Amount("").Valid)
	assert.False(t, c.Amount("   ").Valid)
	assert.False(t, c.Amount("нет данных").Valid)
	assert.False(t, c.Amount(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Valid)
}

func TestDateForms(t *testing.T) {
	c := Default()

	d, ok := c.Date("15.01.2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = c.Date("остаток на 2024-03-31 итог")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), d)

	// First pattern wins when both occur.
	d, ok = c.Date("01.02.2024 и 2024-03-04")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), d)

	_, ok = c.Date("без даты")
	assert.False(t, ok)
}

func TestDatePassthrough(t *testing.T) {
	c := Default()

	d, ok := c.Date(time.Date(2024, 5, 7, 13, 45, 0, 0, time.Local))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), d)
}

func TestDotLocale(t *testing.T) {
	c, err := New(Options{
		GroupSeparators: ",",
		DateLayouts:     []string{"2006-01-02"},
	})
	require.NoError(t, err)

	got := c.Amount("1,234.56")
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(dec("1234.56")), "got %s", got.Decimal)

	// Parentheses are plain punctuation without ParenNegative.
	got = c.Amount("(1,000)")
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(dec("1000")))

	_, ok := c.Date("15.01.2024")
	assert.False(t, ok)
}

func TestLooksNumericAndContainsDate(t *testing.T) {
	c := Default()

	assert.True(t, c.LooksNumeric("1 000,00"))
	assert.True(t, c.ContainsDate("оплата 01.01.2024"))
	assert.False(t, c.ContainsDate("оплата без даты"))
}

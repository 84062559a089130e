package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimasiakin/pd-bot/internal/model"
)

func nd(s string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func TestWriteTransactions(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Debit:        nd("1000"),
			Balance:      nd("1600.5"),
			Counterparty: "ООО Ромашка",
			Description:  "оплата, по договору",
		},
		{Credit: nd("400")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, Header, string(lines[0]))
	assert.Equal(t, `2024-01-15,1000.00,,1600.50,ООО Ромашка,"оплата, по договору"`, string(lines[1]))
	assert.Equal(t, ",,400.00,,,", string(lines[2]))
}

func TestMarshalTransactionUnsetFields(t *testing.T) {
	row := MarshalTransaction(model.Transaction{Description: "x"})
	assert.Equal(t, []string{"", "", "", "", "", "x"}, row)
}

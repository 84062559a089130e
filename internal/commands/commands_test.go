package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimasiakin/pd-bot/internal/config"
	"github.com/dmitriimasiakin/pd-bot/internal/statement"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fastConfig is the default config with retries tightened so failure
// paths do not sleep.
func fastConfig(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Retry.Attempts = 1
	cfg.Retry.BaseDelay = "1ms"
	path := filepath.Join(t.TempDir(), "pdbot.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const cardCSV = "Дата,Дебет,Кредит,Контрагент\n" +
	"01.01.2024,\"1 000,00\",,ООО Ромашка\n" +
	"15.01.2024,,\"400,00\",АО Вектор\n"

func TestStatementCommand(t *testing.T) {
	path := writeFixture(t, "card.csv", cardCSV)

	out, err := run(t, "statement", path, "--payment", "700")
	require.NoError(t, err)

	var rep statement.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep.Transactions, 2)
	assert.Equal(t, "1000", rep.Cashflow.CashIn.String())
	assert.Contains(t, rep.Balances.Stress, "2024-01")
}

func TestStatementCommandWritesCSV(t *testing.T) {
	path := writeFixture(t, "card.csv", cardCSV)
	csvOut := filepath.Join(t.TempDir(), "txns.csv")

	_, err := run(t, "statement", path, "--csv", csvOut)
	require.NoError(t, err)

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,debit,credit,balance,counterparty,description")
	assert.Contains(t, string(data), "2024-01-01,1000.00")
}

func TestStatementCommandMissingFile(t *testing.T) {
	out, err := run(t, "statement", filepath.Join(t.TempDir(), "absent.csv"),
		"--config", fastConfig(t))

	// Load failures exhaust retries and fall back to an empty report.
	require.NoError(t, err)
	var rep statement.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Empty(t, rep.Transactions)
}

func TestLedgerCommand(t *testing.T) {
	path := writeFixture(t, "osv.csv",
		"Контрагент,Дебет,Кредит,Сальдо конечное\n"+
			"ООО Ромашка,\"1 000,00\",\"300,00\",\"700,00\"\n")

	out, err := run(t, "ledger", path, "--type", "payables")
	require.NoError(t, err)
	assert.Contains(t, out, `"account_type": "payables"`)
	assert.Contains(t, out, `"dpo"`)
}

func TestLedgerCommandRejectsUnknownType(t *testing.T) {
	path := writeFixture(t, "osv.csv", "Контрагент\nООО Ромашка\n")

	_, err := run(t, "ledger", path, "--type", "inventory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ledger type")
}

func TestReportCommandPlain(t *testing.T) {
	path := writeFixture(t, "card.csv", cardCSV)

	out, err := run(t, "report", path, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "# Отчёт по карточке счёта")
	assert.Contains(t, out, "Транзакций: 2")
}

func TestReportCommandRejectsUnknownDoc(t *testing.T) {
	path := writeFixture(t, "card.csv", cardCSV)

	_, err := run(t, "report", path, "--doc", "invoice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")
}

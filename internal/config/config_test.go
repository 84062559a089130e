package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdbot.yaml")

	want := Default()
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConventionFromLocale(t *testing.T) {
	conv, err := Default().Convention()
	require.NoError(t, err)

	got := conv.Amount("1 234,56")
	require.True(t, got.Valid)
	assert.Equal(t, "1234.56", got.Decimal.String())
}

func TestTableLexiconFallback(t *testing.T) {
	empty := &Config{}
	assert.Equal(t, table.DefaultLexicon(), empty.TableLexicon())

	custom := &Config{Lexicon: map[string][]string{"date": {"когда"}}}
	assert.Equal(t, table.Lexicon{table.RoleDate: {"когда"}}, custom.TableLexicon())
}

func TestPolicyConversion(t *testing.T) {
	cfg := &Config{Retry: RetryConfig{Attempts: 5, BaseDelay: "250ms", Backoff: 3.0}}

	p := cfg.Policy()
	assert.Equal(t, 5, p.Attempts)
	assert.Equal(t, 250*time.Millisecond, p.BaseDelay)
	assert.Equal(t, 3.0, p.Backoff)
}

func TestPolicyDefaultsOnBadValues(t *testing.T) {
	cfg := &Config{Retry: RetryConfig{Attempts: 0, BaseDelay: "not-a-duration", Backoff: -1}}

	p := cfg.Policy()
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 2.0, p.Backoff)
}

// Package config holds the recognized tuning surface of the parsing
// engine: role lexicons, the numeric/date locale convention, and the
// retry policy.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
	"github.com/dmitriimasiakin/pd-bot/internal/resilience"
	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

// Config is the top-level pdbot.yaml configuration.
type Config struct {
	Locale  LocaleConfig        `yaml:"locale"`
	Lexicon map[string][]string `yaml:"lexicon,omitempty"`
	Retry   RetryConfig         `yaml:"retry"`
}

// LocaleConfig describes the numeric and date conventions of the source
// exports.
type LocaleConfig struct {
	DecimalComma    bool     `yaml:"decimal_comma"`
	ParenNegative   bool     `yaml:"paren_negative"`
	GroupSeparators string   `yaml:"group_separators,omitempty"`
	DateLayouts     []string `yaml:"date_layouts,omitempty"`
}

// RetryConfig bounds the resilience wrapper around load-and-parse calls.
type RetryConfig struct {
	Attempts  int     `yaml:"attempts"`
	BaseDelay string  `yaml:"base_delay"`
	Backoff   float64 `yaml:"backoff"`
}

// Load reads a pdbot.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration tuned for 1C-style Russian exports.
func Default() *Config {
	lexicon := make(map[string][]string)
	for role, keywords := range table.DefaultLexicon() {
		lexicon[string(role)] = keywords
	}
	return &Config{
		Locale: LocaleConfig{
			DecimalComma:  true,
			ParenNegative: true,
			DateLayouts:   lexer.DefaultDateLayouts,
		},
		Lexicon: lexicon,
		Retry:   RetryConfig{Attempts: 3, BaseDelay: "1s", Backoff: 2.0},
	}
}

// Convention compiles the locale settings into a lexing convention.
func (c *Config) Convention() (lexer.Convention, error) {
	return lexer.New(lexer.Options{
		DecimalComma:    c.Locale.DecimalComma,
		ParenNegative:   c.Locale.ParenNegative,
		GroupSeparators: c.Locale.GroupSeparators,
		DateLayouts:     c.Locale.DateLayouts,
	})
}

// TableLexicon converts the configured keyword lists for the role
// resolver. An empty section falls back to the default lexicon.
func (c *Config) TableLexicon() table.Lexicon {
	if len(c.Lexicon) == 0 {
		return table.DefaultLexicon()
	}
	out := make(table.Lexicon, len(c.Lexicon))
	for role, keywords := range c.Lexicon {
		out[table.Role(role)] = keywords
	}
	return out
}

// Policy converts the retry settings. Unparseable or missing delays fall
// back to the default policy's delay.
func (c *Config) Policy() resilience.Policy {
	p := resilience.DefaultPolicy()
	if c.Retry.Attempts > 0 {
		p.Attempts = c.Retry.Attempts
	}
	if c.Retry.Backoff > 0 {
		p.Backoff = c.Retry.Backoff
	}
	if d, err := time.ParseDuration(c.Retry.BaseDelay); err == nil && d > 0 {
		p.BaseDelay = d
	}
	return p
}

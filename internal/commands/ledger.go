package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitriimasiakin/pd-bot/internal/ledger"
	"github.com/dmitriimasiakin/pd-bot/internal/loader"
	"github.com/dmitriimasiakin/pd-bot/internal/resilience"
)

func newLedgerCommand() *cobra.Command {
	var cfgPath string
	var accountType string

	cmd := &cobra.Command{
		Use:   "ledger <file>",
		Short: "Parse a counterparty turnover-balance sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseAccountType(accountType)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			conv, err := cfg.Convention()
			if err != nil {
				return fmt.Errorf("locale config: %w", err)
			}

			parser := ledger.NewParser(cfg.TableLexicon(), conv)

			rep := resilience.Run(cmd.Context(), newLogger(), cfg.Policy(), "ledger parse",
				ledger.Report{},
				func(context.Context) (ledger.Report, error) {
					grid, err := loader.Load(args[0])
					if err != nil {
						return ledger.Report{}, err
					}
					return parser.Parse(grid, at), nil
				})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().StringVar(&accountType, "type", string(ledger.Receivables), "ledger side: receivables or payables")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to pdbot.yaml")

	return cmd
}

func parseAccountType(s string) (ledger.AccountType, error) {
	switch ledger.AccountType(s) {
	case ledger.Receivables:
		return ledger.Receivables, nil
	case ledger.Payables:
		return ledger.Payables, nil
	default:
		return "", fmt.Errorf("unknown ledger type %q: want receivables or payables", s)
	}
}

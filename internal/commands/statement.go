package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dmitriimasiakin/pd-bot/internal/export"
	"github.com/dmitriimasiakin/pd-bot/internal/loader"
	"github.com/dmitriimasiakin/pd-bot/internal/resilience"
	"github.com/dmitriimasiakin/pd-bot/internal/statement"
)

func newStatementCommand() *cobra.Command {
	var cfgPath string
	var csvOut string
	var payment float64

	cmd := &cobra.Command{
		Use:   "statement <file>",
		Short: "Parse a bank account card into normalized transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			conv, err := cfg.Convention()
			if err != nil {
				return fmt.Errorf("locale config: %w", err)
			}

			parser := statement.NewParser(cfg.TableLexicon(), conv)
			obligation := decimal.NewFromFloat(payment)

			rep := resilience.Run(cmd.Context(), newLogger(), cfg.Policy(), "statement parse",
				statement.Report{},
				func(context.Context) (statement.Report, error) {
					grid, err := loader.Load(args[0])
					if err != nil {
						return statement.Report{}, err
					}
					return parser.Parse(grid, obligation), nil
				})

			if csvOut != "" {
				if err := writeTransactionsCSV(csvOut, rep); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().Float64Var(&payment, "payment", 0, "periodic obligation for the stress test")
	cmd.Flags().StringVar(&csvOut, "csv", "", "also write normalized transactions to this CSV file")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to pdbot.yaml")

	return cmd
}

func writeTransactionsCSV(path string, rep statement.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteTransactions(f, rep.Transactions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

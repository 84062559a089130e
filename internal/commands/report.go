package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dmitriimasiakin/pd-bot/internal/export"
	"github.com/dmitriimasiakin/pd-bot/internal/ledger"
	"github.com/dmitriimasiakin/pd-bot/internal/loader"
	"github.com/dmitriimasiakin/pd-bot/internal/resilience"
	"github.com/dmitriimasiakin/pd-bot/internal/statement"
)

func newReportCommand() *cobra.Command {
	var cfgPath string
	var docType string
	var accountType string
	var payment float64
	var plain bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Render a Markdown summary of a parsed document",
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
			logger := newLogger()
			policy := cfg.Policy()

			var md string
			switch docType {
			case "statement":
				parser := statement.NewParser(cfg.TableLexicon(), conv)
				rep := resilience.Run(cmd.Context(), logger, policy, "statement report",
					statement.Report{},
					func(context.Context) (statement.Report, error) {
						grid, err := loader.Load(args[0])
						if err != nil {
							return statement.Report{}, err
						}
						return parser.Parse(grid, decimal.NewFromFloat(payment)), nil
					})
				md = export.StatementMarkdown(rep)
			case "ledger":
				at, err := parseAccountType(accountType)
				if err != nil {
					return err
				}
				parser := ledger.NewParser(cfg.TableLexicon(), conv)
				rep := resilience.Run(cmd.Context(), logger, policy, "ledger report",
					ledger.Report{},
					func(context.Context) (ledger.Report, error) {
						grid, err := loader.Load(args[0])
						if err != nil {
							return ledger.Report{}, err
						}
						return parser.Parse(grid, at), nil
					})
				md = export.LedgerMarkdown(rep)
			default:
				return fmt.Errorf("unknown document type %q: want statement or ledger", docType)
			}

			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}

			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return fmt.Errorf("initializing renderer: %w", err)
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&docType, "doc", "statement", "document type: statement or ledger")
	cmd.Flags().StringVar(&accountType, "type", string(ledger.Receivables), "ledger side: receivables or payables")
	cmd.Flags().Float64Var(&payment, "payment", 0, "periodic obligation for the stress test")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw Markdown without terminal styling")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to pdbot.yaml")

	return cmd
}

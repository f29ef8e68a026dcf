package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"virtual-trader/internal/ledger"
	"virtual-trader/internal/store"
)

// addExportCommand adds the export command.
func addExportCommand(rootCmd *cobra.Command, app *App) {
	var format string
	var out string
	var limit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export journaled trades to a file",
		Long:  "Export the account's trade journal to a CSV or JSON file.",
		Example: `  virtual-trader export --output trades.csv
  virtual-trader export --format json --output trades.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				return fmt.Errorf("trade journal unavailable, nothing to export")
			}

			trades, err := app.Store.ListTrades(cmd.Context(), store.TradeFilter{
				AccountID: ledger.AccountIDFor(app.userID(cmd)),
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				output.Dim("No trades to export")
				return nil
			}

			switch format {
			case "csv":
				if err := store.ExportTradesCSV(out, trades); err != nil {
					return err
				}
			case "json":
				data, err := json.MarshalIndent(trades, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0644); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (use csv or json)", format)
			}

			output.Success("✓ Exported %d trades to %s", len(trades), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")
	cmd.Flags().StringVar(&out, "output", "trades.csv", "output file path")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum trades to export (0 = all)")
	rootCmd.AddCommand(cmd)
}

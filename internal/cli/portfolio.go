package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"virtual-trader/internal/models"
	"virtual-trader/internal/store"
)

// addPortfolioCommands adds portfolio and history commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newPortfolioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"pf"},
		Short:   "Show the account, holdings, and trade statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if err := app.restore(cmd); err != nil {
				return err
			}

			portfolio, err := app.Service.Portfolio(cmd.Context(), app.userID(cmd))
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(portfolio)
			}

			acct := portfolio.Account
			output.Bold("Account %s", acct.ID)
			output.Printf("  Balance:       %s\n", FormatMoney(acct.CurrentBalance))
			output.Printf("  Invested:      %s\n", FormatMoney(acct.TotalInvested))
			output.Printf("  Total Value:   %s\n", FormatMoney(acct.TotalValue))
			output.Printf("  Total Profit:  %s (%s)\n",
				output.ColoredString(output.PnLColor(acct.TotalProfit.InexactFloat64()), FormatPnL(acct.TotalProfit)),
				FormatPercentDecimal(acct.TotalProfitPercent))
			output.Println()

			if len(portfolio.Holdings) == 0 {
				output.Dim("No holdings")
			} else {
				output.Bold("Holdings")
				table := NewTable(output, "SYMBOL", "TYPE", "QTY", "AVG PRICE", "PRICE", "VALUE", "P&L", "P&L %")
				for _, h := range portfolio.Holdings {
					table.AddRow(
						h.Symbol,
						string(h.Type),
						FormatQuantity(h.Quantity),
						FormatPrice(h.AveragePrice),
						FormatPrice(h.CurrentPrice),
						FormatMoney(h.CurrentValue),
						output.ColoredString(output.PnLColor(h.Profit.InexactFloat64()), FormatPnL(h.Profit)),
						output.FormatPercentColored(h.ProfitPercent.InexactFloat64()),
					)
				}
				table.Render()
			}
			output.Println()

			stats := portfolio.Statistics
			output.Bold("Statistics")
			output.Printf("  Trades:        %d\n", stats.TotalTrades)
			output.Printf("  Win Rate:      %.1f%% (%dW / %dL)\n", stats.WinRate.InexactFloat64(), stats.WinningTrades, stats.LosingTrades)
			if stats.BestTrade != nil {
				if profit, ok := stats.BestTrade.RealizedProfit(); ok {
					output.Printf("  Best Trade:    %s %s\n", stats.BestTrade.Symbol, output.Green(FormatPnL(profit)))
				}
			}
			if stats.WorstTrade != nil {
				if profit, ok := stats.WorstTrade.RealizedProfit(); ok {
					output.Printf("  Worst Trade:   %s %s\n", stats.WorstTrade.Symbol, output.Red(FormatPnL(profit)))
				}
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var symbol string
	var action string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled trade history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Service.TradeHistory(cmd.Context(), app.userID(cmd), store.TradeFilter{
				Symbol: strings.TrimSpace(symbol),
				Action: models.TradeAction(action),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Dim("No trades")
				return nil
			}

			table := NewTable(output, "TIME", "ACTION", "SYMBOL", "QTY", "PRICE", "TOTAL", "PROFIT")
			for _, t := range trades {
				profitCell := "-"
				if profit, ok := t.RealizedProfit(); ok {
					profitCell = output.ColoredString(output.PnLColor(profit.InexactFloat64()), FormatPnL(profit))
				}
				actionCell := output.Green("BUY")
				if t.IsSell() {
					actionCell = output.Red("SELL")
				}
				table.AddRow(
					FormatDateTime(t.Timestamp),
					actionCell,
					t.Symbol,
					FormatQuantity(t.Quantity),
					FormatPrice(t.Price),
					FormatMoney(t.TotalAmount),
					profitCell,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum trades to show")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (buy, sell)")
	return cmd
}

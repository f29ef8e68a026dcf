package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"virtual-trader/internal/models"
	"virtual-trader/internal/trading"
)

// addTradeCommands adds buy, sell, and reset commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBuyCmd(app))
	rootCmd.AddCommand(newSellCmd(app))
	rootCmd.AddCommand(newResetCmd(app))
}

func newBuyCmd(app *App) *cobra.Command {
	var name string
	var assetType string

	cmd := &cobra.Command{
		Use:   "buy <symbol> <quantity>",
		Short: "Buy an asset at the current market price",
		Long: `Buy a quantity of a stock or cryptocurrency at the current market
price. The cost plus fee is deducted from the account balance and the
holding's average price is updated.`,
		Example: `  virtual-trader buy AAPL 10
  virtual-trader buy bitcoin 0.5 --type crypto`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, app, models.ActionBuy, args[0], args[1], name, assetType)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for the asset (default: symbol)")
	cmd.Flags().StringVar(&assetType, "type", "stock", "asset type (stock, crypto)")
	return cmd
}

func newSellCmd(app *App) *cobra.Command {
	var assetType string

	cmd := &cobra.Command{
		Use:   "sell <symbol> <quantity>",
		Short: "Sell a held asset at the current market price",
		Long: `Sell a quantity of a held asset at the current market price. The
proceeds minus fee are credited to the account balance and the realized
profit against the average purchase price is reported.`,
		Example: `  virtual-trader sell AAPL 5
  virtual-trader sell bitcoin 0.25 --type crypto`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, app, models.ActionSell, args[0], args[1], "", assetType)
		},
	}

	cmd.Flags().StringVar(&assetType, "type", "stock", "asset type (stock, crypto)")
	return cmd
}

func runTrade(cmd *cobra.Command, app *App, action models.TradeAction, symbol, qtyArg, name, assetType string) error {
	output := NewOutput(cmd)

	quantity, err := decimal.NewFromString(qtyArg)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", qtyArg, err)
	}

	if err := app.restore(cmd); err != nil {
		return err
	}

	trade, err := app.Service.ExecuteTrade(cmd.Context(), app.userID(cmd), trading.TradeRequest{
		Symbol:   symbol,
		Name:     name,
		Type:     models.AssetType(assetType),
		Action:   action,
		Quantity: quantity,
	})
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.JSON(trade)
	}

	verb := "Bought"
	if trade.IsSell() {
		verb = "Sold"
	}
	output.Success("✓ %s %s %s @ %s", verb, FormatQuantity(trade.Quantity), trade.Symbol, FormatPrice(trade.Price))
	output.Printf("  Total:  %s\n", FormatMoney(trade.TotalAmount))
	if trade.Fee.IsPositive() {
		output.Printf("  Fee:    %s\n", FormatMoney(trade.Fee))
	}
	if profit, ok := trade.RealizedProfit(); ok {
		output.Printf("  Profit: %s (%s)\n",
			output.ColoredString(output.PnLColor(profit.InexactFloat64()), FormatPnL(profit)),
			FormatPercentDecimal(*trade.ProfitPercent))
	}
	return nil
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the account to its initial balance",
		Long: `Reset the account: restore the initial balance and delete all
holdings and trade history. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !yes {
				output.Warning("This deletes all holdings and trade history. Re-run with --yes to confirm.")
				return nil
			}

			if err := app.restore(cmd); err != nil {
				return err
			}

			account, err := app.Service.Reset(cmd.Context(), app.userID(cmd))
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(account)
			}
			output.Success("✓ Account reset to %s", FormatMoney(account.InitialBalance))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

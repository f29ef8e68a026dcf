package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"virtual-trader/internal/models"
	"virtual-trader/internal/pricing"
)

// addMarketCommands adds quote, hot, and analyze commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newHotCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
}

// priceSourceTag names the provider serving quotes for an asset type.
func (app *App) priceSourceTag(assetType models.AssetType) string {
	if assetType == models.AssetCrypto {
		if app.Config.Pricing.CryptoProvider == "static" {
			return SourceLocal
		}
		return SourceCoinGecko
	}
	if app.Config.Pricing.StockProvider == "static" {
		return SourceLocal
	}
	return SourceYahoo
}

// analysisSourceTag names the analyzer behind the analyze command.
func (app *App) analysisSourceTag() string {
	if app.Config.Credentials.OpenAI.APIKey != "" {
		return SourceAI
	}
	return SourceLocal
}

func newQuoteCmd(app *App) *cobra.Command {
	var assetType string

	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch the current quote for a symbol",
		Example: `  virtual-trader quote AAPL
  virtual-trader quote ethereum --type crypto`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			quote, err := app.Prices.Quote(cmd.Context(), models.AssetType(assetType), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(quote)
			}

			color.Cyan("%s (%s) %s", quote.Symbol, quote.Name, output.SourceTag(app.priceSourceTag(quote.Type)))
			output.Printf("  Price:   %s  %s\n", FormatPrice(quote.Price), output.FormatPercentColored(quote.ChangePercent.InexactFloat64()))
			output.Printf("  Day:     H %s  L %s  O %s\n", FormatPrice(quote.High), FormatPrice(quote.Low), FormatPrice(quote.Open))
			output.Printf("  Volume:  %s\n", FormatVolume(quote.Volume))
			return nil
		},
	}

	cmd.Flags().StringVar(&assetType, "type", "stock", "asset type (stock, crypto)")
	return cmd
}

func newHotCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "hot [stocks|cryptos]",
		Short: "Show popular assets ranked by momentum",
		Long: `Show popular stocks or cryptocurrencies ranked by hot score, a
blend of daily price change and trading volume.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			kind := "stocks"
			if len(args) == 1 {
				kind = args[0]
			}

			var quotes []pricing.HotQuote
			var err error
			assetType := models.AssetStock
			switch kind {
			case "stocks":
				quotes, err = app.Service.HotStocks(cmd.Context(), limit)
			case "cryptos":
				assetType = models.AssetCrypto
				quotes, err = app.Service.HotCryptos(cmd.Context(), limit)
			default:
				return cmd.Usage()
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(quotes)
			}

			color.Cyan("Hot %s %s", kind, output.SourceTag(app.priceSourceTag(assetType)))
			table := NewTable(output, "SYMBOL", "NAME", "PRICE", "CHANGE", "VOLUME", "SCORE")
			for _, q := range quotes {
				table.AddRow(
					q.Symbol,
					TruncateString(q.Name, 24),
					FormatPrice(q.Price),
					output.FormatPercentColored(q.ChangePercent.InexactFloat64()),
					FormatVolume(q.Volume),
					fmt.Sprintf("%.1f", q.HotScore),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of assets to show")
	return cmd
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var assetType string

	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Analyze a symbol and suggest an action",
		Long: `Analyze a symbol's current quote and produce a trend, hot score,
and recommendation. Uses the configured OpenAI model when an API key is
present, otherwise falls back to quote-derived heuristics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			result, err := app.Service.Analyze(cmd.Context(), models.AssetType(assetType), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			color.Cyan("Analysis: %s (%s) %s", result.Symbol, result.Name, output.SourceTag(app.analysisSourceTag()))
			output.Printf("  Price:          %s\n", FormatPrice(result.CurrentPrice))
			output.Printf("  Trend:          %s\n", output.Trend(string(result.Trend)))
			output.Printf("  Hot Score:      %.0f\n", result.HotScore)
			output.Printf("  Recommendation: %s (%.0f%% confidence)\n", output.Recommendation(string(result.Recommendation)), result.Confidence)
			output.Printf("  Sentiment:      %s\n", result.Sentiment)
			if result.Summary != "" {
				output.Println()
				output.Dim("  %s", result.Summary)
			}
			if t := result.BuyTiming; t != nil && t.Recommended {
				output.Success("  Buy near %s (%s)", FormatPrice(t.Price), t.Reason)
			}
			if t := result.SellTiming; t != nil && t.Recommended {
				output.Warning("  Sell near %s (%s)", FormatPrice(t.Price), t.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assetType, "type", "stock", "asset type (stock, crypto)")
	return cmd
}

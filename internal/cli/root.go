// Package cli provides the command-line interface for the virtual trader.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"virtual-trader/internal/analysis"
	"virtual-trader/internal/config"
	"virtual-trader/internal/ledger"
	"virtual-trader/internal/logging"
	"virtual-trader/internal/pricing"
	"virtual-trader/internal/store"
	"virtual-trader/internal/stream"
	"virtual-trader/internal/trading"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Manager  *ledger.Manager
	Prices   *pricing.Router
	Store    store.TradeStore
	Hub      *stream.Hub
	Service  *trading.Service
	Analyzer analysis.Analyzer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	timeout := time.Duration(cfg.Pricing.Timeout) * time.Second
	cacheTTL := time.Duration(cfg.Pricing.CacheTTL) * time.Second

	var stockSource pricing.Source
	if cfg.Pricing.StockProvider == "static" {
		stockSource = pricing.NewStaticSource("stock")
	} else {
		stockSource = pricing.NewCachedSource(pricing.NewBreakerSource(pricing.NewRetrySource(pricing.NewYahooSource(timeout))), cacheTTL)
	}
	var cryptoSource pricing.Source
	if cfg.Pricing.CryptoProvider == "static" {
		cryptoSource = pricing.NewStaticSource("crypto")
	} else {
		cryptoSource = pricing.NewCachedSource(pricing.NewBreakerSource(pricing.NewRetrySource(pricing.NewCoinGeckoSource(timeout))), cacheTTL)
	}
	app.Prices = &pricing.Router{Stock: stockSource, Crypto: cryptoSource}

	app.Manager = ledger.NewManager(
		app.Prices.Price,
		decimal.NewFromFloat(cfg.Account.InitialBalance),
		decimal.NewFromFloat(cfg.Account.FeeRate),
	)

	tradeStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize trade journal, trades will not persist")
	} else {
		app.Store = tradeStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("Trade journal initialized")
	}

	app.Hub = stream.NewHub()

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.Analyzer = analysis.NewLLMAnalyzer(cfg.Credentials.OpenAI.APIKey, cfg.Credentials.OpenAI.Model, app.Prices, logger)
		logger.Debug().Str("model", cfg.Credentials.OpenAI.Model).Msg("LLM analyzer initialized")
	} else {
		app.Analyzer = analysis.NewBasicAnalyzer(app.Prices)
	}

	app.Service = trading.NewService(trading.Config{
		Manager:  app.Manager,
		Journal:  app.Store,
		Prices:   app.Prices,
		Hub:      app.Hub,
		Analyzer: app.Analyzer,
		Logger:   logger,
	})

	rootCmd := &cobra.Command{
		Use:   "virtual-trader",
		Short: "Virtual Trader - paper trading for stocks and crypto",
		Long: `Virtual Trader is a paper trading service and CLI for stocks and
cryptocurrencies.

Accounts start with virtual cash and trade at live Yahoo Finance and
CoinGecko prices. Holdings track weighted-average cost, sells realize
profit against it, and every trade is journaled so state survives
restarts.

Use 'virtual-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/virtual-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("user", "", "act as this user (default: configured default_user)")

	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addServeCommand(rootCmd, app)
	addExportCommand(rootCmd, app)

	return rootCmd
}

// userID resolves the acting user from the --user flag or config.
func (app *App) userID(cmd *cobra.Command) string {
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		return user
	}
	return app.Config.Account.DefaultUser
}

// restore replays the journal into the in-memory ledgers. Commands
// that read or mutate portfolio state call this first.
func (app *App) restore(cmd *cobra.Command) error {
	return app.Service.Restore(cmd.Context())
}

// addCoreCommands adds version and config commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Virtual Trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Server")
	output.Printf("  Addr:            %s\n", cfg.Server.Addr)
	output.Printf("  CORS Origin:     %s\n", cfg.Server.CORSOrigin)
	output.Println()

	output.Bold("Account")
	output.Printf("  Initial Balance: %s\n", FormatMoney(decimal.NewFromFloat(cfg.Account.InitialBalance)))
	output.Printf("  Fee Rate:        %.4f\n", cfg.Account.FeeRate)
	output.Printf("  Default User:    %s\n", cfg.Account.DefaultUser)
	output.Println()

	output.Bold("Pricing")
	output.Printf("  Stock Provider:  %s\n", cfg.Pricing.StockProvider)
	output.Printf("  Crypto Provider: %s\n", cfg.Pricing.CryptoProvider)
	output.Printf("  Cache TTL:       %ds\n", cfg.Pricing.CacheTTL)
	output.Printf("  Timeout:         %ds\n", cfg.Pricing.Timeout)
	output.Println()

	output.Bold("Database")
	output.Printf("  Path:            %s\n", cfg.Database.Path)
}

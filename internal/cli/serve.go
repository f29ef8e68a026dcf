package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"virtual-trader/internal/server"
)

// addServeCommand adds the serve command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP trading service",
		Long: `Run the HTTP service exposing the portfolio, trade, reset, hot
list, analyze, and stream endpoints. Ledgers are restored from the
trade journal on startup and the server shuts down gracefully on
SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Service.Restore(ctx); err != nil {
				return err
			}

			app.Hub.Start(ctx)
			defer app.Hub.Stop()

			cfg := server.Config{
				Addr:        app.Config.Server.Addr,
				CORSOrigin:  app.Config.Server.CORSOrigin,
				DefaultUser: app.Config.Account.DefaultUser,
			}
			if addr != "" {
				cfg.Addr = addr
			}

			srv := server.NewServer(app.Service, app.Logger, cfg)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info().Msg("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if app.Store != nil {
				return app.Store.Close()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(cmd)
}

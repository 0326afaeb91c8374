package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/gazectl/internal/client"
	"github.com/ayusman/gazectl/internal/dashboard"
	"github.com/ayusman/gazectl/internal/store"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the web dashboard",
	Long: `Run the web dashboard: accounts, language selection, and the tracking
toggle, which talks to the control API at dashboard.api_url.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().String("addr", "", "Dashboard address (overrides dashboard.addr)")
	dashboardCmd.Flags().String("api", "", "Control API URL (overrides dashboard.api_url)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Dashboard.Addr = addr
	}
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.Dashboard.APIURL = api
	}

	st, err := store.New(cfg.Dashboard.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	if n, err := st.Sessions().DeleteExpired(); err != nil {
		logger.Warn().Err(err).Msg("prune sessions")
	} else if n > 0 {
		logger.Info().Int("count", n).Msg("pruned expired sessions")
	}

	srv, err := dashboard.New(dashboard.Config{
		Addr:            cfg.Dashboard.Addr,
		Store:           st,
		Tracker:         client.New(cfg.Dashboard.APIURL, nil),
		DefaultLanguage: cfg.Dashboard.DefaultLanguage,
		SessionTTL:      cfg.Dashboard.SessionTTL,
		SecureCookie:    cfg.Dashboard.SecureCookie,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown dashboard")
		}
	}()

	logger.Info().Str("api", cfg.Dashboard.APIURL).Msg("using control API")
	return srv.Start()
}

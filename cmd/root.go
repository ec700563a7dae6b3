package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartpark/app"
	"github.com/kilianp07/smartpark/config"
	coremon "github.com/kilianp07/smartpark/core/monitoring"
	"github.com/kilianp07/smartpark/infra/logger"
	"github.com/kilianp07/smartpark/infra/monitoring"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "smartpark",
	Short:        "Parking availability and pricing service",
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration file. A missing default file falls
// back to defaults and environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgPath
	if !cmd.Flags().Changed("config") && !config.Exists(path) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)
	return cfg, nil
}

func newService(cmd *cobra.Command) (*app.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeService(svc)
	return svc.Run(ctx)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"springwell/internal/catalog"
	"springwell/internal/config"
	appLog "springwell/internal/log"
	"springwell/internal/source"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "springwell",
	Short: "Springwell Church website backend",
	Long: `Springwell serves the church website's events, calendar, photo albums
and service times, and offers the same views on the command line.`,
	Version:       version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "springwell.yaml", "Path to config file (created with defaults if missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// app bundles what every subcommand needs.
type app struct {
	cfg   *config.Config
	loc   *time.Location
	store *catalog.Store
}

func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if cfg == nil {
			return nil, fmt.Errorf("load config %s: %w", cfgFile, err)
		}
		appLog.Error("failed to write default config", err, "config_path", cfgFile)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
	}

	appLog.Debug("effective config",
		"config_path", cfgFile,
		"listen", cfg.Listen,
		"timezone", loc.String(),
		"refresh", cfg.RefreshCron,
		"events_source", cfg.Events.Source,
		"ics_count", len(cfg.Events.ICS),
		"albums_source", cfg.Albums.Source,
		"services", len(cfg.Services),
		"preview", cfg.Preview.Enabled,
	)

	return &app{
		cfg:   cfg,
		loc:   loc,
		store: catalog.New(source.NewLoader(cfg.CacheDir), cfg, loc),
	}, nil
}

// loadEvents refreshes the store once and returns the events snapshot.
func (a *app) loadEvents(ctx context.Context) (*catalog.Snapshot, error) {
	_ = a.store.Refresh(ctx)
	snap := a.store.Snapshot()
	if snap.EventsErr != nil {
		return nil, fmt.Errorf("failed to load events: %w", snap.EventsErr)
	}
	return snap, nil
}

// parseNow reads an RFC3339 --now flag; empty means the wall clock.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return t, nil
}

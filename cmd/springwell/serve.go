package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"springwell/internal/capture"
	"springwell/internal/catalog"
	appLog "springwell/internal/log"
	"springwell/internal/services"
	"springwell/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and its JSON API",
	Long: `Serve loads the events and albums documents, keeps them fresh on the
configured cron schedule (and on file changes when watch is enabled), and
serves the static site plus the /api endpoints until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (overrides config if set)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		a.cfg.Listen = listenAddr
	}

	appLog.Info("springwell starting", "version", version, "listen", a.cfg.Listen, "timezone", a.loc.String())

	schedule, err := services.NewSchedule(a.cfg.Services, a.loc)
	if err != nil {
		return err
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed document is served as an error state; keep going.
	_ = a.store.Refresh(ctx)

	g, gctx := errgroup.WithContext(ctx)

	srv := web.NewServer(a.cfg, a.store, schedule)
	g.Go(func() error {
		return web.Serve(gctx, a.cfg.Listen, srv.Handler())
	})

	scheduler := catalog.NewScheduler(gctx, a.loc)
	if err := scheduler.Add(a.cfg.RefreshCron, "refresh", func(ctx context.Context) {
		_ = a.store.Refresh(ctx)
		a.capturePreview(ctx)
	}); err != nil {
		return err
	}
	g.Go(func() error {
		scheduler.Run()
		return nil
	})

	if a.cfg.Watch {
		g.Go(func() error {
			return a.store.Watch(gctx, catalog.DefaultDebounce)
		})
	}

	if a.cfg.Preview.Enabled {
		g.Go(func() error {
			// Let the listener come up before pointing a browser at it.
			select {
			case <-gctx.Done():
			case <-time.After(2 * time.Second):
				a.capturePreview(gctx)
			}
			return nil
		})
	}

	err = g.Wait()
	appLog.Info("springwell exiting")
	return err
}

// capturePreview refreshes the share image when previews are enabled.
func (a *app) capturePreview(ctx context.Context) {
	if !a.cfg.Preview.Enabled {
		return
	}
	opts := capture.OptionsFromConfig(a.cfg.Listen, a.cfg.Preview)
	if err := capture.CapturePagePNG(ctx, opts); err != nil {
		appLog.Error("preview capture failed", err, "url", opts.URL)
		return
	}
	appLog.Info("preview captured", "output", opts.OutputPath)
}

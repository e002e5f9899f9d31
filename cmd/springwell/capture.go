package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"springwell/internal/capture"
)

var (
	captureURL string
	captureOut string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a PNG preview of a site page",
	Long: `Capture opens the configured preview page of a running "springwell serve"
in headless Chromium and writes a screenshot to the preview output path.`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureURL, "url", "", "Page URL (defaults to preview.path on the listen address)")
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "", "Output PNG (defaults to preview.output)")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	opts := capture.OptionsFromConfig(a.cfg.Listen, a.cfg.Preview)
	if captureURL != "" {
		opts.URL = captureURL
	}
	if captureOut != "" {
		opts.OutputPath = captureOut
	}

	if err := capture.CapturePagePNG(cmd.Context(), opts); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), opts.OutputPath)
	return nil
}

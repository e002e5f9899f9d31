package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"springwell/internal/events"
	appLog "springwell/internal/log"
)

var icsOut string

var icsCmd = &cobra.Command{
	Use:   "ics",
	Short: "Write all resolvable events as an iCalendar file",
	RunE:  runICS,
}

func init() {
	icsCmd.Flags().StringVarP(&icsOut, "out", "o", "-", `Output file ("-" for stdout)`)
	rootCmd.AddCommand(icsCmd)
}

func runICS(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	snap, err := a.loadEvents(cmd.Context())
	if err != nil {
		return err
	}

	resolved, dropped := events.ResolveAll(snap.Events, a.loc)

	var w io.Writer = cmd.OutOrStdout()
	if icsOut != "-" {
		f, err := os.Create(icsOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := events.ExportICS(w, resolved, time.Now()); err != nil {
		return err
	}
	appLog.Info("ics export written", "events", len(resolved), "skipped", dropped, "out", icsOut)
	return nil
}

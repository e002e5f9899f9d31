package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"springwell/internal/events"
	"springwell/internal/termcal"
)

var (
	eventsQuery string
	eventsNow   string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print upcoming and past events",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsQuery, "query", "q", "", "Only events whose title, description or location contain this text")
	eventsCmd.Flags().StringVar(&eventsNow, "now", "", "Reference instant (RFC3339); defaults to the current time")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	now, err := parseNow(eventsNow)
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	snap, err := a.loadEvents(cmd.Context())
	if err != nil {
		return err
	}

	p := events.Partition(snap.Events, now, eventsQuery, a.loc)
	past := p.Past
	if len(past) > a.cfg.PastLimit {
		past = past[:a.cfg.PastLimit]
	}

	st := termcal.DefaultStyles()
	out := cmd.OutOrStdout()
	fmt.Fprint(out, termcal.RenderList("Upcoming Events", p.Upcoming, a.loc, st))
	fmt.Fprintln(out)
	fmt.Fprint(out, termcal.RenderList("Latest Past Events", past, a.loc, st))

	if p.Unresolvable > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), st.Muted.Render(fmt.Sprintf("%d record(s) without a usable date were skipped", p.Unresolvable)))
	}
	return nil
}

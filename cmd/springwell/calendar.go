package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"springwell/internal/events"
	"springwell/internal/model"
	"springwell/internal/termcal"
)

var (
	calendarMonth string
	calendarNow   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Draw a month of events as a calendar grid",
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "Month to draw (YYYY-MM); defaults to the current month")
	calendarCmd.Flags().StringVar(&calendarNow, "now", "", "Reference instant (RFC3339) used for today; defaults to the current time")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	now, err := parseNow(calendarNow)
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}

	target := model.MonthOf(now, a.loc)
	if calendarMonth != "" {
		if target, err = model.ParseYearMonth(calendarMonth); err != nil {
			return fmt.Errorf("--month must be YYYY-MM: %w", err)
		}
	}

	snap, err := a.loadEvents(cmd.Context())
	if err != nil {
		return err
	}

	grid := events.BuildMonthGrid(snap.Events, target, a.loc)
	fmt.Fprintln(cmd.OutOrStdout(), termcal.RenderMonth(grid, now.In(a.loc), termcal.DefaultStyles()))
	return nil
}

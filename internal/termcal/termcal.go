// Package termcal renders month grids and event lists for the terminal.
package termcal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"springwell/internal/events"
	"springwell/internal/model"
)

const cellWidth = 16

type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Day     lipgloss.Style
	Outside lipgloss.Style
	Today   lipgloss.Style
	Event   lipgloss.Style
	More    lipgloss.Style
	Cell    lipgloss.Style
	Muted   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		Day: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Outside: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Event: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")),
		More: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Cell: lipgloss.NewStyle().
			Width(cellWidth).
			Height(events.CellEventLimit + 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// RenderMonth draws grid as six bordered week rows. today may be zero.
func RenderMonth(grid model.MonthGrid, today time.Time, st Styles) string {
	first := grid.Target.First(time.UTC)
	title := st.Title.Render(fmt.Sprintf("%s %d", first.Month(), first.Year()))

	headers := make([]string, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		headers = append(headers, st.Header.Width(cellWidth+2).Render(d.String()[:3]))
	}

	rows := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, headers...)}
	for w := 0; w < model.GridCells/7; w++ {
		cells := make([]string, 0, 7)
		for d := 0; d < 7; d++ {
			cells = append(cells, renderCell(grid.Cells[w*7+d], today, st))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c model.MonthCell, today time.Time, st Styles) string {
	dayStyle := st.Day
	switch {
	case !today.IsZero() && sameDay(c.Date, today):
		dayStyle = st.Today
	case !c.InMonth:
		dayStyle = st.Outside
	}

	lines := []string{dayStyle.Render(fmt.Sprintf("%2d", c.Date.Day()))}
	for _, ev := range c.Visible(events.CellEventLimit) {
		lines = append(lines, st.Event.Render(truncate(ev.Record.Title, cellWidth)))
	}
	if more := c.MoreCount(events.CellEventLimit); more > 0 {
		lines = append(lines, st.More.Render(fmt.Sprintf("+%d more", more)))
	}
	return st.Cell.Render(strings.Join(lines, "\n"))
}

// RenderList prints a titled event list, one event per line.
func RenderList(title string, evs []model.ResolvedEvent, loc *time.Location, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(title))
	b.WriteString("\n")
	if len(evs) == 0 {
		b.WriteString(st.Muted.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}
	for _, ev := range evs {
		when := ev.Start.In(loc).Format("Mon Jan 2 2006 15:04")
		b.WriteString("  ")
		b.WriteString(st.Muted.Render(when))
		b.WriteString("  ")
		b.WriteString(st.Event.Render(ev.Record.Title))
		if ev.Record.Location != "" {
			b.WriteString(st.Muted.Render(" @ " + ev.Record.Location))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

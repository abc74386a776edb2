package report

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the table output format.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Entry is one row of a stats table.
type Entry struct {
	Source   string
	Outcome  string
	Report   Report
	Expanded int
	Elapsed  time.Duration
}

// StatsTable renders entries with a footer of totals.
func StatsTable(entries []Entry, mode Mode) string {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(table.Row{"#", "Source", "Size", "Outcome", "Length", "Expanded", "Efficiency", "Time"})

	solved := 0
	var effSum float64
	for i, e := range entries {
		size := fmt.Sprintf("%dx%d", e.Report.MazeSize[0], e.Report.MazeSize[1])
		eff := "-"
		if e.Report.PathLength > 0 {
			solved++
			effSum += e.Report.Efficiency
			eff = fmt.Sprintf("%.3f", e.Report.Efficiency)
		}
		w.AppendRow(table.Row{
			i + 1, e.Source, size, e.Outcome, e.Report.PathLength, e.Expanded, eff,
			e.Elapsed.Round(time.Microsecond),
		})
	}

	avg := "-"
	if solved > 0 {
		avg = fmt.Sprintf("%.3f", effSum/float64(solved))
	}
	w.AppendFooter(table.Row{"", "Total", "", fmt.Sprintf("%d/%d solved", solved, len(entries)), "", "", avg, ""})

	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 40},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridpath/internal/platform/tui"
	"github.com/vovakirdan/gridpath/internal/report"
	"github.com/vovakirdan/gridpath/internal/storage"
)

var (
	flagHistoryPlain bool
	flagHistoryLimit int
	flagHistoryStats bool
	flagHistoryClear bool
	flagHistoryShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded solves",
	Long: `Show the solves recorded in the history database.

In a terminal this opens an interactive browser; press enter on a row to
see its details. Use --plain for a printed table.

Examples:
  gridpath history
  gridpath history --plain --limit 50
  gridpath history --stats
  gridpath history --show 3f2a9c1b > report.json
  gridpath history --clear`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print a table instead of the interactive browser")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Rows to print with --plain")
	historyCmd.Flags().BoolVar(&flagHistoryStats, "stats", false, "Print aggregate statistics")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded solves")
	historyCmd.Flags().StringVar(&flagHistoryShow, "show", "", "Print the JSON report of a run (id or prefix)")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fatal("opening history database: %v", err)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		if err := store.ClearSolves(); err != nil {
			fatal("%v", err)
		}
		fmt.Println("History cleared.")

	case flagHistoryShow != "":
		rec, err := store.SolveByRunID(flagHistoryShow)
		if err != nil {
			fatal("%v", err)
		}
		if rec == nil {
			fatal("no solve matches %q", flagHistoryShow)
		}
		if err := report.WriteJSON(os.Stdout, rec.Report); err != nil {
			fatal("%v", err)
		}

	case flagHistoryStats:
		printStats(store)

	case flagHistoryPlain || !isTerminal():
		printHistory(store, flagHistoryLimit)

	default:
		width, height := termSize()
		if err := tui.RunHistory(store, width, height); err != nil {
			fatal("%v", err)
		}
	}
}

func printHistory(store *storage.Store, limit int) {
	records, err := store.RecentSolves(limit)
	if err != nil {
		fatal("%v", err)
	}
	if len(records) == 0 {
		fmt.Println("No solves recorded yet.")
		return
	}

	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Run", "Source", "Outcome", "Size", "Length", "Expanded", "Efficiency", "When"})
	for _, r := range records {
		runID := r.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		w.AppendRow(table.Row{
			runID,
			r.Source,
			r.Outcome,
			fmt.Sprintf("%dx%d", r.Rows, r.Cols),
			r.PathLength,
			humanize.Comma(int64(r.Expanded)),
			fmt.Sprintf("%.3f", r.Efficiency),
			humanize.Time(r.CreatedAt),
		})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Length", Align: text.AlignRight},
		{Name: "Expanded", Align: text.AlignRight},
		{Name: "Efficiency", Align: text.AlignRight},
	})
	fmt.Println(w.Render())
}

func printStats(store *storage.Store) {
	stats, err := store.Stats()
	if err != nil {
		fatal("%v", err)
	}

	last := "never"
	if !stats.LastSolved.IsZero() {
		last = humanize.Time(stats.LastSolved)
	}

	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendRows([]table.Row{
		{"Solves", humanize.Comma(int64(stats.Count))},
		{"Solved", humanize.Comma(int64(stats.Solved))},
		{"Avg path length", fmt.Sprintf("%.1f", stats.AvgPathLength)},
		{"Avg efficiency", fmt.Sprintf("%.3f", stats.AvgEfficiency)},
		{"Avg expanded", humanize.Commaf(stats.AvgExpanded)},
		{"Last solved", last},
	})
	fmt.Println(w.Render())
}

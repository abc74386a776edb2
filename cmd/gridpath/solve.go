package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/report"
)

var (
	flagSolveSource string
	flagStart       string
	flagEnd         string
	flagFormat      string
	flagOut         string
	flagPNG         string
	flagPathStyle   string
	flagPNGScale    int
	flagASCII       bool
	flagVerify      bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [file]",
	Short: "Solve an image, a grid file or a generated grid",
	Long: `Build a grid and find the shortest path between two cells.

Input:
  An image (png, jpeg, gif, bmp) is scaled to grid.target_size and
  thresholded. A grid file (.yaml, .yml, .txt, .grid) is read as-is.
  Without a file, a grid is generated with --source and --seed.

Endpoints:
  --start/--end take "row,col". Without them the file's endpoints are used,
  then the top-left and bottom-right corners. Blocked endpoints move to
  the nearest walkable cell within search.budget steps.

The report is written as JSON (or YAML) with the keys
maze_size, path_length, start, end, path and efficiency.

Examples:
  gridpath solve plan.png
  gridpath solve plan.png --start 0,0 --end 99,99 --png route.png
  gridpath solve grid.yaml --format yaml --out result.yaml
  gridpath solve --source maze --seed 3 --ascii --verify`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&flagSolveSource, "source", "", "Grid source when no file is given (default: generator.name)")
	solveCmd.Flags().StringVar(&flagStart, "start", "", "Start cell as row,col")
	solveCmd.Flags().StringVar(&flagEnd, "end", "", "End cell as row,col")
	solveCmd.Flags().StringVar(&flagFormat, "format", "json", "Report format: json, yaml")
	solveCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write the report to a file instead of stdout")
	solveCmd.Flags().StringVar(&flagPNG, "png", "", "Write a PNG with the path drawn over the grid")
	solveCmd.Flags().StringVar(&flagPathStyle, "path-style", string(report.StyleLine), "PNG path style: line, points")
	solveCmd.Flags().IntVar(&flagPNGScale, "scale", 0, "PNG pixels per cell (default 6)")
	solveCmd.Flags().BoolVar(&flagASCII, "ascii", false, "Print the grid with the path to stderr")
	solveCmd.Flags().BoolVar(&flagVerify, "verify", false, "Check the path against a breadth-first search")
}

func runSolve(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	start, err := parseCoord(flagStart)
	if err != nil {
		fatal("%v", err)
	}
	end, err := parseCoord(flagEnd)
	if err != nil {
		fatal("%v", err)
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	solver := newSolver(cfg, logger, store)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var sol engine.Solution
	if len(args) == 1 {
		sol, err = solver.SolveFile(ctx, args[0], start, end)
	} else {
		sol, err = solveGenerated(ctx, cmd, solver, start, end)
	}
	if err != nil {
		fatal("%v", err)
	}

	if sol.Outcome == engine.OutcomeNoEndpoint {
		logger.Warn("no walkable cell near an endpoint",
			"start", sol.RequestedStart, "end", sol.RequestedEnd, "budget", cfg.Search.Budget)
	}

	if err := writeReport(sol.Report); err != nil {
		fatal("%v", err)
	}

	if flagASCII {
		fmt.Fprint(os.Stderr, report.RenderASCII(sol.Grid, sol.Result.Path, sol.Start, sol.End))
	}

	if flagPNG != "" {
		if err := writePNG(flagPNG, sol); err != nil {
			fatal("%v", err)
		}
		logger.Info("wrote image", "path", flagPNG)
	}

	if flagVerify && sol.Outcome != engine.OutcomeNoEndpoint {
		verify(sol)
	}
}

// solveGenerated builds a grid with the selected source. Explicit
// endpoints replace the ones the source picked.
func solveGenerated(ctx context.Context, cmd *cobra.Command, solver *engine.Solver, start, end *core.Coord) (engine.Solution, error) {
	cfg := solver.Config()
	name := flagSolveSource
	if name == "" {
		name = cfg.Generator.Name
	}
	seed := resolveSeed(cmd, cfg)

	gen, err := solver.Generate(name, seed)
	if err != nil {
		return engine.Solution{}, err
	}
	from, to := engine.Endpoints(gen.Grid, start, end, &gen.Start, &gen.Goal)
	return solver.SolveGrid(ctx, fmt.Sprintf("%s#%d", name, seed), gen.Grid, from, to)
}

func writeReport(r report.Report) error {
	var w io.Writer = os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", flagOut, err)
		}
		defer f.Close()
		w = f
	}
	return report.Write(w, r, report.Format(flagFormat))
}

func writePNG(path string, sol engine.Solution) error {
	opts := report.DefaultImageOptions()
	opts.Style = report.PathStyle(flagPathStyle)
	if flagPNGScale > 0 {
		opts.Scale = flagPNGScale
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := report.RenderPNG(f, sol.Grid, sol.Result.Path, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// verify compares the A* result with a breadth-first baseline.
func verify(sol engine.Solution) {
	want, ok := astar.ShortestLength(sol.Grid, sol.Start, sol.End)
	got := len(sol.Result.Path)
	switch {
	case ok != sol.Result.Found:
		fatal("verify: baseline reachable=%v, A* found=%v", ok, sol.Result.Found)
	case ok && got != want:
		fatal("verify: A* path has %d cells, baseline %d", got, want)
	}
	if err := sol.Result.Path.Validate(sol.Grid, sol.Start, sol.End); ok && err != nil {
		fatal("verify: %v", err)
	}
	fmt.Fprintln(os.Stderr, "verify: ok")
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridpath/internal/platform/tui"
)

var (
	flagWatchSource string
	flagWatchFPS    int
	flagWatchSpeed  int
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Animate the A* search in the terminal",
	Long: `Run the search one expansion batch per frame and draw it.

Legend:
  #  blocked      +  frontier     .  closed
  @  expanding    *  final path   S/E endpoints

Controls:
  P/Space  - Pause          S  - Single step
  +/-      - Speed          F  - Finish now
  R        - Restart        N  - New grid (generated input)
  Q/Ctrl+C - Quit

Examples:
  gridpath watch --source maze --seed 4
  gridpath watch plan.png --fps 60 --speed 8`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchSource, "source", "", "Grid source when no file is given (default: generator.name)")
	watchCmd.Flags().StringVar(&flagStart, "start", "", "Start cell as row,col")
	watchCmd.Flags().StringVar(&flagEnd, "end", "", "End cell as row,col")
	watchCmd.Flags().IntVar(&flagWatchFPS, "fps", 0, "Frames per second (default: watch.fps)")
	watchCmd.Flags().IntVar(&flagWatchSpeed, "speed", 0, "Expansions per frame (default: watch.steps_per_frame)")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if flagWatchFPS > 0 {
		cfg.Watch.FPS = flagWatchFPS
	}
	if flagWatchSpeed > 0 {
		cfg.Watch.StepsPerFrame = flagWatchSpeed
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	solver := newSolver(cfg, logger, store)

	opts := tui.WatchOptions{
		FPS:           cfg.Watch.FPS,
		StepsPerFrame: cfg.Watch.StepsPerFrame,
		OnDone:        tui.Recorder(context.Background(), solver),
	}

	var (
		sc  tui.Scenario
		err error
	)
	if len(args) == 1 {
		start, perr := parseCoord(flagStart)
		if perr != nil {
			fatal("%v", perr)
		}
		end, perr := parseCoord(flagEnd)
		if perr != nil {
			fatal("%v", perr)
		}
		sc, err = tui.FileScenario(solver, args[0], start, end)
	} else {
		name := flagWatchSource
		if name == "" {
			name = cfg.Generator.Name
		}
		seed := resolveSeed(cmd, cfg)
		sc, err = tui.GeneratedScenario(solver, name, seed)
		opts.Next = func() (tui.Scenario, error) {
			seed++
			return tui.GeneratedScenario(solver, name, seed)
		}
	}
	if err != nil {
		fatal("%v", err)
	}

	// The log would tear the alternate screen.
	logger.SetOutput(io.Discard)

	width, height := termSize()
	res, err := tui.RunWatch(sc, opts, width, height)
	if err != nil {
		fatal("%v", err)
	}
	if res.Found {
		fmt.Printf("last search: path of %d cells, %d nodes expanded\n", len(res.Path), res.Expanded)
	}
}

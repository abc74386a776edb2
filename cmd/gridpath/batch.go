package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/gridbuild"
	"github.com/vovakirdan/gridpath/internal/report"
)

var (
	flagBatchSource   string
	flagBatchSeeds    int
	flagBatchParallel int
	flagBatchMarkdown bool
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Solve many inputs concurrently and print a stats table",
	Long: `Solve every given image or grid file, or a run of generated grids,
with up to --parallel solves at a time.

Directories are searched recursively for images and grid files.
With --seeds N and no files, the source is solved for N consecutive
seeds starting at --seed.

A failing input is reported and does not stop the batch.

Examples:
  gridpath batch scans/
  gridpath batch a.png b.yaml --markdown > results.md
  gridpath batch --source maze --seeds 20 --seed 100 --parallel 8`,
	Run: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&flagBatchSource, "source", "", "Grid source for --seeds (default: generator.name)")
	batchCmd.Flags().IntVar(&flagBatchSeeds, "seeds", 0, "Number of generated grids to solve")
	batchCmd.Flags().IntVar(&flagBatchParallel, "parallel", 0, "Concurrent solves (default: search.parallel)")
	batchCmd.Flags().BoolVar(&flagBatchMarkdown, "markdown", false, "Print the table as Markdown")
}

func runBatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	solver := newSolver(cfg, logger, store)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		items []engine.BatchItem
		err   error
	)
	switch {
	case len(args) > 0:
		paths, expandErr := expandInputs(args)
		if expandErr != nil {
			fatal("%v", expandErr)
		}
		if len(paths) == 0 {
			fatal("no images or grid files found")
		}
		items, err = solver.SolveBatch(ctx, paths, flagBatchParallel)
	case flagBatchSeeds > 0:
		name := flagBatchSource
		if name == "" {
			name = cfg.Generator.Name
		}
		first := resolveSeed(cmd, cfg)
		seeds := make([]int64, flagBatchSeeds)
		for i := range seeds {
			seeds[i] = first + int64(i)
		}
		items, err = solver.SolveSeeds(ctx, name, seeds, flagBatchParallel)
	default:
		fatal("give files or directories, or --seeds N")
	}
	if err != nil {
		fatal("%v", err)
	}

	entries := make([]report.Entry, 0, len(items))
	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			logger.Error("solve failed", "input", item.Path, "err", item.Err)
			continue
		}
		entries = append(entries, item.Solution.Entry())
	}

	mode := report.ASCII
	if flagBatchMarkdown {
		mode = report.Markdown
	}
	fmt.Println(report.StatsTable(entries, mode))

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d inputs failed\n", failed, len(items))
		os.Exit(1)
	}
}

// expandInputs keeps files as given and walks directories for supported
// extensions, in lexical order.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSupportedInput(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func isSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(imageExtensions, ext) || gridbuild.IsGridFile(path)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kofarve/internal/platform/tui"
	"github.com/vovakirdan/kofarve/internal/storage"
)

var (
	flagRunsLevel string
	flagRunsLimit int
	flagRunsPlain bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse finished runs",
	Long: `Show the best finished runs, level by level.

In a terminal an interactive table opens; Tab switches level. With --plain,
or when output is not a terminal, the best runs are printed instead.

Examples:
  kofarve runs
  kofarve runs --plain --level meadow
  kofarve runs --clear --level quarry`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsLevel, "level", "", "Only show this level")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to print")
	runsCmd.Flags().BoolVar(&flagRunsPlain, "plain", false, "Print instead of opening the browser")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the runs of --level, or every run")
}

func runRuns(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: run storage is disabled")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRunsClear:
		err = clearRuns(store)
	case flagRunsPlain || !term.IsTerminal(int(os.Stdout.Fd())):
		err = printRuns(store)
	default:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunScoreboard(store, width, height)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func clearRuns(store *storage.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.ClearRuns(ctx, flagRunsLevel); err != nil {
		return err
	}
	if flagRunsLevel == "" {
		fmt.Println("Deleted every run.")
	} else {
		fmt.Printf("Deleted the runs of %s.\n", flagRunsLevel)
	}
	return nil
}

func printRuns(store *storage.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runs, err := store.BestRuns(ctx, flagRunsLevel, flagRunsLimit)
	if err != nil {
		return err
	}

	title := "every level"
	if flagRunsLevel != "" {
		title = flagRunsLevel
	}
	fmt.Printf("Best runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'kofarve play' to set the first score!")
		return nil
	}

	fmt.Printf("  %-4s  %-14s  %-6s  %-6s  %-7s  %s\n", "Rank", "Level", "Score", "Result", "Pickups", "Date")
	fmt.Printf("  %-4s  %-14s  %-6s  %-6s  %-7s  %s\n", "----", "-----", "-----", "------", "-------", "----")
	for i, r := range runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		pickups := fmt.Sprintf("%d/%d", r.Collected, r.Total)
		fmt.Printf("  %-4d  %-14s  %-6d  %-6s  %-7s  %s\n",
			i+1, r.Level, r.Score, result, pickups, r.PlayedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

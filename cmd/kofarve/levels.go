package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kofarve/internal/world"
)

var flagExport string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List built-in levels",
	Long: `Shows the levels shipped with the game, in campaign order.

With --export a level is written as YAML so it can be edited and played
with 'kofarve play <file>'.

Examples:
  kofarve levels
  kofarve levels --export meadow > meadow.yaml`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagExport, "export", "", "Print the named level as YAML")
}

func runLevels(_ *cobra.Command, _ []string) {
	if flagExport != "" {
		lvl, err := world.Builtin(flagExport)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		data, err := lvl.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	names := world.BuiltinNames()
	if len(names) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Built-in levels:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, n := range names {
		maxNameLen = max(maxNameLen, len(n))
	}

	fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxNameLen, "Name", "Size", "Pickups", "Time")
	fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxNameLen, "----", "----", "-------", "----")
	for _, n := range names {
		lvl, err := world.Builtin(n)
		if err != nil {
			fmt.Printf("  %-*s  (broken: %v)\n", maxNameLen, n, err)
			continue
		}
		limit := "-"
		if lvl.TimeLimit > 0 {
			limit = fmt.Sprintf("%ds", lvl.TimeLimit)
		}
		size := fmt.Sprintf("%dx%d", lvl.Grid.Width(), lvl.Grid.Height())
		fmt.Printf("  %-*s  %-7s  %-7d  %s\n", maxNameLen, n, size, len(lvl.Pickups), limit)
	}

	fmt.Println()
	fmt.Println("Run 'kofarve play' to play them in order.")
}

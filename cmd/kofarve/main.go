// kofarve is a terminal farming game with an in-game developer console.
//
// Usage:
//
//	kofarve play [level.yaml|campaign]  - Play the built-in levels, a level or a campaign
//	kofarve serve                       - Start SSH server for remote play
//	kofarve runs                        - Browse finished runs
//	kofarve levels                      - List built-in levels
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.kofarve/config.yaml)
//	--fps <rate>        - Set tick rate (default: 60)
//	--db <path>         - Set database path (default: ~/.kofarve/runs.db)
//	--log-level <name>  - trace, debug, info, warn or error
//	--log-file <path>   - Copy log records to a file, "-" for stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/config"

	// Import screens to register them
	_ "github.com/vovakirdan/kofarve/internal/screens/editor"
	_ "github.com/vovakirdan/kofarve/internal/screens/menu"
	_ "github.com/vovakirdan/kofarve/internal/screens/outcome"
	_ "github.com/vovakirdan/kofarve/internal/screens/play"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kofarve",
	Short: "kofarve - harvest a field in your terminal",
	Long: `kofarve is a terminal farming game. Walk the farmer over the field,
collect every crop before time or health runs out, and build your own
fields in the editor.

Press ` + "`" + ` in game to open the developer console.

Available commands:
  play     - Play the built-in levels, a level file or a campaign
  serve    - Start SSH server for remote play
  runs     - Browse finished runs
  levels   - List built-in levels

Examples:
  kofarve play
  kofarve play ./fields/orchard.yaml
  kofarve serve --ssh :2222
  kofarve runs --plain`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.kofarve/runs.db", "Path to runs database (empty disables it)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "debug", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", `Copy log records to a file ("-" for stderr)`)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(levelsCmd)
}

// loadConfig loads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.TickRate = flagFPS
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	return cfg, cfg.Validate()
}

// openEcho opens the destination for copies of log records. The returned
// close function is always safe to call.
func openEcho(path string) (io.Writer, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return os.Stderr, func() {}, nil
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	//nolint:errcheck // Best-effort close on exit
	return f, func() { f.Close() }, nil
}

// loadAtlas returns the configured sprite atlas, or nil for the embedded one.
func loadAtlas(cfg config.Config) (*assets.Atlas, error) {
	if cfg.Assets.Atlas == "" {
		return nil, nil
	}
	path, err := config.ExpandHome(cfg.Assets.Atlas)
	if err != nil {
		return nil, err
	}
	return assets.Load(path)
}

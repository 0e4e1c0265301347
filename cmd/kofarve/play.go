package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kofarve/internal/audio"
	"github.com/vovakirdan/kofarve/internal/game"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/platform/tui"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/storage"
	"github.com/vovakirdan/kofarve/internal/world"
)

var playCmd = &cobra.Command{
	Use:   "play [level.yaml|campaign]",
	Short: "Play the game",
	Long: `Start the game at the main menu.

Without an argument the built-in levels are played in order. A .yaml file is
played as a single level; any other file is a campaign listing level files,
one per line.

Controls:
  WASD/Arrows  - Move the farmer (pan in the editor)
  Mouse        - Paint in the editor, click buttons
  Enter        - Confirm
  Esc          - Back to menu, close the console
  ` + "`" + `            - Open the console
  Ctrl+Q       - Quit

Examples:
  kofarve play
  kofarve play ./fields/orchard.yaml
  kofarve play ./campaign.txt --log-file kofarve.log`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	if err := play(cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "couldn't load game: %v\n", err)
		os.Exit(1)
	}
}

func play(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	content, err := world.OpenContent(arg)
	if err != nil {
		return err
	}
	atlas, err := loadAtlas(cfg)
	if err != nil {
		return err
	}

	echo, closeEcho, err := openEcho(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeEcho()
	level, err := logcap.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	capture := logcap.New(logcap.Options{Echo: echo, Level: level})
	logger := capture.Logger("main")

	player, err := audio.New(cfg.Audio.Enabled, cfg.Audio.Volume)
	if err != nil {
		// Continue silently - game still works
		logger.Warn("audio unavailable", "err", err)
	}
	defer player.Close()

	var runs scene.RunStore
	if cfg.Storage.Path != "" {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			// Continue without storage - game still works
			logger.Warn("could not open runs database", "err", err)
		} else {
			defer store.Close()
			runs = store
		}
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	platform := tui.NewPlatform()
	master, err := game.Build(platform, game.Deps{
		Config:  cfg,
		Capture: capture,
		Assets:  atlas,
		Audio:   player,
		Content: content,
		Runs:    runs,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return err
	}

	return tui.Run(master, platform, tui.Options{
		FPS:        cfg.TickRate,
		KeyRelease: cfg.KeyRelease(),
		Mouse:      cfg.Terminal.Mouse,
		Title:      "kofarve",
	})
}

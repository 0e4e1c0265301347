package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kofarve/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagContent     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kofarve SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game, console and log. Finished runs are
stored per-server (all users share the same runs database).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.kofarve/host_key

Examples:
  kofarve serve                           # Listen on :23234 with auto-generated key
  kofarve serve --ssh :2222               # Listen on port 2222
  kofarve serve --content ./campaign.txt  # Serve a campaign
  kofarve serve --log-file -              # Echo session logs to stderr

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagContent, "content", "", "Level file or campaign every session plays")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	atlas, err := loadAtlas(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading atlas: %v\n", err)
		os.Exit(1)
	}
	echo, closeEcho, err := openEcho(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeEcho()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Game:        cfg,
		Content:     flagContent,
		Atlas:       atlas,
		SessionLog:  echo,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting kofarve SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

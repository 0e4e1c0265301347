package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/audio"
	"github.com/vovakirdan/kofarve/internal/config"
	"github.com/vovakirdan/kofarve/internal/game"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/storage"
	"github.com/vovakirdan/kofarve/internal/world"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.kofarve/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game configures every session.
	Game config.Config

	// Content is the level file or campaign each session plays; empty
	// plays the built-in levels.
	Content string

	// Atlas overrides the embedded sprites.
	Atlas *assets.Atlas

	// SessionLog receives a copy of every session's log records.
	SessionLog io.Writer
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
	}
}

// SSHServer serves one game per SSH session. Sessions share the run
// store and nothing else.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kofarve-ssh",
	})
	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}
	if _, err := world.OpenContent(cfg.Content); err != nil {
		return nil, fmt.Errorf("cannot load content: %w", err)
	}

	var store *storage.Store
	if cfg.Game.Storage.Path != "" {
		var err error
		store, err = storage.Open(cfg.Game.Storage.Path)
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
			// Continue without storage
		}
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".kofarve", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

func (s *SSHServer) runs() scene.RunStore {
	if s.store == nil {
		return nil
	}
	return s.store
}

// teaHandler builds a Master for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	master, platform, err := s.newSession(pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("couldn't start game", "user", sshSession.User(), "error", err)
		wish.Fatalln(sshSession, "couldn't load game:", err)
		return nil, nil
	}

	opts := Options{
		FPS:        s.config.Game.TickRate,
		KeyRelease: s.config.Game.KeyRelease(),
		Mouse:      s.config.Game.Terminal.Mouse,
		Renderer:   bubbletea.MakeRenderer(sshSession),
	}
	return NewModel(master, platform, opts), ProgramOptions(opts)
}

func (s *SSHServer) newSession(width, height int) (*game.Master, *Platform, error) {
	cfg := s.config.Game
	level, err := logcap.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	content, err := world.OpenContent(s.config.Content)
	if err != nil {
		return nil, nil, err
	}

	platform := NewRemotePlatform()
	master, err := game.Build(platform, game.Deps{
		Config:  cfg,
		Capture: logcap.New(logcap.Options{Echo: s.config.SessionLog, Level: level}),
		Assets:  s.config.Atlas,
		// The server has no business playing sound.
		Audio:   audio.NewSilent(cfg.Audio.Volume),
		Content: content,
		Runs:    s.runs(),
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return nil, nil, err
	}
	return master, platform, nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.active.Add(1),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.active.Add(-1),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/kofarve/internal/console"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

// ErrUsage is wrapped by verb errors caused by bad arguments.
var ErrUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

// registerVerbs adds the game verbs to the console.
func (m *Master) registerVerbs() {
	c := m.console
	c.Register("play", "play [level]", "play a level, or the first content level", m.verbPlay)
	c.Register("edit", "edit [level]", "open the editor", m.verbEdit)
	c.Register("levels", "levels", "list built-in levels", m.verbLevels)
	c.Register("grid", "grid widen|thin|heighten|shorten", "resize the current grid", m.verbGrid)
	c.Register("paint", "paint <material> <x> <y>", "set one grid cell", m.verbPaint)
	c.Register("goto", "goto <x> <y>", "move the farmer", m.verbGoto)
	c.Register("win", "win", "finish the current level", m.verbFinish(true))
	c.Register("lose", "lose", "fail the current level", m.verbFinish(false))
	c.Register("runs", "runs [n]", "show recent runs", m.verbRuns)
	c.Register("volume", "volume [0-100]", "show or set the volume", m.verbVolume)
	c.Register("mute", "mute", "toggle sound", m.verbMute)
	c.Register("loglevel", "loglevel [level]", "show or set the console log level", m.verbLogLevel)
}

func (m *Master) verbPlay(_ *console.Console, env console.Env, args []string) error {
	var (
		lvl *world.Level
		err error
	)
	if len(args) > 0 {
		lvl, err = world.Find(args[0])
	} else {
		lvl, err = env.State().Content.Start()
	}
	if err != nil {
		return err
	}
	env.State().Switch(scene.ToPlay(lvl))
	return nil
}

func (m *Master) verbEdit(_ *console.Console, env console.Env, args []string) error {
	var lvl *world.Level
	if len(args) > 0 {
		found, err := world.Find(args[0])
		if err != nil {
			return err
		}
		lvl = found
	} else if w, err := env.World(); err == nil {
		lvl = w.Level.Clone()
	}
	env.State().Switch(scene.ToEditor(lvl))
	return nil
}

func (m *Master) verbLevels(c *console.Console, env console.Env, _ []string) error {
	c.Println("content: " + env.State().Content.Describe())
	for _, name := range world.BuiltinNames() {
		c.Println("  " + name)
	}
	return nil
}

func (m *Master) verbGrid(c *console.Console, env console.Env, args []string) error {
	if len(args) != 1 {
		return usage("grid widen|thin|heighten|shorten")
	}
	w, err := env.World()
	if err != nil {
		return err
	}
	g := w.Grid()
	switch strings.ToLower(args[0]) {
	case "widen":
		g.Widen()
	case "thin":
		g.Thin()
	case "heighten":
		g.Heighten()
	case "shorten":
		g.Shorten()
	default:
		return usage("grid widen|thin|heighten|shorten")
	}
	c.Println(fmt.Sprintf("grid is %dx%d", g.Width(), g.Height()))
	return nil
}

func parseCell(xs, ys string) (core.Point, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return core.Point{}, fmt.Errorf("bad x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return core.Point{}, fmt.Errorf("bad y %q: %w", ys, err)
	}
	return core.Pt(x, y), nil
}

func (m *Master) verbPaint(_ *console.Console, env console.Env, args []string) error {
	if len(args) != 3 {
		return usage("paint <material> <x> <y>")
	}
	mat, err := world.ParseMaterial(args[0])
	if err != nil {
		return err
	}
	p, err := parseCell(args[1], args[2])
	if err != nil {
		return err
	}
	w, err := env.World()
	if err != nil {
		return err
	}
	if !w.Grid().Insert(p.X, p.Y, mat) {
		return fmt.Errorf("cell %d,%d is outside the grid", p.X, p.Y)
	}
	return nil
}

func (m *Master) verbGoto(_ *console.Console, env console.Env, args []string) error {
	if len(args) != 2 {
		return usage("goto <x> <y>")
	}
	p, err := parseCell(args[0], args[1])
	if err != nil {
		return err
	}
	w, err := env.World()
	if err != nil {
		return err
	}
	return w.Teleport(p)
}

func (m *Master) verbFinish(won bool) console.Verb {
	return func(_ *console.Console, env console.Env, _ []string) error {
		// Only a run in progress can finish; Win and Lose already stored theirs.
		sh, ok := m.screen.(scene.StatsHolder)
		if !ok || m.kind != scene.KindPlay {
			return scene.ErrNoWorld
		}
		stats := sh.Stats()
		stats.Won = won
		if won {
			env.State().Switch(scene.ToWin(stats))
		} else {
			env.State().Switch(scene.ToLose(stats))
		}
		return nil
	}
}

func (m *Master) verbRuns(c *console.Console, env console.Env, args []string) error {
	limit := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage("runs [n]")
		}
		limit = n
	}
	store := env.State().Runs
	if store == nil {
		return errors.New("run storage is disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		c.Println("no runs yet")
		return nil
	}
	for _, r := range runs {
		result := "lost"
		if r.Won {
			result = "won "
		}
		c.Println(fmt.Sprintf("%s %s %5d  %s", r.PlayedAt.Format("01-02 15:04"), result, r.Score(), r))
	}
	return nil
}

func (m *Master) verbVolume(c *console.Console, env console.Env, args []string) error {
	player := env.State().Audio
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 || v > 100 {
			return usage("volume [0-100]")
		}
		player.SetVolume(v)
	}
	c.Println(fmt.Sprintf("volume %d%%", player.Volume()))
	return nil
}

func (m *Master) verbMute(c *console.Console, env console.Env, _ []string) error {
	player := env.State().Audio
	player.SetMuted(!player.Muted())
	if player.Muted() {
		c.Println("sound off")
	} else {
		c.Println("sound on")
	}
	return nil
}

func (m *Master) verbLogLevel(c *console.Console, env console.Env, args []string) error {
	capture := env.State().Capture()
	if capture == nil {
		return errors.New("logs are not captured")
	}
	if len(args) > 0 {
		lvl, err := logcap.ParseLevel(args[0])
		if err != nil {
			return usage("loglevel trace|debug|info|warn|error")
		}
		capture.SetLevel(lvl)
	}
	name := capture.Level().String()
	if capture.Level() == logcap.TraceLevel {
		name = "trace"
	}
	c.Println("log level " + name)
	return nil
}

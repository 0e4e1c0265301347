package world

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/kofarve/internal/core"
)

// ErrUnknownLevel is returned when a level name matches neither a built-in
// level nor a readable file.
var ErrUnknownLevel = errors.New("world: unknown level")

//go:embed levels/*.yaml
var builtinFS embed.FS

// Level is a playable map: the grid, where the farmer starts, the pickups
// to collect and an optional time limit.
type Level struct {
	Name      string
	Grid      Grid
	Start     core.Point
	Pickups   []core.Point
	TimeLimit int // seconds, 0 for none

	// Path is the file the level was loaded from, empty for built-ins.
	Path string
}

// yamlLevel is the on-disk shape of a level.
type yamlLevel struct {
	Name      string      `yaml:"name"`
	TimeLimit int         `yaml:"time_limit,omitempty"`
	Start     yamlPoint   `yaml:"start"`
	Pickups   []yamlPoint `yaml:"pickups,omitempty"`
	Grid      []string    `yaml:"grid"`
}

type yamlPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// NewLevel creates an empty level of the given grid size with the farmer
// in the top-left cell.
func NewLevel(name string, width, height int) *Level {
	return &Level{
		Name: name,
		Grid: NewGrid(width, height),
	}
}

// Parse decodes a level from YAML.
func Parse(data []byte) (*Level, error) {
	var y yamlLevel
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("world: parsing level: %w", err)
	}

	grid, err := GridFromRows(y.Grid)
	if err != nil {
		return nil, err
	}

	lvl := &Level{
		Name:      y.Name,
		Grid:      grid,
		Start:     core.Pt(y.Start.X, y.Start.Y),
		TimeLimit: y.TimeLimit,
	}
	for _, p := range y.Pickups {
		lvl.Pickups = append(lvl.Pickups, core.Pt(p.X, p.Y))
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

// Validate checks that the start and every pickup lie on the grid.
func (l *Level) Validate() error {
	if _, ok := l.Grid.Get(l.Start.X, l.Start.Y); !ok {
		return fmt.Errorf("world: level %q: start %v is outside the grid", l.Name, l.Start)
	}
	for _, p := range l.Pickups {
		if _, ok := l.Grid.Get(p.X, p.Y); !ok {
			return fmt.Errorf("world: level %q: pickup %v is outside the grid", l.Name, p)
		}
	}
	if l.TimeLimit < 0 {
		return fmt.Errorf("world: level %q: negative time limit", l.Name)
	}
	return nil
}

// Marshal encodes the level as YAML.
func (l *Level) Marshal() ([]byte, error) {
	y := yamlLevel{
		Name:      l.Name,
		TimeLimit: l.TimeLimit,
		Start:     yamlPoint{X: l.Start.X, Y: l.Start.Y},
		Grid:      l.Grid.Rows(),
	}
	for _, p := range l.Pickups {
		y.Pickups = append(y.Pickups, yamlPoint{X: p.X, Y: p.Y})
	}
	data, err := yaml.Marshal(&y)
	if err != nil {
		return nil, fmt.Errorf("world: encoding level %q: %w", l.Name, err)
	}
	return data, nil
}

// Load reads a level file.
func Load(file string) (*Level, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("world: reading level %s: %w", file, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}
	lvl.Path = file
	return lvl, nil
}

// Save writes the level to file and records it as the level's path.
func (l *Level) Save(file string) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("world: writing level %s: %w", file, err)
	}
	l.Path = file
	return nil
}

// Clone returns a deep copy, so a screen can mutate a level without
// affecting the one it was given.
func (l *Level) Clone() *Level {
	c := *l
	c.Grid = l.Grid.Clone()
	c.Pickups = append([]core.Point(nil), l.Pickups...)
	return &c
}

// BuiltinNames lists the embedded levels in order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "levels")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of an embedded level.
func Builtin(name string) (*Level, error) {
	data, err := builtinFS.ReadFile("levels/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("world: built-in level %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = name
	}
	return lvl, nil
}

// First returns the first built-in level.
func First() (*Level, error) {
	names := BuiltinNames()
	if len(names) == 0 {
		return nil, ErrUnknownLevel
	}
	return Builtin(names[0])
}

// Find resolves a level by built-in name, falling back to a file path.
func Find(name string) (*Level, error) {
	lvl, err := Builtin(name)
	if err == nil {
		return lvl, nil
	}
	if _, statErr := os.Stat(name); statErr != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return Load(name)
}

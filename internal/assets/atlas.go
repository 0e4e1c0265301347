// Package assets maps sprite names to terminal glyphs.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/kofarve/internal/core"
)

// ErrMissingSprite is returned by Require for an unknown sprite name.
var ErrMissingSprite = errors.New("assets: missing sprite")

//go:embed atlas.yaml
var defaultAtlas []byte

// Sprite is a single glyph with colours.
type Sprite struct {
	Rune rune
	Fg   core.Color
	Bg   core.Color
}

// Cell returns the sprite as a canvas cell.
func (s Sprite) Cell() core.Cell {
	return core.Cell{Rune: s.Rune, Fg: s.Fg, Bg: s.Bg}
}

// Atlas holds every sprite by name.
type Atlas struct {
	sprites map[string]Sprite
}

type yamlAtlas struct {
	Sprites map[string]yamlSprite `yaml:"sprites"`
}

type yamlSprite struct {
	Glyph string `yaml:"glyph"`
	Fg    string `yaml:"fg"`
	Bg    string `yaml:"bg"`
}

// Default returns the embedded atlas.
func Default() (*Atlas, error) {
	return Parse(defaultAtlas)
}

// MustDefault is like Default but panics if the embedded atlas is broken.
func MustDefault() *Atlas {
	a, err := Default()
	if err != nil {
		panic(err)
	}
	return a
}

// Load reads an atlas file. Sprites it defines replace the embedded ones.
func Load(path string) (*Atlas, error) {
	a, err := Default()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: reading %s: %w", path, err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, s := range extra.sprites {
		a.sprites[name] = s
	}
	return a, nil
}

// Parse decodes an atlas from YAML.
func Parse(data []byte) (*Atlas, error) {
	var y yamlAtlas
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("assets: parsing atlas: %w", err)
	}

	a := &Atlas{sprites: make(map[string]Sprite, len(y.Sprites))}
	for name, ys := range y.Sprites {
		if utf8.RuneCountInString(ys.Glyph) != 1 {
			return nil, fmt.Errorf("assets: sprite %s: glyph %q must be one character", name, ys.Glyph)
		}
		r, _ := utf8.DecodeRuneInString(ys.Glyph)
		s := Sprite{Rune: r}
		var err error
		if ys.Fg != "" {
			if s.Fg, err = core.ParseColor(ys.Fg); err != nil {
				return nil, fmt.Errorf("assets: sprite %s: %w", name, err)
			}
		}
		if ys.Bg != "" {
			if s.Bg, err = core.ParseColor(ys.Bg); err != nil {
				return nil, fmt.Errorf("assets: sprite %s: %w", name, err)
			}
		}
		a.sprites[name] = s
	}
	return a, nil
}

// Get returns the named sprite, or a '?' placeholder.
func (a *Atlas) Get(name string) Sprite {
	if s, ok := a.sprites[name]; ok {
		return s
	}
	return Sprite{Rune: '?', Fg: core.ColorMagenta}
}

// Require returns the named sprite or ErrMissingSprite. Screens call it at
// construction so a broken atlas fails loudly instead of drawing '?'.
func (a *Atlas) Require(names ...string) error {
	for _, name := range names {
		if _, ok := a.sprites[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingSprite, name)
		}
	}
	return nil
}

// Names lists all sprite names, sorted.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.sprites))
	for name := range a.sprites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

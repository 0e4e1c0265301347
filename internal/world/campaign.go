package world

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Campaign is an ordered list of level files.
type Campaign struct {
	Path   string
	Levels []string
}

// LoadCampaign reads a campaign file: one level path per line, relative
// paths resolved against the campaign's directory. Blank lines and lines
// starting with '#' are skipped.
func LoadCampaign(file string) (*Campaign, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("world: opening campaign %s: %w", file, err)
	}
	defer f.Close()

	dir := filepath.Dir(file)
	c := &Campaign{Path: file}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		c.Levels = append(c.Levels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("world: reading campaign %s: %w", file, err)
	}
	if len(c.Levels) == 0 {
		return nil, fmt.Errorf("world: campaign %s lists no levels", file)
	}
	return c, nil
}

// Content is what the game was started with: a campaign, a single level,
// or nothing, in which case the built-in levels are played in order.
type Content struct {
	campaign *Campaign
	level    *Level
	next     int
}

// NoContent plays the built-in levels.
func NoContent() *Content {
	return &Content{}
}

// LevelContent plays a single level.
func LevelContent(lvl *Level) *Content {
	return &Content{level: lvl}
}

// CampaignContent plays the campaign's levels in order.
func CampaignContent(c *Campaign) *Content {
	return &Content{campaign: c}
}

// OpenContent picks the content from a command line argument. Files ending
// in .yaml or .yml are levels; anything else is a campaign.
func OpenContent(arg string) (*Content, error) {
	if arg == "" {
		return NoContent(), nil
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml":
		lvl, err := Load(arg)
		if err != nil {
			return nil, err
		}
		return LevelContent(lvl), nil
	}
	c, err := LoadCampaign(arg)
	if err != nil {
		return nil, err
	}
	return CampaignContent(c), nil
}

// Describe names the content for logs.
func (c *Content) Describe() string {
	switch {
	case c.campaign != nil:
		return "campaign " + c.campaign.Path
	case c.level != nil:
		return "level " + c.level.Name
	default:
		return "built-in levels"
	}
}

func (c *Content) names() []string {
	if c.campaign != nil {
		return c.campaign.Levels
	}
	return BuiltinNames()
}

func (c *Content) load(name string) (*Level, error) {
	if c.campaign != nil {
		return Load(name)
	}
	return Builtin(name)
}

// Start rewinds to the first level and returns it.
func (c *Content) Start() (*Level, error) {
	if c.level != nil {
		return c.level.Clone(), nil
	}
	c.next = 0
	lvl, ok, err := c.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownLevel
	}
	return lvl, nil
}

// Next returns the level after the last one handed out. It reports false
// once the sequence is finished; single-level content has no next level.
func (c *Content) Next() (*Level, bool, error) {
	if c.level != nil {
		return nil, false, nil
	}
	names := c.names()
	if c.next >= len(names) {
		return nil, false, nil
	}
	lvl, err := c.load(names[c.next])
	if err != nil {
		return nil, false, err
	}
	c.next++
	return lvl, true, nil
}

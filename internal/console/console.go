// Package console implements the in-game developer console: a scrollback
// of captured log records and command output, an editable prompt, and a
// table of verbs that act on the running game.
package console

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

// Env is what verbs act on.
type Env interface {
	State() *scene.State
	// World returns the active screen's world, or scene.ErrNoWorld.
	World() (*world.World, error)
	// Quit asks the process to terminate.
	Quit()
}

// Verb runs a command. Returned errors are logged as warnings; they never
// reach the frame loop.
type Verb func(c *Console, env Env, args []string) error

type command struct {
	name  string
	usage string
	run   Verb
}

// Options configures a Console.
type Options struct {
	Width  int    // panel width in cells
	Height int    // panel height in rows, prompt included
	Prompt string // marker echoed before executed commands
	Recall int    // executed commands remembered for Up/Down
}

// DefaultOptions returns the console defaults.
func DefaultOptions() Options {
	return Options{
		Width:  80,
		Height: 12,
		Prompt: "> ",
		Recall: 100,
	}
}

type segment struct {
	text  string
	color core.Color
}

// line is one logical history line, possibly wrapped when drawn.
type line []segment

func (l line) String() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.text)
	}
	return sb.String()
}

// Console holds the history and the prompt. It is not safe for concurrent
// use; the Master owns it.
type Console struct {
	log  *log.Logger
	opts Options

	history []line
	open    bool // last history line has no trailing newline yet

	prompt []rune

	verbs map[string]command

	recall    []string
	recallIdx int
}

// New creates a console with the built-in verbs clear, reload, quit, help
// and echo.
func New(logger *log.Logger, opts Options) *Console {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height < 2 {
		opts.Height = def.Height
	}
	if opts.Prompt == "" {
		opts.Prompt = def.Prompt
	}
	if opts.Recall <= 0 {
		opts.Recall = def.Recall
	}

	c := &Console{
		log:    logger,
		opts:   opts,
		prompt: make([]rune, 0, 64),
		verbs:  make(map[string]command),
	}
	c.Register("clear", "clear", "empty the console", func(c *Console, _ Env, _ []string) error {
		c.Clear()
		return nil
	})
	c.Register("reload", "reload", "return to the main menu", func(_ *Console, env Env, _ []string) error {
		env.State().Switch(scene.ToMenu())
		return nil
	})
	c.Register("quit", "quit", "exit the game", func(_ *Console, env Env, _ []string) error {
		env.Quit()
		return nil
	})
	c.Register("help", "help", "list commands", verbHelp)
	c.Register("echo", "echo <text>", "print text", func(c *Console, _ Env, args []string) error {
		c.Println(strings.Join(args, " "))
		return nil
	})
	return c
}

// Register adds a verb. Registering an existing name replaces it.
func (c *Console) Register(name, usage, summary string, run Verb) {
	name = strings.ToLower(name)
	if summary != "" {
		usage = fmt.Sprintf("%-24s %s", usage, summary)
	}
	c.verbs[name] = command{name: name, usage: usage, run: run}
}

// Verbs lists the registered verb names, sorted.
func (c *Console) Verbs() []string {
	names := make([]string, 0, len(c.verbs))
	for name := range c.verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func verbHelp(c *Console, _ Env, _ []string) error {
	for _, name := range c.Verbs() {
		c.Println("  " + c.verbs[name].usage)
	}
	return nil
}

// Execute echoes the prompt into the history, clears it and runs the
// command it held.
func (c *Console) Execute(env Env) {
	text := string(c.prompt)
	c.prompt = c.prompt[:0]
	c.Append(logcap.Fragment{Text: c.opts.Prompt + text + "\n"})
	c.remember(text)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	verb := strings.ToLower(fields[0])
	cmd, ok := c.verbs[verb]
	if !ok {
		c.log.Warn("unknown command", "verb", verb)
		return
	}
	if err := cmd.run(c, env, fields[1:]); err != nil {
		c.log.Warn("command failed", "verb", verb, "err", err)
	}
}

// Println appends text and a newline in the default colour.
func (c *Console) Println(text string) {
	c.Append(logcap.Fragment{Text: text + "\n"})
}

// Append adds fragments to the history, then drops the oldest lines until
// the history fits above the prompt.
func (c *Console) Append(frags ...logcap.Fragment) {
	for _, f := range frags {
		for i, part := range strings.Split(f.Text, "\n") {
			if i > 0 {
				if !c.open {
					c.history = append(c.history, nil)
				}
				c.open = false
			}
			if part == "" {
				continue
			}
			if !c.open {
				c.history = append(c.history, nil)
				c.open = true
			}
			last := &c.history[len(c.history)-1]
			*last = append(*last, segment{text: part, color: f.Color})
		}
	}
	c.trim()
}

func (c *Console) trim() {
	for len(c.history) > 0 && c.Rows() > c.PromptRow() {
		c.history = c.history[1:]
	}
	if len(c.history) == 0 {
		c.open = false
	}
}

// layout walks l wrapped at width and calls place for every rune with its
// column and row. A rune that would cross the right edge starts a new row.
// It returns the number of rows the line takes, at least one.
func (l line) layout(width int, place func(x, row int, r rune, color core.Color)) int {
	x, row := 0, 0
	for _, seg := range l {
		for _, r := range seg.text {
			w := runewidth.RuneWidth(r)
			if x > 0 && x+w > width {
				x = 0
				row++
			}
			if place != nil {
				place(x, row, r, seg.color)
			}
			x += w
		}
	}
	return row + 1
}

func (c *Console) rowsOf(l line) int {
	return l.layout(c.opts.Width, nil)
}

// Rows returns the rendered height of the history at the panel width.
func (c *Console) Rows() int {
	rows := 0
	for _, l := range c.history {
		rows += c.rowsOf(l)
	}
	return rows
}

// PromptRow is the row of the prompt inside the panel; the history must
// fit above it.
func (c *Console) PromptRow() int {
	return c.opts.Height - 1
}

// Bottom is the first row below the panel.
func (c *Console) Bottom() int {
	return c.opts.Height
}

// Resize changes the panel size and rewraps the history.
func (c *Console) Resize(width, height int) {
	if width > 0 {
		c.opts.Width = width
	}
	if height >= 2 {
		c.opts.Height = height
	}
	c.trim()
}

// Clear empties the history.
func (c *Console) Clear() {
	c.history = nil
	c.open = false
}

// Lines returns the plain text of every history line, oldest first.
func (c *Console) Lines() []string {
	out := make([]string, len(c.history))
	for i, l := range c.history {
		out[i] = l.String()
	}
	return out
}

// Insert appends a rune to the prompt.
func (c *Console) Insert(r rune) {
	c.prompt = append(c.prompt, r)
}

// InsertString appends text to the prompt. Line breaks become spaces and
// other control characters are dropped.
func (c *Console) InsertString(s string) {
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			c.prompt = append(c.prompt, ' ')
		case unicode.IsControl(r):
		default:
			c.prompt = append(c.prompt, r)
		}
	}
}

// Backspace removes the last rune of the prompt.
func (c *Console) Backspace() {
	if len(c.prompt) > 0 {
		c.prompt = c.prompt[:len(c.prompt)-1]
	}
}

// Prompt returns the text being edited.
func (c *Console) Prompt() string {
	return string(c.prompt)
}

// SetPrompt replaces the text being edited.
func (c *Console) SetPrompt(s string) {
	c.prompt = append(c.prompt[:0], []rune(s)...)
}

func (c *Console) remember(text string) {
	if strings.TrimSpace(text) != "" {
		c.recall = append(c.recall, text)
		if len(c.recall) > c.opts.Recall {
			c.recall = c.recall[len(c.recall)-c.opts.Recall:]
		}
	}
	c.recallIdx = len(c.recall)
}

// RecallPrev puts the previous executed command into the prompt.
func (c *Console) RecallPrev() {
	if c.recallIdx > 0 {
		c.recallIdx--
		c.SetPrompt(c.recall[c.recallIdx])
	}
}

// RecallNext moves forward through executed commands, ending on an empty
// prompt.
func (c *Console) RecallNext() {
	if c.recallIdx < len(c.recall)-1 {
		c.recallIdx++
		c.SetPrompt(c.recall[c.recallIdx])
		return
	}
	c.recallIdx = len(c.recall)
	c.SetPrompt("")
}

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/game"
)

// DefaultKeyRelease is how long a key stays down after the terminal last
// reported it.
const DefaultKeyRelease = 120 * time.Millisecond

var mouseButtons = []core.MouseButton{core.MouseLeft, core.MouseMiddle, core.MouseRight}

// Options configures a Model.
type Options struct {
	FPS int
	// KeyRelease is the silence after which a held key is released.
	// Terminals report presses and auto-repeats but no releases.
	KeyRelease time.Duration
	// Mouse enables mouse reporting and the software cursor.
	Mouse bool
	// Renderer styles the output; nil uses the process default.
	Renderer *lipgloss.Renderer
	// Title is the terminal window title.
	Title string
}

// Model is the Bubble Tea model driving one Master.
type Model struct {
	master   *game.Master
	platform *Platform
	atlas    *assets.Atlas
	canvas   *core.Canvas
	painter  *Painter
	opts     Options

	held map[core.Key]time.Time
	last time.Time
	now  func() time.Time
	err  error
}

// NewModel creates a model. The canvas takes the State's size until the
// first WindowSizeMsg arrives.
func NewModel(m *game.Master, p *Platform, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.KeyRelease <= 0 {
		opts.KeyRelease = DefaultKeyRelease
	}
	s := m.State()
	return Model{
		master:   m,
		platform: p,
		atlas:    s.Assets,
		canvas:   core.NewCanvas(max(s.Width, 1), max(s.Height, 1)),
		painter:  NewPainter(opts.Renderer),
		opts:     opts,
		held:     make(map[core.Key]time.Time),
		now:      time.Now,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.opts.FPS)}
	if m.opts.Title != "" {
		cmds = append(cmds, tea.SetWindowTitle(m.opts.Title))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width, msg.Height)
		m.master.Resize(msg.Width, msg.Height)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, m.stopIfQuitting()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.master.Quit()
		return m, tea.Quit
	}
	s, ok := Translate(msg)
	if !ok {
		return m, nil
	}
	if s.Paste != "" {
		m.master.Paste(s.Paste)
		return m, nil
	}

	// Only a console that was already open receives the text, so the
	// toggle key never types itself.
	wasOpen := m.master.ConsoleOpen()

	for _, mod := range s.Mods {
		m.master.KeyDown(mod, false)
	}
	_, repeat := m.held[s.Key]
	m.master.KeyDown(s.Key, repeat)
	m.held[s.Key] = m.now()

	if wasOpen && s.Text != 0 {
		m.master.TextInput(s.Text)
	}
	for _, mod := range s.Mods {
		m.master.KeyUp(mod)
	}
	return m, m.stopIfQuitting()
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	if !m.opts.Mouse {
		return
	}
	m.master.MouseMoved(core.Pt(msg.X, msg.Y))

	switch msg.Action {
	case tea.MouseActionPress:
		if b, ok := Button(msg.Button); ok {
			m.master.MouseDown(b)
		}
	case tea.MouseActionRelease:
		// X10 style reports do not say which button was released.
		if b, ok := Button(msg.Button); ok {
			m.master.MouseUp(b)
			return
		}
		held := m.master.State().Input.Mouse
		for _, b := range mouseButtons {
			if held.Has(b) {
				m.master.MouseUp(b)
			}
		}
	}
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var elapsed time.Duration
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last)
	}
	m.last = now

	m.releaseStale()
	if err := m.master.Frame(elapsed); err != nil {
		m.err = err
		return m, tea.Quit
	}
	if cmd := m.stopIfQuitting(); cmd != nil {
		return m, cmd
	}
	return m, tickCmd(m.opts.FPS)
}

func (m Model) releaseStale() {
	now := m.now()
	for k, at := range m.held {
		if now.Sub(at) >= m.opts.KeyRelease {
			delete(m.held, k)
			m.master.KeyUp(k)
		}
	}
}

func (m Model) stopIfQuitting() tea.Cmd {
	if m.master.Quitting() || m.platform.Quitting() {
		return tea.Quit
	}
	return nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.err != nil || m.master.Quitting() {
		return ""
	}
	m.master.Draw(m.canvas)
	m.drawCursor()
	return m.painter.Render(m.canvas)
}

// drawCursor paints the cursor glyph over the frame, keeping the cell's
// background.
func (m Model) drawCursor() {
	c := m.platform.Cursor()
	if !m.opts.Mouse || c.Hidden {
		return
	}
	sprite := m.atlas.Get("cursor/" + c.Icon.String())
	pos := m.master.State().Mouse
	under := m.canvas.Cell(pos.X, pos.Y)
	m.canvas.SetCell(pos.X, pos.Y, core.Cell{Rune: sprite.Rune, Fg: sprite.Fg, Bg: under.Bg})
}

// Err returns the error that stopped the frame loop, if any.
func (m Model) Err() error {
	return m.err
}

// ProgramOptions returns the Bubble Tea options the model expects.
func ProgramOptions(opts Options) []tea.ProgramOption {
	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		popts = append(popts, tea.WithMouseAllMotion())
	}
	return popts
}

// Run plays the game in the current terminal until it quits.
func Run(m *game.Master, p *Platform, opts Options) error {
	model := NewModel(m, p, opts)
	program := tea.NewProgram(model, ProgramOptions(opts)...)

	final, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}

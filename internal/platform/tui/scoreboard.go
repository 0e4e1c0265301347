package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kofarve/internal/storage"
)

// Scoreboard layout constants
const (
	maxRuns      = 100 // Max runs to load per level
	allLevels    = "all levels"
	queryTimeout = 2 * time.Second
)

// RunSource is the part of the run store the scoreboard reads.
type RunSource interface {
	AllLevelStats(ctx context.Context) (map[string]*storage.LevelStats, error)
	BestRuns(ctx context.Context, level string, limit int) ([]storage.Run, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextLevel, k.PrevLevel, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextLevel, k.PrevLevel, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev level"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel browses stored runs level by level.
type ScoreboardModel struct {
	source RunSource
	levels []string // allLevels first, then played levels by name
	stats  map[string]*storage.LevelStats
	cursor int
	runs   []storage.Run
	err    error
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int
}

// NewScoreboardModel creates a scoreboard over source.
func NewScoreboardModel(source RunSource, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		source: source,
		levels: []string{allLevels},
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	stats, err := source.AllLevelStats(ctx)
	if err != nil {
		m.err = err
		return m
	}
	m.stats = stats
	for name := range stats {
		m.levels = append(m.levels, name)
	}
	slices.Sort(m.levels[1:])
	m.loadRuns()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Level", Width: 14},
		{Title: "Score", Width: 7},
		{Title: "Result", Width: 6},
		{Title: "Pickups", Width: 8},
		{Title: "Time", Width: 7},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Level returns the selected level, or "" for every level.
func (m ScoreboardModel) Level() string {
	if m.levels[m.cursor] == allLevels {
		return ""
	}
	return m.levels[m.cursor]
}

func (m *ScoreboardModel) loadRuns() {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	runs, err := m.source.BestRuns(ctx, m.Level(), maxRuns)
	m.runs, m.err = runs, err
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Level,
			fmt.Sprintf("%d", r.Score),
			result,
			fmt.Sprintf("%d/%d", r.Collected, r.Total),
			r.Elapsed.Round(time.Second).String(),
			r.PlayedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			m.cursor = (m.cursor + 1) % len(m.levels)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			m.cursor = (m.cursor - 1 + len(m.levels)) % len(m.levels)
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render("BEST RUNS - " + m.levels[m.cursor]))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.summary()))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.err != nil:
		b.WriteString(boxStyle.Render("Could not read runs: " + m.err.Error()))
	case len(m.runs) == 0:
		b.WriteString(boxStyle.Render(dimStyle.Italic(true).Render("No runs recorded yet.\nClear a field to set a score!")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) summary() string {
	var runs, wins, best int
	if level := m.Level(); level != "" {
		if ls, ok := m.stats[level]; ok {
			runs, wins, best = ls.Runs, ls.Wins, ls.BestScore
		}
	} else {
		for _, ls := range m.stats {
			runs += ls.Runs
			wins += ls.Wins
			best = max(best, ls.BestScore)
		}
	}
	return fmt.Sprintf("%d runs, %d won, best score %d", runs, wins, best)
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(source RunSource, width, height int) error {
	p := tea.NewProgram(NewScoreboardModel(source, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

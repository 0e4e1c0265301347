package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kofarve/internal/storage"
	"github.com/vovakirdan/kofarve/internal/world"
)

type fakeRuns struct {
	stats   map[string]*storage.LevelStats
	runs    []storage.Run
	err     error
	queries []string
}

func (f *fakeRuns) AllLevelStats(context.Context) (map[string]*storage.LevelStats, error) {
	return f.stats, f.err
}

func (f *fakeRuns) BestRuns(_ context.Context, level string, _ int) ([]storage.Run, error) {
	f.queries = append(f.queries, level)
	var out []storage.Run
	for _, r := range f.runs {
		if level == "" || r.Level == level {
			out = append(out, r)
		}
	}
	return out, nil
}

func sampleRuns() *fakeRuns {
	played := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeRuns{
		stats: map[string]*storage.LevelStats{
			"quarry": {Level: "quarry", Runs: 1, Wins: 0, BestScore: 120},
			"meadow": {Level: "meadow", Runs: 2, Wins: 1, BestScore: 540},
		},
		runs: []storage.Run{
			{ID: 1, Score: 540, Statistics: world.Statistics{Level: "meadow", Collected: 3, Total: 3, Won: true, Elapsed: 40 * time.Second, PlayedAt: played}},
			{ID: 2, Score: 120, Statistics: world.Statistics{Level: "quarry", Collected: 1, Total: 4, PlayedAt: played}},
		},
	}
}

func TestScoreboardCyclesLevels(t *testing.T) {
	src := sampleRuns()
	m := NewScoreboardModel(src, 100, 30)

	if m.Level() != "" {
		t.Errorf("Level() = %q, expected every level first", m.Level())
	}
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("rows = %d, expected 2", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.Level() != "meadow" {
		t.Errorf("Level() = %q, expected levels sorted by name", m.Level())
	}
	if !strings.Contains(m.View(), "2 runs, 1 won, best score 540") {
		t.Errorf("View() missing level summary:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.Level() != "quarry" {
		t.Errorf("Level() = %q, expected wrap to the last level", m.Level())
	}
	if got := src.queries; len(got) != 4 || got[3] != "quarry" {
		t.Errorf("queries = %v", got)
	}
}

func TestScoreboardEmptyAndFailing(t *testing.T) {
	empty := NewScoreboardModel(&fakeRuns{}, 80, 24)
	if !strings.Contains(empty.View(), "No runs recorded yet.") {
		t.Error("empty store should say so")
	}

	broken := NewScoreboardModel(&fakeRuns{err: errors.New("disk gone")}, 80, 24)
	if !strings.Contains(broken.View(), "disk gone") {
		t.Error("a read error should be shown")
	}
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(sampleRuns(), 80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
}

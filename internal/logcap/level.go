package logcap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/core"
)

// TraceLevel sits below debug. charm log has no trace level of its own, so
// its name encodes as an empty string and decodes back to TraceLevel.
const TraceLevel = log.DebugLevel - 4

// ParseLevel parses a level name, accepting "trace" in addition to the
// levels charm log knows.
func ParseLevel(name string) (log.Level, error) {
	if strings.EqualFold(strings.TrimSpace(name), "trace") {
		return TraceLevel, nil
	}
	return log.ParseLevel(name)
}

// Styles returns the charm log styles with a label for TraceLevel.
func Styles() *log.Styles {
	st := log.DefaultStyles()
	st.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRAC").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("245"))
	return st
}

// Trace logs at TraceLevel.
func Trace(l *log.Logger, msg string, keyvals ...any) {
	l.Log(TraceLevel, msg, keyvals...)
}

func decodeLevel(name string) log.Level {
	if name == "" {
		return TraceLevel
	}
	lvl, err := ParseLevel(name)
	if err != nil {
		return TraceLevel
	}
	return lvl
}

// LevelColor maps a severity to the colour of its console fragment.
func LevelColor(l log.Level) core.Color {
	switch {
	case l >= log.ErrorLevel:
		return core.ColorRed
	case l >= log.WarnLevel:
		return core.ColorYellow
	case l >= log.InfoLevel:
		return core.ColorDefault
	case l >= log.DebugLevel:
		return core.ColorBlue
	default:
		return core.ColorGray
	}
}

// Package logcap captures the game's own diagnostic records so the in-game
// console can show them.
//
// Components log through charm loggers minted by Capture.Logger. Those
// loggers write logfmt into the Capture, which decodes each record, keeps
// only records carrying the application prefix, echoes a readable copy to the
// diagnostic writer and buffers a coloured Fragment until the next Drain.
package logcap

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-logfmt/logfmt"

	"github.com/vovakirdan/kofarve/internal/core"
)

// DefaultApp is the prefix every captured record must carry.
const DefaultApp = "kofarve"

// Fragment is a piece of styled console text.
type Fragment struct {
	Text  string
	Color core.Color
}

// Options configures a Capture.
type Options struct {
	// App is the prefix of records to keep. Defaults to DefaultApp.
	App string
	// Echo receives a human readable copy of every kept record.
	// Nil discards the copy.
	Echo io.Writer
	// Level is the minimum level of kept records.
	Level log.Level
}

// Capture is the sink behind every application logger. It is safe for
// concurrent use; one Capture exists per running game.
type Capture struct {
	app   string
	level log.Level
	echo  *log.Logger

	mu  sync.Mutex
	buf []Fragment
}

// New creates a Capture.
func New(opts Options) *Capture {
	if opts.App == "" {
		opts.App = DefaultApp
	}
	if opts.Echo == nil {
		opts.Echo = io.Discard
	}
	echo := log.NewWithOptions(opts.Echo, log.Options{
		ReportTimestamp: true,
		Level:           TraceLevel,
	})
	echo.SetStyles(Styles())

	return &Capture{
		app:   opts.App,
		level: opts.Level,
		echo:  echo,
	}
}

// Logger returns a logger for module whose records land in this capture.
// An empty module logs under the bare application prefix.
func (c *Capture) Logger(module string) *log.Logger {
	prefix := c.app
	if module != "" {
		prefix = c.app + "/" + module
	}
	// Loggers emit everything; Write applies the current level.
	return log.NewWithOptions(c, log.Options{
		Prefix:    prefix,
		Level:     TraceLevel,
		Formatter: log.LogfmtFormatter,
	})
}

// SetLevel changes the minimum level of kept records, for every logger
// including those already minted.
func (c *Capture) SetLevel(l log.Level) {
	c.mu.Lock()
	c.level = l
	c.mu.Unlock()
}

// Level returns the minimum level of kept records.
func (c *Capture) Level() log.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

type record struct {
	level   log.Level
	prefix  string
	msg     string
	keyvals []any
}

// Write decodes logfmt records. Records without the application prefix or
// below the level are dropped. Write never fails.
func (c *Capture) Write(p []byte) (int, error) {
	records := decode(p)
	level := c.Level()

	var kept []record
	frags := make([]Fragment, 0, len(records))
	for _, r := range records {
		if !c.owns(r.prefix) || r.level < level {
			continue
		}
		kept = append(kept, r)
		frags = append(frags, Fragment{
			Text:  c.format(r),
			Color: LevelColor(r.level),
		})
	}
	if len(frags) == 0 {
		return len(p), nil
	}

	c.mu.Lock()
	c.buf = append(c.buf, frags...)
	c.mu.Unlock()

	for _, r := range kept {
		c.echo.WithPrefix(r.prefix).Log(r.level, r.msg, r.keyvals...)
	}
	return len(p), nil
}

// Drain returns every buffered fragment and empties the buffer.
func (c *Capture) Drain() []Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.buf
	c.buf = nil
	return out
}

func (c *Capture) owns(prefix string) bool {
	return prefix == c.app || strings.HasPrefix(prefix, c.app+"/")
}

func (c *Capture) format(r record) string {
	var sb strings.Builder
	module := strings.TrimPrefix(strings.TrimPrefix(r.prefix, c.app), "/")
	if module != "" {
		sb.WriteString(module)
		sb.WriteString(": ")
	}
	sb.WriteString(r.msg)
	for i := 0; i+1 < len(r.keyvals); i += 2 {
		sb.WriteByte(' ')
		sb.WriteString(r.keyvals[i].(string))
		sb.WriteByte('=')
		v := r.keyvals[i+1].(string)
		if strings.ContainsAny(v, " \t\"=") {
			v = strconv.Quote(v)
		}
		sb.WriteString(v)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func decode(p []byte) []record {
	var out []record
	dec := logfmt.NewDecoder(bytes.NewReader(p))
	for dec.ScanRecord() {
		r := record{level: TraceLevel}
		for dec.ScanKeyval() {
			key := string(dec.Key())
			val := string(dec.Value())
			switch key {
			case log.LevelKey:
				r.level = decodeLevel(val)
			case log.PrefixKey:
				r.prefix = strings.TrimSuffix(val, ":")
			case log.MessageKey:
				r.msg = val
			case log.TimestampKey, log.CallerKey:
			default:
				r.keyvals = append(r.keyvals, key, val)
			}
		}
		out = append(out, r)
	}
	return out
}

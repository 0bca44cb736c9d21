// Package logs builds the application logger.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Options selects where log records go.
type Options struct {
	Level string    // debug, info, warn or error
	File  string    // appended to when set
	Extra io.Writer // e.g. stderr in headless modes; may be nil
}

// New returns a logger fanned out to every configured sink, and a close
// function for the log file. With no sinks the logger discards records.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(strings.ToUpper(opts.Level))); err != nil && opts.Level != "" {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var handlers []slog.Handler
	closeFn := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFn = f.Close
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	if opts.Extra != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Extra, &slog.HandlerOptions{
			Level: level,
		}))
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

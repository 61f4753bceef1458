// Package logging sets up the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pthm-cable/windlayer/config"
)

// Logger wraps the slog logger with the writer it owns.
type Logger struct {
	*slog.Logger
	// LogFile is empty when logging to stderr.
	LogFile string

	closer io.Closer
}

// New builds a JSON logger at level. With cfg.File set, output goes to a
// rotating file; otherwise to stderr.
func New(cfg config.LogConfig, level slog.Level) *Logger {
	var w io.Writer = os.Stderr
	l := &Logger{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		if dir := filepath.Dir(cfg.File); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		w = lj
		l.LogFile = lj.Filename
		l.closer = lj
	}
	return newWithWriter(l, w, level)
}

func newWithWriter(l *Logger, w io.Writer, level slog.Level) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l.Logger = slog.New(h)
	return l
}

// Install makes l the default slog logger and logs basic system info.
func (l *Logger) Install() {
	slog.SetDefault(l.Logger)
	l.Info("system information",
		slog.String("goarch", runtime.GOARCH),
		slog.String("goos", runtime.GOOS),
		slog.Int("num_cpus", runtime.NumCPU()),
		slog.String("go_version", runtime.Version()))
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

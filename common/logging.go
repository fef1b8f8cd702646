package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggingOpts struct {
	Debug   bool
	JSON    bool
	Service string
	Version string

	// LogDir, when set, adds a per-run log file log-<date>-<time>.log in
	// that directory, rotated by size.
	LogDir string
}

// SetupLogger builds the process logger. Records always go to stdout.
func SetupLogger(opts *LoggingOpts) (log *slog.Logger) {
	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if opts.LogDir != "" {
		out = io.MultiWriter(os.Stdout, newLogFile(opts.LogDir, time.Now()))
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	if opts.JSON {
		log = slog.New(slog.NewJSONHandler(out, handlerOpts))
	} else {
		log = slog.New(slog.NewTextHandler(out, handlerOpts))
	}

	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}

	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}

	return log
}

func newLogFile(dir string, started time.Time) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName(started)),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	}
}

// LogFileName returns the file name used for a run started at t.
func LogFileName(t time.Time) string {
	return fmt.Sprintf("log-%s.log", t.Format("2006-01-02-15-04-05"))
}

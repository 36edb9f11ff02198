package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Logger is the interface for application-wide logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Close() error
}

// hybridLogger outputs to stdout in real-time and mirrors every record to a
// local log file when one is configured.
type hybridLogger struct {
	stdoutHandler slog.Handler
	fileHandler   slog.Handler
	logFile       *os.File
	mu            sync.Mutex
	minLevel      Level
	appName       string
	env           string
}

// NewHybridLogger creates a new hybrid logger. When cfg.LogFile is set the
// file is opened in append mode and must be released with Close.
func NewHybridLogger(cfg Config) (Logger, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	h := &hybridLogger{
		stdoutHandler: slog.NewTextHandler(output, &slog.HandlerOptions{Level: slogLevel(cfg.Level)}),
		minLevel:      cfg.Level,
		appName:       cfg.AppName,
		env:           cfg.Environment,
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		h.logFile = f
		h.fileHandler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: slogLevel(cfg.Level)})
	}
	return h, nil
}

// slogLevel converts our Level to slog.Level
func slogLevel(lvl Level) slog.Level {
	switch lvl {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (h *hybridLogger) log(level slog.Level, msg string, args ...interface{}) {
	if levelFromSlog(level) < h.minLevel {
		return
	}
	rec := slog.NewRecord(time.Now(), level, msg, 0)
	rec.Add(args...)
	if h.appName != "" {
		rec.Add("app", h.appName)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.stdoutHandler.Handle(context.Background(), rec)
	if h.fileHandler != nil {
		_ = h.fileHandler.Handle(context.Background(), rec.Clone())
	}
}

func (h *hybridLogger) Debug(msg string, args ...interface{}) { h.log(slog.LevelDebug, msg, args...) }
func (h *hybridLogger) Info(msg string, args ...interface{})  { h.log(slog.LevelInfo, msg, args...) }
func (h *hybridLogger) Warn(msg string, args ...interface{})  { h.log(slog.LevelWarn, msg, args...) }
func (h *hybridLogger) Error(msg string, args ...interface{}) { h.log(slog.LevelError, msg, args...) }

// Close releases the log file sink, if any.
func (h *hybridLogger) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.logFile == nil {
		return nil
	}
	err := h.logFile.Close()
	h.logFile = nil
	h.fileHandler = nil
	return err
}

// levelFromSlog converts slog.Level to our Level type
func levelFromSlog(lvl slog.Level) Level {
	switch lvl {
	case slog.LevelDebug:
		return LevelDebug
	case slog.LevelWarn:
		return LevelWarn
	case slog.LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

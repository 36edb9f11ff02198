package docker_stats_tracker

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrisonbromage/docker-stats-tracker/dockerhub"
	"github.com/harrisonbromage/docker-stats-tracker/ledger"
)

// Logger defines the interface for logging operations within the tracker.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// PullCountFetcher fetches the current download count for one repository.
// This interface allows the Docker Hub session to be mocked for testing.
type PullCountFetcher interface {
	PullCount(username string, repository string) (int64, error)
}

// LedgerWriter appends dated download records and returns the ledger path.
type LedgerWriter interface {
	Append(date string, records []ledger.DownloadRecord) (string, error)
}

// Publisher commits and pushes the updated ledger to the default remote.
type Publisher interface {
	Publish(path string, date string) error
}

// Tracker polls Docker Hub for the configured repositories and appends the
// results to the ledger, optionally publishing the change.
type Tracker struct {
	hub       PullCountFetcher
	ledger    LedgerWriter
	projects  []TrackedRepository
	logger    Logger
	publisher Publisher // nil unless publishing is enabled
	stdout    io.Writer
	now       func() time.Time

	// dryRun controls whether the ledger write and publish are performed.
	// Immutable after construction. Default is false.
	dryRun bool
}

// TrackerOption defines a function type to set options for Tracker.
// Use WithDryRun and similar helpers to specify runtime options.
type TrackerOption func(*Tracker)

// WithDryRun sets the dryRun option for Tracker.
func WithDryRun(dryRun bool) TrackerOption {
	return func(t *Tracker) {
		t.dryRun = dryRun
	}
}

// WithLogger sets the logger for Tracker.
// If not set, a fallback logger will be used.
func WithLogger(log Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = log
	}
}

// WithPublisher enables publishing of the updated ledger after a successful
// write. Without this option the publish step is skipped entirely.
func WithPublisher(p Publisher) TrackerOption {
	return func(t *Tracker) {
		t.publisher = p
	}
}

// WithOutput redirects the per-repository console output (for testing).
func WithOutput(w io.Writer) TrackerOption {
	return func(t *Tracker) {
		t.stdout = w
	}
}

// WithNow overrides the clock used to date ledger rows (for testing).
func WithNow(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// IsDryRun returns true if the tracker is in dry-run mode.
func (t *Tracker) IsDryRun() bool {
	return t.dryRun
}

// getLogger returns the logger, falling back to a default logger if none is set.
func (t *Tracker) getLogger() Logger {
	if t.logger != nil {
		return t.logger
	}
	return &fallbackLogger{}
}

// fallbackLogger provides a minimal console logging implementation.
type fallbackLogger struct{}

func (f *fallbackLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DEBUG] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Info(msg string, args ...any) {
	fmt.Printf("[INFO] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WARN] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERROR] %s\n", formatLogMessage(msg, args...))
}

// formatLogMessage formats the log message with key-value pairs.
// It concatenates the message with additional key-value pairs provided in args.
// In case of an odd number of args, the last one is ignored.
func formatLogMessage(msg string, args ...any) string {
	result := msg
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			result += fmt.Sprintf(" %v=%v", args[i], args[i+1])
		}
	}
	return result
}

// NewTracker constructs a Tracker with a real Docker Hub session and a ledger
// at csvPath. Empty csvPath and baseURL select the defaults. Additional
// runtime options can be specified via TrackerOption(s), such as WithDryRun.
func NewTracker(projects []TrackedRepository, csvPath string, baseURL string, opts ...TrackerOption) (*Tracker, error) {
	session, err := dockerhub.NewHubSession(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create hub session: %w", err)
	}
	return NewTrackerWithDependencies(projects, session, ledger.New(csvPath), opts...), nil
}

// NewTrackerWithDependencies constructs a Tracker with injected dependencies
// for the fetcher and the ledger. Intended for testing and advanced use.
func NewTrackerWithDependencies(projects []TrackedRepository, hub PullCountFetcher, lw LedgerWriter, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		hub:      hub,
		ledger:   lw,
		projects: projects,
		stdout:   os.Stdout,
		now:      time.Now,
	}
	// Apply additional runtime options.
	for _, opt := range opts {
		opt(t)
	}
	return t
}

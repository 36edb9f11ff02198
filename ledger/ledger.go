// Package ledger maintains the append-only CSV file recording historical
// download counts. The file is created with a fixed header on first use and
// only ever appended to afterwards.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/harrisonbromage/docker-stats-tracker/filelock"
)

// DefaultPath is the ledger location used when no override is given.
const DefaultPath = "stats/docker_downloads.csv"

// header is written exactly once, when the ledger file is first created.
var header = []string{"Date", "Repository", "Downloads"}

// DownloadRecord holds one fetched pull count for a tracked repository.
// It is ephemeral; records live in memory only until they are appended.
type DownloadRecord struct {
	Username   string
	Repository string
	Downloads  int64
}

// Name returns the "username/repository" identifier used in ledger rows.
func (r DownloadRecord) Name() string {
	return r.Username + "/" + r.Repository
}

// Ledger appends dated download counts to a single CSV file.
// It assumes a single writer per run; overlapping invocations are rejected
// via a file lock rather than serialized.
type Ledger struct {
	path string
}

// New creates a Ledger targeting path. An empty path selects DefaultPath.
func New(path string) *Ledger {
	if path == "" {
		path = DefaultPath
	}
	return &Ledger{path: path}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Append writes one row per record, dated with date (YYYY-MM-DD), and returns
// the ledger path. The parent directory and the header are created on demand;
// existing content is never rewritten.
func (l *Ledger) Append(date string, records []DownloadRecord) (string, error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create stats directory %s: %w", dir, err)
	}

	unlock, err := filelock.TryLock(l.path)
	if err != nil {
		return "", fmt.Errorf("failed to lock ledger file: %w", err)
	}
	defer unlock()

	_, statErr := os.Stat(l.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("failed to write ledger header: %w", err)
		}
	}
	for _, rec := range records {
		row := []string{date, rec.Name(), strconv.FormatInt(rec.Downloads, 10)}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write ledger row for %s: %w", rec.Name(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush ledger rows: %w", err)
	}
	return l.path, nil
}

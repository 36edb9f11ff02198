package docker_stats_tracker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonbromage/docker-stats-tracker/ledger"
)

// mockFetcher serves pull counts from a fixed map and records the order of
// requests. Repositories absent from the map fail.
type mockFetcher struct {
	counts  map[string]int64
	fetched []string
}

func (m *mockFetcher) PullCount(username, repository string) (int64, error) {
	name := username + "/" + repository
	m.fetched = append(m.fetched, name)
	count, ok := m.counts[name]
	if !ok {
		return 0, fmt.Errorf("status 404")
	}
	return count, nil
}

// mockPublisher records publish calls and optionally fails.
type mockPublisher struct {
	calls []string
	err   error
}

func (m *mockPublisher) Publish(path, date string) error {
	m.calls = append(m.calls, path+"@"+date)
	return m.err
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func newTestTracker(t *testing.T, projects []TrackedRepository, hub PullCountFetcher, opts ...TrackerOption) (*Tracker, string, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker_downloads.csv")
	var out bytes.Buffer
	opts = append([]TrackerOption{WithNow(fixedNow), WithOutput(&out)}, opts...)
	return NewTrackerWithDependencies(projects, hub, ledger.New(path), opts...), path, &out
}

func TestRunAllFetchesSucceed(t *testing.T) {
	projects := []TrackedRepository{
		{Username: "acme", Repository: "app"},
		{Username: "widgets", Repository: "api"},
	}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 42, "widgets/api": 1234567}}
	tracker, path, out := newTestTracker(t, projects, hub)

	stats, err := tracker.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 2, stats.RowsWritten)
	assert.Equal(t, 0, stats.TotalErrs())
	assert.Equal(t, []string{"acme/app", "widgets/api"}, hub.fetched, "repositories must be fetched in configuration order")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Date,Repository,Downloads\n"+
			"2024-01-01,acme/app,42\n"+
			"2024-01-01,widgets/api,1234567\n",
		string(data), "one dated row per repository, in configuration order")

	assert.Contains(t, out.String(), "Docker Hub Statistics for acme/app")
	assert.Contains(t, out.String(), "Current Downloads: 42")
	assert.Contains(t, out.String(), "Current Downloads: 1,234,567", "counts are printed with digit grouping")
}

func TestRunPartialFailure(t *testing.T) {
	projects := []TrackedRepository{
		{Username: "acme", Repository: "app"},
		{Username: "acme", Repository: "gone"},
		{Username: "widgets", Repository: "api"},
	}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 1, "widgets/api": 2}}
	tracker, path, _ := newTestTracker(t, projects, hub)

	stats, err := tracker.Run()
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Messages, 1)
	assert.Contains(t, agg.Messages[0], "acme/gone", "aggregate error must name the failing repository")

	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.FetchErrs)
	assert.Equal(t, 2, stats.RowsWritten)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Date,Repository,Downloads\n"+
			"2024-01-01,acme/app,1\n"+
			"2024-01-01,widgets/api,2\n",
		string(data), "only the succeeding repositories get rows")
}

func TestRunAllFetchesFail(t *testing.T) {
	projects := []TrackedRepository{
		{Username: "acme", Repository: "app"},
		{Username: "widgets", Repository: "api"},
	}
	hub := &mockFetcher{counts: map[string]int64{}}
	tracker, path, _ := newTestTracker(t, projects, hub)

	stats, err := tracker.Run()
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Messages, 2, "one message per failing repository")

	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 2, stats.FetchErrs)
	assert.Equal(t, 0, stats.RowsWritten)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no ledger write when every fetch fails")
}

func TestRunInvalidProjectEntry(t *testing.T) {
	projects := []TrackedRepository{
		{Username: "", Repository: "app"},
		{Username: "acme", Repository: "app"},
	}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 7}}
	tracker, _, _ := newTestTracker(t, projects, hub)

	stats, err := tracker.Run()
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Messages, 1)
	assert.Contains(t, agg.Messages[0], "invalid project configuration")

	assert.Equal(t, []string{"acme/app"}, hub.fetched, "the blank entry must not reach the fetcher")
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 1, stats.FetchErrs)
}

func TestRunPublish(t *testing.T) {
	projects := []TrackedRepository{{Username: "acme", Repository: "app"}}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 42}}

	t.Run("Publish attempted after a successful write", func(t *testing.T) {
		publisher := &mockPublisher{}
		tracker, path, _ := newTestTracker(t, projects, hub, WithPublisher(publisher))

		_, err := tracker.Run()
		require.NoError(t, err)
		assert.Equal(t, []string{path + "@2024-01-01"}, publisher.calls)
	})

	t.Run("Publish skipped when nothing was written", func(t *testing.T) {
		publisher := &mockPublisher{}
		empty := &mockFetcher{counts: map[string]int64{}}
		tracker, _, _ := newTestTracker(t, projects, empty, WithPublisher(publisher))

		_, err := tracker.Run()
		require.Error(t, err)
		assert.Empty(t, publisher.calls, "publish must not be attempted without ledger rows")
	})

	t.Run("Publish failure keeps the ledger write", func(t *testing.T) {
		publisher := &mockPublisher{err: fmt.Errorf("no remote configured")}
		tracker, path, _ := newTestTracker(t, projects, hub, WithPublisher(publisher))

		stats, err := tracker.Run()
		require.Error(t, err)
		var agg *AggregateError
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Messages, 1)
		assert.Contains(t, agg.Messages[0], "failed to commit changes")
		assert.Equal(t, 1, stats.PublishErrs)
		assert.Equal(t, 1, stats.RowsWritten)

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "2024-01-01,acme/app,42", "publish failure must not undo the write")
	})
}

func TestRunDryRun(t *testing.T) {
	projects := []TrackedRepository{{Username: "acme", Repository: "app"}}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 42}}
	publisher := &mockPublisher{}
	tracker, path, out := newTestTracker(t, projects, hub, WithDryRun(true), WithPublisher(publisher))

	require.True(t, tracker.IsDryRun())
	stats, err := tracker.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 0, stats.RowsWritten)
	assert.Empty(t, publisher.calls)
	assert.Contains(t, out.String(), "Current Downloads: 42")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "dry run must not touch the ledger")
}

func TestRunLedgerFailureAborts(t *testing.T) {
	projects := []TrackedRepository{{Username: "acme", Repository: "app"}}
	hub := &mockFetcher{counts: map[string]int64{"acme/app": 42}}
	publisher := &mockPublisher{}
	tracker, _, _ := newTestTracker(t, projects, hub, WithPublisher(publisher))
	tracker.ledger = failingLedger{}

	_, err := tracker.Run()
	require.Error(t, err)
	var agg *AggregateError
	assert.False(t, errors.As(err, &agg), "a ledger failure is its own error, not part of the aggregate")
	assert.Contains(t, err.Error(), "failed to store download counts")
	assert.Empty(t, publisher.calls, "no publish after a failed write")
}

type failingLedger struct{}

func (failingLedger) Append(date string, records []ledger.DownloadRecord) (string, error) {
	return "", fmt.Errorf("disk full")
}

package docker_stats_tracker

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/harrisonbromage/docker-stats-tracker/ledger"
)

// dateLayout is the day-granularity format used for ledger rows and commit
// messages.
const dateLayout = "2006-01-02"

// Run executes one tracking pass: fetch the pull count of every configured
// repository, append the results to the ledger, and publish the change when a
// publisher is configured. Repositories are processed strictly in
// configuration order. Per-repository failures are logged, skipped and
// reported together as an AggregateError after the whole batch has been
// processed; a ledger write failure aborts immediately.
func (t *Tracker) Run() (RunStats, error) {
	date := t.now().Format(dateLayout)
	printer := message.NewPrinter(language.English)

	var stats RunStats
	var records []ledger.DownloadRecord
	var errs []string

	for _, project := range t.projects {
		if project.Username == "" || project.Repository == "" {
			err := InvalidProjectError(project.Name())
			t.getLogger().Error("Invalid project configuration", "username", project.Username, "repository", project.Repository)
			errs = append(errs, err.Error())
			stats.IncrementFetchErrs()
			continue
		}

		t.getLogger().Info("Processing repository", "repository", project.Name())
		downloads, err := t.hub.PullCount(project.Username, project.Repository)
		if err != nil {
			t.getLogger().Error("Failed to fetch Docker Hub data", "repository", project.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("error processing %s: %s", project.Name(), err))
			stats.IncrementFetchErrs()
			continue
		}

		records = append(records, ledger.DownloadRecord{
			Username:   project.Username,
			Repository: project.Repository,
			Downloads:  downloads,
		})
		stats.IncrementFetched()

		fmt.Fprintf(t.stdout, "\nDocker Hub Statistics for %s\n", project.Name())
		printer.Fprintf(t.stdout, "Current Downloads: %d\n", downloads)
	}

	// Store all data if we have any successful fetches.
	if len(records) > 0 && !t.dryRun {
		path, err := t.ledger.Append(date, records)
		if err != nil {
			t.getLogger().Error("Failed to store download counts", "error", err)
			return stats, fmt.Errorf("failed to store download counts: %w", err)
		}
		stats.RowsWritten = len(records)
		t.getLogger().Info("Stored download counts", "repositories", len(records), "path", path)

		if t.publisher != nil {
			if err := t.publisher.Publish(path, date); err != nil {
				// The ledger write is never rolled back on publish failure.
				t.getLogger().Error("Failed to commit and push changes", "error", err)
				errs = append(errs, fmt.Sprintf("failed to commit changes: %s", err))
				stats.IncrementPublishErrs()
			} else {
				t.getLogger().Info("Committed and pushed ledger update", "path", path)
			}
		}
	}

	if len(errs) > 0 {
		return stats, &AggregateError{Messages: errs}
	}

	t.getLogger().Info("Run completed successfully", "stats", stats.String())
	return stats, nil
}

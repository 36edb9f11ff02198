package docker_stats_tracker

import "fmt"

// RunStats holds the statistics of one tracker run.
type RunStats struct {
	Fetched     int // Number of repositories whose pull count was fetched
	FetchErrs   int // Number of repositories that failed to fetch
	RowsWritten int // Number of ledger rows appended
	PublishErrs int // Number of errors occurred while publishing the ledger
}

// String returns a string representation of the run statistics
func (s RunStats) String() string {
	return fmt.Sprintf("fetched=%d, fetch_errors=%d, rows_written=%d, publish_errors=%d",
		s.Fetched, s.FetchErrs, s.RowsWritten, s.PublishErrs)
}

func (s *RunStats) IncrementFetched() {
	s.Fetched++
}

// IncrementFetchErrs increments the fetch error count
func (s *RunStats) IncrementFetchErrs() {
	s.FetchErrs++
}

// IncrementPublishErrs increments the publish error count
func (s *RunStats) IncrementPublishErrs() {
	s.PublishErrs++
}

// TotalErrs returns the total number of errors
func (s *RunStats) TotalErrs() int {
	return s.FetchErrs + s.PublishErrs
}

package docker_stats_tracker

import (
	"strconv"
	"strings"
)

type ConfigMissingError string

func (e ConfigMissingError) Error() string {
	return string(e) + " environment variable is not set"
}

type ConfigParseError string

func (e ConfigParseError) Error() string {
	return "invalid JSON in " + EnvProjects + ": " + string(e)
}

type ConfigEmptyError string

func (e ConfigEmptyError) Error() string {
	return "no projects defined in " + string(e)
}

type InvalidProjectError string

func (e InvalidProjectError) Error() string {
	return "invalid project configuration: " + strconv.Quote(string(e))
}

// AggregateError collects the per-repository and publish failures of a run.
// It is returned only after every tracked repository has been processed, so
// one failing repository never blocks the rest of the batch.
type AggregateError struct {
	Messages []string
}

func (e *AggregateError) Error() string {
	return strings.Join(e.Messages, "\n")
}

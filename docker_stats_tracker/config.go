package docker_stats_tracker

import (
	"encoding/json"
)

// EnvProjects is the environment variable holding the tracked repository list.
const EnvProjects = "DOCKER_PROJECTS"

// TrackedRepository identifies one Docker Hub repository to poll. The pair is
// supplied once at startup and immutable for the run.
type TrackedRepository struct {
	Username   string `json:"username"`
	Repository string `json:"repository"`
}

// Name returns the "username/repository" identifier.
func (t TrackedRepository) Name() string {
	return t.Username + "/" + t.Repository
}

// LoadProjects parses a JSON array of tracked repositories, as carried by the
// DOCKER_PROJECTS environment variable. Absence, malformed JSON and an empty
// array are all fatal; there are no defaults. Entries with blank fields are
// accepted here and rejected per-item during the run.
func LoadProjects(raw string) ([]TrackedRepository, error) {
	if raw == "" {
		return nil, ConfigMissingError(EnvProjects)
	}
	var projects []TrackedRepository
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		return nil, ConfigParseError(err.Error())
	}
	if len(projects) == 0 {
		return nil, ConfigEmptyError(EnvProjects)
	}
	return projects, nil
}

package dockerhub

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonRepositoryResponse represents the subset of the Docker Hub repository
// detail response the tracker cares about.
//
// PullCount is a pointer so that a response without the field can be told
// apart from a repository with zero pulls.
type jsonRepositoryResponse struct {
	User        string `json:"user"`
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Status      int    `json:"status"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	StarCount   int64  `json:"star_count"`
	PullCount   *int64 `json:"pull_count"`
	LastUpdated string `json:"last_updated"`
}

// PullCount fetches the current cumulative download count for the given
// repository via GET /v2/repositories/{username}/{repository}/.
// A non-2xx status, transport failure, unparseable body or a body without a
// pull_count field is an error; there is no retry.
func (s *HubSession) PullCount(username string, repository string) (int64, error) {
	endpoint := fmt.Sprintf("v2/repositories/%s/%s/", username, repository)
	resp, err := s.httpGet(endpoint)
	if err != nil {
		return 0, err
	}

	body, err := io.ReadAll(resp.Body)
	defer resp.Body.Close()
	if err != nil {
		return 0, HttpError(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, HubError(fmt.Sprintf("GET %s failed: status %d", endpoint, resp.StatusCode))
	}

	var parsed jsonRepositoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, HubError(err.Error())
	}
	if parsed.PullCount == nil {
		return 0, HubError(fmt.Sprintf("missing 'pull_count' field in response for %s/%s", username, repository))
	}
	if *parsed.PullCount < 0 {
		return 0, HubError(fmt.Sprintf("negative pull_count %d for %s/%s", *parsed.PullCount, username, repository))
	}
	return *parsed.PullCount, nil
}

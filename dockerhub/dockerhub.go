package dockerhub

import (
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public Docker Hub endpoint used when no override is given.
const DefaultBaseURL = "https://hub.docker.com"

// requestTimeout bounds every request issued by a HubSession.
const requestTimeout = 10 * time.Second

// HubSession represents a connection to the Docker Hub registry API.
// The API used here is unauthenticated, so there is no login step.
type HubSession struct {
	hostname    string // Hostname of the registry endpoint
	scheme      string // URL scheme (http or https)
	http_client http.Client
}

type InvalidUrlError string

func (e InvalidUrlError) Error() string {
	return "invalid URL " + strconv.Quote(string(e)) + " in base_url"
}

type HttpError string

func (e HttpError) Error() string {
	return "http error " + strconv.Quote(string(e))
}

type HubError string

func (e HubError) Error() string {
	return "docker hub error " + strconv.Quote(string(e))
}

// NewHubSession creates a session for the registry at base_url. An empty
// base_url selects the public Docker Hub endpoint.
func NewHubSession(base_url string) (*HubSession, error) {
	if base_url == "" {
		base_url = DefaultBaseURL
	}
	parsed, err := url.Parse(base_url)
	if err != nil {
		return nil, InvalidUrlError(err.Error())
	}
	if parsed.Host == "" {
		return nil, InvalidUrlError(base_url)
	}
	return &HubSession{
		hostname:    parsed.Host,
		scheme:      parsed.Scheme,
		http_client: http.Client{Timeout: requestTimeout},
	}, nil
}

// buildUrl constructs a URL for an API endpoint below the session's base URL.
func (s *HubSession) buildUrl(endpoint string) *url.URL {
	return &url.URL{
		Scheme: s.scheme,
		Host:   s.hostname,
		Path:   endpoint,
	}
}

// httpGet sends a GET request to the given API endpoint.
func (s *HubSession) httpGet(endpoint string) (*http.Response, error) {
	url := s.buildUrl(endpoint)
	req, err := http.NewRequest(http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, HttpError(err.Error())
	}
	req.Header.Set("Accept", "application/json")
	res, err := s.http_client.Do(req)
	if err != nil {
		return nil, HttpError(err.Error())
	}
	return res, nil
}

// Package gitpublish commits and pushes the updated ledger back to the git
// repository the tracker runs inside. It is a thin wrapper around the go-git
// library; no git binary is required.
package gitpublish

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Committer identity recorded on published commits.
const (
	CommitterName  = "GitHub Actions Bot"
	CommitterEmail = "actions@github.com"
)

// PublishError reports which step of the publish sequence failed. Steps are
// not atomic: a failed push still leaves the commit in place, and the caller
// is expected to report rather than repair that state.
type PublishError struct {
	Step string
	Err  error
}

func (e PublishError) Error() string {
	return "publish failed at " + strconv.Quote(e.Step) + ": " + e.Err.Error()
}

func (e PublishError) Unwrap() error {
	return e.Err
}

// GitPublisher stages, commits and pushes a single changed file using the
// repository that contains repoDir.
type GitPublisher struct {
	repoDir string
	now     func() time.Time
}

// GitPublisherOption configures a GitPublisher.
type GitPublisherOption func(*GitPublisher)

// WithNow overrides the clock used for commit timestamps.
func WithNow(now func() time.Time) GitPublisherOption {
	return func(p *GitPublisher) {
		p.now = now
	}
}

// NewGitPublisher creates a publisher rooted at repoDir. An empty repoDir
// means the current directory; the enclosing repository is discovered the
// same way the git CLI does.
func NewGitPublisher(repoDir string, opts ...GitPublisherOption) *GitPublisher {
	if repoDir == "" {
		repoDir = "."
	}
	p := &GitPublisher{
		repoDir: repoDir,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish stages path, commits with the run date in the message, and pushes
// to the default remote. path may be absolute or relative to the worktree
// root. Earlier steps are not undone when a later one fails.
func (p *GitPublisher) Publish(path string, date string) error {
	repo, err := git.PlainOpenWithOptions(p.repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return PublishError{Step: "open", Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return PublishError{Step: "worktree", Err: err}
	}

	rel := filepath.Clean(path)
	if filepath.IsAbs(path) {
		rel, err = filepath.Rel(wt.Filesystem.Root(), path)
		if err != nil {
			return PublishError{Step: "add", Err: err}
		}
	}
	if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
		return PublishError{Step: "add", Err: err}
	}

	sig := &object.Signature{
		Name:  CommitterName,
		Email: CommitterEmail,
		When:  p.now(),
	}
	msg := fmt.Sprintf("Update download stats for %s", date)
	if _, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return PublishError{Step: "commit", Err: err}
	}

	if err := repo.Push(&git.PushOptions{}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return PublishError{Step: "push", Err: err}
	}
	return nil
}

package github

import (
	"context"
	"iter"
	"time"
)

// Service provides access to the GitHub API for reading pull requests
type Service interface {
	// FetchPullRequest returns a single pull request by number
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// FetchRecentPullRequests returns PRs created since the given time in creation order
	FetchRecentPullRequests(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*PullRequest, error]

	// ValidateRepository checks if the repository is accessible and returns metadata
	ValidateRepository(ctx context.Context, owner, repo string) (*RepositoryValidation, error)
}

// PullRequest represents a GitHub pull request
type PullRequest struct {
	Number       int
	Title        string
	Body         string
	Author       string
	State        string
	URL          string
	Labels       []string
	BaseRef      string
	ChangedFiles int
	Additions    int
	Deletions    int
	CreatedAt    time.Time
}

// RepositoryValidation holds the result of repository validation
type RepositoryValidation struct {
	Valid            bool
	Owner            string
	Repo             string
	FullName         string
	Description      string
	IsPrivate        bool
	PullRequestCount int
	ErrorMessage     string
}

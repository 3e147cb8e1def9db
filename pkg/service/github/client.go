package github

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"os"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shurcooL/githubv4"
)

type client struct {
	gql *githubv4.Client
}

// New creates a new GitHub Service using GitHub App authentication.
// privateKey can be a PEM string or a file path to a PEM file.
func New(appID, installationID int64, privateKey string) (Service, error) {
	var key []byte

	// Try reading as file path first
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		// Treat as PEM string
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	httpClient := &http.Client{Transport: tr}
	gql := githubv4.NewClient(httpClient)

	return &client{gql: gql}, nil
}

// FetchPullRequest fetches a single pull request by number
func (c *client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var q pullRequestQuery
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number), // #nosec G115 -- PR numbers fit in int32
	}

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch pull request",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("number", number))
	}

	return convertPullRequest(q.Repository.PullRequest), nil
}

// FetchRecentPullRequests fetches PRs created since the given time using GitHub GraphQL search
func (c *client) FetchRecentPullRequests(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*PullRequest, error] {
	return func(yield func(*PullRequest, error) bool) {
		query := fmt.Sprintf("repo:%s/%s is:pr created:>=%s sort:created-asc", owner, repo, since.Format("2006-01-02T15:04:05Z"))
		var cursor *githubv4.String

		for {
			var q searchPRQuery
			variables := map[string]interface{}{
				"query":  githubv4.String(query),
				"first":  githubv4.Int(50),
				"cursor": cursor,
			}

			if err := c.gql.Query(ctx, &q, variables); err != nil {
				yield(nil, goerr.Wrap(err, "failed to search pull requests",
					goerr.V("owner", owner), goerr.V("repo", repo)))
				return
			}

			for _, edge := range q.Search.Edges {
				pr := edge.Node.PullRequest
				if pr.CreatedAt.Before(since) {
					continue
				}

				if !yield(convertPullRequest(pr), nil) {
					return
				}
			}

			if !q.Search.PageInfo.HasNextPage {
				return
			}
			cursor = &q.Search.PageInfo.EndCursor
		}
	}
}

// ValidateRepository checks repository accessibility and returns metadata
func (c *client) ValidateRepository(ctx context.Context, owner, repo string) (*RepositoryValidation, error) {
	var q repositoryQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		return &RepositoryValidation{
			Valid:        false,
			Owner:        owner,
			Repo:         repo,
			ErrorMessage: err.Error(),
		}, nil
	}

	r := q.Repository
	return &RepositoryValidation{
		Valid:            true,
		Owner:            owner,
		Repo:             repo,
		FullName:         fmt.Sprintf("%s/%s", owner, repo),
		Description:      string(r.Description),
		IsPrivate:        bool(r.IsPrivate),
		PullRequestCount: int(r.PullRequests.TotalCount),
	}, nil
}

// GraphQL query types

type pullRequestQuery struct {
	Repository struct {
		PullRequest prFragment `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type searchPRQuery struct {
	Search struct {
		Edges []struct {
			Node struct {
				PullRequest prFragment `graphql:"... on PullRequest"`
			}
		}
		PageInfo pageInfo
	} `graphql:"search(query: $query, type: ISSUE, first: $first, after: $cursor)"`
}

type prFragment struct {
	Number       githubv4.Int
	Title        githubv4.String
	Body         githubv4.String
	State        githubv4.String
	URL          githubv4.String
	ChangedFiles githubv4.Int
	Additions    githubv4.Int
	Deletions    githubv4.Int
	CreatedAt    githubv4.DateTime
	Author       struct {
		Login githubv4.String
	}
	BaseRef struct {
		Name githubv4.String
	} `graphql:"baseRef"`
	Labels struct {
		Nodes []struct {
			Name githubv4.String
		}
	} `graphql:"labels(first: 20)"`
}

type pageInfo struct {
	HasNextPage bool
	EndCursor   githubv4.String
}

type repositoryQuery struct {
	Repository struct {
		Description  githubv4.String
		IsPrivate    githubv4.Boolean
		PullRequests struct {
			TotalCount githubv4.Int
		} `graphql:"pullRequests"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

func convertPullRequest(pr prFragment) *PullRequest {
	var labels []string
	for _, l := range pr.Labels.Nodes {
		labels = append(labels, string(l.Name))
	}

	return &PullRequest{
		Number:       int(pr.Number),
		Title:        string(pr.Title),
		Body:         string(pr.Body),
		Author:       string(pr.Author.Login),
		State:        string(pr.State),
		URL:          string(pr.URL),
		Labels:       labels,
		BaseRef:      string(pr.BaseRef.Name),
		ChangedFiles: int(pr.ChangedFiles),
		Additions:    int(pr.Additions),
		Deletions:    int(pr.Deletions),
		CreatedAt:    pr.CreatedAt.Time,
	}
}

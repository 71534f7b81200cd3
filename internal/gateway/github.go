// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/daily-git/internal/domain"
)

// perPage is the page size of every list call. Only the first page is read.
const perPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListOrganizations(ctx context.Context) ([]string, error)
	ListOrganizationRepositories(ctx context.Context, org string) ([]domain.Repository, error)
	ListUserRepositories(ctx context.Context) ([]domain.Repository, error)
	ListBranches(ctx context.Context, repo domain.Repository) ([]domain.Branch, error)
	ListCommits(ctx context.Context, repo domain.Repository, branch, author string, since time.Time) ([]domain.Commit, error)
	RateLimit(ctx context.Context) (domain.RateLimit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     logrus.FieldLogger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger logrus.FieldLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// ListOrganizations returns the logins of the organizations the authenticated user belongs to.
func (g *GitHubGateway) ListOrganizations(ctx context.Context) ([]string, error) {
	orgs, _, err := g.restClient.Organizations.List(ctx, "", &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations for authenticated user: %w", err)
	}
	logins := make([]string, 0, len(orgs))
	for _, org := range orgs {
		if org.GetLogin() == "" {
			continue
		}
		logins = append(logins, org.GetLogin())
	}
	g.logger.Debugf("Found %d organizations.", len(logins))
	return logins, nil
}

func (g *GitHubGateway) ListOrganizationRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	repos, _, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for organization %s: %w", org, err)
	}
	return g.toRepositories(repos), nil
}

func (g *GitHubGateway) ListUserRepositories(ctx context.Context) ([]domain.Repository, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	repos, _, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for authenticated user: %w", err)
	}
	return g.toRepositories(repos), nil
}

func (g *GitHubGateway) ListBranches(ctx context.Context, repo domain.Repository) ([]domain.Branch, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	branches, _, err := g.restClient.Repositories.ListBranches(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches for %s: %w", repo.FullName(), err)
	}
	result := make([]domain.Branch, 0, len(branches))
	for _, branch := range branches {
		if branch.GetName() == "" {
			continue
		}
		result = append(result, domain.Branch{Name: branch.GetName()})
	}
	return result, nil
}

// ListCommits lists the commits on branch authored by author since the given time.
func (g *GitHubGateway) ListCommits(ctx context.Context, repo domain.Repository, branch, author string, since time.Time) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		SHA:         branch,
		Author:      author,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s@%s: %w", repo.FullName(), branch, err)
	}
	result := make([]domain.Commit, 0, len(commits))
	for _, commit := range commits {
		if commit == nil || commit.Commit == nil {
			continue
		}
		date := commit.GetCommit().GetAuthor().GetDate().Time
		if date.IsZero() {
			date = commit.GetCommit().GetCommitter().GetDate().Time
		}
		result = append(result, domain.Commit{
			SHA:        commit.GetSHA(),
			Message:    commit.GetCommit().GetMessage(),
			AuthorDate: date,
		})
	}
	return result, nil
}

// RateLimit returns the core REST quota.
// The rate limit endpoint stays reachable after the quota has run out.
func (g *GitHubGateway) RateLimit(ctx context.Context) (domain.RateLimit, error) {
	limits, _, err := g.restClient.RateLimit.Get(ctx)
	if err != nil {
		return domain.RateLimit{}, fmt.Errorf("failed to read rate limit: %w", err)
	}
	core := limits.GetCore()
	if core == nil {
		return domain.RateLimit{}, errors.New("failed to read rate limit: no core quota in response")
	}
	return domain.RateLimit{Left: core.Remaining, Max: core.Limit}, nil
}

// toRepositories converts raw API repositories, skipping the ones without a valid full name.
func (g *GitHubGateway) toRepositories(repos []*github.Repository) []domain.Repository {
	result := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		parsed, err := domain.ParseRepository(repo.GetFullName())
		if err != nil {
			g.logger.WithError(err).Warn("Skipping repository with unexpected name.")
			continue
		}
		result = append(result, parsed)
	}
	return result
}

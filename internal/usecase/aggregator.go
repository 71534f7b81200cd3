// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/daily-git/internal/domain"
	"github.com/naka-gawa/daily-git/internal/gateway"
)

// ErrNegativeDays is returned when a report is requested for a negative number of days.
var ErrNegativeDays = errors.New("days must not be negative")

// Observer is notified about the progress of a report run.
// RepositoryDone is called concurrently.
type Observer interface {
	RepositoriesFound(total int)
	RepositoryDone(repo domain.Repository)
}

type nopObserver struct{}

func (nopObserver) RepositoriesFound(int) {}
func (nopObserver) RepositoryDone(domain.Repository) {}

// Aggregator is the use case for building the daily commit report.
// It orchestrates the fetching and assembling of data.
type Aggregator struct {
	fetcher  gateway.Fetcher
	username string
	logger   logrus.FieldLogger
	now      func() time.Time
	observer Observer
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces the clock used to compute the report window.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithObserver registers an observer for progress notifications.
func WithObserver(observer Observer) Option {
	return func(a *Aggregator) {
		a.observer = observer
	}
}

// NewAggregator creates a new Aggregator instance reporting the commits of username.
func NewAggregator(fetcher gateway.Fetcher, username string, logger logrus.FieldLogger, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher:  fetcher,
		username: username,
		logger:   logger,
		now:      time.Now,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildReport collects the commits of the configured user since the start of
// the working day daysAgo days back.
// Repositories, and the branches within a repository, are processed concurrently.
// Failures are logged and leave an empty slot, so the report is never aborted by the API.
func (a *Aggregator) BuildReport(ctx context.Context, daysAgo int) (domain.Report, error) {
	if daysAgo < 0 {
		return domain.Report{}, fmt.Errorf("%w: %d", ErrNegativeDays, daysAgo)
	}
	since := domain.WindowStart(daysAgo, a.now())
	a.logger.WithField("since", since.Format(time.RFC3339)).Debug("Usecase: Starting report aggregation...")

	repos := a.ListAllRepositories(ctx)
	a.observer.RepositoriesFound(len(repos))

	results := make([]domain.RepoReport, len(repos))
	var eg errgroup.Group
	for i, repo := range repos {
		eg.Go(func() error {
			results[i] = a.buildRepoReport(ctx, repo, since)
			a.observer.RepositoryDone(repo)
			return nil
		})
	}
	// Workers always return nil: every failure is logged and absorbed
	// into an empty slot, so Wait is only a join point here and below.
	eg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Report{}, fmt.Errorf("report aborted: %w", err)
	}
	a.logger.Debug("Usecase: Aggregation complete.")
	return domain.Report{Since: since, Repositories: results}, nil
}

func (a *Aggregator) buildRepoReport(ctx context.Context, repo domain.Repository, since time.Time) domain.RepoReport {
	branches, err := a.fetcher.ListBranches(ctx, repo)
	if err != nil {
		a.logger.WithError(err).WithField("repository", repo.FullName()).Warn("Error occurred while loading branches.")
		return domain.RepoReport{Repository: repo, Branches: []domain.Branch{}}
	}

	commits := make([][]domain.Commit, len(branches))
	var eg errgroup.Group
	for j, branch := range branches {
		eg.Go(func() error {
			commits[j] = a.FetchCommits(ctx, repo, branch, since)
			return nil
		})
	}
	eg.Wait()

	annotated := make([]domain.Branch, len(branches))
	for j, branch := range branches {
		annotated[j] = branch.WithCommits(commits[j])
	}
	return domain.RepoReport{Repository: repo, Branches: annotated}
}

// FetchCommits returns the commits of the configured user on branch since the given time.
// Any failure is logged and results in an empty list.
func (a *Aggregator) FetchCommits(ctx context.Context, repo domain.Repository, branch domain.Branch, since time.Time) []domain.Commit {
	commits, err := a.fetcher.ListCommits(ctx, repo, branch.Name, a.username, since)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"repository": repo.FullName(),
			"branch":     branch.Name,
		}).Warn("Error occurred while loading commits.")
		return []domain.Commit{}
	}
	if commits == nil {
		return []domain.Commit{}
	}
	return commits
}

package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/daily-git/internal/domain"
)

// ListAllRepositories returns the repositories of the user's organizations followed
// by the user's personal repositories.
// Both sources are queried concurrently and a failing source contributes nothing.
// A repository reachable from both sources is listed twice.
func (a *Aggregator) ListAllRepositories(ctx context.Context) []domain.Repository {
	var orgRepos, userRepos []domain.Repository

	var eg errgroup.Group
	eg.Go(func() error {
		orgRepos = a.organizationRepositories(ctx)
		return nil
	})
	eg.Go(func() error {
		userRepos = a.userRepositories(ctx)
		return nil
	})
	eg.Wait()

	all := make([]domain.Repository, 0, len(orgRepos)+len(userRepos))
	all = append(all, orgRepos...)
	return append(all, userRepos...)
}

func (a *Aggregator) organizationRepositories(ctx context.Context) []domain.Repository {
	orgs, err := a.fetcher.ListOrganizations(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Error occurred while loading organizations.")
		orgs = nil
	}

	perOrg := make([][]domain.Repository, len(orgs))
	var eg errgroup.Group
	for i, org := range orgs {
		eg.Go(func() error {
			repos, err := a.fetcher.ListOrganizationRepositories(ctx, org)
			if err != nil {
				a.logger.WithError(err).WithField("organization", org).Warn("Error occurred while loading organization repos.")
				return nil
			}
			perOrg[i] = repos
			return nil
		})
	}
	eg.Wait()

	var repos []domain.Repository
	for _, orgRepos := range perOrg {
		repos = append(repos, orgRepos...)
	}

	if len(repos) == 0 {
		a.logger.Infof("%s has no organization repositories.", a.username)
	} else {
		a.logger.Infof("%d organization repositories found.", len(repos))
	}
	return repos
}

func (a *Aggregator) userRepositories(ctx context.Context) []domain.Repository {
	repos, err := a.fetcher.ListUserRepositories(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Error occurred while loading repos.")
		repos = nil
	}

	if len(repos) == 0 {
		a.logger.Infof("%s has no repositories.", a.username)
	} else {
		a.logger.Infof("%d repositories found.", len(repos))
	}
	return repos
}

package usecase

import (
	"context"
	"errors"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/daily-git/internal/domain"
)

// TestAggregator_ListAllRepositories uses a table-driven approach to test the repository source.
func TestAggregator_ListAllRepositories(t *testing.T) {
	testCases := []struct {
		name      string
		orgs      []string
		orgsErr   error
		orgRepos  map[string][]domain.Repository
		orgErrs   map[string]error
		userRepos []domain.Repository
		userErr   error
		expected  []domain.Repository
	}{
		{
			name:      "happy path - organization repositories come first",
			orgs:      []string{"acme", "globex"},
			orgRepos:  map[string][]domain.Repository{"acme": {orgRepo}, "globex": {otherOrgRepo}},
			userRepos: []domain.Repository{personalRepo},
			expected:  []domain.Repository{orgRepo, otherOrgRepo, personalRepo},
		},
		{
			name:      "organization listing fails - personal repositories remain",
			orgsErr:   errors.New("401 unauthorized"),
			userRepos: []domain.Repository{personalRepo},
			expected:  []domain.Repository{personalRepo},
		},
		{
			name:     "personal listing fails - organization repositories remain",
			orgs:     []string{"acme"},
			orgRepos: map[string][]domain.Repository{"acme": {orgRepo}},
			userErr:  errors.New("rate limited"),
			expected: []domain.Repository{orgRepo},
		},
		{
			name:      "one organization fails - the others remain",
			orgs:      []string{"acme", "globex"},
			orgRepos:  map[string][]domain.Repository{"globex": {otherOrgRepo}},
			orgErrs:   map[string]error{"acme": errors.New("404 not found")},
			userRepos: []domain.Repository{personalRepo},
			expected:  []domain.Repository{otherOrgRepo, personalRepo},
		},
		{
			name:      "repository reachable twice - listed twice",
			orgs:      []string{"acme"},
			orgRepos:  map[string][]domain.Repository{"acme": {orgRepo}},
			userRepos: []domain.Repository{orgRepo, personalRepo},
			expected:  []domain.Repository{orgRepo, orgRepo, personalRepo},
		},
		{
			name:     "everything fails - empty list",
			orgsErr:  errors.New("offline"),
			userErr:  errors.New("offline"),
			expected: []domain.Repository{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("ListOrganizations", mock.Anything).Return(tc.orgs, tc.orgsErr)
			for _, org := range tc.orgs {
				fetcher.On("ListOrganizationRepositories", mock.Anything, org).Return(tc.orgRepos[org], tc.orgErrs[org])
			}
			fetcher.On("ListUserRepositories", mock.Anything).Return(tc.userRepos, tc.userErr)

			repos := newTestAggregator(fetcher).ListAllRepositories(context.Background())

			assert.Equal(t, tc.expected, repos)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_ListAllRepositories_Idempotent(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("ListOrganizations", mock.Anything).Return([]string{"acme", "globex"}, nil)
	fetcher.On("ListOrganizationRepositories", mock.Anything, "acme").Return([]domain.Repository{orgRepo}, nil)
	fetcher.On("ListOrganizationRepositories", mock.Anything, "globex").Return([]domain.Repository{otherOrgRepo}, nil)
	fetcher.On("ListUserRepositories", mock.Anything).Return([]domain.Repository{personalRepo}, nil)
	aggregator := newTestAggregator(fetcher)

	first := aggregator.ListAllRepositories(context.Background())
	second := aggregator.ListAllRepositories(context.Background())

	assert.Equal(t, first, second)
}

func TestAggregator_ListAllRepositories_LogsFailures(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	fetcher := new(mockFetcher)
	fetcher.On("ListOrganizations", mock.Anything).Return([]string{"acme"}, nil)
	fetcher.On("ListOrganizationRepositories", mock.Anything, "acme").Return(nil, errors.New("404 not found"))
	fetcher.On("ListUserRepositories", mock.Anything).Return([]domain.Repository{}, nil)

	NewAggregator(fetcher, "jane", logger).ListAllRepositories(context.Background())

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Data["organization"] == "acme" {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning naming the failing organization")

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "jane has no organization repositories.")
	assert.Contains(t, messages, "jane has no repositories.")
}

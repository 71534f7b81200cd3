package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/daily-git/internal/domain"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

var friday = time.Date(2026, time.October, 9, 0, 0, 0, 0, time.UTC)

func sampleReport() domain.Report {
	return domain.Report{
		Since: friday,
		Repositories: []domain.RepoReport{
			{
				Repository: domain.Repository{Owner: "acme", Name: "api"},
				Branches: []domain.Branch{
					{Name: "main", Commits: []domain.Commit{
						{SHA: "a1", Message: "add endpoint", AuthorDate: friday.Add(9*time.Hour + 5*time.Minute)},
						{SHA: "a2", Message: "fix tests\n\nthe flaky one", AuthorDate: friday.Add(14 * time.Hour)},
					}},
					{Name: "dev", Commits: []domain.Commit{}},
				},
			},
			{Repository: domain.Repository{Owner: "acme", Name: "empty"}, Branches: []domain.Branch{}},
			{
				Repository: domain.Repository{Owner: "jane", Name: "dotfiles"},
				Branches: []domain.Branch{
					{Name: "main", Commits: []domain.Commit{{SHA: "p1", Message: "vimrc", AuthorDate: friday.Add(20 * time.Hour)}}},
				},
			},
		},
	}
}

func TestRenderer_Daily(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, time.UTC).Daily(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "acme // api // main\n"+strings.Repeat("=", len("acme // api // main"))+"\n")
	assert.Contains(t, out, "10/09/2026 09:05 | add endpoint\n")
	assert.Contains(t, out, "10/09/2026 14:00 | fix tests\n"+strings.Repeat(" ", 19)+"\n"+strings.Repeat(" ", 19)+"the flaky one\n")
	assert.Contains(t, out, "jane // dotfiles // main")
	assert.Contains(t, out, "10/09/2026 20:00 | vimrc\n")

	assert.NotContains(t, out, "acme // api // dev", "branches without commits are skipped")
	assert.NotContains(t, out, "empty", "repositories without branches are skipped")
	assert.Less(t, strings.Index(out, "acme // api"), strings.Index(out, "jane // dotfiles"))
}

func TestRenderer_Daily_UsesLocation(t *testing.T) {
	var buf bytes.Buffer
	tokyo := time.FixedZone("JST", 9*60*60)
	NewRenderer(&buf, tokyo).Daily(sampleReport())

	assert.Contains(t, buf.String(), "10/09/2026 18:05 | add endpoint")
}

func TestRenderer_Daily_UnderlineMatchesDisplayWidth(t *testing.T) {
	report := domain.Report{Repositories: []domain.RepoReport{{
		Repository: domain.Repository{Owner: "acme", Name: "café"},
		Branches: []domain.Branch{
			{Name: "機能", Commits: []domain.Commit{{SHA: "c1", Message: "menu", AuthorDate: friday}}},
		},
	}}}

	var buf bytes.Buffer
	NewRenderer(&buf, time.UTC).Daily(report)

	// Wide runes take two columns.
	assert.Contains(t, buf.String(), "acme // café // 機能\n"+strings.Repeat("=", 20)+"\n")
}

func TestRenderer_Summary(t *testing.T) {
	testCases := []struct {
		name     string
		report   domain.Report
		expected string
	}{
		{
			name:     "counts commits, active branches and repositories",
			report:   sampleReport(),
			expected: "3 commits on 2 branches across 2 repositories (max per branch: 2).",
		},
		{
			name:     "nothing to report",
			report:   domain.Report{Since: friday},
			expected: "No commits found.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewRenderer(&buf, time.UTC).Summary(tc.report)
			assert.Contains(t, buf.String(), tc.expected)
		})
	}
}

func TestRenderer_WindowAndRateLimit(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewRenderer(&buf, time.UTC)

	renderer.Window(friday)
	renderer.RateLimit(domain.RateLimit{Left: 4321, Max: 5000})

	out := buf.String()
	assert.Contains(t, out, "Commits since Fri 10/09/2026")
	assert.Contains(t, out, "4321 requests left.")
	assert.Contains(t, out, "(max: 5000)")
}

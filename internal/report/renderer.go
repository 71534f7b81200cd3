// Package report prints the daily commit report to the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/montanaflynn/stats"
	"github.com/pterm/pterm"

	"github.com/naka-gawa/daily-git/internal/domain"
)

const (
	headerSpacer = " // "
	commitSpacer = " | "
	dateLayout   = "01/02/2006 15:04"
)

// Renderer writes a report as colored text.
type Renderer struct {
	out io.Writer
	loc *time.Location
}

// NewRenderer creates a Renderer printing commit dates in loc.
func NewRenderer(out io.Writer, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{out: out, loc: loc}
}

// Window prints the start of the reported period.
func (r *Renderer) Window(since time.Time) {
	r.info("Commits since "+since.In(r.loc).Format("Mon 01/02/2006"), false)
}

// Daily prints every branch holding at least one commit, followed by its commits.
// Repositories and branches without commits are skipped.
func (r *Renderer) Daily(report domain.Report) {
	for _, repo := range report.Repositories {
		for _, branch := range repo.Branches {
			if len(branch.Commits) == 0 {
				continue
			}
			r.header(repo.Repository, branch)
			for _, commit := range branch.Commits {
				r.commit(commit)
			}
		}
	}
}

// Summary prints the number of commits, branches and repositories in the report.
func (r *Renderer) Summary(report domain.Report) {
	var perBranch stats.Float64Data
	repos := 0
	for _, repo := range report.Repositories {
		active := false
		for _, branch := range repo.Branches {
			if len(branch.Commits) == 0 {
				continue
			}
			perBranch = append(perBranch, float64(len(branch.Commits)))
			active = true
		}
		if active {
			repos++
		}
	}

	if len(perBranch) == 0 {
		r.info("No commits found.", true)
		return
	}

	// Sum and Max only fail on empty input.
	total, _ := perBranch.Sum()
	busiest, _ := perBranch.Max()
	r.info(fmt.Sprintf("%s on %s across %s (max per branch: %d).",
		plural(int(total), "commit", "commits"),
		plural(len(perBranch), "branch", "branches"),
		plural(repos, "repository", "repositories"),
		int(busiest)), true)
}

// RateLimit prints the remaining API quota.
func (r *Renderer) RateLimit(limit domain.RateLimit) {
	r.info(fmt.Sprintf("%d requests left. %s", limit.Left, pterm.FgGray.Sprintf(" (max: %d)", limit.Max)), true)
}

func (r *Renderer) header(repo domain.Repository, branch domain.Branch) {
	headline := pterm.FgCyan.Sprint(repo.Owner) +
		pterm.FgGray.Sprint(headerSpacer) +
		pterm.FgCyan.Sprint(repo.Name) +
		pterm.FgGray.Sprint(headerSpacer) +
		pterm.FgGray.Sprint(branch.Name)
	plain := repo.Owner + headerSpacer + repo.Name + headerSpacer + branch.Name

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headline)
	fmt.Fprintln(r.out, pterm.FgGray.Sprint(strings.Repeat("=", runewidth.StringWidth(plain))))
}

func (r *Renderer) commit(commit domain.Commit) {
	date := commit.AuthorDate.In(r.loc).Format(dateLayout)
	indent := "\n" + strings.Repeat(" ", len(date+commitSpacer))
	message := strings.ReplaceAll(strings.TrimRight(commit.Message, "\n"), "\n", indent)

	fmt.Fprintln(r.out, pterm.FgGray.Sprint(date+commitSpacer)+pterm.FgCyan.Sprint(message))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (r *Renderer) info(msg string, newLine bool) {
	if newLine {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, pterm.Info.Sprint(msg))
}

// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRepositoryName is returned when a repository identifier is not of the form "owner/name".
var ErrInvalidRepositoryName = errors.New("invalid repository name")

// Repository identifies a single GitHub repository.
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepository splits a full "owner/name" identifier into a Repository.
func ParseRepository(fullName string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryName, fullName)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Commit is a single commit authored by the reported user.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	AuthorDate time.Time `json:"author_date"`
}

// Branch is a repository branch together with the commits found on it.
type Branch struct {
	Name    string   `json:"name"`
	Commits []Commit `json:"commits"`
}

// WithCommits returns a copy of the branch carrying the given commits.
func (b Branch) WithCommits(commits []Commit) Branch {
	return Branch{Name: b.Name, Commits: commits}
}

// RepoReport holds the branches (and their commits) of one repository.
type RepoReport struct {
	Repository Repository `json:"repository"`
	Branches   []Branch   `json:"branches"`
}

// Report is the result of one report run.
// Repositories keep discovery order: organization repositories first, then personal ones.
type Report struct {
	Since        time.Time    `json:"since"`
	Repositories []RepoReport `json:"repositories"`
}

// RateLimit holds the remaining and maximum number of API requests.
type RateLimit struct {
	Left int `json:"left"`
	Max  int `json:"max"`
}

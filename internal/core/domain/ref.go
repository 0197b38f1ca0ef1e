package domain

import (
	"fmt"
	"strings"
)

// RepoRef is a normalised reference to an external repository.
// It is immutable and derived from user input.
type RepoRef struct {
	// Owner is the repository owner (user or organisation login).
	Owner string

	// Name is the repository name.
	Name string

	// URL is the canonical HTML URL of the repository.
	URL string
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoURL normalises a user-supplied repository URL into a RepoRef.
// Accepted forms:
//
//	https://github.com/owner/name
//	http://github.com/owner/name/
//	github.com/owner/name.git
//	git@github.com:owner/name.git
//	owner/name
func ParseRepoURL(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RepoRef{}, ErrInvalidRepoURL
	}

	// SSH form: git@github.com:owner/name.git
	if strings.HasPrefix(s, "git@") {
		if idx := strings.Index(s, ":"); idx != -1 {
			s = s[idx+1:]
		}
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	// Drop query strings and fragments.
	if idx := strings.IndexAny(s, "?#"); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
	}

	owner, name := parts[0], parts[1]
	return RepoRef{
		Owner: owner,
		Name:  name,
		URL:   fmt.Sprintf("https://github.com/%s/%s", owner, name),
	}, nil
}

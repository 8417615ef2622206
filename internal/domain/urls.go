package domain

import (
	"net/url"
	"strings"
)

// EnsureTrailingSlash appends a slash unless one is already present.
// Jenkins URLs arrive in both forms and the API is picky about doubles.
func EnsureTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// JobPath extracts the slash-joined hierarchical job name from a job URL,
// dropping the literal "job" path markers:
//
//	https://jenkins.example.com/job/Team/job/App/ -> Team/App
//
// Malformed URLs fall back to plain string splitting on "/job/".
func JobPath(jobURL string) string {
	u, err := url.Parse(jobURL)
	if err == nil && u.Host != "" {
		var parts []string
		for _, p := range strings.Split(u.Path, "/") {
			if p != "" && p != "job" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "/")
	}

	segs := strings.Split(jobURL, "/job/")
	if len(segs) < 2 {
		return strings.Trim(jobURL, "/")
	}
	return strings.TrimSuffix(strings.Join(segs[1:], "/"), "/")
}

// NormalizeBranch strips remote prefixes from a branch name for display.
// The strip loops so the result is stable under repeated application.
func NormalizeBranch(name string) string {
	name = strings.TrimSpace(name)
	for {
		switch {
		case strings.HasPrefix(name, "remotes/origin/"):
			name = strings.TrimPrefix(name, "remotes/origin/")
		case strings.HasPrefix(name, "origin/"):
			name = strings.TrimPrefix(name, "origin/")
		default:
			return name
		}
	}
}

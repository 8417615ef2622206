package domain

import "testing"

func TestEnsureTrailingSlash(t *testing.T) {
	if got := EnsureTrailingSlash("https://j/job/a"); got != "https://j/job/a/" {
		t.Errorf("got %q", got)
	}
	if got := EnsureTrailingSlash("https://j/job/a/"); got != "https://j/job/a/" {
		t.Errorf("got %q", got)
	}
}

func TestJobPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://h/job/Team/job/App/", "Team/App"},
		{"https://h/job/Team/job/App", "Team/App"},
		{"https://h/job/App/", "App"},
		{"://h/job/Team/job/App/", "Team/App"}, // unparseable, fallback path
		{"no-job-markers", "no-job-markers"},
	}
	for _, c := range cases {
		if got := JobPath(c.in); got != c.want {
			t.Errorf("JobPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeBranch_Idempotent(t *testing.T) {
	cases := []string{"main", "origin/main", "origin/origin/main", "remotes/origin/feature/x"}
	for _, in := range cases {
		once := NormalizeBranch(in)
		twice := NormalizeBranch(once)
		if once != twice {
			t.Errorf("NormalizeBranch not idempotent for %q: %q != %q", in, once, twice)
		}
	}
	if got := NormalizeBranch("remotes/origin/main"); got != "main" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeBranch("origin/origin/main"); got != "main" {
		t.Errorf("got %q", got)
	}
}

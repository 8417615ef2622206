package git_cli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client answers branch queries by shelling out to the git binary, the same
// tool the editor workflow already depends on.
type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return out.String(), nil
}

// Fetch updates remote refs, pruning branches deleted on the remote.
func (c *Client) Fetch(ctx context.Context, dir string) error {
	_, err := c.run(ctx, dir, "fetch", "--prune")
	return err
}

// RemoteBranches lists remote-tracking branches, one trimmed name per entry.
// Symbolic entries ("origin/HEAD -> origin/main") are passed through; the
// resolver filters them.
func (c *Client) RemoteBranches(ctx context.Context, dir string) ([]string, error) {
	out, err := c.run(ctx, dir, "branch", "-r")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// CurrentBranch returns the checked-out branch name ("HEAD" when detached).
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := c.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

package application

import (
	"context"
	"strings"
	"sync"

	"github.com/davarch/jenkins-helper/internal/domain"
	"go.uber.org/zap"
)

// Resolver answers "where can this project build" and "which branches can
// it build from". Pure queries; no lifecycle concerns.
type Resolver struct {
	gw  domain.JenkinsGateway
	git domain.GitClient
	log *zap.Logger
}

func NewResolver(gw domain.JenkinsGateway, git domain.GitClient, log *zap.Logger) *Resolver {
	return &Resolver{gw: gw, git: git, log: log}
}

// ResolveEnvironments cross-references the project name against the
// two-level job tree: every top-level folder whose direct child matches the
// name (case-insensitive, exact) yields one target labelled by the folder.
// A tree fetch failure degrades to an empty list.
func (r *Resolver) ResolveEnvironments(ctx context.Context, projectName string) []domain.JobTarget {
	tree, err := r.gw.JobTree(ctx)
	if err != nil {
		r.log.Warn("job tree fetch failed", zap.Error(err))
		return nil
	}

	var targets []domain.JobTarget
	for _, top := range tree {
		for _, child := range top.Jobs {
			if strings.EqualFold(child.Name, projectName) {
				targets = append(targets, domain.JobTarget{Label: top.Name, URL: child.URL})
			}
		}
	}
	return targets
}

// ResolveBranches lists the repository's origin branches and its current
// branch. The optional remote fetch prunes stale refs first; when it fails
// the locally cached refs are used. The two queries run concurrently and
// fail independently.
func (r *Resolver) ResolveBranches(ctx context.Context, repoRoot string, fetchRemote bool) domain.BranchInfo {
	if fetchRemote {
		if err := r.git.Fetch(ctx, repoRoot); err != nil {
			r.log.Warn("git fetch failed, using cached remote refs", zap.Error(err))
		}
	}

	var (
		wg       sync.WaitGroup
		branches []string
		current  string
		bErr     error
		cErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		branches, bErr = r.git.RemoteBranches(ctx, repoRoot)
	}()
	go func() {
		defer wg.Done()
		current, cErr = r.git.CurrentBranch(ctx, repoRoot)
	}()
	wg.Wait()

	var info domain.BranchInfo
	if bErr != nil {
		r.log.Warn("remote branch listing failed", zap.Error(bErr))
	} else {
		for _, b := range branches {
			b = strings.TrimSpace(b)
			if !strings.HasPrefix(b, "origin/") || strings.Contains(b, "->") {
				continue
			}
			info.Branches = append(info.Branches, domain.BranchOption{
				Label: domain.NormalizeBranch(b),
				Ref:   b,
			})
		}
	}
	if cErr != nil {
		r.log.Warn("current branch lookup failed", zap.Error(cErr))
	} else {
		info.Current = domain.NormalizeBranch(current)
	}
	return info
}

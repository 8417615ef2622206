package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/davarch/jenkins-helper/internal/infrastructure/jenkins_http"
	"go.uber.org/zap"
)

// connect loads the session document and returns an authenticated gateway.
func connect(log *zap.Logger, settings config.Settings) (*jenkins_http.Client, config.Session, error) {
	sess := config.LoadSession(sessionPath)
	if !sess.Complete() {
		return nil, sess, errors.New("jenkins connection not configured: run 'jenkins-helper config set --url ... --username ... --token ...'")
	}
	gw := jenkins_http.New(sess.URL, sess.Username, sess.Token, settings.HTTP.Timeout.Std(), log)
	return gw, sess, nil
}

func resolveRepoRoot(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	return os.Getwd()
}

func resolveProject(root, flag string) string {
	if flag != "" {
		return flag
	}
	return filepath.Base(root)
}

// chooseJob picks the job URL and environment label for a project, honoring
// an explicit job URL, then an explicit environment, then the session's
// default environment, then an unambiguous single match.
func chooseJob(ctx context.Context, resolver *application.Resolver, project string, sess config.Session, envFlag, jobFlag string) (jobURL, env string, err error) {
	if jobFlag != "" {
		return jobFlag, envFlag, nil
	}

	targets := resolver.ResolveEnvironments(ctx, project)
	if len(targets) == 0 {
		return "", "", fmt.Errorf("no jenkins jobs named %q; pass --job-url", project)
	}

	want := envFlag
	if want == "" {
		want = sess.DefaultEnv
	}
	if want == "" {
		if len(targets) == 1 {
			return targets[0].URL, targets[0].Label, nil
		}
		labels := make([]string, 0, len(targets))
		for _, t := range targets {
			labels = append(labels, t.Label)
		}
		return "", "", fmt.Errorf("project %q builds in multiple environments (%s); pass --env", project, strings.Join(labels, ", "))
	}

	for _, t := range targets {
		if strings.EqualFold(t.Label, want) {
			return t.URL, t.Label, nil
		}
	}
	return "", "", fmt.Errorf("no environment %q for project %q", want, project)
}

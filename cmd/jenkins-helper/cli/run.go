package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/domain"
	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/davarch/jenkins-helper/internal/infrastructure/git_cli"
	"github.com/davarch/jenkins-helper/internal/infrastructure/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runEnv     string
	runBranch  string
	runJob     string
	runProject string
	runRepo    string
	runNoFetch bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Trigger a parameterized build and follow it to completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logging.New()
		defer func() { _ = log.Sync() }()

		settings := config.LoadSettings(cfgPath)
		gw, sess, err := connect(log, settings)
		if err != nil {
			return err
		}

		root, err := resolveRepoRoot(runRepo)
		if err != nil {
			return err
		}
		project := resolveProject(root, runProject)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		resolver := application.NewResolver(gw, git_cli.New(), log)

		branchRef, branchLabel, err := chooseBranch(ctx, resolver, root)
		if err != nil {
			return err
		}
		jobURL, envLabel, err := chooseJob(ctx, resolver, project, sess, runEnv, runJob)
		if err != nil {
			return err
		}

		intent := domain.TriggerIntent{
			Env:         envLabel,
			JobURL:      jobURL,
			Branch:      branchRef,
			BranchLabel: branchLabel,
		}

		lifecycle := application.NewLifecycle(gw, log,
			application.Policy{Interval: settings.Queue.Interval.Std(), MaxAttempts: settings.Queue.MaxAttempts},
			application.Policy{Interval: settings.Stage.Interval.Std(), MaxAttempts: settings.Stage.MaxAttempts},
		)

		fmt.Printf("triggering %s (%s) on %s\n", project, envLabel, branchLabel)

		var final domain.BuildResult
		var lastLine string
		lifecycle.Run(ctx, intent,
			func(nodes []domain.StageNode) {
				if line := stageLine(nodes); line != lastLine {
					lastLine = line
					fmt.Println(line)
				}
			},
			func(res domain.BuildResult) {
				final = res
				printResult(res)
				if res.Stage == domain.StageDone && sess.Webhook != "" {
					relayWebhook(ctx, gw, log, sess.Webhook, res, intent, project)
				}
			},
		)

		if !final.Success {
			return errors.New(final.Message)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runEnv, "env", "", "environment label (defaults to the session's defaultEnv)")
	runCmd.Flags().StringVar(&runBranch, "branch", "", "branch to build (defaults to the repository's current branch)")
	runCmd.Flags().StringVar(&runJob, "job-url", "", "job URL, bypassing environment resolution")
	runCmd.Flags().StringVar(&runProject, "project", "", "project name (defaults to the repository directory name)")
	runCmd.Flags().StringVar(&runRepo, "repo", "", "repository root (defaults to the working directory)")
	runCmd.Flags().BoolVar(&runNoFetch, "no-fetch", false, "skip 'git fetch --prune' before resolving branches")

	rootCmd.AddCommand(runCmd)
}

func chooseBranch(ctx context.Context, resolver *application.Resolver, root string) (ref, label string, err error) {
	if runBranch != "" {
		label = domain.NormalizeBranch(runBranch)
		return "origin/" + label, label, nil
	}

	info := resolver.ResolveBranches(ctx, root, !runNoFetch)
	if info.Current == "" {
		return "", "", errors.New("could not detect the current branch; pass --branch")
	}
	for _, b := range info.Branches {
		if b.Label == info.Current {
			return b.Ref, b.Label, nil
		}
	}
	return "", "", fmt.Errorf("current branch %q has no origin counterpart; pass --branch", info.Current)
}

func stageLine(nodes []domain.StageNode) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.State == domain.StateFinished && n.Result != "":
			parts = append(parts, fmt.Sprintf("%s:%s", n.DisplayName, n.Result))
		case n.State != "":
			parts = append(parts, fmt.Sprintf("%s:%s", n.DisplayName, n.State))
		default:
			parts = append(parts, n.DisplayName)
		}
	}
	return "stages: " + strings.Join(parts, "  ")
}

func printResult(res domain.BuildResult) {
	switch res.Stage {
	case domain.StageQueued:
		fmt.Println("queued:", res.Message)
	case domain.StageBuilding:
		fmt.Printf("building: #%d %s\n", res.BuildNumber, res.BuildURL)
	case domain.StageDone:
		if res.Success {
			fmt.Printf("finished: %s #%d in %s\n",
				res.Result, res.BuildNumber, time.Duration(res.Duration)*time.Millisecond)
		} else {
			fmt.Println("finished:", res.Message)
		}
	}
}

// relayWebhook posts the terminal result, merged with the intent and project
// name, to the configured sink. Best effort: failures are logged only.
func relayWebhook(ctx context.Context, gw domain.JenkinsGateway, log *zap.Logger, url string, res domain.BuildResult, intent domain.TriggerIntent, project string) {
	res.Env = intent.Env
	res.Branch = intent.Branch
	res.ProjectName = project

	payload := struct {
		domain.BuildResult
		JobURL      string `json:"jobUrl"`
		BranchLabel string `json:"branchLabel"`
	}{res, intent.JobURL, intent.BranchLabel}

	if err := gw.PostWebhook(ctx, url, payload); err != nil {
		log.Warn("webhook delivery failed", zap.String("url", url), zap.Error(err))
	}
}

package application

import (
	"context"
	"fmt"

	"github.com/davarch/jenkins-helper/internal/domain"
	"go.uber.org/zap"
)

// ProgressFunc receives a full stage-node snapshot on every successful poll.
type ProgressFunc func(nodes []domain.StageNode)

// ResultFunc receives lifecycle snapshots, ending in exactly one with
// Stage == domain.StageDone.
type ResultFunc func(result domain.BuildResult)

// Lifecycle drives one Jenkins build from trigger to terminal result:
//
//	trigger -> queue wait -> stage polling -> final detail fetch
//
// All timing and termination policy lives here; the gateway never retries.
type Lifecycle struct {
	gw    domain.JenkinsGateway
	log   *zap.Logger
	queue Policy
	stage Policy
}

func NewLifecycle(gw domain.JenkinsGateway, log *zap.Logger, queue, stage Policy) *Lifecycle {
	return &Lifecycle{gw: gw, log: log, queue: queue, stage: stage}
}

// Run executes the full lifecycle for one trigger intent. It never returns
// an error: every failure becomes a terminal BuildResult through onResult.
func (l *Lifecycle) Run(ctx context.Context, intent domain.TriggerIntent, onProgress ProgressFunc, onResult ResultFunc) {
	// The trigger is a side effect and must not be repeated blindly,
	// so this single shot is the only non-retried network step.
	location, err := l.gw.TriggerBuild(ctx, intent.JobURL, intent.Branch)
	if err != nil {
		l.log.Error("trigger failed",
			zap.String("job", intent.JobURL),
			zap.String("branch", intent.Branch),
			zap.Error(err),
		)
		onResult(domain.BuildResult{
			Stage:   domain.StageDone,
			Message: "trigger failed: no queue location",
		})
		return
	}

	// Prompt feedback before Jenkins reports anything.
	onResult(domain.BuildResult{
		Stage:   domain.StageQueued,
		Message: "waiting for an executor",
	})

	executable, err := l.waitForExecutable(ctx, location)
	if err != nil {
		l.log.Error("queue wait failed", zap.String("queue", location), zap.Error(err))
		onResult(domain.BuildResult{
			Stage:   domain.StageDone,
			Message: "trigger failed: could not obtain build info",
		})
		return
	}

	onResult(domain.BuildResult{
		Stage:       domain.StageBuilding,
		Message:     "building",
		BuildNumber: executable.Number,
		BuildURL:    executable.URL,
	})

	jobPath := domain.JobPath(intent.JobURL)
	if err := l.pollStages(ctx, jobPath, executable.Number, onProgress); err != nil {
		l.log.Error("stage polling gave up",
			zap.String("path", jobPath),
			zap.Int("build", executable.Number),
			zap.Error(err),
		)
		onResult(domain.BuildResult{
			Stage:       domain.StageDone,
			Message:     "build timed out: no terminal state before the polling ceiling",
			BuildNumber: executable.Number,
			BuildURL:    executable.URL,
		})
		return
	}

	// The stage view is a progress heuristic; the verdict comes from the
	// classic build record. Not being able to fetch it is its own failure.
	detail, err := l.gw.BuildDetail(ctx, intent.JobURL, executable.Number)
	if err != nil {
		l.log.Error("build detail fetch failed",
			zap.Int("build", executable.Number),
			zap.Error(err),
		)
		onResult(domain.BuildResult{
			Stage:       domain.StageDone,
			Message:     "build finished: cannot obtain build result",
			BuildNumber: executable.Number,
			BuildURL:    executable.URL,
		})
		return
	}

	success := detail.Result == "SUCCESS"
	message := "build succeeded"
	if !success {
		message = fmt.Sprintf("build failed: %s", detail.Result)
	}
	buildURL := detail.URL
	if buildURL == "" {
		buildURL = executable.URL
	}

	onResult(domain.BuildResult{
		Stage:       domain.StageDone,
		Success:     success,
		Message:     message,
		BuildNumber: executable.Number,
		BuildURL:    buildURL,
		Result:      detail.Result,
		Duration:    detail.Duration,
		Builder:     domain.ExtractBuilder(detail.Actions),
		Branch:      domain.ExtractBranch(detail.Actions),
	})
}

// waitForExecutable polls the queue item until Jenkins assigns a build
// number. Individual poll failures are swallowed; only ceiling exhaustion
// is fatal.
func (l *Lifecycle) waitForExecutable(ctx context.Context, queueURL string) (domain.BuildExecutable, error) {
	var executable domain.BuildExecutable
	err := pollUntil(ctx, l.queue, func() error {
		item, err := l.gw.QueueItem(ctx, queueURL)
		if err != nil {
			l.log.Debug("queue poll failed", zap.Error(err))
			return errNotReady
		}
		e := item.Executable
		if e == nil || e.URL == "" || e.Number == 0 {
			return errNotReady
		}
		executable = domain.BuildExecutable{
			Number: e.Number,
			URL:    domain.EnsureTrailingSlash(e.URL),
		}
		return nil
	})
	return executable, err
}

// pollStages polls the Blue Ocean node list until the run reaches a terminal
// condition. Each non-empty snapshot is forwarded wholesale to onProgress.
func (l *Lifecycle) pollStages(ctx context.Context, jobPath string, number int, onProgress ProgressFunc) error {
	return pollUntil(ctx, l.stage, func() error {
		nodes, err := l.gw.StageNodes(ctx, jobPath, number)
		if err != nil {
			l.log.Debug("stage poll failed", zap.Error(err))
			return errNotReady
		}
		if len(nodes) == 0 {
			return errNotReady
		}
		onProgress(nodes)

		// A failed, aborted or unstable stage already decides the run;
		// later stages may never execute, so stop right away.
		for _, n := range nodes {
			if n.Terminal() {
				return nil
			}
		}
		for _, n := range nodes {
			if n.State != domain.StateFinished {
				return errNotReady
			}
		}
		return nil
	})
}

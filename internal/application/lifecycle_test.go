package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davarch/jenkins-helper/internal/domain"
	"go.uber.org/zap"
)

var (
	testQueue = Policy{Interval: time.Millisecond, MaxAttempts: 30}
	testStage = Policy{Interval: time.Millisecond, MaxAttempts: 600}
)

type recorder struct {
	progress [][]domain.StageNode
	results  []domain.BuildResult
}

func (r *recorder) onProgress(nodes []domain.StageNode) {
	r.progress = append(r.progress, nodes)
}

func (r *recorder) onResult(res domain.BuildResult) {
	r.results = append(r.results, res)
}

func (r *recorder) terminal(t *testing.T) domain.BuildResult {
	t.Helper()
	var done []domain.BuildResult
	for _, res := range r.results {
		if res.Stage == domain.StageDone {
			done = append(done, res)
		}
	}
	if len(done) != 1 {
		t.Fatalf("expected exactly 1 finished result, got %d (%+v)", len(done), r.results)
	}
	if done[0] != r.results[len(r.results)-1] {
		t.Fatalf("finished result is not the last emission: %+v", r.results)
	}
	return done[0]
}

func testIntent() domain.TriggerIntent {
	return domain.TriggerIntent{
		Env:         "Test",
		JobURL:      "https://jenkins.example.com/job/Team/job/App/",
		Branch:      "origin/main",
		BranchLabel: "main",
	}
}

func queued(n int, url string) domain.QueueItem {
	return domain.QueueItem{Executable: &domain.BuildExecutable{Number: n, URL: url}}
}

func TestRun_TriggerFailureEmitsSingleTerminalResult(t *testing.T) {
	gw := &domain.MockGateway{TriggerErr: errors.New("missing location header")}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	res := rec.terminal(t)
	if res.Success {
		t.Error("expected failure")
	}
	if len(rec.results) != 1 {
		t.Errorf("expected only the terminal result, got %d", len(rec.results))
	}
	if len(rec.progress) != 0 {
		t.Errorf("onProgress must never fire on trigger failure, got %d calls", len(rec.progress))
	}
	if gw.QueueCalls != 0 {
		t.Errorf("queue must not be polled after a failed trigger, got %d polls", gw.QueueCalls)
	}
}

func TestRun_QueueCeilingIsExactlyMaxAttempts(t *testing.T) {
	gw := &domain.MockGateway{Location: "https://jenkins.example.com/queue/item/42/"}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	if gw.QueueCalls != 30 {
		t.Errorf("expected exactly 30 queue polls, got %d", gw.QueueCalls)
	}
	res := rec.terminal(t)
	if res.Success {
		t.Error("expected timeout failure")
	}
	if rec.results[0].Stage != domain.StageQueued {
		t.Errorf("expected a queued emission before the timeout, got %+v", rec.results)
	}
}

func TestRun_QueuePollErrorsAreSwallowed(t *testing.T) {
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		QueueErrs: []error{
			errors.New("connection refused"),
			errors.New("bad gateway"),
		},
		Queue: []domain.QueueItem{
			{}, {},
			queued(7, "https://jenkins.example.com/job/Team/job/App/7"),
		},
		Nodes: [][]domain.StageNode{{
			{DisplayName: "Build", State: domain.StateFinished, Result: domain.ResultSuccess},
		}},
		Detail: domain.BuildDetail{Result: "SUCCESS", Number: 7, URL: "https://jenkins.example.com/job/Team/job/App/7/"},
	}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	res := rec.terminal(t)
	if !res.Success {
		t.Errorf("expected success despite transient queue failures: %+v", res)
	}
	if gw.QueueCalls != 3 {
		t.Errorf("expected 3 queue polls, got %d", gw.QueueCalls)
	}
}

func TestRun_EarlyExitOnFailedStage(t *testing.T) {
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		Queue:    []domain.QueueItem{queued(8, "https://jenkins.example.com/job/Team/job/App/8")},
		Nodes: [][]domain.StageNode{{
			{DisplayName: "Checkout", State: domain.StateFinished, Result: domain.ResultSuccess},
			{DisplayName: "Build", State: domain.StateFinished, Result: domain.ResultFailure},
			{DisplayName: "Deploy", State: domain.StateNotExecuted},
		}},
		Detail: domain.BuildDetail{Result: "FAILURE", Number: 8, Duration: 90000},
	}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	if gw.NodeCalls != 1 {
		t.Errorf("polling must stop on the failing snapshot, got %d polls", gw.NodeCalls)
	}
	res := rec.terminal(t)
	if res.Success {
		t.Error("expected failure")
	}
	if res.Result != "FAILURE" {
		t.Errorf("expected FAILURE result, got %q", res.Result)
	}
	if len(rec.progress) != 1 {
		t.Errorf("the failing snapshot must still reach onProgress, got %d", len(rec.progress))
	}
}

func TestRun_AllStagesFinishedSuccess(t *testing.T) {
	running := []domain.StageNode{
		{DisplayName: "Checkout", State: domain.StateFinished, Result: domain.ResultSuccess},
		{DisplayName: "Build", State: domain.StateRunning},
		{DisplayName: "Deploy", State: domain.StateQueued},
	}
	finished := []domain.StageNode{
		{DisplayName: "Checkout", State: domain.StateFinished, Result: domain.ResultSuccess},
		{DisplayName: "Build", State: domain.StateFinished, Result: domain.ResultSuccess},
		{DisplayName: "Deploy", State: domain.StateFinished, Result: domain.ResultSuccess},
	}
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		Queue:    []domain.QueueItem{queued(9, "https://jenkins.example.com/job/Team/job/App/9")},
		Nodes:    [][]domain.StageNode{running, finished},
		Detail: domain.BuildDetail{
			Result:   "SUCCESS",
			Number:   9,
			URL:      "https://jenkins.example.com/job/Team/job/App/9/",
			Duration: 120000,
			Actions: []domain.Action{
				{Class: "hudson.model.CauseAction", Causes: []domain.Cause{
					{Class: "hudson.model.Cause$UserIdCause", UserName: "Dave"},
				}},
				{Class: "hudson.model.ParametersAction", Parameters: []domain.Parameter{
					{Name: "GIT_BRANCH", Value: "origin/main"},
				}},
			},
		},
	}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	res := rec.terminal(t)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.BuildNumber != 9 || res.Duration != 120000 {
		t.Errorf("unexpected terminal result: %+v", res)
	}
	if res.Builder != "Dave" || res.Branch != "origin/main" {
		t.Errorf("builder/branch not extracted: %+v", res)
	}
	if len(rec.progress) != 2 {
		t.Errorf("expected 2 progress snapshots, got %d", len(rec.progress))
	}

	var stages []domain.BuildStage
	for _, r := range rec.results {
		stages = append(stages, r.Stage)
	}
	want := []domain.BuildStage{domain.StageQueued, domain.StageBuilding, domain.StageDone}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, stages)
		}
	}
}

func TestRun_StageCeilingExhaustionIsTimeout(t *testing.T) {
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		Queue:    []domain.QueueItem{queued(10, "https://jenkins.example.com/job/Team/job/App/10")},
		Nodes: [][]domain.StageNode{{
			{DisplayName: "Build", State: domain.StateRunning},
		}},
	}
	rec := &recorder{}

	lc := NewLifecycle(gw, zap.NewNop(), testQueue, Policy{Interval: time.Millisecond, MaxAttempts: 5})
	lc.Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	if gw.NodeCalls != 5 {
		t.Errorf("expected exactly 5 stage polls, got %d", gw.NodeCalls)
	}
	res := rec.terminal(t)
	if res.Success {
		t.Error("expected timeout failure")
	}
	if res.BuildNumber != 10 {
		t.Errorf("timeout result must carry the build number: %+v", res)
	}
	if gw.DetailCalls != 0 {
		t.Error("detail must not be fetched after a timeout")
	}
}

func TestRun_DetailFetchFailureIsFailure(t *testing.T) {
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		Queue:    []domain.QueueItem{queued(11, "https://jenkins.example.com/job/Team/job/App/11")},
		Nodes: [][]domain.StageNode{{
			{DisplayName: "Build", State: domain.StateFinished, Result: domain.ResultSuccess},
		}},
		DetailErr: errors.New("jenkins 502 Bad Gateway"),
	}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	res := rec.terminal(t)
	if res.Success {
		t.Error("success must require the authoritative build detail")
	}
	if res.BuildNumber != 11 {
		t.Errorf("failure must carry the build number: %+v", res)
	}
}

func TestRun_TransientStagePollErrorsDoNotAbort(t *testing.T) {
	gw := &domain.MockGateway{
		Location: "https://jenkins.example.com/queue/item/42/",
		Queue:    []domain.QueueItem{queued(12, "https://jenkins.example.com/job/Team/job/App/12")},
		NodeErrs: []error{errors.New("i/o timeout"), nil},
		Nodes: [][]domain.StageNode{
			nil, // consumed by the error attempt
			{{DisplayName: "Build", State: domain.StateFinished, Result: domain.ResultSuccess}},
		},
		Detail: domain.BuildDetail{Result: "SUCCESS", Number: 12},
	}
	rec := &recorder{}

	NewLifecycle(gw, zap.NewNop(), testQueue, testStage).
		Run(context.Background(), testIntent(), rec.onProgress, rec.onResult)

	res := rec.terminal(t)
	if !res.Success {
		t.Errorf("expected success after transient poll errors, got %+v", res)
	}
	if gw.NodeCalls != 2 {
		t.Errorf("expected 2 stage polls, got %d", gw.NodeCalls)
	}
}

package domain

// StageState is the Blue Ocean lifecycle state of one pipeline stage.
type StageState string

const (
	StateRunning     StageState = "RUNNING"
	StateFinished    StageState = "FINISHED"
	StatePaused      StageState = "PAUSED"
	StateQueued      StageState = "QUEUED"
	StateNotExecuted StageState = "NOT_EXECUTED"
)

// StageResult is the Blue Ocean outcome of one pipeline stage.
type StageResult string

const (
	ResultSuccess  StageResult = "SUCCESS"
	ResultFailure  StageResult = "FAILURE"
	ResultUnstable StageResult = "UNSTABLE"
	ResultUnknown  StageResult = "UNKNOWN"
	ResultAborted  StageResult = "ABORTED"
	ResultNotBuilt StageResult = "NOT_BUILT"
)

// StageNode is one named stage of a running pipeline. Snapshots of the full
// node list replace each other wholesale; nodes are never merged across polls.
type StageNode struct {
	DisplayName      string      `json:"displayName"`
	DurationInMillis int64       `json:"durationInMillis"`
	Result           StageResult `json:"result"`
	State            StageState  `json:"state"`
}

// Terminal reports whether this node alone already determines the pipeline
// outcome. Later stages may never run after a failed or aborted one.
func (n StageNode) Terminal() bool {
	if n.State != StateFinished {
		return false
	}
	switch n.Result {
	case ResultFailure, ResultAborted, ResultUnstable:
		return true
	}
	return false
}

// Job is one node of the Jenkins job tree, up to two levels of children.
type Job struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Jobs []Job  `json:"jobs"`
}

// JobTarget maps an environment label to the job URL that builds it.
type JobTarget struct {
	Label string `json:"label"`
	URL   string `json:"value"`
}

// BranchOption is one selectable remote branch.
type BranchOption struct {
	Label string `json:"label"`
	Ref   string `json:"value"`
}

// BranchInfo is the resolver's view of a local repository.
type BranchInfo struct {
	Current  string
	Branches []BranchOption
}

// TriggerIntent is the immutable input to one build attempt.
type TriggerIntent struct {
	Env         string `json:"env"`
	JobURL      string `json:"jobUrl"`
	Branch      string `json:"branch"`
	BranchLabel string `json:"branchLabel"`
}

// BuildExecutable identifies a build once the queue assigns it an executor.
type BuildExecutable struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// QueueItem is the state of a queued build request.
type QueueItem struct {
	Why        string           `json:"why"`
	Cancelled  bool             `json:"cancelled"`
	Executable *BuildExecutable `json:"executable"`
}

// BuildDetail is the authoritative build record from the classic API.
type BuildDetail struct {
	Building          bool     `json:"building"`
	Result            string   `json:"result"`
	Number            int      `json:"number"`
	URL               string   `json:"url"`
	FullDisplayName   string   `json:"fullDisplayName"`
	Duration          int64    `json:"duration"`
	EstimatedDuration int64    `json:"estimatedDuration"`
	Timestamp         int64    `json:"timestamp"`
	Actions           []Action `json:"actions"`
}

// BuildStage is the coarse lifecycle phase reported to the host.
type BuildStage string

const (
	StageQueued   BuildStage = "queued"
	StageBuilding BuildStage = "building"
	StageDone     BuildStage = "finished"
)

// BuildResult is one immutable lifecycle snapshot. A build attempt emits a
// sequence of these, ending in exactly one with Stage == StageDone.
type BuildResult struct {
	Stage       BuildStage `json:"stage"`
	Success     bool       `json:"success"`
	Message     string     `json:"message,omitempty"`
	BuildNumber int        `json:"buildNumber,omitempty"`
	BuildURL    string     `json:"buildUrl,omitempty"`
	Result      string     `json:"result,omitempty"`
	Duration    int64      `json:"duration,omitempty"`
	Builder     string     `json:"builder,omitempty"`
	Branch      string     `json:"branch,omitempty"`
	Env         string     `json:"env,omitempty"`
	ProjectName string     `json:"projectName,omitempty"`
}

// BuildSummary condenses a build record for last-build views and the
// watch snapshot cache.
type BuildSummary struct {
	Number    int    `json:"number"`
	URL       string `json:"url"`
	Result    string `json:"result"`
	Builder   string `json:"builder,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Summarize reduces a BuildDetail to its summary form.
func (d BuildDetail) Summarize() BuildSummary {
	result := d.Result
	if result == "" && d.Building {
		result = "BUILDING"
	}
	return BuildSummary{
		Number:    d.Number,
		URL:       d.URL,
		Result:    result,
		Builder:   ExtractBuilder(d.Actions),
		Branch:    ExtractBranch(d.Actions),
		Timestamp: d.Timestamp,
	}
}

// WatchTarget is one job observed by the watch scheduler.
type WatchTarget struct {
	Name   string
	JobURL string
}

// Snapshot is the last observed build of a watched job.
type Snapshot struct {
	Target    WatchTarget
	Build     BuildSummary
	Retrieved int64
}

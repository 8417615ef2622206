package domain

import "context"

// JenkinsGateway is the typed surface of the Jenkins classic + Blue Ocean
// REST APIs. Operations never retry internally; retry policy belongs to the
// caller.
type JenkinsGateway interface {
	JobTree(ctx context.Context) ([]Job, error)
	QueueItem(ctx context.Context, queueURL string) (QueueItem, error)
	BuildDetail(ctx context.Context, jobURL string, number int) (BuildDetail, error)
	LastBuild(ctx context.Context, jobURL string) (BuildDetail, error)
	StageNodes(ctx context.Context, jobPath string, number int) ([]StageNode, error)
	TriggerBuild(ctx context.Context, jobURL, branch string) (string, error)
	PostWebhook(ctx context.Context, url string, payload any) error
}

// GitClient answers branch queries against a local repository.
type GitClient interface {
	Fetch(ctx context.Context, dir string) error
	RemoteBranches(ctx context.Context, dir string) ([]string, error)
	CurrentBranch(ctx context.Context, dir string) (string, error)
}

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

// StatusCache persists the last observed build of a watched job.
type StatusCache interface {
	Write(ctx context.Context, s Snapshot) error
}

package domain

import (
	"context"
)

// MockGateway is a scripted JenkinsGateway for tests. Indexed slices are
// consumed per call; once exhausted the last entry repeats.
type MockGateway struct {
	Tree    []Job
	TreeErr error

	Queue      []QueueItem
	QueueErrs  []error
	QueueCalls int

	Nodes     [][]StageNode
	NodeErrs  []error
	NodeCalls int

	Detail      BuildDetail
	DetailErr   error
	DetailCalls int

	Last    BuildDetail
	LastErr error

	Location        string
	TriggerErr      error
	TriggerCalls    int
	TriggeredJob    string
	TriggeredBranch string

	WebhookURLs     []string
	WebhookPayloads []any
	WebhookErr      error
}

func (m *MockGateway) JobTree(ctx context.Context) ([]Job, error) {
	if m.TreeErr != nil {
		return nil, m.TreeErr
	}
	return m.Tree, nil
}

func (m *MockGateway) QueueItem(ctx context.Context, queueURL string) (QueueItem, error) {
	i := m.QueueCalls
	m.QueueCalls++
	if i < len(m.QueueErrs) && m.QueueErrs[i] != nil {
		return QueueItem{}, m.QueueErrs[i]
	}
	if len(m.Queue) == 0 {
		return QueueItem{}, nil
	}
	if i >= len(m.Queue) {
		i = len(m.Queue) - 1
	}
	return m.Queue[i], nil
}

func (m *MockGateway) BuildDetail(ctx context.Context, jobURL string, number int) (BuildDetail, error) {
	m.DetailCalls++
	if m.DetailErr != nil {
		return BuildDetail{}, m.DetailErr
	}
	return m.Detail, nil
}

func (m *MockGateway) LastBuild(ctx context.Context, jobURL string) (BuildDetail, error) {
	if m.LastErr != nil {
		return BuildDetail{}, m.LastErr
	}
	return m.Last, nil
}

func (m *MockGateway) StageNodes(ctx context.Context, jobPath string, number int) ([]StageNode, error) {
	i := m.NodeCalls
	m.NodeCalls++
	if i < len(m.NodeErrs) && m.NodeErrs[i] != nil {
		return nil, m.NodeErrs[i]
	}
	if len(m.Nodes) == 0 {
		return nil, nil
	}
	if i >= len(m.Nodes) {
		i = len(m.Nodes) - 1
	}
	return m.Nodes[i], nil
}

func (m *MockGateway) TriggerBuild(ctx context.Context, jobURL, branch string) (string, error) {
	m.TriggerCalls++
	m.TriggeredJob = jobURL
	m.TriggeredBranch = branch
	if m.TriggerErr != nil {
		return "", m.TriggerErr
	}
	return m.Location, nil
}

func (m *MockGateway) PostWebhook(ctx context.Context, url string, payload any) error {
	m.WebhookURLs = append(m.WebhookURLs, url)
	m.WebhookPayloads = append(m.WebhookPayloads, payload)
	return m.WebhookErr
}

// MockGit is a canned GitClient.
type MockGit struct {
	FetchErr   error
	FetchCalls int

	Branches    []string
	BranchesErr error

	Current    string
	CurrentErr error
}

func (g *MockGit) Fetch(ctx context.Context, dir string) error {
	g.FetchCalls++
	return g.FetchErr
}

func (g *MockGit) RemoteBranches(ctx context.Context, dir string) ([]string, error) {
	if g.BranchesErr != nil {
		return nil, g.BranchesErr
	}
	return g.Branches, nil
}

func (g *MockGit) CurrentBranch(ctx context.Context, dir string) (string, error) {
	if g.CurrentErr != nil {
		return "", g.CurrentErr
	}
	return g.Current, nil
}

type MockNotifier struct {
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(ctx context.Context, title, body, url string) error {
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockCache struct {
	Snapshots []Snapshot
	Err       error
}

func (c *MockCache) Write(ctx context.Context, s Snapshot) error {
	if c.Err != nil {
		return c.Err
	}
	c.Snapshots = append(c.Snapshots, s)
	return nil
}

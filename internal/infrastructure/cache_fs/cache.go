package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/davarch/jenkins-helper/internal/domain"
)

// FSCache writes the last observed build of a watched job to a JSON file,
// consumable by status bars and prompt widgets.
type FSCache struct {
	path string
}

func New(path string) *FSCache { return &FSCache{path: path} }

func (c *FSCache) Write(_ context.Context, s domain.Snapshot) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	type out struct {
		Job       string `json:"job"`
		JobURL    string `json:"job_url"`
		Build     int    `json:"build"`
		Result    string `json:"result"`
		Builder   string `json:"builder,omitempty"`
		Branch    string `json:"branch,omitempty"`
		URL       string `json:"url"`
		Timestamp int64  `json:"timestamp"`
		Retrieved int64  `json:"retrieved"`
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(out{
		Job:       s.Target.Name,
		JobURL:    s.Target.JobURL,
		Build:     s.Build.Number,
		Result:    s.Build.Result,
		Builder:   s.Build.Builder,
		Branch:    s.Build.Branch,
		URL:       s.Build.URL,
		Timestamp: s.Build.Timestamp,
		Retrieved: s.Retrieved,
	})
}

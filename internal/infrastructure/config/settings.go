package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals YAML scalars like "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library view of the duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// WatchJob is one job watched by the watch scheduler.
type WatchJob struct {
	Name    string `yaml:"name"`
	JobURL  string `yaml:"job_url"`
	Enabled bool   `yaml:"enabled"`
}

// Settings are the tool's tunables: HTTP timeout, polling policy and watch
// configuration. Everything has a default; the YAML file and environment
// only override.
type Settings struct {
	HTTP struct {
		Timeout Duration `yaml:"timeout"`
	} `yaml:"http"`

	Queue struct {
		Interval    Duration `yaml:"interval"`
		MaxAttempts uint64   `yaml:"max_attempts"`
	} `yaml:"queue"`

	Stage struct {
		Interval    Duration `yaml:"interval"`
		MaxAttempts uint64   `yaml:"max_attempts"`
	} `yaml:"stage"`

	Watch struct {
		Interval  Duration   `yaml:"interval"`
		Jobs      []WatchJob `yaml:"jobs"`
		PauseFile string     `yaml:"pause_file"`
	} `yaml:"watch"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// LoadSettings reads the YAML settings file (if present) over built-in
// defaults and applies environment overrides.
func LoadSettings(path string) Settings {
	var c Settings

	c.HTTP.Timeout = Duration(30 * time.Second)
	c.Queue.Interval = Duration(2 * time.Second)
	c.Queue.MaxAttempts = 30
	c.Stage.Interval = Duration(2 * time.Second)
	c.Stage.MaxAttempts = 600
	c.Watch.Interval = Duration(30 * time.Second)
	c.Watch.PauseFile = expandHome("~/.cache/jenkins_watch_paused")
	c.Cache.Path = expandHome("~/.cache/jenkins_status.json")

	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}

	if v := os.Getenv("JENKINS_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("JENKINS_QUEUE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Queue.Interval = Duration(d)
		}
	}
	if v := os.Getenv("JENKINS_QUEUE_ATTEMPTS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			c.Queue.MaxAttempts = n
		}
	}
	if v := os.Getenv("JENKINS_STAGE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Stage.Interval = Duration(d)
		}
	}
	if v := os.Getenv("JENKINS_STAGE_ATTEMPTS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			c.Stage.MaxAttempts = n
		}
	}
	if v := os.Getenv("WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Watch.Interval = Duration(d)
		}
	}
	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Path = expandHome(v)
	}

	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = Duration(30 * time.Second)
	}
	if c.Queue.Interval <= 0 {
		c.Queue.Interval = Duration(2 * time.Second)
	}
	if c.Queue.MaxAttempts == 0 {
		c.Queue.MaxAttempts = 30
	}
	if c.Stage.Interval <= 0 {
		c.Stage.Interval = Duration(2 * time.Second)
	}
	if c.Stage.MaxAttempts == 0 {
		c.Stage.MaxAttempts = 600
	}
	if c.Watch.Interval <= 0 {
		c.Watch.Interval = Duration(30 * time.Second)
	}
	c.Cache.Path = expandHome(c.Cache.Path)
	c.Watch.PauseFile = expandHome(c.Watch.PauseFile)

	return c
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}

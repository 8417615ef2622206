package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
)

const (
	sessionDirName  = ".jenkins-helper"
	sessionFileName = "config.json"
)

// Session is the persisted Jenkins connection document.
type Session struct {
	URL        string `json:"url"`
	Username   string `json:"username"`
	Token      string `json:"token"`
	Webhook    string `json:"webhook,omitempty"`
	DefaultEnv string `json:"defaultEnv,omitempty"`
}

// Complete reports whether the session can authenticate against Jenkins.
func (s Session) Complete() bool {
	return strings.TrimSpace(s.URL) != "" &&
		strings.TrimSpace(s.Username) != "" &&
		strings.TrimSpace(s.Token) != ""
}

// SessionPath is the default location of the session document.
func SessionPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, sessionDirName, sessionFileName)
}

// LoadSession reads the session document and applies environment overrides.
// A missing or unreadable file yields an empty session, not an error; the
// caller decides whether completeness is required.
func LoadSession(path string) Session {
	if path == "" {
		path = SessionPath()
	}

	var s Session
	if b, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(b, &s)
	}

	if v := os.Getenv("JENKINS_URL"); v != "" {
		s.URL = v
	}
	if v := os.Getenv("JENKINS_USERNAME"); v != "" {
		s.Username = v
	}
	if v := os.Getenv("JENKINS_TOKEN"); v != "" {
		s.Token = v
	}
	if v := os.Getenv("JENKINS_WEBHOOK"); v != "" {
		s.Webhook = v
	}
	if v := os.Getenv("JENKINS_DEFAULT_ENV"); v != "" {
		s.DefaultEnv = v
	}

	return s
}

// SaveSession validates and atomically writes the session document.
func SaveSession(path string, s Session) error {
	if path == "" {
		path = SessionPath()
	}
	if !s.Complete() {
		return errors.New("incomplete session: url, username and token are required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return err
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// ClearSession removes the session document.
func ClearSession(path string) error {
	if path == "" {
		path = SessionPath()
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

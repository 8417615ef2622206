package notify_libnotify

import (
	"context"
	"os/exec"
	"strings"
)

// Notifier shells out to notify-send. A soft notifier swallows delivery
// errors, for environments without a notification daemon.
type Notifier struct {
	soft bool
}

func New() *Notifier     { return &Notifier{soft: false} }
func NewSoft() *Notifier { return &Notifier{soft: true} }

func (n *Notifier) Notify(ctx context.Context, title, body, url string) error {
	if strings.TrimSpace(url) != "" {
		if body == "" {
			body = url
		} else {
			body = body + "\n" + url
		}
	}

	args := []string{
		"--app-name=jenkins-helper",
		title, body,
	}

	cmd := exec.CommandContext(ctx, "notify-send", args...)
	if err := cmd.Run(); err != nil {
		if n.soft {
			return nil
		}
		return err
	}
	return nil
}

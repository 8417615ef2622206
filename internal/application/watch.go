package application

import (
	"context"
	"strconv"
	"time"

	"github.com/davarch/jenkins-helper/internal/domain"
)

// WatchUseCase observes a job's last build and reacts when a new build
// appears or an observed one changes result.
type WatchUseCase struct {
	gw    domain.JenkinsGateway
	note  domain.Notifier
	cache domain.StatusCache

	last map[domain.WatchTarget]struct {
		number int
		result string
	}
}

func NewWatchUseCase(gw domain.JenkinsGateway, note domain.Notifier, cache domain.StatusCache) *WatchUseCase {
	return &WatchUseCase{
		gw: gw, note: note, cache: cache,
		last: make(map[domain.WatchTarget]struct {
			number int
			result string
		}),
	}
}

func (uc *WatchUseCase) PollOnce(ctx context.Context, wt domain.WatchTarget) error {
	detail, err := uc.gw.LastBuild(ctx, wt.JobURL)
	if err != nil {
		return err
	}
	build := detail.Summarize()

	prev, ok := uc.last[wt]
	changed := !ok || prev.number != build.Number || prev.result != build.Result
	if changed {
		_ = uc.cache.Write(ctx, domain.Snapshot{
			Target: wt, Build: build, Retrieved: time.Now().Unix(),
		})

		title := titleFor(build.Result)
		body := "Build #" + strconv.Itoa(build.Number) + " (" + wt.Name + ")"
		_ = uc.note.Notify(ctx, title, body, build.URL)

		uc.last[wt] = struct {
			number int
			result string
		}{build.Number, build.Result}
	}

	return nil
}

func titleFor(result string) string {
	switch result {
	case "SUCCESS":
		return "✅ Jenkins: success"
	case "FAILURE":
		return "❌ Jenkins: failure"
	case "UNSTABLE":
		return "⚠️ Jenkins: unstable"
	case "ABORTED":
		return "⛔ Jenkins: aborted"
	case "BUILDING":
		return "▶️ Jenkins: building"
	default:
		return "ℹ️ Jenkins: " + result
	}
}

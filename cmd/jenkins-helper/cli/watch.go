package cli

import (
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/domain"
	"github.com/davarch/jenkins-helper/internal/infrastructure/cache_fs"
	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/davarch/jenkins-helper/internal/infrastructure/logging"
	"github.com/davarch/jenkins-helper/internal/infrastructure/notify_libnotify"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch jobs' last builds and notify on changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logging.New()
		defer func() { _ = log.Sync() }()

		settings := config.LoadSettings(cfgPath)
		gw, _, err := connect(log, settings)
		if err != nil {
			return err
		}

		targets := watchTargets(settings)
		if len(targets) == 0 {
			return errors.New("no enabled watch jobs in settings")
		}

		uc := application.NewWatchUseCase(gw, notify_libnotify.NewSoft(), cache_fs.New(settings.Cache.Path))
		sched := application.NewScheduler(log, uc, targets, settings.Watch.Interval.Std(), settings.Watch.PauseFile)
		watchAndReload(cfgPath, log, sched)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		log.Info("start",
			zap.String("version", version),
			zap.Int("jobs", len(targets)),
			zap.Duration("every", settings.Watch.Interval.Std()),
			zap.String("cache", settings.Cache.Path),
			zap.String("pause_file", settings.Watch.PauseFile),
		)
		sched.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchTargets(settings config.Settings) []domain.WatchTarget {
	var targets []domain.WatchTarget
	for _, j := range settings.Watch.Jobs {
		if j.Enabled {
			targets = append(targets, domain.WatchTarget{Name: j.Name, JobURL: j.JobURL})
		}
	}
	return targets
}

// watchAndReload swaps the scheduler's targets when the settings file
// changes. Events are debounced because editors fire several per save.
func watchAndReload(cfgPath string, log *zap.Logger, sched *application.Scheduler) {
	if cfgPath == "" {
		return
	}

	dir := filepath.Dir(cfgPath)
	base := filepath.Base(cfgPath)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("fsnotify init failed", zap.Error(err))
		return
	}

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		fire := func() {
			targets := watchTargets(config.LoadSettings(cfgPath))
			if len(targets) == 0 {
				log.Warn("settings reload: no enabled watch jobs")
			}
			sched.UpdateTargets(targets)
		}
		startTimer := func() {
			if timer == nil {
				timer = time.AfterFunc(300*time.Millisecond, fire)
				return
			}
			timer.Reset(300 * time.Millisecond)
		}

		if err := w.Add(dir); err != nil {
			log.Warn("fsnotify add dir failed", zap.String("dir", dir), zap.Error(err))
			return
		}

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					startTimer()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()
}

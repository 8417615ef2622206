package application

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/davarch/jenkins-helper/internal/domain"
	"go.uber.org/zap"
)

// Scheduler drives the watch use case on a fixed ticker. A pause file on
// disk skips polling without stopping the process.
type Scheduler struct {
	log       *zap.Logger
	use       *WatchUseCase
	every     time.Duration
	pauseFile string

	mu      sync.RWMutex
	targets []domain.WatchTarget
}

func NewScheduler(l *zap.Logger, u *WatchUseCase, targets []domain.WatchTarget, every time.Duration, pauseFile string) *Scheduler {
	return &Scheduler{
		log: l, use: u, targets: targets, every: every, pauseFile: pauseFile,
	}
}

func (s *Scheduler) UpdateTargets(targets []domain.WatchTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = targets
	s.log.Info("watch targets reloaded", zap.Int("jobs", len(targets)))
}

func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.every)
	defer t.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.isPaused() {
		s.log.Debug("paused: skipping poll")
		return
	}
	s.runAll(ctx)
}

func (s *Scheduler) isPaused() bool {
	if s.pauseFile == "" {
		return false
	}
	_, err := os.Stat(s.pauseFile)
	return err == nil
}

func (s *Scheduler) runAll(ctx context.Context) {
	s.mu.RLock()
	targets := make([]domain.WatchTarget, len(s.targets))
	copy(targets, s.targets)
	s.mu.RUnlock()

	for _, wt := range targets {
		if err := s.use.PollOnce(ctx, wt); err != nil {
			s.log.Warn("poll failed",
				zap.String("job", wt.Name),
				zap.String("url", wt.JobURL),
				zap.Error(err),
			)
		}
	}
}

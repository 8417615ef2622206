package application

import (
	"context"
	"errors"
	"testing"

	"github.com/davarch/jenkins-helper/internal/domain"
)

func watchTarget() domain.WatchTarget {
	return domain.WatchTarget{Name: "app", JobURL: "https://j/job/Test/job/app/"}
}

func TestWatchPollOnce_NewBuildNotifiesAndCaches(t *testing.T) {
	gw := &domain.MockGateway{Last: domain.BuildDetail{Number: 5, Result: "SUCCESS", URL: "u"}}
	note := &domain.MockNotifier{}
	cache := &domain.MockCache{}

	uc := NewWatchUseCase(gw, note, cache)
	if err := uc.PollOnce(context.Background(), watchTarget()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(note.Messages) != 1 {
		t.Errorf("expected 1 notification, got %d", len(note.Messages))
	}
	if len(cache.Snapshots) != 1 {
		t.Errorf("expected 1 snapshot, got %d", len(cache.Snapshots))
	}
	if cache.Snapshots[0].Build.Number != 5 {
		t.Errorf("unexpected snapshot: %+v", cache.Snapshots[0])
	}
}

func TestWatchPollOnce_UnchangedBuildDoesNothing(t *testing.T) {
	gw := &domain.MockGateway{Last: domain.BuildDetail{Number: 5, Result: "SUCCESS"}}
	note := &domain.MockNotifier{}
	cache := &domain.MockCache{}
	uc := NewWatchUseCase(gw, note, cache)

	_ = uc.PollOnce(context.Background(), watchTarget())
	_ = uc.PollOnce(context.Background(), watchTarget())

	if len(note.Messages) != 1 {
		t.Errorf("expected 1 notification total, got %d", len(note.Messages))
	}
}

func TestWatchPollOnce_ResultChangeNotifiesAgain(t *testing.T) {
	gw := &domain.MockGateway{Last: domain.BuildDetail{Number: 5, Building: true}}
	note := &domain.MockNotifier{}
	uc := NewWatchUseCase(gw, note, &domain.MockCache{})

	_ = uc.PollOnce(context.Background(), watchTarget())
	gw.Last = domain.BuildDetail{Number: 5, Result: "FAILURE"}
	_ = uc.PollOnce(context.Background(), watchTarget())

	if len(note.Messages) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(note.Messages))
	}
}

func TestWatchPollOnce_GatewayErrorPropagates(t *testing.T) {
	gw := &domain.MockGateway{LastErr: errors.New("jenkins 500")}
	uc := NewWatchUseCase(gw, &domain.MockNotifier{}, &domain.MockCache{})

	if err := uc.PollOnce(context.Background(), watchTarget()); err == nil {
		t.Fatal("expected an error")
	}
}

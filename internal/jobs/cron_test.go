package jobs

import (
    "context"
    "sync"
    "sync/atomic"
    "testing"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/rs/zerolog"
)

type blockingService struct {
    started chan struct{}
    release chan struct{}
    runs    atomic.Int32
}

func (s *blockingService) Refresh(ctx context.Context) error {
    s.runs.Add(1)
    close(s.started)
    <-s.release
    return nil
}

func TestRunRefresh_SkipsWhileOneIsRunning(t *testing.T) {
    svc := &blockingService{started: make(chan struct{}), release: make(chan struct{})}
    s, err := NewScheduler(config.Config{TZ: "UTC", SyncCron: "* * * * *"}, zerolog.Nop(), svc)
    if err != nil { t.Fatalf("NewScheduler: %v", err) }

    var wg sync.WaitGroup
    wg.Add(1)
    go func() { defer wg.Done(); s.runRefresh() }()
    <-svc.started

    // overlapping tick must bail immediately instead of queueing
    s.runRefresh()
    if got := svc.runs.Load(); got != 1 { t.Fatalf("overlapping refresh ran: %d", got) }

    close(svc.release)
    wg.Wait()
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
    svc := &blockingService{started: make(chan struct{}), release: make(chan struct{})}
    if _, err := NewScheduler(config.Config{TZ: "UTC", SyncCron: "not a cron"}, zerolog.Nop(), svc); err == nil {
        t.Fatalf("expected invalid spec error")
    }
    if _, err := NewScheduler(config.Config{TZ: "Mars/Olympus", SyncCron: "* * * * *"}, zerolog.Nop(), svc); err == nil {
        t.Fatalf("expected invalid timezone error")
    }
}

package services

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
    "github.com/rs/zerolog"
)

// fakeBackend serves canned entities and counts per-id fetches.
type fakeBackend struct {
    mu       sync.Mutex
    entries  []domain.TimeEntry
    users    []domain.User
    subtasks []domain.Subtask
    tasks    map[string]domain.Task
    stories  map[string]domain.Story
    projects map[string]domain.Project
    sprints  map[string]domain.Sprint

    entriesErr error
    usersErr   error
    failIDs    map[string]struct{}
    fetches    map[string]int
}

func newFakeBackend() *fakeBackend {
    return &fakeBackend{
        tasks:    map[string]domain.Task{},
        stories:  map[string]domain.Story{},
        projects: map[string]domain.Project{},
        sprints:  map[string]domain.Sprint{},
        failIDs:  map[string]struct{}{},
        fetches:  map[string]int{},
    }
}

func (f *fakeBackend) count(kind, id string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.fetches[kind+"/"+id]++
    if _, ok := f.failIDs[id]; ok { return errors.New("backend 500") }
    return nil
}

func (f *fakeBackend) TimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
    return f.entries, f.entriesErr
}
func (f *fakeBackend) Users(ctx context.Context) ([]domain.User, error) { return f.users, f.usersErr }
func (f *fakeBackend) Subtasks(ctx context.Context) ([]domain.Subtask, error) {
    return f.subtasks, nil
}

func (f *fakeBackend) Task(ctx context.Context, id string) (domain.Task, error) {
    if err := f.count("task", id); err != nil { return domain.Task{}, err }
    return f.tasks[id], nil
}
func (f *fakeBackend) Story(ctx context.Context, id string) (domain.Story, error) {
    if err := f.count("story", id); err != nil { return domain.Story{}, err }
    return f.stories[id], nil
}
func (f *fakeBackend) Project(ctx context.Context, id string) (domain.Project, error) {
    if err := f.count("project", id); err != nil { return domain.Project{}, err }
    return f.projects[id], nil
}
func (f *fakeBackend) Sprint(ctx context.Context, id string) (domain.Sprint, error) {
    if err := f.count("sprint", id); err != nil { return domain.Sprint{}, err }
    return f.sprints[id], nil
}

func newTestService(f *fakeBackend) (*Service, *store.Session) {
    session := store.NewSession()
    cfg := config.Config{WorkersBackfill: 2}
    return New(cfg, zerolog.Nop(), f, session), session
}

func TestResolvePass_BackfillsFullChain(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1", StoryID: "st1"}
    f.stories["st1"] = domain.Story{ID: "st1", ProjectID: "p1", SprintID: "sp1"}
    f.projects["p1"] = domain.Project{ID: "p1", Name: "Atlas"}
    f.sprints["sp1"] = domain.Sprint{ID: "sp1", Name: "Sprint 7"}

    svc, session := newTestService(f)
    session.SetEntries([]domain.TimeEntry{{ID: "e1", UserID: "u1", TaskID: "t1", HoursWorked: 1}})
    svc.resolvePass(context.Background())

    snap := session.Snapshot()
    if len(snap.Tasks) != 1 || len(snap.Stories) != 1 || len(snap.Projects) != 1 || len(snap.Sprints) != 1 {
        t.Fatalf("chain not backfilled: %d/%d/%d/%d", len(snap.Tasks), len(snap.Stories), len(snap.Projects), len(snap.Sprints))
    }
    if snap.Projects[0].Name != "Atlas" { t.Fatalf("got %#v", snap.Projects[0]) }
}

func TestResolvePass_SubtaskEntriesSeedParentTaskFetch(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1"}

    svc, session := newTestService(f)
    session.MergeSubtasks([]domain.Subtask{{ID: "sub1", TaskID: "t1"}})
    session.SetEntries([]domain.TimeEntry{{ID: "e1", UserID: "u1", SubtaskID: "sub1"}})
    svc.resolvePass(context.Background())

    if got := f.fetches["task/t1"]; got != 1 { t.Fatalf("parent task fetched %d times", got) }
}

func TestResolvePass_FailedIDIsIsolatedAndNeverRetried(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1"}
    f.failIDs["t-bad"] = struct{}{}

    svc, session := newTestService(f)
    session.SetEntries([]domain.TimeEntry{
        {ID: "e1", UserID: "u1", TaskID: "t1"},
        {ID: "e2", UserID: "u1", TaskID: "t-bad"},
    })
    svc.resolvePass(context.Background())

    snap := session.Snapshot()
    if len(snap.Tasks) != 1 || snap.Tasks[0].ID != "t1" { t.Fatalf("sibling fetch was not isolated: %#v", snap.Tasks) }

    // a second pass must not retry the failed id within the session
    svc.resolvePass(context.Background())
    if got := f.fetches["task/t-bad"]; got != 1 { t.Fatalf("failed id refetched: %d", got) }
}

func TestResolvePass_FetchOnceAcrossPasses(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1"}

    svc, session := newTestService(f)
    session.SetEntries([]domain.TimeEntry{{ID: "e1", UserID: "u1", TaskID: "t1"}})
    svc.resolvePass(context.Background())
    svc.resolvePass(context.Background())

    if got := f.fetches["task/t1"]; got != 1 { t.Fatalf("task fetched %d times, want 1", got) }
}

func TestRefresh_EntryFailureBlocksFirstServe(t *testing.T) {
    f := newFakeBackend()
    f.entriesErr = errors.New("connection refused")

    svc, _ := newTestService(f)
    if err := svc.Refresh(context.Background()); err == nil { t.Fatalf("expected refresh error") }

    if _, err := svc.Rows(context.Background(), "u1", Filters{}); !errors.Is(err, ErrNotSynced) {
        t.Fatalf("expected ErrNotSynced, got %v", err)
    }
}

func TestRefresh_SecondaryFailuresAreNotFatal(t *testing.T) {
    f := newFakeBackend()
    f.usersErr = errors.New("users endpoint down")
    f.tasks["t1"] = domain.Task{ID: "t1"}
    f.entries = []domain.TimeEntry{{ID: "e1", UserID: "u1", TaskID: "t1", HoursWorked: 2}}

    svc, _ := newTestService(f)
    if err := svc.Refresh(context.Background()); err != nil { t.Fatalf("refresh failed: %v", err) }

    rows, err := svc.Rows(context.Background(), "u1", Filters{})
    if err != nil { t.Fatalf("rows: %v", err) }
    if len(rows) != 1 || rows[0].HoursWorked != 2 { t.Fatalf("got %#v", rows) }
}

func TestRefresh_UnchangedEntriesSkipBackfill(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1"}
    f.entries = []domain.TimeEntry{{ID: "e1", UserID: "u1", TaskID: "t1"}}

    svc, _ := newTestService(f)
    if err := svc.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }
    if err := svc.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    if got := f.fetches["task/t1"]; got != 1 { t.Fatalf("backfill ran on unchanged content: %d fetches", got) }
}

func TestRows_UnknownCallerGetsOwnEntriesOnly(t *testing.T) {
    f := newFakeBackend()
    f.tasks["t1"] = domain.Task{ID: "t1"}
    f.entries = []domain.TimeEntry{
        {ID: "e1", UserID: "u1", TaskID: "t1", HoursWorked: 1},
        {ID: "e2", UserID: "u2", TaskID: "t1", HoursWorked: 2},
    }

    svc, _ := newTestService(f)
    if err := svc.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    rows, err := svc.Rows(context.Background(), "u1", Filters{})
    if err != nil { t.Fatalf("rows: %v", err) }
    if len(rows) != 1 || rows[0].UserID != "u1" { t.Fatalf("got %#v", rows) }
}

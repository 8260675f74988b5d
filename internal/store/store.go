package store

import (
    "sort"
    "strings"
    "sync"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/google/uuid"
)

// MergeByID overlays incoming onto existing keyed by id. Incoming wins on
// collision (record-level last-write-wins); first-seen order is preserved and
// collisions update in place. An empty incoming returns existing unchanged,
// same slice, so callers can cheaply detect "nothing new".
func MergeByID[T domain.Entity](existing, incoming []T) []T {
    if len(incoming) == 0 { return existing }
    out := make([]T, len(existing))
    copy(out, existing)
    pos := make(map[string]int, len(out))
    for i, e := range out { pos[e.EntityID()] = i }
    for _, in := range incoming {
        id := in.EntityID()
        if i, ok := pos[id]; ok {
            out[i] = in
        } else {
            pos[id] = len(out)
            out = append(out, in)
        }
    }
    return out
}

// Kind names an entity collection for fetch-once bookkeeping.
type Kind string

const (
    KindTask    Kind = "task"
    KindStory   Kind = "story"
    KindProject Kind = "project"
    KindSprint  Kind = "sprint"
)

// Session holds the growing, merge-only entity collections for one dashboard
// session plus the per-kind "fetch attempted" memo sets. Collections are
// created empty, grow monotonically, and die with the session. Guarded by a
// mutex because backfill passes fan out and may overlap a refresh.
type Session struct {
    ID string

    mu sync.Mutex

    entries  []domain.TimeEntry
    tasks    []domain.Task
    subtasks []domain.Subtask
    stories  []domain.Story
    projects []domain.Project
    sprints  []domain.Sprint
    users    []domain.User

    attempted map[Kind]map[string]struct{}

    contentKey string
    ready      bool
    lastErr    error
    lastSync   time.Time
}

func NewSession() *Session {
    return &Session{
        ID: uuid.NewString(),
        attempted: map[Kind]map[string]struct{}{
            KindTask: {}, KindStory: {}, KindProject: {}, KindSprint: {},
        },
    }
}

// SetEntries replaces the raw entry set and reports whether its content key
// moved. The key is order-insensitive: the sorted dedup keys joined, so a
// refetch returning the same records in a different order is not a change.
func (s *Session) SetEntries(entries []domain.TimeEntry) bool {
    keys := make([]string, 0, len(entries))
    for _, e := range entries { keys = append(keys, e.DedupKey()) }
    sort.Strings(keys)
    ck := strings.Join(keys, "\n")

    s.mu.Lock()
    defer s.mu.Unlock()
    s.entries = entries
    if ck == s.contentKey { return false }
    s.contentKey = ck
    return true
}

// Claim returns the subset of required ids that are neither known nor
// previously attempted, marking them attempted before returning. Marking
// happens before any fetch is issued, so two overlapping resolution passes
// can never fetch the same id twice.
func (s *Session) Claim(kind Kind, required []string) []string {
    s.mu.Lock()
    defer s.mu.Unlock()
    known := map[string]struct{}{}
    switch kind {
    case KindTask:
        for _, t := range s.tasks { known[t.ID] = struct{}{} }
    case KindStory:
        for _, st := range s.stories { known[st.ID] = struct{}{} }
    case KindProject:
        for _, p := range s.projects { known[p.ID] = struct{}{} }
    case KindSprint:
        for _, sp := range s.sprints { known[sp.ID] = struct{}{} }
    }
    att := s.attempted[kind]
    var out []string
    for _, id := range required {
        if id == "" { continue }
        if _, ok := known[id]; ok { continue }
        if _, ok := att[id]; ok { continue }
        att[id] = struct{}{}
        out = append(out, id)
    }
    return out
}

func (s *Session) MergeTasks(in []domain.Task) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.tasks = MergeByID(s.tasks, in)
}

func (s *Session) MergeSubtasks(in []domain.Subtask) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.subtasks = MergeByID(s.subtasks, in)
}

func (s *Session) MergeStories(in []domain.Story) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.stories = MergeByID(s.stories, in)
}

func (s *Session) MergeProjects(in []domain.Project) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.projects = MergeByID(s.projects, in)
}

func (s *Session) MergeSprints(in []domain.Sprint) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.sprints = MergeByID(s.sprints, in)
}

func (s *Session) MergeUsers(in []domain.User) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.users = MergeByID(s.users, in)
}

// Snapshot is a consistent copy of everything the reconciler needs.
type Snapshot struct {
    Entries  []domain.TimeEntry
    Tasks    []domain.Task
    Subtasks []domain.Subtask
    Stories  []domain.Story
    Projects []domain.Project
    Sprints  []domain.Sprint
    Users    []domain.User
}

func (s *Session) Snapshot() Snapshot {
    s.mu.Lock()
    defer s.mu.Unlock()
    return Snapshot{
        Entries:  append([]domain.TimeEntry(nil), s.entries...),
        Tasks:    append([]domain.Task(nil), s.tasks...),
        Subtasks: append([]domain.Subtask(nil), s.subtasks...),
        Stories:  append([]domain.Story(nil), s.stories...),
        Projects: append([]domain.Project(nil), s.projects...),
        Sprints:  append([]domain.Sprint(nil), s.sprints...),
        Users:    append([]domain.User(nil), s.users...),
    }
}

// SetSyncResult records the outcome of a refresh. A nil err marks the session
// ready; a non-nil err only blocks readers while no refresh has ever
// succeeded (the initial-fetch failure banner).
func (s *Session) SetSyncResult(err error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.lastErr = err
    if err == nil {
        s.ready = true
        s.lastSync = time.Now()
    }
}

type SyncState struct {
    SessionID string     `json:"sessionId"`
    Ready     bool       `json:"ready"`
    LastSync  *time.Time `json:"lastSync,omitempty"`
    LastError string     `json:"lastError,omitempty"`
}

func (s *Session) SyncState() SyncState {
    s.mu.Lock()
    defer s.mu.Unlock()
    st := SyncState{SessionID: s.ID, Ready: s.ready}
    if !s.lastSync.IsZero() { t := s.lastSync; st.LastSync = &t }
    if s.lastErr != nil { st.LastError = s.lastErr.Error() }
    return st
}

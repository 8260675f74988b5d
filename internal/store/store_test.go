package store

import (
    "sync"
    "testing"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
)

func TestMergeByID_IncomingWinsAndOrderIsPreserved(t *testing.T) {
    existing := []domain.Task{{ID: "t1", Title: "old"}, {ID: "t2", Title: "keep"}}
    incoming := []domain.Task{{ID: "t1", Title: "new"}, {ID: "t3", Title: "added"}}
    out := MergeByID(existing, incoming)
    if len(out) != 3 { t.Fatalf("expected 3 tasks, got %d", len(out)) }
    if out[0].ID != "t1" || out[0].Title != "new" { t.Fatalf("collision should update in place: %#v", out[0]) }
    if out[1].ID != "t2" || out[2].ID != "t3" { t.Fatalf("first-seen order broken: %#v", out) }
    // existing must not be mutated
    if existing[0].Title != "old" { t.Fatalf("input slice mutated") }
}

func TestMergeByID_EmptyIncomingReturnsSameSlice(t *testing.T) {
    existing := []domain.Story{{ID: "s1"}}
    out := MergeByID(existing, nil)
    if len(out) != 1 || &out[0] != &existing[0] { t.Fatalf("expected identical slice back") }
}

func TestMergeByID_LastWinsWithinIncoming(t *testing.T) {
    incoming := []domain.User{{ID: "u1", Name: "first"}, {ID: "u1", Name: "second"}}
    out := MergeByID(nil, incoming)
    if len(out) != 1 || out[0].Name != "second" { t.Fatalf("got %#v", out) }
}

func TestSetEntries_ContentKeyIsOrderInsensitive(t *testing.T) {
    s := NewSession()
    a := domain.TimeEntry{ID: "e1"}
    b := domain.TimeEntry{ID: "e2"}
    if !s.SetEntries([]domain.TimeEntry{a, b}) { t.Fatalf("first set should report change") }
    if s.SetEntries([]domain.TimeEntry{b, a}) { t.Fatalf("reorder must not count as change") }
    if !s.SetEntries([]domain.TimeEntry{a}) { t.Fatalf("dropping a record is a change") }
}

func TestClaim_MarksAttemptedExactlyOnce(t *testing.T) {
    s := NewSession()
    s.MergeTasks([]domain.Task{{ID: "t-known"}})

    got := s.Claim(KindTask, []string{"t-known", "t-new", "", "t-new2"})
    if len(got) != 2 || got[0] != "t-new" || got[1] != "t-new2" { t.Fatalf("got %v", got) }

    // second pass: everything already claimed, even though the fetch never
    // merged a result
    if again := s.Claim(KindTask, []string{"t-new", "t-new2"}); len(again) != 0 {
        t.Fatalf("reclaimed ids: %v", again)
    }
}

func TestClaim_KindsAreIndependent(t *testing.T) {
    s := NewSession()
    if got := s.Claim(KindTask, []string{"x"}); len(got) != 1 { t.Fatalf("got %v", got) }
    if got := s.Claim(KindStory, []string{"x"}); len(got) != 1 {
        t.Fatalf("story claim should not see task attempts: %v", got)
    }
}

func TestClaim_ConcurrentPassesNeverShareAnID(t *testing.T) {
    s := NewSession()
    ids := []string{"a", "b", "c", "d", "e"}
    var mu sync.Mutex
    var all []string
    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            got := s.Claim(KindSprint, ids)
            mu.Lock()
            all = append(all, got...)
            mu.Unlock()
        }()
    }
    wg.Wait()
    seen := map[string]int{}
    for _, id := range all { seen[id]++ }
    for id, n := range seen {
        if n != 1 { t.Fatalf("id %q claimed %d times", id, n) }
    }
    if len(seen) != len(ids) { t.Fatalf("expected every id claimed once, got %v", seen) }
}

func TestSnapshot_IsACopy(t *testing.T) {
    s := NewSession()
    s.SetEntries([]domain.TimeEntry{{ID: "e1", HoursWorked: 1}})
    snap := s.Snapshot()
    snap.Entries[0].HoursWorked = 99
    if got := s.Snapshot().Entries[0].HoursWorked; got != 1 {
        t.Fatalf("snapshot mutation leaked into session: %v", got)
    }
}

func TestSyncState_ReadyOnlyAfterSuccess(t *testing.T) {
    s := NewSession()
    if s.SyncState().Ready { t.Fatalf("fresh session should not be ready") }

    s.SetSyncResult(errTest)
    st := s.SyncState()
    if st.Ready || st.LastError == "" { t.Fatalf("got %#v", st) }

    s.SetSyncResult(nil)
    st = s.SyncState()
    if !st.Ready || st.LastSync == nil || st.LastError != "" { t.Fatalf("got %#v", st) }

    // a later failure does not revoke readiness
    s.SetSyncResult(errTest)
    if !s.SyncState().Ready { t.Fatalf("readiness revoked by transient failure") }
}

type testErr string

func (e testErr) Error() string { return string(e) }

var errTest = testErr("boom")

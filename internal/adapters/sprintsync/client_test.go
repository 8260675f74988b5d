package sprintsync

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strconv"
    "testing"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/rs/zerolog"
)

func testClient(baseURL string) *Client {
    cfg := config.Config{APIBaseURL: baseURL, APIToken: "tkn", PageSize: 2, HTTPTimeout: 5 * time.Second}
    return NewClient(cfg, zerolog.Nop())
}

func TestTimeEntries_BulkEndpoint(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/time-entries/all" { t.Fatalf("unexpected path %s", r.URL.Path) }
        if got := r.Header.Get("Authorization"); got != "Bearer tkn" { t.Fatalf("auth header %q", got) }
        json.NewEncoder(w).Encode([]any{
            map[string]any{"id": "e1", "taskId": "t1", "hours": 2},
            map[string]any{"id": "e2", "taskId": "t2", "hours": 3},
        })
    }))
    defer srv.Close()

    got, err := testClient(srv.URL).TimeEntries(context.Background())
    if err != nil { t.Fatalf("TimeEntries: %v", err) }
    if len(got) != 2 || got[0].ID != "e1" || got[1].HoursWorked != 3 { t.Fatalf("got %#v", got) }
}

func TestTimeEntries_FallsBackToPaginationOn404(t *testing.T) {
    all := make([]map[string]any, 5)
    for i := range all { all[i] = map[string]any{"id": fmt.Sprintf("e%d", i), "taskId": "t1"} }

    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/api/time-entries/all" {
            http.NotFound(w, r)
            return
        }
        page, _ := strconv.Atoi(r.URL.Query().Get("page"))
        size, _ := strconv.Atoi(r.URL.Query().Get("size"))
        lo := page * size
        hi := lo + size
        if lo > len(all) { lo = len(all) }
        if hi > len(all) { hi = len(all) }
        json.NewEncoder(w).Encode(map[string]any{"content": all[lo:hi]})
    }))
    defer srv.Close()

    got, err := testClient(srv.URL).TimeEntries(context.Background())
    if err != nil { t.Fatalf("TimeEntries: %v", err) }
    if len(got) != 5 { t.Fatalf("expected 5 entries across pages, got %d", len(got)) }
}

func TestDoJSON_RetriesOn500ThenSucceeds(t *testing.T) {
    var calls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls++
        if calls == 1 {
            http.Error(w, "flaky", http.StatusInternalServerError)
            return
        }
        json.NewEncoder(w).Encode(map[string]any{"id": "t1", "name": "ok"})
    }))
    defer srv.Close()

    task, err := testClient(srv.URL).Task(context.Background(), "t1")
    if err != nil { t.Fatalf("Task: %v", err) }
    if calls != 2 || task.Title != "ok" { t.Fatalf("calls=%d task=%#v", calls, task) }
}

func TestDoJSON_DoesNotRetryOn4xx(t *testing.T) {
    var calls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls++
        http.Error(w, "no such task", http.StatusNotFound)
    }))
    defer srv.Close()

    _, err := testClient(srv.URL).Task(context.Background(), "t-x")
    if err == nil || !IsNotFound(err) { t.Fatalf("expected not-found error, got %v", err) }
    if calls != 1 { t.Fatalf("4xx retried: %d calls", calls) }
}

func TestGetByID_UnwrapsDataEnvelope(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/projects/p1" { t.Fatalf("unexpected path %s", r.URL.Path) }
        json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "p1", "name": "Atlas"}})
    }))
    defer srv.Close()

    p, err := testClient(srv.URL).Project(context.Background(), "p1")
    if err != nil { t.Fatalf("Project: %v", err) }
    if p.ID != "p1" || p.Name != "Atlas" { t.Fatalf("got %#v", p) }
}

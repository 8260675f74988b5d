/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package sprintsync

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/rs/zerolog"
)

// Client talks to the SprintSync REST backend. Read-only: list endpoints with
// page/size pagination, "all" bulk variants, and GET-by-id per entity kind.
type Client struct {
    baseURL  string
    token    string
    user     string
    pass     string
    pageSize int
    http     *http.Client
    log      zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    size := cfg.PageSize
    if size <= 0 { size = 50 }
    return &Client{
        baseURL:  cfg.APIBaseURL,
        token:    cfg.APIToken,
        user:     cfg.APIUsername,
        pass:     cfg.APIPassword,
        pageSize: size,
        http:     &http.Client{ Timeout: cfg.HTTPTimeout },
        log:      log,
    }
}

// apiError carries the status code so callers can distinguish a missing bulk
// endpoint (404 -> fall back to pagination) from a real failure.
type apiError struct {
    status int
    body   string
}

func (e *apiError) Error() string {
    return fmt.Sprintf("sprintsync api status=%d body=%s", e.status, e.body)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
    var ae *apiError
    return errors.As(err, &ae) && ae.status == http.StatusNotFound
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) doJSON(ctx context.Context, u string) (any, error) {
    if c.baseURL == "" { return nil, errors.New("sprintsync: empty baseURL") }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
        if err != nil { return nil, err }
        if c.token != "" {
            req.Header.Set("Authorization", "Bearer "+c.token)
        } else if c.user != "" && c.pass != "" {
            req.SetBasicAuth(c.user, c.pass)
        }
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            b, rerr := io.ReadAll(resp.Body)
            resp.Body.Close()
            if rerr != nil {
                lastErr = rerr
            } else if resp.StatusCode >= 300 {
                ae := &apiError{status: resp.StatusCode, body: strings.TrimSpace(string(b))}
                // retry on 429/5xx only
                if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
                    lastErr = ae
                } else {
                    return nil, ae
                }
            } else {
                var out any
                if err := json.Unmarshal(b, &out); err != nil { return nil, err }
                return out, nil
            }
        }
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return nil, lastErr
}

// extractList unwraps the backend's pagination envelopes: a bare array,
// {content:[...]} or {data:[...]}.
func extractList(v any) []map[string]any {
    var arr []any
    switch t := v.(type) {
    case []any:
        arr = t
    case map[string]any:
        if a, ok := t["content"].([]any); ok {
            arr = a
        } else if a, ok := t["data"].([]any); ok {
            arr = a
        }
    }
    out := make([]map[string]any, 0, len(arr))
    for _, it := range arr {
        if m, _ := it.(map[string]any); m != nil { out = append(out, m) }
    }
    return out
}

func (c *Client) listPaginated(ctx context.Context, path string) ([]map[string]any, error) {
    var out []map[string]any
    page := 0
    for {
        q := url.Values{}
        q.Set("page", fmt.Sprint(page))
        q.Set("size", fmt.Sprint(c.pageSize))
        res, err := c.doJSON(ctx, c.apiURL(path, q))
        if err != nil { return out, err }
        items := extractList(res)
        if len(items) == 0 { break }
        out = append(out, items...)
        if len(items) < c.pageSize { break }
        page++
    }
    return out, nil
}

// listAll prefers the bulk "/all" variant and falls back to paginated fetch
// when the backend does not expose it.
func (c *Client) listAll(ctx context.Context, path string) ([]map[string]any, error) {
    res, err := c.doJSON(ctx, c.apiURL(path+"/all", nil))
    if err == nil { return extractList(res), nil }
    if !IsNotFound(err) { return nil, err }
    c.log.Debug().Str("path", path).Msg("bulk endpoint missing, paginating")
    return c.listPaginated(ctx, path)
}

func (c *Client) getByID(ctx context.Context, path, id string) (map[string]any, error) {
    if id == "" { return nil, errors.New("sprintsync: empty id") }
    res, err := c.doJSON(ctx, c.apiURL(path+"/"+url.PathEscape(id), nil))
    if err != nil { return nil, err }
    m, _ := res.(map[string]any)
    if m == nil { return nil, fmt.Errorf("sprintsync: unexpected payload for %s/%s", path, id) }
    // some endpoints wrap single entities the same way as lists
    if inner, ok := m["data"].(map[string]any); ok { return inner, nil }
    return m, nil
}

func (c *Client) TimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
    items, err := c.listAll(ctx, "/api/time-entries")
    if err != nil { return nil, err }
    out := make([]domain.TimeEntry, 0, len(items))
    for _, m := range items { out = append(out, ParseTimeEntry(m)) }
    return out, nil
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
    items, err := c.listAll(ctx, "/api/users")
    if err != nil { return nil, err }
    out := make([]domain.User, 0, len(items))
    for _, m := range items { out = append(out, ParseUser(m)) }
    return out, nil
}

func (c *Client) Subtasks(ctx context.Context) ([]domain.Subtask, error) {
    items, err := c.listAll(ctx, "/api/subtasks")
    if err != nil { return nil, err }
    out := make([]domain.Subtask, 0, len(items))
    for _, m := range items { out = append(out, ParseSubtask(m)) }
    return out, nil
}

func (c *Client) Task(ctx context.Context, id string) (domain.Task, error) {
    m, err := c.getByID(ctx, "/api/tasks", id)
    if err != nil { return domain.Task{}, err }
    return ParseTask(m), nil
}

func (c *Client) Story(ctx context.Context, id string) (domain.Story, error) {
    m, err := c.getByID(ctx, "/api/stories", id)
    if err != nil { return domain.Story{}, err }
    return ParseStory(m), nil
}

func (c *Client) Project(ctx context.Context, id string) (domain.Project, error) {
    m, err := c.getByID(ctx, "/api/projects", id)
    if err != nil { return domain.Project{}, err }
    return ParseProject(m), nil
}

func (c *Client) Sprint(ctx context.Context, id string) (domain.Sprint, error) {
    m, err := c.getByID(ctx, "/api/sprints", id)
    if err != nil { return domain.Sprint{}, err }
    return ParseSprint(m), nil
}

/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/services"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
    "github.com/gin-gonic/gin"
)

type service interface {
    Rows(ctx context.Context, callerID string, f services.Filters) ([]domain.ResolvedEntry, error)
    Summary(ctx context.Context, callerID string, f services.Filters) (services.Summary, error)
    Breakdowns(ctx context.Context, callerID string, f services.Filters) (services.Breakdowns, error)
    Refresh(ctx context.Context) error
    SyncState() store.SyncState
}

type Handlers struct {
    cfg config.Config
    svc service
}

func NewHandlers(cfg config.Config, svc service) *Handlers {
    return &Handlers{cfg: cfg, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// callerID comes from the query param or the X-User-ID header the dashboard
// shell sets after login.
func callerID(c *gin.Context) string {
    if u := strings.TrimSpace(c.Query("user")); u != "" { return u }
    return strings.TrimSpace(c.GetHeader("X-User-ID"))
}

func parseFilters(c *gin.Context) services.Filters {
    f := services.Filters{
        ProjectID: c.Query("project"),
        SprintID:  c.Query("sprint"),
        UserID:    c.Query("member"),
        Category:  c.Query("type"),
        Range:     c.Query("range"),
    }
    if v := c.Query("billable"); v != "" {
        if b, err := strconv.ParseBool(v); err == nil { f.Billable = &b }
    }
    if v := c.Query("from"); v != "" {
        if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil { f.From = &t }
    }
    if v := c.Query("to"); v != "" {
        if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil { f.To = &t }
    }
    return f
}

func writeErr(c *gin.Context, err error) {
    if errors.Is(err, services.ErrNotSynced) {
        c.JSON(http.StatusBadGateway, gin.H{"error": services.ErrNotSynced.Error()})
        return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handlers) Entries(c *gin.Context) {
    caller := callerID(c)
    if caller == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
        return
    }
    rows, err := h.svc.Rows(c.Request.Context(), caller, parseFilters(c))
    if err != nil { writeErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *Handlers) Summary(c *gin.Context) {
    caller := callerID(c)
    if caller == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
        return
    }
    sum, err := h.svc.Summary(c.Request.Context(), caller, parseFilters(c))
    if err != nil { writeErr(c, err); return }
    c.JSON(http.StatusOK, sum)
}

func (h *Handlers) Breakdowns(c *gin.Context) {
    caller := callerID(c)
    if caller == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
        return
    }
    b, err := h.svc.Breakdowns(c.Request.Context(), caller, parseFilters(c))
    if err != nil { writeErr(c, err); return }
    c.JSON(http.StatusOK, b)
}

func (h *Handlers) LastSync(c *gin.Context) {
    c.JSON(http.StatusOK, h.svc.SyncState())
}

func (h *Handlers) RefreshNow(c *gin.Context) {
    // detach from the request context so a closed connection cannot cancel
    // the refetch
    go func() { _ = h.svc.Refresh(context.Background()) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

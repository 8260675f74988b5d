/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, h *Handlers) *gin.Engine {
    if cfg.AppEnv == "prod" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        start := time.Now()
        c.Next()
        log.Info().
            Str("m", c.Request.Method).
            Str("path", c.FullPath()).
            Int("status", c.Writer.Status()).
            Dur("took", time.Since(start)).
            Msg("http")
    })

    r.GET("/healthz", h.Healthz)

    api := r.Group("/api")
    {
        api.GET("/time-entries", h.Entries)
        api.GET("/time-entries/summary", h.Summary)
        api.GET("/time-entries/breakdowns", h.Breakdowns)
    }

    admin := r.Group("/admin")
    {
        admin.GET("/last-sync", h.LastSync)
        admin.POST("/refresh", h.RefreshNow)
    }

    return r
}

/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/adapters/sprintsync"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    apphttp "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/http"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/jobs"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/logger"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/services"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)

    // Adapters
    api := sprintsync.NewClient(cfg, log)

    // Session + service
    session := store.NewSession()
    svc := services.New(cfg, log, api, session)

    if cfg.SyncOnStart {
        ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout+time.Minute)
        if err := svc.Refresh(ctx); err != nil {
            log.Error().Err(err).Msg("initial sync failed; serving stale-empty until next tick")
        }
        cancel()
    }

    // HTTP server (Gin)
    handlers := apphttp.NewHandlers(cfg, svc)
    router := apphttp.NewRouter(cfg, log, handlers)

    // Cron
    sched, err := jobs.NewScheduler(cfg, log, svc)
    if err != nil { log.Fatal().Err(err).Msg("cron init failed") }
    sched.Start()
    defer sched.Stop()

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}

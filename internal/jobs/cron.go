/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jobs

import (
    "context"
    "sync"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface {
    Refresh(ctx context.Context) error
}

type Scheduler struct {
    cfg  config.Config
    log  zerolog.Logger
    svc  service
    cron *cron.Cron

    mu sync.Mutex // one refresh at a time
}

func NewScheduler(cfg config.Config, log zerolog.Logger, svc service) (*Scheduler, error) {
    loc, err := time.LoadLocation(cfg.TZ)
    if err != nil { return nil, err }
    s := &Scheduler{cfg: cfg, log: log, svc: svc}
    s.cron = cron.New(
        cron.WithLocation(loc),
        cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
    )
    if _, err := s.cron.AddFunc(cfg.SyncCron, s.runRefresh); err != nil { return nil, err }
    return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() {
    ctx := s.cron.Stop()
    <-ctx.Done()
}

func (s *Scheduler) runRefresh() {
    if !s.mu.TryLock() {
        s.log.Warn().Msg("refresh already running, skipping tick")
        return
    }
    defer s.mu.Unlock()

    ctx, cancel := context.WithTimeout(context.Background(), 2*s.cfg.HTTPTimeout+time.Minute)
    defer cancel()

    start := time.Now()
    if err := s.svc.Refresh(ctx); err != nil {
        s.log.Error().Err(err).Msg("scheduled refresh failed")
        return
    }
    s.log.Info().Dur("took", time.Since(start)).Msg("scheduled refresh done")
}

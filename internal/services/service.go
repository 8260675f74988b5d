/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "errors"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/config"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
    "github.com/rs/zerolog"
)

// Backend is what the pipeline needs from the SprintSync REST API.
type Backend interface {
    TimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
    Users(ctx context.Context) ([]domain.User, error)
    Subtasks(ctx context.Context) ([]domain.Subtask, error)
    Task(ctx context.Context, id string) (domain.Task, error)
    Story(ctx context.Context, id string) (domain.Story, error)
    Project(ctx context.Context, id string) (domain.Project, error)
    Sprint(ctx context.Context, id string) (domain.Sprint, error)
}

// ErrNotSynced is returned by the read paths while no refresh has ever
// succeeded; it maps to the dashboard's "failed to fetch time entries" banner.
var ErrNotSynced = errors.New("failed to fetch time entries")

type Service struct {
    cfg     config.Config
    log     zerolog.Logger
    api     Backend
    session *store.Session
}

func New(cfg config.Config, log zerolog.Logger, api Backend, session *store.Session) *Service {
    return &Service{cfg: cfg, log: log, api: api, session: session}
}

// Refresh refetches the raw time-entry set plus the users and subtask index,
// and runs a backfill pass when the entry set's content actually changed.
// Idempotent; overlapping refreshes only ever merge, so a stale pass landing
// late cannot corrupt anything.
func (s *Service) Refresh(ctx context.Context) error {
    started := time.Now()
    entries, err := s.api.TimeEntries(ctx)
    if err != nil {
        s.log.Error().Err(err).Msg("time entry fetch failed")
        s.session.SetSyncResult(err)
        return err
    }

    // secondary collections: failures are logged, never fatal
    if users, err := s.api.Users(ctx); err != nil {
        s.log.Error().Err(err).Msg("user fetch failed")
    } else {
        s.session.MergeUsers(users)
    }
    if subtasks, err := s.api.Subtasks(ctx); err != nil {
        s.log.Error().Err(err).Msg("subtask fetch failed")
    } else {
        s.session.MergeSubtasks(subtasks)
    }

    if s.session.SetEntries(entries) {
        s.resolvePass(ctx)
    }
    s.session.SetSyncResult(nil)
    s.log.Info().Int("entries", len(entries)).Dur("took", time.Since(started)).Msg("sync done")
    return nil
}

func (s *Service) caller(snap store.Snapshot, callerID string) domain.User {
    for _, u := range snap.Users {
        if u.ID == callerID { return u }
    }
    // unknown callers get the narrowest view: their own entries only
    return domain.User{ID: callerID}
}

func (s *Service) rows(callerID string, f Filters) ([]domain.ResolvedEntry, error) {
    st := s.session.SyncState()
    if !st.Ready {
        if st.LastError != "" { s.log.Warn().Str("err", st.LastError).Msg("serving before first successful sync") }
        return nil, ErrNotSynced
    }
    snap := s.session.Snapshot()
    rows := Reconcile(snap, s.caller(snap, callerID))
    return f.Apply(rows, time.Now()), nil
}

// Rows returns the reconciled, access-filtered, aggregated entries for one
// caller under the given filter state.
func (s *Service) Rows(ctx context.Context, callerID string, f Filters) ([]domain.ResolvedEntry, error) {
    return s.rows(callerID, f)
}

func (s *Service) Summary(ctx context.Context, callerID string, f Filters) (Summary, error) {
    rows, err := s.rows(callerID, f)
    if err != nil { return Summary{}, err }
    return Summarize(rows), nil
}

func (s *Service) Breakdowns(ctx context.Context, callerID string, f Filters) (Breakdowns, error) {
    rows, err := s.rows(callerID, f)
    if err != nil { return Breakdowns{}, err }
    return BreakDown(rows), nil
}

func (s *Service) SyncState() store.SyncState {
    return s.session.SyncState()
}

package services

import (
    "context"
    "sort"
    "sync"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
)

func sortedIDs(set map[string]struct{}) []string {
    out := make([]string, 0, len(set))
    for id := range set {
        if id != "" { out = append(out, id) }
    }
    sort.Strings(out)
    return out
}

// fetchEach fans out one GET per id over a bounded worker pool. A failed id
// is logged and skipped: it was already claimed in the session's attempted
// set, so it stays unresolved for the rest of the session and never blocks
// its siblings.
func fetchEach[T any](ctx context.Context, s *Service, kind string, ids []string, get func(context.Context, string) (T, error)) []T {
    if len(ids) == 0 { return nil }
    workers := s.cfg.WorkersBackfill
    if workers <= 0 { workers = 6 }
    if workers > len(ids) { workers = len(ids) }

    jobs := make(chan string)
    var mu sync.Mutex
    var out []T
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for id := range jobs {
                v, err := get(ctx, id)
                if err != nil {
                    s.log.Error().Err(err).Str("kind", kind).Str("id", id).Msg("backfill fetch failed")
                    continue
                }
                mu.Lock()
                out = append(out, v)
                mu.Unlock()
            }
        }()
    }
    for _, id := range ids { jobs <- id }
    close(jobs)
    wg.Wait()
    return out
}

// resolvePass backfills entities referenced by the current raw entry set but
// not yet known: tasks first, then stories seeded by entries and the fetched
// tasks, then projects and sprints seeded by entries and stories. One pass,
// one merge per entity kind; entities only reachable through what this pass
// fetched are chased exactly one level (task -> story -> project/sprint),
// never to fixpoint.
func (s *Service) resolvePass(ctx context.Context) {
    snap := s.session.Snapshot()

    subIdx := map[string]string{}
    for _, st := range snap.Subtasks {
        if st.ID != "" && st.TaskID != "" { subIdx[st.ID] = st.TaskID }
    }

    // tasks
    taskIDs := map[string]struct{}{}
    for _, e := range snap.Entries {
        if e.TaskID != "" {
            taskIDs[e.TaskID] = struct{}{}
        } else if e.SubtaskID != "" {
            if parent := subIdx[e.SubtaskID]; parent != "" { taskIDs[parent] = struct{}{} }
        }
    }
    missing := s.session.Claim(store.KindTask, sortedIDs(taskIDs))
    fetchedTasks := fetchEach(ctx, s, "task", missing, s.api.Task)
    s.session.MergeTasks(fetchedTasks)

    // stories: seeded by entries plus every known or newly fetched task
    storyIDs := map[string]struct{}{}
    for _, e := range snap.Entries {
        if e.StoryID != "" { storyIDs[e.StoryID] = struct{}{} }
    }
    for _, t := range snap.Tasks {
        if t.StoryID != "" { storyIDs[t.StoryID] = struct{}{} }
    }
    for _, t := range fetchedTasks {
        if t.StoryID != "" { storyIDs[t.StoryID] = struct{}{} }
    }
    missing = s.session.Claim(store.KindStory, sortedIDs(storyIDs))
    fetchedStories := fetchEach(ctx, s, "story", missing, s.api.Story)
    s.session.MergeStories(fetchedStories)

    stories := append(append([]domain.Story(nil), snap.Stories...), fetchedStories...)

    // projects
    projectIDs := map[string]struct{}{}
    for _, e := range snap.Entries {
        if e.ProjectID != "" { projectIDs[e.ProjectID] = struct{}{} }
    }
    for _, st := range stories {
        if st.ProjectID != "" { projectIDs[st.ProjectID] = struct{}{} }
    }
    missing = s.session.Claim(store.KindProject, sortedIDs(projectIDs))
    s.session.MergeProjects(fetchEach(ctx, s, "project", missing, s.api.Project))

    // sprints
    sprintIDs := map[string]struct{}{}
    for _, e := range snap.Entries {
        if e.SprintID != "" { sprintIDs[e.SprintID] = struct{}{} }
    }
    for _, st := range stories {
        if st.SprintID != "" { sprintIDs[st.SprintID] = struct{}{} }
    }
    missing = s.session.Claim(store.KindSprint, sortedIDs(sprintIDs))
    s.session.MergeSprints(fetchEach(ctx, s, "sprint", missing, s.api.Sprint))
}

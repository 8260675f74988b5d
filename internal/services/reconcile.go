/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "fmt"
    "math"
    "strings"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/store"
)

// indexes are lookup views over one snapshot, built once per reconciliation.
type indexes struct {
    tasks            map[string]domain.Task
    subtaskToTask    map[string]string
    stories          map[string]domain.Story
    projects         map[string]domain.Project
    sprints          map[string]domain.Sprint
    sprintsByProject map[string][]domain.Sprint
    users            map[string]domain.User
}

func buildIndexes(snap store.Snapshot) indexes {
    idx := indexes{
        tasks:            make(map[string]domain.Task, len(snap.Tasks)),
        subtaskToTask:    make(map[string]string, len(snap.Subtasks)),
        stories:          make(map[string]domain.Story, len(snap.Stories)),
        projects:         make(map[string]domain.Project, len(snap.Projects)),
        sprints:          make(map[string]domain.Sprint, len(snap.Sprints)),
        sprintsByProject: map[string][]domain.Sprint{},
        users:            make(map[string]domain.User, len(snap.Users)),
    }
    for _, t := range snap.Tasks { idx.tasks[t.ID] = t }
    for _, st := range snap.Subtasks {
        if st.ID != "" && st.TaskID != "" { idx.subtaskToTask[st.ID] = st.TaskID }
    }
    for _, st := range snap.Stories { idx.stories[st.ID] = st }
    for _, p := range snap.Projects { idx.projects[p.ID] = p }
    for _, sp := range snap.Sprints {
        idx.sprints[sp.ID] = sp
        if sp.ProjectID != "" {
            idx.sprintsByProject[sp.ProjectID] = append(idx.sprintsByProject[sp.ProjectID], sp)
        }
    }
    for _, u := range snap.Users { idx.users[u.ID] = u }
    return idx
}

// effectiveTaskID resolves subtask entries to their parent task. An entry
// carrying only a subtaskId maps through the subtask index; otherwise the
// entry's own taskId wins.
func effectiveTaskID(e domain.TimeEntry, idx indexes) string {
    if e.TaskID == "" && e.SubtaskID != "" {
        return idx.subtaskToTask[e.SubtaskID]
    }
    return e.TaskID
}

func (idx indexes) entryProjectID(e domain.TimeEntry) string {
    if e.ProjectID != "" { return e.ProjectID }
    storyID := e.StoryID
    if storyID == "" {
        if t, ok := idx.tasks[effectiveTaskID(e, idx)]; ok { storyID = t.StoryID }
    }
    if st, ok := idx.stories[storyID]; ok { return st.ProjectID }
    return ""
}

// AccessibleProjects returns the ids of projects reachable by the user:
// projects the user manages, created, or is a team member of.
func AccessibleProjects(u domain.User, projects []domain.Project) map[string]struct{} {
    out := map[string]struct{}{}
    for _, p := range projects {
        if p.ManagerID == u.ID || p.CreatedBy == u.ID {
            out[p.ID] = struct{}{}
            continue
        }
        for _, m := range p.MemberIDs {
            if m == u.ID { out[p.ID] = struct{}{}; break }
        }
    }
    return out
}

// filterByAccess narrows the raw entry set before reconciliation. Managers
// and admins see every entry in a project they can reach; everyone else sees
// only entries they logged themselves.
func filterByAccess(entries []domain.TimeEntry, caller domain.User, idx indexes, projects []domain.Project) []domain.TimeEntry {
    if !domain.IsManagerLike(caller.Role) {
        out := make([]domain.TimeEntry, 0, len(entries))
        for _, e := range entries {
            if e.UserID == caller.ID { out = append(out, e) }
        }
        return out
    }
    accessible := AccessibleProjects(caller, projects)
    out := make([]domain.TimeEntry, 0, len(entries))
    for _, e := range entries {
        if _, ok := accessible[idx.entryProjectID(e)]; ok { out = append(out, e) }
    }
    return out
}

// dedupeEntries collapses entries sharing a dedup key, first occurrence wins.
func dedupeEntries(entries []domain.TimeEntry) []domain.TimeEntry {
    seen := map[string]struct{}{}
    out := make([]domain.TimeEntry, 0, len(entries))
    for _, e := range entries {
        k := e.DedupKey()
        if _, ok := seen[k]; ok { continue }
        seen[k] = struct{}{}
        out = append(out, e)
    }
    return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// formatHours renders decimal hours as "2h 30m" for display.
func formatHours(h float64) string {
    total := int(math.Round(h * 60))
    if total < 0 { total = 0 }
    return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// resolveEntry maps one raw entry to its display row. Returns false when the
// entry has no resolvable task, in which case it is excluded from output and
// totals entirely.
func resolveEntry(e domain.TimeEntry, idx indexes) (domain.ResolvedEntry, bool) {
    taskID := effectiveTaskID(e, idx)
    if taskID == "" { return domain.ResolvedEntry{}, false }

    task, taskKnown := idx.tasks[taskID]

    storyID := e.StoryID
    if storyID == "" && taskKnown { storyID = task.StoryID }
    story, storyKnown := idx.stories[storyID]

    projectID := e.ProjectID
    if projectID == "" && storyKnown { projectID = story.ProjectID }
    project, projectKnown := idx.projects[projectID]

    // sprint: entry's own reference, then story's, then the active or first
    // sprint of the resolved project
    sprintID := e.SprintID
    sprintName := e.SprintName
    if sprintID == "" && storyKnown { sprintID = story.SprintID }
    if sprintID == "" && projectID != "" {
        candidates := idx.sprintsByProject[projectID]
        for _, sp := range candidates {
            if strings.EqualFold(sp.Status, "active") { sprintID = sp.ID; break }
        }
        if sprintID == "" && len(candidates) > 0 { sprintID = candidates[0].ID }
    }
    if sp, ok := idx.sprints[sprintID]; ok && sp.Name != "" { sprintName = sp.Name }

    // the task's assignee, not the logging user, is the identity shown in
    // team views; the logging user's name is the fallback
    displayName := ""
    if u, ok := idx.users[e.UserID]; ok { displayName = u.Name }
    assigneeID := ""
    if taskKnown && task.AssigneeID != "" {
        assigneeID = task.AssigneeID
        if u, ok := idx.users[assigneeID]; ok && u.Name != "" { displayName = u.Name }
    }

    var est, actual float64
    if taskKnown && task.EstimatedHours != nil {
        est = *task.EstimatedHours
        if task.ActualHours != nil { actual = *task.ActualHours }
    } else if storyKnown && story.EstimatedHours != nil {
        est = *story.EstimatedHours
        if story.ActualHours != nil { actual = *story.ActualHours }
    }
    remaining := est - actual
    if remaining < 0 { remaining = 0 }

    row := domain.ResolvedEntry{
        Key:            e.DedupKey(),
        EntryID:        e.ID,
        UserID:         e.UserID,
        UserName:       displayName,
        AssigneeID:     assigneeID,
        TaskID:         taskID,
        TaskTitle:      task.Title,
        TaskStatus:     task.Status,
        Status:         domain.CoarseStatus(task.Status),
        StoryID:        storyID,
        ProjectID:      projectID,
        SprintID:       sprintID,
        SprintName:     sprintName,
        WorkDate:       e.WorkDate,
        StartTime:      e.StartTime,
        EndTime:        e.EndTime,
        HoursWorked:    e.HoursWorked,
        Duration:       formatHours(e.HoursWorked),
        Category:       domain.NormalizeCategory(e.Category),
        Billable:       e.Billable,
        Description:    strings.TrimSpace(e.Description),
        EstimatedHours: est,
        RemainingHours: remaining,
    }
    if projectKnown { row.ProjectName = project.Name }
    return row, true
}

// aggregateByTask collapses all rows sharing an effective task into one
// summary row: summed hours, distinct descriptions joined, remaining display
// fields from the first member of the group.
func aggregateByTask(rows []domain.ResolvedEntry) []domain.ResolvedEntry {
    byTask := map[string]int{}
    out := make([]domain.ResolvedEntry, 0, len(rows))
    descs := map[string][]string{}
    for _, r := range rows {
        i, ok := byTask[r.TaskID]
        if !ok {
            byTask[r.TaskID] = len(out)
            out = append(out, r)
            if r.Description != "" { descs[r.TaskID] = []string{r.Description} }
            continue
        }
        out[i].HoursWorked += r.HoursWorked
        if r.Description != "" {
            dup := false
            for _, d := range descs[r.TaskID] {
                if d == r.Description { dup = true; break }
            }
            if !dup { descs[r.TaskID] = append(descs[r.TaskID], r.Description) }
        }
    }
    for i := range out {
        out[i].HoursWorked = round2(out[i].HoursWorked)
        out[i].Duration = formatHours(out[i].HoursWorked)
        if ds := descs[out[i].TaskID]; len(ds) > 0 {
            out[i].Description = strings.Join(ds, "; ")
        }
    }
    return out
}

// Reconcile runs the full pipeline over one snapshot for one caller:
// dedup -> access filter -> per-entry resolution -> aggregation by task.
// Pure: same snapshot and caller always produce the same rows, and the
// snapshot is never mutated.
func Reconcile(snap store.Snapshot, caller domain.User) []domain.ResolvedEntry {
    idx := buildIndexes(snap)
    entries := dedupeEntries(snap.Entries)
    entries = filterByAccess(entries, caller, idx, snap.Projects)
    resolved := make([]domain.ResolvedEntry, 0, len(entries))
    for _, e := range entries {
        if row, ok := resolveEntry(e, idx); ok { resolved = append(resolved, row) }
    }
    return aggregateByTask(resolved)
}

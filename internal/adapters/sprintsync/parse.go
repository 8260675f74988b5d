package sprintsync

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
)

// The backend is not consistent about field names or shapes: ids come as
// numbers, strings or nested objects; the same field may be projectId,
// projectID or project.id depending on the endpoint. All shape tolerance
// lives here so the pipeline only ever sees normalized records.

func toStrAny(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}

// idAny normalizes an id-like value, unwrapping {id: ...} reference objects.
func idAny(v any) string {
    if m, ok := v.(map[string]any); ok {
        if id, ok := m["id"]; ok { return domain.NormalizeID(id) }
        return ""
    }
    return domain.NormalizeID(v)
}

// firstID returns the first non-empty id among the given keys.
func firstID(m map[string]any, keys ...string) string {
    for _, k := range keys {
        if v, ok := m[k]; ok {
            if id := idAny(v); id != "" { return id }
        }
    }
    return ""
}

func firstStr(m map[string]any, keys ...string) string {
    for _, k := range keys {
        if v, ok := m[k]; ok {
            if s := strings.TrimSpace(toStrAny(v)); s != "" { return s }
        }
    }
    return ""
}

func numAny(v any) float64 {
    switch t := v.(type) {
    case float64:
        return t
    case int:
        return float64(t)
    case int64:
        return float64(t)
    case string:
        f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
        if err == nil { return f }
    }
    return 0
}

func firstNum(m map[string]any, keys ...string) float64 {
    for _, k := range keys {
        if v, ok := m[k]; ok && v != nil { return numAny(v) }
    }
    return 0
}

func numPtr(m map[string]any, keys ...string) *float64 {
    for _, k := range keys {
        if v, ok := m[k]; ok && v != nil {
            f := numAny(v)
            return &f
        }
    }
    return nil
}

func boolAny(v any) bool {
    switch t := v.(type) {
    case bool:
        return t
    case string:
        b, err := strconv.ParseBool(strings.TrimSpace(t))
        return err == nil && b
    case float64:
        return t != 0
    }
    return false
}

func firstBool(m map[string]any, keys ...string) bool {
    for _, k := range keys {
        if v, ok := m[k]; ok && v != nil { return boolAny(v) }
    }
    return false
}

// nestedName digs a display name out of a reference object under any of keys.
func nestedName(m map[string]any, keys ...string) string {
    for _, k := range keys {
        if obj, ok := m[k].(map[string]any); ok {
            if n := firstStr(obj, "name", "title"); n != "" { return n }
        }
    }
    return ""
}

func ParseTimeEntry(m map[string]any) domain.TimeEntry {
    e := domain.TimeEntry{
        ID:          firstID(m, "id", "entryId", "timeEntryId"),
        UserID:      firstID(m, "userId", "userID", "user"),
        TaskID:      firstID(m, "taskId", "taskID", "task"),
        SubtaskID:   firstID(m, "subtaskId", "subTaskId", "subtask"),
        StoryID:     firstID(m, "storyId", "storyID", "story"),
        ProjectID:   firstID(m, "projectId", "projectID", "project"),
        SprintID:    firstID(m, "sprintId", "sprintID", "sprint"),
        WorkDate:    firstStr(m, "workDate", "date", "workedDate", "entryDate"),
        StartTime:   firstStr(m, "startTime", "start"),
        EndTime:     firstStr(m, "endTime", "end"),
        HoursWorked: firstNum(m, "hoursWorked", "hours", "hoursSpent", "duration"),
        Category:    firstStr(m, "category", "entryType", "workType", "type"),
        Billable:    firstBool(m, "isBillable", "billable"),
        Description: firstStr(m, "description", "notes", "comment"),
    }
    e.SprintName = firstStr(m, "sprintName")
    if e.SprintName == "" { e.SprintName = nestedName(m, "sprint") }
    return e
}

func ParseTask(m map[string]any) domain.Task {
    return domain.Task{
        ID:             firstID(m, "id", "taskId"),
        Title:          firstStr(m, "title", "name", "taskName"),
        StoryID:        firstID(m, "storyId", "storyID", "story"),
        AssigneeID:     firstID(m, "assigneeId", "assignedTo", "assignee"),
        Status:         firstStr(m, "status", "taskStatus"),
        EstimatedHours: numPtr(m, "estimatedHours", "estimate"),
        ActualHours:    numPtr(m, "actualHours", "loggedHours"),
    }
}

func ParseSubtask(m map[string]any) domain.Subtask {
    return domain.Subtask{
        ID:     firstID(m, "id", "subtaskId"),
        TaskID: firstID(m, "taskId", "parentTaskId", "task"),
    }
}

func ParseStory(m map[string]any) domain.Story {
    return domain.Story{
        ID:             firstID(m, "id", "storyId"),
        Title:          firstStr(m, "title", "name", "storyName"),
        ProjectID:      firstID(m, "projectId", "projectID", "project"),
        SprintID:       firstID(m, "sprintId", "sprintID", "sprint"),
        EstimatedHours: numPtr(m, "estimatedHours", "estimate"),
        ActualHours:    numPtr(m, "actualHours", "loggedHours"),
    }
}

func ParseProject(m map[string]any) domain.Project {
    p := domain.Project{
        ID:        firstID(m, "id", "projectId"),
        Name:      firstStr(m, "name", "projectName", "title"),
        ManagerID: firstID(m, "managerId", "manager", "projectManagerId"),
        CreatedBy: firstID(m, "createdBy", "creatorId"),
        Status:    firstStr(m, "status"),
    }
    for _, k := range []string{"teamMembers", "members", "team"} {
        arr, ok := m[k].([]any)
        if !ok { continue }
        for _, it := range arr {
            if id := idAny(it); id != "" { p.MemberIDs = append(p.MemberIDs, id) }
        }
        break
    }
    return p
}

func ParseSprint(m map[string]any) domain.Sprint {
    return domain.Sprint{
        ID:        firstID(m, "id", "sprintId"),
        Name:      firstStr(m, "name", "sprintName", "title"),
        ProjectID: firstID(m, "projectId", "projectID", "project"),
        Status:    firstStr(m, "status"),
    }
}

func ParseUser(m map[string]any) domain.User {
    return domain.User{
        ID:   firstID(m, "id", "userId"),
        Name: firstStr(m, "name", "fullName", "displayName", "username"),
        Role: firstStr(m, "role", "userRole"),
    }
}

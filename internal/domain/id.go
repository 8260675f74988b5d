package domain

import (
    "fmt"
    "math"
    "strconv"
    "strings"
)

// NormalizeID converts the heterogeneous identifier shapes the backend emits
// (JSON numbers, strings, ints) to one canonical string form. The empty string
// stands for "no id". Total and idempotent.
func NormalizeID(v any) string {
    switch t := v.(type) {
    case nil:
        return ""
    case string:
        return t
    case float64:
        // numeric ids arrive as float64 from encoding/json
        if t == math.Trunc(t) && !math.IsInf(t, 0) {
            return strconv.FormatInt(int64(t), 10)
        }
        return strconv.FormatFloat(t, 'f', -1, 64)
    case float32:
        return NormalizeID(float64(t))
    case int:
        return strconv.Itoa(t)
    case int64:
        return strconv.FormatInt(t, 10)
    default:
        return fmt.Sprintf("%v", v)
    }
}

const dedupDescriptionCap = 40

// DedupKey returns the entry's stable id when present, otherwise a
// deterministic composite over the fields that identify a logged record.
// Entries producing the same key are the same record.
func (e TimeEntry) DedupKey() string {
    if e.ID != "" { return e.ID }
    desc := e.Description
    if len(desc) > dedupDescriptionCap { desc = desc[:dedupDescriptionCap] }
    parts := []string{
        e.UserID,
        e.TaskID,
        e.ProjectID,
        e.StoryID,
        e.WorkDate,
        e.StartTime,
        e.EndTime,
        strconv.FormatFloat(e.HoursWorked, 'f', -1, 64),
        e.Category,
        desc,
    }
    return strings.Join(parts, "|")
}

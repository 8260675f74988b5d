package services

import (
    "sort"
    "strings"
    "time"

    "github.com/JavaProjectConsultancies/SprintSync-App-sub002/internal/domain"
)

// Range names understood by the dashboard filters.
const (
    RangeAllTime   = "all-time"
    RangeThisWeek  = "this-week"
    RangeLastWeek  = "last-week"
    RangeThisMonth = "this-month"
    RangeLastMonth = "last-month"
    RangeCustom    = "custom"
)

// Filters is the user-selected filter state. Empty fields match everything.
type Filters struct {
    ProjectID string
    SprintID  string
    UserID    string
    Category  string
    Billable  *bool
    Range     string
    From      *time.Time
    To        *time.Time
}

var workDateLayouts = []string{
    "2006-01-02",
    time.RFC3339,
    "2006-01-02T15:04:05",
    "02-01-2006",
}

// parseWorkDate tolerates the date formats the backend has been seen to emit.
// nil means unparseable; such entries match no date range.
func parseWorkDate(s string) *time.Time {
    s = strings.TrimSpace(s)
    if s == "" { return nil }
    for _, l := range workDateLayouts {
        if t, err := time.ParseInLocation(l, s, time.Local); err == nil { return &t }
    }
    return nil
}

func startOfDay(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
    return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// startOfWeek returns Monday 00:00 of the week containing t (ISO week).
func startOfWeek(t time.Time) time.Time {
    weekday := int(t.Weekday())
    if weekday == 0 { weekday = 7 }
    return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}

func startOfMonth(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// dateBounds resolves a range name to inclusive [start, end] boundaries
// relative to now. ok=false means no date constraint (all-time); an invalid
// custom range (missing endpoint) yields empty=true and callers must return
// no rows.
func (f Filters) dateBounds(now time.Time) (start, end time.Time, ok, empty bool) {
    switch f.Range {
    case "", RangeAllTime:
        return time.Time{}, time.Time{}, false, false
    case RangeThisWeek:
        s := startOfWeek(now)
        return s, endOfDay(s.AddDate(0, 0, 6)), true, false
    case RangeLastWeek:
        s := startOfWeek(now).AddDate(0, 0, -7)
        return s, endOfDay(s.AddDate(0, 0, 6)), true, false
    case RangeThisMonth:
        s := startOfMonth(now)
        return s, startOfMonth(now).AddDate(0, 1, 0).Add(-time.Nanosecond), true, false
    case RangeLastMonth:
        s := startOfMonth(now).AddDate(0, -1, 0)
        return s, startOfMonth(now).Add(-time.Nanosecond), true, false
    case RangeCustom:
        if f.From == nil || f.To == nil {
            return time.Time{}, time.Time{}, false, true
        }
        return startOfDay(*f.From), endOfDay(*f.To), true, false
    default:
        return time.Time{}, time.Time{}, false, false
    }
}

// Apply filters rows by equality fields and date range. Pure: rows is never
// mutated and the same rows + filter state + now produce the same output.
func (f Filters) Apply(rows []domain.ResolvedEntry, now time.Time) []domain.ResolvedEntry {
    start, end, bounded, empty := f.dateBounds(now)
    if empty { return []domain.ResolvedEntry{} }
    out := make([]domain.ResolvedEntry, 0, len(rows))
    for _, r := range rows {
        if f.ProjectID != "" && r.ProjectID != f.ProjectID { continue }
        if f.SprintID != "" && r.SprintID != f.SprintID { continue }
        if f.UserID != "" && r.UserID != f.UserID && r.AssigneeID != f.UserID { continue }
        if f.Category != "" && r.Category != domain.NormalizeCategory(f.Category) { continue }
        if f.Billable != nil && r.Billable != *f.Billable { continue }
        if bounded {
            d := parseWorkDate(r.WorkDate)
            if d == nil { continue }
            if d.Before(start) || d.After(end) { continue }
        }
        out = append(out, r)
    }
    return out
}

// Summary is the headline stat block above the dashboard charts.
type Summary struct {
    TotalHours        float64 `json:"totalHours"`
    BillableHours     float64 `json:"billableHours"`
    AllottedHours     float64 `json:"allottedHours"`
    EntryCount        int     `json:"entryCount"`
    ProjectCount      int     `json:"projectCount"`
    MemberCount       int     `json:"memberCount"`
    DayCount          int     `json:"dayCount"`
    DailyAverageHours float64 `json:"dailyAverageHours"`
}

// memberKey is the display identity a row belongs to: the task assignee when
// resolved, the logging user otherwise.
func memberKey(r domain.ResolvedEntry) string {
    if r.AssigneeID != "" { return r.AssigneeID }
    return r.UserID
}

func Summarize(rows []domain.ResolvedEntry) Summary {
    sum := Summary{EntryCount: len(rows)}
    projects := map[string]struct{}{}
    members := map[string]struct{}{}
    days := map[string]struct{}{}
    for _, r := range rows {
        sum.TotalHours += r.HoursWorked
        if r.Billable { sum.BillableHours += r.HoursWorked }
        sum.AllottedHours += r.EstimatedHours
        if r.ProjectID != "" { projects[r.ProjectID] = struct{}{} }
        members[memberKey(r)] = struct{}{}
        if r.WorkDate != "" { days[r.WorkDate] = struct{}{} }
    }
    sum.TotalHours = round2(sum.TotalHours)
    sum.BillableHours = round2(sum.BillableHours)
    sum.AllottedHours = round2(sum.AllottedHours)
    sum.ProjectCount = len(projects)
    sum.MemberCount = len(members)
    sum.DayCount = len(days)
    if sum.DayCount > 0 {
        sum.DailyAverageHours = round2(sum.TotalHours / float64(sum.DayCount))
    }
    return sum
}

type BreakdownItem struct {
    Key     string  `json:"key"`
    Hours   float64 `json:"hours"`
    Entries int     `json:"entries"`
}

type MemberBreakdown struct {
    UserID           string  `json:"userId"`
    Name             string  `json:"name,omitempty"`
    BillableHours    float64 `json:"billableHours"`
    NonBillableHours float64 `json:"nonBillableHours"`
    TotalHours       float64 `json:"totalHours"`
}

type Breakdowns struct {
    ByDay      []BreakdownItem   `json:"byDay"`
    BySprint   []BreakdownItem   `json:"bySprint"`
    ByCategory []BreakdownItem   `json:"byCategory"`
    ByMember   []MemberBreakdown `json:"byMember"`
}

func groupHours(rows []domain.ResolvedEntry, key func(domain.ResolvedEntry) string) []BreakdownItem {
    acc := map[string]*BreakdownItem{}
    var order []string
    for _, r := range rows {
        k := key(r)
        if k == "" { continue }
        it, ok := acc[k]
        if !ok {
            it = &BreakdownItem{Key: k}
            acc[k] = it
            order = append(order, k)
        }
        it.Hours += r.HoursWorked
        it.Entries++
    }
    out := make([]BreakdownItem, 0, len(order))
    for _, k := range order {
        acc[k].Hours = round2(acc[k].Hours)
        out = append(out, *acc[k])
    }
    return out
}

// BreakDown produces the chart-ready groupings for the filtered rows.
func BreakDown(rows []domain.ResolvedEntry) Breakdowns {
    b := Breakdowns{
        ByDay: groupHours(rows, func(r domain.ResolvedEntry) string { return r.WorkDate }),
        BySprint: groupHours(rows, func(r domain.ResolvedEntry) string {
            if r.SprintName != "" { return r.SprintName }
            return r.SprintID
        }),
        ByCategory: groupHours(rows, func(r domain.ResolvedEntry) string { return r.Category }),
    }
    sort.Slice(b.ByDay, func(i, j int) bool { return b.ByDay[i].Key < b.ByDay[j].Key })
    sort.Slice(b.BySprint, func(i, j int) bool { return b.BySprint[i].Hours > b.BySprint[j].Hours })
    sort.Slice(b.ByCategory, func(i, j int) bool { return b.ByCategory[i].Hours > b.ByCategory[j].Hours })

    acc := map[string]*MemberBreakdown{}
    var order []string
    for _, r := range rows {
        k := memberKey(r)
        if k == "" { continue }
        mb, ok := acc[k]
        if !ok {
            mb = &MemberBreakdown{UserID: k, Name: r.UserName}
            acc[k] = mb
            order = append(order, k)
        }
        if r.Billable { mb.BillableHours += r.HoursWorked } else { mb.NonBillableHours += r.HoursWorked }
    }
    for _, k := range order {
        mb := acc[k]
        mb.BillableHours = round2(mb.BillableHours)
        mb.NonBillableHours = round2(mb.NonBillableHours)
        mb.TotalHours = round2(mb.BillableHours + mb.NonBillableHours)
        b.ByMember = append(b.ByMember, *mb)
    }
    sort.Slice(b.ByMember, func(i, j int) bool { return b.ByMember[i].TotalHours > b.ByMember[j].TotalHours })
    return b
}

package domain

// Entity is anything stored in a session collection keyed by normalized id.
type Entity interface {
    EntityID() string
}

// TimeEntry is a raw logged record as returned by the backend. Identifier
// fields are normalized to strings at parse time; WorkDate/StartTime/EndTime
// stay verbatim because the backend is not consistent about formats.
type TimeEntry struct {
    ID          string
    UserID      string
    TaskID      string
    SubtaskID   string
    StoryID     string
    ProjectID   string
    SprintID    string
    SprintName  string
    WorkDate    string
    StartTime   string
    EndTime     string
    HoursWorked float64
    Category    string
    Billable    bool
    Description string
}

func (e TimeEntry) EntityID() string { return e.ID }

type Task struct {
    ID             string
    Title          string
    StoryID        string
    AssigneeID     string
    Status         string
    EstimatedHours *float64
    ActualHours    *float64
}

func (t Task) EntityID() string { return t.ID }

// Subtask is carried only for its id -> parent task mapping.
type Subtask struct {
    ID     string
    TaskID string
}

func (s Subtask) EntityID() string { return s.ID }

type Story struct {
    ID             string
    Title          string
    ProjectID      string
    SprintID       string
    EstimatedHours *float64
    ActualHours    *float64
}

func (s Story) EntityID() string { return s.ID }

type Project struct {
    ID        string
    Name      string
    ManagerID string
    CreatedBy string
    Status    string
    MemberIDs []string
}

func (p Project) EntityID() string { return p.ID }

type Sprint struct {
    ID        string
    Name      string
    ProjectID string
    Status    string
}

func (s Sprint) EntityID() string { return s.ID }

type User struct {
    ID   string
    Name string
    Role string
}

func (u User) EntityID() string { return u.ID }

// ResolvedEntry is a time entry after resolution of its task/story/project/
// sprint context, category normalization and aggregation by task.
type ResolvedEntry struct {
    Key            string  `json:"key"`
    EntryID        string  `json:"entryId,omitempty"`
    UserID         string  `json:"userId"`
    UserName       string  `json:"userName,omitempty"`
    AssigneeID     string  `json:"assigneeId,omitempty"`
    TaskID         string  `json:"taskId"`
    TaskTitle      string  `json:"taskTitle,omitempty"`
    TaskStatus     string  `json:"taskStatus,omitempty"`
    Status         string  `json:"status"`
    StoryID        string  `json:"storyId,omitempty"`
    ProjectID      string  `json:"projectId,omitempty"`
    ProjectName    string  `json:"projectName,omitempty"`
    SprintID       string  `json:"sprintId,omitempty"`
    SprintName     string  `json:"sprintName,omitempty"`
    WorkDate       string  `json:"workDate"`
    StartTime      string  `json:"startTime,omitempty"`
    EndTime        string  `json:"endTime,omitempty"`
    HoursWorked    float64 `json:"hoursWorked"`
    Duration       string  `json:"duration"`
    Category       string  `json:"category"`
    Billable       bool    `json:"billable"`
    Description    string  `json:"description,omitempty"`
    EstimatedHours float64 `json:"estimatedHours"`
    RemainingHours float64 `json:"remainingHours"`
}

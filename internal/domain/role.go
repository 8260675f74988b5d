package domain

import "strings"

// managerRoles are the role strings that grant team-wide visibility.
var managerRoles = map[string]struct{}{
    "manager": {},
    "admin":   {},
}

// IsManagerLike reports whether the role sees entries across accessible
// projects rather than only its own.
func IsManagerLike(role string) bool {
    _, ok := managerRoles[strings.ToLower(strings.TrimSpace(role))]
    return ok
}

// CoarseStatus maps a raw task status to the legacy two-state entry status.
func CoarseStatus(taskStatus string) string {
    switch strings.ToUpper(strings.TrimSpace(taskStatus)) {
    case "DONE", "COMPLETED":
        return "completed"
    default:
        return "active"
    }
}

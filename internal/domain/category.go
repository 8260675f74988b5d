package domain

import "strings"

// Work-type categories the dashboard understands.
const (
    CategoryDevelopment   = "development"
    CategoryDocumentation = "documentation"
    CategoryIdle          = "idle"
    CategoryLearning      = "learning"
    CategoryMeeting       = "meeting"
    CategorySupport       = "support"
    CategoryTesting       = "testing"
    CategoryTraining      = "training"
)

// Categories lists the fixed vocabulary in display order.
var Categories = []string{
    CategoryDevelopment,
    CategoryDocumentation,
    CategoryIdle,
    CategoryLearning,
    CategoryMeeting,
    CategorySupport,
    CategoryTesting,
    CategoryTraining,
}

// categorySynonyms maps collapsed spellings to the canonical vocabulary.
// Keys are lowercased with spaces/hyphens/underscores removed.
var categorySynonyms = map[string]string{
    "development":      CategoryDevelopment,
    "dev":              CategoryDevelopment,
    "coding":           CategoryDevelopment,
    "code":             CategoryDevelopment,
    "codereview":       CategoryDevelopment,
    "implementation":   CategoryDevelopment,
    "programming":      CategoryDevelopment,
    "documentation":    CategoryDocumentation,
    "docs":             CategoryDocumentation,
    "doc":              CategoryDocumentation,
    "idle":             CategoryIdle,
    "bench":            CategoryIdle,
    "learning":         CategoryLearning,
    "study":            CategoryLearning,
    "selflearning":     CategoryLearning,
    "meeting":          CategoryMeeting,
    "meetings":         CategoryMeeting,
    "sync":             CategoryMeeting,
    "standup":          CategoryMeeting,
    "scrum":            CategoryMeeting,
    "call":             CategoryMeeting,
    "support":          CategorySupport,
    "helpdesk":         CategorySupport,
    "maintenance":      CategorySupport,
    "testing":          CategoryTesting,
    "test":             CategoryTesting,
    "qa":               CategoryTesting,
    "qualityassurance": CategoryTesting,
    "training":         CategoryTraining,
    "workshop":         CategoryTraining,
    "onboarding":       CategoryTraining,
}

// NormalizeCategory maps whatever the backend recorded to the fixed
// vocabulary. Case-insensitive; internal whitespace, hyphens and underscores
// collapse before lookup. Unrecognized values default to development.
func NormalizeCategory(raw string) string {
    key := strings.ToLower(strings.TrimSpace(raw))
    key = strings.NewReplacer(" ", "", "-", "", "_", "", "\t", "").Replace(key)
    if c, ok := categorySynonyms[key]; ok { return c }
    return CategoryDevelopment
}

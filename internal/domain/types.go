package domain

import "strings"

// Priority is the Jira priority scale.
type Priority string

const (
    PriorityHighest Priority = "Highest"
    PriorityHigh    Priority = "High"
    PriorityMedium  Priority = "Medium"
    PriorityLow     Priority = "Low"
    PriorityLowest  Priority = "Lowest"
)

// IssueType is the Jira work item type.
type IssueType string

const (
    TypeEpic  IssueType = "Epic"
    TypeStory IssueType = "Story"
    TypeTask  IssueType = "Task"
)

// AcceptanceCriterion is one testable statement attached to an issue.
type AcceptanceCriterion struct {
    Description string
}

// Issue is a unit of work to be created in Jira. Parent and Dependencies
// hold raw free-text references until the resolver assigns real keys.
type Issue struct {
    Title              string
    Description        string
    Type               IssueType
    Priority           Priority
    StoryKey           string
    AcceptanceCriteria []AcceptanceCriterion
    BusinessOutcome    string
    EpicName           string
    Parent             string
    Dependencies       string
    EstimatedEffort    string
    Labels             string
}

// NewIssue returns an Issue with defaults applied: Medium priority and a
// concrete (empty, never nil) acceptance criteria slice.
func NewIssue(title string, typ IssueType) Issue {
    return Issue{
        Title:              title,
        Type:               typ,
        Priority:           PriorityMedium,
        AcceptanceCriteria: []AcceptanceCriterion{},
    }
}

// ParsePriority maps free text to a Priority. Case-insensitive and total:
// anything unrecognized falls back to Medium.
func ParsePriority(s string) Priority {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "highest":
        return PriorityHighest
    case "high":
        return PriorityHigh
    case "medium":
        return PriorityMedium
    case "low":
        return PriorityLow
    case "lowest":
        return PriorityLowest
    default:
        return PriorityMedium
    }
}

// ParseIssueType maps free text to an IssueType, defaulting to Story.
func ParseIssueType(s string) IssueType {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "epic":
        return TypeEpic
    case "story":
        return TypeStory
    case "task":
        return TypeTask
    default:
        return TypeStory
    }
}

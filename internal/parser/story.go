/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

// story-list grammar: "Story: <title>" headers with Parent, user-story
// phrasing, unbulleted acceptance criteria and trailing field lines. The
// user-story buffer keeps its line breaks when committed as the description.

type storyState struct {
    title       string
    parent      string
    userLines   []string
    description string
    criteria    []domain.AcceptanceCriterion
    priority    domain.Priority
    deps        string
    effort      string
    labels      string
}

func isStoryFieldHeader(line string) bool {
    return strings.HasPrefix(line, "Priority:") ||
        strings.HasPrefix(line, "Dependencies:") ||
        strings.HasPrefix(line, "Estimated Effort:") ||
        strings.HasPrefix(line, "Labels:")
}

func parseStoryList(lines []string) []domain.Issue {
    issues := []domain.Issue{}
    var story *storyState
    inCriteria := false

    finalize := func() {
        if story != nil {
            issues = append(issues, finalizeListStory(story))
            story = nil
        }
        inCriteria = false
    }

    for _, raw := range lines {
        line := strings.TrimSpace(raw)
        if line == "" { continue }

        if strings.HasPrefix(line, "Story: ") {
            finalize()
            // The title keeps any bracketed epic prefix verbatim; the
            // resolver deals with it later.
            story = &storyState{
                title:    strings.TrimSpace(strings.TrimPrefix(line, "Story: ")),
                priority: domain.PriorityMedium,
            }
            continue
        }
        if story == nil { continue }

        if strings.HasPrefix(line, "Parent: ") {
            story.parent = strings.TrimSpace(strings.TrimPrefix(line, "Parent: "))
            continue
        }
        if strings.HasPrefix(line, "As a ") || strings.HasPrefix(line, "I want ") || strings.HasPrefix(line, "So that ") {
            story.userLines = append(story.userLines, line)
            continue
        }
        if strings.HasPrefix(line, "Acceptance Criteria:") {
            inCriteria = true
            // The user-story buffer becomes the description, line breaks kept.
            if len(story.userLines) > 0 {
                story.description = strings.Join(story.userLines, "\n")
            }
            continue
        }
        if inCriteria && !isStoryFieldHeader(line) {
            story.criteria = append(story.criteria, domain.AcceptanceCriterion{Description: line})
            continue
        }
        if strings.HasPrefix(line, "Priority:") {
            story.priority = domain.ParsePriority(strings.TrimPrefix(line, "Priority:"))
            inCriteria = false
            continue
        }
        if strings.HasPrefix(line, "Dependencies:") {
            story.deps = strings.TrimSpace(strings.TrimPrefix(line, "Dependencies:"))
            continue
        }
        if strings.HasPrefix(line, "Estimated Effort:") {
            story.effort = strings.TrimSpace(strings.TrimPrefix(line, "Estimated Effort:"))
            continue
        }
        if strings.HasPrefix(line, "Labels:") {
            story.labels = strings.TrimSpace(strings.TrimPrefix(line, "Labels:"))
            continue
        }
    }

    finalize()
    return issues
}

func finalizeListStory(s *storyState) domain.Issue {
    title := s.title
    if title == "" { title = "Untitled Story" }

    is := domain.NewIssue(title, domain.TypeStory)
    is.Description = s.description
    is.Priority = s.priority
    is.Parent = s.parent
    is.Dependencies = s.deps
    is.EstimatedEffort = s.effort
    is.Labels = s.labels
    if len(s.criteria) > 0 {
        is.AcceptanceCriteria = s.criteria
    }
    return is
}

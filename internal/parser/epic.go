/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
    "regexp"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

// epic-block grammar: numbered "Epic N:" and "Story N:" headers with
// labelled sections. Multi-line description and business-outcome runs are
// joined with single spaces.

var (
    epicTitleRe  = regexp.MustCompile(`^Epic \d+:\s*(.*)$`)
    storyTitleRe = regexp.MustCompile(`^Story \d+:\s*(.*)$`)
)

type epicState struct {
    title     string
    epicName  string
    descLines []string
    outcome   string
    priority  domain.Priority
}

type epicStoryState struct {
    title     string
    storyKey  string
    userStory string
    criteria  []domain.AcceptanceCriterion
    priority  domain.Priority
}

func parseEpicBlock(lines []string) []domain.Issue {
    issues := []domain.Issue{}
    var epic *epicState
    var story *epicStoryState
    inDescription := false
    inOutcome := false
    inCriteria := false

    finalize := func() {
        if epic != nil {
            issues = append(issues, finalizeEpic(epic))
            epic = nil
        }
        if story != nil {
            issues = append(issues, finalizeEpicStory(story))
            story = nil
        }
        inDescription, inOutcome, inCriteria = false, false, false
    }

    for _, raw := range lines {
        line := strings.TrimSpace(raw)
        if line == "" { continue }

        if m := epicTitleRe.FindStringSubmatch(line); m != nil {
            finalize()
            epic = &epicState{title: strings.TrimSpace(m[1]), priority: domain.PriorityMedium}
            continue
        }
        if m := storyTitleRe.FindStringSubmatch(line); m != nil {
            finalize()
            story = &epicStoryState{title: strings.TrimSpace(m[1]), priority: domain.PriorityMedium}
            continue
        }
        if strings.HasPrefix(line, "Epic Name:") {
            if epic != nil {
                epic.epicName = strings.TrimSpace(strings.TrimPrefix(line, "Epic Name:"))
            }
            continue
        }
        if strings.HasPrefix(line, "Description:") {
            if epic != nil {
                inDescription, inOutcome = true, false
                epic.descLines = nil
                if seed := strings.TrimSpace(strings.TrimPrefix(line, "Description:")); seed != "" {
                    epic.descLines = []string{seed}
                }
            }
            continue
        }
        if strings.HasPrefix(line, "Business Outcome:") {
            if epic != nil {
                inDescription, inOutcome = false, true
                epic.outcome = strings.TrimSpace(strings.TrimPrefix(line, "Business Outcome:"))
            }
            continue
        }
        if strings.HasPrefix(line, "Priority:") {
            pr := domain.ParsePriority(strings.TrimPrefix(line, "Priority:"))
            if story != nil {
                story.priority = pr
            } else if epic != nil {
                epic.priority = pr
            }
            inDescription, inOutcome = false, false
            continue
        }
        if strings.HasPrefix(line, "Story Key:") {
            if story != nil {
                story.storyKey = strings.TrimSpace(strings.TrimPrefix(line, "Story Key:"))
            }
            continue
        }
        if strings.HasPrefix(line, "As a ") && story != nil {
            story.userStory = line
            continue
        }
        if strings.HasPrefix(line, "Acceptance Criteria:") {
            inCriteria = true
            inDescription, inOutcome = false, false
            continue
        }
        if inCriteria && strings.HasPrefix(line, "*") {
            text := strings.TrimSpace(strings.TrimPrefix(line, "*"))
            if story != nil && text != "" {
                story.criteria = append(story.criteria, domain.AcceptanceCriterion{Description: text})
            }
            continue
        }
        if inDescription && epic != nil {
            epic.descLines = append(epic.descLines, line)
            continue
        }
        if inOutcome && epic != nil {
            if epic.outcome != "" {
                epic.outcome += " " + line
            } else {
                epic.outcome = line
            }
            continue
        }
    }

    finalize()
    return issues
}

func finalizeEpic(e *epicState) domain.Issue {
    // Epic Name wins over the numeric-block title when present.
    title := e.epicName
    if title == "" { title = e.title }
    if title == "" { title = "Untitled Epic" }

    is := domain.NewIssue(title, domain.TypeEpic)
    is.Description = strings.Join(e.descLines, " ")
    is.Priority = e.priority
    is.BusinessOutcome = e.outcome
    is.EpicName = e.epicName
    return is
}

func finalizeEpicStory(s *epicStoryState) domain.Issue {
    title := s.title
    if title == "" { title = "Untitled Story" }

    is := domain.NewIssue(title, domain.TypeStory)
    is.Description = s.userStory
    is.Priority = s.priority
    is.StoryKey = s.storyKey
    if len(s.criteria) > 0 {
        is.AcceptanceCriteria = s.criteria
    }
    return is
}

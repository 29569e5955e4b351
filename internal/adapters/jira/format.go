/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

// FormatDescription renders the issue body sent to Jira: epic name header
// for epics, main description, business outcome, then numbered acceptance
// criteria.
func FormatDescription(issue domain.Issue) string {
    var parts []string

    if issue.Type == domain.TypeEpic && issue.EpicName != "" {
        parts = append(parts, "**Epic Name:** "+issue.EpicName, "")
    }
    parts = append(parts, issue.Description)

    if issue.BusinessOutcome != "" {
        parts = append(parts, "\n**Business Outcome:** "+issue.BusinessOutcome)
    }
    if len(issue.AcceptanceCriteria) > 0 {
        parts = append(parts, "\n**Acceptance Criteria:**")
        for i, ac := range issue.AcceptanceCriteria {
            parts = append(parts, fmt.Sprintf("%d. %s", i+1, ac.Description))
        }
    }
    return strings.Join(parts, "\n")
}

var (
    spacesRe       = regexp.MustCompile(`\s+`)
    invalidLabelRe = regexp.MustCompile(`[^\w-]`)
    multiHyphenRe  = regexp.MustCompile(`-+`)
)

// ParseLabels normalizes a raw label expression into valid Jira labels:
// comma-separated when commas are present, otherwise whitespace-separated;
// spaces become hyphens and anything Jira rejects is stripped.
func ParseLabels(raw string) []string {
    raw = strings.TrimSpace(raw)
    if raw == "" { return nil }

    var pieces []string
    if strings.Contains(raw, ",") {
        pieces = strings.Split(raw, ",")
    } else {
        pieces = spacesRe.Split(raw, -1)
    }

    var labels []string
    for _, p := range pieces {
        label := spacesRe.ReplaceAllString(strings.TrimSpace(p), "-")
        label = invalidLabelRe.ReplaceAllString(label, "")
        label = multiHyphenRe.ReplaceAllString(label, "-")
        label = strings.Trim(label, "-")
        if label != "" { labels = append(labels, label) }
    }
    return labels
}

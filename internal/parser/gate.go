/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

// ShouldFallback reports whether the structured parse of text is too weak to
// trust. It is a coarse quality proxy, not a correctness guarantee: the
// thresholds are tunable policy. Rules are checked in order, first hit wins:
//
//  1. zero issues extracted
//  2. more than 20 non-blank lines but fewer than 3 issues
//  3. more than half of the issues are empty (description under 10
//     characters and no acceptance criteria)
func ShouldFallback(text string, issues []domain.Issue) bool {
    if len(issues) == 0 {
        return true
    }

    nonBlank := 0
    for _, line := range strings.Split(text, "\n") {
        if strings.TrimSpace(line) != "" { nonBlank++ }
    }
    if nonBlank > 20 && len(issues) < 3 {
        return true
    }

    empty := 0
    for _, is := range issues {
        if len(strings.TrimSpace(is.Description)) < 10 && len(is.AcceptanceCriteria) == 0 {
            empty++
        }
    }
    return empty*2 > len(issues)
}

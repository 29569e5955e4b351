package parser

import (
    "strings"
    "testing"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

func solidIssue(title string) domain.Issue {
    is := domain.NewIssue(title, domain.TypeStory)
    is.Description = "a description comfortably past the ten character floor"
    return is
}

func emptyIssue(title string) domain.Issue {
    is := domain.NewIssue(title, domain.TypeStory)
    is.Description = "short"
    return is
}

func TestShouldFallback_ZeroIssues(t *testing.T) {
    if !ShouldFallback("anything", nil) {
        t.Fatal("zero issues must trigger fallback")
    }
}

func TestShouldFallback_LineCountBoundary(t *testing.T) {
    // 25 non-blank lines.
    text := strings.Repeat("a line of content\n", 25)

    two := []domain.Issue{solidIssue("a"), solidIssue("b")}
    if !ShouldFallback(text, two) {
        t.Fatal(">20 lines with <3 issues must trigger fallback")
    }

    three := []domain.Issue{solidIssue("a"), solidIssue("b"), solidIssue("c")}
    if ShouldFallback(text, three) {
        t.Fatal("3 issues clears the boundary, fallback must not trigger")
    }
}

func TestShouldFallback_MostlyEmptyIssues(t *testing.T) {
    mostlyEmpty := []domain.Issue{emptyIssue("a"), emptyIssue("b"), solidIssue("c")}
    if !ShouldFallback("x", mostlyEmpty) {
        t.Fatal("2 of 3 empty issues must trigger fallback")
    }

    // Exactly half empty does not trip the strict majority rule.
    halfEmpty := []domain.Issue{emptyIssue("a"), solidIssue("b")}
    if ShouldFallback("x", halfEmpty) {
        t.Fatal("half empty must not trigger fallback")
    }

    // Criteria rescue an otherwise-empty issue.
    rescued := emptyIssue("a")
    rescued.AcceptanceCriteria = []domain.AcceptanceCriterion{{Description: "it works"}}
    if ShouldFallback("x", []domain.Issue{rescued}) {
        t.Fatal("an issue with criteria is not empty")
    }
}

package jira

import (
    "testing"

    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/stretchr/testify/assert"
)

func TestFormatDescription_Epic(t *testing.T) {
    is := domain.NewIssue("PREP - Site prep", domain.TypeEpic)
    is.EpicName = "PREP - Site prep"
    is.Description = "Get the site ready"
    is.BusinessOutcome = "Work can start on time"

    got := FormatDescription(is)
    assert.Equal(t, "**Epic Name:** PREP - Site prep\n\nGet the site ready\n\n**Business Outcome:** Work can start on time", got)
}

func TestFormatDescription_StoryWithCriteria(t *testing.T) {
    is := domain.NewIssue("Install ovens", domain.TypeStory)
    is.Description = "As a chef I want working ovens"
    is.AcceptanceCriteria = []domain.AcceptanceCriterion{
        {Description: "Ovens reach temperature"},
        {Description: "Inspection passes"},
    }

    got := FormatDescription(is)
    assert.Equal(t, "As a chef I want working ovens\n\n**Acceptance Criteria:**\n1. Ovens reach temperature\n2. Inspection passes", got)
}

func TestParseLabels(t *testing.T) {
    tests := []struct {
        raw  string
        want []string
    }{
        {"", nil},
        {"kitchen", []string{"kitchen"}},
        {"kitchen, hardware install", []string{"kitchen", "hardware-install"}},
        {"front-end back_end", []string{"front-end", "back_end"}},
        {"bad!!label, --trimmed-- ", []string{"badlabel", "trimmed"}},
        {"a  b   c", []string{"a", "b", "c"}},
    }
    for _, tt := range tests {
        assert.Equal(t, tt.want, ParseLabels(tt.raw), "raw %q", tt.raw)
    }
}

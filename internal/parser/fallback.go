/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
)

// extractionSystemPrompt fixes the field-name contract the extractor must
// emit. Changing a name here breaks compatibility with tuned prompts.
const extractionSystemPrompt = `You are an expert at extracting Jira issues from text.
Given text content, extract all Epics, Stories, and Tasks with their details.

Return the result as a JSON array of objects with this exact structure:
[
  {
    "title": "Issue title",
    "description": "Full description",
    "issue_type": "Epic|Story|Task",
    "priority": "Highest|High|Medium|Low|Lowest",
    "story_key": "optional story key",
    "acceptance_criteria": ["criterion 1", "criterion 2"],
    "business_outcome": "optional business outcome",
    "epic_name": "optional epic name",
    "parent": "optional parent reference",
    "dependencies": "optional dependencies",
    "estimated_effort": "optional effort estimate",
    "labels": "optional labels"
  }
]

Guidelines:
- Extract all issues you can find
- Use "Story" as default issue type if unclear
- Use "Medium" as default priority if unclear
- Combine multi-line content appropriately
- Extract acceptance criteria as separate items
- Be comprehensive but accurate`

// extractedRecord mirrors the JSON contract above.
type extractedRecord struct {
    Title              string   `json:"title"`
    Description        string   `json:"description"`
    IssueType          string   `json:"issue_type"`
    Priority           string   `json:"priority"`
    StoryKey           string   `json:"story_key"`
    AcceptanceCriteria []string `json:"acceptance_criteria"`
    BusinessOutcome    string   `json:"business_outcome"`
    EpicName           string   `json:"epic_name"`
    Parent             string   `json:"parent"`
    Dependencies       string   `json:"dependencies"`
    EstimatedEffort    string   `json:"estimated_effort"`
    Labels             string   `json:"labels"`
}

func (p *Parser) extract(ctx context.Context, text string) ([]domain.Issue, error) {
    user := fmt.Sprintf("Please extract all Jira issues from this text:\n\n%s\n\nReturn only the JSON array, no other text.", text)
    raw, err := p.extractor.Complete(ctx, extractionSystemPrompt, user)
    if err != nil { return nil, fmt.Errorf("parser: llm extraction: %w", err) }

    issues, skipped, err := decodeExtraction(raw)
    if err != nil { return nil, err }
    if skipped > 0 {
        p.log.Warn().Int("skipped", skipped).Msg("dropped malformed records from LLM response")
    }
    return issues, nil
}

// decodeExtraction parses the model output into issues. Individual malformed
// records are skipped; only an unusable response as a whole is an error.
func decodeExtraction(raw string) ([]domain.Issue, int, error) {
    content := stripCodeFence(strings.TrimSpace(raw))

    var records []json.RawMessage
    if err := json.Unmarshal([]byte(content), &records); err != nil {
        return nil, 0, fmt.Errorf("parser: llm response is not a JSON array: %w", err)
    }

    issues := make([]domain.Issue, 0, len(records))
    skipped := 0
    for _, r := range records {
        var rec extractedRecord
        if err := json.Unmarshal(r, &rec); err != nil {
            skipped++
            continue
        }
        title := strings.TrimSpace(rec.Title)
        if title == "" { title = "Untitled" }

        is := domain.NewIssue(title, domain.ParseIssueType(rec.IssueType))
        is.Description = rec.Description
        is.Priority = domain.ParsePriority(rec.Priority)
        is.StoryKey = rec.StoryKey
        is.BusinessOutcome = rec.BusinessOutcome
        is.EpicName = rec.EpicName
        is.Parent = rec.Parent
        is.Dependencies = rec.Dependencies
        is.EstimatedEffort = rec.EstimatedEffort
        is.Labels = rec.Labels
        for _, ac := range rec.AcceptanceCriteria {
            if ac = strings.TrimSpace(ac); ac != "" {
                is.AcceptanceCriteria = append(is.AcceptanceCriteria, domain.AcceptanceCriterion{Description: ac})
            }
        }
        issues = append(issues, is)
    }

    if len(issues) == 0 && skipped > 0 {
        return nil, skipped, errors.New("parser: every record in the LLM response was malformed")
    }
    return issues, skipped, nil
}

// stripCodeFence unwraps a ```json ... ``` block if the model added one.
func stripCodeFence(content string) string {
    if !strings.HasPrefix(content, "```") {
        return content
    }
    parts := strings.SplitN(content, "```", 3)
    if len(parts) < 2 {
        return content
    }
    inner := parts[1]
    inner = strings.TrimPrefix(inner, "json")
    return strings.TrimSpace(inner)
}

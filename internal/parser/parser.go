/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package parser turns loosely structured ticket documents into issues.
// Two line-oriented grammars are supported; when neither produces a
// trustworthy result an LLM extractor is consulted as a last resort.
package parser

import (
    "context"
    "fmt"
    "os"
    "regexp"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/rs/zerolog"
)

// Format identifies which document convention the input follows.
type Format int

const (
    FormatStoryList Format = iota
    FormatEpicBlock
)

var epicHeaderRe = regexp.MustCompile(`^Epic \d+:`)

// DetectFormat inspects the raw text for signature markers. An epic-block
// header anywhere wins; otherwise a "Story: " line selects the story-list
// grammar, which is also the permissive default.
func DetectFormat(text string) Format {
    for _, line := range strings.Split(text, "\n") {
        if epicHeaderRe.MatchString(strings.TrimSpace(line)) {
            return FormatEpicBlock
        }
    }
    for _, line := range strings.Split(text, "\n") {
        if strings.HasPrefix(strings.TrimSpace(line), "Story: ") {
            return FormatStoryList
        }
    }
    return FormatStoryList
}

// Extractor is the LLM capability consulted when structured parsing fails.
// It receives a system and user prompt and returns the raw model output.
type Extractor interface {
    Complete(ctx context.Context, system, user string) (string, error)
}

// Parser parses ticket documents. A nil extractor disables the fallback.
type Parser struct {
    extractor Extractor
    log       zerolog.Logger
}

func New(extractor Extractor, log zerolog.Logger) *Parser {
    return &Parser{extractor: extractor, log: log}
}

// ParseFile reads path and parses its contents.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]domain.Issue, error) {
    data, err := os.ReadFile(path)
    if err != nil { return nil, fmt.Errorf("parser: read input: %w", err) }
    return p.ParseText(ctx, string(data))
}

// ParseText parses text and returns the extracted issues. When the quality
// gate rejects the structured output and an extractor is configured, the
// extractor's issues are used instead; if the extractor fails, the
// structured output stands.
func (p *Parser) ParseText(ctx context.Context, text string) ([]domain.Issue, error) {
    lines := strings.Split(text, "\n")

    var issues []domain.Issue
    switch DetectFormat(text) {
    case FormatEpicBlock:
        issues = parseEpicBlock(lines)
    default:
        issues = parseStoryList(lines)
    }

    if p.extractor != nil && ShouldFallback(text, issues) {
        p.log.Info().Int("structured", len(issues)).Msg("structured parsing incomplete, trying LLM fallback")
        llmIssues, err := p.extract(ctx, text)
        if err != nil {
            p.log.Warn().Err(err).Msg("LLM fallback failed, using structured parsing results")
        } else if len(llmIssues) > 0 {
            p.log.Info().Int("extracted", len(llmIssues)).Msg("LLM fallback extracted issues")
            return llmIssues, nil
        }
    }
    return issues, nil
}

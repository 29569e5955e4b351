/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "os"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/config"
    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/jgipson360/jira-langchain/internal/adapters/llm"
    "github.com/jgipson360/jira-langchain/internal/parser"
    "github.com/jgipson360/jira-langchain/internal/resolver"
    "github.com/rs/zerolog"
)

// ErrNoIssues is returned when every extraction strategy came up empty.
var ErrNoIssues = errors.New("no issues found in the input")

// Ticketer is the Jira surface the service needs: issue creation plus a
// connectivity check.
type Ticketer interface {
    resolver.IssueCreator
    ProjectInfo(ctx context.Context) (map[string]any, error)
}

// Options are the per-run flags.
type Options struct {
    DryRun  bool
    Enhance bool
    Verbose bool
    Yes     bool
}

type Service struct {
    cfg    config.Config
    log    zerolog.Logger
    parser *parser.Parser
    jira   Ticketer
    llm    llm.Client
    out    io.Writer
    in     io.Reader
}

func New(cfg config.Config, log zerolog.Logger, p *parser.Parser, jira Ticketer, llmClient llm.Client) *Service {
    return &Service{cfg: cfg, log: log, parser: p, jira: jira, llm: llmClient, out: os.Stdout, in: os.Stdin}
}

// Run parses the input file and, unless this is a dry run, creates the
// issues in Jira with epic and dependency links.
func (s *Service) Run(ctx context.Context, inputPath string, opts Options) error {
    if opts.Verbose {
        fmt.Fprintf(s.out, "Parsing input file: %s\n", inputPath)
    }
    issues, err := s.parser.ParseFile(ctx, inputPath)
    if err != nil { return err }
    if len(issues) == 0 { return ErrNoIssues }

    s.displayIssues(issues)

    if opts.DryRun {
        fmt.Fprintln(s.out, "\nDry run mode - no tickets will be created in Jira")
        return nil
    }

    if _, err := s.jira.ProjectInfo(ctx); err != nil {
        return fmt.Errorf("failed to connect to Jira: %w", err)
    }
    if opts.Verbose {
        fmt.Fprintf(s.out, "\nConnected to project %s\n", s.cfg.JiraProjectKey)
    }

    if opts.Enhance {
        for i, is := range issues {
            issues[i] = s.Enhance(ctx, is)
        }
    }

    if !opts.Yes && !s.confirm(fmt.Sprintf("\nCreate %d tickets in Jira? [y/N] ", len(issues))) {
        fmt.Fprintln(s.out, "Operation cancelled.")
        return nil
    }

    results := resolver.New(s.jira, s.log).CreateBatch(ctx, issues)

    created, failed := 0, 0
    fmt.Fprintln(s.out, "\nTickets created:")
    for _, res := range results {
        if res.Err != nil {
            failed++
            fmt.Fprintf(s.out, "  x %s: %v\n", res.Issue.Title, res.Err)
            continue
        }
        created++
        fmt.Fprintf(s.out, "  * %s: %s/browse/%s\n", res.Key, s.cfg.JiraBaseURL, res.Key)
    }
    fmt.Fprintf(s.out, "\nCreated %d tickets", created)
    if failed > 0 {
        fmt.Fprintf(s.out, " (%d failed)", failed)
    }
    fmt.Fprintln(s.out)
    return nil
}

const enhanceSystemPrompt = `You are an expert at writing Jira tickets. Given a basic issue description,
enhance it with:
1. Clear, actionable acceptance criteria
2. Improved description with technical details
3. Better formatting for Jira

Keep the original intent but make it more professional and detailed.`

// Enhance asks the LLM for a richer description and returns a new issue
// carrying it. Any failure returns the original issue unchanged.
func (s *Service) Enhance(ctx context.Context, issue domain.Issue) domain.Issue {
    if s.llm == nil {
        s.log.Warn().Msg("no LLM configured, skipping enhancement")
        return issue
    }

    var criteria []string
    for _, ac := range issue.AcceptanceCriteria {
        criteria = append(criteria, ac.Description)
    }
    user := fmt.Sprintf(`Please enhance this Jira %s:

Title: %s
Description: %s

Current Acceptance Criteria:
%s

Please provide an enhanced version with better formatting and
more detailed acceptance criteria.`, issue.Type, issue.Title, issue.Description, strings.Join(criteria, "\n"))

    content, err := s.llm.Complete(ctx, enhanceSystemPrompt, user)
    if err != nil {
        s.log.Warn().Err(err).Str("title", issue.Title).Msg("could not enhance issue")
        return issue
    }

    enhanced := issue
    enhanced.Description = issue.Description + "\n\n--- AI Enhanced ---\n" + content
    return enhanced
}

func (s *Service) confirm(prompt string) bool {
    fmt.Fprint(s.out, prompt)
    scanner := bufio.NewScanner(s.in)
    if !scanner.Scan() { return false }
    answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
    return answer == "y" || answer == "yes"
}

func truncate(s string, max int) string {
    if len(s) <= max { return s }
    return s[:max] + "..."
}

func (s *Service) displayIssues(issues []domain.Issue) {
    fmt.Fprintln(s.out, "\nParsed Issues:")
    fmt.Fprintln(s.out, strings.Repeat("=", 50))

    for i, is := range issues {
        fmt.Fprintf(s.out, "\n%d. %s: %s\n", i+1, is.Type, is.Title)
        fmt.Fprintf(s.out, "   Priority: %s\n", is.Priority)
        if is.EpicName != "" { fmt.Fprintf(s.out, "   Epic Name: %s\n", is.EpicName) }
        if is.Parent != "" { fmt.Fprintf(s.out, "   Parent Epic: %s\n", is.Parent) }
        if is.StoryKey != "" { fmt.Fprintf(s.out, "   Story Key: %s\n", is.StoryKey) }
        if is.Dependencies != "" { fmt.Fprintf(s.out, "   Dependencies: %s\n", is.Dependencies) }
        if is.EstimatedEffort != "" { fmt.Fprintf(s.out, "   Estimated Effort: %s\n", is.EstimatedEffort) }
        if is.Labels != "" { fmt.Fprintf(s.out, "   Labels: %s\n", is.Labels) }
        if is.Description != "" { fmt.Fprintf(s.out, "   Description: %s\n", truncate(is.Description, 100)) }
        if is.BusinessOutcome != "" { fmt.Fprintf(s.out, "   Business Outcome: %s\n", truncate(is.BusinessOutcome, 100)) }
        if len(is.AcceptanceCriteria) > 0 {
            fmt.Fprintf(s.out, "   Acceptance Criteria: %d items\n", len(is.AcceptanceCriteria))
        }
    }
}

/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package resolver orders issue creation and reconciles free-text parent and
// dependency references against discovered and newly created issue keys.
package resolver

import (
    "context"
    "regexp"
    "strings"

    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/rs/zerolog"
)

// EpicSummary is one existing epic returned by discovery.
type EpicSummary struct {
    Key     string
    Summary string
}

// IssueCreator is the external collaborator that executes the creation plan.
type IssueCreator interface {
    CreateIssue(ctx context.Context, issue domain.Issue, epicLink string) (string, error)
    SearchEpics(ctx context.Context) ([]EpicSummary, error)
    CreateLink(ctx context.Context, blockingKey, blockedKey string) error
}

// KeyMap maps reference tokens (epic prefixes, issue titles, raw keys) to
// issue keys. Tokens keep insertion order so partial-match resolution is
// deterministic; last writer wins on collisions.
type KeyMap struct {
    order []string
    keys  map[string]string
}

func NewKeyMap() *KeyMap {
    return &KeyMap{keys: map[string]string{}}
}

func (m *KeyMap) Set(token, key string) {
    if token == "" || key == "" { return }
    if _, ok := m.keys[token]; !ok {
        m.order = append(m.order, token)
    }
    m.keys[token] = key
}

func (m *KeyMap) Get(token string) (string, bool) {
    k, ok := m.keys[token]
    return k, ok
}

func (m *KeyMap) Len() int { return len(m.keys) }

// Tokens returns the tokens in insertion order.
func (m *KeyMap) Tokens() []string { return m.order }

func (m *KeyMap) Clone() *KeyMap {
    c := NewKeyMap()
    for _, t := range m.order {
        c.Set(t, m.keys[t])
    }
    return c
}

// Result is the outcome of creating one issue.
type Result struct {
    Issue    domain.Issue
    Key      string
    EpicLink string
    Err      error
}

type Resolver struct {
    creator IssueCreator
    log     zerolog.Logger
}

func New(creator IssueCreator, log zerolog.Logger) *Resolver {
    return &Resolver{creator: creator, log: log}
}

// CreateBatch creates all issues, epics strictly before stories, growing the
// key mapping as keys come back and resolving each story's dependencies
// against everything created so far. Failures degrade the single issue or
// link, never the batch.
func (r *Resolver) CreateBatch(ctx context.Context, issues []domain.Issue) []Result {
    epicKeys := r.discoverEpics(ctx)
    allKeys := epicKeys.Clone()

    var epics, stories []domain.Issue
    for _, is := range issues {
        if is.Type == domain.TypeEpic {
            epics = append(epics, is)
        } else {
            stories = append(stories, is)
        }
    }

    epics = append(epics, r.placeholderEpics(epicKeys, epics, stories)...)

    results := make([]Result, 0, len(epics)+len(stories))

    for _, epic := range epics {
        key, err := r.creator.CreateIssue(ctx, epic, "")
        if err != nil {
            r.log.Error().Err(err).Str("title", epic.Title).Msg("epic creation failed")
            results = append(results, Result{Issue: epic, Err: err})
            continue
        }
        results = append(results, Result{Issue: epic, Key: key})
        allKeys.Set(key, key)
        if epic.EpicName != "" {
            prefix := prefixFromEpicName(epic.EpicName)
            epicKeys.Set(prefix, key)
            allKeys.Set(prefix, key)
            r.log.Info().Str("prefix", prefix).Str("key", key).Msg("epic mapping updated")
        }
    }

    for _, story := range stories {
        epicLink := ""
        if story.Parent != "" {
            if k, ok := epicKeys.Get(story.Parent); ok {
                epicLink = k
                r.log.Info().Str("story", story.Title).Str("epic", k).Msg("linking story to epic")
            } else {
                r.log.Warn().Str("story", story.Title).Str("parent", story.Parent).Msg("parent epic not found, creating without epic link")
            }
        }

        key, err := r.creator.CreateIssue(ctx, story, epicLink)
        if err != nil {
            r.log.Error().Err(err).Str("title", story.Title).Msg("story creation failed")
            results = append(results, Result{Issue: story, EpicLink: epicLink, Err: err})
            continue
        }
        results = append(results, Result{Issue: story, Key: key, EpicLink: epicLink})
        allKeys.Set(key, key)
        allKeys.Set(story.Title, key)

        if story.Dependencies != "" {
            deps := ParseDependencies(story.Dependencies)
            for _, depKey := range r.resolveDependencies(deps, allKeys) {
                if err := r.creator.CreateLink(ctx, depKey, key); err != nil {
                    r.log.Warn().Err(err).Str("blocking", depKey).Str("blocked", key).Msg("dependency link failed")
                } else {
                    r.log.Info().Str("blocking", depKey).Str("blocked", key).Msg("created dependency link")
                }
            }
        }
    }

    return results
}

// discoverEpics builds the initial prefix→key mapping from epics already in
// the project. Discovery failure degrades to an empty mapping.
func (r *Resolver) discoverEpics(ctx context.Context) *KeyMap {
    m := NewKeyMap()
    epics, err := r.creator.SearchEpics(ctx)
    if err != nil {
        r.log.Warn().Err(err).Msg("epic discovery failed, starting with empty mapping")
        return m
    }
    for _, e := range epics {
        prefix := PrefixFromSummary(e.Summary)
        if prefix == "" {
            r.log.Debug().Str("key", e.Key).Str("summary", e.Summary).Msg("no prefix in epic summary")
            continue
        }
        m.Set(prefix, e.Key)
        r.log.Info().Str("prefix", prefix).Str("key", e.Key).Msg("mapped existing epic")
    }
    return m
}

// placeholderEpics synthesizes one epic per story parent reference that
// matches neither a discovered prefix nor an epic already in the document, so
// every parent reference resolves to something.
func (r *Resolver) placeholderEpics(epicKeys *KeyMap, epics, stories []domain.Issue) []domain.Issue {
    var out []domain.Issue
    seen := map[string]bool{}
    for _, story := range stories {
        parent := story.Parent
        if parent == "" || seen[parent] { continue }
        seen[parent] = true
        if _, ok := epicKeys.Get(parent); ok { continue }

        covered := false
        for _, epic := range epics {
            if epic.EpicName != "" && strings.HasPrefix(epic.EpicName, parent) {
                covered = true
                break
            }
        }
        if covered { continue }

        r.log.Info().Str("parent", parent).Msg("creating placeholder epic for parent")
        ph := domain.NewIssue(parent+" - Epic", domain.TypeEpic)
        ph.Description = "Epic for " + parent + " related stories"
        ph.EpicName = parent + " - Epic"
        out = append(out, ph)
    }
    return out
}

var (
    bracketPrefixRe = regexp.MustCompile(`^\[([A-Z]+)\]`)
    issueKeyRe      = regexp.MustCompile(`^[A-Z]+-\d+$`)
    bracketDepRe    = regexp.MustCompile(`^\[([A-Z]+)\]\s*(.+)`)
)

// PrefixFromSummary extracts a short epic prefix from an existing epic's
// summary, trying "[PREFIX] Title", "PREFIX - Title", then "PREFIX Title".
// Returns "" when no convention matches.
func PrefixFromSummary(summary string) string {
    if m := bracketPrefixRe.FindStringSubmatch(summary); m != nil {
        return m[1]
    }
    if strings.Contains(summary, " - ") {
        p := strings.TrimSpace(strings.SplitN(summary, " - ", 2)[0])
        if isUpperToken(p) && len(p) <= 10 {
            return p
        }
        return ""
    }
    fields := strings.Fields(summary)
    if len(fields) > 0 && isUpperToken(fields[0]) && len(fields[0]) <= 10 {
        return fields[0]
    }
    return ""
}

// prefixFromEpicName derives the mapping prefix for a newly created epic:
// the segment before " - ", or the first word.
func prefixFromEpicName(name string) string {
    if strings.Contains(name, " - ") {
        return strings.SplitN(name, " - ", 2)[0]
    }
    fields := strings.Fields(name)
    if len(fields) == 0 { return "" }
    return fields[0]
}

// isUpperToken reports whether s contains at least one letter and no
// lowercase letters.
func isUpperToken(s string) bool {
    hasLetter := false
    for _, r := range s {
        if r >= 'a' && r <= 'z' { return false }
        if r >= 'A' && r <= 'Z' { hasLetter = true }
    }
    return hasLetter
}

// ParseDependencies splits a raw comma-delimited dependency expression into
// individual reference tokens.
func ParseDependencies(s string) []string {
    if strings.TrimSpace(s) == "" { return nil }
    var out []string
    for _, part := range strings.Split(s, ",") {
        part = strings.TrimSpace(part)
        if part != "" { out = append(out, part) }
    }
    return out
}

// resolveDependencies turns reference tokens into concrete keys using
// progressively looser strategies: verbatim keys, exact title match,
// prefix-scoped partial title match, then the epic key itself. Unresolvable
// tokens are reported and dropped.
func (r *Resolver) resolveDependencies(deps []string, m *KeyMap) []string {
    var resolved []string
    for _, dep := range deps {
        if issueKeyRe.MatchString(dep) {
            resolved = append(resolved, dep)
            continue
        }
        if strings.HasPrefix(strings.ToLower(dep), "none") {
            continue
        }

        if bm := bracketDepRe.FindStringSubmatch(dep); bm != nil {
            prefix, taskName := bm[1], strings.TrimSpace(bm[2])

            if key, ok := m.Get(taskName); ok {
                resolved = append(resolved, key)
                r.log.Info().Str("dep", dep).Str("key", key).Msg("resolved dependency to specific story")
                continue
            }

            found := false
            for _, token := range m.Tokens() {
                if strings.HasPrefix(token, "["+prefix+"]") &&
                    strings.Contains(strings.ToLower(token), strings.ToLower(taskName)) {
                    key, _ := m.Get(token)
                    resolved = append(resolved, key)
                    r.log.Info().Str("dep", dep).Str("key", key).Msg("resolved dependency by partial match")
                    found = true
                    break
                }
            }
            if found { continue }

            if key, ok := m.Get(prefix); ok {
                resolved = append(resolved, key)
                r.log.Info().Str("dep", dep).Str("key", key).Msg("resolved dependency to epic (fallback)")
                continue
            }
            r.log.Warn().Str("dep", dep).Msg("could not resolve dependency")
            continue
        }

        if key, ok := m.Get(dep); ok {
            resolved = append(resolved, key)
            r.log.Info().Str("dep", dep).Str("key", key).Msg("resolved dependency")
        } else {
            r.log.Warn().Str("dep", dep).Msg("could not parse dependency format")
        }
    }
    return resolved
}

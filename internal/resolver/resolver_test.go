package resolver

import (
    "context"
    "errors"
    "fmt"
    "testing"

    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

type created struct {
    issue    domain.Issue
    epicLink string
    key      string
}

type fakeCreator struct {
    existing  []EpicSummary
    searchErr error
    failTitle string

    next    int
    created []created
    links   [][2]string // blocking, blocked
}

func (f *fakeCreator) CreateIssue(_ context.Context, issue domain.Issue, epicLink string) (string, error) {
    if f.failTitle != "" && issue.Title == f.failTitle {
        return "", errors.New("boom")
    }
    f.next++
    key := fmt.Sprintf("GMLT-%d", f.next)
    f.created = append(f.created, created{issue: issue, epicLink: epicLink, key: key})
    return key, nil
}

func (f *fakeCreator) SearchEpics(_ context.Context) ([]EpicSummary, error) {
    return f.existing, f.searchErr
}

func (f *fakeCreator) CreateLink(_ context.Context, blocking, blocked string) error {
    f.links = append(f.links, [2]string{blocking, blocked})
    return nil
}

func story(title, parent, deps string) domain.Issue {
    is := domain.NewIssue(title, domain.TypeStory)
    is.Parent = parent
    is.Dependencies = deps
    return is
}

func epic(title, epicName string) domain.Issue {
    is := domain.NewIssue(title, domain.TypeEpic)
    is.EpicName = epicName
    return is
}

func TestPrefixFromSummary(t *testing.T) {
    tests := []struct {
        summary string
        want    string
    }{
        {"[PREP] Emergency supplies", "PREP"},
        {"KITCH - Kitchen modernization", "KITCH"},
        {"MSTR Master bedroom refresh", "MSTR"},
        {"lowercase - nope", ""},
        {"VERYLONGPREFIX - over the limit", ""},
        {"Plain english summary", ""},
        {"", ""},
        // Bracket convention wins over the others.
        {"[PREP] KITCH - mixed", "PREP"},
    }
    for _, tt := range tests {
        assert.Equal(t, tt.want, PrefixFromSummary(tt.summary), "summary %q", tt.summary)
    }
}

func TestParseDependencies(t *testing.T) {
    assert.Nil(t, ParseDependencies(""))
    assert.Nil(t, ParseDependencies("   "))
    assert.Equal(t,
        []string{"[PREP] Clear equipment", "GMLT-7", "Bare title"},
        ParseDependencies(" [PREP] Clear equipment , GMLT-7,Bare title ,"))
}

func TestCreateBatch_EpicsBeforeStories(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    issues := []domain.Issue{
        story("[KITCH] Install ovens", "KITCH", ""),
        epic("KITCH - Kitchen Modernization", "KITCH - Kitchen Modernization"),
    }
    results := r.CreateBatch(context.Background(), issues)

    require.Len(t, results, 2)
    require.Len(t, fc.created, 2)
    assert.Equal(t, domain.TypeEpic, fc.created[0].issue.Type, "epic must be created first")
    assert.Equal(t, domain.TypeStory, fc.created[1].issue.Type)
    // The story links to the freshly created epic via the KITCH prefix.
    assert.Equal(t, fc.created[0].key, fc.created[1].epicLink)
}

func TestCreateBatch_PlaceholderEpicSynthesis(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    results := r.CreateBatch(context.Background(), []domain.Issue{
        story("Refinish the floors", "MSTR", ""),
    })

    require.Len(t, results, 2)
    require.Len(t, fc.created, 2)
    ph := fc.created[0].issue
    assert.Equal(t, domain.TypeEpic, ph.Type)
    assert.Equal(t, "MSTR - Epic", ph.Title)
    assert.Equal(t, "MSTR - Epic", ph.EpicName)
    assert.Equal(t, domain.PriorityMedium, ph.Priority)
    // The story ends up linked to the placeholder.
    assert.Equal(t, fc.created[0].key, fc.created[1].epicLink)
}

func TestCreateBatch_NoPlaceholderWhenEpicDiscovered(t *testing.T) {
    fc := &fakeCreator{existing: []EpicSummary{{Key: "GMLT-900", Summary: "MSTR - Master suite"}}}
    r := New(fc, zerolog.Nop())

    r.CreateBatch(context.Background(), []domain.Issue{
        story("Refinish the floors", "MSTR", ""),
    })

    require.Len(t, fc.created, 1, "no placeholder should be synthesized")
    assert.Equal(t, "GMLT-900", fc.created[0].epicLink)
}

func TestCreateBatch_NoPlaceholderWhenDocumentHasEpic(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    r.CreateBatch(context.Background(), []domain.Issue{
        epic("PREP - Site preparation", "PREP - Site preparation"),
        story("Clear the lot", "PREP", ""),
    })

    require.Len(t, fc.created, 2)
    assert.Equal(t, "PREP - Site preparation", fc.created[0].issue.Title)
}

func TestCreateBatch_DependencySpecificMatchBeatsEpicFallback(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    results := r.CreateBatch(context.Background(), []domain.Issue{
        epic("PREP - Site preparation", "PREP - Site preparation"),
        story("[PREP] Story A", "PREP", ""),
        story("[PREP] Story B", "PREP", "[PREP] Story A"),
    })

    require.Len(t, results, 3)
    var storyAKey string
    for _, c := range fc.created {
        if c.issue.Title == "[PREP] Story A" { storyAKey = c.key }
    }
    require.NotEmpty(t, storyAKey)
    require.Len(t, fc.links, 1)
    assert.Equal(t, storyAKey, fc.links[0][0], "dependency must resolve to the story, not the PREP epic")
}

func TestCreateBatch_DependencyEpicFallback(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    r.CreateBatch(context.Background(), []domain.Issue{
        epic("PREP - Site preparation", "PREP - Site preparation"),
        story("Pour the slab", "PREP", "[PREP] Nothing with this name"),
    })

    require.Len(t, fc.links, 1)
    epicKey := fc.created[0].key
    assert.Equal(t, epicKey, fc.links[0][0], "unknown task under a known prefix falls back to the epic")
}

func TestCreateBatch_DependencyVariants(t *testing.T) {
    fc := &fakeCreator{}
    r := New(fc, zerolog.Nop())

    r.CreateBatch(context.Background(), []domain.Issue{
        story("First story", "", ""),
        story("Second story", "", "First story, OTHER-42, none needed, totally unknown"),
    })

    // "First story" by title, OTHER-42 verbatim; "none..." and the unknown
    // reference are dropped without failing the story.
    require.Len(t, fc.created, 2)
    require.Len(t, fc.links, 2)
    firstKey := fc.created[0].key
    secondKey := fc.created[1].key
    assert.Equal(t, [2]string{firstKey, secondKey}, fc.links[0])
    assert.Equal(t, [2]string{"OTHER-42", secondKey}, fc.links[1])
}

func TestCreateBatch_CreateFailureSkipsIssueNotBatch(t *testing.T) {
    fc := &fakeCreator{failTitle: "Doomed story"}
    r := New(fc, zerolog.Nop())

    results := r.CreateBatch(context.Background(), []domain.Issue{
        story("Doomed story", "", ""),
        story("Fine story", "", ""),
    })

    require.Len(t, results, 2)
    assert.Error(t, results[0].Err)
    assert.NoError(t, results[1].Err)
    assert.NotEmpty(t, results[1].Key)
}

func TestCreateBatch_DiscoveryFailureDegradesToEmptyMapping(t *testing.T) {
    fc := &fakeCreator{searchErr: errors.New("jira down")}
    r := New(fc, zerolog.Nop())

    results := r.CreateBatch(context.Background(), []domain.Issue{
        story("Lone story", "ABCD", ""),
    })

    // Discovery failed, so a placeholder epic is synthesized for ABCD.
    require.Len(t, results, 2)
    assert.Equal(t, "ABCD - Epic", results[0].Issue.Title)
}

func TestKeyMap_LastWriterWinsAndOrderStable(t *testing.T) {
    m := NewKeyMap()
    m.Set("PREP", "GMLT-1")
    m.Set("KITCH", "GMLT-2")
    m.Set("PREP", "GMLT-9")

    k, ok := m.Get("PREP")
    require.True(t, ok)
    assert.Equal(t, "GMLT-9", k)
    assert.Equal(t, []string{"PREP", "KITCH"}, m.Tokens())
    assert.Equal(t, 2, m.Len())

    c := m.Clone()
    c.Set("MSTR", "GMLT-3")
    assert.Equal(t, 2, m.Len(), "clone must not share state")
    assert.Equal(t, 3, c.Len())
}

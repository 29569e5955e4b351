/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"

    "github.com/cenkalti/backoff/v4"
    "github.com/jgipson360/jira-langchain/internal/config"
    "github.com/jgipson360/jira-langchain/internal/domain"
    "github.com/jgipson360/jira-langchain/internal/resolver"
    "github.com/rs/zerolog"
)

const maxRetries = 3

type Client struct {
    baseURL string
    token   string
    user    string
    pass    string
    project string
    http    *http.Client
    log     zerolog.Logger

    epicField string // cached Epic Link field id
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.JiraBaseURL, "/"),
        token:   cfg.JiraPAT,
        user:    cfg.JiraUsername,
        pass:    cfg.JiraAPIToken,
        project: cfg.JiraProjectKey,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := c.baseURL + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) authorize(req *http.Request) {
    if c.token != "" {
        req.Header.Set("Authorization", "Bearer "+c.token)
    } else if c.user != "" && c.pass != "" {
        req.SetBasicAuth(c.user, c.pass)
    }
}

// doJSON issues the request and decodes the response into out. 429 and 5xx
// responses are retried with exponential backoff, other statuses are not.
func (c *Client) doJSON(ctx context.Context, method, u string, body, out any) error {
    if c.baseURL == "" { return errors.New("jira: empty baseURL") }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        payload = b
    }

    op := func() error {
        var r io.Reader
        if payload != nil { r = strings.NewReader(string(payload)) }
        req, err := http.NewRequestWithContext(ctx, method, u, r)
        if err != nil { return backoff.Permanent(err) }
        if payload != nil { req.Header.Set("Content-Type", "application/json") }
        c.authorize(req)

        resp, err := c.http.Do(req)
        if err != nil { return err }
        defer resp.Body.Close()

        if resp.StatusCode >= 300 {
            b, _ := io.ReadAll(resp.Body)
            apiErr := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
            if resp.StatusCode == 429 || resp.StatusCode >= 500 { return apiErr }
            return backoff.Permanent(apiErr)
        }
        if out == nil {
            _, _ = io.Copy(io.Discard, resp.Body)
            return nil
        }
        if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
            return backoff.Permanent(err)
        }
        return nil
    }

    policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
    return backoff.Retry(op, policy)
}

// ProjectInfo fetches the project metadata, used as a connectivity check.
func (c *Client) ProjectInfo(ctx context.Context) (map[string]any, error) {
    var out map[string]any
    u := c.apiURL("/rest/api/2/project/"+url.PathEscape(c.project), nil)
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil { return nil, err }
    return out, nil
}

// SearchEpics lists existing epics in the project (key and summary only).
func (c *Client) SearchEpics(ctx context.Context) ([]resolver.EpicSummary, error) {
    q := url.Values{}
    q.Set("jql", fmt.Sprintf("project = %s AND issuetype = Epic", c.project))
    q.Set("fields", "key,summary")
    q.Set("maxResults", "100")
    u := c.apiURL("/rest/api/2/search", q)

    var out struct {
        Issues []struct {
            Key    string `json:"key"`
            Fields struct {
                Summary string `json:"summary"`
            } `json:"fields"`
        } `json:"issues"`
    }
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
        return nil, fmt.Errorf("jira: search epics: %w", err)
    }
    epics := make([]resolver.EpicSummary, 0, len(out.Issues))
    for _, is := range out.Issues {
        epics = append(epics, resolver.EpicSummary{Key: is.Key, Summary: is.Fields.Summary})
    }
    return epics, nil
}

// CreateIssue creates one issue and returns its key. Non-epic types are
// created as Story; epicLink (if any) is set through the discovered Epic
// Link field.
func (c *Client) CreateIssue(ctx context.Context, issue domain.Issue, epicLink string) (string, error) {
    fields := map[string]any{
        "summary":     issue.Title,
        "description": FormatDescription(issue),
        "project":     map[string]string{"key": c.project},
        "priority":    map[string]string{"name": string(issue.Priority)},
    }
    if issue.Type == domain.TypeEpic {
        fields["issuetype"] = map[string]string{"name": "Epic"}
    } else {
        // Only Epic and Story exist in the target project; Tasks become Stories.
        fields["issuetype"] = map[string]string{"name": "Story"}
    }
    if labels := ParseLabels(issue.Labels); len(labels) > 0 {
        fields["labels"] = labels
        c.log.Info().Strs("labels", labels).Str("title", issue.Title).Msg("adding labels")
    }
    if epicLink != "" && issue.Type != domain.TypeEpic {
        field := c.EpicLinkField(ctx)
        if field == "parent" {
            fields[field] = map[string]string{"key": epicLink}
        } else {
            fields[field] = epicLink
        }
        c.log.Info().Str("field", field).Str("epic", epicLink).Msg("setting epic link")
    }

    var out struct {
        Key string `json:"key"`
    }
    u := c.apiURL("/rest/api/2/issue", nil)
    if err := c.doJSON(ctx, http.MethodPost, u, map[string]any{"fields": fields}, &out); err != nil {
        return "", fmt.Errorf("jira: create issue %q: %w", issue.Title, err)
    }
    if out.Key == "" { return "", fmt.Errorf("jira: create issue %q: no key in response", issue.Title) }
    c.log.Info().Str("key", out.Key).Str("title", issue.Title).Msg("issue created")
    return out.Key, nil
}

// CreateLink records that blockingKey blocks blockedKey.
func (c *Client) CreateLink(ctx context.Context, blockingKey, blockedKey string) error {
    body := map[string]any{
        "type":         map[string]string{"name": "Blocks"},
        "inwardIssue":  map[string]string{"key": blockedKey},
        "outwardIssue": map[string]string{"key": blockingKey},
    }
    u := c.apiURL("/rest/api/2/issueLink", nil)
    if err := c.doJSON(ctx, http.MethodPost, u, body, nil); err != nil {
        return fmt.Errorf("jira: link %s blocks %s: %w", blockingKey, blockedKey, err)
    }
    return nil
}

// EpicLinkField discovers which field carries the epic link for Story issues
// in this project, falling back to the most common custom field. The result
// is cached on the client.
func (c *Client) EpicLinkField(ctx context.Context) string {
    if c.epicField != "" { return c.epicField }

    c.epicField = "customfield_10014"
    q := url.Values{}
    q.Set("projectKeys", c.project)
    q.Set("expand", "projects.issuetypes.fields")
    u := c.apiURL("/rest/api/2/issue/createmeta", q)

    var meta struct {
        Projects []struct {
            Key        string `json:"key"`
            IssueTypes []struct {
                Name   string                     `json:"name"`
                Fields map[string]json.RawMessage `json:"fields"`
            } `json:"issuetypes"`
        } `json:"projects"`
    }
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &meta); err != nil {
        c.log.Warn().Err(err).Str("fallback", c.epicField).Msg("could not determine epic link field")
        return c.epicField
    }

    for _, p := range meta.Projects {
        if p.Key != c.project { continue }
        for _, it := range p.IssueTypes {
            if it.Name != "Story" { continue }
            if f := epicLinkFieldFrom(it.Fields); f != "" {
                c.epicField = f
            }
        }
    }
    c.log.Info().Str("field", c.epicField).Msg("using epic link field")
    return c.epicField
}

func epicLinkFieldFrom(fields map[string]json.RawMessage) string {
    name := func(raw json.RawMessage) string {
        var f struct {
            Name string `json:"name"`
        }
        _ = json.Unmarshal(raw, &f)
        return strings.ToLower(f.Name)
    }
    for id, raw := range fields {
        n := name(raw)
        if strings.Contains(n, "epic") && strings.Contains(n, "link") { return id }
    }
    if _, ok := fields["parent"]; ok { return "parent" }
    for id, raw := range fields {
        if strings.HasPrefix(id, "customfield_") && strings.Contains(name(raw), "epic") { return id }
    }
    return ""
}

/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "errors"
    "os"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    AppEnv string

    JiraBaseURL    string
    JiraUsername   string
    JiraAPIToken   string
    JiraPAT        string
    JiraProjectKey string

    LLMProvider    string
    AnthropicKey   string
    AnthropicModel string
    OpenAIKey      string
    OpenAIModel    string
    LLMTimeout     time.Duration

    HTTPTimeout time.Duration
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

// Load reads configuration from the environment. When envFile is non-empty it
// is loaded first (the --config flag); otherwise a .env in the working
// directory is picked up if present.
func Load(envFile string) Config {
    if envFile != "" {
        _ = godotenv.Load(envFile)
    } else {
        _ = godotenv.Load()
    }

    return Config{
        AppEnv: getenv("APP_ENV", "dev"),

        JiraBaseURL:    strings.TrimRight(getenv("JIRA_URL", ""), "/"),
        JiraUsername:   getenv("JIRA_USERNAME", ""),
        JiraAPIToken:   getenv("JIRA_API_TOKEN", ""),
        JiraPAT:        getenv("JIRA_PAT", ""),
        JiraProjectKey: getenv("JIRA_PROJECT_KEY", ""),

        LLMProvider:    strings.ToLower(getenv("LLM_PROVIDER", "anthropic")),
        AnthropicKey:   getenv("ANTHROPIC_API_KEY", ""),
        AnthropicModel: getenv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20240620"),
        OpenAIKey:      getenv("OPENAI_API_KEY", ""),
        OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4.1-mini"),
        LLMTimeout:     dur("LLM_TIMEOUT", 60*time.Second),

        HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),
    }
}

// ValidateJira checks the settings required before any issue is created.
func (c Config) ValidateJira() error {
    if c.JiraBaseURL == "" { return errors.New("config: JIRA_URL is required") }
    if c.JiraProjectKey == "" { return errors.New("config: JIRA_PROJECT_KEY is required") }
    if c.JiraPAT == "" && (c.JiraUsername == "" || c.JiraAPIToken == "") {
        return errors.New("config: set JIRA_USERNAME and JIRA_API_TOKEN, or JIRA_PAT")
    }
    return nil
}

/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "fmt"
    "os"
    "strings"

    "github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
    var (
        url         string
        username    string
        apiToken    string
        pat         string
        projectKey  string
        llmProvider string
        llmKey      string
        output      string
    )

    cmd := &cobra.Command{
        Use:   "setup",
        Short: "Write a .env file with Jira and LLM credentials",
        RunE: func(cmd *cobra.Command, args []string) error {
            if url == "" || projectKey == "" {
                return fmt.Errorf("--url and --project-key are required")
            }
            if pat == "" && (username == "" || apiToken == "") {
                return fmt.Errorf("provide --pat, or --username with --api-token")
            }

            var b strings.Builder
            fmt.Fprintf(&b, "JIRA_URL=%s\n", strings.TrimRight(url, "/"))
            fmt.Fprintf(&b, "JIRA_PROJECT_KEY=%s\n", projectKey)
            if pat != "" {
                fmt.Fprintf(&b, "JIRA_PAT=%s\n", pat)
            } else {
                fmt.Fprintf(&b, "JIRA_USERNAME=%s\n", username)
                fmt.Fprintf(&b, "JIRA_API_TOKEN=%s\n", apiToken)
            }
            if llmKey != "" {
                fmt.Fprintf(&b, "LLM_PROVIDER=%s\n", llmProvider)
                switch strings.ToLower(llmProvider) {
                case "openai":
                    fmt.Fprintf(&b, "OPENAI_API_KEY=%s\n", llmKey)
                default:
                    fmt.Fprintf(&b, "ANTHROPIC_API_KEY=%s\n", llmKey)
                }
            }

            if _, err := os.Stat(output); err == nil {
                return fmt.Errorf("%s already exists, remove it first or choose another --output", output)
            }
            if err := os.WriteFile(output, []byte(b.String()), 0o600); err != nil {
                return fmt.Errorf("write %s: %w", output, err)
            }
            fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
            return nil
        },
    }

    cmd.Flags().StringVar(&url, "url", "", "Jira base URL")
    cmd.Flags().StringVar(&username, "username", "", "Jira username (email)")
    cmd.Flags().StringVar(&apiToken, "api-token", "", "Jira API token")
    cmd.Flags().StringVar(&pat, "pat", "", "Jira personal access token (Bearer auth)")
    cmd.Flags().StringVar(&projectKey, "project-key", "", "Jira project key")
    cmd.Flags().StringVar(&llmProvider, "llm-provider", "anthropic", "LLM provider: anthropic or openai")
    cmd.Flags().StringVar(&llmKey, "llm-api-key", "", "API key for the LLM provider")
    cmd.Flags().StringVar(&output, "output", ".env", "path of the env file to write")
    return cmd
}

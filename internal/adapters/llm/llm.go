/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package llm provides the chat-completion capability used for fallback
// extraction and description enhancement.
package llm

import (
    "context"

    "github.com/jgipson360/jira-langchain/internal/config"
    "github.com/rs/zerolog"
)

// Client is a minimal chat completion: system prompt and user prompt in, raw
// model text out.
type Client interface {
    Complete(ctx context.Context, system, user string) (string, error)
}

// New returns the client for the configured provider. A nil return means
// the provider is unknown or its API key is missing; callers treat nil as
// "LLM features disabled".
func New(cfg config.Config, log zerolog.Logger) Client {
    switch cfg.LLMProvider {
    case "anthropic":
        if cfg.AnthropicKey == "" {
            log.Warn().Msg("ANTHROPIC_API_KEY not set, LLM features disabled")
            return nil
        }
        return NewAnthropic(cfg, log)
    case "openai":
        if cfg.OpenAIKey == "" {
            log.Warn().Msg("OPENAI_API_KEY not set, LLM features disabled")
            return nil
        }
        return NewOpenAI(cfg, log)
    default:
        log.Warn().Str("provider", cfg.LLMProvider).Msg("unsupported LLM provider, LLM features disabled")
        return nil
    }
}

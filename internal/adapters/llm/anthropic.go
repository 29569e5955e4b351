/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package llm

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/anthropics/anthropic-sdk-go"
    "github.com/anthropics/anthropic-sdk-go/option"
    "github.com/jgipson360/jira-langchain/internal/config"
    "github.com/rs/zerolog"
)

type AnthropicClient struct {
    client  anthropic.Client
    model   anthropic.Model
    timeout time.Duration
    log     zerolog.Logger
}

func NewAnthropic(cfg config.Config, log zerolog.Logger) *AnthropicClient {
    return &AnthropicClient{
        client:  anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey)),
        model:   anthropic.Model(cfg.AnthropicModel),
        timeout: cfg.LLMTimeout,
        log:     log,
    }
}

func (c *AnthropicClient) Complete(ctx context.Context, system, user string) (string, error) {
    ctx, cancel := context.WithTimeout(ctx, c.timeout)
    defer cancel()

    c.log.Debug().Str("model", string(c.model)).Msg("anthropic completion call")
    message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
        Model:     c.model,
        MaxTokens: 4096,
        System:    []anthropic.TextBlockParam{{Text: system}},
        Messages: []anthropic.MessageParam{
            anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
        },
    })
    if err != nil { return "", fmt.Errorf("anthropic: %w", err) }
    if len(message.Content) == 0 { return "", errors.New("anthropic: no content blocks") }
    block := message.Content[0]
    if block.Type != "text" {
        return "", fmt.Errorf("anthropic: unexpected block type %q", block.Type)
    }
    return block.Text, nil
}

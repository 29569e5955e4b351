/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package llm

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/jgipson360/jira-langchain/internal/config"
    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"
)

type OpenAIClient struct {
    cli     openai.Client
    model   string
    timeout time.Duration
    log     zerolog.Logger
}

func NewOpenAI(cfg config.Config, log zerolog.Logger) *OpenAIClient {
    model := cfg.OpenAIModel
    if model == "" { model = "gpt-4.1-mini" }
    return &OpenAIClient{
        cli:     openai.NewClient(option.WithAPIKey(cfg.OpenAIKey)),
        model:   model,
        timeout: cfg.LLMTimeout,
        log:     log,
    }
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
    ctx, cancel := context.WithTimeout(ctx, c.timeout)
    defer cancel()

    c.log.Debug().Str("model", c.model).Msg("openai completion call")
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage(system),
            openai.UserMessage(user),
        },
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", fmt.Errorf("openai: %w", err) }
    if len(resp.Choices) == 0 { return "", errors.New("openai: no choices") }
    return resp.Choices[0].Message.Content, nil
}

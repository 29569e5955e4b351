/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "github.com/jgipson360/jira-langchain/internal/adapters/jira"
    "github.com/jgipson360/jira-langchain/internal/adapters/llm"
    "github.com/jgipson360/jira-langchain/internal/config"
    "github.com/jgipson360/jira-langchain/internal/logger"
    "github.com/jgipson360/jira-langchain/internal/parser"
    "github.com/jgipson360/jira-langchain/internal/services"
    "github.com/rs/zerolog"
    "github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
    var (
        inputFile string
        envFile   string
        opts      services.Options
    )

    cmd := &cobra.Command{
        Use:           "jira-langchain",
        Short:         "Parse work-item documents and create linked Jira tickets",
        Long:          "Reads epic-block or story-list documents, extracts issues (with an LLM fallback for unstructured text), and creates them in Jira with epic and dependency links.",
        SilenceUsage:  true,
        SilenceErrors: true,
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg := config.Load(envFile)
            log := logger.New(cfg)
            if !opts.Verbose {
                log = log.Level(zerolog.WarnLevel)
            }

            if !opts.DryRun {
                if err := cfg.ValidateJira(); err != nil { return err }
            }

            llmClient := llm.New(cfg, log)
            p := parser.New(llmClient, log)
            svc := services.New(cfg, log, p, jira.NewClient(cfg, log), llmClient)
            return svc.Run(cmd.Context(), inputFile, opts)
        },
    }

    cmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "path to the work-item document")
    cmd.Flags().StringVarP(&envFile, "config", "c", "", "path to a .env file (defaults to ./.env)")
    cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "d", false, "parse and display issues without creating tickets")
    cmd.Flags().BoolVarP(&opts.Enhance, "enhance", "e", false, "enhance descriptions with the configured LLM before creating")
    cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
    cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
    _ = cmd.MarkFlagRequired("input-file")

    cmd.AddCommand(newSetupCmd())
    return cmd
}

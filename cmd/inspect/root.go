// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianInspect/pkg/logging"
	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "inspect",
		Short:         "Remote code inspection for Python and kotlin",
		Long:          "inspect serves tree-sitter based code inspections over gRPC and HTTP, and checks files locally or against a running server.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to the server configuration file (YAML)")
	pf.StringSlice("languages", nil, "Languages to serve, e.g. Python,kotlin")
	pf.String("templates-path", "", "Root directory of per-language project templates")
	pf.String("rules-dir", "", "Directory with <language>.yaml rule files overriding the defaults")
	pf.String("failure-policy", config.FailurePolicyFailFast, "How a failing check is handled: fail-fast or isolate")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "auto", "Log format: auto, text, json")
	pf.String("log-dir", "", "Also write JSON logs to this directory")

	root.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newChecksCmd(),
		newValidateCmd(),
	)
	return root
}

// loadConfig reads the configuration file named by --config and applies
// environment and flag overrides.
func loadConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.LoadServerConfig(path, cmd.Flags())
}

// setupLogging installs the process logger. The caller closes it.
func setupLogging(cfg *config.ServerConfig, service string) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{
		Level:   level,
		Format:  logging.Format(cfg.Log.Format),
		Dir:     cfg.Log.Dir,
		Service: service,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	logger.Install()
	return logger, nil
}

// buildInspector loads the rules for languages and creates an Inspector.
// Start is left to the caller.
func buildInspector(cfg *config.ServerConfig, languages []string) (*inspection.Inspector, map[string]*config.LanguageConfig, error) {
	policy, err := inspection.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New()
	annotators := inspection.DefaultAnnotators()
	rules, err := config.LoadRules(cfg.RulesDir, languages, inspection.NewCatalog(eng, annotators))
	if err != nil {
		return nil, nil, err
	}
	insp := inspection.New(eng, languages, rules,
		inspection.WithAnnotators(annotators),
		inspection.WithFailurePolicy(policy),
		inspection.WithTemplatesPath(cfg.TemplatesPath),
	)
	return insp, rules, nil
}

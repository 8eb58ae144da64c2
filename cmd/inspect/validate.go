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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianInspect/pkg/ux"
	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

// errInvalidConfig is returned after validate has printed the failure.
var errInvalidConfig = errors.New("invalid configuration")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the server configuration and rule files",
		Long: `Load the server configuration and the rules of every configured language
without starting the server. Unknown check ids, malformed rewrite entries and
invalid settings are reported.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	printer := ux.NewPrinter(cmd.OutOrStdout(), ux.DetectMode(cmd.OutOrStdout()))

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err.Error())
		return errInvalidConfig
	}
	if _, err := inspection.ParseFailurePolicy(cfg.FailurePolicy); err != nil {
		printer.Error(err.Error())
		return errInvalidConfig
	}
	rules, err := config.LoadRules(cfg.RulesDir, cfg.Languages, inspection.NewCatalog(engine.New(), inspection.DefaultAnnotators()))
	if err != nil {
		printer.Error(err.Error())
		return errInvalidConfig
	}
	for _, lang := range cfg.Languages {
		r := rules[lang]
		printer.Success(fmt.Sprintf("%s: %d ignored, %d disabled, %d rewritten checks",
			lang, len(r.IgnoredChecks), len(r.DisabledMessages), len(r.RewriteRules)))
	}
	return nil
}

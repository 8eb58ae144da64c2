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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianInspect/pkg/ux"
	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks [language]...",
		Short: "List the check catalog",
		Long: `List every check the engine provides for each language, marking the
checks the loaded rules ignore. Without arguments every built-in language is
listed.`,
		RunE: runChecks,
	}
}

func runChecks(cmd *cobra.Command, args []string) error {
	languages := args
	if len(languages) == 0 {
		languages = engine.LanguageIDs()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng := engine.New()
	rules, err := config.LoadRules(cfg.RulesDir, languages, inspection.NewCatalog(eng, inspection.DefaultAnnotators()))
	if err != nil {
		return err
	}

	printer := ux.NewPrinter(cmd.OutOrStdout(), ux.DetectMode(cmd.OutOrStdout()))
	for _, lang := range languages {
		checks, err := eng.Checks(lang)
		if err != nil {
			return err
		}
		rows := make([]ux.Check, 0, len(checks))
		for _, c := range checks {
			rows = append(rows, ux.Check{
				ID:          c.ID(),
				DisplayName: c.DisplayName(),
				Ignored:     rules[lang].IsIgnored(c.ID()),
			})
		}
		printer.Checks(lang, rows)
	}
	return nil
}

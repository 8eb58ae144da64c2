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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianInspect/pkg/ux"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/server"
)

// errProblemsFound makes check exit non-zero without printing an error.
var errProblemsFound = errors.New("problems found")

// extensionLanguages maps file extensions to language ids.
var extensionLanguages = map[string]string{
	".py":  engine.LanguagePython,
	".pyi": engine.LanguagePython,
	".kt":  engine.LanguageKotlin,
	".kts": engine.LanguageKotlin,
}

// inspectFunc inspects one text and returns printable problems.
type inspectFunc func(ctx context.Context, language, text string) ([]ux.Problem, error)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Inspect source files",
		Long: `Inspect source files and print the problems found.

Files are inspected in-process by default. With --server the files are sent
to a running inspection server over gRPC. The language comes from the file
extension (.py, .pyi, .kt, .kts) unless --language is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("server", "", "Address of a running inspection server (host:port)")
	cmd.Flags().String("language", "", "Language for every file, overriding the extension")
	cmd.Flags().Bool("fail-on-problems", false, "Exit non-zero when any problem is reported")
	cmd.Flags().Duration("timeout", 30*time.Second, "Timeout for each remote request")
	return cmd
}

func runCheck(cmd *cobra.Command, files []string) error {
	override, _ := cmd.Flags().GetString("language")
	languages := make(map[string]string, len(files))
	for _, f := range files {
		lang, err := languageFor(f, override)
		if err != nil {
			return err
		}
		languages[f] = lang
	}

	var (
		inspect inspectFunc
		cleanup func()
		err     error
	)
	if addr, _ := cmd.Flags().GetString("server"); addr != "" {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		inspect, cleanup, err = remoteInspect(addr, timeout)
	} else {
		inspect, cleanup, err = localInspect(cmd, uniqueValues(files, languages))
	}
	if err != nil {
		return err
	}
	defer cleanup()

	printer := ux.NewPrinter(cmd.OutOrStdout(), ux.DetectMode(cmd.OutOrStdout()))
	total := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		problems, err := inspect(cmd.Context(), languages[f], string(data))
		if err != nil {
			return fmt.Errorf("inspect %s: %w", f, err)
		}
		printer.Problems(f, problems)
		total += len(problems)
	}
	if len(files) > 1 {
		printer.Summary(total)
	}

	if fail, _ := cmd.Flags().GetBool("fail-on-problems"); fail && total > 0 {
		return errProblemsFound
	}
	return nil
}

// languageFor resolves the language of a file.
func languageFor(file, override string) (string, error) {
	if override != "" {
		if _, err := engine.LookupLanguage(override); err != nil {
			return "", err
		}
		return override, nil
	}
	ext := strings.ToLower(filepath.Ext(file))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("cannot infer language of %s; use --language", file)
}

// uniqueValues returns the languages of files in first-seen order.
func uniqueValues(files []string, languages map[string]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		if lang := languages[f]; !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}

func localInspect(cmd *cobra.Command, languages []string) (inspectFunc, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		cfg.Log.Level = "warn"
	}
	logger, err := setupLogging(cfg, "inspect-check")
	if err != nil {
		return nil, nil, err
	}

	insp, _, err := buildInspector(cfg, languages)
	if err != nil {
		logger.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = insp.Close(context.Background())
		logger.Close()
	}
	if err := insp.Start(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, err
	}

	inspect := func(ctx context.Context, language, text string) ([]ux.Problem, error) {
		res, err := insp.Inspect(ctx, language, text)
		if err != nil {
			return nil, err
		}
		out := make([]ux.Problem, 0, len(res.Problems))
		for _, p := range res.Problems {
			out = append(out, ux.Problem{
				Inspector:   p.CheckID,
				Description: p.Message,
				Line:        p.Line,
				Offset:      p.Offset,
				Length:      p.Length,
			})
		}
		return out, nil
	}
	return inspect, cleanup, nil
}

func remoteInspect(addr string, timeout time.Duration) (inspectFunc, func(), error) {
	client, err := server.Dial(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	cleanup := func() { _ = client.Close() }

	inspect := func(ctx context.Context, language, text string) ([]ux.Problem, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		resp, err := client.Inspect(ctx, language, text)
		if err != nil {
			return nil, err
		}
		out := make([]ux.Problem, 0, len(resp.Problems))
		for _, p := range resp.Problems {
			out = append(out, ux.Problem{
				Inspector:   p.Inspector,
				Description: p.Description,
				Line:        int(p.LineNumber),
				Offset:      int(p.Offset),
				Length:      int(p.Length),
			})
		}
		return out, nil
	}
	return inspect, cleanup, nil
}

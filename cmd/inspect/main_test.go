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
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/server"
)

const boolSrc = "b = 5\nif b != False:\n    print(1)\n"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		file     string
		override string
		want     string
		wantErr  bool
	}{
		{"main.py", "", engine.LanguagePython, false},
		{"stubs.PYI", "", engine.LanguagePython, false},
		{"Main.kt", "", engine.LanguageKotlin, false},
		{"build.gradle.kts", "", engine.LanguageKotlin, false},
		{"README.md", "", "", true},
		{"script", engine.LanguagePython, engine.LanguagePython, false},
		{"main.py", "Cobol", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.override, func(t *testing.T) {
			got, err := languageFor(tt.file, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_Local(t *testing.T) {
	dir := t.TempDir()
	py := writeFile(t, dir, "main.py", boolSrc)
	kt := writeFile(t, dir, "Main.kt", "fun main() {\n    println(1)\n}\n")

	out, err := execute(t, "check", py, kt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var found bool
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) == 6 && fields[4] == "PySimplifyBooleanCheck" {
			found = true
			assert.Equal(t, py, fields[0])
			assert.Equal(t, "2", fields[1], "lines are printed 1-based")
			assert.Contains(t, fields[5], "is the same with `if a:`")
		}
	}
	assert.True(t, found, out)
	assert.Contains(t, out, "SUMMARY: problems=")
}

func TestCheck_FailOnProblems(t *testing.T) {
	dir := t.TempDir()
	py := writeFile(t, dir, "main.py", boolSrc)

	_, err := execute(t, "check", "--fail-on-problems", py)
	assert.ErrorIs(t, err, errProblemsFound)

	clean := writeFile(t, dir, "clean.py", "x = 1\n")
	_, err = execute(t, "check", "--fail-on-problems", clean)
	assert.NoError(t, err)
}

func TestCheck_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "check", writeFile(t, dir, "notes.txt", "x"))
	assert.ErrorContains(t, err, "cannot infer language")

	_, err = execute(t, "check", filepath.Join(dir, "missing.py"))
	assert.Error(t, err)

	_, err = execute(t, "check")
	assert.Error(t, err, "at least one file is required")
}

func TestCheck_Remote(t *testing.T) {
	cfg, err := config.LoadServerConfig("", nil)
	require.NoError(t, err)
	insp, _, err := buildInspector(cfg, []string{engine.LanguagePython})
	require.NoError(t, err)
	require.NoError(t, insp.Start(context.Background()))
	defer func() { require.NoError(t, insp.Close(context.Background())) }()

	srv := server.New(server.NewService(insp, version), cfg, nil)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis, nil) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	py := writeFile(t, t.TempDir(), "main.py", boolSrc)
	out, err := execute(t, "check", "--server", lis.Addr().String(), py)
	require.NoError(t, err)
	assert.Contains(t, out, "\tPySimplifyBooleanCheck\t")
}

func TestChecks(t *testing.T) {
	out, err := execute(t, "checks", engine.LanguagePython)
	require.NoError(t, err)
	assert.Contains(t, out, "Python\tPySimplifyBooleanCheck\tenabled\t")
	assert.Contains(t, out, "Python\tPyMissingTypeHints\tignored\t")
	assert.NotContains(t, out, "kotlin\t")

	out, err = execute(t, "checks")
	require.NoError(t, err)
	assert.Contains(t, out, "kotlin\t")

	_, err = execute(t, "checks", "Cobol")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--languages", "Python,kotlin")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: Python:")
	assert.Contains(t, out, "OK: kotlin:")

	dir := t.TempDir()
	writeFile(t, dir, "kotlin.yaml", "ignored:\n  - NoSuchCheck\n")
	out, err = execute(t, "validate", "--languages", "kotlin", "--rules-dir", dir)
	assert.ErrorIs(t, err, errInvalidConfig)
	assert.Contains(t, out, "ERROR: ")

	_, err = execute(t, "validate", "--failure-policy", "retry")
	assert.ErrorIs(t, err, errInvalidConfig)
}

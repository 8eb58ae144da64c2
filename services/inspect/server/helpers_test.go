// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

const (
	testVersion = "test"
	boolSrc     = "b = 5\nif b != False:\n    print(1)\n"
	boolSuffix  = "Expression can be simplified, e.g. `if a != False:` is the same with `if a:`"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestService serves Python only, with the embedded rules.
func newTestService(t *testing.T) *Service {
	t.Helper()
	eng := engine.New()
	langs := []string{engine.LanguagePython}
	rules, err := config.LoadRules("", langs, inspection.NewCatalog(eng, inspection.DefaultAnnotators()))
	require.NoError(t, err)

	insp := inspection.New(eng, langs, rules)
	require.NoError(t, insp.Start(context.Background()))
	t.Cleanup(func() { require.NoError(t, insp.Close(context.Background())) })
	return NewService(insp, testVersion)
}

func findProblem(problems []Problem, inspector string) (Problem, bool) {
	for _, p := range problems {
		if p.Inspector == inspector {
			return p, true
		}
	}
	return Problem{}, false
}

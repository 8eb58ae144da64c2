// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kotlin tree-sitter node types used by the checks.
const (
	ktEqualityExpression  = "equality_expression"
	ktBooleanLiteral      = "boolean_literal"
	ktCatchBlock          = "catch_block"
	ktUserType            = "user_type"
	ktFunctionDeclaration = "function_declaration"
	ktSimpleIdentifier    = "simple_identifier"
)

func kotlinChecks() []Check {
	return []Check{
		treeCheck("SimplifyBooleanWithConstants", "Boolean expression can be simplified", checkKotlinBooleanConstant),
		treeCheck("TooGenericExceptionCaught", "Too generic exception caught", checkKotlinGenericCatch),
		treeCheck("FunctionName", "Function naming convention", checkKotlinFunctionName),
	}
}

func checkKotlinBooleanConstant(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != ktEqualityExpression {
			return true
		}
		for _, c := range namedChildren(n) {
			if c.Type() == ktBooleanLiteral {
				problems = append(problems, problemAt(n, "Boolean expression can be simplified"))
				break
			}
		}
		return true
	})
	return problems
}

var genericKotlinExceptions = map[string]bool{
	"Exception": true, "Throwable": true, "RuntimeException": true,
	"java.lang.Exception": true, "kotlin.Exception": true, "kotlin.Throwable": true,
}

func checkKotlinGenericCatch(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != ktCatchBlock {
			return true
		}
		caught := firstChildOfType(n, ktUserType)
		if caught == nil {
			return true
		}
		if name := snap.Text(caught); genericKotlinExceptions[name] {
			problems = append(problems, problemAt(caught, fmt.Sprintf("Caught exception is too generic: %s", name)))
		}
		return true
	})
	return problems
}

func checkKotlinFunctionName(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != ktFunctionDeclaration {
			return true
		}
		id := firstChildOfType(n, ktSimpleIdentifier)
		if id == nil {
			return true
		}
		name := snap.Text(id)
		if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
			problems = append(problems, problemAt(id,
				fmt.Sprintf("Function name '%s' should start with a lowercase letter", name)))
		}
		return true
	})
	return problems
}

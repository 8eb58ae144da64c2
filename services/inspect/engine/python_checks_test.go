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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCheck runs the catalog check with the given id against src.
func runCheck(t *testing.T, language, id, src string) []Problem {
	t.Helper()
	checks, err := New().Checks(language)
	require.NoError(t, err)
	doc := openDoc(t, language, src)
	for _, c := range checks {
		if c.ID() == id {
			problems, err := c.Inspect(doc.Snapshot())
			require.NoError(t, err)
			return problems
		}
	}
	t.Fatalf("check %s not registered for %s", id, language)
	return nil
}

func messages(problems []Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Message)
	}
	return out
}

func TestPySimplifyBooleanCheck(t *testing.T) {
	src := "b = 5\nif b != False:\n    print(1)\n"
	problems := runCheck(t, LanguagePython, "PySimplifyBooleanCheck", src)
	require.Len(t, problems, 1)
	assert.Equal(t, "Expression can be simplified", problems[0].Message)
	assert.Equal(t, 1, problems[0].Line)
	assert.Equal(t, "b != False", src[problems[0].Offset:problems[0].Offset+problems[0].Length])

	assert.Empty(t, runCheck(t, LanguagePython, "PySimplifyBooleanCheck", "if b != 0:\n    pass\n"))
}

func TestPyArgumentEqualDefault(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"positional", "def my_function(a: int = 2):\n    print(a)\n\n\nmy_function(2)\n", 1},
		{"keyword", "def f(a, b=None):\n    pass\n\n\nf(1, b=None)\n", 1},
		{"different value", "def f(a=2):\n    pass\n\n\nf(3)\n", 0},
		{"unknown function", "g(2)\n", 0},
		{"splat stops matching", "def f(a=1):\n    pass\n\n\nf(*args)\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := runCheck(t, LanguagePython, "PyArgumentEqualDefault", tt.src)
			assert.Len(t, problems, tt.want)
			for _, p := range problems {
				assert.Equal(t, "Argument equals to the default parameter value", p.Message)
			}
		})
	}
}

func TestPyBroadException(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"bare except", "try:\n    x = 1\nexcept:\n    pass\n", 1},
		{"Exception", "try:\n    x = 1\nexcept Exception:\n    pass\n", 1},
		{"Exception with alias", "try:\n    x = 1\nexcept Exception as e:\n    pass\n", 1},
		{"specific", "try:\n    x = 1\nexcept ValueError:\n    pass\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := runCheck(t, LanguagePython, "PyBroadException", tt.src)
			require.Len(t, problems, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "Too broad exception clause", problems[0].Message)
				assert.Equal(t, 2, problems[0].Line)
			}
		})
	}
}

func TestPyDataclass_Ordering(t *testing.T) {
	src := `from dataclasses import dataclass


@dataclass
class A:
    x: int = 10


a = A(1)
b = A(2)
print(a < b)
`
	problems := runCheck(t, LanguagePython, "PyDataclass", src)
	assert.Equal(t, []string{"'__lt__' not supported between instances of 'A'"}, messages(problems))

	ordered := `from dataclasses import dataclass


@dataclass(order=True)
class A:
    x: int = 10


print(A(1) >= A(2))
`
	assert.Empty(t, runCheck(t, LanguagePython, "PyDataclass", ordered))
}

func TestPyDataclass_InitOnly(t *testing.T) {
	src := `from dataclasses import dataclass, InitVar


@dataclass
class C:
    i: int
    init_only: InitVar[int] = None


c = C(10, init_only=5)
print(c.init_only)
`
	problems := runCheck(t, LanguagePython, "PyDataclass", src)
	assert.Equal(t, []string{
		"'C' object could have no attribute 'init_only' because it is declared as init-only",
	}, messages(problems))
}

func TestPyDataclass_Attrs(t *testing.T) {
	factory := `import attr


@attr.s
class AttrFactory:
    x = attr.ib(default=attr.Factory(int))

    @x.default
    def __init_x__(self):
        return 1
`
	assert.Equal(t, []string{"A default is set using 'attr.ib()'"},
		messages(runCheck(t, LanguagePython, "PyDataclass", factory)))

	params := `import attr


@attr.s
class A:
    x = attr.ib()

    @x.default
    def init_x2(self, attribute, value):
        return 10
`
	assert.Equal(t, []string{"'init_x2' should take only 1 parameter"},
		messages(runCheck(t, LanguagePython, "PyDataclass", params)))
}

func TestPyFinal(t *testing.T) {
	src := `from typing import overload
from typing_extensions import final

class B:
    @overload
    def foo(self, a: int) -> int: ...

    @final
    @overload
    def foo(self, a: str) -> str: ...
`
	problems := runCheck(t, LanguagePython, "PyFinal", src)
	require.Len(t, problems, 1)
	assert.Equal(t, "'@final' should be placed on the implementation", problems[0].Message)
	assert.Equal(t, 7, problems[0].Line)
}

func TestPyComparisonWithNone(t *testing.T) {
	problems := runCheck(t, LanguagePython, "PyComparisonWithNone", "if x == None:\n    pass\n")
	assert.Equal(t, []string{"Comparison with None performed with equality operators"}, messages(problems))

	assert.Empty(t, runCheck(t, LanguagePython, "PyComparisonWithNone", "if x is None:\n    pass\n"))
}

func TestPyShadowingBuiltins(t *testing.T) {
	src := "list = [1]\n\n\ndef f(str):\n    return str\n\n\nclass K:\n    def format(self):\n        pass\n"
	assert.Equal(t, []string{
		"Shadows built-in name 'list'",
		"Shadows built-in name 'str'",
	}, messages(runCheck(t, LanguagePython, "PyShadowingBuiltins", src)))
}

func TestPyUnreachableCode(t *testing.T) {
	src := "def f():\n    return 1\n    x = 2\n    y = 3\n"
	problems := runCheck(t, LanguagePython, "PyUnreachableCode", src)
	require.Len(t, problems, 1)
	assert.Equal(t, "This code is unreachable", problems[0].Message)
	assert.Equal(t, 2, problems[0].Line)
}

func TestPyTrailingSemicolon(t *testing.T) {
	assert.Len(t, runCheck(t, LanguagePython, "PyTrailingSemicolon", "x = 1;\n"), 1)
	assert.Empty(t, runCheck(t, LanguagePython, "PyTrailingSemicolon", "x = 1; y = 2\n"))
}

func TestPyRedeclaration(t *testing.T) {
	redeclared := "def f():\n    pass\n\n\ndef f():\n    pass\n"
	assert.Equal(t, []string{"Redeclared 'f' defined above without usage"},
		messages(runCheck(t, LanguagePython, "PyRedeclaration", redeclared)))

	used := "def f():\n    pass\n\n\nf()\n\n\ndef f():\n    pass\n"
	assert.Empty(t, runCheck(t, LanguagePython, "PyRedeclaration", used))
}

func TestPyDocstrings(t *testing.T) {
	src := "def documented():\n    '''Does things.'''\n\n\ndef bare():\n    pass\n\n\ndef _private():\n    pass\n"
	assert.Equal(t, []string{"Missing docstring"},
		messages(runCheck(t, LanguagePython, "PyMissingOrEmptyDocstring", src)))
	assert.Equal(t, []string{"Triple double-quoted strings should be used for docstrings."},
		messages(runCheck(t, LanguagePython, "PySingleQuotedDocstring", src)))
}

func TestPyMissingTypeHints(t *testing.T) {
	assert.Len(t, runCheck(t, LanguagePython, "PyMissingTypeHints", "def f(a):\n    pass\n"), 1)
	assert.Empty(t, runCheck(t, LanguagePython, "PyMissingTypeHints", "def f(a: int) -> None:\n    pass\n"))
}

func TestPyNonAsciiChar(t *testing.T) {
	assert.Equal(t, []string{"Non-ASCII character in identifier 'café'"},
		messages(runCheck(t, LanguagePython, "PyNonAsciiChar", "café = 1\n")))
}

func TestKotlinChecks(t *testing.T) {
	src := `fun Compute(x: Boolean) {
    if (x == true) {
        println(x)
    }
    try {
        println(1)
    } catch (e: Exception) {
        println(e)
    }
}
`
	assert.Equal(t, []string{"Boolean expression can be simplified"},
		messages(runCheck(t, LanguageKotlin, "SimplifyBooleanWithConstants", src)))
	assert.Equal(t, []string{"Caught exception is too generic: Exception"},
		messages(runCheck(t, LanguageKotlin, "TooGenericExceptionCaught", src)))
	assert.Equal(t, []string{"Function name 'Compute' should start with a lowercase letter"},
		messages(runCheck(t, LanguageKotlin, "FunctionName", src)))

	assert.Empty(t, runCheck(t, LanguageKotlin, "FunctionName", "fun compute() {}\n"))
}

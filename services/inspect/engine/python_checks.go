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
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Python tree-sitter node types used by the checks.
const (
	pyModule              = "module"
	pyBlock               = "block"
	pyFunctionDefinition  = "function_definition"
	pyClassDefinition     = "class_definition"
	pyDecoratedDefinition = "decorated_definition"
	pyDecorator           = "decorator"
	pyExpressionStatement = "expression_statement"
	pyAssignment          = "assignment"
	pyComparison          = "comparison_operator"
	pyCall                = "call"
	pyKeywordArgument     = "keyword_argument"
	pyIdentifier          = "identifier"
	pyAttribute           = "attribute"
	pyString              = "string"
	pyExceptClause        = "except_clause"
	pyAsPattern           = "as_pattern"
	pyDefaultParameter    = "default_parameter"
	pyTypedDefaultParam   = "typed_default_parameter"
	pyTypedParameter      = "typed_parameter"
	pyListSplat           = "list_splat_pattern"
	pyDictSplat           = "dictionary_splat_pattern"
	pyKeywordSeparator    = "keyword_separator"
	pyPositionalSeparator = "positional_separator"
)

// pythonChecks returns the Python catalog in enumeration order.
func pythonChecks() []Check {
	return []Check{
		treeCheck("PySimplifyBooleanCheck", "Redundant boolean variable check", checkSimplifyBoolean),
		treeCheck("PyArgumentEqualDefault", "Argument passed to function is equal to the default parameter value", checkArgumentEqualDefault),
		treeCheck("PyBroadException", "Unclear exception clauses", checkBroadException),
		treeCheck("PyDataclass", "Invalid definition and usage of Data Classes", checkDataclass),
		treeCheck("PyFinal", "Invalid usages of final classes, methods and variables", checkFinal),
		treeCheck("PyComparisonWithNone", "Comparison with None performed with equality operators", checkComparisonWithNone),
		treeCheck("PyShadowingBuiltins", "Shadowing built-in names", checkShadowingBuiltins),
		treeCheck("PyUnreachableCode", "Unreachable code", checkUnreachableCode),
		treeCheck("PyTrailingSemicolon", "Prohibited trailing semicolon in a statement", checkTrailingSemicolon),
		treeCheck("PyRedeclaration", "Redeclared names without usages", checkRedeclaration),
		treeCheck("PyMissingOrEmptyDocstring", "Missing or empty docstring", checkMissingDocstring),
		treeCheck("PySingleQuotedDocstring", "Single quoted docstring", checkSingleQuotedDocstring),
		treeCheck("PyMissingTypeHints", "Missing type hinting for function definition", checkMissingTypeHints),
		treeCheck("PyNonAsciiChar", "File contains non-ASCII character", checkNonASCIIIdentifier),
	}
}

// =============================================================================
// COMPARISONS
// =============================================================================

// comparisonParts splits a comparison into operands and operator tokens.
func comparisonParts(n *sitter.Node) (operands []*sitter.Node, operators []string) {
	for _, c := range children(n) {
		switch {
		case c.Type() == "comment":
		case c.IsNamed():
			operands = append(operands, c)
		default:
			operators = append(operators, c.Type())
		}
	}
	return operands, operators
}

// comparesWithLiteral reports whether n compares an operand of one of the
// literal types using one of ops.
func comparesWithLiteral(n *sitter.Node, literals, ops map[string]bool) bool {
	operands, operators := comparisonParts(n)
	hasOp := false
	for _, op := range operators {
		if ops[op] {
			hasOp = true
			break
		}
	}
	if !hasOp {
		return false
	}
	for _, o := range operands {
		if literals[o.Type()] {
			return true
		}
	}
	return false
}

var (
	booleanLiterals = map[string]bool{"true": true, "false": true}
	noneLiterals    = map[string]bool{"none": true}
	equalityOps     = map[string]bool{"==": true, "!=": true}
	boolCompareOps  = map[string]bool{"==": true, "!=": true, "is": true, "is not": true}
)

func checkSimplifyBoolean(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() == pyComparison && comparesWithLiteral(n, booleanLiterals, boolCompareOps) {
			problems = append(problems, problemAt(n, "Expression can be simplified"))
		}
		return true
	})
	return problems
}

func checkComparisonWithNone(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() == pyComparison && comparesWithLiteral(n, noneLiterals, equalityOps) {
			problems = append(problems, problemAt(n, "Comparison with None performed with equality operators"))
		}
		return true
	})
	return problems
}

// =============================================================================
// CALLS AND PARAMETERS
// =============================================================================

type pyParam struct {
	name       string
	node       *sitter.Node
	def        *sitter.Node
	positional bool
}

// functionParams lists the parameters of a function definition.
func functionParams(snap *Snapshot, fn *sitter.Node) []pyParam {
	var params []pyParam
	positional := true
	for _, p := range namedChildren(fn.ChildByFieldName("parameters")) {
		switch p.Type() {
		case pyIdentifier:
			params = append(params, pyParam{name: snap.Text(p), node: p, positional: positional})
		case pyTypedParameter:
			id := firstChildOfType(p, pyIdentifier)
			if id == nil {
				// *args: T and **kwargs: T
				positional = false
				continue
			}
			params = append(params, pyParam{name: snap.Text(id), node: id, positional: positional})
		case pyDefaultParameter, pyTypedDefaultParam:
			name := p.ChildByFieldName("name")
			params = append(params, pyParam{
				name:       snap.Text(name),
				node:       name,
				def:        p.ChildByFieldName("value"),
				positional: positional,
			})
		case pyListSplat, pyDictSplat, pyKeywordSeparator:
			positional = false
		case pyPositionalSeparator:
		}
	}
	return params
}

var literalTypes = map[string]bool{
	"integer": true, "float": true, "string": true,
	"true": true, "false": true, "none": true,
}

// definitionOf unwraps a decorated definition.
func definitionOf(n *sitter.Node) *sitter.Node {
	if n.Type() == pyDecoratedDefinition {
		return n.ChildByFieldName("definition")
	}
	return n
}

func checkArgumentEqualDefault(snap *Snapshot) []Problem {
	functions := make(map[string][]pyParam)
	for _, stmt := range namedChildren(snap.Root) {
		def := definitionOf(stmt)
		if def == nil || def.Type() != pyFunctionDefinition {
			continue
		}
		functions[snap.Text(def.ChildByFieldName("name"))] = functionParams(snap, def)
	}
	if len(functions) == 0 {
		return nil
	}

	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyCall {
			return true
		}
		callee := n.ChildByFieldName("function")
		if callee == nil || callee.Type() != pyIdentifier {
			return true
		}
		params, ok := functions[snap.Text(callee)]
		if !ok {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Type() != "argument_list" {
			return true
		}
		index := 0
		for _, arg := range namedChildren(args) {
			var param *pyParam
			value := arg
			switch arg.Type() {
			case pyKeywordArgument:
				name := snap.Text(arg.ChildByFieldName("name"))
				value = arg.ChildByFieldName("value")
				for i := range params {
					if params[i].name == name {
						param = &params[i]
						break
					}
				}
			case "list_splat", "dictionary_splat":
				return true
			default:
				if index < len(params) && params[index].positional {
					param = &params[index]
				}
				index++
			}
			if param == nil || param.def == nil || value == nil || !literalTypes[param.def.Type()] {
				continue
			}
			if snap.Text(value) == snap.Text(param.def) {
				problems = append(problems, problemAt(arg, "Argument equals to the default parameter value"))
			}
		}
		return true
	})
	return problems
}

// =============================================================================
// EXCEPTIONS
// =============================================================================

var broadExceptions = map[string]bool{"Exception": true, "BaseException": true}

func checkBroadException(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyExceptClause {
			return true
		}
		var caught *sitter.Node
		for _, c := range namedChildren(n) {
			if c.Type() != pyBlock {
				caught = c
				break
			}
		}
		if caught != nil && caught.Type() == pyAsPattern {
			caught = caught.NamedChild(0)
		}
		if caught == nil || (caught.Type() == pyIdentifier && broadExceptions[snap.Text(caught)]) {
			problems = append(problems, problemAt(n.Child(0), "Too broad exception clause"))
		}
		return true
	})
	return problems
}

// =============================================================================
// DECORATORS, DATACLASSES AND FINAL
// =============================================================================

// decoratorExprs returns the decorator expressions of a decorated definition.
func decoratorExprs(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	if n == nil || n.Type() != pyDecoratedDefinition {
		return nil
	}
	for _, c := range namedChildren(n) {
		if c.Type() == pyDecorator && c.NamedChildCount() > 0 {
			out = append(out, c.NamedChild(0))
		}
	}
	return out
}

// decoratorName returns the dotted name of a decorator, without call args.
func decoratorName(snap *Snapshot, expr *sitter.Node) string {
	if expr.Type() == pyCall {
		expr = expr.ChildByFieldName("function")
	}
	return snap.Text(expr)
}

func hasDecorator(snap *Snapshot, decorated *sitter.Node, name string) *sitter.Node {
	for _, expr := range decoratorExprs(decorated) {
		if lastSegment(decoratorName(snap, expr)) == name {
			return expr.Parent()
		}
	}
	return nil
}

func checkFinal(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyDecoratedDefinition {
			return true
		}
		def := definitionOf(n)
		if def == nil || def.Type() != pyFunctionDefinition {
			return true
		}
		final := hasDecorator(snap, n, "final")
		if final != nil && hasDecorator(snap, n, "overload") != nil {
			problems = append(problems, problemAt(final, "'@final' should be placed on the implementation"))
		}
		return true
	})
	return problems
}

type pyClassInfo struct {
	name     string
	node     *sitter.Node
	ordered  bool
	initOnly map[string]bool
}

// keywordValue returns the text of keyword argument key in a call.
func keywordValue(snap *Snapshot, call *sitter.Node, key string) (string, bool) {
	if call == nil || call.Type() != pyCall {
		return "", false
	}
	for _, arg := range namedChildren(call.ChildByFieldName("arguments")) {
		if arg.Type() == pyKeywordArgument && snap.Text(arg.ChildByFieldName("name")) == key {
			return snap.Text(arg.ChildByFieldName("value")), true
		}
	}
	return "", false
}

// classAssignments returns the assignments made directly in a class body.
func classAssignments(class *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, stmt := range namedChildren(class.ChildByFieldName("body")) {
		if stmt.Type() != pyExpressionStatement {
			continue
		}
		if a := stmt.NamedChild(0); a != nil && a.Type() == pyAssignment {
			out = append(out, a)
		}
	}
	return out
}

var attrsDecorators = map[string]bool{
	"attr.s": true, "attr.attrs": true, "attr.define": true, "attr.frozen": true, "attr.mutable": true,
	"attrs.define": true, "attrs.frozen": true, "attrs.mutable": true, "define": true, "frozen": true,
}

var attrsFieldCalls = map[string]bool{
	"attr.ib": true, "attr.attrib": true, "attr.field": true, "attrs.field": true, "field": true,
}

func checkDataclass(snap *Snapshot) []Problem {
	var problems []Problem
	classes := make(map[string]*pyClassInfo)

	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyDecoratedDefinition {
			return true
		}
		class := definitionOf(n)
		if class == nil || class.Type() != pyClassDefinition {
			return true
		}
		for _, expr := range decoratorExprs(n) {
			name := decoratorName(snap, expr)
			switch {
			case lastSegment(name) == "dataclass":
				ordered, _ := keywordValue(snap, expr, "order")
				info := &pyClassInfo{
					name:     snap.Text(class.ChildByFieldName("name")),
					node:     class,
					ordered:  ordered == "True",
					initOnly: make(map[string]bool),
				}
				for _, a := range classAssignments(class) {
					typ := snap.Text(a.ChildByFieldName("type"))
					if lastSegment(strings.SplitN(typ, "[", 2)[0]) == "InitVar" {
						info.initOnly[snap.Text(a.ChildByFieldName("left"))] = true
					}
				}
				classes[info.name] = info
			case attrsDecorators[name]:
				problems = append(problems, checkAttrsClass(snap, class)...)
			}
		}
		return true
	})
	if len(classes) == 0 {
		return problems
	}

	// Names bound to instances of known dataclasses.
	bindings := make(map[string]string)
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyAssignment {
			return true
		}
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if left == nil || right == nil || left.Type() != pyIdentifier || right.Type() != pyCall {
			return true
		}
		if _, ok := classes[snap.Text(right.ChildByFieldName("function"))]; ok {
			bindings[snap.Text(left)] = snap.Text(right.ChildByFieldName("function"))
		}
		return true
	})
	instanceOf := func(n *sitter.Node) string {
		switch n.Type() {
		case pyCall:
			return snap.Text(n.ChildByFieldName("function"))
		case pyIdentifier:
			return bindings[snap.Text(n)]
		}
		return ""
	}

	dunders := map[string]string{"<": "__lt__", ">": "__gt__", "<=": "__le__", ">=": "__ge__"}
	walk(snap.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pyComparison:
			operands, operators := comparisonParts(n)
			if len(operands) != 2 || len(operators) != 1 {
				return true
			}
			dunder, ok := dunders[operators[0]]
			left, right := instanceOf(operands[0]), instanceOf(operands[1])
			if !ok || left == "" || left != right || classes[left].ordered {
				return true
			}
			problems = append(problems, problemAt(n,
				fmt.Sprintf("'%s' not supported between instances of '%s'", dunder, left)))
		case pyAttribute:
			object, attr := n.ChildByFieldName("object"), n.ChildByFieldName("attribute")
			if object == nil || attr == nil || object.Type() != pyIdentifier {
				return true
			}
			owner := bindings[snap.Text(object)]
			if snap.Text(object) == "self" {
				owner = enclosingClassName(snap, n)
			}
			info, ok := classes[owner]
			if !ok || !info.initOnly[snap.Text(attr)] {
				return true
			}
			problems = append(problems, problemAt(n, fmt.Sprintf(
				"'%s' object could have no attribute '%s' because it is declared as init-only",
				owner, snap.Text(attr))))
		}
		return true
	})
	return problems
}

// checkAttrsClass validates @x.default and @x.validator methods of an
// attrs class.
func checkAttrsClass(snap *Snapshot, class *sitter.Node) []Problem {
	fields := make(map[string]bool) // field name -> has default
	for _, a := range classAssignments(class) {
		right := a.ChildByFieldName("right")
		if right == nil || right.Type() != pyCall || !attrsFieldCalls[snap.Text(right.ChildByFieldName("function"))] {
			continue
		}
		_, hasDefault := keywordValue(snap, right, "default")
		_, hasFactory := keywordValue(snap, right, "factory")
		fields[snap.Text(a.ChildByFieldName("left"))] = hasDefault || hasFactory
	}

	var problems []Problem
	for _, stmt := range namedChildren(class.ChildByFieldName("body")) {
		method := definitionOf(stmt)
		if stmt.Type() != pyDecoratedDefinition || method == nil || method.Type() != pyFunctionDefinition {
			continue
		}
		for _, expr := range decoratorExprs(stmt) {
			name := decoratorName(snap, expr)
			field, kind, ok := strings.Cut(name, ".")
			if !ok {
				continue
			}
			hasDefault, isField := fields[field]
			if !isField {
				continue
			}
			methodName := snap.Text(method.ChildByFieldName("name"))
			params := len(functionParams(snap, method))
			switch kind {
			case "default":
				if hasDefault {
					problems = append(problems, problemAt(expr.Parent(), "A default is set using 'attr.ib()'"))
				}
				if params != 1 {
					problems = append(problems, problemAt(method.ChildByFieldName("name"),
						fmt.Sprintf("'%s' should take only 1 parameter", methodName)))
				}
			case "validator":
				if params != 3 {
					problems = append(problems, problemAt(method.ChildByFieldName("name"),
						fmt.Sprintf("'%s' should take only 3 parameters", methodName)))
				}
			}
		}
	}
	return problems
}

// enclosingClassName returns the name of the nearest class containing n.
func enclosingClassName(snap *Snapshot, n *sitter.Node) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == pyClassDefinition {
			return snap.Text(p.ChildByFieldName("name"))
		}
	}
	return ""
}

// =============================================================================
// NAMES
// =============================================================================

var pythonBuiltins = map[string]bool{
	"abs": true, "all": true, "any": true, "bool": true, "bytes": true, "callable": true,
	"chr": true, "dict": true, "dir": true, "divmod": true, "enumerate": true, "eval": true,
	"exec": true, "filter": true, "float": true, "format": true, "hash": true, "help": true,
	"hex": true, "id": true, "input": true, "int": true, "iter": true, "len": true,
	"list": true, "map": true, "max": true, "min": true, "next": true, "object": true,
	"open": true, "ord": true, "pow": true, "print": true, "range": true, "repr": true,
	"reversed": true, "round": true, "set": true, "sorted": true, "str": true, "sum": true,
	"super": true, "tuple": true, "type": true, "vars": true, "zip": true,
}

// inClassBody reports whether n is a statement directly inside a class body.
func inClassBody(n *sitter.Node) bool {
	p := n.Parent()
	for p != nil && (p.Type() == pyDecoratedDefinition || p.Type() == pyExpressionStatement) {
		p = p.Parent()
	}
	return p != nil && p.Type() == pyBlock && p.Parent() != nil && p.Parent().Type() == pyClassDefinition
}

func checkShadowingBuiltins(snap *Snapshot) []Problem {
	var problems []Problem
	report := func(id *sitter.Node) {
		if id != nil && id.Type() == pyIdentifier && pythonBuiltins[snap.Text(id)] {
			problems = append(problems, problemAt(id, fmt.Sprintf("Shadows built-in name '%s'", snap.Text(id))))
		}
	}
	walk(snap.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pyFunctionDefinition:
			if !inClassBody(n) {
				report(n.ChildByFieldName("name"))
			}
			for _, p := range functionParams(snap, n) {
				report(p.node)
			}
		case pyClassDefinition:
			report(n.ChildByFieldName("name"))
		case pyAssignment:
			if !inClassBody(n) {
				report(n.ChildByFieldName("left"))
			}
		case "for_statement":
			report(n.ChildByFieldName("left"))
		}
		return true
	})
	return problems
}

func checkNonASCIIIdentifier(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyIdentifier {
			return true
		}
		text := snap.Text(n)
		for _, r := range text {
			if r >= utf8.RuneSelf {
				problems = append(problems, problemAt(n, fmt.Sprintf("Non-ASCII character in identifier '%s'", text)))
				break
			}
		}
		return true
	})
	return problems
}

// =============================================================================
// CONTROL FLOW AND STATEMENTS
// =============================================================================

var terminalStatements = map[string]bool{
	"return_statement": true, "raise_statement": true,
	"continue_statement": true, "break_statement": true,
}

func checkUnreachableCode(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyBlock && n.Type() != pyModule {
			return true
		}
		terminated := false
		for _, stmt := range namedChildren(n) {
			if terminated {
				problems = append(problems, problemAt(stmt, "This code is unreachable"))
				break
			}
			terminated = terminalStatements[stmt.Type()]
		}
		return true
	})
	return problems
}

func checkTrailingSemicolon(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != ";" || n.IsNamed() {
			return true
		}
		next := nextNonComment(n)
		if next == nil || next.StartPoint().Row > n.StartPoint().Row {
			problems = append(problems, problemAt(n, "Trailing semicolon in the statement"))
		}
		return true
	})
	return problems
}

// identifiersIn returns every identifier text used under n.
func identifiersIn(snap *Snapshot, n *sitter.Node) map[string]bool {
	used := make(map[string]bool)
	walk(n, func(c *sitter.Node) bool {
		if c.Type() == pyIdentifier {
			used[snap.Text(c)] = true
		}
		return true
	})
	return used
}

func checkRedeclaration(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyBlock && n.Type() != pyModule {
			return true
		}
		defined := make(map[string]bool)
		for _, stmt := range namedChildren(n) {
			def := definitionOf(stmt)
			isDef := def != nil && (def.Type() == pyFunctionDefinition || def.Type() == pyClassDefinition)
			if !isDef {
				for name := range identifiersIn(snap, stmt) {
					delete(defined, name)
				}
				continue
			}
			if hasDecorator(snap, stmt, "overload") != nil || hasDecorator(snap, stmt, "setter") != nil ||
				hasDecorator(snap, stmt, "deleter") != nil {
				continue
			}
			nameNode := def.ChildByFieldName("name")
			name := snap.Text(nameNode)
			if defined[name] {
				problems = append(problems, problemAt(nameNode,
					fmt.Sprintf("Redeclared '%s' defined above without usage", name)))
			}
			// Names used inside the new body count as usages of earlier ones.
			for used := range identifiersIn(snap, def.ChildByFieldName("body")) {
				delete(defined, used)
			}
			defined[name] = true
		}
		return true
	})
	return problems
}

// =============================================================================
// DOCSTRINGS AND TYPE HINTS
// =============================================================================

// docstringOf returns the docstring node of a module or definition body.
func docstringOf(body *sitter.Node) *sitter.Node {
	stmts := namedChildren(body)
	if len(stmts) == 0 || stmts[0].Type() != pyExpressionStatement {
		return nil
	}
	if s := stmts[0].NamedChild(0); s != nil && s.Type() == pyString && stmts[0].NamedChildCount() == 1 {
		return s
	}
	return nil
}

// stringBody strips prefix and quotes from a string literal.
func stringBody(lit string) string {
	lit = strings.TrimLeft(lit, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(lit, q) && strings.HasSuffix(lit, q) && len(lit) >= 2*len(q) {
			return lit[len(q) : len(lit)-len(q)]
		}
	}
	return lit
}

func checkMissingDocstring(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyFunctionDefinition && n.Type() != pyClassDefinition {
			return true
		}
		name := n.ChildByFieldName("name")
		if strings.HasPrefix(snap.Text(name), "_") {
			return true
		}
		doc := docstringOf(n.ChildByFieldName("body"))
		switch {
		case doc == nil:
			problems = append(problems, problemAt(name, "Missing docstring"))
		case strings.TrimSpace(stringBody(snap.Text(doc))) == "":
			problems = append(problems, problemAt(doc, "Empty docstring"))
		}
		return true
	})
	return problems
}

func checkSingleQuotedDocstring(snap *Snapshot) []Problem {
	var problems []Problem
	check := func(body *sitter.Node) {
		doc := docstringOf(body)
		if doc != nil && !strings.HasPrefix(strings.TrimLeft(snap.Text(doc), "rRuU"), `"""`) {
			problems = append(problems, problemAt(doc, "Triple double-quoted strings should be used for docstrings."))
		}
	}
	check(snap.Root)
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() == pyFunctionDefinition || n.Type() == pyClassDefinition {
			check(n.ChildByFieldName("body"))
		}
		return true
	})
	return problems
}

func checkMissingTypeHints(snap *Snapshot) []Problem {
	var problems []Problem
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() != pyFunctionDefinition {
			return true
		}
		missing := n.ChildByFieldName("return_type") == nil
		for i, p := range namedChildren(n.ChildByFieldName("parameters")) {
			if i == 0 && inClassBody(n) && p.Type() == pyIdentifier {
				continue // self / cls
			}
			if p.Type() == pyIdentifier || p.Type() == pyDefaultParameter {
				missing = true
			}
		}
		if missing {
			problems = append(problems, problemAt(n.ChildByFieldName("name"),
				"Type hinting is missing for a function definition"))
		}
		return true
	})
	return problems
}

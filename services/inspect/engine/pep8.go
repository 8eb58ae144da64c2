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
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// MaxLineLength is the PEP-8 physical line limit.
const MaxLineLength = 79

var pep8Codes = []string{
	"E111", "E231", "E261", "E262", "E265", "E302", "E303", "E401", "E501",
	"E701", "E702", "E703", "E711", "E712", "E741",
	"W191", "W291", "W292", "W293", "W391",
}

// PEP8Annotator reports pycodestyle-compatible style violations for Python.
//
// Physical-line rules (E501, W291, ...) work on the raw text. Logical rules
// (E231, E711, ...) work on the syntax tree so that string and comment
// contents never produce false positives.
type PEP8Annotator struct{}

// NewPEP8Annotator creates the PEP-8 annotator.
func NewPEP8Annotator() *PEP8Annotator {
	return &PEP8Annotator{}
}

// Name implements Annotator.
func (a *PEP8Annotator) Name() string { return "PEP-8" }

// Codes implements Annotator.
func (a *PEP8Annotator) Codes() []string {
	out := make([]string, len(pep8Codes))
	copy(out, pep8Codes)
	return out
}

// Annotate implements Annotator.
//
// Outputs:
//
//	[]Annotation - Sorted by line, then offset, then code.
//	error - Non-nil if the snapshot is not Python.
func (a *PEP8Annotator) Annotate(snap *Snapshot) ([]Annotation, error) {
	if snap.Language != LanguagePython {
		return nil, fmt.Errorf("%w: PEP-8 annotates Python, got %q", ErrUnsupportedLanguage, snap.Language)
	}
	p := newPep8Pass(snap)
	p.physicalLines()
	p.blankLines()
	p.tree()

	sort.SliceStable(p.out, func(i, j int) bool {
		x, y := p.out[i], p.out[j]
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.Offset != y.Offset {
			return x.Offset < y.Offset
		}
		return x.Code < y.Code
	})
	return p.out, nil
}

type pep8Pass struct {
	snap       *Snapshot
	lines      []string
	lineStarts []int
	// stringRows marks rows that lie inside a multi-line string literal.
	stringRows map[int]bool
	out        []Annotation
}

func newPep8Pass(snap *Snapshot) *pep8Pass {
	text := string(snap.Source)
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	starts := make([]int, len(lines))
	offset := 0
	for i, l := range lines {
		starts[i] = offset
		offset += len(l) + 1
	}

	p := &pep8Pass{snap: snap, lines: lines, lineStarts: starts, stringRows: make(map[int]bool)}
	walk(snap.Root, func(n *sitter.Node) bool {
		if n.Type() == pyString {
			for row := int(n.StartPoint().Row) + 1; row <= int(n.EndPoint().Row); row++ {
				p.stringRows[row] = true
			}
			return false
		}
		return true
	})
	return p
}

func (p *pep8Pass) add(code string, line, col, length int, msg string) {
	offset := NoAnchor
	if line < len(p.lineStarts) {
		offset = p.lineStarts[line] + col
	}
	p.out = append(p.out, Annotation{Code: code, Message: msg, Line: line, Offset: offset, Length: length})
}

func (p *pep8Pass) addNode(code string, n *sitter.Node, msg string) {
	p.out = append(p.out, Annotation{
		Code:    code,
		Message: msg,
		Line:    int(n.StartPoint().Row),
		Offset:  int(n.StartByte()),
		Length:  int(n.EndByte() - n.StartByte()),
	})
}

// physicalLines runs the per-line rules: W191, W291, W293, E501, W292, W391.
func (p *pep8Pass) physicalLines() {
	for i, line := range p.lines {
		trimmed := strings.TrimRight(line, " \t\r\f\v")
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if strings.Contains(indent, "\t") && !p.stringRows[i] {
			p.add("W191", i, 0, len(indent), "indentation contains tabs")
		}
		switch {
		case trimmed == "" && line != "":
			p.add("W293", i, 0, len(line), "whitespace on blank line")
		case len(trimmed) < len(strings.TrimRight(line, "\r")):
			p.add("W291", i, len(trimmed), len(line)-len(trimmed), "trailing whitespace")
		}
		if n := utf8.RuneCountInString(strings.TrimRight(line, "\r")); n > MaxLineLength {
			col := len(string([]rune(line)[:MaxLineLength]))
			p.add("E501", i, col, len(line)-col, fmt.Sprintf("line too long (%d > %d characters)", n, MaxLineLength))
		}
	}

	src := p.snap.Source
	if len(src) == 0 {
		return
	}
	if src[len(src)-1] != '\n' {
		last := len(p.lines) - 1
		p.add("W292", last, len(p.lines[last]), 0, "no newline at end of file")
		return
	}
	if last := len(p.lines) - 1; last >= 0 && strings.TrimSpace(p.lines[last]) == "" {
		p.add("W391", last, 0, len(p.lines[last]), "blank line at end of file")
	}
}

// blankLines runs E302 and E303.
func (p *pep8Pass) blankLines() {
	blank := 0
	for i, line := range p.lines {
		if p.stringRows[i] {
			blank = 0
			continue
		}
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		if blank > 2 || (indented && blank == 2) {
			p.add("E303", i, 0, 0, fmt.Sprintf("too many blank lines (%d)", blank))
		}
		blank = 0
	}

	stmts := namedChildren(p.snap.Root)
	for idx, stmt := range stmts {
		def := definitionOf(stmt)
		if idx == 0 || def == nil || (def.Type() != pyFunctionDefinition && def.Type() != pyClassDefinition) {
			continue
		}
		row := int(stmt.StartPoint().Row)
		// Comments directly above a definition belong to it.
		for row > 0 && strings.HasPrefix(strings.TrimSpace(p.lines[row-1]), "#") {
			row--
		}
		found := 0
		for r := row - 1; r >= 0 && strings.TrimSpace(p.lines[r]) == ""; r-- {
			found++
		}
		if found < 2 {
			p.add("E302", int(stmt.StartPoint().Row), 0, 0, fmt.Sprintf("expected 2 blank lines, found %d", found))
		}
	}
}

var comparisonAdvice = map[string]string{
	"== None":  "comparison to None should be 'if cond is None:'",
	"!= None":  "comparison to None should be 'if cond is not None:'",
	"== True":  "comparison to True should be 'if cond is True:' or 'if cond:'",
	"!= True":  "comparison to True should be 'if cond is not True:' or 'if not cond:'",
	"== False": "comparison to False should be 'if cond is False:' or 'if not cond:'",
	"!= False": "comparison to False should be 'if cond is not False:' or 'if cond:'",
}

var ambiguousNames = map[string]bool{"l": true, "O": true, "I": true}

var compoundBodies = map[string]string{
	"if_statement":       "consequence",
	"elif_clause":        "consequence",
	"for_statement":      "body",
	"while_statement":    "body",
	"with_statement":     "body",
	"try_statement":      "body",
	pyFunctionDefinition: "body",
	pyClassDefinition:    "body",
	"else_clause":        "body",
	"finally_clause":     "",
	pyExceptClause:       "",
}

// tree runs the syntax-aware rules.
func (p *pep8Pass) tree() {
	src := p.snap.Source
	walk(p.snap.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case ",":
			end := int(n.EndByte())
			if end < len(src) && !strings.ContainsRune(" \t\n\r)]", rune(src[end])) {
				p.addNode("E231", n, "missing whitespace after ','")
			}
		case ":":
			parent := n.Parent()
			end := int(n.EndByte())
			if parent != nil && parent.Type() == "pair" && end < len(src) && !strings.ContainsRune(" \t\n\r", rune(src[end])) {
				p.addNode("E231", n, "missing whitespace after ':'")
			}
		case ";":
			next := nextNonComment(n)
			if next == nil || next.StartPoint().Row > n.StartPoint().Row {
				p.addNode("E703", n, "statement ends with a semicolon")
			} else {
				p.addNode("E702", n, "multiple statements on one line (semicolon)")
			}
		case "comment":
			p.comment(n)
		case "import_statement":
			names := 0
			for _, c := range namedChildren(n) {
				if c.Type() == "dotted_name" || c.Type() == "aliased_import" {
					names++
				}
			}
			if names > 1 {
				p.addNode("E401", n, "multiple imports on one line")
			}
		case pyComparison:
			operands, _ := comparisonParts(n)
			for _, c := range children(n) {
				if c.IsNamed() || (c.Type() != "==" && c.Type() != "!=") {
					continue
				}
				for _, o := range operands {
					code := "E712"
					if o.Type() == "none" {
						code = "E711"
					}
					if msg, ok := comparisonAdvice[c.Type()+" "+p.snap.Text(o)]; ok {
						p.addNode(code, c, msg)
					}
				}
			}
		case pyAssignment:
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == pyIdentifier && ambiguousNames[p.snap.Text(left)] {
				p.addNode("E741", left, fmt.Sprintf("ambiguous variable name '%s'", p.snap.Text(left)))
			}
		case pyBlock:
			for _, stmt := range namedChildren(n) {
				col := int(stmt.StartPoint().Column)
				row := int(stmt.StartPoint().Row)
				if col%4 != 0 && row < len(p.lines) && !strings.Contains(p.lines[row][:col], "\t") &&
					strings.TrimSpace(p.lines[row][:col]) == "" {
					p.add("E111", row, 0, col, "indentation is not a multiple of 4")
				}
			}
		}
		if field, ok := compoundBodies[n.Type()]; ok {
			body := n.ChildByFieldName(field)
			if field == "" || body == nil {
				body = firstChildOfType(n, pyBlock)
			}
			if body != nil && body.NamedChildCount() > 0 && body.StartPoint().Row == n.StartPoint().Row {
				p.addNode("E701", body, "multiple statements on one line (colon)")
			}
		}
		return true
	})
}

// comment runs E261, E262 and E265.
func (p *pep8Pass) comment(n *sitter.Node) {
	row := int(n.StartPoint().Row)
	col := int(n.StartPoint().Column)
	if row >= len(p.lines) {
		return
	}
	text := p.snap.Text(n)
	before := p.lines[row][:col]
	if strings.TrimSpace(before) == "" {
		if row == 0 && strings.HasPrefix(text, "#!") {
			return
		}
		if text != "#" && !strings.HasPrefix(text, "# ") && !strings.HasPrefix(text, "#:") &&
			strings.TrimLeft(text, "#") != "" {
			p.addNode("E265", n, "block comment should start with '# '")
		}
		return
	}
	if !strings.HasSuffix(before, "  ") {
		p.add("E261", row, len(strings.TrimRight(before, " \t")), 0, "at least two spaces before inline comment")
	}
	if text != "#" && !strings.HasPrefix(text, "# ") {
		p.addNode("E262", n, "inline comment should start with '# '")
	}
}

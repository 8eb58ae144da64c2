// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux renders CLI output for inspection results.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Aleutian color palette - deep ocean teals and arctic waters
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // borders, accents
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealPrimary).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// Mode selects how much decoration output carries.
type Mode int

const (
	// ModeStyled uses colors, icons and boxes.
	ModeStyled Mode = iota

	// ModeMachine prints tab-separated lines without styling.
	ModeMachine
)

// DetectMode returns ModeStyled when w is a terminal.
func DetectMode(w io.Writer) Mode {
	if f, ok := w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return ModeStyled
		}
	}
	return ModeMachine
}

// Problem is one inspection result row.
type Problem struct {
	Inspector   string
	Description string
	Line        int
	Offset      int
	Length      int
}

// Check is one catalog row.
type Check struct {
	ID          string
	DisplayName string
	Ignored     bool
}

// Printer writes CLI output in one Mode.
type Printer struct {
	w    io.Writer
	mode Mode
}

// NewPrinter creates a Printer.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

// Title prints a styled title. Machine mode prints nothing.
func (p *Printer) Title(text string) {
	if p.mode == ModeMachine {
		return
	}
	fmt.Fprintln(p.w, Styles.Title.Render(text))
}

// Success prints a success line.
func (p *Printer) Success(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Problems prints inspection results for one file. Lines are shown
// 1-based.
func (p *Printer) Problems(file string, problems []Problem) {
	if p.mode == ModeMachine {
		for _, pr := range problems {
			fmt.Fprintf(p.w, "%s\t%d\t%d\t%d\t%s\t%s\n",
				file, pr.Line+1, pr.Offset, pr.Length, pr.Inspector, pr.Description)
		}
		return
	}
	if len(problems) == 0 {
		p.Success(fmt.Sprintf("%s: no problems", file))
		return
	}
	var b strings.Builder
	for i, pr := range problems {
		if i > 0 {
			b.WriteByte('\n')
		}
		loc := Styles.Muted.Render(fmt.Sprintf("%d:%d", pr.Line+1, pr.Offset))
		fmt.Fprintf(&b, "%s %s %s %s", IconWarning.Render(), loc, Styles.Highlight.Render(pr.Inspector), pr.Description)
	}
	fmt.Fprintln(p.w, Styles.Box.Render(Styles.Title.Render(file)+"\n"+b.String()))
	p.Summary(len(problems))
}

// Summary prints the problem count.
func (p *Printer) Summary(total int) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "SUMMARY: problems=%d\n", total)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", Styles.Bold.Render(fmt.Sprintf("%d", total)), Styles.Muted.Render("problems"))
}

// Checks prints a language catalog.
func (p *Printer) Checks(language string, checks []Check) {
	if p.mode == ModeMachine {
		for _, c := range checks {
			state := "enabled"
			if c.Ignored {
				state = "ignored"
			}
			fmt.Fprintf(p.w, "%s\t%s\t%s\t%s\n", language, c.ID, state, c.DisplayName)
		}
		return
	}
	p.Title(language)
	for _, c := range checks {
		icon := IconSuccess.Render()
		name := c.DisplayName
		if c.Ignored {
			icon = Styles.Muted.Render(string(IconBullet))
			name = Styles.Muted.Render(name + " (ignored)")
		}
		fmt.Fprintf(p.w, "  %s %s %s\n", icon, Styles.Bold.Render(c.ID), name)
	}
}

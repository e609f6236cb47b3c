package lox

import (
	"fmt"
	"strings"
)

// Phase names the pipeline stage that reported a static diagnostic.
type Phase int

const (
	PhaseLexical Phase = iota
	PhaseSyntax
	PhaseResolve
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntax:
		return "syntax"
	case PhaseResolve:
		return "resolve"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Diagnostic is a single static error. Reporting one never unwinds the phase
// that found it.
type Diagnostic struct {
	Phase   Phase
	Pos     Position
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", d.Pos.Line, d.Message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", d.Pos.Line, d.Where, d.Message)
}

// Diagnostics collects static errors for a single run. Each phase receives the
// same collector, so a fresh one (or Reset) isolates REPL lines from each other.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) report(phase Phase, pos Position, where, message string) {
	d.items = append(d.items, Diagnostic{Phase: phase, Pos: pos, Where: where, Message: message})
}

func (d *Diagnostics) errorAtToken(phase Phase, tok Token, message string) {
	if tok.Type == tokenEOF {
		d.report(phase, tok.Pos, "at end", message)
		return
	}
	d.report(phase, tok.Pos, fmt.Sprintf("at '%s'", tok.Lexeme), message)
}

// HasErrors reports whether any diagnostic has been collected.
func (d *Diagnostics) HasErrors() bool {
	return len(d.items) > 0
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// Items returns a copy of the collected diagnostics in report order.
func (d *Diagnostics) Items() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Reset drops every collected diagnostic.
func (d *Diagnostics) Reset() {
	d.items = d.items[:0]
}

// Err returns nil when nothing was reported, otherwise a *StaticError carrying
// every diagnostic rendered against source.
func (d *Diagnostics) Err(source string) error {
	if len(d.items) == 0 {
		return nil
	}
	return &StaticError{Diagnostics: d.Items(), source: source}
}

// StaticError aggregates the lexical, syntax and resolution errors of one
// program. A program carrying a StaticError is never executed.
type StaticError struct {
	Diagnostics []Diagnostic
	source      string
}

func (e *StaticError) Error() string {
	var b strings.Builder
	for i, diag := range e.Diagnostics {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(diag.String())
		if frame := formatCodeFrame(e.source, diag.Pos); frame != "" {
			b.WriteString("\n")
			b.WriteString(frame)
		}
	}
	return b.String()
}

// Package analysis wires the scanner and the semantic checker into a single
// run over one source text.
package analysis

import (
	"minipas/analyzer-go/pkg/checker"
	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/lexer"
	"minipas/analyzer-go/pkg/symbols"
	"minipas/analyzer-go/pkg/token"
)

// Options configure a run.
type Options struct {
	// Catalog renders diagnostic messages. Nil means English.
	Catalog *diag.Catalog
}

// Result holds everything a run produced.
type Result struct {
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
	Symbols     *symbols.Table
}

// Analyze scans source and runs both semantic passes. Every call uses fresh
// state. Lexical diagnostics come first, in scan order, followed by semantic
// diagnostics in token order.
func Analyze(source string, opts Options) *Result {
	scanned := lexer.NewScanner(source, opts.Catalog).Run()
	semantic := checker.New(opts.Catalog).Check(scanned.Tokens, scanned.Symbols)

	diags := make([]diag.Diagnostic, 0, len(scanned.Diagnostics)+len(semantic))
	diags = append(diags, scanned.Diagnostics...)
	diags = append(diags, semantic...)
	return &Result{
		Tokens:      scanned.Tokens,
		Diagnostics: diags,
		Symbols:     scanned.Symbols,
	}
}

// Messages returns the rendered diagnostics in production order.
func (r *Result) Messages() []string {
	return diag.Messages(r.Diagnostics)
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Result) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// CountPhase returns how many diagnostics phase p produced.
func (r *Result) CountPhase(p diag.Phase) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Phase == p {
			n++
		}
	}
	return n
}

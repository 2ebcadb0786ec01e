// Package checker runs the semantic passes over a finished token stream: the
// declaration pass records var-section types in the symbol table and the
// usage pass reports identifiers used without a declaration.
package checker

import (
	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/symbols"
	"minipas/analyzer-go/pkg/token"
)

// Checker holds the catalog used to render semantic diagnostics.
type Checker struct {
	catalog *diag.Catalog
}

// New returns a checker. A nil catalog renders English messages.
func New(catalog *diag.Catalog) *Checker {
	if catalog == nil {
		catalog = diag.English()
	}
	return &Checker{catalog: catalog}
}

// Check runs the declaration pass and then the usage pass, returning the
// usage diagnostics in token order.
func (c *Checker) Check(tokens []token.Token, table *symbols.Table) []diag.Diagnostic {
	c.Declare(tokens, table)
	return c.Usages(tokens, table)
}

// Declare walks var sections and marks every listed name as declared with the
// type that follows the colon. It records no diagnostics.
func (c *Checker) Declare(tokens []token.Token, table *symbols.Table) {
	inVarSection := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case token.Var:
			inVarSection = true
			continue
		case token.Begin:
			inVarSection = false
			continue
		}
		if !inVarSection || tok.Kind != token.Identifier {
			continue
		}

		pending := []string{tok.Lexeme}
		j := i + 1
		for j < len(tokens) && tokens[j].Kind != token.Colon {
			if tokens[j].Kind == token.Identifier {
				pending = append(pending, tokens[j].Lexeme)
			}
			j++
		}
		if j < len(tokens)-1 {
			typ := declaredType(tokens[j+1])
			for _, name := range pending {
				table.SetType(name, typ)
				table.MarkDeclared(name)
			}
		}
		// Resume after the type token.
		i = j + 1
	}
}

func declaredType(tok token.Token) string {
	switch {
	case tok.Kind == token.Integer:
		return symbols.TypeInteger
	case tok.Kind == token.Char:
		return symbols.TypeChar
	case tok.Kind == token.MisspelledReserved && tok.Lexeme == "intege":
		return symbols.TypeInteger
	default:
		return symbols.TypeUndefined
	}
}

// Usages reports every identifier after the first BEGIN that is missing from
// the table or was never declared. The table is not modified.
func (c *Checker) Usages(tokens []token.Token, table *symbols.Table) []diag.Diagnostic {
	var diags []diag.Diagnostic
	pastBegin := false
	for _, tok := range tokens {
		if tok.Kind == token.Begin {
			pastBegin = true
			continue
		}
		if !pastBegin || tok.Kind != token.Identifier {
			continue
		}
		if sym, ok := table.Lookup(tok.Lexeme); !ok || !sym.Declared {
			diags = append(diags, c.catalog.New(diag.CodeUndeclaredVariable, tok.Line, tok.Column, tok.Lexeme))
		}
	}
	return diags
}

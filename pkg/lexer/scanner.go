// Package lexer turns source text into tokens, seeding the symbol table with
// every identifier it meets and recording lexical diagnostics along the way.
package lexer

import (
	"strings"
	"unicode"

	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/symbols"
	"minipas/analyzer-go/pkg/token"
)

var singles = map[rune]token.Kind{
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'(': token.LParen,
	')': token.RParen,
}

// Result is the output of a scan.
type Result struct {
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
	Symbols     *symbols.Table
}

// Scanner holds the state of one left-to-right pass over a source.
// A Scanner is single use.
type Scanner struct {
	src     []rune
	pos     int
	line    int
	column  int
	catalog *diag.Catalog

	tokens []token.Token
	diags  []diag.Diagnostic
	table  *symbols.Table
	done   bool
}

// NewScanner prepares a scan of source. A nil catalog renders English messages.
func NewScanner(source string, catalog *diag.Catalog) *Scanner {
	if catalog == nil {
		catalog = diag.English()
	}
	return &Scanner{
		src:     []rune(source),
		line:    1,
		column:  1,
		catalog: catalog,
		table:   symbols.NewTable(),
	}
}

// Scan tokenizes source with English diagnostics.
func Scan(source string) *Result {
	return NewScanner(source, nil).Run()
}

// Run consumes the whole source. The last token is always EOF. Calling Run
// again returns the same result.
func (s *Scanner) Run() *Result {
	if !s.done {
		for {
			s.skipWhitespace()
			if s.atEnd() {
				break
			}
			tok := s.next()
			s.tokens = append(s.tokens, tok)
			if tok.Kind == token.Identifier {
				s.table.InsertIfAbsent(tok.Lexeme, symbols.TypeUndefined, tok.Line)
			}
		}
		s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Line: s.line, Column: s.column})
		s.done = true
	}
	return &Result{
		Tokens:      s.tokens,
		Diagnostics: s.diags,
		Symbols:     s.table,
	}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() rune { return s.src[s.pos] }

func (s *Scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	s.column++
	return r
}

// match consumes the current rune if it equals want.
func (s *Scanner) match(want rune) bool {
	if s.atEnd() || s.src[s.pos] != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) report(code diag.Code, line, column int, args ...any) {
	s.diags = append(s.diags, s.catalog.New(code, line, column, args...))
}

// skipWhitespace skips blanks and tabs and counts \n, \r and \r\n as one line
// break each.
func (s *Scanner) skipWhitespace() {
	for !s.atEnd() {
		switch c := s.peek(); c {
		case ' ', '\t':
			s.advance()
		case '\n', '\r':
			s.pos++
			s.line++
			s.column = 1
			if c == '\r' && !s.atEnd() && s.peek() == '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *Scanner) next() token.Token {
	line, column := s.line, s.column
	c := s.peek()
	switch {
	case unicode.IsDigit(c):
		return s.scanNumber(line, column)
	case unicode.IsLetter(c):
		return s.scanWord(line, column)
	case c == '\'':
		return s.scanString(line, column)
	}

	s.advance()
	tok := func(kind token.Kind, lexeme string) token.Token {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column}
	}
	switch c {
	case ':':
		if s.match('=') {
			return tok(token.Assign, ":=")
		}
		return tok(token.Colon, ":")
	case '=':
		if s.inConditional() {
			return tok(token.Equal, "=")
		}
		s.report(diag.CodeAssignmentEquals, line, column)
		return tok(token.BadAssign, "=")
	case '<':
		if s.match('=') {
			return tok(token.LessEqual, "<=")
		}
		if s.match('>') {
			return tok(token.NotEqual, "<>")
		}
		return tok(token.Less, "<")
	case '>':
		if s.match('=') {
			return tok(token.GreaterEqual, ">=")
		}
		return tok(token.Greater, ">")
	}
	if kind, ok := singles[c]; ok {
		return tok(kind, string(c))
	}
	s.report(diag.CodeInvalidCharacter, line, column, c)
	return tok(token.Error, string(c))
}

// inConditional reports whether an IF or THEN was emitted anywhere earlier in
// the stream. The lookback is not limited to the current statement.
func (s *Scanner) inConditional() bool {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if k := s.tokens[i].Kind; k == token.If || k == token.Then {
			return true
		}
	}
	return false
}

func (s *Scanner) scanNumber(line, column int) token.Token {
	start := s.pos
	for !s.atEnd() && unicode.IsDigit(s.peek()) {
		s.advance()
	}
	return token.Token{Kind: token.Number, Lexeme: string(s.src[start:s.pos]), Line: line, Column: column}
}

func (s *Scanner) scanWord(line, column int) token.Token {
	start := s.pos
	for !s.atEnd() {
		c := s.peek()
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		s.advance()
	}
	word := string(s.src[start:s.pos])
	lower := strings.ToLower(word)

	if kind, ok := token.LookupReserved(lower); ok {
		return token.Token{Kind: kind, Lexeme: lower, Line: line, Column: column}
	}
	if want, ok := token.LookupMisspelling(lower); ok {
		s.report(diag.CodeMisspelledReserved, line, column, lower, want)
		return token.Token{Kind: token.MisspelledReserved, Lexeme: lower, Line: line, Column: column}
	}
	return token.Token{Kind: token.Identifier, Lexeme: word, Line: line, Column: column}
}

// scanString reads a quoted literal. A doubled quote stands for one quote
// character. A raw line break ends the literal with an error and is left in
// place for skipWhitespace.
func (s *Scanner) scanString(line, column int) token.Token {
	var text strings.Builder
	s.advance()
	for !s.atEnd() {
		switch c := s.peek(); c {
		case '\'':
			s.advance()
			if s.match('\'') {
				text.WriteRune('\'')
				continue
			}
			return token.Token{Kind: token.String, Lexeme: text.String(), Line: line, Column: column}
		case '\n', '\r':
			s.report(diag.CodeUnterminatedStringEOL, line, column)
			return token.Token{Kind: token.Error, Lexeme: text.String(), Line: line, Column: column}
		default:
			text.WriteRune(s.advance())
		}
	}
	s.report(diag.CodeUnterminatedStringEOF, line, column)
	return token.Token{Kind: token.Error, Lexeme: text.String(), Line: line, Column: column}
}

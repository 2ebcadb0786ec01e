// Package token defines the token kinds, reserved words and known misspellings of the MiniPascal lexer.
package token

import "fmt"

// Kind classifies a lexical unit.
type Kind int

const (
	Program Kind = iota
	Var
	Begin
	End
	Integer
	Writeln
	If
	Then
	Else
	Char
	Write
	Readln
	Div

	Assign       // :=
	BadAssign    // = where := was required
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Equal        // = inside a condition
	NotEqual     // <>
	Less         // <
	Greater      // >
	LessEqual    // <=
	GreaterEqual // >=
	Semicolon    // ;
	Colon        // :
	Comma        // ,
	Dot          // .
	LParen       // (
	RParen       // )

	Number
	String
	Identifier

	EOF
	Error
	MisspelledReserved
)

var kindNames = [...]string{
	Program:            "PROGRAM",
	Var:                "VAR",
	Begin:              "BEGIN",
	End:                "END",
	Integer:            "INTEGER",
	Writeln:            "WRITELN",
	If:                 "IF",
	Then:               "THEN",
	Else:               "ELSE",
	Char:               "CHAR",
	Write:              "WRITE",
	Readln:             "READLN",
	Div:                "DIV",
	Assign:             "ASSIGN",
	BadAssign:          "BAD_ASSIGN",
	Plus:               "PLUS",
	Minus:              "MINUS",
	Star:               "STAR",
	Slash:              "SLASH",
	Equal:              "EQUAL",
	NotEqual:           "NOT_EQUAL",
	Less:               "LESS",
	Greater:            "GREATER",
	LessEqual:          "LESS_EQUAL",
	GreaterEqual:       "GREATER_EQUAL",
	Semicolon:          "SEMICOLON",
	Colon:              "COLON",
	Comma:              "COMMA",
	Dot:                "DOT",
	LParen:             "LPAREN",
	RParen:             "RPAREN",
	Number:             "NUMBER",
	String:             "STRING",
	Identifier:         "IDENTIFIER",
	EOF:                "EOF",
	Error:              "ERROR",
	MisspelledReserved: "MISSPELLED_RESERVED",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name as printed by String back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// IsReserved reports whether k is one of the reserved-word kinds.
func (k Kind) IsReserved() bool {
	return k >= Program && k <= Div
}

// Token is one classified unit of source text. Line and Column are 1-based and
// locate the token's first character.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (%d:%d)", t.Kind, t.Lexeme, t.Line, t.Column)
}

var reserved = map[string]Kind{
	"program": Program,
	"var":     Var,
	"begin":   Begin,
	"end":     End,
	"integer": Integer,
	"writeln": Writeln,
	"if":      If,
	"then":    Then,
	"else":    Else,
	"char":    Char,
	"write":   Write,
	"readln":  Readln,
	"div":     Div,
}

var misspellings = map[string]string{
	"progra": "program",
	"begi":   "begin",
	"intege": "integer",
}

// LookupReserved returns the reserved-word kind for lower-cased text.
func LookupReserved(lower string) (Kind, bool) {
	k, ok := reserved[lower]
	return k, ok
}

// LookupMisspelling returns the intended spelling for a known near miss of a
// reserved word.
func LookupMisspelling(lower string) (string, bool) {
	w, ok := misspellings[lower]
	return w, ok
}

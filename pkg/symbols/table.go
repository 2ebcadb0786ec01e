// Package symbols holds the ordered symbol table built during analysis.
package symbols

import "sort"

// Declared types recorded for a symbol.
const (
	TypeInteger   = "integer"
	TypeChar      = "char"
	TypeUndefined = "indefinido"
)

// Symbol tracks one identifier: its declared type, the line where it first
// appeared and whether a var section declared it.
type Symbol struct {
	Name      string
	Type      string
	FirstLine int
	Declared  bool
}

// Table maps identifier names to symbols. Names are case-sensitive.
type Table struct {
	symbols map[string]*Symbol
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// InsertIfAbsent records name unless it is already present. The first insert
// wins; later calls never touch the stored line or type.
func (t *Table) InsertIfAbsent(name, typ string, line int) {
	if _, ok := t.symbols[name]; ok {
		return
	}
	t.symbols[name] = &Symbol{Name: name, Type: typ, FirstLine: line}
}

// Lookup returns a copy of the symbol bound to name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	if !ok {
		return Symbol{}, false
	}
	return *sym, true
}

// Exists reports whether name has been recorded.
func (t *Table) Exists(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// MarkDeclared flags name as declared. Unknown names are ignored.
func (t *Table) MarkDeclared(name string) {
	if sym, ok := t.symbols[name]; ok {
		sym.Declared = true
	}
}

// SetType assigns the declared type of name. Unknown names are ignored.
func (t *Table) SetType(name, typ string) {
	if sym, ok := t.symbols[name]; ok {
		sym.Type = typ
	}
}

// Len returns the number of recorded symbols.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Symbols returns copies of every record ordered by first line, then name.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.symbols))
	for _, sym := range t.symbols {
		out = append(out, *sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstLine != out[j].FirstLine {
			return out[i].FirstLine < out[j].FirstLine
		}
		return out[i].Name < out[j].Name
	})
	return out
}

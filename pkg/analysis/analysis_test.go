package analysis

import (
	"reflect"
	"strings"
	"testing"

	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/symbols"
	"minipas/analyzer-go/pkg/token"
)

const faultyProgram = `progra Demo;
var
  x, y: intege;
  letra: char;
begin
  x := 10;
  y = 20;
  z := x + y;
  writeln('Soma: ', x + y);
  writeln('nao fechada);
  letra := 'a' @
end.
`

func TestAnalyzeOrdersLexicalBeforeSemantic(t *testing.T) {
	res := Analyze(faultyProgram, Options{})
	var codes []diag.Code
	for _, d := range res.Diagnostics {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{
		diag.CodeMisspelledReserved,
		diag.CodeMisspelledReserved,
		diag.CodeAssignmentEquals,
		diag.CodeUnterminatedStringEOL,
		diag.CodeInvalidCharacter,
		diag.CodeUndeclaredVariable,
	}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	last := res.Diagnostics[len(res.Diagnostics)-1]
	if last.Line != 8 || last.Column != 3 || !strings.Contains(last.Message, "'z'") {
		t.Fatalf("undeclared diagnostic = %+v", last)
	}
	if res.CountPhase(diag.PhaseLexical) != 5 || res.CountPhase(diag.PhaseSemantic) != 1 {
		t.Fatalf("phase counts = %d/%d", res.CountPhase(diag.PhaseLexical), res.CountPhase(diag.PhaseSemantic))
	}
	if !res.HasErrors() {
		t.Fatalf("HasErrors = false")
	}
}

func TestAnalyzeTypesFromVarSection(t *testing.T) {
	res := Analyze(faultyProgram, Options{})
	for name, typ := range map[string]string{"x": symbols.TypeInteger, "y": symbols.TypeInteger, "letra": symbols.TypeChar} {
		sym, ok := res.Symbols.Lookup(name)
		if !ok || sym.Type != typ || !sym.Declared {
			t.Fatalf("symbol %s = %+v, want %s declared", name, sym, typ)
		}
	}
	z, ok := res.Symbols.Lookup("z")
	if !ok || z.Declared || z.FirstLine != 8 {
		t.Fatalf("symbol z = %+v", z)
	}
	demo, ok := res.Symbols.Lookup("Demo")
	if !ok || demo.FirstLine != 1 {
		t.Fatalf("symbol Demo = %+v", demo)
	}
}

func TestAnalyzeCleanProgram(t *testing.T) {
	src := "program soma;\nvar a, b: integer;\nbegin\n  readln(a);\n  b := a div 2;\n  if a >= b then writeln('ok') else writeln('no')\nend.\n"
	res := Analyze(src, Options{})
	if res.HasErrors() {
		t.Fatalf("expected a clean run, got %q", res.Messages())
	}
	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != token.EOF || last.Line != 8 || last.Column != 1 {
		t.Fatalf("last token = %v, want EOF at 8:1", last)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	first := Analyze(faultyProgram, Options{})
	second := Analyze(faultyProgram, Options{})
	if !reflect.DeepEqual(first.Tokens, second.Tokens) {
		t.Fatalf("token streams differ between runs")
	}
	if !reflect.DeepEqual(first.Messages(), second.Messages()) {
		t.Fatalf("diagnostics differ between runs")
	}
	if !reflect.DeepEqual(first.Symbols.Symbols(), second.Symbols.Symbols()) {
		t.Fatalf("symbol tables differ between runs")
	}
	if first.Symbols == second.Symbols {
		t.Fatalf("runs must not share a symbol table")
	}
}

func TestAnalyzeBadAssignScenario(t *testing.T) {
	res := Analyze("begin x = 5 end.", Options{})
	if res.Tokens[2].Kind != token.BadAssign {
		t.Fatalf("token 2 = %v, want BAD_ASSIGN", res.Tokens[2])
	}
	msgs := res.Messages()
	if len(msgs) != 2 || !strings.Contains(msgs[0], "':='") || !strings.Contains(msgs[1], "'x'") {
		t.Fatalf("messages = %q", msgs)
	}
}

func TestAnalyzeWithPortugueseCatalog(t *testing.T) {
	pt, err := diag.CatalogFor("pt")
	if err != nil {
		t.Fatalf("CatalogFor: %v", err)
	}
	res := Analyze("var x: integer; begin y := 5 end.", Options{Catalog: pt})
	want := []string{"ERRO (linha 1, coluna 23): Variável 'y' não foi declarada"}
	if got := res.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %q, want %q", got, want)
	}
}

func TestAnalyzeSymbolPerDistinctName(t *testing.T) {
	res := Analyze("a\nb a\n a b c", Options{})
	if res.Symbols.Len() != 3 {
		t.Fatalf("Len = %d, want 3", res.Symbols.Len())
	}
	lines := map[string]int{}
	for _, sym := range res.Symbols.Symbols() {
		lines[sym.Name] = sym.FirstLine
	}
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("first lines = %v, want %v", lines, want)
	}
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"minipas/analyzer-go/pkg/analysis"
	"minipas/analyzer-go/pkg/diag"
)

const undeclaredProgram = "program P;\nvar x: integer;\nbegin\n  x := 1;\n  y := 2\nend."

func buildReport(t *testing.T, source string) *Report {
	t.Helper()
	res := analysis.Analyze(source, analysis.Options{})
	return New("prog.pas", len(source), res)
}

func TestNewAssignsRunID(t *testing.T) {
	a := buildReport(t, undeclaredProgram)
	b := buildReport(t, undeclaredProgram)
	if a.RunID == "" || a.RunID == b.RunID {
		t.Fatalf("run IDs = %q, %q, want distinct non-empty", a.RunID, b.RunID)
	}
	if len(a.Symbols) != 3 || a.Symbols[0].Name != "P" || a.Symbols[2].Name != "y" {
		t.Fatalf("symbols = %+v", a.Symbols)
	}
}

func TestWriteTextSections(t *testing.T) {
	r := buildReport(t, undeclaredProgram)
	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"=== LEXICAL ANALYSIS REPORT ===",
		"File: prog.pas",
		"Total tokens: 19",
		"Total errors: 1",
		"Total symbols: 3",
		"1. PROGRAM - 'program' (line 1, column 1)",
		"19. EOF - '' (line 6, column 5)",
		"1. ERROR (line 5, column 3): variable 'y' was not declared",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Revision:") {
		t.Fatalf("unexpected revision line:\n%s", out)
	}

	var xRow []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "x ") {
			xRow = strings.Fields(line)
		}
	}
	if strings.Join(xRow, " ") != "x integer 2 yes" {
		t.Fatalf("symbol row for x = %v", xRow)
	}
}

func TestWriteTextNoErrors(t *testing.T) {
	r := buildReport(t, "program P;\nbegin\nend.")
	r.Revision = "abc123"
	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No errors found.") || !strings.Contains(out, "Revision: abc123") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestWriteYAML(t *testing.T) {
	r := buildReport(t, undeclaredProgram)
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", r); err != nil {
		t.Fatalf("Write yaml error: %v", err)
	}
	var doc yamlReport
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, buf.String())
	}
	if doc.RunID != r.RunID || doc.File != "prog.pas" {
		t.Fatalf("header = %+v", doc)
	}
	if doc.Statistics.Tokens != 19 || doc.Statistics.Diagnostics != 1 || doc.Statistics.Symbols != 3 {
		t.Fatalf("statistics = %+v", doc.Statistics)
	}
	d := doc.Diagnostics[0]
	if d.Code != "undeclared-variable" || d.Phase != "semantic" || d.Line != 5 || d.Column != 3 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if doc.Tokens[0].Kind != "PROGRAM" {
		t.Fatalf("first token = %+v", doc.Tokens[0])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	r := buildReport(t, undeclaredProgram)
	if err := Write(&bytes.Buffer{}, "html", r); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteFile(path, "html", r); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("report file should not exist, stat err = %v", err)
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	r := buildReport(t, undeclaredProgram)
	dir := filepath.Join(t.TempDir(), "out", "reports")
	path := filepath.Join(dir, "prog.txt")
	if err := WriteFile(path, "text", r); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "=== LEXICAL ANALYSIS REPORT ===") {
		t.Fatalf("report = %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the report in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteFileIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := WriteFile(path, "text", buildReport(t, undeclaredProgram)); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Fatalf("report mode = %v, want -rw-r--r--", got)
	}
}

func portugueseReport(t *testing.T, source string) *Report {
	t.Helper()
	cat, err := diag.CatalogFor("pt")
	if err != nil {
		t.Fatalf("CatalogFor(pt) error: %v", err)
	}
	r := New("prog.pas", len(source), analysis.Analyze(source, analysis.Options{Catalog: cat}))
	r.Catalog = cat
	return r
}

func TestWriteTextPortugueseLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, portugueseReport(t, undeclaredProgram)); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"=== RELATÓRIO DE ANÁLISE LÉXICA ===",
		"Arquivo analisado: prog.pas",
		"Total de tokens: 19",
		"Total de erros: 1",
		"=== TOKENS ENCONTRADOS ===",
		"1. PROGRAM - 'program' (linha 1, coluna 1)",
		"=== TABELA DE SÍMBOLOS ===",
		"=== ERROS ENCONTRADOS ===",
		"1. ERRO (linha 5, coluna 3)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 4 && fields[0] == "Nome" {
			if fields[3] != "Declarado" {
				t.Fatalf("symbol header = %q", line)
			}
		}
		if len(fields) == 4 && fields[0] == "x" && fields[3] != "Sim" {
			t.Fatalf("x row = %q, want Sim", line)
		}
		if len(fields) == 4 && fields[0] == "y" && fields[3] != "Não" {
			t.Fatalf("y row = %q, want Não", line)
		}
	}
	if strings.Contains(out, "SYMBOL TABLE") || strings.Contains(out, " yes") {
		t.Fatalf("english labels leaked into the portuguese report:\n%s", out)
	}

	buf.Reset()
	if err := WriteText(&buf, portugueseReport(t, "begin end.")); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhum erro encontrado!") {
		t.Fatalf("report = %q", buf.String())
	}
}

func TestConsolePortugueseLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := Console(&buf, portugueseReport(t, undeclaredProgram)); err != nil {
		t.Fatalf("Console error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Nome", "Declarado", "Sim", "Mensagem", "Variável 'y' não foi declarada"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Console(&buf, portugueseReport(t, "begin end.")); err != nil {
		t.Fatalf("Console error: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhum erro encontrado!") {
		t.Fatalf("console output = %q", buf.String())
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := Console(&buf, buildReport(t, undeclaredProgram)); err != nil {
		t.Fatalf("Console error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"prog.pas", "Declared", "integer", "variable 'y' was not declared", "semantic"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Console(&buf, buildReport(t, "begin end.")); err != nil {
		t.Fatalf("Console error: %v", err)
	}
	if !strings.Contains(buf.String(), "No errors found.") {
		t.Fatalf("console output = %q", buf.String())
	}
}

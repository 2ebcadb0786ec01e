// Package report renders analysis results as the plain-text report, as YAML,
// or as styled console tables.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"minipas/analyzer-go/pkg/analysis"
	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/symbols"
	"minipas/analyzer-go/pkg/token"
)

// Report is the read-only view of one analysis run handed to the writers.
type Report struct {
	RunID       string
	File        string
	Revision    string
	Generated   time.Time
	SourceSize  int
	Tokens      []token.Token
	Symbols     []symbols.Symbol
	Diagnostics []diag.Diagnostic

	// Catalog renders the report's own labels. Nil means English.
	Catalog *diag.Catalog
}

func (r *Report) label(key diag.Label, args ...any) string {
	return r.Catalog.Label(key, args...)
}

// New captures res for file. The run ID is random and Generated is now.
func New(file string, size int, res *analysis.Result) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		File:        file,
		Generated:   time.Now(),
		SourceSize:  size,
		Tokens:      res.Tokens,
		Symbols:     res.Symbols.Symbols(),
		Diagnostics: res.Diagnostics,
	}
}

// Write renders r in format ("text" or "yaml") to w.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case "", "text":
		return WriteText(w, r)
	case "yaml":
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// WriteFile renders r to path. The report is staged in a temporary file and
// renamed into place, so a failed write leaves no partial report behind.
func WriteFile(path, format string, r *Report) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, r); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".minipas-report-*")
	if err != nil {
		return fmt.Errorf("report: stage %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("report: stage %s: %w", path, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

type yamlReport struct {
	RunID       string           `yaml:"run_id"`
	File        string           `yaml:"file"`
	Revision    string           `yaml:"revision,omitempty"`
	Generated   string           `yaml:"generated"`
	SourceBytes int              `yaml:"source_bytes"`
	Statistics  yamlStatistics   `yaml:"statistics"`
	Tokens      []yamlToken      `yaml:"tokens"`
	Symbols     []yamlSymbol     `yaml:"symbols"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics"`
}

type yamlStatistics struct {
	Tokens      int `yaml:"tokens"`
	Diagnostics int `yaml:"diagnostics"`
	Symbols     int `yaml:"symbols"`
}

type yamlToken struct {
	Kind   string `yaml:"kind"`
	Lexeme string `yaml:"lexeme"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

type yamlSymbol struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	FirstLine int    `yaml:"first_line"`
	Declared  bool   `yaml:"declared"`
}

type yamlDiagnostic struct {
	Code    string `yaml:"code"`
	Phase   string `yaml:"phase"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

func (r *Report) toYAML() yamlReport {
	out := yamlReport{
		RunID:       r.RunID,
		File:        r.File,
		Revision:    r.Revision,
		Generated:   r.Generated.UTC().Format(time.RFC3339),
		SourceBytes: r.SourceSize,
		Statistics: yamlStatistics{
			Tokens:      len(r.Tokens),
			Diagnostics: len(r.Diagnostics),
			Symbols:     len(r.Symbols),
		},
		Tokens:      make([]yamlToken, 0, len(r.Tokens)),
		Symbols:     make([]yamlSymbol, 0, len(r.Symbols)),
		Diagnostics: make([]yamlDiagnostic, 0, len(r.Diagnostics)),
	}
	for _, tok := range r.Tokens {
		out.Tokens = append(out.Tokens, yamlToken{Kind: tok.Kind.String(), Lexeme: tok.Lexeme, Line: tok.Line, Column: tok.Column})
	}
	for _, sym := range r.Symbols {
		out.Symbols = append(out.Symbols, yamlSymbol{Name: sym.Name, Type: sym.Type, FirstLine: sym.FirstLine, Declared: sym.Declared})
	}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, yamlDiagnostic{Code: string(d.Code), Phase: string(d.Phase), Line: d.Line, Column: d.Column, Message: d.Message})
	}
	return out
}

// WriteYAML renders r as a YAML document.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.toYAML()); err != nil {
		return fmt.Errorf("report: marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: encoder close: %w", err)
	}
	return nil
}

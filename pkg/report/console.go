package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"minipas/analyzer-go/pkg/diag"
)

var (
	colorHeader  = lipgloss.Color("#8B5CF6")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle    = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle       = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	lexicalStyle  = lipgloss.NewStyle().Foreground(colorWarning).Padding(0, 1)
	semanticStyle = lipgloss.NewStyle().Foreground(colorError).Padding(0, 1)
)

// Console renders a compact, styled summary of r for terminals: the symbol
// table and the diagnostics as bordered tables. Token listings are left to
// the text and YAML reports.
func Console(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.File))
	meta := fmt.Sprintf("  %d tokens, %d symbols, %s", len(r.Tokens), len(r.Symbols), humanize.Bytes(uint64(r.SourceSize)))
	if r.Revision != "" {
		meta += ", revision " + shortRevision(r.Revision)
	}
	b.WriteString(mutedStyle.Render(meta))
	b.WriteString("\n")

	if len(r.Symbols) > 0 {
		rows := make([][]string, 0, len(r.Symbols))
		for _, sym := range r.Symbols {
			rows = append(rows, []string{sym.Name, sym.Type, strconv.Itoa(sym.FirstLine), r.yesNo(sym.Declared)})
		}
		symbolsTable := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(mutedStyle).
			Headers(r.label(diag.LabelName), r.label(diag.LabelType), r.label(diag.LabelLine), r.label(diag.LabelDeclared)).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		b.WriteString(symbolsTable.Render())
		b.WriteString("\n")
	}

	if len(r.Diagnostics) == 0 {
		b.WriteString(okStyle.Render(r.label(diag.LabelNoErrors)))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			rows = append(rows, []string{strconv.Itoa(d.Line), strconv.Itoa(d.Column), string(d.Phase), d.Message})
		}
		diagnostics := r.Diagnostics
		diagTable := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(mutedStyle).
			Headers(r.label(diag.LabelLine), r.label(diag.LabelColumn), r.label(diag.LabelPhase), r.label(diag.LabelMessage)).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row >= 0 && row < len(diagnostics) && diagnostics[row].Phase == diag.PhaseSemantic {
					return semanticStyle
				}
				return lexicalStyle
			})
		b.WriteString(diagTable.Render())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

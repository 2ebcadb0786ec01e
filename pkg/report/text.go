package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"minipas/analyzer-go/pkg/diag"
)

// WriteText renders the plain-text report: header, statistics, numbered
// tokens, the symbol table and the numbered diagnostics. Labels come from
// r.Catalog.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, r.label(diag.LabelReportTitle))
	fmt.Fprintln(bw, r.label(diag.LabelFile, r.File))
	if r.Revision != "" {
		fmt.Fprintln(bw, r.label(diag.LabelRevision, r.Revision))
	}
	fmt.Fprintln(bw, r.label(diag.LabelRun, r.RunID))
	fmt.Fprintln(bw, r.label(diag.LabelGenerated, r.Generated.Format(time.RFC3339)))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, r.label(diag.LabelStatistics))
	fmt.Fprintln(bw, r.label(diag.LabelTotalTokens, len(r.Tokens)))
	fmt.Fprintln(bw, r.label(diag.LabelTotalErrors, len(r.Diagnostics)))
	fmt.Fprintln(bw, r.label(diag.LabelTotalSymbols, len(r.Symbols)))
	fmt.Fprintln(bw, r.label(diag.LabelSourceSize, humanize.Bytes(uint64(r.SourceSize))))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, r.label(diag.LabelTokens))
	WriteTokens(bw, r)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, r.label(diag.LabelSymbolTable))
	WriteSymbolTable(bw, r)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, r.label(diag.LabelErrors))
	if len(r.Diagnostics) == 0 {
		fmt.Fprintln(bw, r.label(diag.LabelNoErrors))
	} else {
		for i, d := range r.Diagnostics {
			fmt.Fprintf(bw, "%d. %s\n", i+1, d.Message)
		}
	}
	return bw.Flush()
}

// WriteTokens writes one numbered line per token.
func WriteTokens(w io.Writer, r *Report) {
	for i, tok := range r.Tokens {
		fmt.Fprintln(w, r.label(diag.LabelTokenLine,
			strconv.Itoa(i+1), tok.Kind.String(), tok.Lexeme, strconv.Itoa(tok.Line), strconv.Itoa(tok.Column)))
	}
}

// WriteSymbolTable writes the fixed-width symbol table used by the text
// report.
func WriteSymbolTable(w io.Writer, r *Report) {
	fmt.Fprintf(w, "%-15s %-10s %-8s %-10s\n",
		r.label(diag.LabelName), r.label(diag.LabelType), r.label(diag.LabelLine), r.label(diag.LabelDeclared))
	fmt.Fprintln(w, "------------------------------------------------")
	for _, sym := range r.Symbols {
		fmt.Fprintf(w, "%-15s %-10s %-8d %-10s\n", sym.Name, sym.Type, sym.FirstLine, r.yesNo(sym.Declared))
	}
}

func (r *Report) yesNo(b bool) string {
	if b {
		return r.label(diag.LabelYes)
	}
	return r.label(diag.LabelNo)
}

// Package diag defines the diagnostics produced while analyzing a program and
// the catalogs that render them as messages.
package diag

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Phase names the analysis stage that produced a diagnostic.
type Phase string

const (
	PhaseLexical  Phase = "lexical"
	PhaseSemantic Phase = "semantic"
)

// Code identifies the kind of problem a diagnostic reports.
type Code string

const (
	CodeInvalidCharacter      Code = "invalid-character"
	CodeMisspelledReserved    Code = "misspelled-reserved-word"
	CodeAssignmentEquals      Code = "assignment-equals"
	CodeUnterminatedStringEOL Code = "unterminated-string-line"
	CodeUnterminatedStringEOF Code = "unterminated-string-eof"
	CodeUndeclaredVariable    Code = "undeclared-variable"
)

// Phase returns the stage that reports c.
func (c Code) Phase() Phase {
	if c == CodeUndeclaredVariable {
		return PhaseSemantic
	}
	return PhaseLexical
}

// Diagnostic is one recorded problem. Message is fully rendered.
type Diagnostic struct {
	Code    Code
	Phase   Phase
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

// Label identifies a piece of report text that is not a diagnostic.
type Label string

const (
	LabelReportTitle  Label = "report.title"
	LabelFile         Label = "report.file"
	LabelRevision     Label = "report.revision"
	LabelRun          Label = "report.run"
	LabelGenerated    Label = "report.generated"
	LabelStatistics   Label = "report.statistics"
	LabelTotalTokens  Label = "report.total-tokens"
	LabelTotalErrors  Label = "report.total-errors"
	LabelTotalSymbols Label = "report.total-symbols"
	LabelSourceSize   Label = "report.source-size"
	LabelTokens       Label = "report.tokens"
	LabelTokenLine    Label = "report.token-line"
	LabelSymbolTable  Label = "report.symbol-table"
	LabelErrors       Label = "report.errors"
	LabelNoErrors     Label = "report.no-errors"
	LabelName         Label = "column.name"
	LabelType         Label = "column.type"
	LabelLine         Label = "column.line"
	LabelColumn       Label = "column.column"
	LabelPhase        Label = "column.phase"
	LabelMessage      Label = "column.message"
	LabelDeclared     Label = "column.declared"
	LabelYes          Label = "value.yes"
	LabelNo           Label = "value.no"
)

// Positions are passed to the printer as strings: message.Printer groups
// digits in %d, and "line 1,024" is not what the reports print.
var translations = map[language.Tag]map[string]string{
	language.English: {
		string(CodeInvalidCharacter):      "ERROR (line %s, column %s): invalid character '%c'",
		string(CodeMisspelledReserved):    "ERROR (line %s, column %s): reserved word '%s' is misspelled, expected '%s'",
		string(CodeAssignmentEquals):      "ERROR (line %s, column %s): '=' used for assignment, use ':=' in Pascal",
		string(CodeUnterminatedStringEOL): "ERROR (line %s, column %s): string not closed before line break",
		string(CodeUnterminatedStringEOF): "ERROR (line %s, column %s): string not closed before end of file",
		string(CodeUndeclaredVariable):    "ERROR (line %s, column %s): variable '%s' was not declared",

		string(LabelReportTitle):  "=== LEXICAL ANALYSIS REPORT ===",
		string(LabelFile):         "File: %s",
		string(LabelRevision):     "Revision: %s",
		string(LabelRun):          "Run: %s",
		string(LabelGenerated):    "Generated: %s",
		string(LabelStatistics):   "=== STATISTICS ===",
		string(LabelTotalTokens):  "Total tokens: %d",
		string(LabelTotalErrors):  "Total errors: %d",
		string(LabelTotalSymbols): "Total symbols: %d",
		string(LabelSourceSize):   "Source size: %s",
		string(LabelTokens):       "=== TOKENS ===",
		string(LabelTokenLine):    "%s. %s - '%s' (line %s, column %s)",
		string(LabelSymbolTable):  "=== SYMBOL TABLE ===",
		string(LabelErrors):       "=== ERRORS ===",
		string(LabelNoErrors):     "No errors found.",
		string(LabelName):         "Name",
		string(LabelType):         "Type",
		string(LabelLine):         "Line",
		string(LabelColumn):       "Column",
		string(LabelPhase):        "Phase",
		string(LabelMessage):      "Message",
		string(LabelDeclared):     "Declared",
		string(LabelYes):          "yes",
		string(LabelNo):           "no",
	},
	language.Portuguese: {
		string(CodeInvalidCharacter):      "ERRO (linha %s, coluna %s): Caractere inválido '%c'",
		string(CodeMisspelledReserved):    "ERRO (linha %s, coluna %s): Palavra reservada '%s' escrita incorretamente. Deveria ser '%s'",
		string(CodeAssignmentEquals):      "ERRO (linha %s, coluna %s): Uso incorreto de '=' para atribuição. Use ':=' em Pascal.",
		string(CodeUnterminatedStringEOL): "ERRO (linha %s, coluna %s): String não foi fechada antes da quebra de linha",
		string(CodeUnterminatedStringEOF): "ERRO (linha %s, coluna %s): String não foi fechada até o fim do arquivo",
		string(CodeUndeclaredVariable):    "ERRO (linha %s, coluna %s): Variável '%s' não foi declarada",

		string(LabelReportTitle):  "=== RELATÓRIO DE ANÁLISE LÉXICA ===",
		string(LabelFile):         "Arquivo analisado: %s",
		string(LabelRevision):     "Revisão: %s",
		string(LabelRun):          "Execução: %s",
		string(LabelGenerated):    "Data/Hora: %s",
		string(LabelStatistics):   "=== ESTATÍSTICAS ===",
		string(LabelTotalTokens):  "Total de tokens: %d",
		string(LabelTotalErrors):  "Total de erros: %d",
		string(LabelTotalSymbols): "Total de símbolos na tabela: %d",
		string(LabelSourceSize):   "Tamanho do fonte: %s",
		string(LabelTokens):       "=== TOKENS ENCONTRADOS ===",
		string(LabelTokenLine):    "%s. %s - '%s' (linha %s, coluna %s)",
		string(LabelSymbolTable):  "=== TABELA DE SÍMBOLOS ===",
		string(LabelErrors):       "=== ERROS ENCONTRADOS ===",
		string(LabelNoErrors):     "Nenhum erro encontrado!",
		string(LabelName):         "Nome",
		string(LabelType):         "Tipo",
		string(LabelLine):         "Linha",
		string(LabelColumn):       "Coluna",
		string(LabelPhase):        "Fase",
		string(LabelMessage):      "Mensagem",
		string(LabelDeclared):     "Declarado",
		string(LabelYes):          "Sim",
		string(LabelNo):           "Não",
	},
}

// supported is ordered like catalogs; the first entry is the default.
var supported = []language.Tag{language.English, language.Portuguese}

var (
	messages = newBuilder()
	matcher  = language.NewMatcher(supported)
	english  = newCatalog(language.English)
	catalogs = []*Catalog{english, newCatalog(language.Portuguese)}
)

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("diag: register %s message %q: %v", tag, key, err))
			}
		}
	}
	return b
}

// Catalog renders diagnostic codes and report labels in one language.
type Catalog struct {
	Lang    string
	printer *message.Printer
}

func newCatalog(tag language.Tag) *Catalog {
	return &Catalog{
		Lang:    tag.String(),
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// English is the default catalog.
func English() *Catalog { return english }

// CatalogFor returns the catalog that best matches a BCP 47 tag such as "en",
// "pt-BR" or "pt_BR". An empty tag selects English.
func CatalogFor(lang string) (*Catalog, error) {
	key := strings.TrimSpace(lang)
	if key == "" {
		return english, nil
	}
	tag, err := language.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("diag: unsupported language %q (have %s)", lang, strings.Join(Languages(), ", "))
	}
	if _, index, conf := matcher.Match(tag); conf >= language.High {
		return catalogs[index], nil
	}
	return nil, fmt.Errorf("diag: unsupported language %q (have %s)", lang, strings.Join(Languages(), ", "))
}

// Languages lists the available catalog tags.
func Languages() []string {
	out := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		out = append(out, c.Lang)
	}
	sort.Strings(out)
	return out
}

// New builds a diagnostic for code at line/column, rendering args after the
// position in the catalog's format.
func (c *Catalog) New(code Code, line, column int, args ...any) Diagnostic {
	if c == nil {
		c = english
	}
	var msg string
	if _, ok := translations[language.English][string(code)]; ok {
		msg = c.printer.Sprintf(string(code), append([]any{strconv.Itoa(line), strconv.Itoa(column)}, args...)...)
	} else {
		msg = fmt.Sprintf("%s at %d:%d", code, line, column)
	}
	return Diagnostic{
		Code:    code,
		Phase:   code.Phase(),
		Line:    line,
		Column:  column,
		Message: msg,
	}
}

// Label renders a report label with args.
func (c *Catalog) Label(key Label, args ...any) string {
	if c == nil {
		c = english
	}
	return c.printer.Sprintf(string(key), args...)
}

// Messages returns the rendered message of every diagnostic, in order.
func Messages(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

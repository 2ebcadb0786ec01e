package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"minipas/analyzer-go/pkg/analysis"
	"minipas/analyzer-go/pkg/driver"
	"minipas/analyzer-go/pkg/report"
)

type checkOptions struct {
	reportPath string
	format     string
	gitRepo    string
	revision   string
}

func newCheckCmd(c *cli) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Analyze programs and report their diagnostics",
		Long: `Analyze each program and print its symbol table and diagnostics.

Without arguments the sources listed in the config file are checked. The exit
status is 1 when any diagnostic was reported and 2 when a source, the config
or a report could not be processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.reportPath, "report", "", "write the full report to this path")
	flags.StringVar(&opts.format, "format", "", "report format (text, yaml)")
	flags.StringVar(&opts.gitRepo, "git-repo", "", "read sources from this git repository instead of the working tree")
	flags.StringVar(&opts.revision, "rev", "HEAD", "git revision to read sources from (with --git-repo)")
	return cmd
}

func (c *cli) loader(gitRepo, revision string) (*driver.Loader, error) {
	loader, err := driver.NewLoader(c.cfg.Encoding, c.logger)
	if err != nil {
		return nil, err
	}
	if gitRepo != "" {
		loader.FromGit(gitRepo, revision)
	}
	return loader, nil
}

// analyzeFile loads name and runs the full analysis over it.
func (c *cli) analyzeFile(loader *driver.Loader, name string) (*report.Report, error) {
	src, err := loader.Load(name)
	if err != nil {
		return nil, err
	}
	res := analysis.Analyze(src.Text, analysis.Options{Catalog: c.catalog})
	r := report.New(src.Name, src.Size, res)
	r.Revision = src.Revision
	r.Catalog = c.catalog
	c.logger.Debug("analyzed source", "file", src.Name, "tokens", len(res.Tokens), "diagnostics", len(res.Diagnostics))
	return r, nil
}

func (c *cli) runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	files := args
	if len(files) == 0 {
		files = c.cfg.Sources
	}
	if len(files) == 0 {
		return &exitError{code: exitFatal, err: errors.New("check: no source files given and none configured")}
	}

	format := c.cfg.Report.Format
	if cmd.Flags().Changed("format") {
		format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	reportPath := c.cfg.Report.Path
	if cmd.Flags().Changed("report") {
		reportPath = opts.reportPath
	}

	loader, err := c.loader(opts.gitRepo, opts.revision)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	out := cmd.OutOrStdout()
	paths := reportPaths(reportPath, files)
	failed := false
	for i, name := range files {
		r, err := c.analyzeFile(loader, name)
		if err != nil {
			c.logger.Error("cannot analyze source", "file", name, "error", err)
			return &exitError{code: exitFatal, err: err}
		}
		if err := report.Console(out, r); err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		if reportPath != "" {
			path := paths[i]
			if err := report.WriteFile(path, format, r); err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			c.logger.Debug("wrote report", "path", path, "format", format)
		}
		if len(r.Diagnostics) > 0 {
			failed = true
		}
	}
	if failed {
		return &exitError{code: exitDiagnostics}
	}
	return nil
}

// reportPaths returns one report path per source. A single source writes to
// base itself. Several sources each get a suffix built from the source path,
// so out/report.txt becomes out/report-a-prog.txt for a/prog.pas; a numeric
// suffix keeps colliding names apart.
func reportPaths(base string, sources []string) []string {
	if base == "" {
		return make([]string, len(sources))
	}
	if len(sources) == 1 {
		return []string{base}
	}
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext)
	seen := make(map[string]bool, len(sources))
	paths := make([]string, 0, len(sources))
	for _, source := range sources {
		stem := sourceStem(source)
		name := stem
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		seen[name] = true
		paths = append(paths, prefix+"-"+name+ext)
	}
	return paths
}

// sourceStem flattens source into a file-name fragment: the path relative to
// the working directory, without its extension, separators replaced by '-'.
func sourceStem(source string) string {
	p := filepath.Clean(source)
	if filepath.IsAbs(p) {
		if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, p); err == nil {
				p = rel
			}
		}
	}
	p = strings.TrimSuffix(p, filepath.Ext(p))
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == "" || part == "." || part == ".." || strings.HasSuffix(part, ":") {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "source"
	}
	return strings.Join(parts, "-")
}

func newTokensCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.analyzeOne(args[0])
			if err != nil {
				return err
			}
			report.WriteTokens(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func newSymbolsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the symbol table of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.analyzeOne(args[0])
			if err != nil {
				return err
			}
			report.WriteSymbolTable(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func (c *cli) analyzeOne(name string) (*report.Report, error) {
	loader, err := c.loader("", "")
	if err != nil {
		return nil, &exitError{code: exitFatal, err: err}
	}
	r, err := c.analyzeFile(loader, name)
	if err != nil {
		return nil, &exitError{code: exitFatal, err: err}
	}
	return r, nil
}

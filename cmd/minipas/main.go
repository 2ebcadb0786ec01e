package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/driver"
	"minipas/analyzer-go/pkg/logging"
)

const cliToolVersion = "minipas 0.1.0-dev"

// Exit codes.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitFatal       = 2
)

// exitError carries a non-zero exit code out of a command. A nil err means
// the command already reported everything it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return execute(context.Background(), args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitFatal
}

// cli holds the global flags and the state resolved from them before any
// subcommand runs.
type cli struct {
	configPath string
	language   string
	encoding   string
	logLevel   string

	cfg     *driver.Config
	logger  *slog.Logger
	catalog *diag.Catalog
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "minipas",
		Short: "Lexical and semantic checker for a small Pascal subset",
		Long: `minipas tokenizes programs written in a small Pascal subset, builds their
symbol table and reports lexical errors and uses of undeclared variables.

Settings are read from minipas.yml or minipas.toml, searched upward from the
working directory, and can be overridden with flags.`,
		Version:           cliToolVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: nearest minipas.yml or minipas.toml)")
	flags.StringVar(&c.language, "lang", "", "diagnostic language (en, pt)")
	flags.StringVar(&c.encoding, "encoding", "", "source encoding (utf-8, latin1, windows-1252)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newCheckCmd(c),
		newTokensCmd(c),
		newSymbolsCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger and
// message catalog.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Language = c.language
	}
	if flags.Changed("encoding") {
		cfg.Encoding = c.encoding
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	if cfg.Path != "" {
		logger.Debug("using config", "path", cfg.Path)
	}
	c.cfg = cfg
	c.logger = logger
	c.catalog = catalog
	return nil
}

func (c *cli) loadConfig() (*driver.Config, error) {
	path := c.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("config: working directory: %w", err)
		}
		found, err := driver.FindConfig(wd)
		switch {
		case errors.Is(err, driver.ErrConfigNotFound):
			return driver.DefaultConfig(), nil
		case err != nil:
			return nil, err
		}
		path = found
	}
	return driver.LoadConfig(path)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the minipas version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
		},
	}
}

// Package driver loads configuration and decodes program sources from disk or git.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"minipas/analyzer-go/pkg/diag"
	"minipas/analyzer-go/pkg/logging"
)

// Config file names searched by FindConfig, in priority order.
var ConfigFileNames = []string{"minipas.yml", "minipas.yaml", "minipas.toml"}

// ErrConfigNotFound is returned by FindConfig when no config file exists in
// the start directory or any parent.
var ErrConfigNotFound = errors.New("config: no minipas.yml or minipas.toml found")

// Report formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config holds tool settings loaded from minipas.yml or minipas.toml.
type Config struct {
	Path     string
	Language string
	Encoding string
	LogLevel string
	Report   ReportConfig
	Sources  []string
}

// ReportConfig selects where and how the analysis report is written.
type ReportConfig struct {
	Format string
	Path   string
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Language string     `yaml:"language" toml:"language"`
	Encoding string     `yaml:"encoding" toml:"encoding"`
	LogLevel string     `yaml:"log_level" toml:"log_level"`
	Report   reportFile `yaml:"report" toml:"report"`
	Sources  []string   `yaml:"sources" toml:"sources"`
}

type reportFile struct {
	Format string `yaml:"format" toml:"format"`
	Path   string `yaml:"path" toml:"path"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Language: "en",
		Encoding: EncodingUTF8,
		LogLevel: "info",
		Report:   ReportConfig{Format: FormatText},
	}
}

// LoadConfig parses a YAML or TOML config file, chosen by extension, and
// validates it. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	var raw configFile
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".yml", ".yaml":
		if err := decodeYAML(absPath, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := decodeTOML(absPath, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: %s: unsupported extension %q", absPath, ext)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(path string, out *configFile) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func decodeTOML(path string, out *configFile) error {
	md, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("config: parse %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (f configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	if v := strings.TrimSpace(f.Language); v != "" {
		cfg.Language = v
	}
	if v := strings.TrimSpace(f.Encoding); v != "" {
		cfg.Encoding = v
	}
	if v := strings.TrimSpace(f.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(f.Report.Format); v != "" {
		cfg.Report.Format = strings.ToLower(v)
	}
	dir := filepath.Dir(path)
	if v := strings.TrimSpace(f.Report.Path); v != "" {
		cfg.Report.Path = resolveRelative(dir, v)
	}
	for _, src := range f.Sources {
		src = strings.TrimSpace(src)
		cfg.Sources = append(cfg.Sources, resolveRelative(dir, src))
	}
	return cfg
}

func resolveRelative(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if _, err := diag.CatalogFor(c.Language); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("language %q is not supported (have %s)", c.Language, strings.Join(diag.Languages(), ", ")))
	}
	if _, err := NormalizeEncoding(c.Encoding); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("encoding %q is not supported (have %s)", c.Encoding, strings.Join(Encodings(), ", ")))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch c.Report.Format {
	case FormatText, FormatYAML:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("report.format %q must be %q or %q", c.Report.Format, FormatText, FormatYAML))
	}
	for i, src := range c.Sources {
		if src == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] must be a non-empty path", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Catalog returns the message catalog for the configured language.
func (c *Config) Catalog() (*diag.Catalog, error) {
	return diag.CatalogFor(c.Language)
}

// FindConfig walks up from start looking for a config file.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("searched from %s upwards: %w", origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

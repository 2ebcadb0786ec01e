package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"minipas/analyzer-go/pkg/logging"
)

// Supported source encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

var encodingAliases = map[string]string{
	"":             EncodingUTF8,
	"utf8":         EncodingUTF8,
	"utf-8":        EncodingUTF8,
	"latin1":       EncodingLatin1,
	"latin-1":      EncodingLatin1,
	"iso-8859-1":   EncodingLatin1,
	"iso8859-1":    EncodingLatin1,
	"windows-1252": EncodingWindows1252,
	"cp1252":       EncodingWindows1252,
}

// NormalizeEncoding returns the canonical name for an encoding alias.
func NormalizeEncoding(name string) (string, error) {
	if canonical, ok := encodingAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("source: unsupported encoding %q", name)
}

// Encodings lists the canonical encoding names.
func Encodings() []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range encodingAliases {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func decoderFor(name string) (*encoding.Decoder, error) {
	canonical, err := NormalizeEncoding(name)
	if err != nil {
		return nil, err
	}
	switch canonical {
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder(), nil
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, nil
	}
}

// Decode converts raw bytes in the named encoding to UTF-8 text.
func Decode(raw []byte, enc string) (string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return "", err
	}
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("source: decode %s: %w", enc, err)
	}
	return string(out), nil
}

// Source is a program text ready for analysis.
type Source struct {
	Name     string
	Text     string
	Size     int
	Revision string
}

// ErrEmptyRevision is returned when a git source is requested without a
// revision.
var ErrEmptyRevision = errors.New("source: git revision must not be empty")

// Loader reads sources from disk or, when Repo is set, from a git revision.
type Loader struct {
	Encoding string
	Repo     string
	Revision string
	Logger   *slog.Logger
}

// NewLoader returns a loader reading files from disk in the given encoding.
func NewLoader(enc string, logger *slog.Logger) (*Loader, error) {
	if _, err := NormalizeEncoding(enc); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{Encoding: enc, Logger: logger}, nil
}

// FromGit switches the loader to read files as of rev in the repository that
// contains repo.
func (l *Loader) FromGit(repo, rev string) *Loader {
	l.Repo = repo
	l.Revision = rev
	return l
}

// Load reads and decodes one source.
func (l *Loader) Load(name string) (*Source, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("source: empty path")
	}
	if l.Repo != "" {
		return l.loadGit(name)
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	text, err := Decode(raw, l.Encoding)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("loaded source", "file", name, "bytes", len(raw), "encoding", l.Encoding)
	return &Source{Name: name, Text: text, Size: len(raw)}, nil
}

func (l *Loader) loadGit(name string) (*Source, error) {
	rev := strings.TrimSpace(l.Revision)
	if rev == "" {
		return nil, ErrEmptyRevision
	}
	repo, err := git.PlainOpenWithOptions(l.Repo, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("source: open repository %s: %w", l.Repo, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("source: resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("source: load commit %s: %w", hash, err)
	}
	path := filepath.ToSlash(filepath.Clean(name))
	file, err := commit.File(path)
	if err != nil {
		return nil, fmt.Errorf("source: %s at %s: %w", path, rev, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("source: open %s at %s: %w", path, rev, err)
	}
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", path, rev, err)
	}
	text, err := Decode(raw, l.Encoding)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("loaded source from git", "file", path, "revision", rev, "commit", hash.String(), "bytes", len(raw))
	return &Source{Name: path, Text: text, Size: len(raw), Revision: hash.String()}, nil
}

package adapter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	m "github.com/mouse-blink/testforge/internal/model"
)

// ErrDescriptorNotFound is returned when no descriptor exists in the start
// directory or any of its ancestors.
var ErrDescriptorNotFound = errors.New("descriptor not found")

const (
	// DescriptorPattern matches solution descriptor files.
	DescriptorPattern = "*.sln"
	// ProjectPattern matches C# project files.
	ProjectPattern = "*.csproj"
)

// Chooser picks one of several candidates found in the same directory.
type Chooser func(candidates []m.Path) (m.Path, error)

// FirstMatch picks the lexically first candidate.
func FirstMatch(candidates []m.Path) (m.Path, error) {
	if len(candidates) == 0 {
		return "", ErrDescriptorNotFound
	}

	return candidates[0], nil
}

// Interactive asks the user to pick a candidate with a terminal select prompt.
// A single candidate is returned without prompting.
func Interactive(candidates []m.Path) (m.Path, error) {
	if len(candidates) <= 1 {
		return FirstMatch(candidates)
	}

	options := make([]huh.Option[string], 0, len(candidates))
	for _, candidate := range candidates {
		options = append(options, huh.NewOption(filepath.Base(string(candidate)), string(candidate)))
	}

	var choice string

	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Several descriptors found in %s", filepath.Dir(string(candidates[0])))).
		Options(options...).
		Value(&choice).
		Run()
	if err != nil {
		return "", fmt.Errorf("descriptor selection: %w", err)
	}

	return m.Path(choice), nil
}

// ChooserFor maps a policy name to a Chooser.
func ChooserFor(policy string) (Chooser, error) {
	switch strings.ToLower(policy) {
	case "", "first":
		return FirstMatch, nil
	case "interactive":
		return Interactive, nil
	default:
		return nil, fmt.Errorf("unknown descriptor policy %q", policy)
	}
}

// Locator finds the nearest file matching a pattern in a path or its ancestors.
type Locator interface {
	Locate(start m.Path) (m.Path, error)
}

// FileLocator walks up the directory tree from a start path.
type FileLocator struct {
	fs      SourceFSAdapter
	pattern string
	choose  Chooser
}

// NewDescriptorLocator builds a Locator for solution descriptors.
func NewDescriptorLocator(fs SourceFSAdapter, choose Chooser) *FileLocator {
	return NewFileLocator(fs, DescriptorPattern, choose)
}

// NewFileLocator builds a Locator for an arbitrary glob pattern.
func NewFileLocator(fs SourceFSAdapter, pattern string, choose Chooser) *FileLocator {
	if choose == nil {
		choose = FirstMatch
	}

	return &FileLocator{fs: fs, pattern: pattern, choose: choose}
}

// Locate searches start (its directory when start is a file) and then each
// ancestor. The nearest directory with matches wins; ties inside it go to the
// Chooser.
func (l *FileLocator) Locate(start m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(start))
	if err != nil {
		return "", err
	}

	if info, statErr := l.fs.FileInfo(m.Path(dir)); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		matches, err := l.fs.Glob(m.Path(dir), l.pattern)
		if err != nil {
			return "", fmt.Errorf("search %s: %w", dir, err)
		}

		if len(matches) > 0 {
			return l.choose(matches)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in any parent directory of %s", ErrDescriptorNotFound, l.pattern, start)
		}

		dir = parent
	}
}

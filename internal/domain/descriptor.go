package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mouse-blink/testforge/internal/adapter"
	m "github.com/mouse-blink/testforge/internal/model"
)

// CSharpProjectKind is the project type identifier of SDK-style C# projects.
const CSharpProjectKind = "FAE04EC0-301F-11D3-BF4B-00C04F79EFBC"

// ErrMalformedDescriptor is returned when a descriptor lacks an anchor marker.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

var defaultConfigurations = []string{"Debug|Any CPU", "Release|Any CPU"}

var (
	globalMarker        = regexp.MustCompile(`(?m)^[ \t]*Global[ \t]*\r?$`)
	projectConfigMarker = regexp.MustCompile(`(?m)^[ \t]*GlobalSection\(ProjectConfigurationPlatforms\)[^\r\n]*\r?$`)
	solutionConfigStart = regexp.MustCompile(`(?m)^[ \t]*GlobalSection\(SolutionConfigurationPlatforms\)[^\r\n]*\r?$`)
	endSectionMarker    = regexp.MustCompile(`(?m)^[ \t]*EndGlobalSection[ \t]*\r?$`)
	configLinePattern   = regexp.MustCompile(`(?m)^[ \t]*([^=\r\n]+?)[ \t]*=`)
)

// ProjectEntry is a project to register in a descriptor. Path is relative to
// the descriptor directory or absolute. An empty ID gets a fresh GUID.
type ProjectEntry struct {
	Name string
	Path m.Path
	ID   string
}

// AddProject returns text with entry registered. It reports false and leaves
// text untouched when a project with the same name already exists. Every
// insertion is a run of whole lines, so deleting those lines restores text.
func AddProject(text string, descriptorDir m.Path, entry ProjectEntry) (string, bool, error) {
	if hasProject(text, entry.Name) {
		return text, false, nil
	}

	global := globalMarker.FindStringIndex(text)
	if global == nil {
		return "", false, fmt.Errorf("%w: no Global section", ErrMalformedDescriptor)
	}

	configEnd, ok := sectionEnd(text, projectConfigMarker)
	if !ok {
		return "", false, fmt.Errorf("%w: no ProjectConfigurationPlatforms section", ErrMalformedDescriptor)
	}

	id := strings.ToUpper(strings.Trim(entry.ID, "{}"))
	if id == "" {
		id = strings.ToUpper(uuid.NewString())
	}

	rel, err := relativeProjectPath(descriptorDir, entry.Path)
	if err != nil {
		return "", false, err
	}

	nl := lineEnding(text)

	var block strings.Builder
	fmt.Fprintf(&block, `Project("{%s}") = "%s", "%s", "{%s}"%s`, CSharpProjectKind, entry.Name, rel, id, nl)
	block.WriteString("EndProject" + nl)

	var mappings strings.Builder
	for _, cfg := range solutionConfigurations(text) {
		fmt.Fprintf(&mappings, "\t\t{%s}.%s.ActiveCfg = %s%s", id, cfg, cfg, nl)
		fmt.Fprintf(&mappings, "\t\t{%s}.%s.Build.0 = %s%s", id, cfg, cfg, nl)
	}

	// configEnd lies after global, so inserting there first keeps global valid.
	out := text[:configEnd] + mappings.String() + text[configEnd:]
	out = out[:global[0]] + block.String() + out[global[0]:]

	return out, true, nil
}

func hasProject(text, name string) bool {
	pattern := regexp.MustCompile(`(?m)^[ \t]*Project\("[^"]*"\)\s*=\s*"` + regexp.QuoteMeta(name) + `"\s*,`)
	return pattern.MatchString(text)
}

// sectionEnd returns the offset of the EndGlobalSection line closing the
// section opened by start.
func sectionEnd(text string, start *regexp.Regexp) (int, bool) {
	open := start.FindStringIndex(text)
	if open == nil {
		return 0, false
	}

	end := endSectionMarker.FindStringIndex(text[open[1]:])
	if end == nil {
		return 0, false
	}

	return open[1] + end[0], true
}

func solutionConfigurations(text string) []string {
	open := solutionConfigStart.FindStringIndex(text)
	if open == nil {
		return defaultConfigurations
	}

	end, ok := sectionEnd(text, solutionConfigStart)
	if !ok {
		return defaultConfigurations
	}

	var configs []string

	for _, match := range configLinePattern.FindAllStringSubmatch(text[open[1]:end], -1) {
		configs = append(configs, strings.TrimSpace(match[1]))
	}

	if len(configs) == 0 {
		return defaultConfigurations
	}

	return configs
}

func relativeProjectPath(descriptorDir, project m.Path) (string, error) {
	path := string(project)
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(string(descriptorDir), path)
		if err != nil {
			return "", fmt.Errorf("relative project path: %w", err)
		}

		path = rel
	}

	return strings.ReplaceAll(filepath.ToSlash(path), "/", `\`), nil
}

func lineEnding(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}

	return "\n"
}

// ProjectGraph registers projects in descriptor files on disk. Each
// descriptor is read, mutated and written under its own lock, and a
// (descriptor, project) pair is processed at most once per ProjectGraph.
type ProjectGraph struct {
	fs    adapter.SourceFSAdapter
	locks *keyedMutex

	mu   sync.Mutex
	done map[string]struct{}
}

// NewProjectGraph constructs a ProjectGraph.
func NewProjectGraph(fs adapter.SourceFSAdapter) *ProjectGraph {
	return &ProjectGraph{
		fs:    fs,
		locks: newKeyedMutex(),
		done:  make(map[string]struct{}),
	}
}

// Ensure registers project in descriptor unless it is already there. It
// reports whether the descriptor file was changed.
func (g *ProjectGraph) Ensure(descriptor, project m.Path) (bool, error) {
	name := sourceStem(project)
	key := string(descriptor) + "\x00" + name

	unlock := g.locks.Lock(string(descriptor))
	defer unlock()

	g.mu.Lock()
	_, seen := g.done[key]
	g.mu.Unlock()

	if seen {
		return false, nil
	}

	content, err := g.fs.ReadFile(descriptor)
	if err != nil {
		return false, fmt.Errorf("read descriptor: %w", err)
	}

	updated, changed, err := AddProject(string(content), m.Path(filepath.Dir(string(descriptor))), ProjectEntry{Name: name, Path: project})
	if err != nil {
		return false, fmt.Errorf("%s: %w", descriptor, err)
	}

	if changed {
		if err := g.fs.WriteFile(descriptor, []byte(updated), 0o644); err != nil {
			return false, fmt.Errorf("write descriptor: %w", err)
		}
	}

	g.mu.Lock()
	g.done[key] = struct{}{}
	g.mu.Unlock()

	return changed, nil
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}

	k.mu.Unlock()

	l.Lock()

	return l.Unlock
}

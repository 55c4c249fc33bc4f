package domain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mouse-blink/testforge/internal/adapter"
	m "github.com/mouse-blink/testforge/internal/model"
)

// DefaultTargetFramework is the target framework of scaffolded test projects.
const DefaultTargetFramework = "net8.0"

// ErrProjectNotFound is returned when no project file owns a source file.
var ErrProjectNotFound = errors.New("no owning project found")

const testProjectSuffix = ".Tests"

const csprojTemplate = `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <TargetFramework>{{.TargetFramework}}</TargetFramework>
    <ImplicitUsings>enable</ImplicitUsings>
    <IsPackable>false</IsPackable>
    <IsTestProject>true</IsTestProject>
  </PropertyGroup>

  <ItemGroup>
    <PackageReference Include="Microsoft.NET.Test.Sdk" Version="17.11.1" />
    <PackageReference Include="xunit" Version="2.9.2" />
    <PackageReference Include="xunit.runner.visualstudio" Version="2.8.2" />
    <PackageReference Include="Moq" Version="4.20.72" />
    <PackageReference Include="FluentAssertions" Version="6.12.0" />
  </ItemGroup>

  <ItemGroup>
    <ProjectReference Include="{{.Reference}}" />
  </ItemGroup>

</Project>
`

var csprojTmpl = template.Must(template.New("csproj").Parse(csprojTemplate))

// TestProject is where generated test files for one descriptor live.
type TestProject struct {
	Name    string
	Dir     m.Path
	Project m.Path
}

// ScaffoldOptions tunes generated test projects.
type ScaffoldOptions struct {
	TargetFramework string
}

// TestProjectPreparer makes the test project of a descriptor ready to receive
// the generated tests of one source file.
type TestProjectPreparer interface {
	Prepare(descriptor, source m.Path) (TestProject, error)
}

// Scaffolder creates and maintains the test project of a descriptor and
// registers it in the descriptor.
type Scaffolder struct {
	fs       adapter.SourceFSAdapter
	projects adapter.Locator
	graph    *ProjectGraph
	opts     ScaffoldOptions
	locks    *keyedMutex
}

// NewScaffolder constructs a Scaffolder. projects finds the project file
// owning a source file.
func NewScaffolder(fs adapter.SourceFSAdapter, projects adapter.Locator, graph *ProjectGraph, opts ScaffoldOptions) *Scaffolder {
	if opts.TargetFramework == "" {
		opts.TargetFramework = DefaultTargetFramework
	}

	return &Scaffolder{fs: fs, projects: projects, graph: graph, opts: opts, locks: newKeyedMutex()}
}

// TestProjectFor returns the test project layout of descriptor:
// <descriptorDir>/<Solution>.Tests/<Solution>.Tests.csproj.
func TestProjectFor(descriptor m.Path) TestProject {
	name := sourceStem(descriptor) + testProjectSuffix
	dir := filepath.Join(filepath.Dir(string(descriptor)), name)

	return TestProject{
		Name:    name,
		Dir:     m.Path(dir),
		Project: m.Path(filepath.Join(dir, name+".csproj")),
	}
}

// ArtifactPath mirrors the source's location below the descriptor inside the
// test project: <testDir>/<rel source dir>/<Stem>Tests.cs.
func ArtifactPath(descriptor m.Path, project TestProject, source m.Path) m.Path {
	rel, err := filepath.Rel(filepath.Dir(string(descriptor)), filepath.Dir(string(source)))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = "."
	}

	name := sourceStem(source) + "Tests.cs"

	return m.Path(filepath.Join(string(project.Dir), rel, name))
}

// Prepare ensures the test project exists, references the project owning
// source and is registered in descriptor.
func (s *Scaffolder) Prepare(descriptor, source m.Path) (TestProject, error) {
	tp, err := s.ensureProject(descriptor, source)
	if err != nil {
		return tp, err
	}

	if _, err := s.graph.Ensure(descriptor, tp.Project); err != nil {
		return tp, err
	}

	return tp, nil
}

// ensureProject runs under the test project's lock, never the descriptor's.
func (s *Scaffolder) ensureProject(descriptor, source m.Path) (TestProject, error) {
	tp := TestProjectFor(descriptor)

	owner, err := s.projects.Locate(source)
	if err != nil {
		return tp, fmt.Errorf("%w for %s: %w", ErrProjectNotFound, source, err)
	}

	reference, err := projectReference(tp.Dir, owner)
	if err != nil {
		return tp, err
	}

	unlock := s.locks.Lock(string(tp.Project))
	defer unlock()

	content, err := s.fs.ReadFile(tp.Project)
	if errors.Is(err, os.ErrNotExist) {
		return tp, s.create(tp, reference)
	}

	if err != nil {
		return tp, fmt.Errorf("read test project: %w", err)
	}

	updated, changed := addProjectReference(string(content), reference)
	if !changed {
		return tp, nil
	}

	if err := s.fs.WriteFile(tp.Project, []byte(updated), 0o644); err != nil {
		return tp, fmt.Errorf("write test project: %w", err)
	}

	return tp, nil
}

func (s *Scaffolder) create(tp TestProject, reference string) error {
	if err := s.fs.MkdirAll(tp.Dir); err != nil {
		return fmt.Errorf("create test project dir: %w", err)
	}

	var b strings.Builder

	data := struct{ TargetFramework, Reference string }{s.opts.TargetFramework, reference}
	if err := csprojTmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("render test project: %w", err)
	}

	if err := s.fs.WriteFile(tp.Project, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write test project: %w", err)
	}

	return nil
}

func projectReference(testDir, owner m.Path) (string, error) {
	rel, err := filepath.Rel(string(testDir), string(owner))
	if err != nil {
		return "", fmt.Errorf("project reference: %w", err)
	}

	return strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`), nil
}

// addProjectReference inserts an ItemGroup with reference before the closing
// </Project> tag unless the project already references it.
func addProjectReference(content, reference string) (string, bool) {
	forward := strings.ReplaceAll(reference, `\`, "/")
	if strings.Contains(content, `Include="`+reference+`"`) || strings.Contains(content, `Include="`+forward+`"`) {
		return content, false
	}

	end := strings.LastIndex(content, "</Project>")
	if end < 0 {
		return content, false
	}

	nl := lineEnding(content)
	group := "  <ItemGroup>" + nl +
		`    <ProjectReference Include="` + reference + `" />` + nl +
		"  </ItemGroup>" + nl + nl

	return content[:end] + group + content[end:], true
}

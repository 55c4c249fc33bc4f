package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mouse-blink/testforge/internal/adapter"
	m "github.com/mouse-blink/testforge/internal/model"
)

// DefaultMinLength is the shortest oracle output accepted as a test file.
const DefaultMinLength = 100

// DefaultOutputTail is how many raw output lines a repair prompt carries.
const DefaultOutputTail = 40

// Synthesis errors. Validation failures wrap ErrSynthesis and one reason.
var (
	ErrSynthesis      = errors.New("synthesis failed")
	ErrEmptyOutput    = errors.New("empty output")
	ErrOutputTooShort = errors.New("output too short")
	ErrMissingMarker  = errors.New("missing required marker")
)

const testClassMarker = "public class"

var testCaseMarkers = []string{"[Fact]", "[Theory]"}

// SystemInstructions is sent to the oracle as its system role.
const SystemInstructions = `You generate complete C# xUnit test files.
Always return the full file: using directives, namespace, test class, constructor and every test method.
Structure each test as Arrange, Act, Assert and assert with FluentAssertions.
Mock dependencies with Moq and verify the calls made by the method under test.
Name tests MethodName_Scenario_ExpectedResult.
Reply with C# code only.`

// ReferenceTemplate is the shape every generated file should follow.
const ReferenceTemplate = `using System;
using System.Threading.Tasks;
using FluentAssertions;
using Moq;
using Xunit;

namespace Shop.Orders.Tests
{
    public class OrderServiceTests
    {
        private readonly Mock<IOrderRepository> _repository;
        private readonly OrderService _sut;

        public OrderServiceTests()
        {
            _repository = new Mock<IOrderRepository>();
            _sut = new OrderService(_repository.Object);
        }

        [Fact]
        public async Task FindAsync_OrderExists_ReturnsOrder()
        {
            // Arrange
            var order = new Order { Id = 7 };
            _repository.Setup(r => r.GetAsync(7)).ReturnsAsync(order);

            // Act
            var result = await _sut.FindAsync(7);

            // Assert
            result.Should().BeEquivalentTo(order);
            _repository.Verify(r => r.GetAsync(7), Times.Once);
        }

        [Fact]
        public async Task FindAsync_OrderMissing_ReturnsNull()
        {
            // Arrange
            _repository.Setup(r => r.GetAsync(7)).ReturnsAsync((Order)null);

            // Act
            var result = await _sut.FindAsync(7);

            // Assert
            result.Should().BeNull();
            _repository.Verify(r => r.GetAsync(7), Times.Once);
        }
    }
}`

const initialPrompt = `Write a complete xUnit test file for the C# source below.

Follow the structure of this reference file:

{{.Reference}}

Facts about the source:
- namespace: {{or .Features.Namespace "(none)"}}
- type: {{or .Features.TypeName "(unknown)"}}
{{- if .Features.ConstructorParams}}
- constructor parameters: {{join .Features.ConstructorParams ", "}}
{{- end}}
{{- if .Features.DependencyTypes}}
- dependencies to mock: {{join .Features.DependencyTypes ", "}}
{{- end}}
{{- range .Features.Methods}}
- public method: {{.ReturnType}} {{.Name}}({{.Parameters}})
{{- end}}

Source ({{.FileName}}):

{{.Source}}

Requirements:
1. Put the tests in namespace {{.TestNamespace}} and class {{.ClassName}}.
2. Cover every public method listed above.
3. Mock every dependency and verify the calls each method makes.
4. The file must compile and every test must pass.
`

const repairPrompt = `The test file below failed at the {{.Stage}} step (attempt {{.Attempt}}).
Return a complete corrected replacement file, not a diff.

Current test file:

{{.Current}}

{{if .Diagnostics -}}
Diagnostics:
{{- range .Diagnostics}}
- {{if .File}}{{.File}}({{.Line}},{{.Column}}): {{end}}{{if .Code}}{{.Code}}: {{end}}{{if .Test}}[{{.Test}}] {{end}}{{.Message}}
{{- end}}
{{end -}}
{{if eq .Stage "test" -}}
Test counts: passed {{.Counts.Passed}}, failed {{.Counts.Failed}}, skipped {{.Counts.Skipped}}
{{end -}}
{{if .Tail -}}
Last lines of output:

{{.Tail}}
{{end}}
Source under test ({{.FileName}}):

{{.Source}}

Keep namespace {{.TestNamespace}} and class {{.ClassName}}.
`

var (
	initialPromptTemplate = template.Must(template.New("initial").Funcs(promptFuncs).Parse(initialPrompt))
	repairPromptTemplate  = template.Must(template.New("repair").Funcs(promptFuncs).Parse(repairPrompt))
)

var promptFuncs = template.FuncMap{"join": strings.Join}

// Synthesizer produces candidate test files through an Oracle.
type Synthesizer interface {
	Initial(ctx context.Context, unit *m.SourceUnit) (string, error)
	Repair(ctx context.Context, unit *m.SourceUnit, current string, last m.DiagnosticBatch) (string, error)
}

// SynthesisOptions tunes prompt building and output validation.
type SynthesisOptions struct {
	MinLength  int
	OutputTail int
}

type synthesizer struct {
	oracle adapter.Oracle
	opts   SynthesisOptions
}

// NewSynthesizer constructs a Synthesizer over oracle.
func NewSynthesizer(oracle adapter.Oracle, opts SynthesisOptions) Synthesizer {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}

	if opts.OutputTail <= 0 {
		opts.OutputTail = DefaultOutputTail
	}

	return &synthesizer{oracle: oracle, opts: opts}
}

type promptData struct {
	Reference     string
	Features      m.Features
	FileName      string
	Source        string
	TestNamespace string
	ClassName     string
	Stage         m.Stage
	Attempt       int
	Current       string
	Diagnostics   []m.DiagnosticRecord
	Counts        m.TestCounts
	Tail          string
}

// Initial asks for a first test file for unit.
func (s *synthesizer) Initial(ctx context.Context, unit *m.SourceUnit) (string, error) {
	prompt, err := InitialPrompt(unit)
	if err != nil {
		return "", err
	}

	return s.generate(ctx, prompt)
}

// Repair asks for a full replacement of current, given the latest failure.
func (s *synthesizer) Repair(ctx context.Context, unit *m.SourceUnit, current string, last m.DiagnosticBatch) (string, error) {
	prompt, err := RepairPrompt(unit, current, last, s.opts.OutputTail)
	if err != nil {
		return "", err
	}

	return s.generate(ctx, prompt)
}

// generate returns oracle errors unwrapped from ErrSynthesis so callers can
// tell a deadline from bad output.
func (s *synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := s.oracle.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("oracle: %w", err)
	}

	text := SanitizeOutput(raw)
	if err := ValidateOutput(text, s.opts.MinLength); err != nil {
		return "", err
	}

	return text, nil
}

// InitialPrompt renders the first-attempt prompt for unit.
func InitialPrompt(unit *m.SourceUnit) (string, error) {
	return render(initialPromptTemplate, baseData(unit))
}

// RepairPrompt renders a repair prompt carrying only the latest batch.
func RepairPrompt(unit *m.SourceUnit, current string, last m.DiagnosticBatch, tailLines int) (string, error) {
	data := baseData(unit)
	data.Stage = last.Stage
	data.Attempt = last.Attempt
	data.Current = current
	data.Diagnostics = last.Outcome.Diagnostics
	data.Counts = last.Outcome.Counts
	data.Tail = tail(last.Outcome.Stdout+"\n"+last.Outcome.Stderr, tailLines)

	return render(repairPromptTemplate, data)
}

func baseData(unit *m.SourceUnit) promptData {
	return promptData{
		Reference:     ReferenceTemplate,
		Features:      unit.Features,
		FileName:      filepath.Base(string(unit.Path)),
		Source:        unit.Text,
		TestNamespace: TestNamespace(unit.Features),
		ClassName:     TestClassName(unit),
	}
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}

	return b.String(), nil
}

// TestNamespace is the namespace generated tests live in.
func TestNamespace(features m.Features) string {
	if features.Namespace == "" {
		return "Tests"
	}

	return features.Namespace + ".Tests"
}

// TestClassName is the generated test class name for unit.
func TestClassName(unit *m.SourceUnit) string {
	name := unit.Features.TypeName
	if name == "" {
		name = sourceStem(unit.Path)
	}

	return name + "Tests"
}

func sourceStem(path m.Path) string {
	base := filepath.Base(string(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SanitizeOutput strips markdown fences, trims the text and collapses runs of
// blank lines.
func SanitizeOutput(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}

		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}

			blank = true

			out = append(out, "")

			continue
		}

		blank = false

		out = append(out, strings.TrimRight(line, " \t"))
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// ValidateOutput checks that text plausibly is a complete test file.
func ValidateOutput(text string, minLength int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %w", ErrSynthesis, ErrEmptyOutput)
	}

	if len(text) < minLength {
		return fmt.Errorf("%w: %w (%d < %d)", ErrSynthesis, ErrOutputTooShort, len(text), minLength)
	}

	if !strings.Contains(text, testClassMarker) {
		return fmt.Errorf("%w: %w %q", ErrSynthesis, ErrMissingMarker, testClassMarker)
	}

	for _, marker := range testCaseMarkers {
		if strings.Contains(text, marker) {
			return nil
		}
	}

	return fmt.Errorf("%w: %w %s", ErrSynthesis, ErrMissingMarker, strings.Join(testCaseMarkers, " or "))
}

func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(output, "\r\n", "\n")), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "github.com/mouse-blink/testforge/internal/adapter/mocks"
	m "github.com/mouse-blink/testforge/internal/model"
)

const validTestFile = `using Xunit;

namespace Shop.Services.Tests
{
    public class OrderServiceTests
    {
        [Fact]
        public void Total_NoOrders_ReturnsZero()
        {
            Assert.Equal(0m, 0m);
        }
    }
}`

func orderUnit() *m.SourceUnit {
	return &m.SourceUnit{
		Path: "src/Shop/Services/OrderService.cs",
		Text: "public class OrderService {}",
		Features: m.Features{
			Namespace:         "Shop.Services",
			TypeName:          "OrderService",
			ConstructorParams: []string{"IOrderRepository repository"},
			DependencyTypes:   []string{"IOrderRepository"},
			Methods: []m.MethodSignature{
				{Name: "Total", ReturnType: "decimal", Parameters: "IEnumerable<Order> orders"},
			},
		},
	}
}

func TestSanitizeOutput(t *testing.T) {
	raw := "Here you go:\r\n```csharp\r\nusing Xunit;   \r\n\r\n\r\n\r\npublic class ATests {}\r\n```\r\n"

	assert.Equal(t, "Here you go:\nusing Xunit;\n\npublic class ATests {}", SanitizeOutput(raw))
	assert.Equal(t, "", SanitizeOutput("```\n```"))
	assert.Equal(t, validTestFile, SanitizeOutput("\n\n"+validTestFile+"\n\n"))
}

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		minLen int
		want   error
	}{
		{name: "valid", text: validTestFile, minLen: 100},
		{name: "empty", text: "  \n ", minLen: 100, want: ErrEmptyOutput},
		{name: "too short", text: "public class A { [Fact] }", minLen: 100, want: ErrOutputTooShort},
		{name: "no class", text: strings.Repeat("x", 80) + " [Fact]", minLen: 10, want: ErrMissingMarker},
		{name: "no test case", text: strings.Repeat("x", 80) + " public class A", minLen: 10, want: ErrMissingMarker},
		{name: "theory accepted", text: "public class A { [Theory] }", minLen: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutput(tt.text, tt.minLen)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSynthesis)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTestNamespaceAndClassName(t *testing.T) {
	assert.Equal(t, "Shop.Services.Tests", TestNamespace(m.Features{Namespace: "Shop.Services"}))
	assert.Equal(t, "Tests", TestNamespace(m.Features{}))

	assert.Equal(t, "OrderServiceTests", TestClassName(orderUnit()))
	assert.Equal(t, "InvoiceTests", TestClassName(&m.SourceUnit{Path: "src/Invoice.cs"}))
}

func TestInitialPrompt(t *testing.T) {
	prompt, err := InitialPrompt(orderUnit())
	require.NoError(t, err)

	assert.Contains(t, prompt, ReferenceTemplate)
	assert.Contains(t, prompt, "- namespace: Shop.Services")
	assert.Contains(t, prompt, "- constructor parameters: IOrderRepository repository")
	assert.Contains(t, prompt, "- dependencies to mock: IOrderRepository")
	assert.Contains(t, prompt, "- public method: decimal Total(IEnumerable<Order> orders)")
	assert.Contains(t, prompt, "Source (OrderService.cs):")
	assert.Contains(t, prompt, "namespace Shop.Services.Tests and class OrderServiceTests")
}

func TestInitialPrompt_MissingFeatures(t *testing.T) {
	prompt, err := InitialPrompt(&m.SourceUnit{Path: "Helpers.cs"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- namespace: (none)")
	assert.Contains(t, prompt, "- type: (unknown)")
	assert.NotContains(t, prompt, "constructor parameters")
	assert.Contains(t, prompt, "class HelpersTests")
}

func TestRepairPrompt_Build(t *testing.T) {
	last := m.DiagnosticBatch{
		Attempt: 2,
		Stage:   m.StageBuild,
		Outcome: m.RunOutcome{
			ReturnCode: 1,
			Stdout:     "line1\nline2\nline3",
			Diagnostics: []m.DiagnosticRecord{
				{File: "OrderServiceTests.cs", Line: 12, Column: 5, Code: "CS0103", Message: "The name 'sut' does not exist", Severity: m.SeverityError},
			},
		},
	}

	prompt, err := RepairPrompt(orderUnit(), "CURRENT FILE", last, 2)
	require.NoError(t, err)

	assert.Contains(t, prompt, "failed at the build step (attempt 2)")
	assert.Contains(t, prompt, "CURRENT FILE")
	assert.Contains(t, prompt, "- OrderServiceTests.cs(12,5): CS0103: The name 'sut' does not exist")
	assert.NotContains(t, prompt, "Test counts")
	assert.Contains(t, prompt, "line2\nline3")
	assert.NotContains(t, prompt, "line1")
}

func TestRepairPrompt_Test(t *testing.T) {
	last := m.DiagnosticBatch{
		Attempt: 1,
		Stage:   m.StageTest,
		Outcome: m.RunOutcome{
			ReturnCode: 1,
			Counts:     m.TestCounts{Passed: 3, Failed: 1},
			Diagnostics: []m.DiagnosticRecord{
				{Test: "OrderServiceTests.Total_Works", Message: "Expected 3", Severity: m.SeverityError},
			},
		},
	}

	prompt, err := RepairPrompt(orderUnit(), "CURRENT FILE", last, 40)
	require.NoError(t, err)

	assert.Contains(t, prompt, "failed at the test step (attempt 1)")
	assert.Contains(t, prompt, "- [OrderServiceTests.Total_Works] Expected 3")
	assert.Contains(t, prompt, "Test counts: passed 3, failed 1, skipped 0")
}

func TestSynthesizer_Initial(t *testing.T) {
	oracle := adaptermocks.NewMockOracle(t)
	oracle.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "class OrderServiceTests")
		})).
		Return("```csharp\n"+validTestFile+"\n```", nil).
		Once()

	s := NewSynthesizer(oracle, SynthesisOptions{})

	text, err := s.Initial(context.Background(), orderUnit())
	require.NoError(t, err)
	assert.Equal(t, validTestFile, text)
}

func TestSynthesizer_Repair(t *testing.T) {
	last := m.DiagnosticBatch{Attempt: 1, Stage: m.StageBuild}

	oracle := adaptermocks.NewMockOracle(t)
	oracle.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "OLD") && strings.Contains(prompt, "build step")
		})).
		Return(validTestFile, nil).
		Once()

	s := NewSynthesizer(oracle, SynthesisOptions{MinLength: 10})

	text, err := s.Repair(context.Background(), orderUnit(), "OLD", last)
	require.NoError(t, err)
	assert.Equal(t, validTestFile, text)
}

func TestSynthesizer_Errors(t *testing.T) {
	t.Run("oracle error keeps its cause", func(t *testing.T) {
		oracle := adaptermocks.NewMockOracle(t)
		oracle.EXPECT().Generate(mock.Anything, mock.Anything).Return("", context.DeadlineExceeded).Once()

		_, err := NewSynthesizer(oracle, SynthesisOptions{}).Initial(context.Background(), orderUnit())
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.False(t, errors.Is(err, ErrSynthesis))
	})

	t.Run("invalid output", func(t *testing.T) {
		oracle := adaptermocks.NewMockOracle(t)
		oracle.EXPECT().Generate(mock.Anything, mock.Anything).Return("```\n```", nil).Once()

		_, err := NewSynthesizer(oracle, SynthesisOptions{}).Initial(context.Background(), orderUnit())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyOutput)
	})
}

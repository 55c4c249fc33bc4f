package domain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/testforge/internal/model"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)

	return string(data)
}

func TestParseBuildDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		line string
		want m.DiagnosticRecord
		ok   bool
	}{
		{
			name: "error with project suffix",
			line: "Foo.cs(12,5): error CS0103: The name 'bar' does not exist [/src/App.csproj]",
			want: m.DiagnosticRecord{
				File: "Foo.cs", Line: 12, Column: 5, Code: "CS0103",
				Message: "The name 'bar' does not exist", Severity: m.SeverityError,
			},
			ok: true,
		},
		{
			name: "warning",
			line: `  C:\src\Foo.cs(3,1): warning CS8618: Non-nullable field`,
			want: m.DiagnosticRecord{
				File: `C:\src\Foo.cs`, Line: 3, Column: 1, Code: "CS8618",
				Message: "Non-nullable field", Severity: m.SeverityWarning,
			},
			ok: true,
		},
		{name: "plain text", line: "Build FAILED.", ok: false},
		{name: "missing column", line: "Foo.cs(12): error CS0103: nope", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBuildDiagnostic(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBuildOutput_DeduplicatesSummary(t *testing.T) {
	stdout := readFixture(t, "build_failure.txt")

	outcome := ParseBuildOutput(1, stdout, "")

	assert.Equal(t, 1, outcome.ReturnCode)
	assert.Equal(t, stdout, outcome.Stdout)
	require.Len(t, outcome.Diagnostics, 2)
	assert.Equal(t, m.DiagnosticRecord{
		File:     "/src/Shop.Tests/Services/OrderServiceTests.cs",
		Line:     12,
		Column:   5,
		Code:     "CS0103",
		Message:  "The name 'sut' does not exist in the current context",
		Severity: m.SeverityError,
	}, outcome.Diagnostics[0])
	assert.Equal(t, m.SeverityWarning, outcome.Diagnostics[1].Severity)
	assert.Equal(t, "CS8602", outcome.Diagnostics[1].Code)
	assert.Len(t, outcome.Errors(), 1)
}

func TestParseBuildOutput_ErrorLinesWithoutLocation(t *testing.T) {
	outcome := ParseBuildOutput(1, "", "MSBUILD : error MSB1009: Project file does not exist.\r\n")

	require.Len(t, outcome.Diagnostics, 1)
	assert.Equal(t, m.DiagnosticRecord{
		Message:  "MSBUILD : error MSB1009: Project file does not exist.",
		Severity: m.SeverityError,
	}, outcome.Diagnostics[0])
}

func TestParseBuildOutput_CleanBuild(t *testing.T) {
	outcome := ParseBuildOutput(0, "Build succeeded.\n    0 Warning(s)\n    0 Error(s)\n", "")

	assert.Empty(t, outcome.Diagnostics)
	assert.Empty(t, outcome.Errors())
}

func TestParseTestOutput_Fixture(t *testing.T) {
	outcome := ParseTestOutput(1, readFixture(t, "test_failure.txt"), "")

	assert.Equal(t, m.TestCounts{Passed: 1, Failed: 1, Skipped: 1}, outcome.Counts)
	require.Len(t, outcome.Diagnostics, 1)
	assert.Equal(t, m.DiagnosticRecord{
		Test:     "Shop.Services.Tests.OrderServiceTests.GetByIdAsync_OrderExists_ReturnsOrder",
		Message:  "Expected result not to be <null>.",
		Severity: m.SeverityError,
	}, outcome.Diagnostics[0])
}

func TestParseTestOutput_SummaryMarkers(t *testing.T) {
	stdout := "Passed!\nPassed!\nPassed!\nFailed!\n"

	outcome := ParseTestOutput(1, stdout, "")

	assert.Equal(t, m.TestCounts{Passed: 3, Failed: 1, Skipped: 0}, outcome.Counts)
	assert.Empty(t, outcome.Diagnostics)
}

func TestParseTestOutput_RunTotals(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   m.TestCounts
	}{
		{
			name:   "totals replace the per-case tally",
			stdout: "  Failed Ns.T.A [3 ms]\n  Error Message:\n   boom\n\nFailed!  - Failed: 1, Passed: 2, Skipped: 0, Total: 3, Duration: 4 ms\n",
			want:   m.TestCounts{Passed: 2, Failed: 1},
		},
		{
			name:   "green run",
			stdout: "Passed!  - Failed:     0, Passed:     5, Skipped:     0, Total:     5, Duration: 12 ms - Shop.Tests.dll (net8.0)\n",
			want:   m.TestCounts{Passed: 5},
		},
		{
			name: "one line per assembly",
			stdout: "Passed!  - Failed: 0, Passed: 4, Skipped: 1, Total: 5\n" +
				"Failed!  - Failed: 2, Passed: 3, Skipped: 0, Total: 5\n",
			want: m.TestCounts{Passed: 7, Failed: 2, Skipped: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := ParseTestOutput(1, tt.stdout, "")

			assert.Equal(t, tt.want, outcome.Counts)
		})
	}
}

func TestParseTestOutput_RunTotalsKeepFailureMessage(t *testing.T) {
	outcome := ParseTestOutput(1, "  Failed Ns.T.A [3 ms]\n  Error Message:\n   boom\nFailed!  - Failed: 1, Passed: 0, Skipped: 0, Total: 1\n", "")

	require.Len(t, outcome.Diagnostics, 1)
	assert.Equal(t, "Ns.T.A", outcome.Diagnostics[0].Test)
	assert.Equal(t, "boom", outcome.Diagnostics[0].Message)
}

func TestParseTestOutput_MultiLineMessageAndBuildErrors(t *testing.T) {
	stdout := `/src/T.cs(4,2): error CS1002: ; expected [/src/T.csproj]
  Failed Ns.T.Adds(a: 1, b: 2) [1 ms]
  Error Message:
   Assert.Equal() Failure
   Expected: 3
   Actual:   4

  Failed Ns.T.Other [1 ms]
  Error Message: boom
`

	outcome := ParseTestOutput(1, stdout, "")

	assert.Equal(t, m.TestCounts{Failed: 2}, outcome.Counts)
	require.Len(t, outcome.Diagnostics, 3)
	assert.Equal(t, "CS1002", outcome.Diagnostics[0].Code)
	assert.Equal(t, "Ns.T.Adds(a: 1, b: 2)", outcome.Diagnostics[1].Test)
	assert.Equal(t, "Assert.Equal() Failure\nExpected: 3\nActual:   4", outcome.Diagnostics[1].Message)
	assert.Equal(t, m.DiagnosticRecord{Test: "Ns.T.Other", Message: "boom", Severity: m.SeverityError}, outcome.Diagnostics[2])
}

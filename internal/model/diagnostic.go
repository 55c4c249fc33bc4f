package model

// Severity classifies a diagnostic record.
type Severity string

const (
	// SeverityError marks compiler errors and failed test cases.
	SeverityError Severity = "error"
	// SeverityWarning marks compiler warnings.
	SeverityWarning Severity = "warning"
)

// DiagnosticRecord is one compiler or test-runner message.
// File, Line, Column, Code and Test are optional.
type DiagnosticRecord struct {
	File     string   `yaml:"file,omitempty"`
	Line     int      `yaml:"line,omitempty"`
	Column   int      `yaml:"column,omitempty"`
	Code     string   `yaml:"code,omitempty"`
	Test     string   `yaml:"test,omitempty"`
	Message  string   `yaml:"message"`
	Severity Severity `yaml:"severity"`
}

// TestCounts tallies per-case test statuses.
type TestCounts struct {
	Passed  int `yaml:"passed"`
	Failed  int `yaml:"failed"`
	Skipped int `yaml:"skipped"`
}

// RunOutcome is the parsed result of one external build or test invocation.
// The raw output is always kept next to the structured extraction.
type RunOutcome struct {
	ReturnCode  int                `yaml:"return_code"`
	Stdout      string             `yaml:"stdout,omitempty"`
	Stderr      string             `yaml:"stderr,omitempty"`
	Counts      TestCounts         `yaml:"counts"`
	Diagnostics []DiagnosticRecord `yaml:"diagnostics,omitempty"`
}

// Errors returns the records with error severity.
func (o RunOutcome) Errors() []DiagnosticRecord {
	var out []DiagnosticRecord

	for _, d := range o.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}

	return out
}

package model

import "time"

// Report is the persisted form of a SessionResult.
type Report struct {
	Source       Path              `yaml:"source"`
	SourceHash   string            `yaml:"source_hash,omitempty"`
	ArtifactPath Path              `yaml:"artifact"`
	Status       SessionStatus     `yaml:"status"`
	Reason       Reason            `yaml:"reason,omitempty"`
	Attempts     int               `yaml:"attempts"`
	Error        string            `yaml:"error,omitempty"`
	Outcome      RunOutcome        `yaml:"outcome"`
	History      []DiagnosticBatch `yaml:"history,omitempty"`
	FinishedAt   time.Time         `yaml:"finished_at"`
}

// NewReport converts a session result into its persisted form.
func NewReport(result SessionResult, sourceHash string, finishedAt time.Time) Report {
	report := Report{
		Source:       result.Source,
		SourceHash:   sourceHash,
		ArtifactPath: result.ArtifactPath,
		Status:       result.Status,
		Reason:       result.Reason,
		Attempts:     result.Attempts,
		Outcome:      result.FinalOutcome,
		History:      result.History,
		FinishedAt:   finishedAt,
	}
	if result.Err != nil {
		report.Error = result.Err.Error()
	}

	return report
}

package model

// Stage identifies the step of a repair attempt that produced diagnostics.
type Stage string

const (
	// StageSynthesis is the oracle request and output validation.
	StageSynthesis Stage = "synthesis"
	// StageBuild is the external build of the descriptor.
	StageBuild Stage = "build"
	// StageTest is the external test run of the test project.
	StageTest Stage = "test"
)

// SessionStatus is the terminal status of a repair session.
type SessionStatus string

const (
	// StatusSuccess means the artifact compiled and every test passed.
	StatusSuccess SessionStatus = "success"
	// StatusExhausted means the attempt budget ran out.
	StatusExhausted SessionStatus = "exhausted"
	// StatusAborted means a non-retryable failure ended the session.
	StatusAborted SessionStatus = "aborted"
)

// Reason explains a non-success terminal status.
type Reason string

// Available Reason values.
const (
	ReasonNone       Reason = ""
	ReasonSynthesis  Reason = "synthesis"
	ReasonBuild      Reason = "build"
	ReasonTest       Reason = "test"
	ReasonTimeout    Reason = "timeout"
	ReasonCanceled   Reason = "canceled"
	ReasonDiscovery  Reason = "discovery"
	ReasonDescriptor Reason = "descriptor"
	ReasonIO         Reason = "io"
)

// SessionState is a node of the repair state machine.
type SessionState string

// Available SessionState values. The last three are terminal.
const (
	StateInit        SessionState = "init"
	StateGenerating  SessionState = "generating"
	StateBuilding    SessionState = "building"
	StateBuildFailed SessionState = "build_failed"
	StateTesting     SessionState = "testing"
	StateTestFailed  SessionState = "test_failed"
	StateSuccess     SessionState = "success"
	StateExhausted   SessionState = "exhausted"
	StateAborted     SessionState = "aborted"
)

// Terminal reports whether no transition leaves s.
func (s SessionState) Terminal() bool {
	return s == StateSuccess || s == StateExhausted || s == StateAborted
}

// CandidateArtifact is the generated test file for one source unit.
// It is rewritten wholesale on every attempt and kept after the session ends.
type CandidateArtifact struct {
	Text    string
	Path    Path
	Unit    *SourceUnit
	Attempt int
}

// DiagnosticBatch is the diagnostics of one failed build or test run.
type DiagnosticBatch struct {
	Attempt int        `yaml:"attempt"`
	Stage   Stage      `yaml:"stage"`
	Outcome RunOutcome `yaml:"outcome"`
}

// RepairSession is the state of the bounded generate/build/test cycle for one
// source unit.
type RepairSession struct {
	Unit     *SourceUnit
	Artifact CandidateArtifact
	History  []DiagnosticBatch
	Attempt  int
	Status   SessionStatus
	Reason   Reason
}

// LastBatch returns the most recent diagnostic batch, if any.
func (s *RepairSession) LastBatch() (DiagnosticBatch, bool) {
	if len(s.History) == 0 {
		return DiagnosticBatch{}, false
	}

	return s.History[len(s.History)-1], true
}

// SessionResult is reported to the caller for every processed unit.
type SessionResult struct {
	Source       Path
	ArtifactPath Path
	Status       SessionStatus
	Reason       Reason
	Attempts     int
	FinalOutcome RunOutcome
	// FinalDiagnostics is the last diagnostic batch recorded, verbatim.
	FinalDiagnostics []DiagnosticRecord
	History          []DiagnosticBatch
	Err              error
}

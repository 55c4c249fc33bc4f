package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	m "github.com/mouse-blink/testforge/internal/model"
)

// waitDelay bounds how long a killed process may keep its output pipes open.
const waitDelay = 5 * time.Second

// ProcessResult is the raw result of an external build or test invocation.
type ProcessResult struct {
	Code   int
	Stdout string
	Stderr string
}

// BuildTestRunner invokes the external compiler and test runner. Success is
// signaled only by a zero return code; a non-nil error means the process
// could not be run to completion (not found, killed by the context).
type BuildTestRunner interface {
	Build(ctx context.Context, descriptor m.Path) (ProcessResult, error)
	Test(ctx context.Context, project m.Path, filter string) (ProcessResult, error)
}

// LocalBuildTestRunner runs commands such as `dotnet build` and `dotnet test`.
type LocalBuildTestRunner struct {
	buildCommand []string
	testCommand  []string
}

// NewLocalBuildTestRunner constructs a runner. Each command is a program
// followed by its leading arguments; the target path is appended.
func NewLocalBuildTestRunner(buildCommand, testCommand []string) *LocalBuildTestRunner {
	if len(buildCommand) == 0 {
		buildCommand = []string{"dotnet", "build"}
	}

	if len(testCommand) == 0 {
		testCommand = []string{"dotnet", "test"}
	}

	return &LocalBuildTestRunner{buildCommand: buildCommand, testCommand: testCommand}
}

// Build compiles the descriptor.
func (r *LocalBuildTestRunner) Build(ctx context.Context, descriptor m.Path) (ProcessResult, error) {
	return run(ctx, r.buildCommand, descriptor)
}

// Test runs the tests of a project. A non-empty filter restricts the run to
// tests whose fully qualified name contains it.
func (r *LocalBuildTestRunner) Test(ctx context.Context, project m.Path, filter string) (ProcessResult, error) {
	var extra []string
	if filter != "" {
		extra = []string{"--filter", "FullyQualifiedName~" + filter}
	}

	return run(ctx, r.testCommand, project, extra...)
}

// run executes command with target and extra appended, from target's
// directory. The working directory is set on the child process only.
func run(ctx context.Context, command []string, target m.Path, extra ...string) (ProcessResult, error) {
	args := append(append([]string{}, command[1:]...), string(target))
	args = append(args, extra...)

	// #nosec G204 - the command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Dir = filepath.Dir(string(target))
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ProcessResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Code = -1
		return result, fmt.Errorf("%s %s: %w", command[0], target, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Code = exitErr.ExitCode()
		return result, nil
	}

	if err != nil {
		result.Code = -1
		return result, fmt.Errorf("%s %s: %w", command[0], target, err)
	}

	return result, nil
}

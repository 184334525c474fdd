package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Options configures a single command invocation.
type Options struct {
	// Dir is the working directory for the command.
	// Empty means the current directory.
	Dir string

	// Env is extra environment variables in "NAME=value" form,
	// appended to the parent process environment.
	Env []string

	// CombinedOutput merges stderr into the returned output.
	// When false, stderr is captured separately and attached to the
	// returned *Error on failure.
	CombinedOutput bool
}

// CommandRunner executes external commands.
// Implementations must honor context cancellation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner that executes real commands.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its trimmed standard output.
// On failure the returned error is an *Error carrying the captured
// error stream and exit information.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if opts.CombinedOutput {
		out, err := cmd.CombinedOutput()
		output := strings.TrimRight(string(out), "\n")
		if err != nil {
			return output, wrapExecError(name, args, output, err)
		}
		return output, nil
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	output := strings.TrimRight(string(out), "\n")
	if err != nil {
		return output, wrapExecError(name, args, strings.TrimSpace(stderr.String()), err)
	}
	return output, nil
}

func wrapExecError(name string, args []string, stderr string, err error) error {
	runErr := &Error{
		Name:   name,
		Args:   args,
		Stderr: stderr,
		Err:    err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		runErr.ExitCode = exitErr.ExitCode()
	} else {
		runErr.ExitCode = -1
	}
	return runErr
}

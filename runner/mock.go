package runner

import (
	"context"
	"errors"
	"strings"
)

// Call records a single command invocation on a MockRunner.
type Call struct {
	Name string
	Args []string
	Opts Options
}

// Command returns the full command line for assertions.
func (c Call) Command() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

type mockResponse struct {
	output string
	stderr string
	err    error
}

// MockRunner is a CommandRunner for tests. Responses are consumed in
// the order they were queued; running past the queue is an error so
// tests fail loudly on unexpected invocations.
type MockRunner struct {
	Calls     []Call
	responses []mockResponse
}

// NewMockRunner creates an empty mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// AddOutput queues a successful (or failed) response with the given output.
func (m *MockRunner) AddOutput(output string, err error) {
	m.responses = append(m.responses, mockResponse{output: output, err: err})
}

// AddOutputError queues a failed response carrying a stderr stream.
// The returned error is an *Error wrapping err, mirroring ExecRunner.
func (m *MockRunner) AddOutputError(output, stderr string, err error) {
	m.responses = append(m.responses, mockResponse{output: output, stderr: stderr, err: err})
}

// Run pops the next queued response and records the call.
func (m *MockRunner) Run(ctx context.Context, name string, args []string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.Calls = append(m.Calls, Call{Name: name, Args: args, Opts: opts})

	if len(m.responses) == 0 {
		return "", errors.New("mock runner: unexpected command: " + name)
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.err != nil {
		return resp.output, &Error{
			Name:     name,
			Args:     args,
			Stderr:   resp.stderr,
			ExitCode: 1,
			Err:      resp.err,
		}
	}
	return resp.output, nil
}

// CallCount returns the number of recorded invocations.
func (m *MockRunner) CallCount() int {
	return len(m.Calls)
}

// CalledWith reports whether any recorded call ran the named command.
func (m *MockRunner) CalledWith(name string) bool {
	for _, c := range m.Calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

package agent

import (
	"context"
	"fmt"

	"github.com/randalmurphal/gitssh/runner"
)

// Start launches a new ssh-agent and returns its session, parsed from
// the shell-style output of `ssh-agent -s`.
//
// Returns ErrNoAgentSession when the agent started but its output
// yielded no socket, which indicates an agent speaking an unexpected
// dialect.
func Start(ctx context.Context, r runner.CommandRunner) (Session, error) {
	out, err := r.Run(ctx, "ssh-agent", []string{"-s"}, runner.Options{})
	if err != nil {
		return Session{}, fmt.Errorf("start ssh-agent: %w", err)
	}

	s := ParseOutput(out)
	if !s.Valid() {
		return Session{}, fmt.Errorf("%w: output was %q", ErrNoAgentSession, out)
	}
	return s, nil
}

// AddKey loads the private key at keyPath into the agent via ssh-add,
// run with the session's environment. Returns the combined ssh-add
// output for display.
func (s Session) AddKey(ctx context.Context, r runner.CommandRunner, keyPath string) (string, error) {
	out, err := r.Run(ctx, "ssh-add", []string{keyPath}, runner.Options{
		Env:            s.Environ(),
		CombinedOutput: true,
	})
	if err != nil {
		return out, fmt.Errorf("add key to agent: %w", err)
	}
	return out, nil
}

package runner

import "strings"

// Error wraps a failed command invocation with context.
type Error struct {
	Name     string   // Command name (e.g., "ssh-keyscan")
	Args     []string // Command arguments
	Stderr   string   // Captured error stream (or combined output)
	ExitCode int      // Process exit code, -1 if the command never ran
	Err      error    // Underlying error
}

func (e *Error) Error() string {
	cmd := e.Name
	if len(e.Args) > 0 {
		cmd += " " + strings.Join(e.Args, " ")
	}
	if e.Stderr != "" {
		return cmd + ": " + e.Stderr
	}
	return cmd + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Package runner provides external command execution behind a mockable
// interface.
//
// Production code uses ExecRunner; tests inject MockRunner with queued
// responses:
//
//	mock := runner.NewMockRunner()
//	mock.AddOutput("256 SHA256:... (ED25519)", nil)
//
//	out, err := mock.Run(ctx, "ssh-keygen", []string{"-l", "-f", path}, runner.Options{})
//
// Every invocation honors context cancellation, so callers can bound
// external utilities with a deadline.
package runner

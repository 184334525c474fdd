package keys

import (
	"context"
	"fmt"

	"github.com/randalmurphal/gitssh/runner"
)

// VerifyWithKeygen checks the installed key file with ssh-keygen and
// returns the fingerprint line it prints. This is the authoritative
// check that the on-disk file is usable by the system's SSH tooling,
// complementing the in-process validation done by Parse.
func VerifyWithKeygen(ctx context.Context, r runner.CommandRunner, path string) (string, error) {
	out, err := r.Run(ctx, "ssh-keygen", []string{"-l", "-f", path}, runner.Options{})
	if err != nil {
		return "", fmt.Errorf("verify key %s: %w", path, err)
	}
	return out, nil
}

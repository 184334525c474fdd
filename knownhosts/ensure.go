package knownhosts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/randalmurphal/gitssh/runner"
)

// ErrNoHostKeys is returned when ssh-keyscan produced no usable keys
// for the requested host.
var ErrNoHostKeys = errors.New("host key scan returned no keys")

// Ensure makes sure path contains at least one record for host,
// scanning the host with ssh-keyscan when absent. The file is created
// 0600 if missing. Returns the number of keys appended: 0 means the
// host was already trusted.
//
// Only scanned records that actually match the host are appended;
// banner noise and records for other hosts are discarded.
func Ensure(ctx context.Context, r runner.CommandRunner, path, host string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	existing := Parse(data)
	if existing.HasHost(host) {
		return 0, nil
	}

	out, err := r.Run(ctx, "ssh-keyscan", []string{"-H", host}, runner.Options{})
	if err != nil {
		return 0, fmt.Errorf("scan host keys for %s: %w", host, err)
	}

	scanned := Parse([]byte(out))
	var lines []string
	for _, e := range scanned.Entries {
		for _, h := range e.Hosts {
			if hostMatches(h, host) {
				lines = append(lines, e.Line)
				break
			}
		}
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoHostKeys, host)
	}

	if err := appendLines(path, data, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

// appendLines appends records to the file, creating it 0600 if needed
// and keeping records newline-separated regardless of how the existing
// content ends.
func appendLines(path string, existing []byte, lines []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	var sb strings.Builder
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		sb.WriteString("\n")
	}
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return f.Close()
}

package knownhosts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/randalmurphal/gitssh/runner"
	"github.com/randalmurphal/gitssh/testutil"
)

func TestParse(t *testing.T) {
	t.Run("plain and hashed entries", func(t *testing.T) {
		data := testutil.KnownHostsLine + "\n" +
			"# a comment\n" +
			"\n" +
			testutil.HashedKnownHostsLine + "\n"

		f := Parse([]byte(data))
		if len(f.Entries) != 2 {
			t.Fatalf("entries = %d, want 2", len(f.Entries))
		}
		if len(f.Malformed) != 0 {
			t.Errorf("malformed = %v, want none", f.Malformed)
		}
	})

	t.Run("malformed lines preserved, not fatal", func(t *testing.T) {
		data := "not a known hosts line\n" + testutil.KnownHostsLine + "\n"
		f := Parse([]byte(data))
		if len(f.Entries) != 1 {
			t.Errorf("entries = %d, want 1", len(f.Entries))
		}
		if len(f.Malformed) != 1 {
			t.Errorf("malformed = %d, want 1", len(f.Malformed))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		f := Parse(nil)
		if len(f.Entries) != 0 {
			t.Errorf("entries = %d, want 0", len(f.Entries))
		}
	})
}

func TestFile_HasHost(t *testing.T) {
	t.Run("plain hostname", func(t *testing.T) {
		f := Parse([]byte(testutil.KnownHostsLine + "\n"))
		if !f.HasHost("github.com") {
			t.Error("HasHost(github.com) = false, want true")
		}
		if f.HasHost("gitlab.com") {
			t.Error("HasHost(gitlab.com) = true, want false")
		}
	})

	t.Run("hashed hostname", func(t *testing.T) {
		f := Parse([]byte(testutil.HashedKnownHostsLine + "\n"))
		if !f.HasHost("github.com") {
			t.Error("HasHost(github.com) = false for hashed entry, want true")
		}
		if f.HasHost("evil.example.com") {
			t.Error("HasHost should not match a different host against the hash")
		}
	})

	t.Run("no substring false positives", func(t *testing.T) {
		// A record for a host whose name merely contains "github.com".
		line := strings.Replace(testutil.KnownHostsLine, "github.com", "notgithub.com.example", 1)
		f := Parse([]byte(line + "\n"))
		if f.HasHost("github.com") {
			t.Error("HasHost matched a substring, want exact host matching")
		}
	})

	t.Run("bracketed port form", func(t *testing.T) {
		line := strings.Replace(testutil.KnownHostsLine, "github.com", "[github.com]:443", 1)
		f := Parse([]byte(line + "\n"))
		if !f.HasHost("github.com") {
			t.Error("HasHost should match [host]:port records")
		}
	})
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("appends scanned keys for unknown host", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		path := filepath.Join(dir, "known_hosts")

		mock := runner.NewMockRunner()
		mock.AddOutput(testutil.HashedKnownHostsLine, nil)

		n, err := Ensure(ctx, mock, path, "github.com")
		if err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
		if n != 1 {
			t.Errorf("keys added = %d, want 1", n)
		}
		if got := mock.Calls[0].Command(); got != "ssh-keyscan -H github.com" {
			t.Errorf("command = %q", got)
		}

		content := testutil.ReadFile(t, path)
		if !strings.Contains(content, testutil.HashedKnownHostsLine) {
			t.Error("scanned key not written to file")
		}
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %o, want 0600", info.Mode().Perm())
		}
	})

	t.Run("no-op when host already trusted", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		path := testutil.WriteFile(t, dir, "known_hosts", testutil.KnownHostsLine+"\n")

		mock := runner.NewMockRunner()
		n, err := Ensure(ctx, mock, path, "github.com")
		if err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
		if n != 0 {
			t.Errorf("keys added = %d, want 0", n)
		}
		if mock.CallCount() != 0 {
			t.Error("ssh-keyscan should not run when host is trusted")
		}
	})

	t.Run("idempotent across runs", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		path := filepath.Join(dir, "known_hosts")

		mock := runner.NewMockRunner()
		mock.AddOutput(testutil.HashedKnownHostsLine, nil)

		if _, err := Ensure(ctx, mock, path, "github.com"); err != nil {
			t.Fatal(err)
		}
		first := testutil.ReadFile(t, path)

		if _, err := Ensure(ctx, mock, path, "github.com"); err != nil {
			t.Fatal(err)
		}
		second := testutil.ReadFile(t, path)

		if first != second {
			t.Error("second Ensure changed the file")
		}
	})

	t.Run("missing newline repaired before append", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		other := strings.Replace(testutil.KnownHostsLine, "github.com", "gitlab.example", 1)
		path := testutil.WriteFile(t, dir, "known_hosts", other) // no trailing newline

		mock := runner.NewMockRunner()
		mock.AddOutput(testutil.HashedKnownHostsLine, nil)

		if _, err := Ensure(ctx, mock, path, "github.com"); err != nil {
			t.Fatal(err)
		}
		f := Parse([]byte(testutil.ReadFile(t, path)))
		if len(f.Entries) != 2 {
			t.Errorf("entries = %d, want 2 (records must stay line-separated)", len(f.Entries))
		}
	})

	t.Run("scan failure", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		path := filepath.Join(dir, "known_hosts")

		mock := runner.NewMockRunner()
		mock.AddOutputError("", "getaddrinfo failed", errors.New("exit status 1"))

		_, err := Ensure(ctx, mock, path, "github.com")
		if err == nil {
			t.Fatal("expected error when scan fails")
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("file should not be created when scan fails")
		}
	})

	t.Run("scan output for the wrong host", func(t *testing.T) {
		dir := testutil.TempSSHDir(t)
		path := filepath.Join(dir, "known_hosts")

		other := strings.Replace(testutil.KnownHostsLine, "github.com", "other.example", 1)
		mock := runner.NewMockRunner()
		mock.AddOutput(other, nil)

		_, err := Ensure(ctx, mock, path, "github.com")
		if !errors.Is(err, ErrNoHostKeys) {
			t.Errorf("error = %v, want ErrNoHostKeys", err)
		}
	})
}

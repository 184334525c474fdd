package keys

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/randalmurphal/gitssh/testutil"
)

func TestEnsureDir(t *testing.T) {
	t.Run("creates missing directory with 0700", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "sub", ".ssh")
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0o700 {
			t.Errorf("mode = %o, want 0700", info.Mode().Perm())
		}
	})

	t.Run("accepts pre-existing directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Chmod(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := EnsureDir(dir); err != nil {
			t.Errorf("EnsureDir() error = %v", err)
		}
		// Mode is left alone: no downgrade of a pre-existing directory.
		info, _ := os.Stat(dir)
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0o755 {
			t.Errorf("mode = %o, want untouched 0755", info.Mode().Perm())
		}
	})

	t.Run("rejects non-directory", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "file", "content")
		if err := EnsureDir(path); err == nil {
			t.Error("EnsureDir() expected error for regular file")
		}
	})
}

func TestMaterial_Install(t *testing.T) {
	t.Run("writes with 0600", func(t *testing.T) {
		m, err := Parse(testutil.TestPrivateKey)
		if err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(t.TempDir(), "id_rsa_github")
		if err := m.Install(path); err != nil {
			t.Fatalf("Install() error = %v", err)
		}

		got := testutil.ReadFile(t, path)
		if got != testutil.TestPrivateKey {
			t.Error("installed content differs from key material")
		}
		info, _ := os.Stat(path)
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %o, want 0600", info.Mode().Perm())
		}
	})

	t.Run("overwrites prior content", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "id_rsa_github", "stale key\n")

		m, err := Parse(testutil.TestPrivateKey)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Install(path); err != nil {
			t.Fatalf("Install() error = %v", err)
		}
		if got := testutil.ReadFile(t, path); got != testutil.TestPrivateKey {
			t.Error("Install() should replace prior content")
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		m, err := Parse(testutil.TestPrivateKey)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Install(filepath.Join(dir, "key")); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("directory has %d entries, want 1", len(entries))
		}
	})
}

package keys

import (
	"fmt"
	"os"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// EnsureDir creates dir (and parents) with owner-only permissions if it
// does not exist. A pre-existing directory is accepted as-is; its mode
// is not tightened.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// Install writes the key material to path with mode 0600, replacing any
// prior content. The write goes through a uniquely named temp file in
// the same directory followed by a rename, so a crash never leaves a
// partially written key behind.
func (m *Material) Install(path string) error {
	suffix, err := gonanoid.New(8)
	if err != nil {
		return fmt.Errorf("generate temp suffix: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+suffix)
	if err := os.WriteFile(tmp, m.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	// WriteFile mode is subject to umask; make 0600 unconditional.
	if err := os.Chmod(tmp, 0o600); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("set key file mode: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install key file: %w", err)
	}
	return nil
}

package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// File resolves secrets from a dotenv-format file (NAME=value lines).
// The file is read once on first use.
type File struct {
	// Path to the dotenv file.
	Path string

	once sync.Once
	vals map[string]string
	err  error
}

// NewFile creates a dotenv-file provider.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) load() {
	f.vals, f.err = godotenv.Read(f.Path)
}

// Get resolves the secret from the file. A missing file is reported as
// ErrNotFound so File composes cleanly in a Chain.
func (f *File) Get(_ context.Context, name string) (string, error) {
	f.once.Do(f.load)
	if f.err != nil {
		if os.IsNotExist(f.err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNotFound, f.Path)
		}
		return "", fmt.Errorf("read %s: %w", f.Path, f.err)
	}
	v, ok := f.vals[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: no %s entry in %s", ErrNotFound, name, f.Path)
	}
	return v, nil
}

func (f *File) Name() string {
	return "file (" + f.Path + ")"
}

// Dir resolves secrets from a directory with one file per secret,
// the layout used by container secret mounts.
type Dir struct {
	// Path to the secrets directory.
	Path string
}

// Get reads the file named after the secret. Surrounding whitespace is
// trimmed since mounted secret files frequently carry a trailing
// newline.
func (d Dir) Get(_ context.Context, name string) (string, error) {
	// Reject names that escape the directory.
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid secret name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(d.Path, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, name)
	}
	return v, nil
}

func (d Dir) Name() string {
	return "dir (" + d.Path + ")"
}

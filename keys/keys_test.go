package keys

import (
	"errors"
	"strings"
	"testing"

	"github.com/randalmurphal/gitssh/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already normalized",
			in:   "line1\nline2\n",
			want: "line1\nline2\n",
		},
		{
			name: "per-line whitespace stripped",
			in:   "  line1  \n\tline2\t\n",
			want: "line1\nline2\n",
		},
		{
			name: "missing trailing newline added",
			in:   "line1\nline2",
			want: "line1\nline2\n",
		},
		{
			name: "multiple trailing newlines collapsed",
			in:   "line1\nline2\n\n\n",
			want: "line1\nline2\n",
		},
		{
			name: "leading blank lines dropped",
			in:   "\n\n  \nline1\n",
			want: "line1\n",
		},
		{
			name: "windows line endings",
			in:   "line1\r\nline2\r\n",
			want: "line1\nline2\n",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "  \n\t\n  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  a \nb\nc",
		testutil.TestPrivateKey,
		"\n\nx\n\n",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_EndsInSingleNewline(t *testing.T) {
	got := Normalize("  a  \n b ")
	if !strings.HasSuffix(got, "\n") {
		t.Error("normalized output must end in a newline")
	}
	if strings.HasSuffix(got, "\n\n") {
		t.Error("normalized output must end in exactly one newline")
	}
}

func TestParse(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		m, err := Parse(testutil.TestPrivateKey)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if m.Type() != "ssh-ed25519" {
			t.Errorf("Type() = %q, want ssh-ed25519", m.Type())
		}
		if got := m.Fingerprint(); got != testutil.TestKeyFingerprint {
			t.Errorf("Fingerprint() = %q, want %q", got, testutil.TestKeyFingerprint)
		}
		if string(m.Bytes()) != testutil.TestPrivateKey {
			t.Error("Bytes() should round-trip an already-normalized key")
		}
	})

	t.Run("mangled key normalizes before parsing", func(t *testing.T) {
		mangled := "  " + strings.ReplaceAll(testutil.TestPrivateKey, "\n", "  \n  ")
		m, err := Parse(mangled)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if string(m.Bytes()) != testutil.TestPrivateKey {
			t.Error("Bytes() should equal the clean key after normalization")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Parse("   \n  ")
		if !errors.Is(err, ErrEmptyKey) {
			t.Errorf("error = %v, want ErrEmptyKey", err)
		}
	})

	t.Run("encrypted key", func(t *testing.T) {
		_, err := Parse(testutil.EncryptedPrivateKey)
		if !errors.Is(err, ErrEncryptedKey) {
			t.Errorf("error = %v, want ErrEncryptedKey", err)
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := Parse("this is not a key\nat all\n")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("error = %v, want ErrInvalidKey", err)
		}
	})
}

func TestComputeFingerprint(t *testing.T) {
	fp := ComputeFingerprint([]byte("blob"))
	if !strings.HasPrefix(fp, "SHA256:") {
		t.Errorf("fingerprint = %q, want SHA256: prefix", fp)
	}
	if fp != ComputeFingerprint([]byte("blob")) {
		t.Error("fingerprint should be deterministic")
	}
	if fp == ComputeFingerprint([]byte("other")) {
		t.Error("different blobs should not collide")
	}
}

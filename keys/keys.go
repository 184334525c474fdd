package keys

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Normalize canonicalizes private key material pasted from a secrets
// store: every line is trimmed of surrounding whitespace, leading and
// trailing blank lines are dropped, and the result ends in exactly one
// newline. Whitespace-only input normalizes to "".
//
// Normalize is idempotent.
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	joined := strings.TrimSpace(strings.Join(lines, "\n"))
	if joined == "" {
		return ""
	}
	return joined + "\n"
}

// Material is normalized, validated private key material.
type Material struct {
	blob   string
	signer ssh.Signer
}

// Parse normalizes and validates private key material.
//
// Returns ErrEmptyKey for empty or whitespace-only input,
// ErrEncryptedKey for passphrase-protected keys, and ErrInvalidKey
// (wrapped) when the blob is not a private key at all.
func Parse(s string) (*Material, error) {
	blob := Normalize(s)
	if blob == "" {
		return nil, ErrEmptyKey
	}

	signer, err := ssh.ParsePrivateKey([]byte(blob))
	if err != nil {
		var passErr *ssh.PassphraseMissingError
		if errors.As(err, &passErr) {
			return nil, fmt.Errorf("%w: %v", ErrEncryptedKey, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &Material{blob: blob, signer: signer}, nil
}

// Bytes returns the normalized key blob, ready to write to disk.
func (m *Material) Bytes() []byte {
	return []byte(m.blob)
}

// Type returns the public key algorithm (e.g., "ssh-ed25519").
func (m *Material) Type() string {
	return m.signer.PublicKey().Type()
}

// Fingerprint returns the SHA256 fingerprint of the public key.
func (m *Material) Fingerprint() string {
	return ComputeFingerprint(m.signer.PublicKey().Marshal())
}

// ComputeFingerprint computes the SHA256 fingerprint of a key blob.
func ComputeFingerprint(keyBlob []byte) string {
	hash := sha256.Sum256(keyBlob)
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(hash[:])
}

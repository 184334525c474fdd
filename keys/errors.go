package keys

import "errors"

// Key material errors.
var (
	// ErrEmptyKey is returned when key material is empty after normalization.
	ErrEmptyKey = errors.New("key material is empty")

	// ErrEncryptedKey is returned for passphrase-protected private keys.
	ErrEncryptedKey = errors.New("private key is passphrase-protected")

	// ErrInvalidKey is returned when the material is not a private key.
	ErrInvalidKey = errors.New("invalid private key")
)

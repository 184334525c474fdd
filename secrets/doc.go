// Package secrets resolves named credential values from pluggable
// backends.
//
// Providers never log or serialize secret material; diagnostics carry
// only names and provider identities.
//
// # Providers
//
//   - Env: environment variables (optional prefix)
//   - File: dotenv-format file
//   - Dir: file-per-secret directory (container secret mounts)
//   - Static: in-memory map for tests and embedding callers
//   - Chain: first provider that resolves wins
//
// # Usage
//
//	provider := secrets.Chain{
//	    secrets.Env{},
//	    secrets.NewFile(".env"),
//	}
//
//	key, err := provider.Get(ctx, "id_rsa_github")
//	if errors.Is(err, secrets.ErrNotFound) {
//	    // no backend holds the secret
//	}
package secrets

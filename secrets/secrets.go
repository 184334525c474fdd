package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a named secret cannot be resolved.
var ErrNotFound = errors.New("secret not found")

// Provider resolves named secrets into credential material.
type Provider interface {
	// Get returns the raw value of the named secret.
	// Returns ErrNotFound (possibly wrapped) when the name cannot be
	// resolved; any other error indicates the provider itself failed.
	Get(ctx context.Context, name string) (string, error)

	// Name identifies the provider for diagnostics. It must never
	// include secret material.
	Name() string
}

// Env resolves secrets from environment variables.
//
// Secret names are mapped to variable names by uppercasing and
// replacing dashes with underscores, so "id_rsa_github" resolves from
// ID_RSA_GITHUB (or GITSSH_ID_RSA_GITHUB with Prefix "GITSSH_").
type Env struct {
	// Prefix is prepended to the mapped variable name.
	Prefix string
}

// Get resolves the secret from the process environment.
// Unset and empty variables both count as not found.
func (e Env) Get(_ context.Context, name string) (string, error) {
	v, ok := os.LookupEnv(e.varName(name))
	if !ok || v == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrNotFound, e.varName(name))
	}
	return v, nil
}

func (e Env) Name() string {
	if e.Prefix != "" {
		return "env (" + e.Prefix + "*)"
	}
	return "env"
}

func (e Env) varName(name string) string {
	mapped := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return e.Prefix + mapped
}

// Static resolves secrets from an in-memory map. Intended for tests
// and for callers that already hold the material.
type Static map[string]string

func (s Static) Get(_ context.Context, name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

func (s Static) Name() string {
	return "static"
}

// Chain tries providers in order, returning the first resolved value.
// A provider miss (ErrNotFound) moves on to the next provider; any
// other error aborts the chain.
type Chain []Provider

func (c Chain) Get(ctx context.Context, name string) (string, error) {
	for _, p := range c {
		v, err := p.Get(ctx, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return "", fmt.Errorf("%w: %s (tried %s)", ErrNotFound, name, c.Name())
}

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return strings.Join(names, ", ")
}

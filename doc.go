// Package gitssh provisions local SSH access to a code-hosting
// service in one shot: it resolves a private key from a secrets
// provider, installs it under the SSH directory with owner-only
// permissions, records the host's keys in known_hosts, writes a client
// config stanza, verifies the key, and loads it into an ssh-agent.
//
// The package is organized into subpackages by domain:
//
//   - secrets: named-secret resolution (env, dotenv file, directory)
//   - keys: key material normalization, validation, installation
//   - knownhosts: structured known_hosts records and host trust
//   - sshconfig: client config stanzas
//   - agent: ssh-agent sessions and key loading
//   - hostkeys: host keys published via the GitHub meta API
//   - config: layered settings resolution
//   - runner: mockable external command execution
//
// # Quick start
//
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := gitssh.New(settings, gitssh.WithSecrets(secrets.Chain{
//	    secrets.Env{},
//	    secrets.NewFile(".env"),
//	}))
//
//	result, err := p.Provision(ctx, "")
//	if err != nil {
//	    var stepErr *gitssh.StepError
//	    if errors.As(err, &stepErr) {
//	        fmt.Fprintln(os.Stderr, stepErr.Remediation())
//	    }
//	    os.Exit(1)
//	}
//
//	// result.Session.Environ() carries the agent variables for any
//	// later SSH invocation in this process.
//
// Every step is idempotent: rerunning after a partial failure
// completes the remaining work without duplicating known_hosts records
// or config stanzas. Failed runs are not rolled back; the artifacts an
// aborted run leaves behind (key file, trust records) are exactly the
// ones the next run needs anyway.
package gitssh

// Command gitssh provisions local SSH access to a code-hosting
// service in one shot.
//
// Usage:
//
//	gitssh [flags]
//
// The private key is resolved from the first backend that holds it:
// the process environment, then the secrets file (when given or when
// .env exists), then the secrets directory (when given).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/randalmurphal/gitssh"
	"github.com/randalmurphal/gitssh/config"
	"github.com/randalmurphal/gitssh/hostkeys"
	"github.com/randalmurphal/gitssh/secrets"
)

func main() {
	if err := run(); err != nil {
		var stepErr *gitssh.StepError
		if errors.As(err, &stepErr) {
			fmt.Fprintln(os.Stderr, stepErr.Remediation())
		} else {
			fmt.Fprintln(os.Stderr, "gitssh:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to yaml config file")
		secretName  = flag.String("secret", "", "secrets-provider name of the private key (default from config)")
		host        = flag.String("host", "", "hosting service to configure (default from config)")
		sshDir      = flag.String("ssh-dir", "", "SSH directory (default ~/.ssh)")
		secretsFile = flag.String("secrets-file", "", "dotenv file to resolve secrets from")
		secretsDir  = flag.String("secrets-dir", "", "directory with one file per secret")
		timeout     = flag.Duration("timeout", 0, "per-utility timeout (default from config)")
		verify      = flag.Bool("verify-host-keys", false, "cross-check scanned host keys against the service's published set")
		printEnv    = flag.Bool("print-env", false, "print agent export lines on success")
		quiet       = flag.BoolP("quiet", "q", false, "only log warnings and errors")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *host != "" {
		settings.Host = *host
	}
	if *sshDir != "" {
		settings.SSHDir = *sshDir
	}
	if *timeout > 0 {
		settings.CommandTimeout = config.Duration(*timeout)
	}
	if *verify {
		settings.VerifyHostKeys = true
	}

	provider := buildProvider(*secretsFile, *secretsDir)

	opts := []gitssh.Option{
		gitssh.WithSecrets(provider),
		gitssh.WithLogger(logger),
	}
	if settings.VerifyHostKeys {
		fetcher := hostkeys.Fetcher{}
		if settings.TokenSecret != "" {
			if token, err := provider.Get(context.Background(), settings.TokenSecret); err == nil {
				fetcher.Token = token
			} else {
				logger.Debug("no API token available, fetching host keys anonymously",
					"secret", settings.TokenSecret)
			}
		}
		opts = append(opts, gitssh.WithHostKeyFetcher(fetcher))
	}

	p := gitssh.New(settings, opts...)

	start := time.Now()
	result, err := p.Provision(context.Background(), *secretName)
	if err != nil {
		return err
	}

	logger.Info("done",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"key", result.KeyPath,
		"fingerprint", result.Fingerprint)

	if *printEnv {
		fmt.Print(result.Session.ExportLines())
	}
	return nil
}

// buildProvider composes the secret backends: environment first, then
// the dotenv file, then the secrets directory. A .env in the working
// directory participates even without the flag, matching how notebook
// and CI environments usually stash credentials.
func buildProvider(secretsFile, secretsDir string) secrets.Provider {
	chain := secrets.Chain{secrets.Env{}}

	switch {
	case secretsFile != "":
		chain = append(chain, secrets.NewFile(secretsFile))
	default:
		if _, err := os.Stat(".env"); err == nil {
			chain = append(chain, secrets.NewFile(".env"))
		}
	}
	if secretsDir != "" {
		chain = append(chain, secrets.Dir{Path: secretsDir})
	}
	return chain
}

package gitssh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/gitssh/agent"
	"github.com/randalmurphal/gitssh/config"
	"github.com/randalmurphal/gitssh/hostkeys"
	"github.com/randalmurphal/gitssh/keys"
	"github.com/randalmurphal/gitssh/knownhosts"
	"github.com/randalmurphal/gitssh/runner"
	"github.com/randalmurphal/gitssh/secrets"
	"github.com/randalmurphal/gitssh/sshconfig"
)

// HostKeyFetcher retrieves the host keys a hosting service publishes
// about itself. hostkeys.Fetcher is the GitHub implementation.
type HostKeyFetcher interface {
	Fetch(ctx context.Context) (*hostkeys.HostKeys, error)
}

// Provisioner configures local SSH access to a hosting service: key
// from a secrets provider onto disk, host into known_hosts, stanza
// into the client config, key into a running agent.
type Provisioner struct {
	settings config.Settings
	secrets  secrets.Provider
	runner   runner.CommandRunner
	logger   *slog.Logger
	fetcher  HostKeyFetcher
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithSecrets sets the secrets provider. Default is the process
// environment.
func WithSecrets(p secrets.Provider) Option {
	return func(pr *Provisioner) {
		pr.secrets = p
	}
}

// WithRunner sets the command runner. Primarily for tests.
func WithRunner(r runner.CommandRunner) Option {
	return func(pr *Provisioner) {
		pr.runner = r
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(pr *Provisioner) {
		pr.logger = l
	}
}

// WithHostKeyFetcher sets the published-host-key source used when
// settings enable verification.
func WithHostKeyFetcher(f HostKeyFetcher) Option {
	return func(pr *Provisioner) {
		pr.fetcher = f
	}
}

// New creates a Provisioner with the given settings.
func New(settings config.Settings, opts ...Option) *Provisioner {
	p := &Provisioner{
		settings: settings,
		secrets:  secrets.Env{},
		runner:   runner.NewExecRunner(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = hostkeys.Fetcher{}
	}
	return p
}

// Result reports what a successful provisioning run produced.
type Result struct {
	// KeyPath is where the private key was installed.
	KeyPath string

	// Fingerprint is the key's SHA256 public key fingerprint.
	Fingerprint string

	// KeygenOutput is the fingerprint line printed by ssh-keygen.
	KeygenOutput string

	// HostKeysAdded is how many host keys were appended to
	// known_hosts; 0 means the host was already trusted.
	HostKeysAdded int

	// ConfigUpdated reports whether a client config stanza was added.
	ConfigUpdated bool

	// Session identifies the agent now holding the key. Pass its
	// environment to later SSH invocations.
	Session agent.Session

	// AddKeyOutput is the ssh-add output.
	AddKeyOutput string
}

// Provision runs the pipeline for the named secret. An empty
// secretName uses the configured default. The first failing step
// aborts the run; earlier steps are not rolled back, and each step is
// idempotent so the run can simply be repeated.
func (p *Provisioner) Provision(ctx context.Context, secretName string) (*Result, error) {
	if secretName == "" {
		secretName = p.settings.SecretName
	}

	// Step 1: fetch and validate the key material. Nothing touches
	// the filesystem until the secret is known to be usable.
	material, err := p.fetchKey(ctx, secretName)
	if err != nil {
		return nil, err
	}

	sshDir, err := p.settings.ResolveSSHDir()
	if err != nil {
		return nil, &StepError{Step: StepSecureDir, Kind: KindFilesystem, Err: err}
	}
	keyPath, _ := p.settings.KeyPath()

	result := &Result{
		KeyPath:     keyPath,
		Fingerprint: material.Fingerprint(),
	}

	// Step 2: secure directory.
	if err := keys.EnsureDir(sshDir); err != nil {
		return nil, &StepError{
			Step:       StepSecureDir,
			Kind:       KindFilesystem,
			Err:        err,
			Suggestion: fmt.Sprintf("Check that you can create %s.", sshDir),
		}
	}
	p.logger.Debug("ssh directory ready", "dir", sshDir)

	// Step 3: key file.
	if err := material.Install(keyPath); err != nil {
		return nil, &StepError{Step: StepInstallKey, Kind: KindFilesystem, Err: err}
	}
	p.logger.Info("private key installed", "path", keyPath, "fingerprint", result.Fingerprint)

	// Step 4: known_hosts.
	if err := p.trustHost(ctx, result); err != nil {
		return nil, err
	}

	// Step 5: client config stanza.
	if err := p.writeConfig(result); err != nil {
		return nil, err
	}

	// Step 6: external key check.
	if err := p.verifyKey(ctx, result); err != nil {
		return nil, err
	}

	// Step 7: agent.
	if err := p.loadIntoAgent(ctx, result); err != nil {
		return nil, err
	}

	p.logger.Info("provisioning complete",
		"host", p.settings.Host,
		"key", keyPath,
		"agent_socket", result.Session.AuthSock)
	return result, nil
}

func (p *Provisioner) fetchKey(ctx context.Context, secretName string) (*keys.Material, error) {
	value, err := p.secrets.Get(ctx, secretName)
	if err != nil {
		return nil, &StepError{
			Step: StepFetchSecret,
			Kind: KindSecretUnavailable,
			Err:  err,
			Suggestion: fmt.Sprintf(
				"Add your SSH private key as a secret named %q (provider: %s).",
				secretName, p.secrets.Name()),
		}
	}

	material, err := keys.Parse(value)
	if err != nil {
		suggestion := fmt.Sprintf("Check the contents of the %q secret: it must be an SSH private key.", secretName)
		if errors.Is(err, keys.ErrEncryptedKey) {
			suggestion = fmt.Sprintf("The %q secret is passphrase-protected; store the unencrypted key instead.", secretName)
		}
		return nil, &StepError{
			Step:       StepFetchSecret,
			Kind:       KindSecretUnavailable,
			Err:        err,
			Suggestion: suggestion,
		}
	}

	p.logger.Debug("secret resolved", "name", secretName, "provider", p.secrets.Name())
	return material, nil
}

func (p *Provisioner) trustHost(ctx context.Context, result *Result) error {
	path, err := p.settings.KnownHostsPath()
	if err != nil {
		return &StepError{Step: StepKnownHosts, Kind: KindFilesystem, Err: err}
	}

	runCtx, cancel := p.utilityCtx(ctx)
	defer cancel()

	n, err := knownhosts.Ensure(runCtx, p.runner, path, p.settings.Host)
	if err != nil {
		stepErr := &StepError{
			Step:    StepKnownHosts,
			Err:     err,
			Kind:    KindFilesystem,
			Suggestion: fmt.Sprintf("Check network access to %s and that %s is writable.", p.settings.Host, path),
		}
		var runErr *runner.Error
		switch {
		case errors.Is(err, knownhosts.ErrNoHostKeys):
			stepErr.Kind = KindMalformedOutput
			stepErr.Utility = "ssh-keyscan"
		case errors.As(err, &runErr):
			stepErr.Kind = KindUtility
			stepErr.Utility = "ssh-keyscan"
			stepErr.Output = runErr.Stderr
		}
		return stepErr
	}

	result.HostKeysAdded = n
	if n > 0 {
		p.logger.Info("host keys added to known_hosts", "host", p.settings.Host, "keys", n)
	} else {
		p.logger.Debug("host already in known_hosts", "host", p.settings.Host)
	}

	if p.settings.VerifyHostKeys {
		p.verifyTrustedKeys(ctx, path)
	}
	return nil
}

// verifyTrustedKeys cross-checks the recorded host keys against the
// keys the service publishes about itself. Advisory: failures here
// are logged, never fatal, since the published set requires network
// access that the rest of the pipeline does not.
func (p *Provisioner) verifyTrustedKeys(ctx context.Context, knownHostsPath string) {
	data, err := os.ReadFile(knownHostsPath)
	if err != nil {
		p.logger.Warn("host key verification skipped", "error", err)
		return
	}
	recorded := knownhosts.Parse(data).KeysFor(p.settings.Host)
	if len(recorded) == 0 {
		return
	}

	published, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Warn("host key verification skipped", "host", p.settings.Host, "error", err)
		return
	}

	if unknown := published.Verify(recorded); len(unknown) > 0 {
		types := make([]string, len(unknown))
		for i, k := range unknown {
			types[i] = k.Type()
		}
		p.logger.Warn("known_hosts contains keys the service does not publish",
			"host", p.settings.Host, "key_types", types)
	} else {
		p.logger.Info("host keys verified against published set", "host", p.settings.Host)
	}
}

func (p *Provisioner) writeConfig(result *Result) error {
	path, err := p.settings.ConfigPath()
	if err != nil {
		return &StepError{Step: StepClientConfig, Kind: KindFilesystem, Err: err}
	}

	stanza := sshconfig.HostStanza(p.settings.Host, p.settings.User, result.KeyPath)
	added, err := sshconfig.Ensure(path, stanza)
	if err != nil {
		return &StepError{
			Step:       StepClientConfig,
			Kind:       KindFilesystem,
			Err:        err,
			Suggestion: fmt.Sprintf("Check that %s is writable.", path),
		}
	}

	result.ConfigUpdated = added
	if added {
		p.logger.Info("client config stanza added", "host", p.settings.Host, "path", path)
	} else {
		p.logger.Debug("client config stanza already present", "host", p.settings.Host)
	}
	return nil
}

func (p *Provisioner) verifyKey(ctx context.Context, result *Result) error {
	runCtx, cancel := p.utilityCtx(ctx)
	defer cancel()

	out, err := keys.VerifyWithKeygen(runCtx, p.runner, result.KeyPath)
	if err != nil {
		stepErr := &StepError{
			Step:       StepVerifyKey,
			Kind:       KindUtility,
			Utility:    "ssh-keygen",
			Err:        err,
			Suggestion: "The installed key failed ssh-keygen's check; inspect the secret's format and content.",
		}
		var runErr *runner.Error
		if errors.As(err, &runErr) {
			stepErr.Output = runErr.Stderr
		}
		return stepErr
	}

	result.KeygenOutput = out
	p.logger.Info("key verified", "fingerprint", out)
	return nil
}

func (p *Provisioner) loadIntoAgent(ctx context.Context, result *Result) error {
	session, ok := agent.Current()
	if ok {
		p.logger.Debug("reusing agent from environment", "socket", session.AuthSock)
	} else {
		runCtx, cancel := p.utilityCtx(ctx)
		defer cancel()

		var err error
		session, err = agent.Start(runCtx, p.runner)
		if err != nil {
			stepErr := &StepError{
				Step:       StepAgent,
				Kind:       KindUtility,
				Utility:    "ssh-agent",
				Err:        err,
				Suggestion: "Check that ssh-agent is installed and on PATH.",
			}
			if errors.Is(err, agent.ErrNoAgentSession) {
				stepErr.Kind = KindMalformedOutput
			}
			var runErr *runner.Error
			if errors.As(err, &runErr) {
				stepErr.Output = runErr.Stderr
			}
			return stepErr
		}
		p.logger.Info("ssh-agent started", "socket", session.AuthSock, "pid", session.PID)
	}

	addCtx, cancel := p.utilityCtx(ctx)
	defer cancel()

	out, err := session.AddKey(addCtx, p.runner, result.KeyPath)
	if err != nil {
		stepErr := &StepError{
			Step:       StepAgent,
			Kind:       KindUtility,
			Utility:    "ssh-add",
			Err:        err,
			Output:     out,
			Suggestion: "The agent refused the key; rerun with a fresh agent or inspect the key file.",
		}
		var runErr *runner.Error
		if errors.As(err, &runErr) && out == "" {
			stepErr.Output = runErr.Stderr
		}
		return stepErr
	}

	result.Session = session
	result.AddKeyOutput = out
	p.logger.Info("key loaded into agent", "output", out)
	return nil
}

// utilityCtx bounds a single external invocation with the configured
// timeout.
func (p *Provisioner) utilityCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := p.settings.CommandTimeout.Std(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to setting names for environment overrides,
// e.g. GITSSH_HOST overrides the host setting.
const EnvPrefix = "GITSSH_"

// Settings configures a provisioning run. Zero values fall back to
// defaults at load time.
type Settings struct {
	// SecretName is the secrets-provider name of the private key.
	SecretName string `yaml:"secret_name"`

	// Host is the hosting service to configure access for.
	Host string `yaml:"host"`

	// User is the SSH login user for the host.
	User string `yaml:"user"`

	// SSHDir is the directory holding the key and config files.
	// Supports a leading "~". Empty means ~/.ssh.
	SSHDir string `yaml:"ssh_dir"`

	// KeyFileName is the private key filename inside SSHDir.
	KeyFileName string `yaml:"key_file"`

	// KnownHostsFileName is the known_hosts filename inside SSHDir.
	KnownHostsFileName string `yaml:"known_hosts_file"`

	// ConfigFileName is the client config filename inside SSHDir.
	ConfigFileName string `yaml:"config_file"`

	// CommandTimeout bounds each external utility invocation.
	// Zero disables the deadline.
	CommandTimeout Duration `yaml:"command_timeout"`

	// TokenSecret names an optional API token in the secrets provider,
	// used to authenticate host key verification.
	TokenSecret string `yaml:"token_secret"`

	// VerifyHostKeys cross-checks scanned host keys against the keys
	// the service publishes about itself.
	VerifyHostKeys bool `yaml:"verify_host_keys"`
}

// Defaults returns the built-in settings: the github.com deploy-key
// layout under ~/.ssh.
func Defaults() Settings {
	return Settings{
		SecretName:         "id_rsa_github",
		Host:               "github.com",
		User:               "git",
		KeyFileName:        "id_rsa_github",
		KnownHostsFileName: "known_hosts",
		ConfigFileName:     "config",
		CommandTimeout:     Duration(30 * time.Second),
	}
}

// Load resolves settings with the usual precedence: defaults, then the
// yaml file at path (optional; "" skips the file), then GITSSH_*
// environment variables.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	strVars := map[string]*string{
		"SECRET_NAME":      &s.SecretName,
		"HOST":             &s.Host,
		"USER":             &s.User,
		"SSH_DIR":          &s.SSHDir,
		"KEY_FILE":         &s.KeyFileName,
		"KNOWN_HOSTS_FILE": &s.KnownHostsFileName,
		"CONFIG_FILE":      &s.ConfigFileName,
		"TOKEN_SECRET":     &s.TokenSecret,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "COMMAND_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sCOMMAND_TIMEOUT: %w", EnvPrefix, err)
		}
		s.CommandTimeout = Duration(d)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "VERIFY_HOST_KEYS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sVERIFY_HOST_KEYS: %w", EnvPrefix, err)
		}
		s.VerifyHostKeys = b
	}
	return nil
}

// ResolveSSHDir returns the absolute SSH directory, expanding "~" and
// defaulting to ~/.ssh.
func (s Settings) ResolveSSHDir() (string, error) {
	dir := s.SSHDir
	if dir == "" {
		dir = "~/.ssh"
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

// KeyPath returns the full private key path.
func (s Settings) KeyPath() (string, error) {
	dir, err := s.ResolveSSHDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, s.KeyFileName), nil
}

// KnownHostsPath returns the full known_hosts path.
func (s Settings) KnownHostsPath() (string, error) {
	dir, err := s.ResolveSSHDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, s.KnownHostsFileName), nil
}

// ConfigPath returns the full client config path.
func (s Settings) ConfigPath() (string, error) {
	dir, err := s.ResolveSSHDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, s.ConfigFileName), nil
}

// Package config resolves provisioning settings with layered
// precedence:
//
//  1. GITSSH_* environment variables (highest)
//  2. yaml config file
//  3. built-in defaults (github.com deploy-key layout under ~/.ssh)
//
// # Example config file
//
//	secret_name: id_rsa_github
//	host: github.com
//	user: git
//	ssh_dir: ~/.ssh
//	command_timeout: 30s
//	verify_host_keys: true
package config

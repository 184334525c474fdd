// Package sshconfig reads and appends OpenSSH client configuration
// stanzas.
//
// The config is parsed into Host blocks and presence checks compare
// exact pattern tokens, so "Host github.com.backup" never satisfies a
// lookup for github.com. Ensure appends a stanza only when its host is
// absent, keeping repeated provisioning runs from duplicating blocks.
package sshconfig

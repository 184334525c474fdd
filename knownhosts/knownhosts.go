package knownhosts

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/ssh"
	xknownhosts "golang.org/x/crypto/ssh/knownhosts"
)

// Entry is one parsed known_hosts record.
type Entry struct {
	// Hosts are the host patterns the key applies to. Hashed entries
	// keep their |1|salt|hash| form.
	Hosts []string

	// Key is the host's public key.
	Key ssh.PublicKey

	// Line is the original text of the record.
	Line string
}

// File is a parsed known_hosts file. Lines that do not parse are kept
// in Malformed rather than failing the whole file; OpenSSH tolerates
// them and so do we.
type File struct {
	Entries   []Entry
	Malformed []string
}

// Parse parses known_hosts content into structured records.
func Parse(data []byte) *File {
	f := &File{}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		_, hosts, key, _, _, err := ssh.ParseKnownHosts([]byte(trimmed))
		if err != nil {
			f.Malformed = append(f.Malformed, trimmed)
			continue
		}
		f.Entries = append(f.Entries, Entry{Hosts: hosts, Key: key, Line: trimmed})
	}
	return f
}

// HasHost reports whether any record applies to the exact hostname.
// Both plain and hashed (|1|...) host fields match; unrelated text
// containing the hostname as a substring does not.
func (f *File) HasHost(host string) bool {
	return len(f.KeysFor(host)) > 0
}

// KeysFor returns the public keys recorded for the exact hostname.
func (f *File) KeysFor(host string) []ssh.PublicKey {
	var keys []ssh.PublicKey
	for _, e := range f.Entries {
		for _, h := range e.Hosts {
			if hostMatches(h, host) {
				keys = append(keys, e.Key)
				break
			}
		}
	}
	return keys
}

// hostMatches compares a known_hosts host field against a hostname.
// Handles the plain form, the bracketed non-standard-port form, and
// hashed fields.
func hostMatches(field, host string) bool {
	if strings.HasPrefix(field, "|") {
		return hashedHostMatches(field, host)
	}
	if field == host {
		return true
	}
	// [host]:port form used for non-standard ports.
	if strings.HasPrefix(field, "[") {
		if end := strings.Index(field, "]"); end > 1 {
			return field[1:end] == host
		}
	}
	return false
}

// hashedHostMatches checks a |1|salt|hash| field: the hash is
// HMAC-SHA1(salt, hostname).
func hashedHostMatches(field, host string) bool {
	parts := strings.Split(field, "|")
	// ["", "1", salt, hash]
	if len(parts) != 4 || parts[1] != "1" {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	mac := hmac.New(sha1.New, salt)
	mac.Write([]byte(host))
	return hmac.Equal(mac.Sum(nil), want)
}

// Line formats a known_hosts record for the given hosts and key.
func Line(hosts []string, key ssh.PublicKey) string {
	return xknownhosts.Line(hosts, key)
}

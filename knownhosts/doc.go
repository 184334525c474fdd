// Package knownhosts manages the OpenSSH known_hosts trust record.
//
// The file is parsed into discrete records and host presence is an
// exact match against each record's host patterns, including hashed
// (|1|...) fields. A hostname appearing as a substring of unrelated
// text never counts as trusted.
//
// Ensure is the one mutating operation: it appends the keys reported
// by ssh-keyscan when, and only when, the host has no record yet.
package knownhosts

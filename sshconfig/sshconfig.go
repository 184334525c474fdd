package sshconfig

import (
	"fmt"
	"os"
	"strings"
)

// Directive is a single configuration keyword/value pair.
type Directive struct {
	Keyword string
	Value   string
}

// Stanza is a Host block: a set of host patterns and the directives
// scoped to them.
type Stanza struct {
	Patterns   []string
	Directives []Directive
}

// String renders the stanza in OpenSSH client config syntax.
func (s Stanza) String() string {
	var sb strings.Builder
	sb.WriteString("Host ")
	sb.WriteString(strings.Join(s.Patterns, " "))
	sb.WriteString("\n")
	for _, d := range s.Directives {
		sb.WriteString("    ")
		sb.WriteString(d.Keyword)
		sb.WriteString(" ")
		sb.WriteString(d.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Parse splits client config content into Host stanzas. Directives
// before the first Host line belong to no stanza and are ignored for
// lookup purposes.
func Parse(data string) []Stanza {
	var stanzas []Stanza
	var current *Stanza

	for _, line := range strings.Split(data, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		keyword, value := splitDirective(trimmed)
		if strings.EqualFold(keyword, "Host") {
			if current != nil {
				stanzas = append(stanzas, *current)
			}
			current = &Stanza{Patterns: strings.Fields(value)}
			continue
		}
		if current != nil {
			current.Directives = append(current.Directives, Directive{Keyword: keyword, Value: value})
		}
	}
	if current != nil {
		stanzas = append(stanzas, *current)
	}
	return stanzas
}

// splitDirective splits "Keyword value..." or "Keyword=value" into its
// parts, both of which OpenSSH accepts.
func splitDirective(line string) (keyword, value string) {
	if i := strings.IndexAny(line, " \t="); i >= 0 {
		value = strings.TrimSpace(line[i:])
		value = strings.TrimSpace(strings.TrimPrefix(value, "="))
		return line[:i], value
	}
	return line, ""
}

// HasHost reports whether any stanza's pattern list contains the host
// as an exact pattern token. A pattern like "github.com.example" does
// not match "github.com".
func HasHost(data, host string) bool {
	for _, s := range Parse(data) {
		for _, p := range s.Patterns {
			if p == host {
				return true
			}
		}
	}
	return false
}

// Ensure appends the stanza to the config file unless a stanza for its
// first host pattern is already present. The file is created 0600 if
// missing. Returns true when the stanza was appended.
func Ensure(path string, stanza Stanza) (bool, error) {
	if len(stanza.Patterns) == 0 {
		return false, fmt.Errorf("stanza has no host patterns")
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if HasHost(string(data), stanza.Patterns[0]) {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}

	var sb strings.Builder
	if len(data) > 0 {
		if !strings.HasSuffix(string(data), "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(stanza.String())

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return false, fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}

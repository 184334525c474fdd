package agent

import (
	"os"
	"strings"
)

// Session identifies a running ssh-agent: the socket client
// invocations connect to and the agent's process id.
//
// A Session is an explicit value passed to whatever needs the agent.
// Nothing in this package mutates the process environment.
type Session struct {
	// AuthSock is the agent's unix socket path (SSH_AUTH_SOCK).
	AuthSock string

	// PID is the agent's process id as printed by ssh-agent
	// (SSH_AGENT_PID). May be empty for forwarded agents.
	PID string
}

// Valid reports whether the session identifies a reachable agent.
func (s Session) Valid() bool {
	return s.AuthSock != ""
}

// Environ returns the session as "NAME=value" assignments suitable for
// appending to a child process environment.
func (s Session) Environ() []string {
	env := []string{"SSH_AUTH_SOCK=" + s.AuthSock}
	if s.PID != "" {
		env = append(env, "SSH_AGENT_PID="+s.PID)
	}
	return env
}

// ExportLines renders shell export statements so an interactive caller
// can adopt the session in its own shell.
func (s Session) ExportLines() string {
	var sb strings.Builder
	for _, kv := range s.Environ() {
		sb.WriteString("export ")
		sb.WriteString(kv)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Current returns the session already present in the process
// environment, if any.
func Current() (Session, bool) {
	s := Session{
		AuthSock: os.Getenv("SSH_AUTH_SOCK"),
		PID:      os.Getenv("SSH_AGENT_PID"),
	}
	return s, s.Valid()
}

// ParseOutput extracts a session from `ssh-agent -s` output.
//
// Each line is handled best-effort: everything after the first ';' is
// discarded, the remainder is split on the first '='. Lines that do
// not carry both characters, and assignments other than the two agent
// variables, are ignored.
func ParseOutput(out string) Session {
	var s Session
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "=") || !strings.Contains(line, ";") {
			continue
		}
		stmt := strings.TrimSpace(line[:strings.Index(line, ";")])
		name, value, ok := strings.Cut(stmt, "=")
		if !ok {
			continue
		}
		switch name {
		case "SSH_AUTH_SOCK":
			s.AuthSock = value
		case "SSH_AGENT_PID":
			s.PID = value
		}
	}
	return s
}

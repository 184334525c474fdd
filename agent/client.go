package agent

import (
	"fmt"
	"io"
	"net"

	"golang.org/x/crypto/ssh/agent"
)

// Connection wraps an agent client with its underlying socket
// connection for cleanup.
type Connection struct {
	agent.ExtendedAgent
	conn io.Closer
}

// Close closes the underlying connection to the agent.
func (c *Connection) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Connect dials the session's socket and returns an agent protocol
// client. Close the connection when done.
func (s Session) Connect() (*Connection, error) {
	if !s.Valid() {
		return nil, ErrNoAgentSession
	}
	conn, err := net.Dial("unix", s.AuthSock)
	if err != nil {
		return nil, fmt.Errorf("connect to agent socket: %w", err)
	}
	return &Connection{
		ExtendedAgent: agent.NewClient(conn),
		conn:          conn,
	}, nil
}

// ListKeys lists the keys currently held by the agent.
func (c *Connection) ListKeys() ([]*agent.Key, error) {
	keys, err := c.List()
	if err != nil {
		return nil, fmt.Errorf("list agent keys: %w", err)
	}
	return keys, nil
}

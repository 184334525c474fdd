// Package agent manages ssh-agent sessions.
//
// Starting an agent yields a Session value carrying the socket path
// and agent pid; the session is passed explicitly to key loading and
// later SSH invocations instead of being written into the process
// environment.
//
//	session, err := agent.Start(ctx, runner.NewExecRunner())
//	if err != nil {
//	    return err
//	}
//	out, err := session.AddKey(ctx, r, keyPath)
//
// Session.Connect speaks the agent protocol directly (via
// golang.org/x/crypto/ssh/agent) for verification, e.g. listing the
// keys the agent holds after a load.
package agent

package agent

import "errors"

// ErrNoAgentSession is returned when no usable agent session exists:
// either ssh-agent output carried no SSH_AUTH_SOCK assignment or the
// session value is empty.
var ErrNoAgentSession = errors.New("no ssh-agent session")

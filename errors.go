package gitssh

import (
	"fmt"
	"strings"
)

// Kind classifies why a provisioning step failed.
type Kind int

const (
	// KindSecretUnavailable: the secrets provider failed, the value
	// was empty, or the material is not a usable private key.
	KindSecretUnavailable Kind = iota + 1

	// KindFilesystem: directory or file creation, read, write, or
	// permission setting failed.
	KindFilesystem

	// KindUtility: an external utility failed to launch or exited
	// non-zero.
	KindUtility

	// KindMalformedOutput: utility output yielded no usable result
	// (e.g., ssh-agent printed no socket assignment).
	KindMalformedOutput
)

func (k Kind) String() string {
	switch k {
	case KindSecretUnavailable:
		return "secret unavailable"
	case KindFilesystem:
		return "filesystem error"
	case KindUtility:
		return "utility error"
	case KindMalformedOutput:
		return "malformed utility output"
	default:
		return "unknown"
	}
}

// Step names a stage of the provisioning pipeline.
type Step string

// Pipeline steps in execution order.
const (
	StepFetchSecret  Step = "fetch secret"
	StepSecureDir    Step = "ensure ssh directory"
	StepInstallKey   Step = "install key file"
	StepKnownHosts   Step = "trust host keys"
	StepClientConfig Step = "write client config"
	StepVerifyKey    Step = "verify key"
	StepAgent        Step = "load key into agent"
)

// StepError reports which provisioning step failed and why. Callers
// can branch on Step and Kind programmatically; Remediation renders
// the human-readable trail.
type StepError struct {
	Step Step
	Kind Kind

	// Utility is the external command involved, for KindUtility and
	// KindMalformedOutput failures.
	Utility string

	// Output is captured utility output, when any exists.
	Output string

	// Suggestion is an actionable hint for the user.
	Suggestion string

	// Err is the underlying error.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Remediation renders the failure with its captured output and
// suggestion, for display to the user.
func (e *StepError) Remediation() string {
	var sb strings.Builder
	sb.WriteString(string(e.Step))
	sb.WriteString(" failed (")
	sb.WriteString(e.Kind.String())
	sb.WriteString("): ")
	sb.WriteString(e.Err.Error())

	if e.Output != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Output)
	}
	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}
	return sb.String()
}

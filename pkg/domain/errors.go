package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelector is returned when a selector does not have exactly four non-empty factors.
	ErrInvalidSelector = errors.New("invalid environment selector")

	// ErrUnknownGroup is returned when a selector or composite names a group that is not declared.
	ErrUnknownGroup = errors.New("unknown test group")

	// ErrUnknownAxisValue is returned when a selector factor is not a declared value of its axis.
	ErrUnknownAxisValue = errors.New("unknown axis value")

	// ErrEmptyGroup is returned when a group resolves to no commands.
	ErrEmptyGroup = errors.New("test group has no commands")

	// ErrCompositeCycle is returned when composite groups reference each other.
	ErrCompositeCycle = errors.New("composite group cycle")

	// ErrDuplicateMember is returned when a composite lists the same member twice.
	ErrDuplicateMember = errors.New("duplicate composite member")

	// ErrDuplicateGroup is returned when two groups share a name.
	ErrDuplicateGroup = errors.New("duplicate test group")

	// ErrInvalidConfig marks a malformed latticefile.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInstallFailed is returned when dependency installation fails; no command runs after it.
	ErrInstallFailed = errors.New("dependency installation failed")

	// ErrCommandFailed is returned when a command exits non-zero and aborts its group.
	ErrCommandFailed = errors.New("command failed")

	// ErrRunNotFound is returned when a run record cannot be found in the store.
	ErrRunNotFound = errors.New("run not found")
)

// ConfigError locates a configuration problem inside a latticefile.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := "config"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %s", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StepError describes a command that could not complete successfully.
// It unwraps to ErrInstallFailed or ErrCommandFailed depending on the phase.
type StepError struct {
	Phase    Phase
	Command  string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s step %q", e.Phase, e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" exited with code %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"fud-buddy/gateway/pkg/config"
)

// Exit codes returned by the fudbuddy command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrorFrom converts a configuration load failure into a
// *ConfigError naming the offending fields. Errors that are not validation
// failures are returned unchanged.
func ConfigErrorFrom(err error) error {
	var verr config.ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) == 0 {
		return err
	}

	fields := make([]string, 0, len(verr.Errors))
	messages := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
		messages = append(messages, fe.Message)
	}
	return NewConfigError(strings.Join(fields, ", "), strings.Join(messages, "; "))
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	return ExitFailure
}

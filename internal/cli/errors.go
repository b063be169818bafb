package cli

import (
	"errors"
	"fmt"
)

// Exit codes used by graspctl commands.
const (
	// ExitFailure is the generic failure code.
	ExitFailure = 1

	// ExitNotReachable is returned by choose when the grasp is not reachable.
	ExitNotReachable = 2
)

// ExitError represents a command failure with a specific exit code.
//
// Cobra RunE functions return it instead of calling os.Exit so command
// behaviour stays testable. [RunWithConfig] extracts the code with
// [IsExitError] and [Execute] performs the actual exit.
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int

	// Err is the underlying failure, if any.
	Err error
}

// Error implements the error interface. Without an underlying error the
// message is "exit status N", matching os/exec.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// IsExitError checks whether err carries an [ExitError] and extracts its code.
//
// Returns (code, true) if an *ExitError is found anywhere in the chain and
// (0, false) otherwise.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

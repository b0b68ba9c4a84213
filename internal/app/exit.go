package app

import (
	"errors"

	"github.com/openbindings/httpie-oapi/internal/openapi"
	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// ExitResult lets CLI handlers control exit code + whether output goes to stderr.
// Successful output travels the same way with Code 0, so every handler returns
// an error and main decides what to print.
type ExitResult struct {
	Code     int
	Message  string
	ToStderr bool
}

func (e ExitResult) Error() string   { return e.Message }
func (e ExitResult) ExitCode() int   { return e.Code }
func (e ExitResult) UseStderr() bool { return e.ToStderr }

// exitText creates an ExitResult with the given code, message, and stderr flag.
func exitText(code int, message string, toStderr bool) error {
	return ExitResult{Code: code, Message: message, ToStderr: toStderr}
}

// usageExit creates an ExitResult for usage errors (code 2, stderr).
func usageExit(message string) error {
	return ExitResult{Code: 2, Message: message, ToStderr: true}
}

// okText creates a success ExitResult (code 0) with the given message to stdout.
func okText(message string) error {
	return ExitResult{Code: 0, Message: message, ToStderr: false}
}

// failExit turns a store or fetch error into a code 1 result on stderr.
// ExitResults pass through unchanged.
func failExit(err error) error {
	if err == nil {
		return nil
	}
	var exit ExitResult
	if errors.As(err, &exit) {
		return exit
	}

	msg := err.Error()
	var fe *openapi.FetchError
	switch {
	case errors.Is(err, specstore.ErrDuplicateName):
		msg += " (use --force to overwrite)"
	case errors.As(err, &fe) && fe.Kind == openapi.KindUnreachable:
		msg += " (check the URL or raise --timeout)"
	}
	return exitText(1, msg, true)
}

package cmd

import (
	"context"
	"errors"

	"github.com/spigell/fitscore/internal/company"
)

// Process exit codes.
const (
	ExitOK = iota
	ExitUsage
	ExitProfileNotFound
	ExitProfileTransport
	ExitBackendUnavailable
	ExitMalformedResponse
	ExitFailure
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var usage *usageError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	// An interrupted run reaches here wrapped in an upstream error of the stage it stopped.
	case errors.Is(err, context.Canceled):
		return ExitFailure
	case errors.Is(err, company.ErrProfileNotFound):
		return ExitProfileNotFound
	case errors.Is(err, company.ErrProfileTransport):
		return ExitProfileTransport
	case errors.Is(err, company.ErrBackendUnavailable):
		return ExitBackendUnavailable
	case errors.Is(err, company.ErrMalformedResponse):
		return ExitMalformedResponse
	default:
		return ExitFailure
	}
}

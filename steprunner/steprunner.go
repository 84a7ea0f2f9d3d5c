package steprunner

import (
	"errors"
	"fmt"

	"github.com/bitrise-io/go-utils/v2/errorutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Step is a single command invocation.
// Report runs even when Run fails, so partial results are always printed.
type Step[C any, R any] interface {
	ProcessInputs() (C, error)
	Run(C) (R, error)
	Report(C, R) error
}

// ExitError ends the run with Code, without printing an error message.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// StepRunner ...
type StepRunner[C any, R any] struct {
	logger log.Logger
}

// NewStepRunner ...
func NewStepRunner[C any, R any](logger log.Logger) StepRunner[C, R] {
	return StepRunner[C, R]{
		logger: logger,
	}
}

// Run executes step and returns the process exit code.
func (r StepRunner[C, R]) Run(step Step[C, R]) int {
	config, err := step.ProcessInputs()
	if err != nil {
		return r.exitCode(fmt.Errorf("processing inputs failed: %w", err))
	}

	exitCode := 0
	result, err := step.Run(config)
	if err != nil {
		exitCode = r.exitCode(err)
	}

	if err := step.Report(config, result); err != nil {
		return r.exitCode(err)
	}

	return exitCode
}

func (r StepRunner[C, R]) exitCode(err error) int {
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	r.logger.Println()
	r.logger.Errorf("%s", errorutil.FormattedError(err))
	return 1
}

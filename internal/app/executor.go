package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Writes that replace persisted state run as a pipeline of steps:
//
//	validate  reject bad input before touching anything
//	perform   produce the candidate result (parse, compute)
//	verify    check the candidate independently of perform
//	archive   persist the verified result
//	respond   shape what the caller gets back
//
// Nothing is persisted unless every earlier step succeeded. When archive
// fails after a partial write, Rollback gets a chance to restore the
// previous state.

// ExecutionStep names a pipeline step.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation stopped at.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s step: %v", e.Operation, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations and logs their progress.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger uses slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation holds the step functions of one pipeline. Nil steps are skipped
// and pass the zero value along.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)

	// Rollback runs with the archive error when Archive fails. Its own error
	// is logged and does not replace the archive error.
	Rollback func(ctx context.Context, input I, archiveErr error) error
}

// runStep times fn at trace level and wraps its error with the step name.
func runStep(ctx context.Context, logger *slog.Logger, name string, step ExecutionStep, fn func() error) error {
	start := time.Now()

	err := fn()
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "step failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return &ExecutionError{Operation: name, Step: step, Cause: err}
	}

	logger.Log(ctx, logging.LevelTrace, "step done",
		slog.String("step", string(step)),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// Execute runs op over input and returns the response of the last step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	steps := []struct {
		step ExecutionStep
		run  func() error
	}{
		{StepValidate, func() error {
			if op.Validate == nil {
				return nil
			}

			return op.Validate(ctx, input)
		}},
		{StepPerform, func() (err error) {
			if op.Perform != nil {
				performed, err = op.Perform(ctx, input)
			}

			return err
		}},
		{StepVerify, func() (err error) {
			if op.Verify != nil {
				verified, err = op.Verify(ctx, input, performed)
			}

			return err
		}},
		{StepArchive, func() error {
			if op.Archive == nil {
				return nil
			}

			return op.Archive(ctx, input, verified)
		}},
		{StepRespond, func() (err error) {
			if op.Respond != nil {
				result, err = op.Respond(ctx, input, verified)
			}

			return err
		}},
	}

	for _, s := range steps {
		err := runStep(ctx, logger, op.Name, s.step, s.run)
		if err == nil {
			continue
		}

		if s.step == StepArchive && op.Rollback != nil {
			rbErr := op.Rollback(ctx, input, err)
			if rbErr != nil {
				logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr))
			}
		}

		return zero, err
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// IsExecutionError reports whether err came out of Execute.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep returns the step err stopped at.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

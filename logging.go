// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"log"
	"log/slog"
	"strings"
	"time"
)

type loggerKey struct{}

// Logger returns the [log.Logger] from the context, or [log.Default] if
// none is set.
//
// This is useful for custom logging decorators that need to access the
// configured logger.
func Logger(ctx context.Context) *log.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return logger
}

// WithLogger configures a [Step] to use a specific [log.Logger] for logging.
//
// The logger is stored in the context and used by [WithLogging]. This is
// typically applied once at the outermost step of a pipeline so all nested
// steps share the logger.
func WithLogger[S, T any](logger *log.Logger, step Step[S, T]) Step[S, T] {
	return func(ctx context.Context, in S) (T, error) {
		ctx = context.WithValue(ctx, loggerKey{}, logger)
		return step(ctx, in)
	}
}

// WithLogging wraps a [Step] with logging that prints messages when the
// step starts and finishes, including execution duration.
//
// The log messages include the full dotted path of step names from the
// context (e.g. "process.parse.validate"), as maintained by [Named]. If no
// names are set, logs show "<unknown>". The logger is retrieved from the
// context (set by [WithLogger]); [log.Default] is used otherwise.
//
// Log format:
//
//	[step.name] starting step
//	[step.name] finished step (took 123ms)
func WithLogging[S, T any](step Step[S, T]) Step[S, T] {
	return func(ctx context.Context, in S) (T, error) {
		fullName := fullStepName(ctx)
		logger := Logger(ctx)

		logger.Printf("[%s] starting step\n", fullName)
		start := time.Now()
		v, err := step(ctx, in)
		duration := time.Since(start)
		logger.Printf("[%s] finished step (took %v)\n", fullName, duration)
		return v, err
	}
}

type sloggerKey struct{}

// Slogger returns the [slog.Logger] from the context, or [slog.Default] if
// none is set.
func Slogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(sloggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// WithSlogger configures a [Step] to use a specific [slog.Logger] for
// structured logging.
//
// The logger is stored in the context and used by [WithSlogging]. This is
// typically applied once at the outermost step of a pipeline.
func WithSlogger[S, T any](logger *slog.Logger, step Step[S, T]) Step[S, T] {
	return func(ctx context.Context, in S) (T, error) {
		ctx = context.WithValue(ctx, sloggerKey{}, logger)
		return step(ctx, in)
	}
}

// WithSlogging wraps a [Step] with structured logging that emits records
// when the step starts and finishes.
//
// Records carry the dotted step-name path as a "name" attribute; the finish
// record adds "duration_ms" and, if the step failed, the "error". The
// logger is retrieved from the context (set by [WithSlogger]);
// [slog.Default] is used otherwise.
//
// Example:
//
//	step := flow.Named("fetch",
//	    flow.WithSlogging(slog.LevelInfo, fetchStep))
func WithSlogging[S, T any](level slog.Level, step Step[S, T]) Step[S, T] {
	return func(ctx context.Context, in S) (T, error) {
		fullName := fullStepName(ctx)
		logger := Slogger(ctx)

		logger.Log(ctx, level, "starting step", "name", fullName)
		start := time.Now()
		v, err := step(ctx, in)
		duration := time.Since(start)
		if err != nil {
			logger.Log(ctx, level, "finished step",
				"name", fullName, "duration_ms", duration.Milliseconds(), "error", err)
		} else {
			logger.Log(ctx, level, "finished step",
				"name", fullName, "duration_ms", duration.Milliseconds())
		}
		return v, err
	}
}

func fullStepName(ctx context.Context) string {
	names := StepNames(ctx)
	if len(names) == 0 {
		return "<unknown>"
	}
	return strings.Join(names, ".")
}

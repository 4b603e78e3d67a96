package core

import (
	"context"
	"io"
	"log/slog"
)

type OptionKey string

const (
	LoggerOptionKey  OptionKey = "logger_options"
	TimingOptionKey  OptionKey = "timing_options"
	FailureOptionKey OptionKey = "failure_options"
)

type LoggerOptions struct {
	Logger *slog.Logger
}

type TimingOptions struct {
	Suppressed bool
}

type FailureOptions struct {
	Output io.Writer
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerOptionKey, LoggerOptions{Logger: logger})
}

func WithTimingSuppressed(ctx context.Context, suppressed bool) context.Context {
	return context.WithValue(ctx, TimingOptionKey, TimingOptions{Suppressed: suppressed})
}

// WithFailureOutput makes the outermost pipeline render failures to w.
func WithFailureOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, FailureOptionKey, FailureOptions{Output: w})
}

func GetLogger(ctx context.Context, defaultLogger *slog.Logger) *slog.Logger {
	options, ok := ctx.Value(LoggerOptionKey).(LoggerOptions)
	if ok && options.Logger != nil {
		return options.Logger
	}
	return defaultLogger
}

func IsTimingSuppressed(ctx context.Context, defaultSuppressed bool) bool {
	options, ok := ctx.Value(TimingOptionKey).(TimingOptions)
	if ok {
		return options.Suppressed
	}
	return defaultSuppressed
}

func GetFailureOutput(ctx context.Context, defaultOutput io.Writer) io.Writer {
	options, ok := ctx.Value(FailureOptionKey).(FailureOptions)
	if ok && options.Output != nil {
		return options.Output
	}
	return defaultOutput
}

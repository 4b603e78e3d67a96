package step

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument matches a parameter no value could be found for.
	ErrMissingArgument = errors.New("missing argument")
	// ErrTooManyArguments matches more positional values than a step accepts.
	ErrTooManyArguments = errors.New("too many positional arguments")
	// ErrConfiguration matches step declarations rejected by New.
	ErrConfiguration = errors.New("step configuration")
)

// MissingArgumentError reports the parameter that could not be bound.
// Context describes what was available, ready for the error chain.
type MissingArgumentError struct {
	Name     string
	Identity string
	Context  string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("'%s' is required but not available.", e.Name)
}

func (e *MissingArgumentError) Is(target error) bool { return target == ErrMissingArgument }

type ArityError struct {
	Identity string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s takes %d positional arguments but %d were given", e.Identity, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == ErrTooManyArguments }

type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configError(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

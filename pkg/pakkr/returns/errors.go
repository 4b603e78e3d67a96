package returns

import (
	"errors"
	"fmt"
)

var (
	// ErrContractViolation matches every result that does not fit its contract.
	ErrContractViolation = errors.New("contract violation")
	// ErrConfiguration matches contracts that are malformed at declaration time.
	ErrConfiguration = errors.New("contract configuration")
)

// Violation is returned when an actual result does not match a declared
// contract, or when a narrowing or superset check fails.
type Violation struct {
	msg string
}

func (v *Violation) Error() string { return v.msg }

func (v *Violation) Is(target error) bool { return target == ErrContractViolation }

// ConfigError is returned when a contract cannot be declared as written.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func violation(format string, args ...any) error {
	return &Violation{msg: fmt.Sprintf(format, args...)}
}

func configError(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

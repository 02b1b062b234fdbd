package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMissingPartial   = errors.New("required partial is missing")
	ErrWatchUnavailable = errors.New("filesystem notifications are unavailable")
	ErrConfig           = errors.New("invalid configuration")
)

// MissingPartialError reports a required partial that could not be loaded.
// It is raised before any output file is touched.
type MissingPartialError struct {
	Kind PartialKind
	Path string
	Err  error
}

func (e *MissingPartialError) Error() string {
	return fmt.Sprintf("missing %s partial %s: %v", e.Kind, e.Path, e.Err)
}

func (e *MissingPartialError) Unwrap() []error {
	return []error{ErrMissingPartial, e.Err}
}

// IOError wraps a failed read, write, copy or delete on a single path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MissingWatchToolError reports that the notification subsystem could not be
// obtained when entering the watch loop.
type MissingWatchToolError struct {
	Err error
}

func (e *MissingWatchToolError) Error() string {
	return fmt.Sprintf("cannot watch for changes: %v", e.Err)
}

func (e *MissingWatchToolError) Unwrap() []error {
	return []error{ErrWatchUnavailable, e.Err}
}

// ConfigError reports an unusable configuration value or source.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}

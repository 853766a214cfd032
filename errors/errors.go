// Package errors provides error handling for assocparse.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, wrapping, user-facing hints and details.
//
// Usage:
//
//	// Wrap with context
//	if err := resolve(); err != nil {
//	    return errors.Wrap(err, "failed to open association file")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "download the file first and pass a local path")
//
// Data-quality problems inside an association file are never reported
// through this package; they are diagnostics collected by ixgest/report.
// Errors here are reserved for conditions that stop a run.
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
	Mark        = crdb.Mark
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors. Check with errors.Is; wrap with errors.Wrap to add
// context while preserving the type.
var (
	// ErrSourceUnavailable indicates the input could not be located, fetched
	// or opened. It is the only condition that aborts a parse run.
	ErrSourceUnavailable = New("source unavailable")

	// ErrUnsupportedScheme indicates a source URL scheme that cannot be fetched
	ErrUnsupportedScheme = New("unsupported source scheme")

	// ErrUnknownFormat indicates an association format name with no decoder
	ErrUnknownFormat = New("unknown association format")

	// ErrInvalidConfig indicates configuration that failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrInvalidRemapFile indicates an identifier remap table that could not be read
	ErrInvalidRemapFile = New("invalid remap file")
)

// IsSourceUnavailable reports whether err is or wraps ErrSourceUnavailable
func IsSourceUnavailable(err error) bool {
	return err != nil && Is(err, ErrSourceUnavailable)
}

// WrapSourceUnavailable marks err as a source failure while keeping its message.
// Returns nil for a nil error.
func WrapSourceUnavailable(err error, input string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, "source %q", input), ErrSourceUnavailable)
}

// NewInvalidConfigError creates an invalid-configuration error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Input
	FieldSource   = "source"
	FieldFormat   = "format"
	FieldLine     = "line"
	FieldLineNo   = "line_no"
	FieldVersion  = "version"
	FieldPath     = "path"
	FieldDetected = "detected"

	// Association content
	FieldSubject  = "subject"
	FieldObject   = "object"
	FieldCategory = "category"
	FieldSeverity = "severity"

	// Counts
	FieldCount        = "count"
	FieldLines        = "lines"
	FieldAssociations = "associations"
	FieldSkipped      = "skipped"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	parser := assoc.NewParser(decoder, cfg, logger.ComponentLogger("assoc.gaf"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(base, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

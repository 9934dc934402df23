// Package errors provides BuildError, a categorized error used by the site
// build and the CLI to decide between skipping a document and aborting a run.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory classifies a BuildError.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryParse      ErrorCategory = "parse"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how far an error reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the run
	SeverityError   ErrorSeverity = "error"   // fails one document
	SeverityWarning ErrorSeverity = "warning" // document skipped
)

// ContextFields carries structured context for BuildError.
type ContextFields map[string]any

// BuildError is a structured error with category, severity and context.
type BuildError struct {
	Category ErrorCategory `json:"category" yaml:"category"`
	Severity ErrorSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	Cause    error         `json:"-" yaml:"-"`
	Context  ContextFields `json:"context,omitempty" yaml:"context,omitempty"`
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuildError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first BuildError in err's chain.
func As(err error) (*BuildError, bool) {
	var be *BuildError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := As(err); ok {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if be, ok := As(err); ok {
		return be.Category
	}
	return CategoryInternal
}

// IsFatal reports whether err should stop the whole run.
func IsFatal(err error) bool {
	if be, ok := As(err); ok {
		return be.Severity == SeverityFatal
	}
	return err != nil
}

package errors

import (
	"fmt"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	be, ok := As(err)
	if !ok {
		return 1
	}
	switch be.Category {
	case CategoryConfig:
		return 7
	case CategoryParse:
		return 3
	case CategoryRender:
		return 4
	case CategoryFileSystem:
		return 11
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	be, ok := As(err)
	if !ok || a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}
	switch be.Category {
	case CategoryConfig:
		return fmt.Sprintf("Configuration error: %s", be.Message)
	case CategoryParse:
		return fmt.Sprintf("Source error: %s (fix the source file and rebuild)", be.Message)
	case CategoryRender:
		return fmt.Sprintf("Render error: %s", be.Message)
	case CategoryFileSystem:
		return fmt.Sprintf("File system error: %s", be.Message)
	default:
		return fmt.Sprintf("Error: %s", be.Message)
	}
}

// Handle logs err and returns the exit code for it.
func (a *CLIErrorAdapter) Handle(err error) int {
	if err == nil {
		return 0
	}
	code := a.ExitCodeFor(err)
	attrs := []any{"exit_code", code}
	if be, ok := As(err); ok {
		attrs = append(attrs, "category", string(be.Category))
		for k, v := range be.Context {
			attrs = append(attrs, k, v)
		}
		if be.Cause != nil {
			attrs = append(attrs, "cause", be.Cause.Error())
		}
	}
	a.logger.Error(a.FormatError(err), attrs...)
	return code
}

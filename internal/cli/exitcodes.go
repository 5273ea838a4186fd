package cli

import (
	"errors"
	"strings"

	"github.com/yaklabco/mddirective/internal/configloader"
	"github.com/yaklabco/mddirective/pkg/fsutil"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// Exit codes for mddirective.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitRenderErrors indicates a file failed to render or could not be
	// written.
	ExitRenderErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors that select an exit code.
var (
	// ErrRenderFailed is returned when at least one file failed. The
	// individual failures have been reported already.
	ErrRenderFailed = errors.New("render failed")

	// ErrUsage marks invalid flags or arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded or applied.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil || !result.HasErrors() {
		return ExitSuccess
	}
	return ExitRenderErrors
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRenderFailed):
		return ExitRenderErrors
	case errors.Is(err, ErrUsage), isCobraUsageError(err):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// isCobraUsageError recognizes the unwrapped errors cobra returns for
// unknown commands.
func isCobraUsageError(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}

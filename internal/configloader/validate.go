package configloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "handlers.note.type").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., options the handler ignores).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateHandlers(cfg, result)

	if cfg.Output.Format != "" && !cfg.Output.Format.IsValid() {
		result.addError("output.format", cfg.Output.Format,
			"invalid format %q; must be one of: html, markdown", cfg.Output.Format)
	}
	if ext := cfg.Output.Extension; ext != "" && strings.ContainsAny(ext, `/\`) {
		result.addError("output.extension", ext, "extension %q must not contain a path separator", ext)
	}

	if cfg.Render.Jobs < 0 {
		result.addError("render.jobs", cfg.Render.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	for i, ext := range cfg.Render.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.addWarning(fmt.Sprintf("render.extensions[%d]", i), ext,
				"extension %q has no leading dot and will never match", ext)
		}
	}
	for i, pattern := range cfg.Render.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.addError(fmt.Sprintf("render.exclude[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.addError("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	return result
}

// validateHandlers checks handler names and types in name order.
func validateHandlers(cfg *config.Config, result *ValidationResult) {
	names := make([]string, 0, len(cfg.Handlers))
	for name := range cfg.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h := cfg.Handlers[name]
		field := "handlers." + name

		if name != directive.Wildcard && !syntax.IsName(name) {
			result.addError(field, name, "%q is not a valid directive name", name)
		}
		if err := h.Validate(name); err != nil {
			result.addError(field+".type", h.Type, "%s; must be one of: %s", err, handlerTypeList())
			continue
		}
		if h.Tag != "" && h.Type != config.HandlerElement {
			result.addWarning(field+".tag", h.Tag, "tag is ignored by %q handlers", h.Type)
		}
	}
}

func handlerTypeList() string {
	types := config.HandlerTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

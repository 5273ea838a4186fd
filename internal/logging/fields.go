// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Render settings.
	FieldFlavor = "flavor"
	FieldFormat = "format"
	FieldReport = "report"
	FieldJobs   = "jobs"
	FieldOutDir = "out_dir"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesWritten    = "files_written"
	FieldFilesUnchanged  = "files_unchanged"
	FieldFilesErrored    = "files_errored"
	FieldBytes           = "bytes"
	FieldDirectives      = "directives"
	FieldHandled         = "handled"
	FieldUnhandled       = "unhandled"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Handler fields.
	FieldName = "name"
	FieldType = "type"
	FieldKind = "kind"
)

package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldPaths = "paths"
	FieldInput = "input"

	// Conversion fields.
	FieldOutput    = "output"
	FieldWritten   = "written"
	FieldAdditions = "additions"
	FieldDeletions = "deletions"

	// Configuration fields.
	FieldFlavor     = "flavor"
	FieldInputRules = "input_rules"
	FieldPasteRules = "paste_rules"

	// Engine fields.
	FieldMark    = "mark"
	FieldPattern = "pattern"
	FieldRange   = "range"
	FieldMatches = "matches"
	FieldEdit    = "edit"
	FieldSteps   = "steps"
	FieldCommand = "command"
	FieldChord   = "chord"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Mark listing fields.
	FieldName        = "name"
	FieldParseRules  = "parse_rules"
	FieldShortcuts   = "shortcuts"
	FieldDescription = "description"
)

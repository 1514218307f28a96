package logging

// Field names shared by every log entry the pipeline emits.
const (
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldAuditFile  = "audit_file"
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldLine       = "line"
	FieldContent    = "content"
	FieldFieldCount = "field_count"
	FieldDelimiter  = "delimiter"
	FieldEncoding   = "encoding"
	FieldDatabase   = "database"
	FieldDuration   = "duration_ms"
)

package jsonld

import "fmt"

// ValidationKind identifies the validation rule a document violated.
type ValidationKind string

const (
	MissingContext      ValidationKind = "missing_context"
	InvalidContextType  ValidationKind = "invalid_context_type"
	MissingType         ValidationKind = "missing_type"
	InvalidTypeType     ValidationKind = "invalid_type_type"
	InvalidID           ValidationKind = "invalid_id"
	InvalidDistribution ValidationKind = "invalid_distribution"
	InvalidRecordSet    ValidationKind = "invalid_record_set"
	InvalidField        ValidationKind = "invalid_field"
	InvalidRDF          ValidationKind = "invalid_rdf"
)

// ValidationError reports a structural conformance failure of a JSON-LD
// document. Field names the offending field path when one applies.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func newValidationError(kind ValidationKind, field string, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// MissingIdentifierError is returned by conversion when an object declares
// no @id and identifier generation is disabled. Path is the key chain from
// the document root to the offending object.
type MissingIdentifierError struct {
	Path string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("object at %s is missing @id and id generation is disabled", e.Path)
}

// TooDeepError is returned when the document nests deeper than the
// configured maximum, which signals malformed or adversarial input.
type TooDeepError struct {
	Path  string
	Depth int
}

func (e *TooDeepError) Error() string {
	return fmt.Sprintf("document exceeds maximum nesting depth %d at %s", e.Depth, e.Path)
}

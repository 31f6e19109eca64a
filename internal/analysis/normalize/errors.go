// internal/analysis/normalize/errors.go
package normalize

import (
	"errors"
	"fmt"
	"regexp"
)

// KindMalformedPayload is the only error kind Reconcile produces.
const KindMalformedPayload = "MalformedPayload"

// ErrMalformedPayload matches every *PayloadError through errors.Is.
var ErrMalformedPayload = errors.New("MALFORMED_PAYLOAD")

// PayloadError describes why a raw payload could not be reconciled. Path points
// at the offending value using the key that was actually read, e.g.
// "data.selling_points[0].questions[2].prompt".
type PayloadError struct {
	Path     string
	Expected string
	Actual   string
	Message  string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed payload at %s: %s (expected %s, got %s)", e.Path, e.Message, e.Expected, e.Actual)
}

// Kind returns KindMalformedPayload.
func (e *PayloadError) Kind() string {
	return KindMalformedPayload
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

var arrayIndex = regexp.MustCompile(`\[\d+\]`)

// FieldPath is Path with array indices collapsed, e.g.
// "selling_points[].questions[].prompt". Its cardinality is bounded by the
// payload schema rather than by the payload.
func (e *PayloadError) FieldPath() string {
	return arrayIndex.ReplaceAllString(e.Path, "[]")
}

// Diagnostic flattens the error for structured logging.
func (e *PayloadError) Diagnostic() map[string]interface{} {
	return map[string]interface{}{
		"kind":     KindMalformedPayload,
		"path":     e.Path,
		"expected": e.Expected,
		"actual":   e.Actual,
		"reason":   e.Message,
	}
}

func missingField(path, expected string) *PayloadError {
	return &PayloadError{Path: path, Expected: expected, Actual: "missing", Message: "required field missing"}
}

func wrongType(path, expected string, value interface{}) *PayloadError {
	return &PayloadError{Path: path, Expected: expected, Actual: jsonType(value), Message: "incompatible type"}
}

func invalidValue(path, expected, actual, reason string) *PayloadError {
	return &PayloadError{Path: path, Expected: expected, Actual: actual, Message: reason}
}

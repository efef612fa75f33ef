package schema

import (
	"fmt"
	"strings"
)

// Reason classifies a single violation.
type Reason string

const (
	ReasonMalformed Reason = "malformed" // not JSON, or not the expected structure
	ReasonMissing   Reason = "missing"   // required key absent from the wire payload
	ReasonType      Reason = "type"      // value has the wrong JSON type
	ReasonEnum      Reason = "enum"      // value outside the enumerated set
	ReasonURL       Reason = "url"
	ReasonEmail     Reason = "email"
	ReasonRange     Reason = "range"
	ReasonRequired  Reason = "required" // present but empty where a value is required
	ReasonUnknown   Reason = "unknown"  // key not declared by the shape (strict parsing)
	ReasonRule      Reason = "rule"
)

// Violation names one offending field and the constraint it broke.
type Violation struct {
	Path     string // wire path, e.g. operations[1].amount; empty for the document root
	Reason   Reason
	Expected string
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("%s: %s (expected %s)", path, v.Reason, v.Expected)
}

// ValidationError reports a wire payload or logical value that does not
// conform to its declared shape.
type ValidationError struct {
	Shape      string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: invalid %s: %s", e.Shape, joinViolations(e.Violations))
}

// Field returns the first violation at path.
func (e *ValidationError) Field(path string) (Violation, bool) {
	return findViolation(e.Violations, path)
}

// Paths lists every offending path in report order.
func (e *ValidationError) Paths() []string {
	return violationPaths(e.Violations)
}

// RenderError reports a logical value that cannot be rendered because
// required data is missing or a rule fails.
type RenderError struct {
	Shape      string
	Violations []Violation
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("schema: cannot render %s: %s", e.Shape, joinViolations(e.Violations))
}

// Field returns the first violation at path.
func (e *RenderError) Field(path string) (Violation, bool) {
	return findViolation(e.Violations, path)
}

func joinViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

func findViolation(vs []Violation, path string) (Violation, bool) {
	for _, v := range vs {
		if v.Path == path {
			return v, true
		}
	}
	return Violation{}, false
}

func violationPaths(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Path
	}
	return out
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

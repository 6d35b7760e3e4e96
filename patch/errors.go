package patch

import (
	"fmt"
	"strings"
)

// PathNotFoundError reports a JSON Patch operation whose path (or from) does
// not resolve against the document.
type PathNotFoundError struct {
	Op   Op
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("patch: %s: path %q not found", e.Op, e.Path)
}

// TestFailedError reports a test operation whose value differs from the document.
type TestFailedError struct {
	Path     string
	Expected Value
	Actual   Value
}

func (e *TestFailedError) Error() string {
	return fmt.Sprintf("patch: test: value at %q is %s, expected %s", e.Path, textOf(e.Actual), textOf(e.Expected))
}

// TypeMismatchError reports a generic value whose shape differs from what the
// typed field expects.
type TypeMismatchError struct {
	Field    string // dotted member path, empty when unknown
	Expected string
	Got      string
	Err      error
}

func (e *TypeMismatchError) Error() string {
	var sb strings.Builder
	sb.WriteString("patch: type mismatch")
	if e.Field != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Field)
	}
	if e.Expected != "" || e.Got != "" {
		fmt.Fprintf(&sb, ": expected %s, got %s", orUnknown(e.Expected), orUnknown(e.Got))
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// MalformedPatchError reports a patch document that is not well formed for its
// media type.
type MalformedPatchError struct {
	Index  int // operation index, -1 for the document itself
	Reason string
}

func (e *MalformedPatchError) Error() string {
	if e.Index < 0 {
		return "patch: malformed document: " + e.Reason
	}
	return fmt.Sprintf("patch: malformed operation %d: %s", e.Index, e.Reason)
}

func textOf(v Value) string {
	b, err := Marshal(v)
	if err != nil {
		return KindOf(v).String()
	}
	return string(b)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

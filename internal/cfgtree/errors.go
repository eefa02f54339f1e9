package cfgtree

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by tree operations. Typed errors below match these with errors.Is.
var (
	// ErrInvalidPath indicates an empty key sequence.
	ErrInvalidPath = errors.New("invalid path: at least one key is required")

	// ErrPathType indicates a read tried to descend into a leaf.
	ErrPathType = errors.New("path descends into a non-mapping value")

	// ErrKeyNotFound indicates no node exists at the path.
	ErrKeyNotFound = errors.New("key not found")

	// ErrParse indicates malformed configuration text.
	ErrParse = errors.New("config parse error")
)

// PathTypeError is returned when a read walks through a node that is not a mapping.
type PathTypeError struct {
	// Path is the full path that was requested.
	Path Path
	// Index is the position in Path of the offending node.
	Index int
	// Kind is the kind of the offending node.
	Kind Kind
}

func (e *PathTypeError) Error() string {
	return fmt.Sprintf("%s: %q is a %s, cannot descend to %q",
		ErrPathType, e.Path[:e.Index+1].String(), e.Kind, e.Path.String())
}

func (e *PathTypeError) Is(target error) bool { return target == ErrPathType }

// KeyNotFoundError is returned when a read finds nothing at the path.
type KeyNotFoundError struct {
	Path Path
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrKeyNotFound, e.Path.String())
}

func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }

// ParseError describes malformed configuration text.
type ParseError struct {
	// Source names the input (usually a file path); may be empty.
	Source string
	// Line is the 1-based line of the problem, 0 if unknown.
	Line int
	// Column is the 1-based column of the problem, 0 if unknown.
	Column int
	// Message describes the problem.
	Message string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

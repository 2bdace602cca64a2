// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for the load and dump pipelines.
// Every stage reports a fatal, position-carrying error; a pipeline that has
// raised one is poisoned and keeps returning it.

package libyaml

import (
	"fmt"
	"strings"
)

// MarkedYAMLError is the common shape of all stage errors: an optional
// context with its mark, and the problem with its mark. The marks render a
// source excerpt with a caret when the surrounding buffer is available.
type MarkedYAMLError struct {
	Context     string
	ContextMark *Mark
	Problem     string
	ProblemMark *Mark
	Note        string
}

// Error returns the error message with position information.
func (e MarkedYAMLError) Error() string {
	var b strings.Builder
	if e.Context != "" {
		b.WriteString(e.Context)
		if e.ContextMark != nil {
			fmt.Fprintf(&b, "\nin %q, %s", e.ContextMark.Name, e.ContextMark)
		}
	}
	if e.Problem != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Problem)
		if e.ProblemMark != nil {
			fmt.Fprintf(&b, "\nin %q, %s", e.ProblemMark.Name, e.ProblemMark)
		}
	}
	if e.Note != "" {
		b.WriteString("\n")
		b.WriteString(e.Note)
	}
	return b.String()
}

// ReaderError reports a malformed or non-printable input stream.
type ReaderError struct {
	Name     string // The name of the stream.
	Position int    // The code point index of the offending input.
	Value    rune   // The offending code point, if decodable.
	Problem  string
}

// Error returns the error message with offset information.
func (e ReaderError) Error() string {
	if e.Value != 0 {
		return fmt.Sprintf("yaml: unacceptable character %#U in %q, position %d: %s",
			e.Value, e.Name, e.Position, e.Problem)
	}
	return fmt.Sprintf("yaml: %s in %q, position %d", e.Problem, e.Name, e.Position)
}

// ScannerError reports a failure while tokenizing the input.
type ScannerError struct{ MarkedYAMLError }

func (e ScannerError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// ParserError reports a token stream that violates the YAML grammar.
type ParserError struct{ MarkedYAMLError }

func (e ParserError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// ComposerError reports an event stream that cannot be folded into a node
// graph: undefined aliases, illegal recursion, exceeded limits.
type ComposerError struct{ MarkedYAMLError }

func (e ComposerError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// ResolverError reports an implicit resolution rule failure.
type ResolverError struct{ MarkedYAMLError }

func (e ResolverError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// DuplicateKeyError reports a repeated mapping key under strict key checking.
type DuplicateKeyError struct{ MarkedYAMLError }

func (e DuplicateKeyError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// EmitterError reports an event stream that cannot be presented.
type EmitterError struct {
	Problem string
}

func (e EmitterError) Error() string { return "yaml: emitter: " + e.Problem }

// SerializerError reports a node graph that cannot be serialized.
type SerializerError struct {
	Problem string
}

func (e SerializerError) Error() string { return "yaml: serializer: " + e.Problem }

// RepresenterError reports a host value that cannot be represented as a node.
type RepresenterError struct {
	Problem string
}

func (e RepresenterError) Error() string { return "yaml: cannot represent " + e.Problem }

// ConstructorError reports a node that cannot be constructed into a host
// value.
type ConstructorError struct{ MarkedYAMLError }

func (e ConstructorError) Error() string { return "yaml: " + e.MarkedYAMLError.Error() }

// WriterError reports a failure of the underlying output writer.
type WriterError struct {
	Err error
}

func (e WriterError) Error() string { return "yaml: write error: " + e.Err.Error() }

// Unwrap returns the underlying error.
func (e WriterError) Unwrap() error { return e.Err }

// YAMLError is the internal panic wrapper. The stages raise errors by
// panicking with a *YAMLError; every public entry point recovers it via
// HandleErr and turns it back into a plain error return.
type YAMLError struct {
	Err error
}

func (e *YAMLError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *YAMLError) Unwrap() error { return e.Err }

// Fail panics with err wrapped as a *YAMLError.
func Fail(err error) {
	panic(&YAMLError{Err: err})
}

// Failf panics with a formatted generic error.
func Failf(format string, args ...any) {
	panic(&YAMLError{Err: fmt.Errorf("yaml: "+format, args...)})
}

// HandleErr recovers a *YAMLError panic into *err. Any other panic value is
// re-raised. It is used in defer statements at every public entry point.
func HandleErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(*YAMLError); ok {
			*err = e.Err
		} else {
			panic(v)
		}
	}
}

func failScanner(context string, contextMark *Mark, problem string, problemMark Mark) {
	Fail(ScannerError{MarkedYAMLError{
		Context:     context,
		ContextMark: contextMark,
		Problem:     problem,
		ProblemMark: &problemMark,
	}})
}

func failParser(context string, contextMark *Mark, problem string, problemMark Mark) {
	Fail(ParserError{MarkedYAMLError{
		Context:     context,
		ContextMark: contextMark,
		Problem:     problem,
		ProblemMark: &problemMark,
	}})
}

func failComposer(context string, contextMark *Mark, problem string, problemMark Mark) {
	Fail(ComposerError{MarkedYAMLError{
		Context:     context,
		ContextMark: contextMark,
		Problem:     problem,
		ProblemMark: &problemMark,
	}})
}

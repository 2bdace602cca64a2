// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package assert provides the small set of assertions the engine tests
// use, so the engine package does not depend on a testing framework.
package assert

import (
	"fmt"
	"reflect"
	"regexp"
)

type miniTB interface {
	Helper()
	Fatalf(string, ...any)
}

func suffix(msgFormat string, args ...any) string {
	if msgFormat == "" {
		return ""
	}
	return " - " + fmt.Sprintf(msgFormat, args...)
}

// Equal asserts that two comparable values are equal.
func Equal(tb miniTB, want, got any) {
	tb.Helper()
	Equalf(tb, want, got, "")
}

// Equalf asserts equality and reports the message on failure.
func Equalf(tb miniTB, want, got any, msgFormat string, args ...any) {
	tb.Helper()
	if got != want {
		tb.Fatalf("got %v; want %v%s", got, want, suffix(msgFormat, args...))
	}
}

// DeepEqual asserts that two values are deeply equal.
func DeepEqual(tb miniTB, want, got any) {
	tb.Helper()
	DeepEqualf(tb, want, got, "")
}

// DeepEqualf asserts deep equality and reports the message on failure.
func DeepEqualf(tb miniTB, want, got any, msgFormat string, args ...any) {
	tb.Helper()
	if !reflect.DeepEqual(got, want) {
		tb.Fatalf("got %#v; want %#v%s", got, want, suffix(msgFormat, args...))
	}
}

// True asserts that the condition holds.
func True(tb miniTB, cond bool) {
	tb.Helper()
	Truef(tb, cond, "condition is false")
}

// Truef asserts the condition and reports the message on failure.
func Truef(tb miniTB, cond bool, msgFormat string, args ...any) {
	tb.Helper()
	if !cond {
		tb.Fatalf("%s", fmt.Sprintf(msgFormat, args...))
	}
}

// NoError asserts that err is nil.
func NoError(tb miniTB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("unexpected error: %v", err)
	}
}

// Error asserts that err is not nil.
func Error(tb miniTB, err error) {
	tb.Helper()
	if err == nil {
		tb.Fatalf("expected an error, got nil")
	}
}

// ErrorMatches asserts that err is non-nil and its message matches the
// regular expression.
func ErrorMatches(tb miniTB, pattern string, err error) {
	tb.Helper()
	if err == nil {
		tb.Fatalf("expected an error matching %q, got nil", pattern)
	}
	matched, merr := regexp.MatchString(pattern, err.Error())
	if merr != nil {
		tb.Fatalf("bad pattern %q: %v", pattern, merr)
	}
	if !matched {
		tb.Fatalf("error %q does not match %q", err.Error(), pattern)
	}
}

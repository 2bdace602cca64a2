// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for implicit tag resolution.

package libyaml

import (
	"regexp"
	"testing"

	"go.yaml.in/yaml11/internal/testutil/assert"
)

func TestResolveScalars(t *testing.T) {
	tests := []struct {
		value string
		tag   string
	}{
		{"", NULL_TAG},
		{"~", NULL_TAG},
		{"null", NULL_TAG},
		{"NULL", NULL_TAG},
		{"Null", NULL_TAG},

		{"yes", BOOL_TAG},
		{"NO", BOOL_TAG},
		{"True", BOOL_TAG},
		{"false", BOOL_TAG},
		{"on", BOOL_TAG},
		{"Off", BOOL_TAG},

		{"0", INT_TAG},
		{"-19", INT_TAG},
		{"+42", INT_TAG},
		{"1_000", INT_TAG},
		{"0b1010", INT_TAG},
		{"0x1F", INT_TAG},
		{"0o17", STR_TAG}, // 1.2 octal form is not an 1.1 int
		{"017", INT_TAG},
		{"190:20:30", INT_TAG},

		{"3.14", FLOAT_TAG},
		{"-0.5", FLOAT_TAG},
		{"12e03", STR_TAG}, // no dot, no float
		{"1.0e+6", FLOAT_TAG},
		{".5", FLOAT_TAG},
		{".inf", FLOAT_TAG},
		{"-.Inf", FLOAT_TAG},
		{".NaN", FLOAT_TAG},
		{"190:20:30.15", FLOAT_TAG},

		{"<<", MERGE_TAG},
		{"=", VALUE_TAG},
		{"!", YAML_TAG},

		{"2001-12-15", TIMESTAMP_TAG},
		{"2001-12-14 21:59:43.10 -5", TIMESTAMP_TAG},
		{"2001-12-15T02:59:43.1Z", TIMESTAMP_TAG},

		{"plain text", STR_TAG},
		{"12 monkeys", STR_TAG},
		{"-", STR_TAG},
		{"y", STR_TAG}, // single letters are not 1.1 bools in this rule set
	}
	r := NewResolver()
	for _, tc := range tests {
		got := r.Resolve(ScalarNode, tc.value, true)
		assert.Equalf(t, tc.tag, got, "Resolve(%q)", tc.value)
	}
}

func TestResolveNonImplicit(t *testing.T) {
	r := NewResolver()
	// A quoted scalar never resolves past !!str.
	assert.Equal(t, STR_TAG, r.Resolve(ScalarNode, "123", false))
	assert.Equal(t, STR_TAG, r.Resolve(ScalarNode, "null", false))
}

func TestResolveCollections(t *testing.T) {
	r := NewResolver()
	assert.Equal(t, SEQ_TAG, r.Resolve(SequenceNode, "", true))
	assert.Equal(t, MAP_TAG, r.Resolve(MappingNode, "", true))
}

func TestResolveCustomRule(t *testing.T) {
	r := NewResolver()
	r.AddImplicitResolver("!version", regexp.MustCompile(`^v\d+\.\d+\.\d+$`), "v")
	assert.Equal(t, "!version", r.Resolve(ScalarNode, "v1.2.3", true))
	assert.Equal(t, STR_TAG, r.Resolve(ScalarNode, "version", true))
}

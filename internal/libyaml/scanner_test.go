// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the scanner stage: token streams, indentation bookkeeping,
// simple keys, scalar scanning and comments.

package libyaml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.yaml.in/yaml11/internal/testutil/assert"
)

func TestScanTokenStreams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "empty stream",
			input: "",
			want:  []TokenType{STREAM_START_TOKEN, STREAM_END_TOKEN},
		},
		{
			name:  "bare scalar",
			input: "foo\n",
			want:  []TokenType{STREAM_START_TOKEN, SCALAR_TOKEN, STREAM_END_TOKEN},
		},
		{
			name:  "block sequence",
			input: "- a\n- b\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_SEQUENCE_START_TOKEN,
				BLOCK_ENTRY_TOKEN, SCALAR_TOKEN,
				BLOCK_ENTRY_TOKEN, SCALAR_TOKEN,
				BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "mapping with flow sequence",
			input: "a: [1, 2, 3]\nb: c\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_MAPPING_START_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN,
				FLOW_SEQUENCE_START_TOKEN,
				SCALAR_TOKEN, FLOW_ENTRY_TOKEN,
				SCALAR_TOKEN, FLOW_ENTRY_TOKEN,
				SCALAR_TOKEN,
				FLOW_SEQUENCE_END_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN,
				BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "flow mapping",
			input: "{a: 1}\n",
			want: []TokenType{
				STREAM_START_TOKEN, FLOW_MAPPING_START_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN,
				FLOW_MAPPING_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "nested block mappings",
			input: "a:\n  b: c\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_MAPPING_START_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN,
				BLOCK_MAPPING_START_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN,
				BLOCK_END_TOKEN, BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "document markers",
			input: "---\nfoo\n...\n",
			want: []TokenType{
				STREAM_START_TOKEN, DOCUMENT_START_TOKEN, SCALAR_TOKEN,
				DOCUMENT_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "directives",
			input: "%YAML 1.1\n%TAG !e! tag:example.com,2000:\n---\nfoo\n",
			want: []TokenType{
				STREAM_START_TOKEN, VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN,
				DOCUMENT_START_TOKEN, SCALAR_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "anchor and alias",
			input: "- &A value\n- *A\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_SEQUENCE_START_TOKEN,
				BLOCK_ENTRY_TOKEN, ANCHOR_TOKEN, SCALAR_TOKEN,
				BLOCK_ENTRY_TOKEN, ALIAS_TOKEN,
				BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "explicit key",
			input: "? complex\n: value\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_MAPPING_START_TOKEN,
				KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN,
				BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
		{
			name:  "tags",
			input: "!!str scalar: !<tag:example.com,2000:x> v\n",
			want: []TokenType{
				STREAM_START_TOKEN, BLOCK_MAPPING_START_TOKEN,
				KEY_TOKEN, TAG_TOKEN, SCALAR_TOKEN, VALUE_TOKEN,
				TAG_TOKEN, SCALAR_TOKEN,
				BLOCK_END_TOKEN, STREAM_END_TOKEN,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := scanAll(tc.input, false)
			assert.NoError(t, err)
			if diff := cmp.Diff(tc.want, tokenTypes(tokens)); diff != "" {
				t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanScalarValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		style ScalarStyle
	}{
		{"plain", "hello world\n", "hello world", PLAIN_SCALAR_STYLE},
		{"plain multiline", "hello\n  world\n", "hello world", PLAIN_SCALAR_STYLE},
		{"single quoted", "'it''s'\n", "it's", SINGLE_QUOTED_SCALAR_STYLE},
		{"single quoted fold", "'a\nb'\n", "a b", SINGLE_QUOTED_SCALAR_STYLE},
		{"double quoted", `"a\tb"` + "\n", "a\tb", DOUBLE_QUOTED_SCALAR_STYLE},
		{"double quoted escapes", `"\0\a\n\x41\u0042"` + "\n", "\x00\a\nAB", DOUBLE_QUOTED_SCALAR_STYLE},
		{"double quoted unicode escape", `"\U0001F600"` + "\n", "\U0001F600", DOUBLE_QUOTED_SCALAR_STYLE},
		{"literal", "|\n  line1\n  line2\n", "line1\nline2\n", LITERAL_SCALAR_STYLE},
		{"literal strip", "|-\n  text\n", "text", LITERAL_SCALAR_STYLE},
		{"literal keep", "|+\n  text\n\n", "text\n\n", LITERAL_SCALAR_STYLE},
		{"literal explicit indent", "|2\n    text\n", "  text\n", LITERAL_SCALAR_STYLE},
		{"folded", ">\n  a\n  b\n", "a b\n", FOLDED_SCALAR_STYLE},
		{"folded blank line", ">\n  a\n\n  b\n", "a\nb\n", FOLDED_SCALAR_STYLE},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := scanAll(tc.input, false)
			assert.NoError(t, err)
			var scalar *Token
			for _, token := range tokens {
				if token.Type == SCALAR_TOKEN {
					scalar = token
					break
				}
			}
			assert.Truef(t, scalar != nil, "no scalar token in %q", tc.input)
			assert.Equalf(t, tc.value, scalar.Value, "value mismatch")
			assert.Equalf(t, tc.style, scalar.Style, "style mismatch")
		})
	}
}

func TestScanSimpleKeyTooLong(t *testing.T) {
	input := strings.Repeat("x", 1025) + ": v\n"
	_, err := scanAll(input, false)
	assert.Error(t, err)
	assert.ErrorMatches(t, "could not find expected ':'", err)
}

func TestScanMisplacedValue(t *testing.T) {
	// The key spans two lines, so the ':' cannot belong to a simple key.
	_, err := scanAll("a\nb: c\nd\n: e\n", false)
	assert.Error(t, err)
}

func TestScanTabIndentation(t *testing.T) {
	_, err := scanAll("a:\n\tb: c\n", false)
	assert.Error(t, err)
}

func TestScanDirectiveErrors(t *testing.T) {
	for _, input := range []string{
		"%YAML 1x1\nfoo\n",
		"%YAML 1.1 extra\n---\nfoo\n",
		"%TAG !e! \n---\nfoo\n",
	} {
		_, err := scanAll(input, false)
		assert.Truef(t, err != nil, "expected scanner error for %q", input)
	}
}

func TestScanBlockScalarBadIndent(t *testing.T) {
	_, err := scanAll("|0\n  text\n", false)
	assert.Error(t, err)
	assert.ErrorMatches(t, "expected indentation indicator in the range 1-9", err)
}

func TestScanComments(t *testing.T) {
	input := "# head\na: 1 # inline\n\nb: 2\n"
	tokens, err := scanAll(input, true)
	assert.NoError(t, err)
	var comments []*Token
	for _, token := range tokens {
		if token.Type == COMMENT_TOKEN {
			comments = append(comments, token)
		}
	}
	assert.Equalf(t, 3, len(comments), "want head, inline and blank-line comments, got %d", len(comments))
	assert.Equal(t, BLOCK_COMMENT, comments[0].CommentType)
	assert.Equal(t, " head", comments[0].Value)
	assert.Equal(t, IN_LINE_COMMENT, comments[1].CommentType)
	assert.Equal(t, " inline", comments[1].Value)
	assert.Equal(t, BLANK_LINE, comments[2].CommentType)
}

func TestScanCommentsDisabled(t *testing.T) {
	tokens, err := scanAll("# head\na: 1 # inline\n", false)
	assert.NoError(t, err)
	for _, token := range tokens {
		assert.Truef(t, token.Type != COMMENT_TOKEN, "comment token leaked")
	}
}

func TestScanBOMStripped(t *testing.T) {
	tokens, err := scanAll("\uFEFFfoo\n", false)
	assert.NoError(t, err)
	assert.DeepEqual(t,
		[]TokenType{STREAM_START_TOKEN, SCALAR_TOKEN, STREAM_END_TOKEN},
		tokenTypes(tokens))
	assert.Equal(t, "foo", tokens[1].Value)
}

func TestScanFlowContext(t *testing.T) {
	// Inside flow context, ':' binds tighter and indentation is ignored.
	tokens, err := scanAll("[a,\n b: c,\n {d: e}]\n", false)
	assert.NoError(t, err)
	want := []TokenType{
		STREAM_START_TOKEN, FLOW_SEQUENCE_START_TOKEN,
		SCALAR_TOKEN, FLOW_ENTRY_TOKEN,
		KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN, FLOW_ENTRY_TOKEN,
		FLOW_MAPPING_START_TOKEN,
		KEY_TOKEN, SCALAR_TOKEN, VALUE_TOKEN, SCALAR_TOKEN,
		FLOW_MAPPING_END_TOKEN,
		FLOW_SEQUENCE_END_TOKEN, STREAM_END_TOKEN,
	}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

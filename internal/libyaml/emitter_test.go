// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the emitter stage: presentation of event streams, scalar style
// selection and the dump options.

package libyaml

import (
	"strings"
	"testing"

	"go.yaml.in/yaml11/internal/testutil/assert"
)

func TestEmitPlainMapping(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("a"), evScalar("1"),
		evScalar("b"), evScalar("c"),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "a: 1\nb: c\n", out)
}

func TestEmitFlowSequence(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("a"),
		evSeqStart(FLOW_COLLECTION_STYLE),
		evScalar("1"), evScalar("2"), evScalar("3"),
		evSeqEnd(),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "a: [1, 2, 3]\n", out)
}

func TestEmitBlockSequence(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evSeqStart(BLOCK_COLLECTION_STYLE),
		evScalar("a"), evScalar("b"),
		evSeqEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "- a\n- b\n", out)
}

func TestEmitNestedBlock(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("outer"),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("inner"), evScalar("v"),
		evMapEnd(),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "outer:\n  inner: v\n", out)
}

func TestEmitIndentOption(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.Indent = 4
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("outer"),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("inner"), evScalar("v"),
		evMapEnd(),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "outer:\n    inner: v\n", out)
}

func TestEmitLiteralScalar(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("key"),
		evScalarStyled("line1\nline2\n", LITERAL_SCALAR_STYLE),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "key: |\n  line1\n  line2\n", out)
}

func TestEmitBlockChompingHints(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		// No trailing break: strip hint.
		{"text", "key: |-\n  text\n"},
		// Exactly one trailing break: no hint.
		{"text\n", "key: |\n  text\n"},
		// Multiple trailing breaks: keep hint.
		{"text\n\n", "key: |+\n  text\n\n"},
	}
	for _, tc := range tests {
		out, err := emitAll([]*Event{
			evStreamStart(), evDocStart(),
			evMapStart(ANY_COLLECTION_STYLE),
			evScalar("key"),
			evScalarStyled(tc.value, LITERAL_SCALAR_STYLE),
			evMapEnd(),
			evDocEnd(), evStreamEnd(),
		}, nil)
		assert.NoError(t, err)
		assert.Equalf(t, tc.want, out, "value %q", tc.value)
	}
}

func TestEmitFoldedScalar(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("key"),
		evScalarStyled("folded text\n", FOLDED_SCALAR_STYLE),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "key: >\n  folded text\n", out)
}

func TestEmitStyleForcedByContent(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"leading space", " x", "' x'\n"},
		{"trailing space", "x ", "'x '\n"},
		{"looks like marker", "--- x", "'--- x'\n"},
		{"colon space", "a: b", "'a: b'\n"},
		{"hash after space", "a #b", "'a #b'\n"},
		{"control character", "a\x07b", "\"a\\ab\"\n"},
		{"single quote content", "don't", "don't\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := emitAll([]*Event{
				evStreamStart(), evDocStart(),
				evScalar(tc.value),
				evDocEnd(), evStreamEnd(),
			}, nil)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEmitEmptyScalarAsSimpleKeyUsesQuotes(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar(""), evScalar("v"),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	// An empty plain scalar is not a valid simple key.
	assert.Equal(t, "'': v\n", out)
}

func TestEmitAnchorsAndAlias(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evSeqStart(BLOCK_COLLECTION_STYLE),
		{Type: SCALAR_EVENT, Anchor: "id001", Value: "value", Implicit: true, Style: PLAIN_SCALAR_STYLE},
		{Type: ALIAS_EVENT, Anchor: "id001"},
		evSeqEnd(),
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "- &id001 value\n- *id001\n", out)
}

func TestEmitInvalidAnchor(t *testing.T) {
	_, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		{Type: SCALAR_EVENT, Anchor: "bad anchor", Value: "v", Implicit: true},
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.Error(t, err)
	assert.ErrorMatches(t, "invalid character", err)
}

func TestEmitExplicitMarkers(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(),
		{Type: DOCUMENT_START_EVENT, Implicit: false},
		evScalar("doc"),
		{Type: DOCUMENT_END_EVENT, Implicit: false},
		evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "--- doc\n...\n", out)
}

func TestEmitVersionAndTagDirectives(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(),
		{
			Type:          DOCUMENT_START_EVENT,
			Version:       &VersionDirective{Major: 1, Minor: 1},
			TagDirectives: []TagDirective{{Handle: "!e!", Prefix: "tag:example.com,2000:"}},
		},
		{Type: SCALAR_EVENT, Tag: "tag:example.com,2000:thing", Value: "v", Style: PLAIN_SCALAR_STYLE},
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "%YAML 1.1\n%TAG !e! tag:example.com,2000:\n--- !e!thing 'v'\n", out)
}

func TestEmitStandardTagShortening(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		{Type: SCALAR_EVENT, Tag: STR_TAG, Value: "123", Style: PLAIN_SCALAR_STYLE},
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "!!str '123'\n", out)
}

func TestEmitVerbatimTag(t *testing.T) {
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		{Type: SCALAR_EVENT, Tag: "tag:other.org:x y", Value: "v", Style: PLAIN_SCALAR_STYLE},
		evDocEnd(), evStreamEnd(),
	}, nil)
	assert.NoError(t, err)
	assert.Truef(t, strings.Contains(out, "!<tag:other.org:x y>"),
		"want verbatim tag, got %q", out)
}

func TestEmitCanonical(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.Canonical = true
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		{Type: MAPPING_START_EVENT, Tag: MAP_TAG, Implicit: true},
		{Type: SCALAR_EVENT, Tag: STR_TAG, Value: "a", Implicit: true, QuotedImplicit: true},
		{Type: SCALAR_EVENT, Tag: INT_TAG, Value: "1", Implicit: true},
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "---\n!!map {\n  ? !!str \"a\"\n  : !!int \"1\",\n}\n", out)
}

func TestEmitPrettyFlow(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.PrettyFlow = true
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evSeqStart(FLOW_COLLECTION_STYLE),
		evScalar("1"), evScalar("2"),
		evSeqEnd(),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]\n", out)
}

func TestEmitLineBreakOption(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.LineBreak = CRLN_BREAK
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evMapStart(ANY_COLLECTION_STYLE),
		evScalar("a"), evScalar("1"),
		evMapEnd(),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "a: 1\r\n", out)
}

func TestEmitUnicodeEscaping(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.AllowUnicode = false
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evScalar("héllo"),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "\"h\\xE9llo\"\n", out)

	opts.AllowUnicode = true
	out, err = emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evScalar("héllo"),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Equal(t, "héllo\n", out)
}

func TestEmitWidthWrapping(t *testing.T) {
	opts := DefaultDumperOptions()
	opts.Width = 20
	long := strings.Repeat("word ", 8) + "end"
	out, err := emitAll([]*Event{
		evStreamStart(), evDocStart(),
		evScalar(long),
		evDocEnd(), evStreamEnd(),
	}, opts)
	assert.NoError(t, err)
	assert.Truef(t, strings.Count(out, "\n") > 1, "expected wrapped output, got %q", out)
	// Refolding on load restores the original value.
	events, err := parseAll(out, false)
	assert.NoError(t, err)
	for _, event := range events {
		if event.Type == SCALAR_EVENT {
			assert.Equal(t, long, event.Value)
		}
	}
}

func TestEmitAfterStreamEndFails(t *testing.T) {
	var events = []*Event{evStreamStart(), evDocStart(), evScalar("x"), evDocEnd(), evStreamEnd()}
	var buf strings.Builder
	emitter := NewEmitter(&buf, nil)
	for _, event := range events {
		assert.NoError(t, emitter.Emit(event))
	}
	err := emitter.Emit(evScalar("extra"))
	assert.Error(t, err)
	assert.ErrorMatches(t, "expected nothing", err)
}

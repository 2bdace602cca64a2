// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Core types shared by every stage of the pipeline.
// Defines Mark, Token, Event, the style enums and the core tag constants.

package libyaml

import (
	"fmt"
	"strings"
)

// VersionDirective holds the data of a %YAML directive.
type VersionDirective struct {
	Major int
	Minor int
}

func (v VersionDirective) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// TagDirective holds the data of a %TAG directive.
type TagDirective struct {
	Handle string
	Prefix string
}

// The default tag directives, in effect for every document that does not
// override them.
var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
}

type Encoding int

// The stream encoding, selected by the BOM of the input stream.
const (
	// Let the reader choose the encoding.
	ANY_ENCODING Encoding = iota

	UTF8_ENCODING    // The default UTF-8 encoding.
	UTF16LE_ENCODING // The UTF-16-LE encoding with BOM.
	UTF16BE_ENCODING // The UTF-16-BE encoding with BOM.
)

func (e Encoding) String() string {
	switch e {
	case UTF8_ENCODING:
		return "UTF-8"
	case UTF16LE_ENCODING:
		return "UTF-16LE"
	case UTF16BE_ENCODING:
		return "UTF-16BE"
	}
	return "any"
}

type LineBreak int

// Line break types for the emitted stream.
const (
	// Let the emitter choose the break type.
	ANY_BREAK LineBreak = iota

	CR_BREAK   // Use CR for line breaks (Mac style).
	LN_BREAK   // Use LN for line breaks (Unix style).
	CRLN_BREAK // Use CR LN for line breaks (DOS style).
)

// String returns the concrete break characters.
func (lb LineBreak) String() string {
	switch lb {
	case CR_BREAK:
		return "\r"
	case CRLN_BREAK:
		return "\r\n"
	default:
		return "\n"
	}
}

// Mark holds a position within the input or output stream. Line and Column
// are zero-based; the String form displays them one-based. The surrounding
// buffer is retained so errors can show an excerpt of the offending source.
type Mark struct {
	Name   string // The name of the stream, usually a file name.
	Index  int    // The position index, in code points.
	Line   int    // The position line.
	Column int    // The position column.

	buffer  []rune // The code points surrounding the mark.
	pointer int    // The offset of the mark within buffer.
}

func (m Mark) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d, column %d", m.Line+1, m.Column+1)
	if snippet := m.Snippet(4, 75); snippet != "" {
		b.WriteString(":\n")
		b.WriteString(snippet)
	}
	return b.String()
}

// Snippet renders a two-line excerpt of the source around the mark: the
// offending line, trimmed to maxLength, and a caret pointing at the column.
// Returns "" when no surrounding buffer was captured.
func (m Mark) Snippet(indent, maxLength int) string {
	if len(m.buffer) == 0 {
		return ""
	}
	half := maxLength/2 - 1
	start, end := m.pointer, m.pointer
	head, tail := "", ""
	for start > 0 && !isBreakOrZero(m.buffer[start-1]) {
		start--
		if m.pointer-start > half {
			head = " ... "
			start += 5
			break
		}
	}
	for end < len(m.buffer) && !isBreakOrZero(m.buffer[end]) {
		end++
		if end-m.pointer > half {
			tail = " ... "
			end -= 5
			break
		}
	}
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(head)
	b.WriteString(string(m.buffer[start:end]))
	b.WriteString(tail)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", indent+m.pointer-start+len(head)))
	b.WriteString("^")
	return b.String()
}

// Position returns the mark's "line %d, column %d" form without the snippet.
func (m Mark) Position() string {
	return fmt.Sprintf("line %d, column %d", m.Line+1, m.Column+1)
}

// Styles

type ScalarStyle int8

// Scalar styles.
const (
	// Let the emitter choose the style.
	ANY_SCALAR_STYLE ScalarStyle = iota

	PLAIN_SCALAR_STYLE         // The plain scalar style.
	SINGLE_QUOTED_SCALAR_STYLE // The single-quoted scalar style.
	DOUBLE_QUOTED_SCALAR_STYLE // The double-quoted scalar style.
	LITERAL_SCALAR_STYLE       // The literal scalar style.
	FOLDED_SCALAR_STYLE        // The folded scalar style.
)

// String returns a string representation of a [ScalarStyle].
func (style ScalarStyle) String() string {
	switch style {
	case PLAIN_SCALAR_STYLE:
		return "plain"
	case SINGLE_QUOTED_SCALAR_STYLE:
		return "single-quoted"
	case DOUBLE_QUOTED_SCALAR_STYLE:
		return "double-quoted"
	case LITERAL_SCALAR_STYLE:
		return "literal"
	case FOLDED_SCALAR_STYLE:
		return "folded"
	}
	return "any"
}

type CollectionStyle int8

// Collection (sequence and mapping) styles.
const (
	// Let the emitter choose the style.
	ANY_COLLECTION_STYLE CollectionStyle = iota

	BLOCK_COLLECTION_STYLE // The block (indentation-based) style.
	FLOW_COLLECTION_STYLE  // The flow ([]{}-based) style.
)

func (style CollectionStyle) String() string {
	switch style {
	case BLOCK_COLLECTION_STYLE:
		return "block"
	case FLOW_COLLECTION_STYLE:
		return "flow"
	}
	return "any"
}

// Comments

type CommentType int8

// Comment placement kinds.
const (
	BLOCK_COMMENT   CommentType = iota // A comment on its own line.
	IN_LINE_COMMENT                    // A comment following a token on the same line.
	BLANK_LINE                         // A blank line worth preserving.
)

func (ct CommentType) String() string {
	switch ct {
	case BLOCK_COMMENT:
		return "block"
	case IN_LINE_COMMENT:
		return "inline"
	case BLANK_LINE:
		return "blank-line"
	}
	return "unknown"
}

// Comment holds one comment (or preserved blank line) with its position.
type Comment struct {
	Type               CommentType
	Value              string
	StartMark, EndMark Mark
}

// Tokens

type TokenType int8

// Token types.
const (
	// An empty token.
	NO_TOKEN TokenType = iota

	STREAM_START_TOKEN // A STREAM-START token.
	STREAM_END_TOKEN   // A STREAM-END token.

	VERSION_DIRECTIVE_TOKEN // A %YAML directive token.
	TAG_DIRECTIVE_TOKEN     // A %TAG directive token.
	DOCUMENT_START_TOKEN    // A DOCUMENT-START (---) token.
	DOCUMENT_END_TOKEN      // A DOCUMENT-END (...) token.

	BLOCK_SEQUENCE_START_TOKEN // A BLOCK-SEQUENCE-START token.
	BLOCK_MAPPING_START_TOKEN  // A BLOCK-MAPPING-START token.
	BLOCK_END_TOKEN            // A BLOCK-END token.

	FLOW_SEQUENCE_START_TOKEN // A FLOW-SEQUENCE-START ([) token.
	FLOW_SEQUENCE_END_TOKEN   // A FLOW-SEQUENCE-END (]) token.
	FLOW_MAPPING_START_TOKEN  // A FLOW-MAPPING-START ({) token.
	FLOW_MAPPING_END_TOKEN    // A FLOW-MAPPING-END (}) token.

	BLOCK_ENTRY_TOKEN // A BLOCK-ENTRY (-) token.
	FLOW_ENTRY_TOKEN  // A FLOW-ENTRY (,) token.
	KEY_TOKEN         // A KEY (? or simple key) token.
	VALUE_TOKEN       // A VALUE (:) token.

	ALIAS_TOKEN   // An ALIAS (*) token.
	ANCHOR_TOKEN  // An ANCHOR (&) token.
	TAG_TOKEN     // A TAG (! or !<...>) token.
	SCALAR_TOKEN  // A SCALAR token.
	COMMENT_TOKEN // A COMMENT token (only with comment processing enabled).
)

var tokenStrings = []string{
	NO_TOKEN:                   "NO_TOKEN",
	STREAM_START_TOKEN:         "STREAM_START_TOKEN",
	STREAM_END_TOKEN:           "STREAM_END_TOKEN",
	VERSION_DIRECTIVE_TOKEN:    "VERSION_DIRECTIVE_TOKEN",
	TAG_DIRECTIVE_TOKEN:        "TAG_DIRECTIVE_TOKEN",
	DOCUMENT_START_TOKEN:       "DOCUMENT_START_TOKEN",
	DOCUMENT_END_TOKEN:         "DOCUMENT_END_TOKEN",
	BLOCK_SEQUENCE_START_TOKEN: "BLOCK_SEQUENCE_START_TOKEN",
	BLOCK_MAPPING_START_TOKEN:  "BLOCK_MAPPING_START_TOKEN",
	BLOCK_END_TOKEN:            "BLOCK_END_TOKEN",
	FLOW_SEQUENCE_START_TOKEN:  "FLOW_SEQUENCE_START_TOKEN",
	FLOW_SEQUENCE_END_TOKEN:    "FLOW_SEQUENCE_END_TOKEN",
	FLOW_MAPPING_START_TOKEN:   "FLOW_MAPPING_START_TOKEN",
	FLOW_MAPPING_END_TOKEN:     "FLOW_MAPPING_END_TOKEN",
	BLOCK_ENTRY_TOKEN:          "BLOCK_ENTRY_TOKEN",
	FLOW_ENTRY_TOKEN:           "FLOW_ENTRY_TOKEN",
	KEY_TOKEN:                  "KEY_TOKEN",
	VALUE_TOKEN:                "VALUE_TOKEN",
	ALIAS_TOKEN:                "ALIAS_TOKEN",
	ANCHOR_TOKEN:               "ANCHOR_TOKEN",
	TAG_TOKEN:                  "TAG_TOKEN",
	SCALAR_TOKEN:               "SCALAR_TOKEN",
	COMMENT_TOKEN:              "COMMENT_TOKEN",
}

func (tt TokenType) String() string {
	if tt < 0 || int(tt) >= len(tokenStrings) {
		return fmt.Sprintf("unknown token %d", tt)
	}
	return tokenStrings[tt]
}

// Token holds one token produced by the scanner.
type Token struct {
	// The token type.
	Type TokenType

	// The start/end of the token.
	StartMark, EndMark Mark

	// The alias/anchor/scalar value, the tag suffix, the directive name,
	// or the comment text (for ALIAS_TOKEN, ANCHOR_TOKEN, SCALAR_TOKEN,
	// TAG_TOKEN, COMMENT_TOKEN).
	Value string

	// The tag handle (for TAG_TOKEN, TAG_DIRECTIVE_TOKEN).
	Handle string

	// The tag directive prefix (for TAG_DIRECTIVE_TOKEN).
	Prefix string

	// The scalar style (for SCALAR_TOKEN).
	Style ScalarStyle

	// The comment kind (for COMMENT_TOKEN).
	CommentType CommentType

	// The version directive numbers (for VERSION_DIRECTIVE_TOKEN).
	Major, Minor int
}

// Plain reports whether a scalar token was written without quoting.
func (t *Token) Plain() bool {
	return t.Type == SCALAR_TOKEN && t.Style == PLAIN_SCALAR_STYLE
}

// Events

type EventType int8

// Event types.
const (
	// An empty event.
	NO_EVENT EventType = iota

	STREAM_START_EVENT   // A STREAM-START event.
	STREAM_END_EVENT     // A STREAM-END event.
	DOCUMENT_START_EVENT // A DOCUMENT-START event.
	DOCUMENT_END_EVENT   // A DOCUMENT-END event.
	ALIAS_EVENT          // An ALIAS event.
	SCALAR_EVENT         // A SCALAR event.
	SEQUENCE_START_EVENT // A SEQUENCE-START event.
	SEQUENCE_END_EVENT   // A SEQUENCE-END event.
	MAPPING_START_EVENT  // A MAPPING-START event.
	MAPPING_END_EVENT    // A MAPPING-END event.
	COMMENT_EVENT        // A COMMENT event (only with comment processing enabled).
)

var eventStrings = []string{
	NO_EVENT:             "none",
	STREAM_START_EVENT:   "stream start",
	STREAM_END_EVENT:     "stream end",
	DOCUMENT_START_EVENT: "document start",
	DOCUMENT_END_EVENT:   "document end",
	ALIAS_EVENT:          "alias",
	SCALAR_EVENT:         "scalar",
	SEQUENCE_START_EVENT: "sequence start",
	SEQUENCE_END_EVENT:   "sequence end",
	MAPPING_START_EVENT:  "mapping start",
	MAPPING_END_EVENT:    "mapping end",
	COMMENT_EVENT:        "comment",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventStrings) {
		return fmt.Sprintf("unknown event %d", e)
	}
	return eventStrings[e]
}

// Event holds one event produced by the parser or consumed by the emitter.
type Event struct {
	// The event type.
	Type EventType

	// The start and end of the event.
	StartMark, EndMark Mark

	// The document encoding (for STREAM_START_EVENT).
	Encoding Encoding

	// The version directive (for DOCUMENT_START_EVENT).
	Version *VersionDirective

	// The tag directives (for DOCUMENT_START_EVENT).
	TagDirectives []TagDirective

	// The anchor (for SCALAR_EVENT, SEQUENCE_START_EVENT,
	// MAPPING_START_EVENT, ALIAS_EVENT).
	Anchor string

	// The tag (for SCALAR_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT).
	Tag string

	// The scalar or comment value (for SCALAR_EVENT, COMMENT_EVENT).
	Value string

	// Whether the document indicator is implicit, or the tag may be
	// omitted for a plain scalar (for DOCUMENT_START_EVENT,
	// DOCUMENT_END_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT,
	// SCALAR_EVENT).
	Implicit bool

	// Whether the tag may be omitted for any non-plain style
	// (for SCALAR_EVENT).
	QuotedImplicit bool

	// The scalar style (for SCALAR_EVENT).
	Style ScalarStyle

	// The collection style (for SEQUENCE_START_EVENT, MAPPING_START_EVENT).
	CollectionStyle CollectionStyle

	// The comment kind (for COMMENT_EVENT).
	CommentType CommentType
}

// Flow reports whether a collection start event requests flow style.
func (e *Event) Flow() bool {
	return e.CollectionStyle == FLOW_COLLECTION_STYLE
}

// Tags

// DefaultTagPrefix is the reserved prefix identifying the core tags.
const DefaultTagPrefix = "tag:yaml.org,2002:"

const (
	NULL_TAG      = DefaultTagPrefix + "null"      // The tag !!null with the only possible value: null.
	BOOL_TAG      = DefaultTagPrefix + "bool"      // The tag !!bool with the values true and false.
	STR_TAG       = DefaultTagPrefix + "str"       // The tag !!str for string values.
	INT_TAG       = DefaultTagPrefix + "int"       // The tag !!int for integer values.
	FLOAT_TAG     = DefaultTagPrefix + "float"     // The tag !!float for float values.
	TIMESTAMP_TAG = DefaultTagPrefix + "timestamp" // The tag !!timestamp for date and time values.
	BINARY_TAG    = DefaultTagPrefix + "binary"    // The tag !!binary for base64-encoded bytes.
	MERGE_TAG     = DefaultTagPrefix + "merge"     // The tag !!merge for the << key.
	VALUE_TAG     = DefaultTagPrefix + "value"     // The tag !!value for the = key.
	YAML_TAG      = DefaultTagPrefix + "yaml"      // The tag !!yaml for YAML document fragments.

	SEQ_TAG   = DefaultTagPrefix + "seq"   // The tag !!seq for sequences.
	MAP_TAG   = DefaultTagPrefix + "map"   // The tag !!map for mappings.
	SET_TAG   = DefaultTagPrefix + "set"   // The tag !!set for unordered sets.
	OMAP_TAG  = DefaultTagPrefix + "omap"  // The tag !!omap for ordered mappings.
	PAIRS_TAG = DefaultTagPrefix + "pairs" // The tag !!pairs for key/value pair lists.

	DEFAULT_SCALAR_TAG   = STR_TAG // The default scalar tag.
	DEFAULT_SEQUENCE_TAG = SEQ_TAG // The default sequence tag.
	DEFAULT_MAPPING_TAG  = MAP_TAG // The default mapping tag.
)

// ShortTag returns the !!-form of a core tag, or the tag unchanged when it
// does not carry the reserved prefix.
func ShortTag(tag string) string {
	if strings.HasPrefix(tag, DefaultTagPrefix) {
		return "!!" + tag[len(DefaultTagPrefix):]
	}
	return tag
}

// LongTag expands the !!-form back to the full tag URI.
func LongTag(tag string) string {
	if strings.HasPrefix(tag, "!!") {
		return DefaultTagPrefix + tag[2:]
	}
	return tag
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The emitter stage: turns the event stream back into characters.
// A state machine mirroring the parser's grammar states, a one-pass scalar
// analyzer, and one writer per scalar style. Output is always UTF-8.

package libyaml

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type emitterState int8

const (
	EMIT_STREAM_START_STATE emitterState = iota // Expect STREAM-START.

	EMIT_FIRST_DOCUMENT_START_STATE // Expect the first DOCUMENT-START or STREAM-END.
	EMIT_DOCUMENT_START_STATE       // Expect DOCUMENT-START or STREAM-END.
	EMIT_DOCUMENT_CONTENT_STATE     // Expect the content of a document.
	EMIT_DOCUMENT_END_STATE         // Expect DOCUMENT-END.

	EMIT_FLOW_SEQUENCE_FIRST_ITEM_STATE // Expect the first item of a flow sequence.
	EMIT_FLOW_SEQUENCE_ITEM_STATE       // Expect an item of a flow sequence.
	EMIT_FLOW_MAPPING_FIRST_KEY_STATE   // Expect the first key of a flow mapping.
	EMIT_FLOW_MAPPING_KEY_STATE         // Expect a key of a flow mapping.
	EMIT_FLOW_MAPPING_SIMPLE_VALUE_STATE
	EMIT_FLOW_MAPPING_VALUE_STATE

	EMIT_BLOCK_SEQUENCE_FIRST_ITEM_STATE // Expect the first item of a block sequence.
	EMIT_BLOCK_SEQUENCE_ITEM_STATE       // Expect an item of a block sequence.
	EMIT_BLOCK_MAPPING_FIRST_KEY_STATE   // Expect the first key of a block mapping.
	EMIT_BLOCK_MAPPING_KEY_STATE         // Expect a key of a block mapping.
	EMIT_BLOCK_MAPPING_SIMPLE_VALUE_STATE
	EMIT_BLOCK_MAPPING_VALUE_STATE

	EMIT_END_STATE // Expect nothing.
)

// scalarAnalysis is the output of the one-pass scalar analyzer. Style
// selection reads only these booleans.
type scalarAnalysis struct {
	value string

	empty     bool
	multiline bool

	allowFlowPlain    bool
	allowBlockPlain   bool
	allowSingleQuoted bool
	allowDoubleQuoted bool
	allowBlock        bool
}

// Emitter converts events to characters.
type Emitter struct {
	writer *bufio.Writer
	opts   *DumperOptions

	state  emitterState
	states []emitterState
	events []*Event
	event  *Event

	indents   []int
	indent    int
	flowLevel int

	rootContext      bool
	sequenceContext  bool
	mappingContext   bool
	simpleKeyContext bool

	line       int
	column     int
	whitespace bool
	indention  bool
	openEnded  bool

	bestIndent    int
	bestWidth     int
	bestLineBreak string

	tagPrefixes map[string]string

	analysis *scalarAnalysis
	style    ScalarStyle
}

// NewEmitter returns an Emitter writing UTF-8 to w.
func NewEmitter(w io.Writer, opts *DumperOptions) *Emitter {
	if opts == nil {
		opts = DefaultDumperOptions()
	}
	return &Emitter{
		writer: bufio.NewWriter(w),
		opts:   opts,
		state:  EMIT_STREAM_START_STATE,
		indent: -1,
	}
}

// Emit accepts one event. Events are buffered just far enough to decide
// empty collections and simple keys, then presented.
func (e *Emitter) Emit(event *Event) (err error) {
	defer HandleErr(&err)
	e.events = append(e.events, event)
	for !e.needMoreEvents() {
		e.event = e.events[0]
		e.events = e.events[1:]
		e.stateMachine()
		e.event = nil
	}
	return nil
}

// needMoreEvents reports whether presentation must wait for lookahead:
// one extra event for DOCUMENT-START, two for SEQUENCE-START, three for
// MAPPING-START.
func (e *Emitter) needMoreEvents() bool {
	if len(e.events) == 0 {
		return true
	}
	var accumulate int
	switch e.events[0].Type {
	case DOCUMENT_START_EVENT:
		accumulate = 1
	case SEQUENCE_START_EVENT:
		accumulate = 2
	case MAPPING_START_EVENT:
		accumulate = 3
	default:
		return false
	}
	if len(e.events) > accumulate {
		return false
	}
	level := 0
	for _, event := range e.events {
		switch event.Type {
		case STREAM_START_EVENT, DOCUMENT_START_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT:
			level++
		case STREAM_END_EVENT, DOCUMENT_END_EVENT, SEQUENCE_END_EVENT, MAPPING_END_EVENT:
			level--
		}
		if level == 0 {
			return false
		}
	}
	return true
}

func failEmitter(problem string) {
	Fail(EmitterError{Problem: problem})
}

func (e *Emitter) stateMachine() {
	if e.event.Type == COMMENT_EVENT {
		if e.opts.ProcessComments && e.state != EMIT_STREAM_START_STATE && e.state != EMIT_END_STATE {
			e.writeComment(e.event)
		}
		return
	}
	switch e.state {
	case EMIT_STREAM_START_STATE:
		e.expectStreamStart()
	case EMIT_FIRST_DOCUMENT_START_STATE:
		e.expectDocumentStart(true)
	case EMIT_DOCUMENT_START_STATE:
		e.expectDocumentStart(false)
	case EMIT_DOCUMENT_CONTENT_STATE:
		e.expectDocumentContent()
	case EMIT_DOCUMENT_END_STATE:
		e.expectDocumentEnd()
	case EMIT_FLOW_SEQUENCE_FIRST_ITEM_STATE:
		e.expectFlowSequenceItem(true)
	case EMIT_FLOW_SEQUENCE_ITEM_STATE:
		e.expectFlowSequenceItem(false)
	case EMIT_FLOW_MAPPING_FIRST_KEY_STATE:
		e.expectFlowMappingKey(true)
	case EMIT_FLOW_MAPPING_KEY_STATE:
		e.expectFlowMappingKey(false)
	case EMIT_FLOW_MAPPING_SIMPLE_VALUE_STATE:
		e.expectFlowMappingValue(true)
	case EMIT_FLOW_MAPPING_VALUE_STATE:
		e.expectFlowMappingValue(false)
	case EMIT_BLOCK_SEQUENCE_FIRST_ITEM_STATE:
		e.expectBlockSequenceItem(true)
	case EMIT_BLOCK_SEQUENCE_ITEM_STATE:
		e.expectBlockSequenceItem(false)
	case EMIT_BLOCK_MAPPING_FIRST_KEY_STATE:
		e.expectBlockMappingKey(true)
	case EMIT_BLOCK_MAPPING_KEY_STATE:
		e.expectBlockMappingKey(false)
	case EMIT_BLOCK_MAPPING_SIMPLE_VALUE_STATE:
		e.expectBlockMappingValue(true)
	case EMIT_BLOCK_MAPPING_VALUE_STATE:
		e.expectBlockMappingValue(false)
	case EMIT_END_STATE:
		failEmitter("expected nothing, but got " + e.event.Type.String())
	default:
		panic("invalid emitter state")
	}
}

// Stream states.

func (e *Emitter) expectStreamStart() {
	if e.event.Type != STREAM_START_EVENT {
		failEmitter("expected STREAM-START, but got " + e.event.Type.String())
	}
	e.bestIndent = 2
	if e.opts.Indent >= 1 && e.opts.Indent <= 10 {
		e.bestIndent = e.opts.Indent
	}
	e.bestWidth = 80
	if e.opts.Width > e.bestIndent*2 {
		e.bestWidth = e.opts.Width
	}
	if e.opts.Width < 0 {
		e.bestWidth = 1<<31 - 1
	}
	e.bestLineBreak = e.opts.LineBreak.String()
	e.whitespace = true
	e.indention = true
	e.state = EMIT_FIRST_DOCUMENT_START_STATE
}

func (e *Emitter) expectDocumentStart(first bool) {
	switch e.event.Type {
	case DOCUMENT_START_EVENT:
		if (e.event.Version != nil || len(e.event.TagDirectives) > 0) && e.openEnded {
			e.writeIndicator("...", true, false, false)
			e.writeIndent()
		}
		if e.event.Version != nil {
			e.writeVersionDirective(*e.event.Version)
		}
		e.tagPrefixes = make(map[string]string)
		for _, td := range defaultTagDirectives {
			e.tagPrefixes[td.Prefix] = td.Handle
		}
		for _, td := range e.event.TagDirectives {
			e.prepareTagHandle(td.Handle)
			e.tagPrefixes[td.Prefix] = td.Handle
			e.writeTagDirective(td)
		}
		implicit := first && e.event.Implicit && !e.opts.Canonical &&
			e.event.Version == nil && len(e.event.TagDirectives) == 0 &&
			!e.checkEmptyDocument()
		if !implicit {
			e.writeIndent()
			e.writeIndicator("---", true, false, false)
			if e.opts.Canonical {
				e.writeIndent()
			}
		}
		e.state = EMIT_DOCUMENT_CONTENT_STATE
	case STREAM_END_EVENT:
		e.flush()
		e.state = EMIT_END_STATE
	default:
		failEmitter("expected DOCUMENT-START or STREAM-END, but got " + e.event.Type.String())
	}
}

func (e *Emitter) expectDocumentContent() {
	e.states = append(e.states, EMIT_DOCUMENT_END_STATE)
	e.expectNode(true, false, false, false)
}

func (e *Emitter) expectDocumentEnd() {
	if e.event.Type != DOCUMENT_END_EVENT {
		failEmitter("expected DOCUMENT-END, but got " + e.event.Type.String())
	}
	e.writeIndent()
	if !e.event.Implicit {
		e.writeIndicator("...", true, false, false)
		e.writeIndent()
		e.openEnded = false
	}
	e.flush()
	e.state = EMIT_DOCUMENT_START_STATE
}

// Node states.

func (e *Emitter) expectNode(root, sequence, mapping, simpleKey bool) {
	e.rootContext = root
	e.sequenceContext = sequence
	e.mappingContext = mapping
	e.simpleKeyContext = simpleKey
	switch e.event.Type {
	case ALIAS_EVENT:
		e.expectAlias()
	case SCALAR_EVENT:
		e.expectScalar()
	case SEQUENCE_START_EVENT:
		e.processAnchor("&")
		e.processTag()
		if e.flowLevel > 0 || e.opts.Canonical || e.event.Flow() ||
			e.checkEmptySequence() {
			e.expectFlowSequence()
		} else {
			e.expectBlockSequence()
		}
	case MAPPING_START_EVENT:
		e.processAnchor("&")
		e.processTag()
		if e.flowLevel > 0 || e.opts.Canonical || e.event.Flow() ||
			e.checkEmptyMapping() {
			e.expectFlowMapping()
		} else {
			e.expectBlockMapping()
		}
	default:
		failEmitter("expected NODE, but got " + e.event.Type.String())
	}
}

func (e *Emitter) expectAlias() {
	if e.event.Anchor == "" {
		failEmitter("anchor is not specified for alias")
	}
	e.processAnchor("*")
	e.state = e.popState()
}

func (e *Emitter) expectScalar() {
	e.increaseIndent(true, false)
	e.processAnchor("&")
	e.processTag()
	e.processScalar()
	e.indent = e.popIndent()
	e.state = e.popState()
}

// Flow sequences.

func (e *Emitter) expectFlowSequence() {
	e.writeIndicator("[", true, true, false)
	e.flowLevel++
	e.increaseIndent(true, false)
	if e.prettyFlow() {
		e.writeIndent()
	}
	e.state = EMIT_FLOW_SEQUENCE_FIRST_ITEM_STATE
}

func (e *Emitter) expectFlowSequenceItem(first bool) {
	if e.event.Type == SEQUENCE_END_EVENT {
		e.indent = e.popIndent()
		e.flowLevel--
		if !first && e.opts.Canonical {
			e.writeIndicator(",", false, false, false)
			e.writeIndent()
		} else if e.prettyFlow() && !first {
			e.writeIndent()
		}
		e.writeIndicator("]", false, false, false)
		e.state = e.popState()
		return
	}
	if !first {
		e.writeIndicator(",", false, false, false)
	}
	if e.opts.Canonical || (e.column > e.bestWidth && e.opts.SplitLines) || e.prettyFlow() {
		e.writeIndent()
	}
	e.states = append(e.states, EMIT_FLOW_SEQUENCE_ITEM_STATE)
	e.expectNode(false, true, false, false)
}

// Flow mappings.

func (e *Emitter) expectFlowMapping() {
	e.writeIndicator("{", true, true, false)
	e.flowLevel++
	e.increaseIndent(true, false)
	if e.prettyFlow() {
		e.writeIndent()
	}
	e.state = EMIT_FLOW_MAPPING_FIRST_KEY_STATE
}

func (e *Emitter) expectFlowMappingKey(first bool) {
	if e.event.Type == MAPPING_END_EVENT {
		e.indent = e.popIndent()
		e.flowLevel--
		if !first && e.opts.Canonical {
			e.writeIndicator(",", false, false, false)
			e.writeIndent()
		} else if e.prettyFlow() && !first {
			e.writeIndent()
		}
		e.writeIndicator("}", false, false, false)
		e.state = e.popState()
		return
	}
	if !first {
		e.writeIndicator(",", false, false, false)
	}
	if e.opts.Canonical || (e.column > e.bestWidth && e.opts.SplitLines) || e.prettyFlow() {
		e.writeIndent()
	}
	if !e.opts.Canonical && e.checkSimpleKey() {
		e.states = append(e.states, EMIT_FLOW_MAPPING_SIMPLE_VALUE_STATE)
		e.expectNode(false, false, true, true)
		return
	}
	e.writeIndicator("?", true, false, false)
	e.states = append(e.states, EMIT_FLOW_MAPPING_VALUE_STATE)
	e.expectNode(false, false, true, false)
}

func (e *Emitter) expectFlowMappingValue(simple bool) {
	if simple {
		e.writeIndicator(":", false, false, false)
	} else {
		if e.opts.Canonical || (e.column > e.bestWidth && e.opts.SplitLines) {
			e.writeIndent()
		}
		e.writeIndicator(":", true, false, false)
	}
	e.states = append(e.states, EMIT_FLOW_MAPPING_KEY_STATE)
	e.expectNode(false, false, true, false)
}

// Block sequences.

func (e *Emitter) expectBlockSequence() {
	indentless := e.mappingContext && !e.indention
	e.increaseIndent(false, indentless)
	e.state = EMIT_BLOCK_SEQUENCE_FIRST_ITEM_STATE
}

func (e *Emitter) expectBlockSequenceItem(first bool) {
	if !first && e.event.Type == SEQUENCE_END_EVENT {
		e.indent = e.popIndent()
		e.state = e.popState()
		return
	}
	e.writeIndent()
	if e.opts.IndicatorIndent > 0 {
		e.writeSpaces(e.opts.IndicatorIndent)
	}
	e.writeIndicator("-", true, false, true)
	e.states = append(e.states, EMIT_BLOCK_SEQUENCE_ITEM_STATE)
	e.expectNode(false, true, false, false)
}

// Block mappings.

func (e *Emitter) expectBlockMapping() {
	e.increaseIndent(false, false)
	e.state = EMIT_BLOCK_MAPPING_FIRST_KEY_STATE
}

func (e *Emitter) expectBlockMappingKey(first bool) {
	if !first && e.event.Type == MAPPING_END_EVENT {
		e.indent = e.popIndent()
		e.state = e.popState()
		return
	}
	e.writeIndent()
	if e.checkSimpleKey() {
		e.states = append(e.states, EMIT_BLOCK_MAPPING_SIMPLE_VALUE_STATE)
		e.expectNode(false, false, true, true)
		return
	}
	e.writeIndicator("?", true, false, true)
	e.states = append(e.states, EMIT_BLOCK_MAPPING_VALUE_STATE)
	e.expectNode(false, false, true, false)
}

func (e *Emitter) expectBlockMappingValue(simple bool) {
	if simple {
		e.writeIndicator(":", false, false, false)
	} else {
		e.writeIndent()
		e.writeIndicator(":", true, false, true)
	}
	e.states = append(e.states, EMIT_BLOCK_MAPPING_KEY_STATE)
	e.expectNode(false, false, true, false)
}

// Checkers.

func (e *Emitter) prettyFlow() bool {
	return e.opts.PrettyFlow && !e.simpleKeyContext
}

func (e *Emitter) checkEmptySequence() bool {
	return e.event.Type == SEQUENCE_START_EVENT && len(e.events) > 0 &&
		e.events[0].Type == SEQUENCE_END_EVENT
}

func (e *Emitter) checkEmptyMapping() bool {
	return e.event.Type == MAPPING_START_EVENT && len(e.events) > 0 &&
		e.events[0].Type == MAPPING_END_EVENT
}

func (e *Emitter) checkEmptyDocument() bool {
	if e.event.Type != DOCUMENT_START_EVENT || len(e.events) == 0 {
		return false
	}
	next := e.events[0]
	return next.Type == SCALAR_EVENT && next.Anchor == "" && next.Tag == "" &&
		next.Implicit && next.Value == ""
}

// checkSimpleKey reports whether the upcoming node fits on one line as a
// simple key: an alias, or a short single-line scalar, or an empty
// collection.
func (e *Emitter) checkSimpleKey() bool {
	length := 0
	switch e.event.Type {
	case ALIAS_EVENT:
		return true
	case SCALAR_EVENT:
		if e.analysis == nil || e.analysis.value != e.event.Value {
			e.analysis = e.analyzeScalar(e.event.Value)
		}
		if e.analysis.multiline {
			return false
		}
		length += len(e.event.Anchor) + len(e.event.Tag) + len(e.analysis.value)
	case SEQUENCE_START_EVENT:
		if !e.checkEmptySequence() {
			return false
		}
	case MAPPING_START_EVENT:
		if !e.checkEmptyMapping() {
			return false
		}
	default:
		return false
	}
	max := e.opts.MaxSimpleKeyLength
	if max <= 0 || max > maxSimpleKeyLength {
		max = 128
	}
	return length <= max
}

// Processors.

func (e *Emitter) processAnchor(indicator string) {
	if e.event.Anchor == "" {
		return
	}
	e.prepareAnchor(e.event.Anchor)
	e.writeIndicator(indicator+e.event.Anchor, true, false, false)
}

// prepareAnchor validates an anchor name: non-empty, no spaces, none of
// the '[]{},*&' characters.
func (e *Emitter) prepareAnchor(anchor string) {
	if anchor == "" {
		failEmitter("anchor must not be empty")
	}
	for _, c := range anchor {
		if isBlank(c) || isBreak(c) || isFlowIndicator(c) || c == '*' || c == '&' {
			failEmitter(fmt.Sprintf("invalid character %q in the anchor %q", c, anchor))
		}
	}
}

func (e *Emitter) processTag() {
	tag := e.event.Tag
	if e.event.Type == SCALAR_EVENT {
		if e.style == ANY_SCALAR_STYLE {
			e.style = e.chooseScalarStyle()
		}
		if (!e.opts.Canonical || tag == "") &&
			((e.style == PLAIN_SCALAR_STYLE && e.event.Implicit) ||
				(e.style != PLAIN_SCALAR_STYLE && e.event.QuotedImplicit)) {
			return
		}
		if e.event.Implicit && tag == "" {
			tag = "!"
		}
	} else {
		if (!e.opts.Canonical || tag == "") && e.event.Implicit {
			return
		}
	}
	if tag == "" {
		failEmitter("tag is not specified")
	}
	e.writeIndicator(e.prepareTag(tag), true, false, false)
}

// prepareTag shortens a tag through the %TAG handles in effect, falling
// back to the verbatim !<...> form.
func (e *Emitter) prepareTag(tag string) string {
	if tag == "!" {
		return tag
	}
	var handle, suffix string
	best := 0
	for prefix, h := range e.tagPrefixes {
		if strings.HasPrefix(tag, prefix) && len(prefix) < len(tag) && len(prefix) > best {
			best = len(prefix)
			handle = h
			suffix = tag[len(prefix):]
		}
	}
	if handle != "" && suffix != "" {
		var b strings.Builder
		b.WriteString(handle)
		for _, c := range suffix {
			if isURIChar(c) && c != '!' {
				b.WriteRune(c)
			} else {
				for _, byt := range []byte(string(c)) {
					fmt.Fprintf(&b, "%%%02X", byt)
				}
			}
		}
		return b.String()
	}
	return "!<" + tag + ">"
}

func (e *Emitter) prepareTagHandle(handle string) {
	if handle == "" {
		failEmitter("tag handle must not be empty")
	}
	if handle[0] != '!' || handle[len(handle)-1] != '!' {
		failEmitter(fmt.Sprintf("tag handle must start and end with '!': %q", handle))
	}
	for _, c := range handle[1 : len(handle)-1] {
		if !isWordChar(c) {
			failEmitter(fmt.Sprintf("invalid character %q in the tag handle %q", c, handle))
		}
	}
}

func (e *Emitter) processScalar() {
	if e.analysis == nil || e.analysis.value != e.event.Value {
		e.analysis = e.analyzeScalar(e.event.Value)
	}
	if e.style == ANY_SCALAR_STYLE {
		e.style = e.chooseScalarStyle()
	}
	split := !e.simpleKeyContext && e.opts.SplitLines
	switch e.style {
	case SINGLE_QUOTED_SCALAR_STYLE:
		e.writeSingleQuoted(e.analysis.value, split)
	case DOUBLE_QUOTED_SCALAR_STYLE:
		e.writeDoubleQuoted(e.analysis.value, split)
	case LITERAL_SCALAR_STYLE:
		e.writeLiteral(e.analysis.value)
	case FOLDED_SCALAR_STYLE:
		e.writeFolded(e.analysis.value)
	default:
		e.writePlain(e.analysis.value, split)
	}
	e.analysis = nil
	e.style = ANY_SCALAR_STYLE
}

// chooseScalarStyle applies the style selection rules: forced
// double-quoting for unrepresentable content, the requested style when
// compatible with the context, plain only when the analyzer allows it.
func (e *Emitter) chooseScalarStyle() ScalarStyle {
	if e.analysis == nil || e.analysis.value != e.event.Value {
		e.analysis = e.analyzeScalar(e.event.Value)
	}
	style := e.event.Style
	if style == ANY_SCALAR_STYLE {
		style = e.opts.DefaultScalarStyle
	}
	if style == DOUBLE_QUOTED_SCALAR_STYLE || e.opts.Canonical {
		return DOUBLE_QUOTED_SCALAR_STYLE
	}
	if style == ANY_SCALAR_STYLE || style == PLAIN_SCALAR_STYLE {
		if e.event.Implicit &&
			!(e.simpleKeyContext && (e.analysis.empty || e.analysis.multiline)) &&
			((e.flowLevel > 0 && e.analysis.allowFlowPlain) ||
				(e.flowLevel == 0 && e.analysis.allowBlockPlain)) {
			return PLAIN_SCALAR_STYLE
		}
	}
	if style == LITERAL_SCALAR_STYLE || style == FOLDED_SCALAR_STYLE {
		if e.flowLevel == 0 && !e.simpleKeyContext && e.analysis.allowBlock {
			return style
		}
	}
	if style != LITERAL_SCALAR_STYLE && style != FOLDED_SCALAR_STYLE {
		if e.analysis.allowSingleQuoted &&
			!(e.simpleKeyContext && e.analysis.multiline) {
			return SINGLE_QUOTED_SCALAR_STYLE
		}
	}
	return DOUBLE_QUOTED_SCALAR_STYLE
}

// analyzeScalar computes every style predicate in a single scan.
func (e *Emitter) analyzeScalar(value string) *scalarAnalysis {
	if value == "" {
		return &scalarAnalysis{
			value:             value,
			empty:             true,
			allowSingleQuoted: true,
			allowDoubleQuoted: true,
		}
	}

	blockIndicators := false
	flowIndicatorsFound := false
	lineBreaks := false
	specialCharacters := false

	leadingSpace := false
	leadingBreak := false
	trailingSpace := false
	trailingBreak := false
	breakSpace := false
	spaceBreak := false

	if strings.HasPrefix(value, "---") || strings.HasPrefix(value, "...") {
		blockIndicators = true
		flowIndicatorsFound = true
	}

	preceededByWhitespace := true
	runes := []rune(value)
	var followedByWhitespace bool

	previousSpace := false
	previousBreak := false

	for i, c := range runes {
		followedByWhitespace = i+1 >= len(runes) || isBlankOrBreakOrZero(runes[i+1])
		if i == 0 {
			switch c {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicatorsFound = true
				blockIndicators = true
			case '?', ':':
				flowIndicatorsFound = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '-':
				if followedByWhitespace {
					flowIndicatorsFound = true
					blockIndicators = true
				}
			}
		} else {
			switch c {
			case ',', '[', ']', '{', '}':
				flowIndicatorsFound = true
			case '?':
				flowIndicatorsFound = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case ':':
				if followedByWhitespace {
					flowIndicatorsFound = true
					blockIndicators = true
				}
			case '#':
				if preceededByWhitespace {
					flowIndicatorsFound = true
					blockIndicators = true
				}
			}
		}

		if !isPrintable(c) || (c != '\n' && !isAllowed(c, e.opts.AllowUnicode)) {
			specialCharacters = true
		}
		if isBreak(c) {
			lineBreaks = true
		}

		if c == ' ' {
			if i == 0 {
				leadingSpace = true
			}
			if i == len(runes)-1 {
				trailingSpace = true
			}
			if previousBreak {
				breakSpace = true
			}
			previousSpace = true
			previousBreak = false
		} else if isBreak(c) {
			if i == 0 {
				leadingBreak = true
			}
			if i == len(runes)-1 {
				trailingBreak = true
			}
			if previousSpace {
				spaceBreak = true
			}
			previousSpace = false
			previousBreak = true
		} else {
			previousSpace = false
			previousBreak = false
		}

		preceededByWhitespace = isBlankOrBreakOrZero(c)
	}

	a := &scalarAnalysis{
		value:             value,
		multiline:         lineBreaks,
		allowFlowPlain:    true,
		allowBlockPlain:   true,
		allowSingleQuoted: true,
		allowDoubleQuoted: true,
		allowBlock:        true,
	}
	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		a.allowFlowPlain = false
		a.allowBlockPlain = false
	}
	if trailingSpace {
		a.allowBlock = false
	}
	if breakSpace {
		a.allowFlowPlain = false
		a.allowBlockPlain = false
		a.allowSingleQuoted = false
	}
	if spaceBreak || specialCharacters {
		a.allowFlowPlain = false
		a.allowBlockPlain = false
		a.allowSingleQuoted = false
		a.allowBlock = false
	}
	if lineBreaks {
		a.allowFlowPlain = false
		a.allowBlockPlain = false
	}
	if flowIndicatorsFound {
		a.allowFlowPlain = false
	}
	if blockIndicators {
		a.allowBlockPlain = false
	}
	return a
}

// isAllowed reports whether a printable character may be written without
// escaping under the Unicode policy.
func isAllowed(c rune, allowUnicode bool) bool {
	if c >= 0x20 && c <= 0x7E {
		return true
	}
	if !isPrintable(c) {
		return false
	}
	if c == 0x85 || c == 0x2028 || c == 0x2029 || c == 0xFEFF {
		return false
	}
	return allowUnicode
}

// Writers.

func (e *Emitter) write(s string) {
	if _, err := e.writer.WriteString(s); err != nil {
		Fail(WriterError{Err: err})
	}
	e.column += len([]rune(s))
}

func (e *Emitter) writeSpaces(n int) {
	e.write(strings.Repeat(" ", n))
}

func (e *Emitter) writeLineBreak() {
	if _, err := e.writer.WriteString(e.bestLineBreak); err != nil {
		Fail(WriterError{Err: err})
	}
	e.whitespace = true
	e.indention = true
	e.line++
	e.column = 0
}

func (e *Emitter) flush() {
	if err := e.writer.Flush(); err != nil {
		Fail(WriterError{Err: err})
	}
}

func (e *Emitter) writeIndicator(indicator string, needWhitespace, whitespace, indention bool) {
	if needWhitespace && !e.whitespace {
		e.write(" ")
	}
	e.write(indicator)
	e.whitespace = whitespace
	e.indention = e.indention && indention
	e.openEnded = false
}

func (e *Emitter) writeIndent() {
	indent := e.indent
	if indent < 0 {
		indent = 0
	}
	if !e.indention || e.column > indent || (e.column == indent && !e.whitespace) {
		e.writeLineBreak()
	}
	if e.column < indent {
		e.writeSpaces(indent - e.column)
		e.whitespace = true
	}
}

func (e *Emitter) writeVersionDirective(v VersionDirective) {
	e.write(fmt.Sprintf("%%YAML %d.%d", v.Major, v.Minor))
	e.writeLineBreak()
}

func (e *Emitter) writeTagDirective(td TagDirective) {
	e.write(fmt.Sprintf("%%TAG %s %s", td.Handle, td.Prefix))
	e.writeLineBreak()
}

// writeComment writes a comment event at the current position.
func (e *Emitter) writeComment(event *Event) {
	switch event.CommentType {
	case BLANK_LINE:
		e.writeLineBreak()
	case IN_LINE_COMMENT:
		if !e.whitespace {
			e.write(" ")
		}
		e.write("#" + event.Value)
		e.writeLineBreak()
	default:
		e.writeIndent()
		e.write("#" + event.Value)
		e.writeLineBreak()
	}
}

func (e *Emitter) increaseIndent(flow, indentless bool) {
	e.indents = append(e.indents, e.indent)
	if e.indent < 0 {
		if flow {
			e.indent = e.bestIndent
		} else {
			e.indent = 0
		}
	} else if !indentless {
		e.indent += e.bestIndent
		if !flow && e.opts.IndentWithIndicator && e.sequenceContext {
			e.indent += e.opts.IndicatorIndent
		}
	}
}

func (e *Emitter) popIndent() int {
	indent := e.indents[len(e.indents)-1]
	e.indents = e.indents[:len(e.indents)-1]
	return indent
}

func (e *Emitter) popState() emitterState {
	state := e.states[len(e.states)-1]
	e.states = e.states[:len(e.states)-1]
	return state
}

// Scalar writers.

func (e *Emitter) writePlain(value string, split bool) {
	if value == "" {
		return
	}
	if !e.whitespace {
		e.write(" ")
		e.whitespace = true
	}
	spaces := false
	breaks := false
	runes := []rune(value)
	start := 0
	for i := 0; i <= len(runes); i++ {
		var c rune
		if i < len(runes) {
			c = runes[i]
		}
		if spaces {
			if c != ' ' {
				if start+1 == i && e.column > e.bestWidth && split &&
					start != 0 && i != len(runes) {
					e.writeIndent()
				} else {
					e.write(string(runes[start:i]))
				}
				start = i
			}
		} else if breaks {
			if !isBreak(c) {
				if runes[start] == '\n' {
					e.writeLineBreak()
				}
				for _, br := range runes[start:i] {
					if br == '\n' {
						e.writeLineBreak()
					} else {
						e.write(string(br))
					}
				}
				e.writeIndent()
				e.whitespace = false
				e.indention = false
				start = i
			}
		} else {
			if isBlankOrBreakOrZero(c) || i == len(runes) {
				e.write(string(runes[start:i]))
				start = i
			}
		}
		if i < len(runes) {
			spaces = c == ' '
			breaks = isBreak(c)
		}
	}
	e.whitespace = false
	e.indention = false
	if e.rootContext {
		e.openEnded = true
	}
}

func (e *Emitter) writeSingleQuoted(value string, split bool) {
	e.writeIndicator("'", true, false, false)
	spaces := false
	breaks := false
	runes := []rune(value)
	start := 0
	for i := 0; i <= len(runes); i++ {
		var c rune
		if i < len(runes) {
			c = runes[i]
		}
		if spaces {
			if c != ' ' {
				if start+1 == i && e.column > e.bestWidth && split &&
					start != 0 && i != len(runes) {
					e.writeIndent()
				} else {
					e.write(string(runes[start:i]))
				}
				start = i
			}
		} else if breaks {
			if !isBreak(c) {
				if runes[start] == '\n' {
					e.writeLineBreak()
				}
				for _, br := range runes[start:i] {
					if br == '\n' {
						e.writeLineBreak()
					} else {
						e.write(string(br))
					}
				}
				e.writeIndent()
				start = i
			}
		} else {
			if isBlankOrBreakOrZero(c) || c == '\'' || i == len(runes) {
				if start < i {
					e.write(string(runes[start:i]))
					start = i
				}
			}
		}
		if c == '\'' {
			e.write("''")
			start = i + 1
		}
		if i < len(runes) {
			spaces = c == ' '
			breaks = isBreak(c)
		}
	}
	e.writeIndicator("'", false, false, false)
}

const hexDigits = "0123456789ABCDEF"

// doubleEscapes holds the short escape for each escapable character.
var doubleEscapes = map[rune]string{
	0x00:   "\\0",
	0x07:   "\\a",
	0x08:   "\\b",
	0x09:   "\\t",
	0x0A:   "\\n",
	0x0B:   "\\v",
	0x0C:   "\\f",
	0x0D:   "\\r",
	0x1B:   "\\e",
	'"':    "\\\"",
	'\\':   "\\\\",
	0x85:   "\\N",
	0xA0:   "\\_",
	0x2028: "\\L",
	0x2029: "\\P",
}

// needsDoubleEscape reports whether the character must be written as an
// escape sequence inside a double-quoted scalar.
func (e *Emitter) needsDoubleEscape(c rune) bool {
	if c == '"' || c == '\\' {
		return true
	}
	if c >= 0x20 && c <= 0x7E {
		return false
	}
	return !isAllowed(c, e.opts.AllowUnicode)
}

func (e *Emitter) writeDoubleQuoted(value string, split bool) {
	e.writeIndicator("\"", true, false, false)
	runes := []rune(value)
	start := 0
	for i := 0; i <= len(runes); i++ {
		var c rune
		ok := i < len(runes)
		if ok {
			c = runes[i]
		}
		if !ok || e.needsDoubleEscape(c) {
			if start < i {
				e.write(string(runes[start:i]))
				start = i
			}
			if ok {
				if esc, found := doubleEscapes[c]; found {
					e.write(esc)
				} else {
					e.writeHexEscape(c)
				}
				start = i + 1
			}
		}
		if ok && 0 < i && i < len(runes)-1 && (c == ' ' || start >= i) &&
			e.column+(i-start) > e.bestWidth && split {
			// Fold a long line, escaping the break with a backslash.
			e.write(string(runes[start:i]))
			e.write("\\")
			start = i
			e.writeIndent()
			e.whitespace = false
			e.indention = false
			if runes[start] == ' ' {
				e.write("\\")
			}
		}
	}
	e.writeIndicator("\"", false, false, false)
}

func (e *Emitter) writeHexEscape(c rune) {
	var b strings.Builder
	switch {
	case c <= 0xFF:
		b.WriteString("\\x")
		b.WriteByte(hexDigits[(c>>4)&0xF])
		b.WriteByte(hexDigits[c&0xF])
	case c <= 0xFFFF:
		b.WriteString("\\u")
		for shift := 12; shift >= 0; shift -= 4 {
			b.WriteByte(hexDigits[(c>>uint(shift))&0xF])
		}
	default:
		b.WriteString("\\U")
		for shift := 28; shift >= 0; shift -= 4 {
			b.WriteByte(hexDigits[(c>>uint(shift))&0xF])
		}
	}
	e.write(b.String())
}

// determineBlockHints returns the indentation and chomping hints for a
// literal or folded scalar: an explicit indent digit when the content
// starts with a space or break, '-' when it has no trailing break, '+'
// when it ends with more than one or consists of a single break.
func (e *Emitter) determineBlockHints(value string) string {
	var hints strings.Builder
	runes := []rune(value)
	if len(runes) > 0 && (runes[0] == ' ' || isBreak(runes[0])) {
		hints.WriteByte(byte('0' + e.bestIndent))
	}
	if len(runes) == 0 || !isBreak(runes[len(runes)-1]) {
		hints.WriteString("-")
	} else if len(runes) == 1 || isBreak(runes[len(runes)-2]) {
		hints.WriteString("+")
	}
	return hints.String()
}

func (e *Emitter) writeLiteral(value string) {
	hints := e.determineBlockHints(value)
	e.writeIndicator("|"+hints, true, false, false)
	if strings.HasSuffix(hints, "+") {
		e.openEnded = true
	}
	e.writeLineBreak()
	breaks := true
	runes := []rune(value)
	start := 0
	for i := 0; i <= len(runes); i++ {
		var c rune
		ok := i < len(runes)
		if ok {
			c = runes[i]
		}
		if breaks {
			if !ok || !isBreak(c) {
				for _, br := range runes[start:i] {
					if br == '\n' {
						e.writeLineBreak()
					} else {
						e.write(string(br))
					}
				}
				if ok {
					e.writeIndent()
				}
				start = i
			}
		} else {
			if !ok || isBreak(c) {
				e.write(string(runes[start:i]))
				if !ok {
					e.writeLineBreak()
				}
				start = i
			}
		}
		if ok {
			breaks = isBreak(c)
		}
	}
}

func (e *Emitter) writeFolded(value string) {
	hints := e.determineBlockHints(value)
	e.writeIndicator(">"+hints, true, false, false)
	if strings.HasSuffix(hints, "+") {
		e.openEnded = true
	}
	e.writeLineBreak()
	breaks := true
	leadingSpace := true
	spaces := false
	runes := []rune(value)
	start := 0
	for i := 0; i <= len(runes); i++ {
		var c rune
		ok := i < len(runes)
		if ok {
			c = runes[i]
		}
		if breaks {
			if !ok || !isBreak(c) {
				if !leadingSpace && ok && c != ' ' && runes[start] == '\n' {
					e.writeLineBreak()
				}
				leadingSpace = c == ' '
				for _, br := range runes[start:i] {
					if br == '\n' {
						e.writeLineBreak()
					} else {
						e.write(string(br))
					}
				}
				if ok {
					e.writeIndent()
				}
				start = i
			}
		} else if spaces {
			if c != ' ' {
				if start+1 == i && e.column > e.bestWidth {
					e.writeIndent()
				} else {
					e.write(string(runes[start:i]))
				}
				start = i
			}
		} else {
			if !ok || isBlank(c) || isBreak(c) {
				e.write(string(runes[start:i]))
				if !ok {
					e.writeLineBreak()
				}
				start = i
			}
		}
		if ok {
			breaks = isBreak(c)
			spaces = c == ' '
		}
	}
}

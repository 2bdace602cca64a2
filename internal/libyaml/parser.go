// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The parser stage: turns the token stream into grammar events.
//
//	stream      ::= STREAM-START implicit_document? explicit_document* STREAM-END
//	implicit_document ::= block_node DOCUMENT-END*
//	explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//	block_node_or_indentless_sequence ::=
//	      ALIAS | properties (block_content | indentless_block_sequence)?
//	            | block_content | indentless_block_sequence
//	block_node  ::= ALIAS | properties block_content? | block_content
//	flow_node   ::= ALIAS | properties flow_content? | flow_content
//	properties  ::= TAG ANCHOR? | ANCHOR TAG?
//	block_content     ::= block_collection | flow_collection | SCALAR
//	flow_content      ::= flow_collection | SCALAR
//	block_collection  ::= block_sequence | block_mapping
//	flow_collection   ::= flow_sequence | flow_mapping
//
// The parser is a state machine: an explicit state enum plus a stack of
// pending states standing in for continuations.

package libyaml

import "fmt"

type parserState int8

const (
	PARSE_STREAM_START_STATE parserState = iota // Expect STREAM-START.

	PARSE_IMPLICIT_DOCUMENT_START_STATE // Expect the beginning of an implicit document.
	PARSE_DOCUMENT_START_STATE          // Expect DOCUMENT-START.
	PARSE_DOCUMENT_CONTENT_STATE        // Expect the content of a document.
	PARSE_DOCUMENT_END_STATE            // Expect DOCUMENT-END.

	PARSE_BLOCK_NODE_STATE                          // Expect a block node.
	PARSE_BLOCK_NODE_OR_INDENTLESS_SEQUENCE_STATE   // Expect a block node or indentless sequence.
	PARSE_FLOW_NODE_STATE                           // Expect a flow node.
	PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE          // Expect the first entry of a block sequence.
	PARSE_BLOCK_SEQUENCE_ENTRY_STATE                // Expect an entry of a block sequence.
	PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE           // Expect an entry of an indentless sequence.
	PARSE_BLOCK_MAPPING_FIRST_KEY_STATE             // Expect the first key of a block mapping.
	PARSE_BLOCK_MAPPING_KEY_STATE                   // Expect a key of a block mapping.
	PARSE_BLOCK_MAPPING_VALUE_STATE                 // Expect a value of a block mapping.
	PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE           // Expect the first entry of a flow sequence.
	PARSE_FLOW_SEQUENCE_ENTRY_STATE                 // Expect an entry of a flow sequence.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE     // Expect a key of an embedded ?: pair.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE   // Expect a value of an embedded ?: pair.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE     // Expect the end of an embedded ?: pair.
	PARSE_FLOW_MAPPING_FIRST_KEY_STATE              // Expect the first key of a flow mapping.
	PARSE_FLOW_MAPPING_KEY_STATE                    // Expect a key of a flow mapping.
	PARSE_FLOW_MAPPING_VALUE_STATE                  // Expect a value of a flow mapping.
	PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE            // Expect an omitted value of a flow mapping.

	PARSE_END_STATE // Expect nothing.
)

// Parser produces events from a scanner.
type Parser struct {
	scanner *Scanner

	state  parserState
	states []parserState
	marks  []Mark

	yamlVersion   *VersionDirective
	tagHandles    map[string]string
	tagDirectives []TagDirective

	pendingComments []*Token
	currentEvent    *Event
	done            bool
}

// NewParser returns a Parser over the scanner.
func NewParser(scanner *Scanner) *Parser {
	return &Parser{
		scanner: scanner,
		state:   PARSE_STREAM_START_STATE,
	}
}

// CheckEvent reports whether the next event is one of the given types.
// With no arguments it reports whether any event remains.
func (p *Parser) CheckEvent(choices ...EventType) bool {
	e := p.PeekEvent()
	if e == nil {
		return false
	}
	if len(choices) == 0 {
		return true
	}
	for _, choice := range choices {
		if e.Type == choice {
			return true
		}
	}
	return false
}

// PeekEvent returns the next event without consuming it, or nil after
// STREAM-END.
func (p *Parser) PeekEvent() *Event {
	if p.currentEvent == nil && !p.done {
		p.currentEvent = p.produce()
	}
	return p.currentEvent
}

// NextEvent consumes and returns the next event, or nil after STREAM-END.
func (p *Parser) NextEvent() *Event {
	e := p.PeekEvent()
	p.currentEvent = nil
	return e
}

// peekToken returns the next grammar token, queueing any comment tokens it
// skips over for later emission as COMMENT_EVENTs.
func (p *Parser) peekToken() *Token {
	for {
		t := p.scanner.PeekToken()
		if t == nil || t.Type != COMMENT_TOKEN {
			return t
		}
		p.pendingComments = append(p.pendingComments, p.scanner.NextToken())
	}
}

func (p *Parser) nextToken() *Token {
	p.peekToken()
	return p.scanner.NextToken()
}

// checkToken reports whether the next grammar token is one of the given
// types.
func (p *Parser) checkToken(choices ...TokenType) bool {
	t := p.peekToken()
	if t == nil {
		return false
	}
	for _, choice := range choices {
		if t.Type == choice {
			return true
		}
	}
	return false
}

// produce runs the state machine for one event. Comments collected while
// peeking are delivered first, in input order.
func (p *Parser) produce() *Event {
	if p.state != PARSE_END_STATE {
		// Surface any comments that precede the next grammar token.
		p.peekToken()
	}
	if len(p.pendingComments) > 0 {
		t := p.pendingComments[0]
		p.pendingComments = p.pendingComments[1:]
		return &Event{
			Type:        COMMENT_EVENT,
			CommentType: t.CommentType,
			Value:       t.Value,
			StartMark:   t.StartMark,
			EndMark:     t.EndMark,
		}
	}

	switch p.state {
	case PARSE_STREAM_START_STATE:
		return p.parseStreamStart()
	case PARSE_IMPLICIT_DOCUMENT_START_STATE:
		return p.parseDocumentStart(true)
	case PARSE_DOCUMENT_START_STATE:
		return p.parseDocumentStart(false)
	case PARSE_DOCUMENT_CONTENT_STATE:
		return p.parseDocumentContent()
	case PARSE_DOCUMENT_END_STATE:
		return p.parseDocumentEnd()
	case PARSE_BLOCK_NODE_STATE:
		return p.parseNode(true, false)
	case PARSE_BLOCK_NODE_OR_INDENTLESS_SEQUENCE_STATE:
		return p.parseNode(true, true)
	case PARSE_FLOW_NODE_STATE:
		return p.parseNode(false, false)
	case PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE:
		return p.parseBlockSequenceEntry(true)
	case PARSE_BLOCK_SEQUENCE_ENTRY_STATE:
		return p.parseBlockSequenceEntry(false)
	case PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE:
		return p.parseIndentlessSequenceEntry()
	case PARSE_BLOCK_MAPPING_FIRST_KEY_STATE:
		return p.parseBlockMappingKey(true)
	case PARSE_BLOCK_MAPPING_KEY_STATE:
		return p.parseBlockMappingKey(false)
	case PARSE_BLOCK_MAPPING_VALUE_STATE:
		return p.parseBlockMappingValue()
	case PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE:
		return p.parseFlowSequenceEntry(true)
	case PARSE_FLOW_SEQUENCE_ENTRY_STATE:
		return p.parseFlowSequenceEntry(false)
	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE:
		return p.parseFlowSequenceEntryMappingKey()
	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE:
		return p.parseFlowSequenceEntryMappingValue()
	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE:
		return p.parseFlowSequenceEntryMappingEnd()
	case PARSE_FLOW_MAPPING_FIRST_KEY_STATE:
		return p.parseFlowMappingKey(true)
	case PARSE_FLOW_MAPPING_KEY_STATE:
		return p.parseFlowMappingKey(false)
	case PARSE_FLOW_MAPPING_VALUE_STATE:
		return p.parseFlowMappingValue(false)
	case PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE:
		return p.parseFlowMappingValue(true)
	case PARSE_END_STATE:
		p.done = true
		return nil
	}
	panic("invalid parser state")
}

func (p *Parser) popState() parserState {
	state := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return state
}

func (p *Parser) popMark() Mark {
	mark := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return mark
}

func (p *Parser) parseStreamStart() *Event {
	token := p.nextToken()
	if token.Type != STREAM_START_TOKEN {
		failParser("", nil,
			fmt.Sprintf("expected STREAM-START, but found %s", token.Type),
			token.StartMark)
	}
	p.state = PARSE_IMPLICIT_DOCUMENT_START_STATE
	return &Event{
		Type:      STREAM_START_EVENT,
		Encoding:  p.scanner.reader.Encoding(),
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
}

func (p *Parser) parseDocumentStart(implicit bool) *Event {
	if implicit &&
		!p.checkToken(VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN,
			DOCUMENT_START_TOKEN, STREAM_END_TOKEN) {
		// An implicit document: content without '---'.
		p.setDirectives(nil, nil)
		token := p.peekToken()
		p.states = append(p.states, PARSE_DOCUMENT_END_STATE)
		p.state = PARSE_BLOCK_NODE_STATE
		return &Event{
			Type:      DOCUMENT_START_EVENT,
			Implicit:  true,
			StartMark: token.StartMark,
			EndMark:   token.StartMark,
		}
	}

	// Skip trailing '...' markers of the previous document.
	for p.checkToken(DOCUMENT_END_TOKEN) {
		p.nextToken()
	}
	if p.checkToken(STREAM_END_TOKEN) {
		token := p.nextToken()
		p.state = PARSE_END_STATE
		return &Event{
			Type:      STREAM_END_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}
	}

	// An explicit document: directives, then '---'.
	startMark := p.peekToken().StartMark
	version, tagDirectives := p.processDirectives()
	if !p.checkToken(DOCUMENT_START_TOKEN) {
		token := p.peekToken()
		failParser("", nil,
			fmt.Sprintf("expected '<document start>', but found %s", token.Type),
			token.StartMark)
	}
	token := p.nextToken()
	p.states = append(p.states, PARSE_DOCUMENT_END_STATE)
	p.state = PARSE_DOCUMENT_CONTENT_STATE
	return &Event{
		Type:          DOCUMENT_START_EVENT,
		Version:       version,
		TagDirectives: tagDirectives,
		StartMark:     startMark,
		EndMark:       token.EndMark,
	}
}

func (p *Parser) parseDocumentContent() *Event {
	if p.checkToken(VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN,
		DOCUMENT_START_TOKEN, DOCUMENT_END_TOKEN, STREAM_END_TOKEN) {
		token := p.peekToken()
		p.state = p.popState()
		return p.processEmptyScalar(token.StartMark)
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() *Event {
	token := p.peekToken()
	startMark, endMark := token.StartMark, token.StartMark
	explicit := false
	if token.Type == DOCUMENT_END_TOKEN {
		p.nextToken()
		endMark = token.EndMark
		explicit = true
	}
	// Directives do not carry over between documents.
	p.setDirectives(nil, nil)
	p.state = PARSE_DOCUMENT_START_STATE
	return &Event{
		Type:      DOCUMENT_END_EVENT,
		Implicit:  !explicit,
		StartMark: startMark,
		EndMark:   endMark,
	}
}

// processDirectives reads the directive tokens preceding a document. At
// most one %YAML directive is allowed per document, and its major version
// must be 1.
func (p *Parser) processDirectives() (*VersionDirective, []TagDirective) {
	var version *VersionDirective
	var tagDirectives []TagDirective
	seen := make(map[string]bool)
	for p.checkToken(VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN) {
		token := p.nextToken()
		switch token.Type {
		case VERSION_DIRECTIVE_TOKEN:
			if token.Major < 0 {
				// An unknown directive, ignored with its arguments.
				continue
			}
			if version != nil {
				failParser("", nil, "found duplicate YAML directive", token.StartMark)
			}
			if token.Major != 1 {
				failParser("", nil,
					"found incompatible YAML document", token.StartMark)
			}
			version = &VersionDirective{Major: token.Major, Minor: token.Minor}
		case TAG_DIRECTIVE_TOKEN:
			if seen[token.Handle] {
				failParser("", nil,
					fmt.Sprintf("duplicate tag handle %q", token.Handle),
					token.StartMark)
			}
			seen[token.Handle] = true
			tagDirectives = append(tagDirectives, TagDirective{
				Handle: token.Handle,
				Prefix: token.Prefix,
			})
		}
	}
	p.setDirectives(version, tagDirectives)
	return version, tagDirectives
}

// setDirectives installs the per-document handle map, adding the default
// '!' and '!!' handles.
func (p *Parser) setDirectives(version *VersionDirective, tagDirectives []TagDirective) {
	p.yamlVersion = version
	p.tagDirectives = tagDirectives
	p.tagHandles = make(map[string]string)
	for _, td := range tagDirectives {
		p.tagHandles[td.Handle] = td.Prefix
	}
	for _, td := range defaultTagDirectives {
		if _, ok := p.tagHandles[td.Handle]; !ok {
			p.tagHandles[td.Handle] = td.Prefix
		}
	}
}

// parseNode parses the properties and content of one node.
func (p *Parser) parseNode(block, indentlessSequence bool) *Event {
	if p.checkToken(ALIAS_TOKEN) {
		token := p.nextToken()
		p.state = p.popState()
		return &Event{
			Type:      ALIAS_EVENT,
			Anchor:    token.Value,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}
	}

	var anchor, tagHandle, tagSuffix string
	var hasTag bool
	var startMark, endMark, tagMark Mark
	var started bool

	if p.checkToken(ANCHOR_TOKEN) {
		token := p.nextToken()
		anchor = token.Value
		startMark, endMark = token.StartMark, token.EndMark
		started = true
		if p.checkToken(TAG_TOKEN) {
			token := p.nextToken()
			tagHandle, tagSuffix = token.Handle, token.Value
			hasTag = true
			tagMark = token.StartMark
			endMark = token.EndMark
		}
	} else if p.checkToken(TAG_TOKEN) {
		token := p.nextToken()
		tagHandle, tagSuffix = token.Handle, token.Value
		hasTag = true
		startMark, tagMark = token.StartMark, token.StartMark
		endMark = token.EndMark
		started = true
		if p.checkToken(ANCHOR_TOKEN) {
			token := p.nextToken()
			anchor = token.Value
			endMark = token.EndMark
		}
	}

	// Expand the tag short-hand against the document's handles. A lone '!'
	// stays the literal tag "!" and is resolved by node kind later.
	var tag string
	if hasTag {
		if tagHandle != "" {
			prefix, ok := p.tagHandles[tagHandle]
			if !ok {
				failParser("while parsing a node", &startMark,
					fmt.Sprintf("found undefined tag handle %q", tagHandle),
					tagMark)
			}
			tag = prefix + tagSuffix
		} else {
			tag = tagSuffix
		}
	}

	if !started {
		token := p.peekToken()
		startMark, endMark = token.StartMark, token.StartMark
	}

	implicit := !hasTag || tag == "!"

	if indentlessSequence && p.checkToken(BLOCK_ENTRY_TOKEN) {
		p.state = PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE
		return &Event{
			Type:            SEQUENCE_START_EVENT,
			Anchor:          anchor,
			Tag:             tag,
			Implicit:        implicit,
			CollectionStyle: BLOCK_COLLECTION_STYLE,
			StartMark:       startMark,
			EndMark:         endMark,
		}
	}

	if p.checkToken(SCALAR_TOKEN) {
		token := p.nextToken()
		endMark = token.EndMark
		if !started {
			startMark = token.StartMark
		}
		var plainImplicit, quotedImplicit bool
		switch {
		case (token.Plain() && !hasTag) || tag == "!":
			plainImplicit = true
		case !hasTag:
			quotedImplicit = true
		}
		p.state = p.popState()
		return &Event{
			Type:           SCALAR_EVENT,
			Anchor:         anchor,
			Tag:            tag,
			Implicit:       plainImplicit,
			QuotedImplicit: quotedImplicit,
			Value:          token.Value,
			Style:          token.Style,
			StartMark:      startMark,
			EndMark:        endMark,
		}
	}

	if p.checkToken(FLOW_SEQUENCE_START_TOKEN) {
		token := p.peekToken()
		p.state = PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE
		return &Event{
			Type:            SEQUENCE_START_EVENT,
			Anchor:          anchor,
			Tag:             tag,
			Implicit:        implicit,
			CollectionStyle: FLOW_COLLECTION_STYLE,
			StartMark:       startMark,
			EndMark:         token.EndMark,
		}
	}

	if p.checkToken(FLOW_MAPPING_START_TOKEN) {
		token := p.peekToken()
		p.state = PARSE_FLOW_MAPPING_FIRST_KEY_STATE
		return &Event{
			Type:            MAPPING_START_EVENT,
			Anchor:          anchor,
			Tag:             tag,
			Implicit:        implicit,
			CollectionStyle: FLOW_COLLECTION_STYLE,
			StartMark:       startMark,
			EndMark:         token.EndMark,
		}
	}

	if block && p.checkToken(BLOCK_SEQUENCE_START_TOKEN) {
		token := p.peekToken()
		p.state = PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE
		return &Event{
			Type:            SEQUENCE_START_EVENT,
			Anchor:          anchor,
			Tag:             tag,
			Implicit:        implicit,
			CollectionStyle: BLOCK_COLLECTION_STYLE,
			StartMark:       startMark,
			EndMark:         token.EndMark,
		}
	}

	if block && p.checkToken(BLOCK_MAPPING_START_TOKEN) {
		token := p.peekToken()
		p.state = PARSE_BLOCK_MAPPING_FIRST_KEY_STATE
		return &Event{
			Type:            MAPPING_START_EVENT,
			Anchor:          anchor,
			Tag:             tag,
			Implicit:        implicit,
			CollectionStyle: BLOCK_COLLECTION_STYLE,
			StartMark:       startMark,
			EndMark:         token.EndMark,
		}
	}

	if anchor != "" || hasTag {
		// An empty node with properties.
		p.state = p.popState()
		return &Event{
			Type:      SCALAR_EVENT,
			Anchor:    anchor,
			Tag:       tag,
			Implicit:  implicit,
			Value:     "",
			Style:     PLAIN_SCALAR_STYLE,
			StartMark: startMark,
			EndMark:   endMark,
		}
	}

	name := "block node"
	if !block {
		name = "flow node"
	}
	token := p.peekToken()
	var contextMark *Mark
	if len(p.marks) > 0 {
		contextMark = &p.marks[len(p.marks)-1]
	}
	failParser("while parsing a "+name, contextMark,
		fmt.Sprintf("expected the node content, but found %s", token.Type),
		token.StartMark)
	return nil
}

func (p *Parser) parseBlockSequenceEntry(first bool) *Event {
	if first {
		token := p.nextToken()
		p.marks = append(p.marks, token.StartMark)
	}
	if p.checkToken(BLOCK_ENTRY_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(BLOCK_ENTRY_TOKEN, BLOCK_END_TOKEN) {
			p.states = append(p.states, PARSE_BLOCK_SEQUENCE_ENTRY_STATE)
			return p.parseNode(true, false)
		}
		p.state = PARSE_BLOCK_SEQUENCE_ENTRY_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	if !p.checkToken(BLOCK_END_TOKEN) {
		token := p.peekToken()
		failParser("while parsing a block collection", &p.marks[len(p.marks)-1],
			fmt.Sprintf("expected <block end>, but found %s", token.Type),
			token.StartMark)
	}
	token := p.nextToken()
	p.state = p.popState()
	p.popMark()
	return &Event{
		Type:      SEQUENCE_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
}

func (p *Parser) parseIndentlessSequenceEntry() *Event {
	if p.checkToken(BLOCK_ENTRY_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(BLOCK_ENTRY_TOKEN, KEY_TOKEN, VALUE_TOKEN, BLOCK_END_TOKEN) {
			p.states = append(p.states, PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE)
			return p.parseNode(true, false)
		}
		p.state = PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	token := p.peekToken()
	p.state = p.popState()
	return &Event{
		Type:      SEQUENCE_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.StartMark,
	}
}

func (p *Parser) parseBlockMappingKey(first bool) *Event {
	if first {
		token := p.nextToken()
		p.marks = append(p.marks, token.StartMark)
	}
	if p.checkToken(KEY_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(KEY_TOKEN, VALUE_TOKEN, BLOCK_END_TOKEN) {
			p.states = append(p.states, PARSE_BLOCK_MAPPING_VALUE_STATE)
			return p.parseNode(true, true)
		}
		p.state = PARSE_BLOCK_MAPPING_VALUE_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	if !p.checkToken(BLOCK_END_TOKEN) {
		token := p.peekToken()
		failParser("while parsing a block mapping", &p.marks[len(p.marks)-1],
			fmt.Sprintf("expected <block end>, but found %s", token.Type),
			token.StartMark)
	}
	token := p.nextToken()
	p.state = p.popState()
	p.popMark()
	return &Event{
		Type:      MAPPING_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
}

func (p *Parser) parseBlockMappingValue() *Event {
	if p.checkToken(VALUE_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(KEY_TOKEN, VALUE_TOKEN, BLOCK_END_TOKEN) {
			p.states = append(p.states, PARSE_BLOCK_MAPPING_KEY_STATE)
			return p.parseNode(true, true)
		}
		p.state = PARSE_BLOCK_MAPPING_KEY_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	token := p.peekToken()
	p.state = PARSE_BLOCK_MAPPING_KEY_STATE
	return p.processEmptyScalar(token.StartMark)
}

func (p *Parser) parseFlowSequenceEntry(first bool) *Event {
	if first {
		token := p.nextToken()
		p.marks = append(p.marks, token.StartMark)
	}
	if !p.checkToken(FLOW_SEQUENCE_END_TOKEN) {
		if !first {
			if !p.checkToken(FLOW_ENTRY_TOKEN) {
				token := p.peekToken()
				failParser("while parsing a flow sequence", &p.marks[len(p.marks)-1],
					fmt.Sprintf("expected ',' or ']', but got %s", token.Type),
					token.StartMark)
			}
			p.nextToken()
		}
		if p.checkToken(KEY_TOKEN) {
			// A '?:' pair inside a flow sequence is a single-pair mapping.
			token := p.peekToken()
			p.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE
			return &Event{
				Type:            MAPPING_START_EVENT,
				Implicit:        true,
				CollectionStyle: FLOW_COLLECTION_STYLE,
				StartMark:       token.StartMark,
				EndMark:         token.EndMark,
			}
		}
		if !p.checkToken(FLOW_SEQUENCE_END_TOKEN) {
			p.states = append(p.states, PARSE_FLOW_SEQUENCE_ENTRY_STATE)
			return p.parseNode(false, false)
		}
	}
	token := p.nextToken()
	p.state = p.popState()
	p.popMark()
	return &Event{
		Type:      SEQUENCE_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
}

func (p *Parser) parseFlowSequenceEntryMappingKey() *Event {
	token := p.nextToken() // the KEY token
	if !p.checkToken(VALUE_TOKEN, FLOW_ENTRY_TOKEN, FLOW_SEQUENCE_END_TOKEN) {
		p.states = append(p.states, PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE)
		return p.parseNode(false, false)
	}
	p.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE
	return p.processEmptyScalar(token.EndMark)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() *Event {
	if p.checkToken(VALUE_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(FLOW_ENTRY_TOKEN, FLOW_SEQUENCE_END_TOKEN) {
			p.states = append(p.states, PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE)
			return p.parseNode(false, false)
		}
		p.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	token := p.peekToken()
	p.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE
	return p.processEmptyScalar(token.StartMark)
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() *Event {
	token := p.peekToken()
	p.state = PARSE_FLOW_SEQUENCE_ENTRY_STATE
	return &Event{
		Type:      MAPPING_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.StartMark,
	}
}

func (p *Parser) parseFlowMappingKey(first bool) *Event {
	if first {
		token := p.nextToken()
		p.marks = append(p.marks, token.StartMark)
	}
	if !p.checkToken(FLOW_MAPPING_END_TOKEN) {
		if !first {
			if !p.checkToken(FLOW_ENTRY_TOKEN) {
				token := p.peekToken()
				failParser("while parsing a flow mapping", &p.marks[len(p.marks)-1],
					fmt.Sprintf("expected ',' or '}', but got %s", token.Type),
					token.StartMark)
			}
			p.nextToken()
		}
		if p.checkToken(KEY_TOKEN) {
			token := p.nextToken()
			if !p.checkToken(VALUE_TOKEN, FLOW_ENTRY_TOKEN, FLOW_MAPPING_END_TOKEN) {
				p.states = append(p.states, PARSE_FLOW_MAPPING_VALUE_STATE)
				return p.parseNode(false, false)
			}
			p.state = PARSE_FLOW_MAPPING_VALUE_STATE
			return p.processEmptyScalar(token.EndMark)
		}
		if !p.checkToken(FLOW_MAPPING_END_TOKEN) {
			p.states = append(p.states, PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE)
			return p.parseNode(false, false)
		}
	}
	token := p.nextToken()
	p.state = p.popState()
	p.popMark()
	return &Event{
		Type:      MAPPING_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
}

func (p *Parser) parseFlowMappingValue(empty bool) *Event {
	if empty {
		token := p.peekToken()
		p.state = PARSE_FLOW_MAPPING_KEY_STATE
		return p.processEmptyScalar(token.StartMark)
	}
	if p.checkToken(VALUE_TOKEN) {
		token := p.nextToken()
		if !p.checkToken(FLOW_ENTRY_TOKEN, FLOW_MAPPING_END_TOKEN) {
			p.states = append(p.states, PARSE_FLOW_MAPPING_KEY_STATE)
			return p.parseNode(false, false)
		}
		p.state = PARSE_FLOW_MAPPING_KEY_STATE
		return p.processEmptyScalar(token.EndMark)
	}
	token := p.peekToken()
	p.state = PARSE_FLOW_MAPPING_KEY_STATE
	return p.processEmptyScalar(token.StartMark)
}

// processEmptyScalar emits the empty plain scalar that stands in for an
// omitted node.
func (p *Parser) processEmptyScalar(mark Mark) *Event {
	return &Event{
		Type:      SCALAR_EVENT,
		Implicit:  true,
		Value:     "",
		Style:     PLAIN_SCALAR_STYLE,
		StartMark: mark,
		EndMark:   mark,
	}
}

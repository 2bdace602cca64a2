// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Shared helpers wiring partial pipelines for the stage tests.

package libyaml

import (
	"bytes"
	"strings"
)

// scanAll runs the scanner over input and collects every token.
func scanAll(input string, comments bool) (tokens []*Token, err error) {
	defer HandleErr(&err)
	s := NewScanner(NewReader("<test>", strings.NewReader(input)), comments)
	for {
		token := s.NextToken()
		if token == nil {
			return tokens, nil
		}
		tokens = append(tokens, token)
		if token.Type == STREAM_END_TOKEN {
			return tokens, nil
		}
	}
}

// tokenTypes projects a token stream onto its type sequence.
func tokenTypes(tokens []*Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, token := range tokens {
		types[i] = token.Type
	}
	return types
}

// parseAll runs scanner and parser over input and collects every event.
func parseAll(input string, comments bool) (events []*Event, err error) {
	defer HandleErr(&err)
	s := NewScanner(NewReader("<test>", strings.NewReader(input)), comments)
	p := NewParser(s)
	for {
		event := p.NextEvent()
		if event == nil {
			return events, nil
		}
		events = append(events, event)
		if event.Type == STREAM_END_EVENT {
			return events, nil
		}
	}
}

func eventTypes(events []*Event) []EventType {
	types := make([]EventType, len(events))
	for i, event := range events {
		types[i] = event.Type
	}
	return types
}

// composeOne composes the single document of input.
func composeOne(input string, opts *LoaderOptions) (*Node, error) {
	composer := NewLoadPipeline("<test>", strings.NewReader(input), opts)
	return composer.GetSingleNode()
}

// emitAll feeds the events to an emitter and returns the presented text.
func emitAll(events []*Event, opts *DumperOptions) (string, error) {
	var buf bytes.Buffer
	emitter := NewEmitter(&buf, opts)
	for _, event := range events {
		if err := emitter.Emit(event); err != nil {
			return buf.String(), err
		}
	}
	return buf.String(), nil
}

// Shorthand event constructors for emitter tests.

func evStreamStart() *Event { return &Event{Type: STREAM_START_EVENT, Encoding: UTF8_ENCODING} }
func evStreamEnd() *Event   { return &Event{Type: STREAM_END_EVENT} }

func evDocStart() *Event { return &Event{Type: DOCUMENT_START_EVENT, Implicit: true} }
func evDocEnd() *Event   { return &Event{Type: DOCUMENT_END_EVENT, Implicit: true} }

func evScalar(value string) *Event {
	return &Event{Type: SCALAR_EVENT, Value: value, Implicit: true, QuotedImplicit: true, Style: PLAIN_SCALAR_STYLE}
}

func evScalarStyled(value string, style ScalarStyle) *Event {
	return &Event{Type: SCALAR_EVENT, Value: value, QuotedImplicit: true, Style: style}
}

func evSeqStart(style CollectionStyle) *Event {
	return &Event{Type: SEQUENCE_START_EVENT, Implicit: true, CollectionStyle: style}
}
func evSeqEnd() *Event { return &Event{Type: SEQUENCE_END_EVENT} }

func evMapStart(style CollectionStyle) *Event {
	return &Event{Type: MAPPING_START_EVENT, Implicit: true, CollectionStyle: style}
}
func evMapEnd() *Event { return &Event{Type: MAPPING_END_EVENT} }

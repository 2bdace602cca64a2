// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The serializer stage: walks a node graph and produces events.
// The first pass assigns anchors to every node that carries one or is
// referenced more than once (by identity); the second pass emits events,
// producing an ALIAS for each repeat visit.

package libyaml

import "fmt"

// AnchorGenerator produces fresh anchor names for nodes that need one when
// dumping. Every name must be distinct from any previously issued.
type AnchorGenerator interface {
	NextAnchor(node *Node) string
}

// numberAnchorGenerator is the default generator: id001, id002, ...
type numberAnchorGenerator struct {
	last int
}

func (g *numberAnchorGenerator) NextAnchor(*Node) string {
	g.last++
	return fmt.Sprintf("id%03d", g.last)
}

// NewNumberAnchorGenerator returns the default anchor naming strategy.
func NewNumberAnchorGenerator() AnchorGenerator {
	return &numberAnchorGenerator{}
}

// Serializer produces events from node graphs.
type Serializer struct {
	emitter  *Emitter
	resolver *Resolver
	opts     *DumperOptions

	anchors    map[*Node]string // assigned anchor, "" while counting
	serialized map[*Node]bool
	generator  AnchorGenerator

	opened bool
	closed bool
}

// NewSerializer returns a Serializer feeding the emitter.
func NewSerializer(emitter *Emitter, resolver *Resolver, opts *DumperOptions) *Serializer {
	if opts == nil {
		opts = DefaultDumperOptions()
	}
	generator := opts.AnchorGenerator
	if generator == nil {
		generator = NewNumberAnchorGenerator()
	}
	return &Serializer{
		emitter:   emitter,
		resolver:  resolver,
		opts:      opts,
		generator: generator,
	}
}

// Open emits STREAM-START. It is called implicitly by the first Serialize.
func (s *Serializer) Open() (err error) {
	defer HandleErr(&err)
	s.open()
	return nil
}

func (s *Serializer) open() {
	if s.closed {
		Fail(SerializerError{Problem: "serializer is closed"})
	}
	if s.opened {
		return
	}
	s.opened = true
	s.emitter.Emit(&Event{Type: STREAM_START_EVENT, Encoding: UTF8_ENCODING})
}

// Serialize emits one document holding the given node graph.
func (s *Serializer) Serialize(node *Node) (err error) {
	defer HandleErr(&err)
	s.open()
	s.emitter.Emit(&Event{
		Type:          DOCUMENT_START_EVENT,
		Implicit:      !s.opts.ExplicitStart,
		Version:       s.opts.Version,
		TagDirectives: s.opts.TagDirectives,
	})
	s.anchors = make(map[*Node]string)
	s.serialized = make(map[*Node]bool)
	s.anchorNode(node)
	if s.opts.ExplicitRootTag != "" && node != nil {
		root := *node
		root.Tag = s.opts.ExplicitRootTag
		root.Resolved = false
		s.serializeNode(&root)
	} else {
		s.serializeNode(node)
	}
	s.emitter.Emit(&Event{
		Type:     DOCUMENT_END_EVENT,
		Implicit: !s.opts.ExplicitEnd,
	})
	s.anchors = nil
	s.serialized = nil
	return nil
}

// Close emits STREAM-END and clears the anchor state. Further Serialize
// calls fail.
func (s *Serializer) Close() (err error) {
	defer HandleErr(&err)
	if s.closed {
		return nil
	}
	s.open()
	s.emitter.Emit(&Event{Type: STREAM_END_EVENT})
	s.closed = true
	return nil
}

// anchorNode walks the graph, assigning an anchor to every node visited
// twice and to every node that carries a user anchor.
func (s *Serializer) anchorNode(node *Node) {
	if node == nil {
		return
	}
	if _, seen := s.anchors[node]; seen {
		if s.anchors[node] == "" {
			s.anchors[node] = s.generateAnchor(node)
		}
		return
	}
	if node.Anchor != "" {
		s.anchors[node] = node.Anchor
	} else {
		s.anchors[node] = ""
	}
	for _, child := range node.Content {
		s.anchorNode(child)
	}
}

func (s *Serializer) generateAnchor(node *Node) string {
	anchor := s.generator.NextAnchor(node)
	if anchor == "" {
		Fail(SerializerError{Problem: "anchor generator produced an empty anchor"})
	}
	return anchor
}

// serializeNode emits the events of one node, or an alias when the node
// was already emitted in this document.
func (s *Serializer) serializeNode(node *Node) {
	if node == nil || node.IsZero() {
		s.emitter.Emit(&Event{
			Type:     SCALAR_EVENT,
			Value:    "",
			Implicit: true,
			Style:    PLAIN_SCALAR_STYLE,
		})
		return
	}
	anchor := s.anchors[node]
	if s.serialized[node] {
		s.emitter.Emit(&Event{Type: ALIAS_EVENT, Anchor: anchor})
		return
	}
	s.serialized[node] = true
	s.emitComments(node.BlockComments)

	switch node.Kind {
	case ScalarNode:
		// The tag may be left implicit when resolving the presented form
		// would reproduce it.
		plainTag := s.resolver.Resolve(ScalarNode, node.Value, true)
		quotedTag := s.resolver.Resolve(ScalarNode, node.Value, false)
		implicit := node.Tag == plainTag
		quotedImplicit := node.Tag == quotedTag
		style := node.Style
		if style == ANY_SCALAR_STYLE {
			style = s.opts.DefaultScalarStyle
		}
		if style == ANY_SCALAR_STYLE && node.Tag == STR_TAG && !implicit {
			// A string that would resolve to something else must be
			// presented non-plain instead of carrying an explicit !!str.
			style = SINGLE_QUOTED_SCALAR_STYLE
			implicit = true
		}
		s.emitter.Emit(&Event{
			Type:           SCALAR_EVENT,
			Anchor:         anchor,
			Tag:            node.Tag,
			Value:          node.Value,
			Implicit:       implicit,
			QuotedImplicit: quotedImplicit,
			Style:          style,
		})

	case SequenceNode:
		implicit := node.Tag == s.resolver.Resolve(SequenceNode, "", true)
		s.emitter.Emit(&Event{
			Type:            SEQUENCE_START_EVENT,
			Anchor:          anchor,
			Tag:             node.Tag,
			Implicit:        implicit,
			CollectionStyle: s.collectionStyle(node),
		})
		for _, item := range node.Content {
			s.serializeNode(item)
		}
		s.emitter.Emit(&Event{Type: SEQUENCE_END_EVENT})

	case MappingNode:
		implicit := node.Tag == s.resolver.Resolve(MappingNode, "", true)
		s.emitter.Emit(&Event{
			Type:            MAPPING_START_EVENT,
			Anchor:          anchor,
			Tag:             node.Tag,
			Implicit:        implicit,
			CollectionStyle: s.collectionStyle(node),
		})
		for _, child := range node.Content {
			s.serializeNode(child)
		}
		s.emitter.Emit(&Event{Type: MAPPING_END_EVENT})

	default:
		Fail(SerializerError{Problem: fmt.Sprintf("cannot serialize node kind %d", node.Kind)})
	}
	s.emitComments(node.InLineComments)
	s.emitComments(node.EndComments)
}

func (s *Serializer) collectionStyle(node *Node) CollectionStyle {
	if node.Flow {
		return FLOW_COLLECTION_STYLE
	}
	if s.opts.DefaultFlowStyle != ANY_COLLECTION_STYLE {
		return s.opts.DefaultFlowStyle
	}
	return BLOCK_COLLECTION_STYLE
}

func (s *Serializer) emitComments(comments []Comment) {
	if !s.opts.ProcessComments {
		return
	}
	for _, comment := range comments {
		s.emitter.Emit(&Event{
			Type:        COMMENT_EVENT,
			CommentType: comment.Type,
			Value:       comment.Value,
		})
	}
}

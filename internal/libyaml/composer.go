// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The composer stage: folds the event stream into a node graph.
// Aliases resolve to the node the anchor named, preserving identity; a node
// is registered under its anchor before its children are composed, so
// self-references work. The alias and nesting limits bound adversarial
// documents.

package libyaml

import "fmt"

// Composer builds node graphs from parser events.
type Composer struct {
	parser   *Parser
	resolver *Resolver
	opts     *LoaderOptions

	anchors   map[string]*Node
	recursive map[*Node]bool

	aliasCount int
	depth      int

	pendingComments []Comment
	started         bool
}

// NewComposer returns a Composer over the parser.
func NewComposer(parser *Parser, resolver *Resolver, opts *LoaderOptions) *Composer {
	if opts == nil {
		opts = DefaultLoaderOptions()
	}
	return &Composer{
		parser:   parser,
		resolver: resolver,
		opts:     opts,
	}
}

// CheckNode reports whether another document remains in the stream.
func (c *Composer) CheckNode() (ok bool, err error) {
	defer HandleErr(&err)
	c.start()
	c.drainComments()
	return c.parser.CheckEvent(DOCUMENT_START_EVENT), nil
}

// GetNode composes the next document and returns its root node, or nil at
// the end of the stream.
func (c *Composer) GetNode() (node *Node, err error) {
	defer HandleErr(&err)
	c.start()
	c.drainComments()
	if !c.parser.CheckEvent(DOCUMENT_START_EVENT) {
		return nil, nil
	}
	return c.composeDocument(), nil
}

// GetSingleNode composes the single document of the stream. A second
// document is an error.
func (c *Composer) GetSingleNode() (node *Node, err error) {
	defer HandleErr(&err)
	c.start()
	c.drainComments()
	if c.parser.CheckEvent(DOCUMENT_START_EVENT) {
		node = c.composeDocument()
	}
	c.drainComments()
	if !c.parser.CheckEvent(STREAM_END_EVENT) {
		event := c.parser.PeekEvent()
		failComposer("expected a single document in the stream",
			markOf(node), "but found another document", event.StartMark)
	}
	return node, nil
}

func markOf(n *Node) *Mark {
	if n == nil {
		return nil
	}
	return &n.StartMark
}

// start consumes the STREAM-START event.
func (c *Composer) start() {
	if c.started {
		return
	}
	c.started = true
	event := c.parser.NextEvent()
	if event == nil || event.Type != STREAM_START_EVENT {
		failComposer("", nil, "expected <stream start>", Mark{})
	}
}

// drainComments buffers comment events so they can attach to the next node.
func (c *Composer) drainComments() {
	for c.parser.CheckEvent(COMMENT_EVENT) {
		event := c.parser.NextEvent()
		c.pendingComments = append(c.pendingComments, Comment{
			Type:      event.CommentType,
			Value:     event.Value,
			StartMark: event.StartMark,
			EndMark:   event.EndMark,
		})
	}
}

// takeComments hands the buffered comments to the node about to be
// composed.
func (c *Composer) takeComments() []Comment {
	comments := c.pendingComments
	c.pendingComments = nil
	return comments
}

func (c *Composer) composeDocument() *Node {
	// DOCUMENT-START
	c.parser.NextEvent()
	c.anchors = make(map[string]*Node)
	c.recursive = make(map[*Node]bool)
	c.aliasCount = 0
	node := c.composeNode()
	c.drainComments()
	// DOCUMENT-END
	if c.parser.CheckEvent(DOCUMENT_END_EVENT) {
		c.parser.NextEvent()
	}
	// Comments trailing the final node belong to the document.
	if node != nil && len(c.pendingComments) > 0 {
		node.EndComments = append(node.EndComments, c.takeComments()...)
	}
	c.anchors = nil
	c.recursive = nil
	return node
}

func (c *Composer) composeNode() *Node {
	c.drainComments()
	blockComments := c.takeComments()

	event := c.parser.PeekEvent()
	if event == nil {
		failComposer("", nil, "expected a node event but the stream ended", Mark{})
	}

	var node *Node
	switch event.Type {
	case ALIAS_EVENT:
		node = c.composeAlias()
	case SCALAR_EVENT:
		node = c.composeScalarNode()
	case SEQUENCE_START_EVENT:
		node = c.composeSequenceNode()
	case MAPPING_START_EVENT:
		node = c.composeMappingNode()
	default:
		failComposer("", nil,
			fmt.Sprintf("expected a node event, but found <%s>", event.Type),
			event.StartMark)
	}
	if len(blockComments) > 0 {
		node.BlockComments = append(blockComments, node.BlockComments...)
	}
	c.attachInLineComments(node)
	return node
}

// attachInLineComments pulls a comment on the node's final line onto the
// node.
func (c *Composer) attachInLineComments(node *Node) {
	if !c.opts.ProcessComments {
		return
	}
	for c.parser.CheckEvent(COMMENT_EVENT) {
		event := c.parser.PeekEvent()
		if event.CommentType != IN_LINE_COMMENT || event.StartMark.Line != node.EndMark.Line {
			return
		}
		c.parser.NextEvent()
		node.InLineComments = append(node.InLineComments, Comment{
			Type:      event.CommentType,
			Value:     event.Value,
			StartMark: event.StartMark,
			EndMark:   event.EndMark,
		})
	}
}

func (c *Composer) composeAlias() *Node {
	event := c.parser.NextEvent()
	node, ok := c.anchors[event.Anchor]
	if !ok {
		failComposer("", nil,
			fmt.Sprintf("found undefined alias %q", event.Anchor),
			event.StartMark)
	}
	if c.recursive[node] {
		// The anchor is still being composed: the alias closes a cycle.
		node.Recursive = true
	}
	if node.Kind != ScalarNode {
		c.aliasCount++
		if c.aliasCount > c.opts.MaxAliasesForCollections {
			failComposer("", nil,
				fmt.Sprintf("number of aliases for non-scalar nodes exceeds the specified max=%d",
					c.opts.MaxAliasesForCollections),
				event.StartMark)
		}
	}
	return node
}

func (c *Composer) registerAnchor(anchor string, node *Node) {
	if anchor == "" {
		return
	}
	c.anchors[anchor] = node
}

func (c *Composer) composeScalarNode() *Node {
	event := c.parser.NextEvent()
	node := &Node{
		Kind:      ScalarNode,
		Value:     event.Value,
		Style:     event.Style,
		Anchor:    event.Anchor,
		StartMark: event.StartMark,
		EndMark:   event.EndMark,
	}
	if event.Tag == "" || event.Tag == "!" {
		node.Tag = c.resolver.Resolve(ScalarNode, event.Value, event.Implicit)
		node.Resolved = true
	} else {
		node.Tag = event.Tag
	}
	c.registerAnchor(event.Anchor, node)
	return node
}

func (c *Composer) composeSequenceNode() *Node {
	event := c.parser.NextEvent()
	c.pushDepth(event.StartMark)
	node := &Node{
		Kind:      SequenceNode,
		Flow:      event.Flow(),
		Anchor:    event.Anchor,
		StartMark: event.StartMark,
	}
	if event.Tag == "" || event.Tag == "!" {
		node.Tag = c.resolver.Resolve(SequenceNode, "", event.Implicit)
		node.Resolved = true
	} else {
		node.Tag = event.Tag
	}
	c.registerAnchor(event.Anchor, node)
	c.recursive[node] = true
	for !c.checkEventSkippingComments(SEQUENCE_END_EVENT) {
		node.Content = append(node.Content, c.composeNode())
	}
	end := c.parser.NextEvent()
	node.EndMark = end.EndMark
	delete(c.recursive, node)
	c.popDepth()
	return node
}

func (c *Composer) composeMappingNode() *Node {
	event := c.parser.NextEvent()
	c.pushDepth(event.StartMark)
	node := &Node{
		Kind:      MappingNode,
		Flow:      event.Flow(),
		Anchor:    event.Anchor,
		StartMark: event.StartMark,
	}
	if event.Tag == "" || event.Tag == "!" {
		node.Tag = c.resolver.Resolve(MappingNode, "", event.Implicit)
		node.Resolved = true
	} else {
		node.Tag = event.Tag
	}
	c.registerAnchor(event.Anchor, node)
	c.recursive[node] = true
	for !c.checkEventSkippingComments(MAPPING_END_EVENT) {
		key := c.composeNode()
		if key.Recursive && !c.opts.AllowRecursiveKeys {
			failComposer("while composing a mapping", &node.StartMark,
				"found unconstructable recursive key", key.StartMark)
		}
		value := c.composeNode()
		node.Content = append(node.Content, key, value)
	}
	end := c.parser.NextEvent()
	node.EndMark = end.EndMark
	delete(c.recursive, node)
	c.popDepth()
	c.flattenMapping(node)
	c.checkDuplicateKeys(node)
	return node
}

// checkEventSkippingComments buffers comments and then checks the next
// grammar event.
func (c *Composer) checkEventSkippingComments(tt EventType) bool {
	c.drainComments()
	return c.parser.CheckEvent(tt)
}

func (c *Composer) pushDepth(mark Mark) {
	c.depth++
	if c.depth > c.opts.NestingDepthLimit {
		failComposer("", nil,
			fmt.Sprintf("nesting depth %d exceeds the specified limit=%d",
				c.depth, c.opts.NestingDepthLimit),
			mark)
	}
}

func (c *Composer) popDepth() {
	c.depth--
}

// flattenMapping folds '<<' merge keys into the mapping: entries pulled
// from the referenced mapping (or sequence of mappings) come first in
// source order, and the mapping's own keys take precedence.
func (c *Composer) flattenMapping(node *Node) {
	var merged []*Node // flattened key/value pairs from merge sources
	var own []*Node
	hasMerge := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != ScalarNode || key.Tag != MERGE_TAG {
			own = append(own, key, value)
			continue
		}
		hasMerge = true
		switch value.Kind {
		case MappingNode:
			merged = append(merged, value.Content...)
		case SequenceNode:
			for _, item := range value.Content {
				if item.Kind != MappingNode {
					failComposer("while composing a mapping", &node.StartMark,
						"expected a mapping for merging, but found "+item.Kind.String(),
						item.StartMark)
				}
				merged = append(merged, item.Content...)
			}
		default:
			failComposer("while composing a mapping", &node.StartMark,
				"expected a mapping or list of mappings for merging, but found "+value.Kind.String(),
				value.StartMark)
		}
	}
	if !hasMerge {
		return
	}
	content := make([]*Node, 0, len(merged)+len(own))
	for i := 0; i+1 < len(merged); i += 2 {
		key := merged[i]
		if findKey(own, key) >= 0 || findKey(content, key) >= 0 {
			continue
		}
		content = append(content, key, merged[i+1])
	}
	node.Content = append(content, own...)
	node.Merged = true
}

// checkDuplicateKeys enforces the duplicate key policy: reject under
// strict checking, otherwise the last occurrence wins.
func (c *Composer) checkDuplicateKeys(node *Node) {
	var content []*Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		at := findKey(content, key)
		if at < 0 {
			content = append(content, key, value)
			continue
		}
		if !c.opts.AllowDuplicateKeys {
			Fail(DuplicateKeyError{MarkedYAMLError{
				Context:     "while constructing a mapping",
				ContextMark: &node.StartMark,
				Problem:     fmt.Sprintf("found duplicate key %q", key.Value),
				ProblemMark: &key.StartMark,
			}})
		}
		content[at+1] = value
	}
	node.Content = content
}

// findKey returns the index within pairs of the key equal to key, or -1.
// Scalar keys compare by tag and value; other keys compare by identity.
func findKey(pairs []*Node, key *Node) int {
	for i := 0; i+1 < len(pairs); i += 2 {
		k := pairs[i]
		if k == key {
			return i
		}
		if k.Kind == ScalarNode && key.Kind == ScalarNode &&
			k.Tag == key.Tag && k.Value == key.Value {
			return i
		}
	}
	return -1
}

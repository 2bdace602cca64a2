// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Helpers for building node graphs programmatically.

package yaml

import "go.yaml.in/yaml11/internal/libyaml"

// Core tag URIs.
const (
	NullTag      = libyaml.NULL_TAG
	BoolTag      = libyaml.BOOL_TAG
	StrTag       = libyaml.STR_TAG
	IntTag       = libyaml.INT_TAG
	FloatTag     = libyaml.FLOAT_TAG
	TimestampTag = libyaml.TIMESTAMP_TAG
	BinaryTag    = libyaml.BINARY_TAG
	MergeTag     = libyaml.MERGE_TAG
	ValueTag     = libyaml.VALUE_TAG
	SeqTag       = libyaml.SEQ_TAG
	MapTag       = libyaml.MAP_TAG
	SetTag       = libyaml.SET_TAG
	OmapTag      = libyaml.OMAP_TAG
	PairsTag     = libyaml.PAIRS_TAG
)

// ShortTag returns the !!-form of a core tag URI.
func ShortTag(tag string) string { return libyaml.ShortTag(tag) }

// LongTag expands the !!-form of a core tag back to the full URI.
func LongTag(tag string) string { return libyaml.LongTag(tag) }

// NewScalarNode returns a resolved scalar node with the given tag.
func NewScalarNode(tag, value string) *Node {
	return &Node{Kind: ScalarNode, Tag: libyaml.LongTag(tag), Value: value, Resolved: true}
}

// NewStringNode returns a !!str scalar node.
func NewStringNode(value string) *Node {
	return NewScalarNode(StrTag, value)
}

// NewSequenceNode returns an empty !!seq node; append to Content to fill
// it.
func NewSequenceNode(items ...*Node) *Node {
	return &Node{Kind: SequenceNode, Tag: SeqTag, Resolved: true, Content: items}
}

// NewMappingNode returns a !!map node from alternating key and value
// nodes.
func NewMappingNode(pairs ...*Node) *Node {
	return &Node{Kind: MappingNode, Tag: MapTag, Resolved: true, Content: pairs}
}

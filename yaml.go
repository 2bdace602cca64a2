// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yaml is a YAML 1.1 processor: it transforms UTF-encoded byte
// streams into representation node trees and back.
//
// The load pipeline runs reader → scanner → parser → composer and yields
// *Node graphs; Construct turns a graph into plain Go values. The dump
// pipeline runs serializer → emitter; Represent builds a graph from plain
// Go values. Each pipeline instance is single-threaded; distinct instances
// are independent.
package yaml

import (
	"bytes"
	"io"

	"go.yaml.in/yaml11/internal/libyaml"
)

// Re-exported engine types. The engine package owns the data model; this
// package only wires pipelines together.
type (
	Node            = libyaml.Node
	Kind            = libyaml.Kind
	Mark            = libyaml.Mark
	Comment         = libyaml.Comment
	CommentType     = libyaml.CommentType
	ScalarStyle     = libyaml.ScalarStyle
	CollectionStyle = libyaml.CollectionStyle
	LineBreak       = libyaml.LineBreak
	AnchorGenerator = libyaml.AnchorGenerator

	NonPrintableStyle = libyaml.NonPrintableStyle
)

// Re-exported node kinds.
const (
	ScalarNode   = libyaml.ScalarNode
	SequenceNode = libyaml.SequenceNode
	MappingNode  = libyaml.MappingNode
)

// Re-exported scalar styles.
const (
	AnyStyle          = libyaml.ANY_SCALAR_STYLE
	PlainStyle        = libyaml.PLAIN_SCALAR_STYLE
	SingleQuotedStyle = libyaml.SINGLE_QUOTED_SCALAR_STYLE
	DoubleQuotedStyle = libyaml.DOUBLE_QUOTED_SCALAR_STYLE
	LiteralStyle      = libyaml.LITERAL_SCALAR_STYLE
	FoldedStyle       = libyaml.FOLDED_SCALAR_STYLE
)

// Re-exported collection styles.
const (
	AnyCollectionStyle = libyaml.ANY_COLLECTION_STYLE
	BlockStyle         = libyaml.BLOCK_COLLECTION_STYLE
	FlowStyle          = libyaml.FLOW_COLLECTION_STYLE
)

// Re-exported line breaks.
const (
	LineBreakLN   = libyaml.LN_BREAK
	LineBreakCR   = libyaml.CR_BREAK
	LineBreakCRLN = libyaml.CRLN_BREAK
)

// Re-exported non-printable policies.
const (
	NonPrintableBinary = libyaml.NON_PRINTABLE_STYLE_BINARY
	NonPrintableEscape = libyaml.NON_PRINTABLE_STYLE_ESCAPE
)

// Re-exported error types.
type (
	ReaderError       = libyaml.ReaderError
	ScannerError      = libyaml.ScannerError
	ParserError       = libyaml.ParserError
	ComposerError     = libyaml.ComposerError
	ResolverError     = libyaml.ResolverError
	DuplicateKeyError = libyaml.DuplicateKeyError
	EmitterError      = libyaml.EmitterError
	SerializerError   = libyaml.SerializerError
	RepresenterError  = libyaml.RepresenterError
	ConstructorError  = libyaml.ConstructorError
)

//-----------------------------------------------------------------------------
// Compose / Load API
//-----------------------------------------------------------------------------

// Compose parses the first document of in and returns its root node, or
// nil for an empty stream.
func Compose(in []byte, opts ...Option) (*Node, error) {
	cfg := applyOptions(opts)
	composer := libyaml.NewLoadPipeline("<byte string>", bytes.NewReader(in), cfg.loader)
	return composer.GetSingleNode()
}

// ComposeAll parses every document of in and returns their root nodes.
func ComposeAll(in []byte, opts ...Option) ([]*Node, error) {
	l, err := NewLoader(bytes.NewReader(in), opts...)
	if err != nil {
		return nil, err
	}
	var nodes []*Node
	for {
		node, err := l.LoadNode()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, node)
	}
}

// Load parses the first document of in and constructs it into plain Go
// values: map[string]any, []any, string, int, float64, bool, time.Time,
// []byte and nil.
func Load(in []byte, opts ...Option) (any, error) {
	node, err := Compose(in, opts...)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return Construct(node)
}

// LoadAll parses every document of in and constructs each one.
func LoadAll(in []byte, opts ...Option) ([]any, error) {
	nodes, err := ComposeAll(in, opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]any, 0, len(nodes))
	for _, node := range nodes {
		doc, err := Construct(node)
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// A Loader reads a stream of YAML documents from an io.Reader, one
// document at a time.
type Loader struct {
	composer    *libyaml.Composer
	constructor *Constructor
}

// NewLoader returns a Loader over r. The Loader buffers its own input and
// may read beyond the documents requested.
func NewLoader(r io.Reader, opts ...Option) (*Loader, error) {
	cfg := applyOptions(opts)
	return &Loader{
		composer:    libyaml.NewLoadPipeline("<reader>", r, cfg.loader),
		constructor: NewConstructor(),
	}, nil
}

// LoadNode composes the next document and returns its root node.
// It returns io.EOF when the stream is exhausted.
func (l *Loader) LoadNode() (*Node, error) {
	ok, err := l.composer.CheckNode()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	return l.composer.GetNode()
}

// Load composes and constructs the next document.
// It returns io.EOF when the stream is exhausted.
func (l *Loader) Load() (any, error) {
	node, err := l.LoadNode()
	if err != nil {
		return nil, err
	}
	return l.constructor.Construct(node)
}

//-----------------------------------------------------------------------------
// Dump API
//-----------------------------------------------------------------------------

// Dump represents the value as a node graph and serializes it as one YAML
// document.
func Dump(in any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	d, err := NewDumper(&buf, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Dump(in); err != nil {
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DumpAll serializes each value as its own document in one stream.
func DumpAll(in []any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	d, err := NewDumper(&buf, opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range in {
		if err := d.Dump(v); err != nil {
			return nil, err
		}
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DumpNode serializes an already-built node graph as one document.
func DumpNode(node *Node, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	d, err := NewDumper(&buf, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.DumpNode(node); err != nil {
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// A Dumper writes YAML documents to an output stream. Close flushes the
// stream; the Dumper cannot be reused afterwards.
type Dumper struct {
	serializer  *libyaml.Serializer
	representer *Representer
}

// NewDumper returns a Dumper writing to w.
func NewDumper(w io.Writer, opts ...Option) (*Dumper, error) {
	cfg := applyOptions(opts)
	return &Dumper{
		serializer:  libyaml.NewDumpPipeline(w, cfg.dumper),
		representer: NewRepresenter(cfg.dumper.NonPrintableStyle),
	}, nil
}

// Dump writes one document holding the representation of v.
func (d *Dumper) Dump(v any) error {
	node, err := d.representer.Represent(v)
	if err != nil {
		return err
	}
	return d.serializer.Serialize(node)
}

// DumpNode writes one document holding the given node graph.
func (d *Dumper) DumpNode(node *Node) error {
	return d.serializer.Serialize(node)
}

// Close terminates the stream and flushes the writer.
func (d *Dumper) Close() error {
	return d.serializer.Close()
}

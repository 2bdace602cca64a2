// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Configuration for the load and dump pipelines, and convenience
// constructors wiring complete pipelines together.

package libyaml

import "io"

type NonPrintableStyle int8

// How scalars containing non-printable characters are dumped.
const (
	// Emit a !!binary scalar with base64 content.
	NON_PRINTABLE_STYLE_BINARY NonPrintableStyle = iota

	// Emit a double-quoted !!str scalar with the characters escaped.
	NON_PRINTABLE_STYLE_ESCAPE
)

// LoaderOptions configures the load pipeline.
type LoaderOptions struct {
	// Accept duplicate mapping keys, the last occurrence winning; when
	// false a repeated key is a DuplicateKeyError.
	AllowDuplicateKeys bool

	// Allow aliases that make a node a key inside itself.
	AllowRecursiveKeys bool

	// The maximum number of aliases pointing at non-scalar nodes within
	// one document. Bounds the expansion of adversarial documents.
	MaxAliasesForCollections int

	// The maximum collection nesting depth.
	NestingDepthLimit int

	// Emit comment tokens/events and attach comments to nodes.
	ProcessComments bool
}

// DefaultLoaderOptions returns the default load configuration.
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		AllowDuplicateKeys:       true,
		AllowRecursiveKeys:       false,
		MaxAliasesForCollections: 50,
		NestingDepthLimit:        50,
		ProcessComments:          false,
	}
}

// DumperOptions configures the dump pipeline.
type DumperOptions struct {
	// Force explicit '---', explicit tags, double-quoted scalars and one
	// node per line.
	Canonical bool

	// When false, printable non-ASCII characters are escaped.
	AllowUnicode bool

	// Spaces per block level, 1-10.
	Indent int

	// Columns to indent the '-', '?' and ':' indicators.
	IndicatorIndent int

	// Add IndicatorIndent to the general indent.
	IndentWithIndicator bool

	// Preferred wrap column for plain and quoted scalars.
	Width int

	// Enable wrapping at Width.
	SplitLines bool

	// The output line break.
	LineBreak LineBreak

	// Always emit '---' / '...'.
	ExplicitStart bool
	ExplicitEnd   bool

	// Emit a %YAML directive.
	Version *VersionDirective

	// Emit %TAG directives.
	TagDirectives []TagDirective

	// The scalar style used when a node does not request one.
	DefaultScalarStyle ScalarStyle

	// The collection style used when a node does not request one.
	DefaultFlowStyle CollectionStyle

	// Write a line break after every flow entry.
	PrettyFlow bool

	// How scalars with non-printable characters are represented.
	NonPrintableStyle NonPrintableStyle

	// The longest scalar written as a simple key, 0-1024.
	MaxSimpleKeyLength int

	// Write comments attached to nodes.
	ProcessComments bool

	// The strategy producing fresh anchor names when dumping shared
	// nodes. Nil selects the default id001, id002, ... generator.
	AnchorGenerator AnchorGenerator

	// Override the tag of the root node of every document.
	ExplicitRootTag string
}

// DefaultDumperOptions returns the default dump configuration.
func DefaultDumperOptions() *DumperOptions {
	return &DumperOptions{
		AllowUnicode:       true,
		Indent:             2,
		Width:              80,
		SplitLines:         true,
		LineBreak:          LN_BREAK,
		DefaultScalarStyle: ANY_SCALAR_STYLE,
		DefaultFlowStyle:   ANY_COLLECTION_STYLE,
		MaxSimpleKeyLength: 128,
	}
}

// NewLoadPipeline wires reader, scanner, parser and composer over an input
// stream.
func NewLoadPipeline(name string, r io.Reader, opts *LoaderOptions) *Composer {
	if opts == nil {
		opts = DefaultLoaderOptions()
	}
	reader := NewReader(name, r)
	scanner := NewScanner(reader, opts.ProcessComments)
	parser := NewParser(scanner)
	return NewComposer(parser, NewResolver(), opts)
}

// NewDumpPipeline wires serializer and emitter over an output stream.
func NewDumpPipeline(w io.Writer, opts *DumperOptions) *Serializer {
	if opts == nil {
		opts = DefaultDumperOptions()
	}
	emitter := NewEmitter(w, opts)
	return NewSerializer(emitter, NewResolver(), opts)
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"go.yaml.in/yaml11/internal/libyaml"
)

// Option configures loading or dumping. Load options are ignored by the
// dump functions and vice versa.
type Option func(*config)

type config struct {
	loader *libyaml.LoaderOptions
	dumper *libyaml.DumperOptions
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		loader: libyaml.DefaultLoaderOptions(),
		dumper: libyaml.DefaultDumperOptions(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Options combines multiple options into one.
func Options(opts ...Option) Option {
	return func(cfg *config) {
		for _, opt := range opts {
			opt(cfg)
		}
	}
}

// Load options.

// WithAllowDuplicateKeys controls whether repeated mapping keys are
// accepted (the last occurrence wins) or rejected with a
// DuplicateKeyError. The default is to accept them.
func WithAllowDuplicateKeys(allow bool) Option {
	return func(cfg *config) { cfg.loader.AllowDuplicateKeys = allow }
}

// WithAllowRecursiveKeys permits aliases that make a node a key inside
// itself. Off by default.
func WithAllowRecursiveKeys(allow bool) Option {
	return func(cfg *config) { cfg.loader.AllowRecursiveKeys = allow }
}

// WithMaxAliasesForCollections caps the number of aliases pointing at
// non-scalar nodes in one document. The default is 50.
func WithMaxAliasesForCollections(max int) Option {
	return func(cfg *config) { cfg.loader.MaxAliasesForCollections = max }
}

// WithNestingDepthLimit caps collection nesting depth. The default is 50.
func WithNestingDepthLimit(limit int) Option {
	return func(cfg *config) { cfg.loader.NestingDepthLimit = limit }
}

// WithComments enables comment processing on both sides: loading attaches
// comments to nodes, dumping writes them back.
func WithComments(enable bool) Option {
	return func(cfg *config) {
		cfg.loader.ProcessComments = enable
		cfg.dumper.ProcessComments = enable
	}
}

// Dump options.

// WithCanonical forces explicit document markers, explicit tags and
// double-quoted scalars, one node per line.
func WithCanonical(enable bool) Option {
	return func(cfg *config) { cfg.dumper.Canonical = enable }
}

// WithUnicode controls whether printable non-ASCII characters are written
// as-is (true, the default) or escaped.
func WithUnicode(allow bool) Option {
	return func(cfg *config) { cfg.dumper.AllowUnicode = allow }
}

// WithIndent sets the spaces per block level, 1-10. The default is 2.
func WithIndent(spaces int) Option {
	return func(cfg *config) { cfg.dumper.Indent = spaces }
}

// WithIndicatorIndent sets the extra columns before the '-', '?' and ':'
// indicators.
func WithIndicatorIndent(spaces int) Option {
	return func(cfg *config) { cfg.dumper.IndicatorIndent = spaces }
}

// WithIndentWithIndicator adds the indicator indent to the general indent
// of sequence items.
func WithIndentWithIndicator(enable bool) Option {
	return func(cfg *config) { cfg.dumper.IndentWithIndicator = enable }
}

// WithWidth sets the preferred wrap column for scalars. The default is 80.
func WithWidth(width int) Option {
	return func(cfg *config) { cfg.dumper.Width = width }
}

// WithSplitLines toggles wrapping of long scalars at the preferred width.
// On by default.
func WithSplitLines(enable bool) Option {
	return func(cfg *config) { cfg.dumper.SplitLines = enable }
}

// WithLineBreak selects the output line break.
func WithLineBreak(lb LineBreak) Option {
	return func(cfg *config) { cfg.dumper.LineBreak = lb }
}

// WithExplicitStart always writes the '---' document start marker.
func WithExplicitStart(enable bool) Option {
	return func(cfg *config) { cfg.dumper.ExplicitStart = enable }
}

// WithExplicitEnd always writes the '...' document end marker.
func WithExplicitEnd(enable bool) Option {
	return func(cfg *config) { cfg.dumper.ExplicitEnd = enable }
}

// WithVersion emits a %YAML directive with the given numbers.
func WithVersion(major, minor int) Option {
	return func(cfg *config) {
		cfg.dumper.Version = &libyaml.VersionDirective{Major: major, Minor: minor}
	}
}

// WithTagDirective emits a %TAG directive and uses the handle to shorten
// matching tags.
func WithTagDirective(handle, prefix string) Option {
	return func(cfg *config) {
		cfg.dumper.TagDirectives = append(cfg.dumper.TagDirectives,
			libyaml.TagDirective{Handle: handle, Prefix: prefix})
	}
}

// WithDefaultScalarStyle sets the style of scalars that do not request one.
func WithDefaultScalarStyle(style ScalarStyle) Option {
	return func(cfg *config) { cfg.dumper.DefaultScalarStyle = style }
}

// WithDefaultFlowStyle sets the presentation of collections that do not
// request one.
func WithDefaultFlowStyle(style CollectionStyle) Option {
	return func(cfg *config) { cfg.dumper.DefaultFlowStyle = style }
}

// WithPrettyFlow writes a line break after every flow collection entry.
func WithPrettyFlow(enable bool) Option {
	return func(cfg *config) { cfg.dumper.PrettyFlow = enable }
}

// WithNonPrintableStyle selects how strings containing non-printable
// characters are dumped: as !!binary base64 (the default) or escaped
// inside a double-quoted !!str.
func WithNonPrintableStyle(style NonPrintableStyle) Option {
	return func(cfg *config) { cfg.dumper.NonPrintableStyle = style }
}

// WithMaxSimpleKeyLength bounds the scalars written as simple keys,
// 0-1024. Longer keys use the explicit '?' form. The default is 128.
func WithMaxSimpleKeyLength(max int) Option {
	return func(cfg *config) { cfg.dumper.MaxSimpleKeyLength = max }
}

// WithAnchorGenerator installs the strategy that names anchors for shared
// nodes when dumping. The default produces id001, id002, ...
func WithAnchorGenerator(g AnchorGenerator) Option {
	return func(cfg *config) { cfg.dumper.AnchorGenerator = g }
}

// WithExplicitRootTag overrides the tag of the root node of every dumped
// document.
func WithExplicitRootTag(tag string) Option {
	return func(cfg *config) { cfg.dumper.ExplicitRootTag = tag }
}

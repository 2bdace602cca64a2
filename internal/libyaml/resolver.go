// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The resolver stage: assigns implicit tags to untagged scalars.
// Resolution tries an ordered list of (tag, regexp) rules, dispatched by
// the first character of the value so only a handful of patterns run per
// scalar. Sequences and mappings resolve to !!seq and !!map.

package libyaml

import "regexp"

// An implicitRule maps scalar values matching the pattern to a tag.
type implicitRule struct {
	tag   string
	match *regexp.Regexp
}

// emptyFirst is the dispatch key for rules that apply to the empty scalar.
const emptyFirst = rune(0)

// Resolver assigns implicit tags by pattern matching.
type Resolver struct {
	rules    map[rune][]implicitRule
	catchAll []implicitRule // rules consulted for every value
}

// NewResolver returns a Resolver with the default YAML 1.1 rule set.
func NewResolver() *Resolver {
	r := &Resolver{rules: make(map[rune][]implicitRule)}

	r.AddImplicitResolver(BOOL_TAG, regexp.MustCompile(
		`^(?:yes|Yes|YES|no|No|NO|true|True|TRUE|false|False|FALSE|on|On|ON|off|Off|OFF)$`),
		"yYnNtTfFoO")
	r.AddImplicitResolver(INT_TAG, regexp.MustCompile(
		`^(?:[-+]?0b[0-1_]+|[-+]?0[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+|[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+)$`),
		"-+0123456789")
	r.AddImplicitResolver(FLOAT_TAG, regexp.MustCompile(
		`^(?:[-+]?(?:[0-9][0-9_]*)\.[0-9_]*(?:[eE][-+]?[0-9]+)?|[-+]?(?:[0-9][0-9_]*)?\.[0-9_]+(?:[eE][-+]?[0-9]+)?|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN))$`),
		"-+0123456789.")
	r.AddImplicitResolver(MERGE_TAG, regexp.MustCompile(`^(?:<<)$`), "<")
	r.AddImplicitResolver(NULL_TAG, regexp.MustCompile(`^(?:~|null|Null|NULL|)$`), "~nN\x00")
	r.AddImplicitResolver(TIMESTAMP_TAG, regexp.MustCompile(
		`^(?:[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]|[0-9][0-9][0-9][0-9]-[0-9][0-9]?-[0-9][0-9]?(?:[Tt]|[ \t]+)[0-9][0-9]?:[0-9][0-9]:[0-9][0-9](?:\.[0-9]*)?(?:[ \t]*(?:Z|[-+][0-9][0-9]?(?::[0-9][0-9])?))?)$`),
		"0123456789")
	r.AddImplicitResolver(VALUE_TAG, regexp.MustCompile(`^(?:=)$`), "=")
	// The special '!', '&' and '*' characters keep their YAML meaning.
	r.AddImplicitResolver(YAML_TAG, regexp.MustCompile(`^(?:!|&|\*)$`), "!&*")

	return r
}

// AddImplicitResolver appends a rule. The rule is consulted only for
// values whose first character appears in first; an empty first string
// registers the rule for every value, and the NUL character registers it
// for the empty value.
func (r *Resolver) AddImplicitResolver(tag string, match *regexp.Regexp, first string) {
	rule := implicitRule{tag: tag, match: match}
	if first == "" {
		r.catchAll = append(r.catchAll, rule)
		return
	}
	for _, c := range first {
		r.rules[c] = append(r.rules[c], rule)
	}
}

// Resolve returns the tag of an untagged node. Scalars with implicit unset
// (a quoted or otherwise explicitly styled scalar) resolve to !!str without
// consulting the rules.
func (r *Resolver) Resolve(kind Kind, value string, implicit bool) string {
	switch kind {
	case SequenceNode:
		return DEFAULT_SEQUENCE_TAG
	case MappingNode:
		return DEFAULT_MAPPING_TAG
	}
	if !implicit {
		return DEFAULT_SCALAR_TAG
	}
	first := emptyFirst
	for _, c := range value {
		first = c
		break
	}
	for _, rule := range r.rules[first] {
		if rule.match.MatchString(value) {
			return rule.tag
		}
	}
	for _, rule := range r.catchAll {
		if rule.match.MatchString(value) {
			return rule.tag
		}
	}
	return DEFAULT_SCALAR_TAG
}

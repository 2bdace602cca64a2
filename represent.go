// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Host-value representation: turns plain Go values into node graphs ready
// for serialization. The inverse of construction; dispatch is an explicit
// type switch, not reflection. Shared pointers are not detected here —
// sharing is expressed by using the same *Node twice.

package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml11/internal/libyaml"
)

// The wire format wraps base64 content at this width.
const base64LineWidth = 76

// Representer builds node graphs from host values.
type Representer struct {
	nonPrintable NonPrintableStyle
}

// NewRepresenter returns a Representer with the given non-printable
// character policy.
func NewRepresenter(nonPrintable NonPrintableStyle) *Representer {
	return &Representer{nonPrintable: nonPrintable}
}

// Represent builds the node graph of a host value.
func (r *Representer) Represent(v any) (*Node, error) {
	switch v := v.(type) {
	case nil:
		return scalarNode(libyaml.NULL_TAG, "null"), nil
	case *Node:
		return v, nil
	case bool:
		return scalarNode(libyaml.BOOL_TAG, strconv.FormatBool(v)), nil
	case string:
		return r.representString(v), nil
	case []byte:
		return representBinary(v), nil
	case int:
		return scalarNode(libyaml.INT_TAG, strconv.FormatInt(int64(v), 10)), nil
	case int8:
		return scalarNode(libyaml.INT_TAG, strconv.FormatInt(int64(v), 10)), nil
	case int16:
		return scalarNode(libyaml.INT_TAG, strconv.FormatInt(int64(v), 10)), nil
	case int32:
		return scalarNode(libyaml.INT_TAG, strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return scalarNode(libyaml.INT_TAG, strconv.FormatInt(v, 10)), nil
	case uint:
		return scalarNode(libyaml.INT_TAG, strconv.FormatUint(uint64(v), 10)), nil
	case uint8:
		return scalarNode(libyaml.INT_TAG, strconv.FormatUint(uint64(v), 10)), nil
	case uint16:
		return scalarNode(libyaml.INT_TAG, strconv.FormatUint(uint64(v), 10)), nil
	case uint32:
		return scalarNode(libyaml.INT_TAG, strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return scalarNode(libyaml.INT_TAG, strconv.FormatUint(v, 10)), nil
	case float32:
		return representFloat(float64(v)), nil
	case float64:
		return representFloat(v), nil
	case time.Time:
		return representTimestamp(v), nil
	case time.Duration:
		return r.representString(v.String()), nil
	case []any:
		return r.representSequence(v)
	case map[string]any:
		return r.representStringMap(v)
	case map[any]any:
		return r.representAnyMap(v)
	case MapSlice:
		return r.representMapSlice(v)
	case map[any]bool:
		return r.representSet(v)
	case error:
		return r.representString(v.Error()), nil
	}
	return nil, RepresenterError{Problem: fmt.Sprintf("%T", v)}
}

func scalarNode(tag, value string) *Node {
	return &Node{Kind: ScalarNode, Tag: tag, Value: value, Resolved: true}
}

// representString handles the non-printable policy: strings that cannot be
// presented directly become !!binary, or are escaped into a double-quoted
// !!str.
func (r *Representer) representString(v string) *Node {
	if hasNonPrintable(v) {
		if r.nonPrintable == NonPrintableBinary {
			return representBinary([]byte(v))
		}
		node := scalarNode(libyaml.STR_TAG, v)
		node.Style = DoubleQuotedStyle
		return node
	}
	node := scalarNode(libyaml.STR_TAG, v)
	if strings.Contains(v, "\n") {
		node.Style = LiteralStyle
	}
	return node
}

func hasNonPrintable(v string) bool {
	for _, c := range v {
		if !libyaml.IsPrintable(c) {
			return true
		}
	}
	return false
}

func representBinary(data []byte) *Node {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(encoded) > base64LineWidth {
		b.WriteString(encoded[:base64LineWidth])
		b.WriteString("\n")
		encoded = encoded[base64LineWidth:]
	}
	b.WriteString(encoded)
	node := scalarNode(libyaml.BINARY_TAG, b.String())
	node.Style = LiteralStyle
	node.Resolved = false
	return node
}

func representFloat(v float64) *Node {
	var s string
	switch {
	case math.IsNaN(v):
		s = ".nan"
	case math.IsInf(v, 1):
		s = ".inf"
	case math.IsInf(v, -1):
		s = "-.inf"
	default:
		s = strconv.FormatFloat(v, 'g', -1, 64)
		// Keep the presentation recognizable as a float.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		} else if strings.Contains(s, "e") && !strings.Contains(s, ".") {
			s = strings.Replace(s, "e", ".0e", 1)
		}
	}
	return scalarNode(libyaml.FLOAT_TAG, s)
}

// representTimestamp keeps the offset carried by the value; it never
// converts between time zones.
func representTimestamp(t time.Time) *Node {
	layout := "2006-01-02T15:04:05Z07:00"
	if t.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.999999999Z07:00"
	}
	return scalarNode(libyaml.TIMESTAMP_TAG, t.Format(layout))
}

func (r *Representer) representSequence(items []any) (*Node, error) {
	node := &Node{Kind: SequenceNode, Tag: libyaml.SEQ_TAG, Resolved: true}
	for _, item := range items {
		child, err := r.Represent(item)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, child)
	}
	return node, nil
}

func (r *Representer) representStringMap(m map[string]any) (*Node, error) {
	node := &Node{Kind: MappingNode, Tag: libyaml.MAP_TAG, Resolved: true}
	for _, key := range sortedKeys(m) {
		value, err := r.Represent(m[key])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, r.representString(key), value)
	}
	return node, nil
}

func (r *Representer) representAnyMap(m map[any]any) (*Node, error) {
	node := &Node{Kind: MappingNode, Tag: libyaml.MAP_TAG, Resolved: true}
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortAnyKeys(keys)
	for _, k := range keys {
		key, err := r.Represent(k)
		if err != nil {
			return nil, err
		}
		value, err := r.Represent(m[k])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func (r *Representer) representMapSlice(pairs MapSlice) (*Node, error) {
	node := &Node{Kind: MappingNode, Tag: libyaml.MAP_TAG, Resolved: true}
	for _, pair := range pairs {
		key, err := r.Represent(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := r.Represent(pair.Value)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func (r *Representer) representSet(set map[any]bool) (*Node, error) {
	node := &Node{Kind: MappingNode, Tag: libyaml.SET_TAG}
	keys := make([]any, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortAnyKeys(keys)
	for _, k := range keys {
		key, err := r.Represent(k)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, scalarNode(libyaml.NULL_TAG, "null"))
	}
	return node, nil
}

// sortedKeys returns the keys of a string map in sorted order, keeping
// dumped mappings deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortAnyKeys orders mixed keys: bools, then numbers, then strings, then
// everything else by formatted form.
func sortAnyKeys(keys []any) {
	rank := func(v any) int {
		switch v.(type) {
		case bool:
			return 0
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return 1
		case string:
			return 2
		}
		return 3
	}
	numeric := func(v any) (float64, bool) {
		switch n := v.(type) {
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case uint64:
			return float64(n), true
		case float64:
			return n, true
		case float32:
			return float64(n), true
		}
		return 0, false
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		if a, ok := numeric(keys[i]); ok {
			if b, ok := numeric(keys[j]); ok {
				return a < b
			}
		}
		if a, ok := keys[i].(string); ok {
			if b, ok := keys[j].(string); ok {
				return a < b
			}
		}
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Host-value construction: turns composed node graphs into plain Go
// values. Construction dispatches on the node's tag through an explicit
// registry; there is no reflection and no struct binding. Callers with
// richer host types register their own ConstructFunc per tag.

package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml11/internal/libyaml"
)

// MapItem is one key/value entry of a MapSlice.
type MapItem struct {
	Key, Value any
}

// MapSlice is an ordered mapping, used to construct !!omap and !!pairs.
type MapSlice []MapItem

// ConstructFunc builds a host value from a node with a matching tag.
type ConstructFunc func(c *Constructor, node *Node) (any, error)

// Constructor turns node graphs into host values through a per-tag
// registry.
type Constructor struct {
	byTag map[string]ConstructFunc

	// Constructed collections by node, so aliased nodes construct once
	// and cycles terminate.
	constructed map[*Node]any
}

// NewConstructor returns a Constructor with the core schema registered.
func NewConstructor() *Constructor {
	c := &Constructor{byTag: make(map[string]ConstructFunc)}
	c.Register(libyaml.NULL_TAG, constructNull)
	c.Register(libyaml.BOOL_TAG, constructBool)
	c.Register(libyaml.INT_TAG, constructInt)
	c.Register(libyaml.FLOAT_TAG, constructFloat)
	c.Register(libyaml.STR_TAG, constructStr)
	c.Register(libyaml.VALUE_TAG, constructStr)
	c.Register(libyaml.YAML_TAG, constructStr)
	c.Register(libyaml.BINARY_TAG, constructBinary)
	c.Register(libyaml.TIMESTAMP_TAG, constructTimestamp)
	c.Register(libyaml.SEQ_TAG, constructSeq)
	c.Register(libyaml.MAP_TAG, constructMap)
	c.Register(libyaml.SET_TAG, constructSet)
	c.Register(libyaml.OMAP_TAG, constructOmap)
	c.Register(libyaml.PAIRS_TAG, constructOmap)
	return c
}

// Register installs fn for the given tag, replacing any previous entry.
func (c *Constructor) Register(tag string, fn ConstructFunc) {
	c.byTag[libyaml.LongTag(tag)] = fn
}

// Construct builds the host value of a node graph.
func (c *Constructor) Construct(node *Node) (any, error) {
	c.constructed = make(map[*Node]any)
	defer func() { c.constructed = nil }()
	return c.construct(node)
}

func (c *Constructor) construct(node *Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	if v, ok := c.constructed[node]; ok {
		return v, nil
	}
	if fn, ok := c.byTag[node.Tag]; ok {
		return fn(c, node)
	}
	// Unknown tags construct by kind, keeping the value opaque.
	switch node.Kind {
	case SequenceNode:
		return constructSeq(c, node)
	case MappingNode:
		return constructMap(c, node)
	default:
		return node.Value, nil
	}
}

// Construct builds plain Go values from a node graph using the default
// constructor registry.
func Construct(node *Node) (any, error) {
	return NewConstructor().Construct(node)
}

func constructError(node *Node, problem string) error {
	mark := node.StartMark
	return ConstructorError{MarkedYAMLError: libyaml.MarkedYAMLError{
		Problem:     problem,
		ProblemMark: &mark,
	}}
}

func constructNull(*Constructor, *Node) (any, error) {
	return nil, nil
}

func constructStr(_ *Constructor, node *Node) (any, error) {
	return node.Value, nil
}

var boolValues = map[string]bool{
	"yes": true, "true": true, "on": true,
	"no": false, "false": false, "off": false,
}

func constructBool(_ *Constructor, node *Node) (any, error) {
	v, ok := boolValues[strings.ToLower(node.Value)]
	if !ok {
		return nil, constructError(node, fmt.Sprintf("cannot construct bool from %q", node.Value))
	}
	return v, nil
}

// constructInt parses decimal, binary (0b), octal (0), hexadecimal (0x)
// and sexagesimal (base 60, ':'-separated) integers, with '_' separators.
func constructInt(_ *Constructor, node *Node) (any, error) {
	value := strings.ReplaceAll(node.Value, "_", "")
	sign := int64(1)
	switch {
	case strings.HasPrefix(value, "-"):
		sign = -1
		value = value[1:]
	case strings.HasPrefix(value, "+"):
		value = value[1:]
	}
	var v int64
	var err error
	switch {
	case value == "0":
		v = 0
	case strings.HasPrefix(value, "0b"):
		v, err = strconv.ParseInt(value[2:], 2, 64)
	case strings.HasPrefix(value, "0x"):
		v, err = strconv.ParseInt(value[2:], 16, 64)
	case strings.Contains(value, ":"):
		v, err = parseSexagesimalInt(value)
	case strings.HasPrefix(value, "0"):
		v, err = strconv.ParseInt(value[1:], 8, 64)
	default:
		v, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			// Out of the int64 range: fall back to uint64 for positive
			// values.
			if u, uerr := strconv.ParseUint(value, 10, 64); uerr == nil && sign > 0 {
				return u, nil
			}
		}
	}
	if err != nil {
		return nil, constructError(node, fmt.Sprintf("cannot construct int from %q", node.Value))
	}
	return sign * v, nil
}

func parseSexagesimalInt(value string) (int64, error) {
	var total int64
	for _, part := range strings.Split(value, ":") {
		digit, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, err
		}
		total = total*60 + digit
	}
	return total, nil
}

// constructFloat parses IEEE floats, .inf/.nan and sexagesimal floats.
func constructFloat(_ *Constructor, node *Node) (any, error) {
	value := strings.ReplaceAll(node.Value, "_", "")
	sign := 1.0
	switch {
	case strings.HasPrefix(value, "-"):
		sign = -1
		value = value[1:]
	case strings.HasPrefix(value, "+"):
		value = value[1:]
	}
	switch strings.ToLower(value) {
	case ".inf":
		return sign * math.Inf(1), nil
	case ".nan":
		return math.NaN(), nil
	}
	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		var total float64
		for _, part := range parts {
			digit, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, constructError(node, fmt.Sprintf("cannot construct float from %q", node.Value))
			}
			total = total*60 + digit
		}
		return sign * total, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, constructError(node, fmt.Sprintf("cannot construct float from %q", node.Value))
	}
	return sign * v, nil
}

func constructBinary(_ *Constructor, node *Node) (any, error) {
	// The content may be wrapped; the codec ignores the line breaks.
	clean := strings.Map(func(c rune) rune {
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			return -1
		}
		return c
	}, node.Value)
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, constructError(node, "cannot construct binary: "+err.Error())
	}
	return data, nil
}

// The ISO-8601 subset accepted by the timestamp tag. Explicitly tagged
// values are not checked by the resolver's pattern; a value that matches
// none of the layouts is a construction error.
func constructTimestamp(_ *Constructor, node *Node) (any, error) {
	value := node.Value
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02t15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999 -07:00",
		"2006-01-02 15:04:05.999999999 -07",
		"2006-01-02 15:04:05.999999999",
		"2006-1-2T15:04:05.999999999Z07:00",
		"2006-1-2 15:04:05.999999999",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return nil, constructError(node, fmt.Sprintf("cannot construct timestamp from %q", node.Value))
}

func constructSeq(c *Constructor, node *Node) (any, error) {
	// The slice is registered before its items are constructed so an
	// alias inside the sequence can refer back to it.
	items := make([]any, len(node.Content))
	c.constructed[node] = items
	for i, child := range node.Content {
		v, err := c.construct(child)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func constructMap(c *Constructor, node *Node) (any, error) {
	// String-keyed mappings construct as map[string]any; anything else
	// falls back to map[any]any.
	allStrings := true
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != ScalarNode || k.Tag != libyaml.STR_TAG {
			allStrings = false
			break
		}
	}
	if allStrings {
		m := make(map[string]any, len(node.Content)/2)
		c.constructed[node] = m
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := c.construct(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = v
		}
		return m, nil
	}
	m := make(map[any]any, len(node.Content)/2)
	c.constructed[node] = m
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, err := c.construct(node.Content[i])
		if err != nil {
			return nil, err
		}
		v, err := c.construct(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		if !hashable(k) {
			return nil, constructError(node.Content[i], "found unhashable key")
		}
		m[k] = v
	}
	return m, nil
}

func constructSet(c *Constructor, node *Node) (any, error) {
	set := make(map[any]bool, len(node.Content)/2)
	c.constructed[node] = set
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, err := c.construct(node.Content[i])
		if err != nil {
			return nil, err
		}
		if !hashable(k) {
			return nil, constructError(node.Content[i], "found unhashable key")
		}
		set[k] = true
	}
	return set, nil
}

func constructOmap(c *Constructor, node *Node) (any, error) {
	var pairs MapSlice
	switch node.Kind {
	case MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, err := c.construct(node.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := c.construct(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, MapItem{Key: k, Value: v})
		}
	case SequenceNode:
		// The canonical form: a sequence of single-pair mappings.
		for _, item := range node.Content {
			if item.Kind != MappingNode || len(item.Content) != 2 {
				return nil, constructError(item, "expected a single-pair mapping")
			}
			k, err := c.construct(item.Content[0])
			if err != nil {
				return nil, err
			}
			v, err := c.construct(item.Content[1])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, MapItem{Key: k, Value: v})
		}
	default:
		return nil, constructError(node, "cannot construct ordered pairs from a scalar")
	}
	return pairs, nil
}

// hashable reports whether v may be used as a Go map key.
func hashable(v any) bool {
	switch v.(type) {
	case map[string]any, map[any]any, []any, []byte, MapSlice, map[any]bool:
		return false
	}
	return true
}

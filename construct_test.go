// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yaml_test

import (
	"strings"
	"time"

	. "gopkg.in/check.v1"

	yaml "go.yaml.in/yaml11"
)

type CS struct{}

var _ = Suite(&CS{})

func (s *CS) TestConstructSet(c *C) {
	got, err := yaml.Load([]byte("!!set\n? a\n? b\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, map[any]bool{"a": true, "b": true})
}

func (s *CS) TestConstructOmap(c *C) {
	got, err := yaml.Load([]byte("!!omap\n- one: 1\n- two: 2\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, yaml.MapSlice{
		{Key: "one", Value: int64(1)},
		{Key: "two", Value: int64(2)},
	})
}

func (s *CS) TestConstructPairs(c *C) {
	got, err := yaml.Load([]byte("!!pairs\n- a: 1\n- a: 2\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, yaml.MapSlice{
		{Key: "a", Value: int64(1)},
		{Key: "a", Value: int64(2)},
	})
}

func (s *CS) TestConstructUnknownTagKeepsValue(c *C) {
	got, err := yaml.Load([]byte("!custom thing\n"))
	c.Assert(err, IsNil)
	c.Assert(got, Equals, "thing")
}

func (s *CS) TestConstructCustomTag(c *C) {
	constructor := yaml.NewConstructor()
	constructor.Register("!upper", func(_ *yaml.Constructor, node *yaml.Node) (any, error) {
		return strings.ToUpper(node.Value), nil
	})
	node, err := yaml.Compose([]byte("!upper hello\n"))
	c.Assert(err, IsNil)
	got, err := constructor.Construct(node)
	c.Assert(err, IsNil)
	c.Assert(got, Equals, "HELLO")
}

func (s *CS) TestConstructNonStringKeys(c *C) {
	got, err := yaml.Load([]byte("1: one\ntrue: yes\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, map[any]any{int64(1): "one", true: true})
}

func (s *CS) TestConstructBadValues(c *C) {
	for _, input := range []string{
		"!!int notanint\n",
		"!!bool maybe\n",
		"!!binary '!!!'\n",
		"!!timestamp nottime\n",
	} {
		_, err := yaml.Load([]byte(input))
		c.Assert(err, NotNil, Commentf("input %q", input))
	}
}

func (s *CS) TestBase64RoundTrip(c *C) {
	for _, data := range [][]byte{
		{},
		{0x00},
		{0x00, 0xFF, 0x10, 0x20},
		[]byte(strings.Repeat("binary blob ", 30)),
	} {
		out, err := yaml.Dump(data)
		c.Assert(err, IsNil)
		got, err := yaml.Load(out)
		c.Assert(err, IsNil)
		if len(data) == 0 {
			// An empty byte slice round-trips through an empty binary
			// scalar.
			c.Assert(got, DeepEquals, []byte{})
		} else {
			c.Assert(got, DeepEquals, data)
		}
	}
}

func (s *CS) TestRepresentTimestampKeepsOffset(c *C) {
	loc := time.FixedZone("", -5*3600)
	tm := time.Date(2001, 12, 14, 21, 59, 43, 0, loc)
	out, err := yaml.Dump(tm)
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "2001-12-14T21:59:43-05:00\n")

	got, err := yaml.Load(out)
	c.Assert(err, IsNil)
	c.Assert(got.(time.Time).Equal(tm), Equals, true)
}

func (s *CS) TestRepresentUnsupportedType(c *C) {
	type opaque struct{}
	_, err := yaml.Dump(opaque{})
	c.Assert(err, NotNil)
	_, ok := err.(yaml.RepresenterError)
	c.Assert(ok, Equals, true)
}

func (s *CS) TestRepresentMapSliceKeepsOrder(c *C) {
	out, err := yaml.Dump(yaml.MapSlice{
		{Key: "z", Value: 1},
		{Key: "a", Value: 2},
	})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "z: 1\na: 2\n")
}

func (s *CS) TestRepresentSet(c *C) {
	out, err := yaml.Dump(map[any]bool{"b": true, "a": true})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "!!set\na: null\nb: null\n")
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yaml_test

import (
	"io"
	"math"
	"strings"
	"testing"
	"time"

	. "gopkg.in/check.v1"

	yaml "go.yaml.in/yaml11"
)

func Test(t *testing.T) { TestingT(t) }

type S struct{}

var _ = Suite(&S{})

func (s *S) TestLoadScalarTypes(c *C) {
	tests := []struct {
		input string
		want  any
	}{
		{"hello\n", "hello"},
		{"'quoted'\n", "quoted"},
		{"123\n", int64(123)},
		{"-7\n", int64(-7)},
		{"0x1F\n", int64(31)},
		{"0b101\n", int64(5)},
		{"010\n", int64(8)},
		{"190:20:30\n", int64(685230)},
		{"1_000\n", int64(1000)},
		{"3.5\n", 3.5},
		{"1.0e+3\n", 1000.0},
		{"true\n", true},
		{"off\n", false},
		{"YES\n", true},
		{"~\n", nil},
		{"null\n", nil},
		{"\n", nil},
		{"'123'\n", "123"},
	}
	for _, tc := range tests {
		got, err := yaml.Load([]byte(tc.input))
		c.Assert(err, IsNil, Commentf("input %q", tc.input))
		c.Assert(got, DeepEquals, tc.want, Commentf("input %q", tc.input))
	}
}

func (s *S) TestLoadScenarioA(c *C) {
	got, err := yaml.Load([]byte("a: [1, 2, 3]\nb: c\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, map[string]any{
		"a": []any{int64(1), int64(2), int64(3)},
		"b": "c",
	})
}

func (s *S) TestLoadAnchorsShareIdentity(c *C) {
	got, err := yaml.Load([]byte("- &A {x: 1}\n- *A\n"))
	c.Assert(err, IsNil)
	seq := got.([]any)
	c.Assert(seq, HasLen, 2)
	first := seq[0].(map[string]any)
	second := seq[1].(map[string]any)
	first["x"] = int64(99)
	c.Assert(second["x"], Equals, int64(99))
}

func (s *S) TestLoadMergeKey(c *C) {
	got, err := yaml.Load([]byte("- &base {a: 1, b: 2}\n- <<: *base\n  b: 3\n"))
	c.Assert(err, IsNil)
	seq := got.([]any)
	c.Assert(seq[1], DeepEquals, map[string]any{"a": int64(1), "b": int64(3)})
}

func (s *S) TestLoadDuplicateKeyStrict(c *C) {
	_, err := yaml.Load([]byte("{a: 1, a: 2}\n"), yaml.WithAllowDuplicateKeys(false))
	c.Assert(err, NotNil)
	_, ok := err.(yaml.DuplicateKeyError)
	c.Assert(ok, Equals, true)

	got, err := yaml.Load([]byte("{a: 1, a: 2}\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, map[string]any{"a": int64(2)})
}

func (s *S) TestLoadBinary(c *C) {
	got, err := yaml.Load([]byte("!!binary AP8=\n"))
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, []byte{0x00, 0xFF})
}

func (s *S) TestLoadTimestamp(c *C) {
	got, err := yaml.Load([]byte("2001-12-15T02:59:43.1Z\n"))
	c.Assert(err, IsNil)
	tm, ok := got.(time.Time)
	c.Assert(ok, Equals, true)
	c.Assert(tm.Year(), Equals, 2001)
	c.Assert(tm.Minute(), Equals, 59)
}

func (s *S) TestLoadSpecialFloats(c *C) {
	got, err := yaml.Load([]byte(".inf\n"))
	c.Assert(err, IsNil)
	c.Assert(got, Equals, math.Inf(1))
	got, err = yaml.Load([]byte("-.inf\n"))
	c.Assert(err, IsNil)
	c.Assert(got, Equals, math.Inf(-1))
	got, err = yaml.Load([]byte(".nan\n"))
	c.Assert(err, IsNil)
	c.Assert(math.IsNaN(got.(float64)), Equals, true)
}

func (s *S) TestLoadAllDocuments(c *C) {
	docs, err := yaml.LoadAll([]byte("one\n---\ntwo\n---\n- 3\n"))
	c.Assert(err, IsNil)
	c.Assert(docs, DeepEquals, []any{"one", "two", []any{int64(3)}})
}

func (s *S) TestLoaderStreaming(c *C) {
	l, err := yaml.NewLoader(strings.NewReader("a: 1\n---\nb: 2\n"))
	c.Assert(err, IsNil)
	first, err := l.Load()
	c.Assert(err, IsNil)
	c.Assert(first, DeepEquals, map[string]any{"a": int64(1)})
	second, err := l.Load()
	c.Assert(err, IsNil)
	c.Assert(second, DeepEquals, map[string]any{"b": int64(2)})
	_, err = l.Load()
	c.Assert(err, Equals, io.EOF)
}

func (s *S) TestDumpScalarsAndCollections(c *C) {
	out, err := yaml.Dump(map[string]any{
		"str":   "text",
		"int":   42,
		"float": 1.5,
		"bool":  true,
		"null":  nil,
		"list":  []any{1, 2},
	})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals,
		"bool: true\nfloat: 1.5\nint: 42\nlist:\n- 1\n- 2\n'null': null\nstr: text\n")
}

func (s *S) TestDumpQuotesAmbiguousStrings(c *C) {
	out, err := yaml.Dump(map[string]any{"a": "123", "b": "true", "c": "null"})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "a: '123'\nb: 'true'\nc: 'null'\n")
}

func (s *S) TestDumpBinaryScenarioE(c *C) {
	out, err := yaml.Dump([]byte{0x00, 0xFF})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "!!binary |-\n  AP8=\n")
}

func (s *S) TestDumpNonPrintableString(c *C) {
	// Default policy: base64 under !!binary.
	out, err := yaml.Dump("a\x00b")
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "!!binary |-\n  YQBi\n")

	// Escape policy: double-quoted !!str.
	out, err = yaml.Dump("a\x00b", yaml.WithNonPrintableStyle(yaml.NonPrintableEscape))
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "\"a\\0b\"\n")
}

func (s *S) TestDumpSharedNodesScenarioB(c *C) {
	shared := yaml.NewStringNode("value")
	root := yaml.NewSequenceNode(shared, shared)
	out, err := yaml.DumpNode(root)
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "- &id001 value\n- *id001\n")
}

func (s *S) TestDumpOptions(c *C) {
	node := yaml.NewMappingNode(
		yaml.NewStringNode("outer"),
		yaml.NewMappingNode(yaml.NewStringNode("inner"), yaml.NewStringNode("v")),
	)
	out, err := yaml.DumpNode(node, yaml.WithIndent(4))
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "outer:\n    inner: v\n")

	out, err = yaml.DumpNode(yaml.NewStringNode("doc"),
		yaml.WithExplicitStart(true), yaml.WithExplicitEnd(true))
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "--- doc\n...\n")

	out, err = yaml.DumpNode(yaml.NewStringNode("doc"), yaml.WithVersion(1, 1))
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "%YAML 1.1\n--- doc\n")
}

func (s *S) TestDumpAllStream(c *C) {
	out, err := yaml.DumpAll([]any{"one", "two"})
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, "one\n--- two\n")
}

func (s *S) TestRoundTripEventEquivalence(c *C) {
	inputs := []string{
		"a: [1, 2, 3]\nb: c\n",
		"- 1\n- two\n- [3, four]\n",
		"key: |\n  line1\n  line2\n",
		"nested:\n  deep:\n    x: 1\n",
		"empty: {}\nlist: []\n",
	}
	for _, input := range inputs {
		node, err := yaml.Compose([]byte(input))
		c.Assert(err, IsNil, Commentf("input %q", input))
		out, err := yaml.DumpNode(node)
		c.Assert(err, IsNil)
		again, err := yaml.Compose(out)
		c.Assert(err, IsNil, Commentf("re-parse %q", out))
		v1, err := yaml.Construct(node)
		c.Assert(err, IsNil)
		v2, err := yaml.Construct(again)
		c.Assert(err, IsNil)
		c.Assert(v2, DeepEquals, v1, Commentf("round trip of %q via %q", input, out))
	}
}

func (s *S) TestRoundTripMappingOrder(c *C) {
	input := "z: 1\na: 2\nm: 3\n"
	node, err := yaml.Compose([]byte(input))
	c.Assert(err, IsNil)
	out, err := yaml.DumpNode(node)
	c.Assert(err, IsNil)
	c.Assert(string(out), Equals, input)
}

func (s *S) TestLoadLimits(c *C) {
	deep := strings.Repeat("[", 60) + strings.Repeat("]", 60)
	_, err := yaml.Load([]byte(deep))
	c.Assert(err, NotNil)
	c.Assert(err, ErrorMatches, "(?s).*nesting depth.*")

	_, err = yaml.Load([]byte(deep), yaml.WithNestingDepthLimit(100))
	c.Assert(err, IsNil)
}

func (s *S) TestLoadErrorsArePositioned(c *C) {
	_, err := yaml.Load([]byte("a: 1\n  b: 2\n"))
	c.Assert(err, NotNil)
	c.Assert(err, ErrorMatches, "(?s)yaml:.*line 2.*")
}

func (s *S) TestCommentsRoundTrip(c *C) {
	input := "# header\na: 1 # inline\n"
	node, err := yaml.Compose([]byte(input), yaml.WithComments(true))
	c.Assert(err, IsNil)
	c.Assert(node.BlockComments, HasLen, 1)
	out, err := yaml.DumpNode(node, yaml.WithComments(true))
	c.Assert(err, IsNil)
	c.Assert(strings.Contains(string(out), "# header"), Equals, true)
	c.Assert(strings.Contains(string(out), "# inline"), Equals, true)
}

func (s *S) TestComposeKeepsStyles(c *C) {
	node, err := yaml.Compose([]byte("a: 'x'\nb: |\n  y\n"))
	c.Assert(err, IsNil)
	c.Assert(node.Lookup("a").Style, Equals, yaml.SingleQuotedStyle)
	c.Assert(node.Lookup("b").Style, Equals, yaml.LiteralStyle)
}

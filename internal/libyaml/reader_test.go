// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the reader stage: BOM detection, decoding, position tracking
// and the printable-set check.

package libyaml

import (
	"errors"
	"strings"
	"testing"

	"go.yaml.in/yaml11/internal/testutil/assert"
)

func readAll(r *Reader) (runes []rune, err error) {
	defer HandleErr(&err)
	for {
		c := r.Peek(0)
		if c == 0 {
			return runes, nil
		}
		runes = append(runes, c)
		r.Forward(1)
	}
}

func TestReaderPeekForward(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("abc\ndef"))
	assert.Equal(t, 'a', r.Peek(0))
	assert.Equal(t, 'b', r.Peek(1))
	assert.Equal(t, "abc", r.Prefix(3))
	r.Forward(4)
	assert.Equal(t, 1, r.Line())
	assert.Equal(t, 0, r.Column())
	assert.Equal(t, 4, r.Index())
	assert.Equal(t, 'd', r.Peek(0))
	r.Forward(3)
	assert.Equal(t, rune(0), r.Peek(0))
	assert.Equal(t, 3, r.Column())
}

func TestReaderColumnTracking(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("ab\r\ncd"))
	r.Forward(2)
	assert.Equal(t, 2, r.Column())
	// CRLF counts as one break.
	r.Forward(2)
	assert.Equal(t, 1, r.Line())
	assert.Equal(t, 0, r.Column())
}

func TestReaderUTF8BOM(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("\xEF\xBB\xBFhi"))
	assert.Equal(t, UTF8_ENCODING, r.Encoding())
	runes, err := readAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(runes))
}

func TestReaderUTF16(t *testing.T) {
	// "hi" with a UTF-16BE BOM, then with a UTF-16LE BOM.
	be := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}
	r := NewReader("<test>", strings.NewReader(string(be)))
	assert.Equal(t, UTF16BE_ENCODING, r.Encoding())
	runes, err := readAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(runes))

	le := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
	r = NewReader("<test>", strings.NewReader(string(le)))
	assert.Equal(t, UTF16LE_ENCODING, r.Encoding())
	runes, err = readAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(runes))
}

func TestReaderInvalidUTF8(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("ok\xFF\xFEbad"))
	_, err := readAll(r)
	assert.Error(t, err)
	var re ReaderError
	assert.Truef(t, errors.As(err, &re), "want ReaderError, got %T", err)
	assert.ErrorMatches(t, "invalid UTF", err)
}

func TestReaderNonPrintable(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("a\x01b"))
	_, err := readAll(r)
	assert.Error(t, err)
	var re ReaderError
	assert.Truef(t, errors.As(err, &re), "want ReaderError, got %T", err)
	assert.Equal(t, rune(0x01), re.Value)
	assert.Equal(t, 1, re.Position)
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReaderBytes("<test>", nil)
	assert.Equal(t, rune(0), r.Peek(0))
	assert.Equal(t, "", r.Prefix(4))
}

func TestReaderMarkSnippet(t *testing.T) {
	r := NewReaderBytes("<test>", []byte("first\nsecond line\n"))
	r.Forward(9) // points at "o" in "second"
	mark := r.Mark()
	assert.Equal(t, 1, mark.Line)
	assert.Equal(t, 3, mark.Column)
	snippet := mark.Snippet(4, 75)
	assert.Truef(t, strings.Contains(snippet, "second line"), "snippet %q", snippet)
	assert.Truef(t, strings.HasSuffix(snippet, "^"), "snippet %q", snippet)
}

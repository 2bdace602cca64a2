// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The reader stage: decodes the byte stream into code points.
// Detects the BOM, decodes UTF-8 or UTF-16, rejects non-printable input and
// maintains the index/line/column position used by every Mark. The reader
// produces the code point 0 at the end of the stream; the scanner relies on
// that sentinel.

package libyaml

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// How much consumed back-context the reader keeps for error snippets.
const readerBackContext = 128

// Reader decodes a byte stream into a window of code points with
// Peek/Prefix/Forward access.
type Reader struct {
	name     string
	src      *bufio.Reader
	encoding Encoding

	buffer  []rune // decoded window, including some consumed back-context
	pointer int    // current position within buffer
	eof     bool   // the NUL sentinel has been appended

	index  int // code point index within the stream
	line   int
	column int
}

// NewReader returns a Reader over r. The encoding is selected by the BOM:
// absent BOM means UTF-8. The stream name is used in error positions.
func NewReader(name string, r io.Reader) *Reader {
	br := bufio.NewReader(r)
	encoding := UTF8_ENCODING
	head, _ := br.Peek(3)
	switch {
	case len(head) >= 3 && bytes.Equal(head[:3], []byte{0xEF, 0xBB, 0xBF}):
		br.Discard(3)
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		encoding = UTF16BE_ENCODING
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		encoding = UTF16LE_ENCODING
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	}
	return &Reader{
		name:     name,
		src:      br,
		encoding: encoding,
	}
}

// NewReaderBytes returns a Reader over an in-memory buffer.
func NewReaderBytes(name string, b []byte) *Reader {
	return NewReader(name, bytes.NewReader(b))
}

// Name returns the stream name.
func (r *Reader) Name() string { return r.name }

// Encoding returns the encoding selected from the BOM.
func (r *Reader) Encoding() Encoding { return r.encoding }

// Index returns the current code point index.
func (r *Reader) Index() int { return r.index }

// Line returns the current zero-based line.
func (r *Reader) Line() int { return r.line }

// Column returns the current zero-based column.
func (r *Reader) Column() int { return r.column }

// Peek returns the code point k positions ahead of the current one without
// consuming input. At or beyond the end of the stream it returns 0.
func (r *Reader) Peek(k int) rune {
	r.update(k + 1)
	if r.pointer+k < len(r.buffer) {
		return r.buffer[r.pointer+k]
	}
	return 0
}

// Prefix returns the next l code points without consuming them. The result
// is shorter than l at the end of the stream.
func (r *Reader) Prefix(l int) string {
	r.update(l)
	end := r.pointer + l
	if end > len(r.buffer) {
		end = len(r.buffer)
	}
	s := r.buffer[r.pointer:end]
	if n := len(s); n > 0 && s[n-1] == 0 {
		s = s[:n-1]
	}
	return string(s)
}

// Forward consumes l code points, updating index, line and column.
func (r *Reader) Forward(l int) {
	r.update(l + 1)
	for ; l > 0; l-- {
		if r.pointer >= len(r.buffer) || r.buffer[r.pointer] == 0 {
			return
		}
		c := r.buffer[r.pointer]
		r.pointer++
		r.index++
		var next rune
		if r.pointer < len(r.buffer) {
			next = r.buffer[r.pointer]
		}
		if c == '\n' || c == 0x85 || c == 0x2028 || c == 0x2029 ||
			(c == '\r' && next != '\n') {
			r.line++
			r.column = 0
		} else if c != 0xFEFF {
			r.column++
		}
	}
	r.compact()
}

// Mark returns the current position, capturing the surrounding buffer so
// the position can later be rendered with a source excerpt. Enough of the
// current line is decoded ahead for the excerpt to be useful.
func (r *Reader) Mark() Mark {
	func() {
		// A decode failure ahead must not break taking a mark; it will
		// resurface on the next Peek.
		defer func() { _ = recover() }()
		r.update(64)
	}()
	buf := make([]rune, len(r.buffer))
	copy(buf, r.buffer)
	if n := len(buf); n > 0 && buf[n-1] == 0 {
		buf = buf[:n-1]
	}
	return Mark{
		Name:    r.name,
		Index:   r.index,
		Line:    r.line,
		Column:  r.column,
		buffer:  buf,
		pointer: r.pointer,
	}
}

// update decodes input until at least length code points are available past
// the current pointer, or the end of the stream is reached and the NUL
// sentinel appended.
func (r *Reader) update(length int) {
	for !r.eof && len(r.buffer)-r.pointer < length {
		c, size, err := r.src.ReadRune()
		if err == io.EOF {
			r.buffer = append(r.buffer, 0)
			r.eof = true
			return
		}
		if err != nil {
			Fail(ReaderError{
				Name:     r.name,
				Position: r.index + (len(r.buffer) - r.pointer),
				Problem:  err.Error(),
			})
		}
		if c == utf8.RuneError && size == 1 {
			Fail(ReaderError{
				Name:     r.name,
				Position: r.index + (len(r.buffer) - r.pointer),
				Problem:  "invalid UTF sequence",
			})
		}
		if c != 0xFEFF && !isPrintable(c) {
			Fail(ReaderError{
				Name:     r.name,
				Position: r.index + (len(r.buffer) - r.pointer),
				Value:    c,
				Problem:  "special characters are not allowed",
			})
		}
		r.buffer = append(r.buffer, c)
	}
}

// compact drops consumed code points, keeping a bounded back-context for
// error snippets.
func (r *Reader) compact() {
	if r.pointer <= readerBackContext*2 {
		return
	}
	keep := r.pointer - readerBackContext
	r.buffer = append(r.buffer[:0], r.buffer[keep:]...)
	r.pointer -= keep
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The scanner stage: turns the code point stream into tokens.
// The scanner is lazy: tokens are materialized on demand by PeekToken,
// CheckToken and NextToken. There is no explicit state enum; the state lives
// in (flowLevel, indents, allowSimpleKey, possibleSimpleKeys).

package libyaml

import (
	"fmt"
	"strings"
)

// A simple key is a mapping key written without the '?' indicator. The
// scanner cannot know a token is a key until it sees the ':' that follows,
// so it records a provisional entry and patches a KEY token in later.
type simpleKey struct {
	tokenNumber int // the token position the KEY token would take
	required    bool
	index       int
	line        int
	column      int
	mark        Mark
}

// A simple key is limited to a single line and this many code points.
const maxSimpleKeyLength = 1024

// Scanner produces tokens from a reader.
type Scanner struct {
	reader   *Reader
	comments bool // emit COMMENT_TOKENs instead of discarding comments

	done      bool
	flowLevel int

	tokens      []*Token
	tokensTaken int // number of tokens already handed out

	indent  int
	indents []int

	allowSimpleKey     bool
	possibleSimpleKeys map[int]*simpleKey
}

// NewScanner returns a Scanner over the reader. When processComments is
// set, comments and preserved blank lines are emitted as COMMENT_TOKENs;
// otherwise they are consumed and discarded.
func NewScanner(reader *Reader, processComments bool) *Scanner {
	s := &Scanner{
		reader:             reader,
		comments:           processComments,
		indent:             -1,
		allowSimpleKey:     true,
		possibleSimpleKeys: make(map[int]*simpleKey),
	}
	s.fetchStreamStart()
	return s
}

// CheckToken reports whether the next token is one of the given types.
// With no arguments it reports whether any token remains.
func (s *Scanner) CheckToken(choices ...TokenType) bool {
	for s.needMoreTokens() {
		s.fetchMoreTokens()
	}
	if len(s.tokens) == 0 {
		return false
	}
	if len(choices) == 0 {
		return true
	}
	for _, choice := range choices {
		if s.tokens[0].Type == choice {
			return true
		}
	}
	return false
}

// PeekToken returns the next token without consuming it, or nil at the end
// of the token stream.
func (s *Scanner) PeekToken() *Token {
	for s.needMoreTokens() {
		s.fetchMoreTokens()
	}
	if len(s.tokens) == 0 {
		return nil
	}
	return s.tokens[0]
}

// NextToken consumes and returns the next token, or nil at the end of the
// token stream.
func (s *Scanner) NextToken() *Token {
	for s.needMoreTokens() {
		s.fetchMoreTokens()
	}
	if len(s.tokens) == 0 {
		return nil
	}
	token := s.tokens[0]
	copy(s.tokens, s.tokens[1:])
	s.tokens = s.tokens[:len(s.tokens)-1]
	s.tokensTaken++
	return token
}

func (s *Scanner) add(tokens ...*Token) {
	s.tokens = append(s.tokens, tokens...)
}

func (s *Scanner) insert(pos int, token *Token) {
	s.tokens = append(s.tokens, nil)
	copy(s.tokens[pos+1:], s.tokens[pos:])
	s.tokens[pos] = token
}

func (s *Scanner) needMoreTokens() bool {
	if s.done {
		return false
	}
	if len(s.tokens) == 0 {
		return true
	}
	// The current token may be a potential simple key, so we need to look
	// further.
	s.stalePossibleSimpleKeys()
	return s.nextPossibleSimpleKey() == s.tokensTaken
}

// fetchMoreTokens dispatches on the first non-whitespace code point.
func (s *Scanner) fetchMoreTokens() {
	// Eat whitespace and comments until a token is found.
	s.scanToNextToken()

	// Remove obsolete possible simple keys.
	s.stalePossibleSimpleKeys()

	// Compare the current indentation and the column. It may emit some
	// BLOCK-END tokens.
	s.unwindIndent(s.reader.Column())

	c := s.reader.Peek(0)
	switch {
	case c == 0:
		s.fetchStreamEnd()
	case c == '%' && s.checkDirective():
		s.fetchDirective()
	case s.checkDocumentStart():
		s.fetchDocumentIndicator(DOCUMENT_START_TOKEN)
	case s.checkDocumentEnd():
		s.fetchDocumentIndicator(DOCUMENT_END_TOKEN)
	case c == '[':
		s.fetchFlowCollectionStart(FLOW_SEQUENCE_START_TOKEN)
	case c == '{':
		s.fetchFlowCollectionStart(FLOW_MAPPING_START_TOKEN)
	case c == ']':
		s.fetchFlowCollectionEnd(FLOW_SEQUENCE_END_TOKEN)
	case c == '}':
		s.fetchFlowCollectionEnd(FLOW_MAPPING_END_TOKEN)
	case c == ',':
		s.fetchFlowEntry()
	case c == '-' && s.checkBlockEntry():
		s.fetchBlockEntry()
	case c == '?' && s.checkKey():
		s.fetchKey()
	case c == ':' && s.checkValue():
		s.fetchValue()
	case c == '*':
		s.fetchAnchor(ALIAS_TOKEN)
	case c == '&':
		s.fetchAnchor(ANCHOR_TOKEN)
	case c == '!':
		s.fetchTag()
	case c == '|' && s.flowLevel == 0:
		s.fetchBlockScalar(LITERAL_SCALAR_STYLE)
	case c == '>' && s.flowLevel == 0:
		s.fetchBlockScalar(FOLDED_SCALAR_STYLE)
	case c == '\'':
		s.fetchFlowScalar(SINGLE_QUOTED_SCALAR_STYLE)
	case c == '"':
		s.fetchFlowScalar(DOUBLE_QUOTED_SCALAR_STYLE)
	case s.checkPlain():
		s.fetchPlain()
	default:
		failScanner("while scanning for the next token", nil,
			fmt.Sprintf("found character %q that cannot start any token", c),
			s.reader.Mark())
	}
}

// Simple keys

// nextPossibleSimpleKey returns the token number of the earliest pending
// simple key, or -1 when there is none.
func (s *Scanner) nextPossibleSimpleKey() int {
	min := -1
	for _, key := range s.possibleSimpleKeys {
		if min < 0 || key.tokenNumber < min {
			min = key.tokenNumber
		}
	}
	return min
}

// stalePossibleSimpleKeys drops entries that can no longer be keys: the
// input has moved to another line or more than maxSimpleKeyLength points
// past the key start. Dropping a required entry is a fatal error.
func (s *Scanner) stalePossibleSimpleKeys() {
	for level, key := range s.possibleSimpleKeys {
		if key.line == s.reader.Line() && s.reader.Index()-key.index <= maxSimpleKeyLength {
			continue
		}
		if key.required {
			failScanner("while scanning a simple key", &key.mark,
				"could not find expected ':'", s.reader.Mark())
		}
		delete(s.possibleSimpleKeys, level)
	}
}

// savePossibleSimpleKey records the position of a token that could become a
// simple key.
func (s *Scanner) savePossibleSimpleKey() {
	// A simple key is required at the current position if it is the first
	// token on the line at the current block indentation level.
	required := s.flowLevel == 0 && s.indent == s.reader.Column()
	if !s.allowSimpleKey {
		return
	}
	s.removePossibleSimpleKey()
	s.possibleSimpleKeys[s.flowLevel] = &simpleKey{
		tokenNumber: s.tokensTaken + len(s.tokens),
		required:    required,
		index:       s.reader.Index(),
		line:        s.reader.Line(),
		column:      s.reader.Column(),
		mark:        s.reader.Mark(),
	}
}

// removePossibleSimpleKey drops the entry at the current flow level.
func (s *Scanner) removePossibleSimpleKey() {
	key, ok := s.possibleSimpleKeys[s.flowLevel]
	if !ok {
		return
	}
	if key.required {
		failScanner("while scanning a simple key", &key.mark,
			"could not find expected ':'", s.reader.Mark())
	}
	delete(s.possibleSimpleKeys, s.flowLevel)
}

// Indentation

// unwindIndent pops indentation levels deeper than column, emitting a
// BLOCK-END token for each. Indentation is ignored in the flow context.
func (s *Scanner) unwindIndent(column int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > column {
		mark := s.reader.Mark()
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
		s.add(&Token{Type: BLOCK_END_TOKEN, StartMark: mark, EndMark: mark})
	}
}

// addIndent pushes the current indentation level if column is deeper.
func (s *Scanner) addIndent(column int) bool {
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column
		return true
	}
	return false
}

// Fetchers

func (s *Scanner) fetchStreamStart() {
	mark := s.reader.Mark()
	s.add(&Token{Type: STREAM_START_TOKEN, StartMark: mark, EndMark: mark})
}

func (s *Scanner) fetchStreamEnd() {
	s.unwindIndent(-1)
	s.removePossibleSimpleKey()
	s.allowSimpleKey = false
	s.possibleSimpleKeys = make(map[int]*simpleKey)
	mark := s.reader.Mark()
	s.add(&Token{Type: STREAM_END_TOKEN, StartMark: mark, EndMark: mark})
	s.done = true
}

func (s *Scanner) fetchDirective() {
	s.unwindIndent(-1)
	s.removePossibleSimpleKey()
	s.allowSimpleKey = false
	s.add(s.scanDirective())
}

func (s *Scanner) fetchDocumentIndicator(tt TokenType) {
	s.unwindIndent(-1)
	s.removePossibleSimpleKey()
	s.allowSimpleKey = false
	startMark := s.reader.Mark()
	s.reader.Forward(3)
	s.add(&Token{Type: tt, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchFlowCollectionStart(tt TokenType) {
	// '[' and '{' may start a simple key.
	s.savePossibleSimpleKey()
	s.flowLevel++
	s.allowSimpleKey = true
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: tt, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchFlowCollectionEnd(tt TokenType) {
	s.removePossibleSimpleKey()
	if s.flowLevel > 0 {
		s.flowLevel--
	}
	s.allowSimpleKey = false
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: tt, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchFlowEntry() {
	s.allowSimpleKey = true
	s.removePossibleSimpleKey()
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: FLOW_ENTRY_TOKEN, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchBlockEntry() {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			failScanner("", nil, "sequence entries are not allowed here", s.reader.Mark())
		}
		if s.addIndent(s.reader.Column()) {
			mark := s.reader.Mark()
			s.add(&Token{Type: BLOCK_SEQUENCE_START_TOKEN, StartMark: mark, EndMark: mark})
		}
	}
	// In the flow context the parser will report the misplaced '-'.
	s.allowSimpleKey = true
	s.removePossibleSimpleKey()
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: BLOCK_ENTRY_TOKEN, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchKey() {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			failScanner("", nil, "mapping keys are not allowed here", s.reader.Mark())
		}
		if s.addIndent(s.reader.Column()) {
			mark := s.reader.Mark()
			s.add(&Token{Type: BLOCK_MAPPING_START_TOKEN, StartMark: mark, EndMark: mark})
		}
	}
	s.allowSimpleKey = s.flowLevel == 0
	s.removePossibleSimpleKey()
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: KEY_TOKEN, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchValue() {
	if key, ok := s.possibleSimpleKeys[s.flowLevel]; ok {
		// A simple key was waiting for this ':'. Patch a KEY token in at
		// the position the key started.
		delete(s.possibleSimpleKeys, s.flowLevel)
		pos := key.tokenNumber - s.tokensTaken
		s.insert(pos, &Token{Type: KEY_TOKEN, StartMark: key.mark, EndMark: key.mark})
		// In the block context, the key may open a new mapping.
		if s.flowLevel == 0 && s.addIndent(key.column) {
			s.insert(pos, &Token{Type: BLOCK_MAPPING_START_TOKEN, StartMark: key.mark, EndMark: key.mark})
		}
		s.allowSimpleKey = false
	} else {
		// No simple key: the value follows an explicit '?' key or stands
		// alone.
		if s.flowLevel == 0 {
			if !s.allowSimpleKey {
				failScanner("", nil, "mapping values are not allowed here", s.reader.Mark())
			}
			if s.addIndent(s.reader.Column()) {
				mark := s.reader.Mark()
				s.add(&Token{Type: BLOCK_MAPPING_START_TOKEN, StartMark: mark, EndMark: mark})
			}
		}
		s.allowSimpleKey = s.flowLevel == 0
		s.removePossibleSimpleKey()
	}
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	s.add(&Token{Type: VALUE_TOKEN, StartMark: startMark, EndMark: s.reader.Mark()})
}

func (s *Scanner) fetchAnchor(tt TokenType) {
	// ALIAS and ANCHOR may start a simple key.
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	s.add(s.scanAnchor(tt))
}

func (s *Scanner) fetchTag() {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	s.add(s.scanTag())
}

func (s *Scanner) fetchBlockScalar(style ScalarStyle) {
	// A simple key may follow a block scalar on the next line.
	s.allowSimpleKey = true
	s.removePossibleSimpleKey()
	s.add(s.scanBlockScalar(style))
}

func (s *Scanner) fetchFlowScalar(style ScalarStyle) {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	s.add(s.scanFlowScalar(style))
}

func (s *Scanner) fetchPlain() {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	s.add(s.scanPlain())
}

// Checkers

// checkDirective reports whether a directive may start here: '%' at the
// beginning of a line.
func (s *Scanner) checkDirective() bool {
	return s.reader.Column() == 0
}

// checkDocumentStart reports whether '---' starts here, at column 0 and
// followed by a blank, break or end of stream.
func (s *Scanner) checkDocumentStart() bool {
	return s.reader.Column() == 0 &&
		s.reader.Prefix(3) == "---" &&
		isBlankOrBreakOrZero(s.reader.Peek(3))
}

// checkDocumentEnd reports whether '...' starts here.
func (s *Scanner) checkDocumentEnd() bool {
	return s.reader.Column() == 0 &&
		s.reader.Prefix(3) == "..." &&
		isBlankOrBreakOrZero(s.reader.Peek(3))
}

// checkBlockEntry reports whether '-' is a block entry indicator: it must
// be followed by a blank, break or end of stream.
func (s *Scanner) checkBlockEntry() bool {
	return isBlankOrBreakOrZero(s.reader.Peek(1))
}

// checkKey reports whether '?' starts an explicit key.
func (s *Scanner) checkKey() bool {
	if s.flowLevel > 0 {
		return true
	}
	return isBlankOrBreakOrZero(s.reader.Peek(1))
}

// checkValue reports whether ':' starts a value.
func (s *Scanner) checkValue() bool {
	if s.flowLevel > 0 {
		return true
	}
	return isBlankOrBreakOrZero(s.reader.Peek(1))
}

// checkPlain reports whether a plain scalar may start here.
func (s *Scanner) checkPlain() bool {
	c := s.reader.Peek(0)
	if isBlankOrBreakOrZero(c) || isIndicator(c) {
		// An indicator character still starts a plain scalar when '-',
		// '?' or ':' is followed by a non-space in the block context.
		next := s.reader.Peek(1)
		return !isBlankOrBreakOrZero(next) &&
			(c == '-' || (s.flowLevel == 0 && (c == '?' || c == ':')))
	}
	return true
}

// Whitespace and comments

// scanToNextToken eats spaces, line breaks and comments until a token
// candidate is found. Tabs may separate tokens but never count as
// indentation. With comment processing enabled, comments and blank lines
// become COMMENT_TOKENs instead of being discarded.
func (s *Scanner) scanToNextToken() {
	if s.reader.Index() == 0 && s.reader.Peek(0) == 0xFEFF {
		// A BOM at the very start of the stream is stripped.
		s.reader.Forward(1)
	}
	for {
		for s.reader.Peek(0) == ' ' || (s.reader.Peek(0) == '\t' && (s.flowLevel > 0 || !s.allowSimpleKey)) {
			s.reader.Forward(1)
		}
		if s.reader.Peek(0) == '#' {
			s.scanComment()
		}
		if !isBreak(s.reader.Peek(0)) {
			break
		}
		s.scanLineBreak()
		if s.flowLevel == 0 {
			s.allowSimpleKey = true
		}
		if s.comments && s.reader.Column() == 0 && isBreak(s.reader.Peek(0)) {
			mark := s.reader.Mark()
			s.add(&Token{
				Type:        COMMENT_TOKEN,
				CommentType: BLANK_LINE,
				StartMark:   mark,
				EndMark:     mark,
			})
		}
	}
}

// scanComment consumes a comment up to the line break. The token carries
// the text after '#'; whether it is a block or inline comment depends on
// whether a token was already produced on this line.
func (s *Scanner) scanComment() {
	startMark := s.reader.Mark()
	ctype := BLOCK_COMMENT
	if n := len(s.tokens); n > 0 && s.tokens[n-1].EndMark.Line == startMark.Line &&
		contentToken(s.tokens[n-1].Type) {
		ctype = IN_LINE_COMMENT
	} else if s.tokensTaken > 0 && len(s.tokens) == 0 {
		// The preceding token was already handed out; fall back to the
		// column heuristic.
		if startMark.Column > s.indent+1 {
			ctype = IN_LINE_COMMENT
		}
	}
	s.reader.Forward(1)
	var text strings.Builder
	for !isBreakOrZero(s.reader.Peek(0)) {
		text.WriteRune(s.reader.Peek(0))
		s.reader.Forward(1)
	}
	if !s.comments {
		return
	}
	s.add(&Token{
		Type:        COMMENT_TOKEN,
		CommentType: ctype,
		Value:       text.String(),
		StartMark:   startMark,
		EndMark:     s.reader.Mark(),
	})
}

// contentToken reports whether a token occupies real source characters.
// Synthetic tokens (stream/block starts and ends) share the marks of their
// neighbors and never precede an inline comment.
func contentToken(tt TokenType) bool {
	switch tt {
	case STREAM_START_TOKEN, STREAM_END_TOKEN, BLOCK_SEQUENCE_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN, BLOCK_END_TOKEN, COMMENT_TOKEN:
		return false
	}
	return true
}

// Directives

func (s *Scanner) scanDirective() *Token {
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	name := s.scanDirectiveName(startMark)
	switch name {
	case "YAML":
		major, minor := s.scanYAMLDirectiveValue(startMark)
		endMark := s.reader.Mark()
		s.scanDirectiveIgnoredLine(startMark)
		return &Token{
			Type:      VERSION_DIRECTIVE_TOKEN,
			Value:     name,
			Major:     major,
			Minor:     minor,
			StartMark: startMark,
			EndMark:   endMark,
		}
	case "TAG":
		handle, prefix := s.scanTagDirectiveValue(startMark)
		endMark := s.reader.Mark()
		s.scanDirectiveIgnoredLine(startMark)
		return &Token{
			Type:      TAG_DIRECTIVE_TOKEN,
			Value:     name,
			Handle:    handle,
			Prefix:    prefix,
			StartMark: startMark,
			EndMark:   endMark,
		}
	default:
		// Unknown directives are ignored with their arguments.
		endMark := s.reader.Mark()
		for !isBreakOrZero(s.reader.Peek(0)) {
			s.reader.Forward(1)
		}
		if isBreak(s.reader.Peek(0)) {
			s.scanLineBreak()
		}
		return &Token{
			Type:      VERSION_DIRECTIVE_TOKEN,
			Value:     name,
			Major:     -1,
			StartMark: startMark,
			EndMark:   endMark,
		}
	}
}

func (s *Scanner) scanDirectiveName(startMark Mark) string {
	var name strings.Builder
	for isWordChar(s.reader.Peek(0)) {
		name.WriteRune(s.reader.Peek(0))
		s.reader.Forward(1)
	}
	if name.Len() == 0 {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected alphabetic or numeric character, but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected alphabetic or numeric character, but found %q", c),
			s.reader.Mark())
	}
	return name.String()
}

func (s *Scanner) scanYAMLDirectiveValue(startMark Mark) (major, minor int) {
	for s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	major = s.scanYAMLDirectiveNumber(startMark)
	if s.reader.Peek(0) != '.' {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected a digit or '.', but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	s.reader.Forward(1)
	minor = s.scanYAMLDirectiveNumber(startMark)
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected a digit or ' ', but found %q", c),
			s.reader.Mark())
	}
	return major, minor
}

func (s *Scanner) scanYAMLDirectiveNumber(startMark Mark) int {
	if !isDigit(s.reader.Peek(0)) {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected a digit, but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	value := 0
	for isDigit(s.reader.Peek(0)) {
		value = value*10 + int(s.reader.Peek(0)-'0')
		s.reader.Forward(1)
	}
	return value
}

func (s *Scanner) scanTagDirectiveValue(startMark Mark) (handle, prefix string) {
	for s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	handle = s.scanTagHandle("directive", startMark)
	for s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	prefix = s.scanTagURI("directive", startMark)
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected ' ', but found %q", c),
			s.reader.Mark())
	}
	return handle, prefix
}

func (s *Scanner) scanDirectiveIgnoredLine(startMark Mark) {
	for s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	if s.reader.Peek(0) == '#' {
		s.scanComment()
	}
	if c := s.reader.Peek(0); !isBreakOrZero(c) {
		failScanner("while scanning a directive", &startMark,
			fmt.Sprintf("expected a comment or a line break, but found %q", c),
			s.reader.Mark())
	}
	if isBreak(s.reader.Peek(0)) {
		s.scanLineBreak()
	}
}

// Anchors and tags

func (s *Scanner) scanAnchor(tt TokenType) *Token {
	startMark := s.reader.Mark()
	indicator := s.reader.Peek(0)
	name := "alias"
	if indicator == '&' {
		name = "anchor"
	}
	s.reader.Forward(1)
	var value strings.Builder
	for isWordChar(s.reader.Peek(0)) {
		value.WriteRune(s.reader.Peek(0))
		s.reader.Forward(1)
	}
	if value.Len() == 0 {
		failScanner("while scanning an "+name, &startMark,
			fmt.Sprintf("expected alphabetic or numeric character, but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) && !isFlowIndicator(c) &&
		c != '?' && c != ':' && c != '%' && c != '@' && c != '`' {
		failScanner("while scanning an "+name, &startMark,
			fmt.Sprintf("expected alphabetic or numeric character, but found %q", c),
			s.reader.Mark())
	}
	return &Token{
		Type:      tt,
		Value:     value.String(),
		StartMark: startMark,
		EndMark:   s.reader.Mark(),
	}
}

// scanTag scans '!', '!suffix', '!handle!suffix' and '!<verbatim>'.
// The token carries the handle and the suffix; expansion against the
// document's %TAG directives happens in the parser.
func (s *Scanner) scanTag() *Token {
	startMark := s.reader.Mark()
	var handle, suffix string
	switch next := s.reader.Peek(1); {
	case next == '<':
		// Verbatim tag.
		s.reader.Forward(2)
		suffix = s.scanTagURI("tag", startMark)
		if s.reader.Peek(0) != '>' {
			failScanner("while scanning a tag", &startMark,
				fmt.Sprintf("expected '>', but found %q", s.reader.Peek(0)),
				s.reader.Mark())
		}
		s.reader.Forward(1)
	case isBlankOrBreakOrZero(next) || isFlowIndicator(next):
		// The lone '!' non-specific tag.
		handle = ""
		suffix = "!"
		s.reader.Forward(1)
	default:
		// Decide between '!suffix' and '!handle!suffix': look for a
		// second '!' before the end of the tag.
		length := 1
		useHandle := false
		for c := s.reader.Peek(length); !isBlankOrBreakOrZero(c); c = s.reader.Peek(length) {
			if c == '!' {
				useHandle = true
				break
			}
			length++
		}
		if useHandle {
			handle = s.scanTagHandle("tag", startMark)
		} else {
			handle = "!"
			s.reader.Forward(1)
		}
		suffix = s.scanTagURI("tag", startMark)
	}
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) && !isFlowIndicator(c) {
		failScanner("while scanning a tag", &startMark,
			fmt.Sprintf("expected ' ', but found %q", c),
			s.reader.Mark())
	}
	return &Token{
		Type:      TAG_TOKEN,
		Handle:    handle,
		Value:     suffix,
		StartMark: startMark,
		EndMark:   s.reader.Mark(),
	}
}

func (s *Scanner) scanTagHandle(name string, startMark Mark) string {
	if s.reader.Peek(0) != '!' {
		failScanner("while scanning a "+name, &startMark,
			fmt.Sprintf("expected '!', but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	length := 1
	for isWordChar(s.reader.Peek(length)) {
		length++
	}
	if s.reader.Peek(length) == '!' {
		length++
	} else if length > 1 {
		// The handle of a %TAG directive must end with '!'.
		if name == "directive" {
			failScanner("while scanning a "+name, &startMark,
				"expected '!'", s.reader.Mark())
		}
		length = 1
	}
	value := s.reader.Prefix(length)
	s.reader.Forward(length)
	return value
}

func (s *Scanner) scanTagURI(name string, startMark Mark) string {
	var uri strings.Builder
	for c := s.reader.Peek(0); isURIChar(c); c = s.reader.Peek(0) {
		if c == '%' {
			uri.WriteString(s.scanURIEscapes(name, startMark))
		} else {
			uri.WriteRune(c)
			s.reader.Forward(1)
		}
	}
	if uri.Len() == 0 {
		failScanner("while scanning a "+name, &startMark,
			fmt.Sprintf("expected a URI, but found %q", s.reader.Peek(0)),
			s.reader.Mark())
	}
	return uri.String()
}

// scanURIEscapes decodes a run of %xx escapes into UTF-8 bytes.
func (s *Scanner) scanURIEscapes(name string, startMark Mark) string {
	var bytes []byte
	for s.reader.Peek(0) == '%' {
		s.reader.Forward(1)
		if !isHex(s.reader.Peek(0)) || !isHex(s.reader.Peek(1)) {
			failScanner("while scanning a "+name, &startMark,
				"expected URI escape sequence of 2 hexadecimal numbers",
				s.reader.Mark())
		}
		bytes = append(bytes, byte(hexValue(s.reader.Peek(0))<<4|hexValue(s.reader.Peek(1))))
		s.reader.Forward(2)
	}
	return string(bytes)
}

// Block scalars

func (s *Scanner) scanBlockScalar(style ScalarStyle) *Token {
	startMark := s.reader.Mark()
	s.reader.Forward(1)
	chomping, increment := s.scanBlockScalarIndicators(startMark)
	s.scanBlockScalarIgnoredLine(startMark)

	var chunks strings.Builder
	var lineBreak string
	minIndent := s.indent + 1
	if minIndent < 1 {
		minIndent = 1
	}
	var breaks string
	var indent int
	var endMark Mark
	if increment > 0 {
		indent = minIndent + increment - 1
		breaks, endMark = s.scanBlockScalarBreaks(indent)
	} else {
		var maxIndent int
		breaks, maxIndent, endMark = s.scanBlockScalarIndentation()
		indent = minIndent
		if maxIndent > indent {
			indent = maxIndent
		}
	}

	for s.reader.Column() == indent && s.reader.Peek(0) != 0 {
		chunks.WriteString(breaks)
		leadingNonSpace := s.reader.Peek(0) != ' ' && s.reader.Peek(0) != '\t'
		var line strings.Builder
		for !isBreakOrZero(s.reader.Peek(0)) {
			line.WriteRune(s.reader.Peek(0))
			s.reader.Forward(1)
		}
		chunks.WriteString(line.String())
		if s.reader.Peek(0) == 0 {
			lineBreak = ""
			endMark = s.reader.Mark()
			break
		}
		lineBreak = s.scanLineBreak()
		breaks, endMark = s.scanBlockScalarBreaks(indent)
		if s.reader.Column() == indent && s.reader.Peek(0) != 0 {
			// A single break between non-empty lines folds to a space in
			// the folded style; blank lines keep their breaks.
			if style == FOLDED_SCALAR_STYLE && lineBreak == "\n" &&
				leadingNonSpace && s.reader.Peek(0) != ' ' && s.reader.Peek(0) != '\t' {
				if breaks == "" {
					chunks.WriteString(" ")
				}
			} else {
				chunks.WriteString(lineBreak)
			}
			lineBreak = ""
		} else {
			break
		}
	}

	// Chomping: clip keeps one trailing break, keep retains them all,
	// strip drops them.
	if chomping != '-' {
		chunks.WriteString(lineBreak)
	}
	if chomping == '+' {
		chunks.WriteString(breaks)
	}
	return &Token{
		Type:      SCALAR_TOKEN,
		Value:     chunks.String(),
		Style:     style,
		StartMark: startMark,
		EndMark:   endMark,
	}
}

// scanBlockScalarIndicators parses the chomping indicator ('-' strip, '+'
// keep, 0 clip) and the optional explicit indentation digit 1-9, in either
// order.
func (s *Scanner) scanBlockScalarIndicators(startMark Mark) (chomping rune, increment int) {
	c := s.reader.Peek(0)
	if c == '+' || c == '-' {
		chomping = c
		s.reader.Forward(1)
		if c := s.reader.Peek(0); isDigit(c) {
			if c == '0' {
				failScanner("while scanning a block scalar", &startMark,
					"expected indentation indicator in the range 1-9, but found 0",
					s.reader.Mark())
			}
			increment = int(c - '0')
			s.reader.Forward(1)
		}
	} else if isDigit(c) {
		if c == '0' {
			failScanner("while scanning a block scalar", &startMark,
				"expected indentation indicator in the range 1-9, but found 0",
				s.reader.Mark())
		}
		increment = int(c - '0')
		s.reader.Forward(1)
		if c := s.reader.Peek(0); c == '+' || c == '-' {
			chomping = c
			s.reader.Forward(1)
		}
	}
	if c := s.reader.Peek(0); !isBlankOrBreakOrZero(c) {
		failScanner("while scanning a block scalar", &startMark,
			fmt.Sprintf("expected chomping or indentation indicators, but found %q", c),
			s.reader.Mark())
	}
	return chomping, increment
}

func (s *Scanner) scanBlockScalarIgnoredLine(startMark Mark) {
	for s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	if s.reader.Peek(0) == '#' {
		s.scanComment()
	}
	if c := s.reader.Peek(0); !isBreakOrZero(c) {
		failScanner("while scanning a block scalar", &startMark,
			fmt.Sprintf("expected a comment or a line break, but found %q", c),
			s.reader.Mark())
	}
	if isBreak(s.reader.Peek(0)) {
		s.scanLineBreak()
	}
}

// scanBlockScalarIndentation finds the indentation of the first non-empty
// line when no explicit indicator was given.
func (s *Scanner) scanBlockScalarIndentation() (breaks string, maxIndent int, endMark Mark) {
	var chunks strings.Builder
	endMark = s.reader.Mark()
	for isBlank(s.reader.Peek(0)) || isBreak(s.reader.Peek(0)) {
		if s.reader.Peek(0) != ' ' && s.reader.Peek(0) != '\t' {
			chunks.WriteString(s.scanLineBreak())
			endMark = s.reader.Mark()
		} else {
			s.reader.Forward(1)
			if s.reader.Column() > maxIndent {
				maxIndent = s.reader.Column()
			}
		}
	}
	return chunks.String(), maxIndent, endMark
}

func (s *Scanner) scanBlockScalarBreaks(indent int) (breaks string, endMark Mark) {
	var chunks strings.Builder
	endMark = s.reader.Mark()
	for s.reader.Column() < indent && s.reader.Peek(0) == ' ' {
		s.reader.Forward(1)
	}
	for isBreak(s.reader.Peek(0)) {
		chunks.WriteString(s.scanLineBreak())
		endMark = s.reader.Mark()
		for s.reader.Column() < indent && s.reader.Peek(0) == ' ' {
			s.reader.Forward(1)
		}
	}
	return chunks.String(), endMark
}

// Flow scalars

// Single-character escape sequences accepted in double-quoted scalars.
var escapeReplacements = map[rune]string{
	'0':  "\x00",
	'a':  "\x07",
	'b':  "\x08",
	't':  "\x09",
	'\t': "\x09",
	'n':  "\x0A",
	'v':  "\x0B",
	'f':  "\x0C",
	'r':  "\x0D",
	'e':  "\x1B",
	' ':  "\x20",
	'"':  "\"",
	'\\': "\\",
	'/':  "/",
	'N':  "",
	'_':  " ",
	'L':  " ",
	'P':  " ",
}

// Hex escape introducers and the number of digits each consumes.
var escapeCodes = map[rune]int{
	'x': 2,
	'u': 4,
	'U': 8,
}

func (s *Scanner) scanFlowScalar(style ScalarStyle) *Token {
	double := style == DOUBLE_QUOTED_SCALAR_STYLE
	startMark := s.reader.Mark()
	quote := s.reader.Peek(0)
	s.reader.Forward(1)
	var chunks strings.Builder
	chunks.WriteString(s.scanFlowScalarNonSpaces(double, startMark))
	for s.reader.Peek(0) != quote {
		chunks.WriteString(s.scanFlowScalarSpaces(startMark))
		chunks.WriteString(s.scanFlowScalarNonSpaces(double, startMark))
	}
	s.reader.Forward(1)
	return &Token{
		Type:      SCALAR_TOKEN,
		Value:     chunks.String(),
		Style:     style,
		StartMark: startMark,
		EndMark:   s.reader.Mark(),
	}
}

func (s *Scanner) scanFlowScalarNonSpaces(double bool, startMark Mark) string {
	var chunks strings.Builder
	for {
		length := 0
		for c := s.reader.Peek(length); !isBlankOrBreakOrZero(c) && c != '\'' && c != '"' && c != '\\'; c = s.reader.Peek(length) {
			length++
		}
		if length > 0 {
			chunks.WriteString(s.reader.Prefix(length))
			s.reader.Forward(length)
		}
		c := s.reader.Peek(0)
		switch {
		case !double && c == '\'' && s.reader.Peek(1) == '\'':
			// '' inside a single-quoted scalar is an escaped quote.
			chunks.WriteString("'")
			s.reader.Forward(2)
		case (double && c == '\'') || (!double && (c == '"' || c == '\\')):
			chunks.WriteRune(c)
			s.reader.Forward(1)
		case double && c == '\\':
			s.reader.Forward(1)
			c = s.reader.Peek(0)
			if repl, ok := escapeReplacements[c]; ok {
				chunks.WriteString(repl)
				s.reader.Forward(1)
			} else if digits, ok := escapeCodes[c]; ok {
				s.reader.Forward(1)
				code := 0
				for k := 0; k < digits; k++ {
					d := s.reader.Peek(k)
					if !isHex(d) {
						failScanner("while scanning a double-quoted scalar", &startMark,
							fmt.Sprintf("expected escape sequence of %d hexadecimal numbers, but found %q", digits, d),
							s.reader.Mark())
					}
					code = code<<4 | hexValue(d)
				}
				chunks.WriteRune(rune(code))
				s.reader.Forward(digits)
			} else if isBreak(c) {
				s.scanLineBreak()
				chunks.WriteString(s.scanFlowScalarBreaks(startMark))
			} else {
				failScanner("while scanning a double-quoted scalar", &startMark,
					fmt.Sprintf("found unknown escape character %q", c),
					s.reader.Mark())
			}
		default:
			return chunks.String()
		}
	}
}

func (s *Scanner) scanFlowScalarSpaces(startMark Mark) string {
	var chunks strings.Builder
	length := 0
	for isBlank(s.reader.Peek(length)) {
		length++
	}
	whitespaces := s.reader.Prefix(length)
	s.reader.Forward(length)
	c := s.reader.Peek(0)
	switch {
	case c == 0:
		failScanner("while scanning a quoted scalar", &startMark,
			"found unexpected end of stream", s.reader.Mark())
	case isBreak(c):
		lineBreak := s.scanLineBreak()
		breaks := s.scanFlowScalarBreaks(startMark)
		if lineBreak != "\n" {
			chunks.WriteString(lineBreak)
		} else if breaks == "" {
			chunks.WriteString(" ")
		}
		chunks.WriteString(breaks)
	default:
		chunks.WriteString(whitespaces)
	}
	return chunks.String()
}

func (s *Scanner) scanFlowScalarBreaks(startMark Mark) string {
	var chunks strings.Builder
	for {
		// A flow scalar cannot contain a document marker.
		prefix := s.reader.Prefix(3)
		if (prefix == "---" || prefix == "...") && isBlankOrBreakOrZero(s.reader.Peek(3)) {
			failScanner("while scanning a quoted scalar", &startMark,
				"found unexpected document separator", s.reader.Mark())
		}
		for isBlank(s.reader.Peek(0)) {
			s.reader.Forward(1)
		}
		if !isBreak(s.reader.Peek(0)) {
			return chunks.String()
		}
		chunks.WriteString(s.scanLineBreak())
	}
}

// Plain scalars

func (s *Scanner) scanPlain() *Token {
	var chunks strings.Builder
	startMark := s.reader.Mark()
	endMark := startMark
	indent := s.indent + 1
	var spaces string
	for {
		length := 0
		if s.reader.Peek(0) == '#' {
			break
		}
		for {
			c := s.reader.Peek(length)
			if isBlankOrBreakOrZero(c) {
				break
			}
			if c == ':' {
				next := s.reader.Peek(length + 1)
				if isBlankOrBreakOrZero(next) || (s.flowLevel > 0 && isFlowIndicator(next)) {
					break
				}
			}
			if s.flowLevel > 0 && (c == ',' || c == '?' || isFlowIndicator(c)) {
				break
			}
			length++
		}
		if length == 0 {
			break
		}
		s.allowSimpleKey = false
		chunks.WriteString(spaces)
		chunks.WriteString(s.reader.Prefix(length))
		s.reader.Forward(length)
		endMark = s.reader.Mark()
		spaces = s.scanPlainSpaces(indent)
		if spaces == "" || s.reader.Peek(0) == '#' ||
			(s.flowLevel == 0 && s.reader.Column() < indent) {
			break
		}
	}
	return &Token{
		Type:      SCALAR_TOKEN,
		Value:     chunks.String(),
		Style:     PLAIN_SCALAR_STYLE,
		StartMark: startMark,
		EndMark:   endMark,
	}
}

// scanPlainSpaces consumes the blanks and breaks between plain scalar
// words. A break makes a following simple key legal again.
func (s *Scanner) scanPlainSpaces(indent int) string {
	var chunks strings.Builder
	length := 0
	for s.reader.Peek(length) == ' ' {
		length++
	}
	whitespaces := s.reader.Prefix(length)
	s.reader.Forward(length)
	c := s.reader.Peek(0)
	if isBreak(c) {
		lineBreak := s.scanLineBreak()
		s.allowSimpleKey = true
		prefix := s.reader.Prefix(3)
		if (prefix == "---" || prefix == "...") && isBlankOrBreakOrZero(s.reader.Peek(3)) {
			return ""
		}
		var breaks strings.Builder
		for s.reader.Peek(0) == ' ' || isBreak(s.reader.Peek(0)) {
			if s.reader.Peek(0) == ' ' {
				s.reader.Forward(1)
				continue
			}
			breaks.WriteString(s.scanLineBreak())
			prefix := s.reader.Prefix(3)
			if (prefix == "---" || prefix == "...") && isBlankOrBreakOrZero(s.reader.Peek(3)) {
				return ""
			}
		}
		if lineBreak != "\n" {
			chunks.WriteString(lineBreak)
		} else if breaks.Len() == 0 {
			chunks.WriteString(" ")
		}
		chunks.WriteString(breaks.String())
	} else if length > 0 {
		chunks.WriteString(whitespaces)
	}
	return chunks.String()
}

// scanLineBreak consumes one line break. CRLF, CR, LF and NEL normalize to
// '\n'; LS and PS are preserved.
func (s *Scanner) scanLineBreak() string {
	c := s.reader.Peek(0)
	switch {
	case c == '\r' && s.reader.Peek(1) == '\n':
		s.reader.Forward(2)
		return "\n"
	case c == '\r' || c == '\n' || c == 0x85:
		s.reader.Forward(1)
		return "\n"
	case c == 0x2028 || c == 0x2029:
		s.reader.Forward(1)
		return string(c)
	}
	return ""
}

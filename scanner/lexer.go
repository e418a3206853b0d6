package scanner

import (
	"io"
	"unicode"

	uuid "github.com/satori/go.uuid"

	"github.com/jbcif/cif/normalize"
)

// Scanner tokenizes a CIF byte stream, converting bytes to runes through
// a Converter and classifying the result per spec §4.3. It holds a
// sliding buffer of decoded runes, refilled from the underlying
// ByteDecoder on demand.
type Scanner struct {
	dec     ByteDecoder
	conv    Converter
	version normalize.Version

	maxLineLength int
	onError       ErrorCallback
	userData      interface{}

	// SessionID is a random id minted once per Scanner. The scanner does
	// not pass it to the error callback or write it to any log; it is
	// only exposed on the Scanner.
	SessionID uuid.UUID

	buf          []rune
	pos          int
	eof          bool
	pendingBytes []byte

	line, col int
	lineLen   int

	afterOpenDelim bool // start state: just past a list/table open delimiter
	atLineStart    bool
}

const defaultMaxLineLength = 2048

// NewScanner creates a Scanner. maxLineLength <= 0 selects the CIF
// default of 2048 code points.
func NewScanner(dec ByteDecoder, conv Converter, version normalize.Version, maxLineLength int, onError ErrorCallback, userData interface{}) *Scanner {
	if maxLineLength <= 0 {
		maxLineLength = defaultMaxLineLength
	}
	return &Scanner{
		dec:           dec,
		conv:          conv,
		version:       version,
		maxLineLength: maxLineLength,
		onError:       onError,
		userData:      userData,
		SessionID:     uuid.NewV4(),
		line:          1,
		col:           1,
		atLineStart:   true,
	}
}

func (s *Scanner) report(code ErrorCode, snippet string) int {
	if s.onError == nil {
		return 0
	}
	return s.onError(code, s.line, s.col, snippet, s.userData)
}

// refill pulls more bytes from the decoder and decodes them into buf. It
// returns false once the decoder is exhausted and no bytes remain
// pending.
func (s *Scanner) refill() bool {
	if s.eof {
		return false
	}
	tmp := make([]byte, 4096)
	n, err := s.dec.Fill(tmp)
	data := append(s.pendingBytes, tmp[:n]...)
	onConvErr := func(r ConvertResult) rune {
		sub := DefaultSubstitution(s.version)
		if r.Invalid {
			s.report(ErrInvalidChar, string(sub))
		} else {
			s.report(ErrUnmappedChar, string(sub))
		}
		return sub
	}
	consumed, runes := s.conv.Decode(data, nil, onConvErr)
	s.buf = append(s.buf, runes...)
	s.pendingBytes = append([]byte(nil), data[consumed:]...)

	if err != nil {
		s.eof = true
		if len(s.pendingBytes) > 0 {
			// undecodable trailing bytes at true EOF: treat as one invalid unit.
			s.buf = append(s.buf, onConvErr(ConvertResult{Invalid: true}))
			s.pendingBytes = nil
		}
		return err == io.EOF && len(runes) > 0
	}
	return true
}

func (s *Scanner) ensure(n int) {
	for len(s.buf)-s.pos < n && !s.eof {
		s.refill()
	}
}

func (s *Scanner) peekAt(offset int) (rune, bool) {
	s.ensure(offset + 1)
	idx := s.pos + offset
	if idx >= len(s.buf) {
		return 0, false
	}
	return s.buf[idx], true
}

func (s *Scanner) peek() (rune, bool) { return s.peekAt(0) }

func (s *Scanner) advance() (rune, bool) {
	r, ok := s.peek()
	if !ok {
		return 0, false
	}
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
		s.lineLen = 0
		s.atLineStart = true
	} else {
		s.col++
		s.lineLen++
		s.atLineStart = false
		if s.lineLen > s.maxLineLength {
			s.report(ErrOverlengthLine, "")
		}
	}
	return r, true
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' }

func isDelimOrSpace(r rune, ok bool) bool {
	if !ok {
		return true
	}
	return isSpace(r) || r == '[' || r == ']' || r == '{' || r == '}'
}

// Next scans and returns the next token. It returns a Kind==EOF token at
// end of stream.
func (s *Scanner) Next() Token {
	if r, ok := s.peek(); ok && s.atLineStart && r == ';' {
		return s.scanTextField()
	}
	if r, ok := s.peek(); ok && isSpace(r) {
		return s.scanWhitespace()
	}
	if r, ok := s.peek(); ok && r == '#' {
		return s.scanComment()
	}
	r, ok := s.peek()
	if !ok {
		return Token{Kind: EOF, Line: s.line, Column: s.col}
	}

	var tok Token
	switch r {
	case '[':
		tok = s.single(ListOpen)
		s.afterOpenDelim = true
		return tok
	case ']':
		tok = s.single(ListClose)
	case '{':
		tok = s.single(TableOpen)
		s.afterOpenDelim = true
		return tok
	case '}':
		tok = s.single(TableClose)
	case '\'':
		tok = s.scanQuoted('\'', SingleQuoted, TripleSingleQuoted)
	case '"':
		tok = s.scanQuoted('"', DoubleQuoted, TripleDoubleQuoted)
	default:
		tok = s.scanBare()
	}
	s.afterOpenDelim = false
	return s.maybeTableKey(tok)
}

func (s *Scanner) single(kind Kind) Token {
	line, col := s.line, s.col
	s.advance()
	return Token{Kind: kind, Line: line, Column: col}
}

func (s *Scanner) scanWhitespace() Token {
	line, col := s.line, s.col
	for {
		r, ok := s.peek()
		if !ok || !isSpace(r) {
			break
		}
		s.advance()
	}
	return Token{Kind: Whitespace, Line: line, Column: col}
}

func (s *Scanner) scanComment() Token {
	line, col := s.line, s.col
	for {
		r, ok := s.peek()
		if !ok || r == '\n' {
			break
		}
		s.advance()
	}
	return Token{Kind: Whitespace, Line: line, Column: col}
}

// scanTextField reads a `;`-delimited text field: content runs from just
// after the opening semicolon up to, but not including, the newline that
// precedes a line whose first character is `;` (that newline belongs to
// the closing delimiter).
func (s *Scanner) scanTextField() Token {
	line, col := s.line, s.col
	s.advance() // consume opening ';'
	var text []rune
	for {
		if s.atLineStart {
			if r, ok := s.peek(); ok && r == ';' {
				s.advance()
				if n := len(text); n > 0 && text[n-1] == '\n' {
					text = text[:n-1]
				}
				return Token{Kind: TextField, Text: unfoldTextField(string(text)), Line: line, Column: col}
			}
		}
		r, ok := s.advance()
		if !ok {
			s.report(ErrUnclosedText, string(text))
			return Token{Kind: ErrorToken, ErrCode: ErrUnclosedText, Text: string(text), Line: line, Column: col}
		}
		text = append(text, r)
	}
}

// scanQuoted reads a single- or double-quoted value, or its triple form
// when the stream opens with three of the same delimiter.
func (s *Scanner) scanQuoted(delim rune, style, tripleStyle QuoteStyle) Token {
	line, col := s.line, s.col
	if r2, ok2 := s.peekAt(1); ok2 && r2 == delim {
		if r3, ok3 := s.peekAt(2); ok3 && r3 == delim {
			return s.scanTripleQuoted(delim, tripleStyle, line, col)
		}
	}
	s.advance() // opening delimiter
	var text []rune
	for {
		r, ok := s.advance()
		if !ok {
			s.report(ErrMissingEndQuote, string(text))
			return Token{Kind: ErrorToken, ErrCode: ErrMissingEndQuote, Text: string(text), Line: line, Column: col}
		}
		if r == delim {
			nr, nok := s.peek()
			if isDelimOrSpace(nr, nok) || nr == ':' {
				return Token{Kind: SimpleValue, Quote: style, Text: string(text), Line: line, Column: col}
			}
		}
		text = append(text, r)
	}
}

func (s *Scanner) scanTripleQuoted(delim rune, style QuoteStyle, line, col int) Token {
	s.advance()
	s.advance()
	s.advance() // three opening delimiters
	var text []rune
	for {
		r, ok := s.advance()
		if !ok {
			s.report(ErrMissingEndQuote, string(text))
			return Token{Kind: ErrorToken, ErrCode: ErrMissingEndQuote, Text: string(text), Line: line, Column: col}
		}
		if r == delim {
			if r2, ok2 := s.peek(); ok2 && r2 == delim {
				if r3, ok3 := s.peekAt(1); ok3 && r3 == delim {
					s.advance()
					s.advance()
					return Token{Kind: SimpleValue, Quote: style, Text: string(text), Line: line, Column: col}
				}
			}
		}
		text = append(text, r)
	}
}

// scanBare reads an unquoted run and classifies it as a block header,
// frame header/terminator, loop keyword, data name, or bare simple
// value/NotApplicable/Unknown literal — left to the parser to interpret.
func (s *Scanner) scanBare() Token {
	line, col := s.line, s.col
	var text []rune
	for {
		r, ok := s.peek()
		if !ok || isSpace(r) || r == '\'' || r == '"' || r == '[' || r == ']' || r == '{' || r == '}' {
			break
		}
		s.advance()
		text = append(text, r)
	}
	word := string(text)
	lower := toLowerASCII(word)

	switch {
	case hasPrefix(lower, "data_") && len(word) > 5:
		return Token{Kind: BlockHeader, Text: word[5:], Line: line, Column: col}
	case lower == "save_":
		return Token{Kind: FrameTerminator, Line: line, Column: col}
	case hasPrefix(lower, "save_") && len(word) > 5:
		return Token{Kind: FrameHeader, Text: word[5:], Line: line, Column: col}
	case lower == "loop_":
		return Token{Kind: Loop, Line: line, Column: col}
	case len(word) > 0 && word[0] == '_':
		return Token{Kind: DataName, Text: word, Line: line, Column: col}
	default:
		return Token{Kind: SimpleValue, Quote: Bare, Text: word, Line: line, Column: col}
	}
}

// maybeTableKey reclassifies a just-scanned SimpleValue or DataName as a
// TableKey when followed by ':', skipping any run of spaces/tabs (but not
// a newline, which would put the colon on a different line and so cannot
// belong to this key) in between. DataName must be considered here too:
// an underscore-led bare word in front of a colon (e.g. "_bare_key :") is
// a candidate table key, not a data name, even though scanBare tags every
// underscore-led bare word DataName by default. Leaving the
// reclassification to the parser keeps the scanner from having to
// understand table-key validity (that's readTable's job: reject it as
// unquoted, null, or misquoted).
func (s *Scanner) maybeTableKey(tok Token) Token {
	if tok.Kind != SimpleValue && tok.Kind != DataName {
		return tok
	}
	offset := 0
	for {
		r, ok := s.peekAt(offset)
		if !ok {
			return tok
		}
		switch r {
		case ' ', '\t':
			offset++
			continue
		case ':':
			for i := 0; i <= offset; i++ {
				s.advance()
			}
			tok.Kind = TableKey
			return tok
		default:
			return tok
		}
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func toLowerASCII(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

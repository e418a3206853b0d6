// Package writer renders a *cif.CIF document back to CIF text: minimal-
// delimiter value formatting, line-length tracking, and the line-folding
// and prefix escape protocols for text blocks (spec §4.5).
package writer

import (
	"bufio"
	"io"
	"strings"

	"github.com/jbcif/cif"
	"github.com/jbcif/cif/normalize"
	"github.com/jbcif/cif/value"
)

const (
	defaultMaxLineLength = 2048
	defaultFoldWindow    = 20
	defaultTextPrefix    = "> "
)

// Options configures a Write call. A zero Options writes CIF 1.1 (Version's
// zero value is normalize.V1_1, so no CIF 2.0 header line is written) with
// the default 2048-code-point line length.
type Options struct {
	Version       normalize.Version
	MaxLineLength int
	FoldWindow    int
	TextPrefix    string
}

func (o Options) withDefaults() Options {
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = defaultMaxLineLength
	}
	if o.FoldWindow <= 0 {
		o.FoldWindow = defaultFoldWindow
	}
	if o.TextPrefix == "" {
		o.TextPrefix = defaultTextPrefix
	}
	return o
}

// Write renders doc to w per opts.
func Write(w io.Writer, doc *cif.CIF, opts Options) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)
	s := &state{w: bw, opts: opts}

	if opts.Version == normalize.V2_0 {
		if err := s.writeLine("#\\#CIF_2.0"); err != nil {
			return err
		}
	}
	for _, b := range doc.Blocks() {
		if err := s.writeLine("data_" + b.Code()); err != nil {
			return err
		}
		if err := s.writeContainer(b); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// state tracks output column and the running need-a-separator flag that
// every value/bracket/colon token consults (spec §4.5).
type state struct {
	w         *bufio.Writer
	opts      Options
	col       int
	needSpace bool
}

func (s *state) writeRaw(text string) error {
	_, err := s.w.WriteString(text)
	return err
}

func (s *state) newline() error {
	s.col = 0
	s.needSpace = false
	return s.writeRaw("\n")
}

func (s *state) writeLine(text string) error {
	if err := s.writeRaw(text); err != nil {
		return err
	}
	return s.newline()
}

func runeLen(s string) int { return len([]rune(s)) }

// writeToken emits tok, preceded by a separating space when s.needSpace is
// set, breaking the line first if tok would overflow it (spec §4.5's
// wrap-flag behavior). It leaves s.needSpace set for the next token.
func (s *state) writeToken(tok string) error {
	width := runeLen(tok)
	sep := 0
	if s.needSpace {
		sep = 1
	}
	if s.col > 0 && s.col+sep+width > s.opts.MaxLineLength {
		if err := s.newline(); err != nil {
			return err
		}
		sep = 0
	}
	if sep == 1 {
		if err := s.writeRaw(" "); err != nil {
			return err
		}
		s.col++
	}
	if err := s.writeRaw(tok); err != nil {
		return err
	}
	s.col += width
	s.needSpace = true
	return nil
}

// writeOpenDelim emits an opening bracket/brace: spaced from whatever
// precedes it, but leaves s.needSpace cleared so the first inner element
// binds directly to it.
func (s *state) writeOpenDelim(ch string) error {
	if err := s.writeToken(ch); err != nil {
		return err
	}
	s.needSpace = false
	return nil
}

func (s *state) writeContainer(c cif.Container) error {
	for _, l := range c.Loops() {
		if l.IsScalar() {
			if err := s.writeScalarLoop(l); err != nil {
				return err
			}
		} else {
			if err := s.writeLoop(l); err != nil {
				return err
			}
		}
	}
	for _, f := range c.Frames() {
		if err := s.writeFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) writeFrame(f *cif.Frame) error {
	if err := s.writeLine("save_" + f.Code()); err != nil {
		return err
	}
	if err := s.writeContainer(f); err != nil {
		return err
	}
	return s.writeLine("save_")
}

func (s *state) writeScalarLoop(l *cif.Loop) error {
	if l.Size() == 0 {
		return nil
	}
	pk, err := l.PacketAt(0)
	if err != nil {
		return err
	}
	names := l.Columns()
	for i, name := range names {
		v, err := pk.At(i)
		if err != nil {
			return err
		}
		if err := s.writeToken(name); err != nil {
			return err
		}
		if err := s.writeValue(v); err != nil {
			return err
		}
		if err := s.newline(); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) writeLoop(l *cif.Loop) error {
	if err := s.writeLine("loop_"); err != nil {
		return err
	}
	for _, name := range l.Columns() {
		if err := s.writeLine(name); err != nil {
			return err
		}
	}
	for i := 0; i < l.Size(); i++ {
		pk, err := l.PacketAt(i)
		if err != nil {
			return err
		}
		for j := range l.Columns() {
			v, err := pk.At(j)
			if err != nil {
				return err
			}
			if err := s.writeValue(v); err != nil {
				return err
			}
		}
		if err := s.newline(); err != nil {
			return err
		}
	}
	return nil
}

// numbText picks v's stored display text when it fits within a line by
// itself, falling back to scientific notation otherwise (spec §4.5, and
// the §8 "Line length" invariant, which carves out no exception for
// Numb the way it does for text blocks).
func (s *state) numbText(v *value.Value) string {
	disp := v.Display()
	if runeLen(disp) > s.opts.MaxLineLength {
		return v.DisplayScientific()
	}
	return disp
}

// writeValue picks the narrowest legal representation for v and emits it
// (spec §4.5).
func (s *state) writeValue(v *value.Value) error {
	switch v.Kind() {
	case value.Unknown:
		return s.writeScalarLiteral("?", v.IsQuoted())
	case value.NotApplicable:
		return s.writeScalarLiteral(".", v.IsQuoted())
	case value.Numb:
		return s.writeToken(s.numbText(v))
	case value.Char:
		return s.writeChar(v)
	case value.List:
		return s.writeList(v)
	case value.Table:
		return s.writeTable(v)
	default:
		return s.writeToken("?")
	}
}

func (s *state) writeScalarLiteral(lit string, quoted bool) error {
	if quoted {
		return s.writeToken("'" + lit + "'")
	}
	return s.writeToken(lit)
}

func (s *state) writeChar(v *value.Value) error {
	text := v.Text()
	if !v.IsQuoted() && bareSafe(text) && runeLen(text) <= s.opts.MaxLineLength {
		return s.writeToken(text)
	}
	// Content that can't fit on one line at all must go through the
	// foldable text-block form, even with no embedded newline.
	if strings.ContainsAny(text, "\n\r") || runeLen(text) > s.opts.MaxLineLength-2 {
		return s.writeTextBlock(text)
	}
	delim, ok := chooseQuote(text)
	if !ok {
		return s.writeTextBlock(text)
	}
	return s.writeToken(delim + text + delim)
}

// bareSafe reports whether text can be written as an unquoted SIMPLE_VALUE:
// non-empty, no whitespace or bracket/quote delimiters, and not one of the
// reserved literals or prefixes.
func bareSafe(text string) bool {
	if text == "" || text == "." || text == "?" {
		return false
	}
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r', '\'', '"', '[', ']', '{', '}':
			return false
		}
	}
	switch text[0] {
	case '_', '#', '$', ';':
		return false
	}
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "data_"), strings.HasPrefix(lower, "save_"),
		lower == "loop_", strings.HasPrefix(lower, "global_"), strings.HasPrefix(lower, "stop_"):
		return false
	}
	return true
}

// chooseQuote picks the narrowest single-line delimiter that does not
// appear within text followed by whitespace, ':', a bracket or a brace, or
// at its end (where the scanner would close the quote), per spec §4.5's
// preference order: ' then " then ''' then """.
func chooseQuote(text string) (string, bool) {
	for _, delim := range []string{"'", "\"", "'''", `"""`} {
		if !containsDelimCollision(text, delim) {
			return delim, true
		}
	}
	return "", false
}

func containsDelimCollision(text, delim string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], delim)
		if i < 0 {
			return false
		}
		pos := idx + i
		after := pos + len(delim)
		if after >= len(text) || isDelimBreak(rune(text[after])) {
			return true
		}
		idx = pos + 1
	}
}

func isDelimBreak(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
		r == ':' || r == '[' || r == ']' || r == '{' || r == '}'
}

func (s *state) writeList(v *value.Value) error {
	if err := s.writeOpenDelim("["); err != nil {
		return err
	}
	for i := 0; i < v.Size(); i++ {
		elem, err := v.At(i)
		if err != nil {
			return err
		}
		if err := s.writeValue(elem); err != nil {
			return err
		}
	}
	s.needSpace = false
	return s.writeToken("]")
}

func (s *state) writeTable(v *value.Value) error {
	if err := s.writeOpenDelim("{"); err != nil {
		return err
	}
	for _, key := range v.Keys() {
		item, _ := v.Item(key)
		delim, ok := chooseQuote(key)
		if !ok {
			delim = "'"
		}
		if err := s.writeToken(delim + key + delim + ":"); err != nil {
			return err
		}
		s.needSpace = false
		if err := s.writeValue(item); err != nil {
			return err
		}
	}
	s.needSpace = false
	return s.writeToken("}")
}

func (s *state) writeTextBlock(text string) error {
	if s.col > 0 {
		if err := s.newline(); err != nil {
			return err
		}
	}
	return writeFoldedTextBlock(s, text)
}

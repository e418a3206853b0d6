package writer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jbcif/cif"
	"github.com/jbcif/cif/normalize"
	"github.com/jbcif/cif/parser"
	"github.com/jbcif/cif/scanner"
	"github.com/jbcif/cif/value"
)

type stringDecoder struct {
	data []byte
	pos  int
}

func (d *stringDecoder) Fill(dst []byte) (int, error) {
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}
	n := copy(dst, d.data[d.pos:])
	d.pos += n
	return n, nil
}

func noopErrors(code scanner.ErrorCode, line, col int, snippet string, userData interface{}) int {
	return 0
}

func charValue(text string, quoted bool) *value.Value {
	v := value.New(value.Char)
	v.SetText(text, quoted)
	return v
}

func numbValue(t *testing.T, text string) *value.Value {
	t.Helper()
	v := value.New(value.Numb)
	if err := v.ParseNumb(text); err != nil {
		t.Fatalf("ParseNumb(%q): %v", text, err)
	}
	return v
}

func TestWriteScalarDelimiters(t *testing.T) {
	doc := cif.New(normalize.V1_1, 0)
	b, err := doc.CreateBlock("simple")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if err := b.SetValue("_bare", charValue("plain", false)); err != nil {
		t.Fatalf("SetValue bare: %v", err)
	}
	if err := b.SetValue("_needs_quote", charValue("has space", false)); err != nil {
		t.Fatalf("SetValue quoted: %v", err)
	}
	if err := b.SetValue("_apostrophe", charValue("don't 'quote' me", false)); err != nil {
		t.Fatalf("SetValue apostrophe: %v", err)
	}
	if err := b.SetValue("_number", numbValue(t, "5.123(4)")); err != nil {
		t.Fatalf("SetValue number: %v", err)
	}
	if err := b.SetValue("_unknown", value.New(value.Unknown)); err != nil {
		t.Fatalf("SetValue unknown: %v", err)
	}
	if err := b.SetValue("_na", value.New(value.NotApplicable)); err != nil {
		t.Fatalf("SetValue na: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "_bare plain\n") {
		t.Errorf("expected bare token, got:\n%s", out)
	}
	if !strings.Contains(out, `_needs_quote 'has space'`) {
		t.Errorf("expected single-quoted value, got:\n%s", out)
	}
	if !strings.Contains(out, `_apostrophe "don't 'quote' me"`) {
		t.Errorf("expected double-quoted value for apostrophe collision, got:\n%s", out)
	}
	if !strings.Contains(out, "_number 5.123(4)\n") {
		t.Errorf("expected verbatim Numb display text, got:\n%s", out)
	}
	if !strings.Contains(out, "_unknown ?\n") {
		t.Errorf("expected ? literal, got:\n%s", out)
	}
	if !strings.Contains(out, "_na .\n") {
		t.Errorf("expected . literal, got:\n%s", out)
	}
}

// TestWriteOverlengthNumbFallsBackToScientific checks spec §4.5's Numb
// fallback: a display text too wide to fit a line on its own must be
// re-rendered in scientific notation rather than emitted verbatim, since
// the §8 "Line length" invariant gives Numb no text-block-style carve-out.
// The source text below is a tiny value (10^-3000) spelled out in full
// plain-decimal precision, as a scanner might hand back a value parsed
// verbatim from an absurdly precise input line: its significant digit
// (a single "1") is dwarfed by 2999 leading zero characters that plain
// notation must reproduce but scientific notation can drop entirely.
func TestWriteOverlengthNumbFallsBackToScientific(t *testing.T) {
	huge := "0." + strings.Repeat("0", 2999) + "1"
	v := numbValue(t, huge)
	if v.Digits() != "1" || v.Scale() != 3000 {
		t.Fatalf("fixture digits/scale = %q/%d, want 1/3000", v.Digits(), v.Scale())
	}

	doc := cif.New(normalize.V1_1, 0)
	b, err := doc.CreateBlock("big")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if err := b.SetValue("_huge", v); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for i, line := range strings.Split(buf.String(), "\n") {
		if n := len([]rune(line)); n > defaultMaxLineLength {
			t.Fatalf("line %d has %d code points, exceeds %d:\n%s", i, n, defaultMaxLineLength, line)
		}
	}
	if strings.Contains(buf.String(), huge) {
		t.Fatalf("expected scientific fallback, got verbatim digits:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "1e-3000") {
		t.Fatalf("expected scientific notation '1e-3000', got:\n%s", buf.String())
	}

	doc2, err := parser.Parse(&stringDecoder{data: buf.Bytes()}, parser.Config{OnError: noopErrors})
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	b2, ok := doc2.GetBlock("big")
	if !ok {
		t.Fatalf("block not found after re-parse")
	}
	got, ok := b2.ScalarValue("_huge")
	if !ok {
		t.Fatalf("_huge not found after re-parse")
	}
	// A re-parsed bare value stays Char until Number or Su coerces it to
	// Numb; 10^-3000 underflows a double, so Number's error is expected.
	got.Number()
	if got.Sign() != v.Sign() || got.Digits() != v.Digits() || got.Scale() != v.Scale() {
		t.Fatalf("re-parsed sign/digits/scale = %d/%q/%d, want %d/%q/%d",
			got.Sign(), got.Digits(), got.Scale(), v.Sign(), v.Digits(), v.Scale())
	}
}

func TestWriteListAndTable(t *testing.T) {
	doc := cif.New(normalize.V2_0, 0)
	b, err := doc.CreateBlock("composite")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}

	list := value.New(value.List)
	list.Append(numbValue(t, "1"))
	list.Append(numbValue(t, "2"))
	list.Append(charValue("three", false))
	if err := b.SetValue("_list", list); err != nil {
		t.Fatalf("SetValue list: %v", err)
	}

	table := value.New(value.Table)
	table.SetNameVersion(normalize.V2_0)
	table.SetItem("a", numbValue(t, "1"))
	table.SetItem("b", numbValue(t, "2"))
	if err := b.SetValue("_table", table); err != nil {
		t.Fatalf("SetValue table: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{Version: normalize.V2_0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "_list [1 2 three]") {
		t.Errorf("expected tightly-bracketed list, got:\n%s", out)
	}
	if !strings.Contains(out, "_table {'a':1 'b':2}") {
		t.Errorf("expected tightly-bracketed table, got:\n%s", out)
	}
}

func TestWriteLoop(t *testing.T) {
	doc := cif.New(normalize.V1_1, 0)
	b, err := doc.CreateBlock("loopy")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	l, err := b.CreateLoop("_atom_site", "_atom_site_label", "_atom_site_type")
	if err != nil {
		t.Fatalf("CreateLoop: %v", err)
	}
	pk1 := l.AddPacket()
	pk1.SetItem("_atom_site_label", charValue("C1", false))
	pk1.SetItem("_atom_site_type", charValue("C", false))
	pk2 := l.AddPacket()
	pk2.SetItem("_atom_site_label", charValue("O1", false))
	pk2.SetItem("_atom_site_type", charValue("O", false))

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "loop_\n_atom_site_label\n_atom_site_type\nC1 C\nO1 O\n") {
		t.Errorf("unexpected loop rendering:\n%s", out)
	}
}

// TestWriteFoldedTextBlockRoundTrip checks a long line of mixed words with
// no embedded newline (3,499 code points here): the writer must fold it into a
// text block with every line within the configured length, and reading
// the result back must reproduce the original text exactly.
func TestWriteFoldedTextBlockRoundTrip(t *testing.T) {
	words := make([]string, 0, 700)
	for i := 0; i < 700; i++ {
		words = append(words, strings.Repeat("x", i%7+1))
	}
	long := strings.Join(words, " ")
	if len([]rune(long)) < 2048 {
		t.Fatalf("test text too short: %d runes", len([]rune(long)))
	}

	doc := cif.New(normalize.V1_1, 0)
	b, err := doc.CreateBlock("folded")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if err := b.SetValue("_long_text", charValue(long, true)); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for i, line := range strings.Split(buf.String(), "\n") {
		if n := len([]rune(line)); n > defaultMaxLineLength {
			t.Fatalf("line %d has %d code points, exceeds %d:\n%s", i, n, defaultMaxLineLength, line)
		}
	}

	doc2, err := parser.Parse(&stringDecoder{data: buf.Bytes()}, parser.Config{OnError: noopErrors})
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	rb, ok := doc2.GetBlock("folded")
	if !ok {
		t.Fatalf("re-parsed document missing block 'folded'")
	}
	got, ok := rb.GetValue("_long_text")
	if !ok {
		t.Fatalf("re-parsed block missing _long_text")
	}
	if got.Text() != long {
		t.Fatalf("round-trip mismatch: got %d runes, want %d runes", len([]rune(got.Text())), len([]rune(long)))
	}
}

// TestWriteTextBlockWithEmbeddedSemicolonAndFold exercises a body whose
// first line would itself be mistaken for a fold/prefix marker, and whose
// content starts a line with ';' — both must trigger the prefix protocol.
func TestWriteTextBlockWithEmbeddedSemicolonAndFold(t *testing.T) {
	text := "\n;this looks like a delimiter\nsecond line"

	doc := cif.New(normalize.V1_1, 0)
	b, err := doc.CreateBlock("tricky")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if err := b.SetValue("_x", charValue(text, true)); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	doc2, err := parser.Parse(&stringDecoder{data: buf.Bytes()}, parser.Config{OnError: noopErrors})
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	rb, ok := doc2.GetBlock("tricky")
	if !ok {
		t.Fatalf("re-parsed document missing block 'tricky'")
	}
	got, ok := rb.GetValue("_x")
	if !ok {
		t.Fatalf("re-parsed block missing _x")
	}
	if got.Text() != text {
		t.Fatalf("round-trip mismatch: got %q, want %q", got.Text(), text)
	}
}

// TestWriteDocumentRoundTrip covers blocks, a save frame, and a loop
// surviving a full write-then-parse cycle.
func TestWriteDocumentRoundTrip(t *testing.T) {
	doc := cif.New(normalize.V2_0, 0)
	b, err := doc.CreateBlock("outer")
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if err := b.SetValue("_title", charValue("a test structure", false)); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	fr, err := b.CreateFrame("inner")
	if err != nil {
		t.Fatalf("CreateFrame: %v", err)
	}
	if err := fr.SetValue("_note", charValue("nested", false)); err != nil {
		t.Fatalf("SetValue frame: %v", err)
	}
	l, err := b.CreateLoop("_atom_site", "_atom_site_label")
	if err != nil {
		t.Fatalf("CreateLoop: %v", err)
	}
	l.AddPacket().SetItem("_atom_site_label", charValue("C1", false))
	l.AddPacket().SetItem("_atom_site_label", charValue("O1", false))

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{Version: normalize.V2_0}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	doc2, err := parser.Parse(&stringDecoder{data: buf.Bytes()}, parser.Config{DefaultCIF2: true, OnError: noopErrors})
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	rb, ok := doc2.GetBlock("outer")
	if !ok {
		t.Fatalf("missing block 'outer'")
	}
	title, ok := rb.GetValue("_title")
	if !ok || title.Text() != "a test structure" {
		t.Fatalf("unexpected _title: %+v", title)
	}
	rf, ok := rb.GetFrame("inner")
	if !ok {
		t.Fatalf("missing frame 'inner'")
	}
	note, ok := rf.GetValue("_note")
	if !ok || note.Text() != "nested" {
		t.Fatalf("unexpected _note: %+v", note)
	}
	rl, ok := rb.GetLoopByCategory("_atom_site")
	if !ok {
		t.Fatalf("missing loop '_atom_site'")
	}
	if rl.Size() != 2 {
		t.Fatalf("expected 2 packets, got %d", rl.Size())
	}
	pk0, err := rl.PacketAt(0)
	if err != nil {
		t.Fatalf("PacketAt(0): %v", err)
	}
	v0, _ := pk0.Item("_atom_site_label")
	if v0.Text() != "C1" {
		t.Fatalf("expected C1, got %q", v0.Text())
	}
}

// Package parser drives the scanner's token stream into document-model
// build events: container/loop/packet/value construction, value-kind
// inference, reserved-word detection, and frame-depth handling, all
// reported through a single error callback (spec §4.4).
package parser

import (
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/jbcif/cif"
	"github.com/jbcif/cif/ciflog"
	"github.com/jbcif/cif/scanner"
	"github.com/jbcif/cif/value"
)

// Config configures a parse. A zero Config parses a stream with
// auto-detected encoding/version, unbounded frame depth, and the default
// 2048-code-point line length.
type Config struct {
	DefaultCIF2      bool
	DefaultConverter scanner.Converter
	MaxFrameDepth    int
	MaxLineLength    int
	OnError          scanner.ErrorCallback
	UserData         interface{}
}

// Parse reads a full CIF stream from dec and builds a *cif.CIF. Parse
// errors are reported through cfg.OnError; Parse itself only returns a
// non-nil error when the callback aborts (returns nonzero). An error from
// dec ends the scan as if the stream had ended there; it is not returned.
func Parse(dec scanner.ByteDecoder, cfg Config) (*cif.CIF, error) {
	prefix := make([]byte, 64)
	n, _ := dec.Fill(prefix)
	prefix = prefix[:n]

	defaultConv := cfg.DefaultConverter
	if defaultConv == nil {
		defaultConv = scanner.NewWindows1252Converter()
	}
	conv, version, skip := scanner.DetectEncoding(prefix, cfg.DefaultCIF2, defaultConv)

	replay := append([]byte(nil), prefix[skip:]...)
	pd := &prefixDecoder{prefix: replay, rest: dec}

	sc := scanner.NewScanner(pd, conv, version, cfg.MaxLineLength, cfg.OnError, cfg.UserData)
	p := &parser{
		sc:      sc,
		doc:     cif.New(version, cfg.MaxFrameDepth),
		cfg:     cfg,
		session: uuid.NewV4(),
	}
	ciflog.Log().Debugf("parse %s starting (version=%v, encoding=%s)", p.session, version, conv.Name())
	err := p.run()
	if err != nil {
		ciflog.Log().Infof("parse %s stopped: %v", p.session, err)
	} else {
		ciflog.Log().Debugf("parse %s complete: %d block(s)", p.session, len(p.doc.Blocks()))
	}
	return p.doc, err
}

// prefixDecoder replays the bytes already consumed for encoding
// detection before continuing from the underlying decoder.
type prefixDecoder struct {
	prefix []byte
	rest   scanner.ByteDecoder
}

func (d *prefixDecoder) Fill(dst []byte) (int, error) {
	if len(d.prefix) > 0 {
		n := copy(dst, d.prefix)
		d.prefix = d.prefix[n:]
		return n, nil
	}
	return d.rest.Fill(dst)
}

type abortError struct{}

func (abortError) Error() string { return "parser: error callback aborted the parse" }

type parser struct {
	sc      *scanner.Scanner
	doc     *cif.CIF
	cfg     Config
	session uuid.UUID

	stack []cif.Container // stack[0] is the current block; rest are open frames
}

func (p *parser) report(code scanner.ErrorCode, line, col int, snippet string) error {
	if p.cfg.OnError == nil {
		return nil
	}
	if p.cfg.OnError(code, line, col, snippet, p.cfg.UserData) != 0 {
		return abortError{}
	}
	return nil
}

func (p *parser) current() cif.Container {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// next returns the next token, skipping whitespace/comments; lexical
// error tokens are reported and skipped (the scanner already emitted a
// substitution so the stream stays aligned).
func (p *parser) next() (scanner.Token, error) {
	for {
		tok := p.sc.Next()
		switch tok.Kind {
		case scanner.Whitespace:
			continue
		case scanner.ErrorToken:
			if err := p.report(tok.ErrCode, tok.Line, tok.Column, tok.Text); err != nil {
				return tok, err
			}
			continue
		}
		return tok, nil
	}
}

func (p *parser) run() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case scanner.EOF:
			if len(p.stack) > 1 {
				return p.report(ErrEOFInFrame, tok.Line, tok.Column, "")
			}
			return nil
		case scanner.BlockHeader:
			if err := p.handleBlockHeader(tok); err != nil {
				return err
			}
		case scanner.FrameHeader:
			if err := p.handleFrameHeader(tok); err != nil {
				return err
			}
		case scanner.FrameTerminator:
			if err := p.handleFrameTerminator(tok); err != nil {
				return err
			}
		case scanner.Loop:
			if err := p.handleLoop(tok); err != nil {
				return err
			}
		case scanner.DataName:
			if err := p.handleItem(tok); err != nil {
				return err
			}
		default:
			if err := p.report(ErrUnexpectedValue, tok.Line, tok.Column, tok.Text); err != nil {
				return err
			}
		}
	}
}

func (p *parser) handleBlockHeader(tok scanner.Token) error {
	b, err := p.doc.CreateBlock(tok.Text)
	if err != nil {
		if rerr := p.report(ErrDuplicateBlockCode, tok.Line, tok.Column, tok.Text); rerr != nil {
			return rerr
		}
		return nil
	}
	p.stack = []cif.Container{b}
	return nil
}

func (p *parser) handleFrameHeader(tok scanner.Token) error {
	cur := p.current()
	if cur == nil {
		return p.report(ErrNoBlockHeader, tok.Line, tok.Column, tok.Text)
	}
	f, err := cur.CreateFrame(tok.Text)
	if err != nil {
		code := ErrDuplicateFrameCode
		if err == cif.ErrMaxFrameDepth {
			code = ErrFrameNotAllowed
		}
		if rerr := p.report(code, tok.Line, tok.Column, tok.Text); rerr != nil {
			return rerr
		}
		// recover by treating the frame's body as belonging to its parent.
		return nil
	}
	p.stack = append(p.stack, f)
	return nil
}

func (p *parser) handleFrameTerminator(tok scanner.Token) error {
	if len(p.stack) <= 1 {
		return p.report(ErrUnexpectedTerminator, tok.Line, tok.Column, "")
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *parser) handleItem(tok scanner.Token) error {
	cur := p.current()
	if cur == nil {
		return p.report(ErrNoBlockHeader, tok.Line, tok.Column, tok.Text)
	}
	valTok, err := p.next()
	if err != nil {
		return err
	}
	v, verr := p.readValue(valTok)
	if verr != nil {
		return verr
	}
	if err := cur.SetValue(tok.Text, v); err != nil {
		return p.report(ErrDuplicateItemName, tok.Line, tok.Column, tok.Text)
	}
	return nil
}

func (p *parser) handleLoop(tok scanner.Token) error {
	cur := p.current()
	if cur == nil {
		return p.report(ErrNoBlockHeader, tok.Line, tok.Column, "")
	}
	var columns []string
	for {
		next, err := p.next()
		if err != nil {
			return err
		}
		if next.Kind != scanner.DataName {
			return p.finishLoop(cur, columns, next)
		}
		columns = append(columns, next.Text)
	}
}

func (p *parser) finishLoop(cur cif.Container, columns []string, firstValueTok scanner.Token) error {
	if len(columns) == 0 {
		return p.report(ErrMissingValue, firstValueTok.Line, firstValueTok.Column, "")
	}
	// The loop's category is its names' common prefix cut back to the last
	// '_' or '.', or the first name when that is empty or already taken.
	prefix := columns[0]
	for _, name := range columns[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	category := columns[0]
	if i := strings.LastIndexAny(prefix, "_."); i > 0 {
		if _, taken := cur.GetLoopByCategory(prefix[:i]); !taken {
			category = prefix[:i]
		}
	}
	l, err := cur.CreateLoop(category, columns...)
	if err != nil {
		if rerr := p.report(ErrDuplicateItemName, firstValueTok.Line, firstValueTok.Column, ""); rerr != nil {
			return rerr
		}
		return nil
	}
	var values []*value.Value
	tok := firstValueTok
	for isValueStart(tok) {
		v, verr := p.readValue(tok)
		if verr != nil {
			return verr
		}
		values = append(values, v)
		tok, err = p.next()
		if err != nil {
			return err
		}
	}
	if len(values)%len(columns) != 0 {
		if rerr := p.report(ErrPartialPacket, tok.Line, tok.Column, ""); rerr != nil {
			return rerr
		}
	}
	for i := 0; i+len(columns) <= len(values); i += len(columns) {
		pk := l.AddPacket()
		for j, colName := range columns {
			pk.SetItem(colName, values[i+j])
		}
	}
	return p.dispatch(tok)
}

// dispatch re-enters the main grammar switch for a token already read
// (used when a sub-rule reads one token past its own production).
func (p *parser) dispatch(tok scanner.Token) error {
	switch tok.Kind {
	case scanner.EOF:
		if len(p.stack) > 1 {
			return p.report(ErrEOFInFrame, tok.Line, tok.Column, "")
		}
		return nil
	case scanner.BlockHeader:
		return p.handleBlockHeader(tok)
	case scanner.FrameHeader:
		return p.handleFrameHeader(tok)
	case scanner.FrameTerminator:
		return p.handleFrameTerminator(tok)
	case scanner.Loop:
		return p.handleLoop(tok)
	case scanner.DataName:
		return p.handleItem(tok)
	default:
		return p.report(ErrUnexpectedValue, tok.Line, tok.Column, tok.Text)
	}
}

func isValueStart(tok scanner.Token) bool {
	switch tok.Kind {
	case scanner.SimpleValue, scanner.TextField, scanner.ListOpen, scanner.TableOpen:
		return true
	default:
		return false
	}
}

// readValue consumes one complete value starting at tok (which may
// recurse into nested lists/tables).
func (p *parser) readValue(tok scanner.Token) (*value.Value, error) {
	switch tok.Kind {
	case scanner.SimpleValue:
		return p.readSimpleValue(tok)
	case scanner.TextField:
		v := value.New(value.Char)
		v.SetText(tok.Text, true)
		return v, nil
	case scanner.ListOpen:
		return p.readList()
	case scanner.TableOpen:
		return p.readTable()
	case scanner.Loop, scanner.BlockHeader, scanner.FrameHeader, scanner.FrameTerminator:
		if err := p.report(ErrReservedWord, tok.Line, tok.Column, tok.Text); err != nil {
			return nil, err
		}
		return value.New(value.Unknown), nil
	default:
		if err := p.report(ErrMissingValue, tok.Line, tok.Column, tok.Text); err != nil {
			return nil, err
		}
		return value.New(value.Unknown), nil
	}
}

func (p *parser) readSimpleValue(tok scanner.Token) (*value.Value, error) {
	if tok.Quote == scanner.Bare {
		switch tok.Text {
		case ".":
			return value.New(value.NotApplicable), nil
		case "?":
			return value.New(value.Unknown), nil
		}
		switch toLowerASCII(tok.Text) {
		case "global_", "stop_":
			if err := p.report(ErrReservedWord, tok.Line, tok.Column, tok.Text); err != nil {
				return nil, err
			}
			return value.New(value.Unknown), nil
		}
	}
	v := value.New(value.Char)
	v.SetText(tok.Text, tok.Quote != scanner.Bare)
	return v, nil
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

func (p *parser) readList() (*value.Value, error) {
	v := value.New(value.List)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == scanner.ListClose {
			return v, nil
		}
		elem, err := p.readValue(tok)
		if err != nil {
			return nil, err
		}
		v.Append(elem)
	}
}

// nilErrCode is the scanner's reserved zero code (never assigned to a
// real error), reused here as checkTableKey's "key is fine" result.
const nilErrCode = ErrCode(0)

// checkTableKey validates a TableKey token against spec §8 scenario 5 and
// the table-key error kinds of §7: a key spelled without any delimiter
// (tok.Quote == scanner.Bare) is unquoted; a bare "." or "?" is the null/
// unknown literal used where a string key belongs; a key spelled with
// the multi-line triple-quote delimiters is misquoted, since a table key
// is a single-line delimited string, not a text block.
func checkTableKey(tok scanner.Token) ErrCode {
	switch tok.Quote {
	case scanner.Bare:
		if tok.Text == "." || tok.Text == "?" {
			return ErrNullKey
		}
		return ErrUnquotedKey
	case scanner.TripleSingleQuoted, scanner.TripleDoubleQuoted:
		return ErrMisquotedKey
	default:
		return nilErrCode
	}
}

func (p *parser) readTable() (*value.Value, error) {
	v := value.New(value.Table)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == scanner.TableClose {
			return v, nil
		}
		if tok.Kind != scanner.TableKey {
			if rerr := p.report(ErrMissingTableKey, tok.Line, tok.Column, tok.Text); rerr != nil {
				return nil, rerr
			}
			continue
		}
		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		elem, err := p.readValue(valTok)
		if err != nil {
			return nil, err
		}
		if keyErr := checkTableKey(tok); keyErr != nilErrCode {
			if rerr := p.report(keyErr, tok.Line, tok.Column, tok.Text); rerr != nil {
				return nil, rerr
			}
			continue
		}
		if serr := v.SetItem(tok.Text, elem); serr != nil {
			if rerr := p.report(ErrUnquotedKey, tok.Line, tok.Column, tok.Text); rerr != nil {
				return nil, rerr
			}
		}
	}
}

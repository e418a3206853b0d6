package scanner

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// UTF8Converter decodes UTF-8 byte sequences directly; it is the default
// converter for CIF 2.0 streams (spec §4.3).
type UTF8Converter struct{}

func (UTF8Converter) Name() string { return "utf-8" }

func (UTF8Converter) Decode(src []byte, dst []rune, onError func(ConvertResult) rune) (int, []rune) {
	consumed := 0
	for consumed < len(src) {
		r, size := utf8.DecodeRune(src[consumed:])
		if r == utf8.RuneError && size <= 1 {
			if size == 0 {
				break // incomplete sequence at end of buffer; wait for more bytes
			}
			dst = append(dst, onError(ConvertResult{Invalid: true}))
			consumed++
			continue
		}
		dst = append(dst, r)
		consumed += size
	}
	return consumed, dst
}

// UTF16Converter decodes UTF-16 (as detected via BOM) into runes.
type UTF16Converter struct {
	BigEndian bool
}

func (c UTF16Converter) Name() string {
	if c.BigEndian {
		return "utf-16be"
	}
	return "utf-16le"
}

func (c UTF16Converter) Decode(src []byte, dst []rune, onError func(ConvertResult) rune) (int, []rune) {
	consumed := 0
	for consumed+2 <= len(src) {
		u := c.unit(src[consumed:])
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if consumed+4 > len(src) {
				return consumed, dst // wait for the low surrogate
			}
			lo := c.unit(src[consumed+2:])
			if lo < 0xDC00 || lo > 0xDFFF {
				dst = append(dst, onError(ConvertResult{Invalid: true}))
				consumed += 2
				continue
			}
			r := rune(0x10000 + (int(u)-0xD800)<<10 + (int(lo) - 0xDC00))
			dst = append(dst, r)
			consumed += 4
		case u >= 0xDC00 && u <= 0xDFFF:
			dst = append(dst, onError(ConvertResult{Invalid: true}))
			consumed += 2
		default:
			dst = append(dst, rune(u))
			consumed += 2
		}
	}
	return consumed, dst
}

func (c UTF16Converter) unit(b []byte) uint16 {
	if c.BigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

// CharmapConverter decodes a single-byte legacy encoding via
// golang.org/x/text/encoding/charmap, used as the default converter for
// CIF 1.1 streams that declare no BOM (spec §4, DOMAIN STACK).
type CharmapConverter struct {
	enc  *charmap.Charmap
	name string
}

// NewWindows1252Converter returns the Windows-1252 default converter, a
// common legacy default for CIF 1.1 streams with no BOM. A handful of
// Windows-1252 byte values are unassigned and decode to utf8.RuneError;
// those are reported through onError as Unmapped.
func NewWindows1252Converter() CharmapConverter {
	return CharmapConverter{enc: charmap.Windows1252, name: "windows-1252"}
}

func (c CharmapConverter) Name() string { return c.name }

func (c CharmapConverter) Decode(src []byte, dst []rune, onError func(ConvertResult) rune) (int, []rune) {
	var buf [utf8.UTFMax]byte
	dec := c.enc.NewDecoder()
	for _, b := range src {
		n, _, err := dec.Transform(buf[:], []byte{b}, true)
		r, size := utf8.DecodeRune(buf[:n])
		if err != nil || r == utf8.RuneError && size <= 1 {
			dst = append(dst, onError(ConvertResult{Unmapped: true}))
			continue
		}
		dst = append(dst, r)
	}
	return len(src), dst
}

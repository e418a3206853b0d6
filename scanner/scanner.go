// Package scanner turns a byte stream into a stream of CIF tokens:
// encoding detection, byte-to-character conversion with substitution-
// character error recovery, and token classification (spec §4.3).
package scanner

import (
	"errors"
	"io"

	"github.com/jbcif/cif/normalize"
)

// ByteDecoder is the abstract byte source the scanner reads from (spec
// §6): Fill appends up to len(dst) bytes into dst and reports how many
// were read. It returns io.EOF once no further bytes are available.
type ByteDecoder interface {
	Fill(dst []byte) (n int, err error)
}

// ErrDecode is wrapped by a ByteDecoder to report an I/O failure distinct
// from end-of-stream.
var ErrDecode = errors.New("scanner: byte decoder error")

// SubstitutionPolicy chooses the replacement rune emitted for an invalid
// or unmapped byte sequence from the stream's CIF version alone; it is
// not told which kind of error occurred. The scanner itself always uses
// DefaultSubstitution.
type SubstitutionPolicy func(version normalize.Version) rune

// DefaultSubstitution returns U+FFFD for CIF 2.0 streams and U+001A
// (SUB) for CIF 1.1 streams, per spec §4.3.
func DefaultSubstitution(version normalize.Version) rune {
	if version == normalize.V2_0 {
		return '�'
	}
	return ''
}

// ConvertResult reports one decoding step's outcome.
type ConvertResult struct {
	Invalid  bool // byte sequence could not be decoded in this encoding
	Unmapped bool // code unit decoded but has no Unicode mapping
}

// Converter turns bytes into runes, one logical unit at a time, invoking
// onError for each invalid or unmapped unit encountered (spec §4.3, §6).
type Converter interface {
	// Decode consumes a prefix of src, appending the runes it produces to
	// dst, and returns the number of bytes consumed. onError is called
	// once per invalid/unmapped unit; its return value is appended to dst
	// in place of the unit that failed.
	Decode(src []byte, dst []rune, onError func(ConvertResult) rune) (consumed int, out []rune)
	// Name identifies the encoding, e.g. "utf-8" or "windows-1252".
	Name() string
}

// cif2Magic is the UTF-8 representation of the CIF 2.0 magic code
// ("#\#CIF_2.0") that, at offset 0, forces UTF-8 + version 2 regardless
// of caller defaults (spec §4.3).
const cif2Magic = "#\\#CIF_2.0"

// DetectEncoding implements the encoding-detection order of spec §4.3:
// (1) a recognizable BOM; (2) the CIF 2.0 magic code at offset 0; (3) the
// caller's CIF-2.0-by-default opt-in; (4) the caller-supplied default
// encoding/version.
func DetectEncoding(data []byte, defaultCIF2 bool, defaultConverter Converter) (conv Converter, version normalize.Version, skip int) {
	if name, n, ok := detectBOM(data); ok {
		return converterForBOMEncoding(name), normalize.V2_0, n
	}
	if len(data) >= len(cif2Magic) && string(data[:len(cif2Magic)]) == cif2Magic {
		return UTF8Converter{}, normalize.V2_0, 0
	}
	if defaultCIF2 {
		return UTF8Converter{}, normalize.V2_0, 0
	}
	return defaultConverter, normalize.V1_1, 0
}

func detectBOM(data []byte) (name string, n int, ok bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return "utf-8", 3, true
	case len(data) >= 4 && data[0] == 0xFF && data[1] == 0xFE && data[2] == 0x00 && data[3] == 0x00:
		return "utf-32le", 4, true
	case len(data) >= 4 && data[0] == 0x00 && data[1] == 0x00 && data[2] == 0xFE && data[3] == 0xFF:
		return "utf-32be", 4, true
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return "utf-16le", 2, true
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return "utf-16be", 2, true
	}
	return "", 0, false
}

func converterForBOMEncoding(name string) Converter {
	switch name {
	case "utf-16le":
		return UTF16Converter{BigEndian: false}
	case "utf-16be":
		return UTF16Converter{BigEndian: true}
	default:
		return UTF8Converter{}
	}
}

var errShortRead = io.ErrUnexpectedEOF

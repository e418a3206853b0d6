// Package normalize canonicalizes CIF block codes, frame codes, item
// names, and table keys so that lookups can compare normalized forms
// only. It is shared by the document model and the value package's table
// implementation (spec §4.2).
package normalize

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Version selects the case-folding rule: CIF 1.1 folds ASCII letters
// only, CIF 2.0 folds the full Unicode case-folding table.
type Version int

const (
	V1_1 Version = iota
	V2_0
)

var (
	ErrEmpty        = errors.New("normalize: name is empty")
	ErrInvalidChar  = errors.New("normalize: name contains whitespace, a control character, or an invalid code point")
	ErrSurrogate    = errors.New("normalize: name contains an unpaired surrogate")
	foldV2          = cases.Fold()
)

// Name canonicalizes s for the given CIF version. It rejects empty
// strings, strings containing whitespace or control characters, and
// invalid UTF-8 (which includes unpaired surrogates, since those cannot
// be encoded as valid UTF-8 on their own).
func Name(s string, version Version) (string, error) {
	if s == "" {
		return "", ErrEmpty
	}
	if !utf8.ValidString(s) {
		return "", ErrSurrogate
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", ErrInvalidChar
		}
	}

	nfc := norm.NFC.String(s)
	if version == V2_0 {
		return foldV2.String(nfc), nil
	}
	return asciiFold(nfc), nil
}

func asciiFold(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			runes[i] = r - 'A' + 'a'
		}
	}
	return string(runes)
}

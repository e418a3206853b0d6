package parser

import "github.com/jbcif/cif/scanner"

// Structural and grammar error codes (spec §7), sharing scanner.ErrorCode's
// space but numbered past it so the two layers can report through one
// ErrorCallback without code collisions.
const (
	ErrNoBlockHeader ErrCode = iota + 100
	ErrFrameNotAllowed
	ErrMissingFrameTerminator
	ErrUnexpectedTerminator
	ErrEOFInFrame
	ErrReservedWord
	ErrMissingValue
	ErrUnexpectedValue
	ErrUnexpectedDelimiter
	ErrMissingDelimiter
	ErrMissingTableKey
	ErrUnquotedKey
	ErrMisquotedKey
	ErrNullKey
	ErrMissingTextFieldPrefix
	ErrDuplicateItemName
	ErrDuplicateBlockCode
	ErrDuplicateFrameCode
	ErrPartialPacket
	ErrInvalidNumber
)

// ErrCode is scanner.ErrorCode under a package-local name, so callers of
// this package's ErrorCallback don't need to import scanner just to
// switch on a code.
type ErrCode = scanner.ErrorCode

package scanner

// ErrorCode enumerates the taxonomy of spec §7. Scanner-level codes cover
// encoding/character and lexical errors; the parser package extends this
// same numbering for its own structural/grammar codes so that a single
// ErrorCallback signature serves both layers.
type ErrorCode int

const (
	_ ErrorCode = iota
	ErrInvalidChar
	ErrUnmappedChar
	ErrDisallowedChar
	ErrWrongEncoding
	ErrMissingSpace
	ErrMissingEndQuote
	ErrUnclosedText
	ErrOverlengthLine
	ErrDisallowedInitialChar
)

// ErrorCallback is the single channel through which the scanner and
// parser report recoverable errors (spec §4.4, §6, §7): code, 1-based
// line and column, a surrounding snippet, and the caller's opaque data.
// Returning 0 continues; nonzero aborts the scan/parse.
type ErrorCallback func(code ErrorCode, line, column int, snippet string, userData interface{}) int

package value

import "errors"

// Sentinel errors for the value subsystem, following the kind of small,
// direct error values the rest of this codebase favors over a generic
// error-code enum.
var (
	ErrInvalidNumber = errors.New("value: text does not match the NUMB grammar")
	ErrInvalidIndex  = errors.New("value: index out of range")
	ErrInvalidKey    = errors.New("value: table key is not a single-line string of valid CIF value characters")
	ErrWrongKind     = errors.New("value: operation not valid for this value's kind")
	ErrSuRule        = errors.New("value: su_rule must be >= 2")
	ErrOverflow      = errors.New("value: number out of double range")
	ErrCorrupt       = errors.New("value: corrupt serialized value")
)

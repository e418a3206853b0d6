// Package cif implements the in-memory CIF document model: the CIF
// handle itself, data blocks and save frames (both satisfying Container),
// loops, packets, and the walk protocol over them (spec §3, §4.2).
package cif

import "errors"

// Sentinel errors for document-model misuse. Parse-time syntax errors are
// reported through the parser's error callback instead (spec §4.4, §7);
// these are the programmatic-API errors a caller can hit building or
// editing a document directly.
var (
	ErrDuplicateBlockCode = errors.New("cif: duplicate block code")
	ErrDuplicateFrameCode = errors.New("cif: duplicate frame code")
	ErrDuplicateItemName  = errors.New("cif: item name already used by another loop in this container")
	ErrInvalidName        = errors.New("cif: invalid block code, frame code, or item name")
	ErrNoSuchLoop         = errors.New("cif: no such loop")
	ErrNoSuchFrame        = errors.New("cif: no such frame")
	ErrNoSuchItem         = errors.New("cif: no such item")
	ErrEmptyLoop          = errors.New("cif: loop has no columns")
	ErrWrongLoop          = errors.New("cif: item does not belong to this loop")
	ErrPartialPacket      = errors.New("cif: packet does not supply a value for every column")
	ErrMaxFrameDepth      = errors.New("cif: save frame nesting exceeds the configured maximum")
	ErrIteratorStale      = errors.New("cif: packet iterator invalidated by a concurrent loop mutation")
	ErrIteratorClosed     = errors.New("cif: packet iterator already closed")
	ErrInvalidPacketIndex = errors.New("cif: packet index out of range")
	ErrInvalidIndex       = errors.New("cif: column index out of range")
)

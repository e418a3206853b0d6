package cif

import (
	"github.com/jbcif/cif/cifcache"
	"github.com/jbcif/cif/normalize"
)

// CIF is the root document handle: an ordered set of uniquely-coded data
// blocks (spec §3).
type CIF struct {
	version       normalize.Version
	maxFrameDepth int // 0 = unbounded (spec §6, resolving Open Question 9(b))
	nameCache     *cifcache.NameCache

	blocks      []*Block
	blockByCode map[string]*Block
}

// New creates an empty CIF document for the given version. maxFrameDepth
// bounds save-frame nesting; 0 means unbounded.
func New(version normalize.Version, maxFrameDepth int) *CIF {
	nc, _ := cifcache.NewNameCache(0)
	return &CIF{
		version:       version,
		maxFrameDepth: maxFrameDepth,
		nameCache:     nc,
		blockByCode:   make(map[string]*Block),
	}
}

// Version reports the document's CIF version, which governs name
// normalization (spec §4.2).
func (d *CIF) Version() normalize.Version { return d.version }

// MaxFrameDepth returns the configured nesting bound, or 0 for unbounded.
func (d *CIF) MaxFrameDepth() int { return d.maxFrameDepth }

// normalizeName canonicalizes s for the document's version, serving
// repeated lookups of the same spelling (common across a loop's many
// packets) from d.nameCache instead of renormalizing every time.
func (d *CIF) normalizeName(s string) (string, error) {
	if d.nameCache != nil {
		return d.nameCache.Name(s, d.version)
	}
	return normalize.Name(s, d.version)
}

// CreateBlock adds a new data block with the given code.
func (d *CIF) CreateBlock(code string) (*Block, error) {
	norm, err := d.normalizeName(code)
	if err != nil {
		return nil, ErrInvalidName
	}
	if _, exists := d.blockByCode[norm]; exists {
		return nil, ErrDuplicateBlockCode
	}
	b := &Block{containerBase: newContainerBase(d, code, norm)}
	d.blockByCode[norm] = b
	d.blocks = append(d.blocks, b)
	return b, nil
}

// GetBlock looks up a block by code.
func (d *CIF) GetBlock(code string) (*Block, bool) {
	norm, err := d.normalizeName(code)
	if err != nil {
		return nil, false
	}
	b, ok := d.blockByCode[norm]
	return b, ok
}

// DestroyBlock removes a block and everything it owns.
func (d *CIF) DestroyBlock(code string) error {
	norm, err := d.normalizeName(code)
	if err != nil {
		return ErrInvalidName
	}
	b, ok := d.blockByCode[norm]
	if !ok {
		return ErrNoSuchItem
	}
	delete(d.blockByCode, norm)
	for i, existing := range d.blocks {
		if existing == b {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			break
		}
	}
	return nil
}

// Blocks returns the document's blocks in creation order.
func (d *CIF) Blocks() []*Block {
	out := make([]*Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

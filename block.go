package cif

// Block is a top-level CIF data block (spec §3).
type Block struct {
	containerBase
}

var _ Container = (*Block)(nil)

// CreateFrame creates a save frame directly within b.
func (b *Block) CreateFrame(code string) (*Frame, error) {
	return createFrame(b.doc, &b.containerBase, nil, 1, code)
}

// GetFrame looks up a save frame by code, among b's direct children.
func (b *Block) GetFrame(code string) (*Frame, bool) {
	norm, err := b.doc.normalizeName(code)
	if err != nil {
		return nil, false
	}
	f, ok := b.frameByCode[norm]
	return f, ok
}

// DestroyFrame removes a direct child save frame.
func (b *Block) DestroyFrame(code string) error {
	return destroyFrame(b.doc, &b.containerBase, code)
}

// Frames returns b's direct child save frames.
func (b *Block) Frames() []*Frame {
	out := make([]*Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

package cif

// Frame is a save frame nested within a block or another frame (spec §3).
type Frame struct {
	containerBase
	parent Container
	depth  int
}

var _ Container = (*Frame)(nil)

// Parent returns the container f was created within.
func (f *Frame) Parent() Container { return f.parent }

// Depth returns f's nesting depth (1 for a frame created directly in a
// block, 2 for a frame nested within that, and so on).
func (f *Frame) Depth() int { return f.depth }

// CreateFrame creates a save frame nested within f, subject to the
// document's configured maximum nesting depth.
func (f *Frame) CreateFrame(code string) (*Frame, error) {
	return createFrame(f.doc, &f.containerBase, f, f.depth+1, code)
}

// GetFrame looks up a save frame by code, among f's direct children.
func (f *Frame) GetFrame(code string) (*Frame, bool) {
	norm, err := f.doc.normalizeName(code)
	if err != nil {
		return nil, false
	}
	child, ok := f.frameByCode[norm]
	return child, ok
}

// DestroyFrame removes a direct child save frame.
func (f *Frame) DestroyFrame(code string) error {
	return destroyFrame(f.doc, &f.containerBase, code)
}

// Frames returns f's direct child save frames.
func (f *Frame) Frames() []*Frame {
	out := make([]*Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

// createFrame implements frame creation shared by Block and Frame: it
// enforces code uniqueness within parentBase's scope and the document's
// MaxFrameDepth (0 = unbounded).
func createFrame(doc *CIF, parentBase *containerBase, parent Container, depth int, code string) (*Frame, error) {
	if doc.maxFrameDepth > 0 && depth > doc.maxFrameDepth {
		return nil, ErrMaxFrameDepth
	}
	norm, err := doc.normalizeName(code)
	if err != nil {
		return nil, ErrInvalidName
	}
	if _, exists := parentBase.frameByCode[norm]; exists {
		return nil, ErrDuplicateFrameCode
	}
	f := &Frame{
		containerBase: newContainerBase(doc, code, norm),
		parent:        parent,
		depth:         depth,
	}
	parentBase.frameByCode[norm] = f
	parentBase.frames = append(parentBase.frames, f)
	return f, nil
}

func destroyFrame(doc *CIF, parentBase *containerBase, code string) error {
	norm, err := doc.normalizeName(code)
	if err != nil {
		return ErrInvalidName
	}
	f, ok := parentBase.frameByCode[norm]
	if !ok {
		return ErrNoSuchFrame
	}
	delete(parentBase.frameByCode, norm)
	for i, existing := range parentBase.frames {
		if existing == f {
			parentBase.frames = append(parentBase.frames[:i], parentBase.frames[i+1:]...)
			break
		}
	}
	return nil
}

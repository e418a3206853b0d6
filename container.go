package cif

import (
	"github.com/jbcif/cif/value"
)

// scalarLoopCategory is the reserved internal key for a container's
// distinguished scalar loop (spec §3: "a special reserved category name
// identifies it"). It cannot be produced by normalize.Name on any legal
// caller-supplied category, since that function rejects the control
// character this key embeds.
const scalarLoopCategory = "\x00scalar"

// Container is satisfied by both Block and Frame (spec §3, §4.2).
type Container interface {
	Code() string
	NormalizedCode() string

	CreateFrame(code string) (*Frame, error)
	GetFrame(code string) (*Frame, bool)
	DestroyFrame(code string) error
	Frames() []*Frame

	CreateLoop(category string, columns ...string) (*Loop, error)
	GetLoopByItem(name string) (*Loop, bool)
	GetLoopByCategory(category string) (*Loop, bool)
	Loops() []*Loop
	RemoveItem(name string) error
	Prune()

	SetValue(name string, v *value.Value) error
	GetValue(name string) (*value.Value, bool)
	ScalarValue(name string) (*value.Value, bool)
}

// containerBase holds the state and logic shared by Block and Frame. Both
// embed it and satisfy Container through its methods plus their own
// Code/NormalizedCode/CreateFrame family (Frame adds depth bookkeeping).
type containerBase struct {
	doc     *CIF
	code    string
	normCode string

	loops          []*Loop
	loopByItem     map[string]*Loop
	loopByCategory map[string]*Loop

	frames     []*Frame
	frameByCode map[string]*Frame
}

func newContainerBase(doc *CIF, code, normCode string) containerBase {
	return containerBase{
		doc:            doc,
		code:           code,
		normCode:       normCode,
		loopByItem:     make(map[string]*Loop),
		loopByCategory: make(map[string]*Loop),
		frameByCode:    make(map[string]*Frame),
	}
}

func (c *containerBase) Code() string           { return c.code }
func (c *containerBase) NormalizedCode() string { return c.normCode }

func (c *containerBase) Loops() []*Loop {
	out := make([]*Loop, len(c.loops))
	copy(out, c.loops)
	return out
}

func (c *containerBase) GetLoopByItem(name string) (*Loop, bool) {
	norm, err := c.doc.normalizeName(name)
	if err != nil {
		return nil, false
	}
	l, ok := c.loopByItem[norm]
	return l, ok
}

func (c *containerBase) GetLoopByCategory(category string) (*Loop, bool) {
	norm, err := c.doc.normalizeName(category)
	if err != nil {
		return nil, false
	}
	l, ok := c.loopByCategory[norm]
	return l, ok
}

// CreateLoop adds a new loop with the given columns. An empty category
// designates the container's scalar loop; callers normally reach the
// scalar loop implicitly through SetValue/GetValue instead.
func (c *containerBase) CreateLoop(category string, columns ...string) (*Loop, error) {
	var normCat string
	if category != "" {
		var err error
		normCat, err = c.doc.normalizeName(category)
		if err != nil {
			return nil, ErrInvalidName
		}
		if _, exists := c.loopByCategory[normCat]; exists {
			return nil, ErrDuplicateItemName
		}
	} else {
		normCat = scalarLoopCategory
		if _, exists := c.loopByCategory[normCat]; exists {
			return nil, ErrDuplicateItemName
		}
	}

	l := &Loop{
		doc:      c.doc,
		owner:    c,
		category: category,
		normCat:  normCat,
	}
	for _, name := range columns {
		if err := l.addColumnLocked(name); err != nil {
			return nil, err
		}
	}
	for _, col := range l.columns {
		if _, exists := c.loopByItem[col.norm]; exists {
			return nil, ErrDuplicateItemName
		}
	}
	for _, col := range l.columns {
		c.loopByItem[col.norm] = l
	}
	c.loopByCategory[normCat] = l
	c.loops = append(c.loops, l)
	return l, nil
}

// RemoveItem deletes name from whichever loop owns it; if that loop has
// no remaining columns, the loop itself is destroyed.
func (c *containerBase) RemoveItem(name string) error {
	l, ok := c.GetLoopByItem(name)
	if !ok {
		return ErrNoSuchItem
	}
	norm, _ := c.doc.normalizeName(name)
	if err := l.removeColumn(norm); err != nil {
		return err
	}
	delete(c.loopByItem, norm)
	if len(l.columns) == 0 {
		c.removeLoop(l)
	}
	return nil
}

func (c *containerBase) removeLoop(l *Loop) {
	delete(c.loopByCategory, l.normCat)
	for i, existing := range c.loops {
		if existing == l {
			c.loops = append(c.loops[:i], c.loops[i+1:]...)
			break
		}
	}
}

// Prune deletes every loop with zero packets.
func (c *containerBase) Prune() {
	var keep []*Loop
	for _, l := range c.loops {
		if len(l.packets) == 0 {
			for _, col := range l.columns {
				delete(c.loopByItem, col.norm)
			}
			delete(c.loopByCategory, l.normCat)
			continue
		}
		keep = append(keep, l)
	}
	c.loops = keep
}

// SetValue sets name to v with scalar semantics: if name is unused, it is
// added to (and the scalar loop created if needed); if name already
// belongs to a loop with exactly one packet, that packet's value is
// replaced; otherwise the item is not scalar-addressable.
func (c *containerBase) SetValue(name string, v *value.Value) error {
	l, ok := c.GetLoopByItem(name)
	if !ok {
		scalar := c.scalarLoop()
		if len(scalar.packets) == 0 {
			scalar.AddPacket()
		}
		return scalar.AddItem(name, v)
	}
	if len(l.packets) != 1 {
		return ErrWrongLoop
	}
	norm, _ := c.doc.normalizeName(name)
	return l.packets[0].setByNorm(norm, v)
}

// GetValue retrieves name's value under scalar semantics, as in SetValue.
func (c *containerBase) GetValue(name string) (*value.Value, bool) {
	l, ok := c.GetLoopByItem(name)
	if !ok || len(l.packets) != 1 {
		return nil, false
	}
	return l.packets[0].Item(name)
}

// ScalarValue is an alias for GetValue (spec §4 expansion: a
// dictionary-free convenience reader).
func (c *containerBase) ScalarValue(name string) (*value.Value, bool) {
	return c.GetValue(name)
}

func (c *containerBase) scalarLoop() *Loop {
	if l, ok := c.loopByCategory[scalarLoopCategory]; ok {
		return l
	}
	l := &Loop{doc: c.doc, owner: c, normCat: scalarLoopCategory}
	c.loopByCategory[scalarLoopCategory] = l
	c.loops = append(c.loops, l)
	return l
}

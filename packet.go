package cif

import (
	"github.com/jbcif/cif/value"
)

// Packet is a single row of a loop: one Value per column, in column
// order (spec §3).
type Packet struct {
	loop   *Loop
	values []*value.Value
}

// Item returns the value stored for name.
func (p *Packet) Item(name string) (*value.Value, bool) {
	norm, err := p.loop.doc.normalizeName(name)
	if err != nil {
		return nil, false
	}
	i, ok := p.loop.columnIndex(norm)
	if !ok {
		return nil, false
	}
	return p.values[i], true
}

// SetItem replaces the value stored for name.
func (p *Packet) SetItem(name string, v *value.Value) error {
	norm, err := p.loop.doc.normalizeName(name)
	if err != nil {
		return ErrInvalidName
	}
	return p.setByNorm(norm, v)
}

func (p *Packet) setByNorm(norm string, v *value.Value) error {
	i, ok := p.loop.columnIndex(norm)
	if !ok {
		return ErrNoSuchItem
	}
	p.values[i] = v
	return nil
}

// At returns the value at column index i, in the loop's column order.
func (p *Packet) At(i int) (*value.Value, error) {
	if i < 0 || i >= len(p.values) {
		return nil, ErrInvalidIndex
	}
	return p.values[i], nil
}

// Keys returns the owning loop's column names in original spelling.
func (p *Packet) Keys() []string {
	return p.loop.Columns()
}

// Loop returns the packet's owning loop.
func (p *Packet) Loop() *Loop { return p.loop }

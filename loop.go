package cif

import (
	"github.com/jbcif/cif/value"
)

type column struct {
	orig string
	norm string
}

// Loop is an ordered set of columns and an ordered set of packets, all
// belonging to one container (spec §3, §4.2).
type Loop struct {
	doc      *CIF
	owner    *containerBase
	category string
	normCat  string
	columns  []column
	packets  []*Packet

	generation uint64 // bumped by any structural mutation; backs iterator staleness
}

// Category returns the loop's category label, or "" for the scalar loop.
func (l *Loop) Category() string {
	if l.normCat == scalarLoopCategory {
		return ""
	}
	return l.category
}

// IsScalar reports whether l is its container's distinguished scalar loop.
func (l *Loop) IsScalar() bool { return l.normCat == scalarLoopCategory }

// Columns returns the loop's column names in original spelling, in order.
func (l *Loop) Columns() []string {
	out := make([]string, len(l.columns))
	for i, c := range l.columns {
		out[i] = c.orig
	}
	return out
}

func (l *Loop) columnIndex(norm string) (int, bool) {
	for i, c := range l.columns {
		if c.norm == norm {
			return i, true
		}
	}
	return -1, false
}

// addColumnLocked appends a column without touching packets; used while
// building a loop in CreateLoop, before any packets exist.
func (l *Loop) addColumnLocked(name string) error {
	norm, err := l.doc.normalizeName(name)
	if err != nil {
		return ErrInvalidName
	}
	if _, exists := l.columnIndex(norm); exists {
		return ErrDuplicateItemName
	}
	l.columns = append(l.columns, column{orig: name, norm: norm})
	return nil
}

// AddItem adds a new column, propagating def (or a fresh Unknown, when
// def is nil) to every existing packet.
func (l *Loop) AddItem(name string, def *value.Value) error {
	norm, err := l.doc.normalizeName(name)
	if err != nil {
		return ErrInvalidName
	}
	if l.owner != nil {
		if _, exists := l.owner.loopByItem[norm]; exists {
			return ErrDuplicateItemName
		}
	}
	if _, exists := l.columnIndex(norm); exists {
		return ErrDuplicateItemName
	}
	l.columns = append(l.columns, column{orig: name, norm: norm})
	for _, p := range l.packets {
		if def != nil {
			p.values = append(p.values, def.Clone())
		} else {
			p.values = append(p.values, value.New(value.Unknown))
		}
	}
	if l.owner != nil {
		l.owner.loopByItem[norm] = l
	}
	l.generation++
	return nil
}

// removeColumn deletes the column (already normalized) from every packet.
func (l *Loop) removeColumn(norm string) error {
	i, ok := l.columnIndex(norm)
	if !ok {
		return ErrNoSuchItem
	}
	l.columns = append(l.columns[:i], l.columns[i+1:]...)
	for _, p := range l.packets {
		p.values = append(p.values[:i], p.values[i+1:]...)
	}
	l.generation++
	return nil
}

// AddPacket appends a new packet, initialized to Unknown for every
// current column.
func (l *Loop) AddPacket() *Packet {
	p := &Packet{loop: l}
	p.values = make([]*value.Value, len(l.columns))
	for i := range p.values {
		p.values[i] = value.New(value.Unknown)
	}
	l.packets = append(l.packets, p)
	l.generation++
	return p
}

// RemovePacket deletes the packet at index i.
func (l *Loop) RemovePacket(i int) error {
	if i < 0 || i >= len(l.packets) {
		return ErrInvalidPacketIndex
	}
	l.packets = append(l.packets[:i], l.packets[i+1:]...)
	l.generation++
	return nil
}

// Size returns the number of packets.
func (l *Loop) Size() int { return len(l.packets) }

// PacketAt returns the packet at index i.
func (l *Loop) PacketAt(i int) (*Packet, error) {
	if i < 0 || i >= len(l.packets) {
		return nil, ErrInvalidPacketIndex
	}
	return l.packets[i], nil
}

// Column returns every packet's value for name, in packet order — a
// dictionary-free convenience reader (spec §4 expansion).
func (l *Loop) Column(name string) ([]*value.Value, bool) {
	norm, err := l.doc.normalizeName(name)
	if err != nil {
		return nil, false
	}
	i, ok := l.columnIndex(norm)
	if !ok {
		return nil, false
	}
	out := make([]*value.Value, len(l.packets))
	for j, p := range l.packets {
		out[j] = p.values[i]
	}
	return out, true
}

// Packets returns a PacketIterator over l's current packets (spec §9
// supplemented feature: invalidated by any later structural mutation).
func (l *Loop) Packets() *PacketIterator {
	return &PacketIterator{loop: l, generation: l.generation, index: -1}
}

// PacketIterator walks a loop's packets in order. It becomes stale (and
// Next returns ErrIteratorStale) once the loop is structurally mutated
// after the iterator was opened.
type PacketIterator struct {
	loop       *Loop
	generation uint64
	index      int
	closed     bool
}

// Next advances the iterator and returns the next packet, or (nil, nil)
// at the end of the sequence.
func (it *PacketIterator) Next() (*Packet, error) {
	if it.closed {
		return nil, ErrIteratorClosed
	}
	if it.generation != it.loop.generation {
		return nil, ErrIteratorStale
	}
	it.index++
	if it.index >= len(it.loop.packets) {
		return nil, nil
	}
	return it.loop.packets[it.index], nil
}

// Close releases the iterator. It is safe to call multiple times.
func (it *PacketIterator) Close() error {
	it.closed = true
	return nil
}

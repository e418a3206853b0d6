package value

// Size returns the number of elements in a List. It is 0 for other kinds.
func (v *Value) Size() int {
	if v.kind != List {
		return 0
	}
	return len(v.list)
}

// At returns the element at index i of a List.
func (v *Value) At(i int) (*Value, error) {
	if v.kind != List {
		return nil, ErrWrongKind
	}
	if i < 0 || i >= len(v.list) {
		return nil, ErrInvalidIndex
	}
	return v.list[i], nil
}

// SetAt replaces the element at index i of a List with a clone of elem,
// so the List holds no alias into the caller's value (spec §4.1, §3).
func (v *Value) SetAt(i int, elem *Value) error {
	if v.kind != List {
		return ErrWrongKind
	}
	if i < 0 || i >= len(v.list) {
		return ErrInvalidIndex
	}
	v.list[i] = elem.Clone()
	return nil
}

// InsertAt inserts a clone of elem before index i, or appends it when
// i == Size() (spec §4.1, §3: no aliasing into the caller's value).
func (v *Value) InsertAt(i int, elem *Value) error {
	if v.kind != List {
		return ErrWrongKind
	}
	if i < 0 || i > len(v.list) {
		return ErrInvalidIndex
	}
	v.list = append(v.list, nil)
	copy(v.list[i+1:], v.list[i:])
	v.list[i] = elem.Clone()
	return nil
}

// RemoveAt deletes the element at index i of a List.
func (v *Value) RemoveAt(i int) error {
	if v.kind != List {
		return ErrWrongKind
	}
	if i < 0 || i >= len(v.list) {
		return ErrInvalidIndex
	}
	v.list = append(v.list[:i], v.list[i+1:]...)
	return nil
}

// Append adds a clone of elem to the end of a List (spec §4.1, §3: no
// aliasing into the caller's value).
func (v *Value) Append(elem *Value) error {
	if v.kind != List {
		return ErrWrongKind
	}
	v.list = append(v.list, elem.Clone())
	return nil
}

package value

import "github.com/jbcif/cif/normalize"

// SetItem stores elem under key, normalized per v's NameVersion. The
// first spelling of a given normalized key is retained as its original
// form for Keys and serialization.
func (v *Value) SetItem(key string, elem *Value) error {
	if v.kind != Table {
		return ErrWrongKind
	}
	norm, err := normalize.Name(key, v.nameVersion)
	if err != nil {
		return ErrInvalidKey
	}
	if _, exists := v.items[norm]; !exists {
		v.keys = append(v.keys, norm)
		v.orig[norm] = key
	}
	v.items[norm] = elem
	return nil
}

// Item looks up the value stored under key, comparing normalized forms.
func (v *Value) Item(key string) (*Value, bool) {
	if v.kind != Table {
		return nil, false
	}
	norm, err := normalize.Name(key, v.nameVersion)
	if err != nil {
		return nil, false
	}
	item, ok := v.items[norm]
	return item, ok
}

// RemoveItem deletes the entry stored under key, if any.
func (v *Value) RemoveItem(key string) error {
	if v.kind != Table {
		return ErrWrongKind
	}
	norm, err := normalize.Name(key, v.nameVersion)
	if err != nil {
		return ErrInvalidKey
	}
	if _, ok := v.items[norm]; !ok {
		return nil
	}
	delete(v.items, norm)
	delete(v.orig, norm)
	for i, k := range v.keys {
		if k == norm {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Keys returns the table's keys in their original spelling, in insertion
// order.
func (v *Value) Keys() []string {
	if v.kind != Table {
		return nil
	}
	out := make([]string, len(v.keys))
	for i, norm := range v.keys {
		out[i] = v.orig[norm]
	}
	return out
}

// TableSize reports the number of entries in a Table.
func (v *Value) TableSize() int {
	if v.kind != Table {
		return 0
	}
	return len(v.keys)
}

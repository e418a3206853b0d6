// Package value implements the tagged CIF value type: Unknown, NotApplicable,
// Char, Numb, List, and Table, with lossless decimal<->binary numeric
// conversion, standard-uncertainty tracking, and composite clone/
// serialize/deserialize operations (spec §3, §4.1).
package value

import "github.com/jbcif/cif/normalize"

// Kind discriminates the payload a Value currently holds.
type Kind int

const (
	Unknown Kind = iota
	NotApplicable
	Char
	Numb
	List
	Table
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case NotApplicable:
		return "NotApplicable"
	case Char:
		return "Char"
	case Numb:
		return "Numb"
	case List:
		return "List"
	case Table:
		return "Table"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the six CIF value kinds. Only the fields
// relevant to the current Kind are meaningful; Init clears the rest.
type Value struct {
	kind Kind

	// Char
	text   string
	quoted bool

	// Numb: quantity = sign * digits * 10^-scale, su (if present) in the
	// same units as the last digit of digits.
	sign    int
	digits  string
	hasSu   bool
	suDigit string
	scale   int
	display string

	// List
	list []*Value

	// Table: insertion-ordered; orig/items keyed by normalized name.
	keys  []string
	orig  map[string]string
	items map[string]*Value

	// NameVersion controls normalization rules for Table keys (spec §4.2);
	// Init sets it to CIF 2.0 folding for a Table; SetNameVersion changes it.
	nameVersion normalize.Version
}

// New creates a Value of the given kind, initialized to its empty payload.
func New(kind Kind) *Value {
	v := &Value{}
	v.Init(kind)
	return v
}

// Init transitions v to kind, releasing any previously-owned payload.
func (v *Value) Init(kind Kind) {
	v.kind = kind
	v.text = ""
	v.quoted = false
	v.sign = 1
	v.digits = "0"
	v.hasSu = false
	v.suDigit = ""
	v.scale = 0
	v.display = "0"
	v.list = nil
	v.keys = nil
	v.orig = nil
	v.items = nil
	if kind == Table {
		v.orig = make(map[string]string)
		v.items = make(map[string]*Value)
		v.nameVersion = normalize.V2_0
	}
}

// Kind reports v's current tag.
func (v *Value) Kind() Kind { return v.kind }

// SetNameVersion selects the CIF-version-specific folding rule applied to
// table keys. The document model and the parser do not call it, so a
// Table keeps the CIF 2.0 rule that Init gives it unless the caller does.
func (v *Value) SetNameVersion(ver normalize.Version) { v.nameVersion = ver }

// Clone returns a deep, independently-owned copy of v.
func (v *Value) Clone() *Value {
	c := &Value{
		kind:        v.kind,
		text:        v.text,
		quoted:      v.quoted,
		sign:        v.sign,
		digits:      v.digits,
		hasSu:       v.hasSu,
		suDigit:     v.suDigit,
		scale:       v.scale,
		display:     v.display,
		nameVersion: v.nameVersion,
	}
	if v.list != nil {
		c.list = make([]*Value, len(v.list))
		for i, e := range v.list {
			c.list[i] = e.Clone()
		}
	}
	if v.items != nil {
		c.orig = make(map[string]string, len(v.orig))
		c.items = make(map[string]*Value, len(v.items))
		c.keys = append([]string(nil), v.keys...)
		for k, orig := range v.orig {
			c.orig[k] = orig
		}
		for k, item := range v.items {
			c.items[k] = item.Clone()
		}
	}
	return c
}

// IsQuoted reports whether a Char (or a quoted Unknown/NotApplicable
// literal written as a one-character quoted string) came from quoted
// source text.
func (v *Value) IsQuoted() bool { return v.quoted }

// SetQuoted marks v as originating from quoted source text. It sets the
// flag for any kind; the writer reads it for Char, Unknown and
// NotApplicable values.
func (v *Value) SetQuoted(q bool) { v.quoted = q }

// Text returns the Char payload. It is the empty string for other kinds.
func (v *Value) Text() string {
	if v.kind != Char {
		return ""
	}
	return v.text
}

// SetText re-initializes v as a Char with the given text.
func (v *Value) SetText(s string, quoted bool) {
	v.Init(Char)
	v.text = s
	v.quoted = quoted
}

package value

import (
	"bytes"
	"encoding/binary"
)

// Serialize encodes v into a self-framed byte buffer: a kind tag byte
// followed by a kind-specific body. Strings are written as a signed
// 32-bit length (negative for "absent") followed by raw UTF-8 bytes.
// Lists are framed by a leading element count; tables are framed by a
// per-entry continuation flag (0 = another entry follows, -1 = end).
func (v *Value) Serialize() []byte {
	buf := &bytes.Buffer{}
	v.serializeInto(buf)
	return buf.Bytes()
}

func (v *Value) serializeInto(buf *bytes.Buffer) {
	buf.WriteByte(byte(v.kind))
	switch v.kind {
	case Unknown, NotApplicable:
		// no body
	case Char:
		writeString(buf, v.text, true)
		writeBool(buf, v.quoted)
	case Numb:
		writeInt8(buf, int8(v.sign))
		writeString(buf, v.digits, true)
		writeBool(buf, v.hasSu)
		writeString(buf, v.suDigit, v.hasSu)
		writeInt32(buf, int32(v.scale))
		writeString(buf, v.display, true)
	case List:
		writeInt32(buf, int32(len(v.list)))
		for _, elem := range v.list {
			elem.serializeInto(buf)
		}
	case Table:
		for _, norm := range v.keys {
			buf.WriteByte(0)
			writeString(buf, v.orig[norm], true)
			v.items[norm].serializeInto(buf)
		}
		buf.WriteByte(0xff) // -1 as unsigned byte
	}
}

// Deserialize decodes a buffer produced by Serialize. It returns
// ErrCorrupt for any structurally invalid input; it does not attempt to
// validate Numb digit-string or Char text content beyond framing.
func Deserialize(data []byte) (*Value, error) {
	r := &reader{buf: data}
	v, err := r.readValue()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.buf) {
		return nil, ErrCorrupt
	}
	return v, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrCorrupt
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readInt32() (int32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, ErrCorrupt
	}
	n := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return n, nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", nil
	}
	if r.pos+int(n) > len(r.buf) {
		return "", ErrCorrupt
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readValue() (*Value, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	kind := Kind(tag)
	v := &Value{}

	switch kind {
	case Unknown, NotApplicable:
		v.Init(kind)
	case Char:
		text, err := r.readString()
		if err != nil {
			return nil, err
		}
		quoted, err := r.readBool()
		if err != nil {
			return nil, err
		}
		v.Init(Char)
		v.text = text
		v.quoted = quoted
	case Numb:
		sign, err := r.readInt8()
		if err != nil {
			return nil, err
		}
		digits, err := r.readString()
		if err != nil {
			return nil, err
		}
		hasSu, err := r.readBool()
		if err != nil {
			return nil, err
		}
		suDigit, err := r.readString()
		if err != nil {
			return nil, err
		}
		scale, err := r.readInt32()
		if err != nil {
			return nil, err
		}
		display, err := r.readString()
		if err != nil {
			return nil, err
		}
		v.Init(Numb)
		v.sign = int(sign)
		v.digits = digits
		v.hasSu = hasSu
		v.suDigit = suDigit
		v.scale = int(scale)
		v.display = display
	case List:
		count, err := r.readInt32()
		if err != nil || count < 0 {
			return nil, ErrCorrupt
		}
		v.Init(List)
		v.list = make([]*Value, count)
		for i := int32(0); i < count; i++ {
			elem, err := r.readValue()
			if err != nil {
				return nil, err
			}
			v.list[i] = elem
		}
	case Table:
		v.Init(Table)
		for {
			flag, err := r.readByte()
			if err != nil {
				return nil, err
			}
			if flag == 0xff {
				break
			}
			if flag != 0 {
				return nil, ErrCorrupt
			}
			key, err := r.readString()
			if err != nil {
				return nil, err
			}
			item, err := r.readValue()
			if err != nil {
				return nil, err
			}
			if err := v.SetItem(key, item); err != nil {
				return nil, ErrCorrupt
			}
		}
	default:
		return nil, ErrCorrupt
	}
	return v, nil
}

func (r *reader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *reader) readInt8() (int8, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

func writeString(buf *bytes.Buffer, s string, present bool) {
	if !present {
		writeInt32(buf, -1)
		return
	}
	writeInt32(buf, int32(len(s)))
	buf.WriteString(s)
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeInt8(buf *bytes.Buffer, n int8) {
	buf.WriteByte(byte(n))
}

func writeInt32(buf *bytes.Buffer, n int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	buf.Write(tmp[:])
}

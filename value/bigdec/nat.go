// Package bigdec implements the base-10^9 big-integer arithmetic used to
// convert between IEEE-754 doubles and their exact decimal digit-string
// representation. It exists so that the rounding mode applied at each
// conversion step is explicit in the code, rather than hidden behind a
// general-purpose big-integer package.
package bigdec

import "strings"

// limbBase is the radix of a Nat limb. 10^9 is the largest power of ten
// such that two limbs multiply without overflowing a uint64 accumulator.
const limbBase = 1000000000

// Nat is an arbitrary-precision non-negative integer stored as base-1e9
// limbs, least-significant limb first. The zero value represents zero.
// A canonical Nat never has a trailing (most-significant) zero limb.
type Nat struct {
	limb []uint32
}

func natFromUint64(v uint64) Nat {
	var n Nat
	for v > 0 {
		n.limb = append(n.limb, uint32(v%limbBase))
		v /= limbBase
	}
	return n
}

// natFromDigits parses an unsigned decimal digit string into a Nat.
func natFromDigits(s string) Nat {
	var n Nat
	for i := 0; i < len(s); i++ {
		n = n.mulSmall(10).addSmall(uint32(s[i] - '0'))
	}
	return n
}

func (n Nat) trim() Nat {
	i := len(n.limb)
	for i > 0 && n.limb[i-1] == 0 {
		i--
	}
	n.limb = n.limb[:i]
	return n
}

func (n Nat) isZero() bool {
	return len(n.limb) == 0
}

// String renders n in decimal, without leading zeros (the zero value
// renders as "0").
func (n Nat) String() string {
	if n.isZero() {
		return "0"
	}
	var b strings.Builder
	top := len(n.limb) - 1
	b.WriteString(itoa(n.limb[top]))
	for i := top - 1; i >= 0; i-- {
		s := itoa(n.limb[i])
		for j := len(s); j < 9; j++ {
			b.WriteByte('0')
		}
		b.WriteString(s)
	}
	return b.String()
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// toUint64 converts n to a uint64. The caller must know n fits.
func (n Nat) toUint64() uint64 {
	var v uint64
	for i := len(n.limb) - 1; i >= 0; i-- {
		v = v*limbBase + uint64(n.limb[i])
	}
	return v
}

func (n Nat) cmp(o Nat) int {
	if len(n.limb) != len(o.limb) {
		if len(n.limb) < len(o.limb) {
			return -1
		}
		return 1
	}
	for i := len(n.limb) - 1; i >= 0; i-- {
		if n.limb[i] != o.limb[i] {
			if n.limb[i] < o.limb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (n Nat) addSmall(x uint32) Nat {
	if x == 0 {
		return n
	}
	r := Nat{limb: append([]uint32(nil), n.limb...)}
	carry := uint64(x)
	for i := 0; i < len(r.limb) && carry > 0; i++ {
		sum := uint64(r.limb[i]) + carry
		r.limb[i] = uint32(sum % limbBase)
		carry = sum / limbBase
	}
	for carry > 0 {
		r.limb = append(r.limb, uint32(carry%limbBase))
		carry /= limbBase
	}
	return r.trim()
}

func (n Nat) mulSmall(x uint32) Nat {
	if x == 0 || n.isZero() {
		return Nat{}
	}
	r := Nat{limb: make([]uint32, len(n.limb))}
	carry := uint64(0)
	for i, l := range n.limb {
		prod := uint64(l)*uint64(x) + carry
		r.limb[i] = uint32(prod % limbBase)
		carry = prod / limbBase
	}
	for carry > 0 {
		r.limb = append(r.limb, uint32(carry%limbBase))
		carry /= limbBase
	}
	return r.trim()
}

// sub returns n-o. The caller must ensure n >= o.
func (n Nat) sub(o Nat) Nat {
	r := Nat{limb: make([]uint32, len(n.limb))}
	borrow := int64(0)
	for i := range r.limb {
		var ov int64
		if i < len(o.limb) {
			ov = int64(o.limb[i])
		}
		d := int64(n.limb[i]) - ov - borrow
		if d < 0 {
			d += limbBase
			borrow = 1
		} else {
			borrow = 0
		}
		r.limb[i] = uint32(d)
	}
	return r.trim()
}

func (n Nat) mulPow2(k int) Nat {
	r := n
	for i := 0; i < k; i++ {
		r = r.mulSmall(2)
	}
	return r
}

func (n Nat) mulPow5(k int) Nat {
	r := n
	for i := 0; i < k; i++ {
		r = r.mulSmall(5)
	}
	return r
}

// divmodSmall divides n by the small divisor x (0 < x < limbBase).
func (n Nat) divmodSmall(x uint32) (q Nat, r uint32) {
	q = Nat{limb: make([]uint32, len(n.limb))}
	var rem uint64
	for i := len(n.limb) - 1; i >= 0; i-- {
		cur := rem*limbBase + uint64(n.limb[i])
		q.limb[i] = uint32(cur / uint64(x))
		rem = cur % uint64(x)
	}
	return q.trim(), uint32(rem)
}

// digitCount returns the number of decimal digits in n (n != 0).
func (n Nat) digitCount() int {
	return len(n.String())
}

// divmod returns the quotient and remainder of n/d via schoolbook long
// division over decimal digits: it aligns d against n by a power of ten,
// then repeatedly determines each quotient digit (0-9) by trial
// subtraction, descending one decimal place at a time.
func divmod(n, d Nat) (q Nat, r Nat) {
	if n.cmp(d) < 0 {
		return Nat{}, n
	}
	shift := n.digitCount() - d.digitCount()
	if shift < 0 {
		shift = 0
	}
	aligned := d.mulPow10(shift)
	for aligned.cmp(n) > 0 {
		shift--
		aligned, _ = aligned.divmodSmall(10)
	}
	for n.cmp(aligned.mulSmall(10)) >= 0 {
		shift++
		aligned = aligned.mulSmall(10)
	}

	rem := n
	digits := make([]byte, 0, shift+1)
	cur := aligned
	for s := shift; s >= 0; s-- {
		digit := byte(0)
		for rem.cmp(cur) >= 0 {
			rem = rem.sub(cur)
			digit++
		}
		digits = append(digits, '0'+digit)
		if s > 0 {
			cur, _ = cur.divmodSmall(10)
		}
	}
	return natFromDigits(string(digits)), rem
}

func (n Nat) mulPow10(k int) Nat {
	r := n
	for i := 0; i < k; i++ {
		r = r.mulSmall(10)
	}
	return r
}

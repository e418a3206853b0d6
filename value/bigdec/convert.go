package bigdec

import (
	"errors"
	"math"
)

// RoundingMode selects how scaledRound breaks ties and truncates, mirroring
// the four floating-point rounding directions a conforming implementation
// must support (IEEE 754 §4.3) when the prevailing mode cannot be read from
// the runtime.
type RoundingMode int

const (
	RoundHalfEven RoundingMode = iota
	RoundTowardZero
	RoundDown
	RoundUp
)

var (
	// ErrOverflow is returned when a digit string's magnitude exceeds the
	// range of a float64.
	ErrOverflow = errors.New("bigdec: value out of double range (overflow)")
	// ErrUnderflow is returned when a nonzero digit string rounds to zero
	// because its magnitude is below the smallest representable double.
	ErrUnderflow = errors.New("bigdec: value out of double range (underflow)")
)

var (
	pow2Of52 = natFromUint64(1 << 52)
	pow2Of53 = natFromUint64(1 << 53)
)

const minBinaryExp = -1074 // exponent of the smallest subnormal double

// scaledRound computes round(m * 2^pow2 * 5^pow5) as a non-negative
// integer, applying mode at the final, single remainder comparison: this
// is always exact because m * 2^pow2 * 5^pow5 is computed as one
// numerator/denominator ratio, never as an intermediate rounded value.
func scaledRound(m Nat, pow2, pow5 int, mode RoundingMode) Nat {
	num := m
	den := natFromUint64(1)
	if pow2 >= 0 {
		num = num.mulPow2(pow2)
	} else {
		den = den.mulPow2(-pow2)
	}
	if pow5 >= 0 {
		num = num.mulPow5(pow5)
	} else {
		den = den.mulPow5(-pow5)
	}
	q, r := divmod(num, den)
	if r.isZero() {
		return q
	}
	switch mode {
	case RoundTowardZero, RoundDown:
		return q
	case RoundUp:
		return q.addSmall(1)
	default: // RoundHalfEven
		twice := r.mulSmall(2)
		switch twice.cmp(den) {
		case -1:
			return q
		case 1:
			return q.addSmall(1)
		default:
			if isOdd(q) {
				return q.addSmall(1)
			}
			return q
		}
	}
}

func isOdd(n Nat) bool {
	if n.isZero() {
		return false
	}
	return n.limb[0]%2 == 1
}

// decompose splits a finite, non-negative float64 into mantissa and
// binary exponent such that f == mantissa * 2^exp.
func decompose(f float64) (mantissa uint64, exp int) {
	bits := math.Float64bits(f)
	rawExp := int((bits >> 52) & 0x7ff)
	frac := bits & (1<<52 - 1)
	if rawExp == 0 {
		// subnormal
		return frac, minBinaryExp
	}
	return frac | (1 << 52), rawExp - 1075
}

// Digits computes the signed decimal digit string representing value
// rounded to the given scale (decimal places right of the point; may be
// negative). It returns sign (+1 or -1) and the digit string with leading
// zeros stripped to a single digit, per the Numb invariant in the value
// package.
func Digits(value float64, scale int, mode RoundingMode) (sign int, digits string) {
	sign = 1
	if math.Signbit(value) {
		sign = -1
	}
	value = math.Abs(value)
	if value == 0 {
		return sign, "0"
	}
	if sign < 0 {
		// mode is applied to the magnitude, so the directed modes swap.
		switch mode {
		case RoundDown:
			mode = RoundUp
		case RoundUp:
			mode = RoundDown
		}
	}
	mantissa, exp := decompose(value)
	d := scaledRound(natFromUint64(mantissa), exp+scale, scale, mode)
	return sign, d.String()
}

// Double reconstructs the float64 nearest to sign * digits * 10^-scale,
// correctly rounded to within one ULP. digits must be a non-empty decimal
// digit string (no sign, no leading/trailing whitespace).
func Double(sign int, digits string, scale int) (float64, error) {
	n := natFromDigits(digits)
	if n.isZero() {
		if sign < 0 {
			return math.Copysign(0, -1), nil
		}
		return 0, nil
	}

	// Initial exponent guess from decimal magnitude; refined below.
	log2 := float64(len(digits)-scale) * math.Log2(10)
	e := int(math.Floor(log2)) - 52

	var mant Nat
	for iter := 0; iter < 64; iter++ {
		mant = scaledRound(n, -scale-e, -scale, RoundHalfEven)
		if mant.cmp(pow2Of53) >= 0 {
			e++
			continue
		}
		if mant.cmp(pow2Of52) < 0 && e > minBinaryExp {
			e--
			continue
		}
		break
	}

	f := math.Ldexp(float64(mant.toUint64()), e)
	if math.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	if f == 0 {
		return 0, ErrUnderflow
	}
	if sign < 0 {
		f = -f
	}
	return f, nil
}

package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/jbcif/cif/value/bigdec"
)

// dblDig is the number of decimal digits guaranteed to round-trip through
// a float64 (DBL_DIG in the C sense).
const dblDig = 15

// ParseNumb parses text against the NUMB grammar:
//
//	[+-]? ( D+ ('.' D*)? | '.' D+ ) ( [eE] [+-]? D+ )? ( '(' D+ ')' )?
//
// On success v becomes a Numb holding text verbatim as its display form.
func (v *Value) ParseNumb(text string) error {
	p := numbParser{s: text}
	sign, intDigits, fracDigits, exp, suDigits, hasSu, ok := p.parse()
	if !ok || p.pos != len(text) {
		return ErrInvalidNumber
	}

	allDigits := intDigits + fracDigits
	digits := stripLeadingZeros(allDigits)
	scale := len(fracDigits) - exp

	v.Init(Numb)
	v.sign = sign
	v.digits = digits
	v.scale = scale
	v.display = text
	if hasSu {
		v.hasSu = true
		v.suDigit = stripLeadingZeros(suDigits)
	}
	return nil
}

func stripLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

type numbParser struct {
	s   string
	pos int
}

func (p *numbParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *numbParser) digits() string {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *numbParser) parse() (sign int, intDigits, fracDigits string, exp int, suDigits string, hasSu bool, ok bool) {
	sign = 1
	if p.peek() == '+' {
		p.pos++
	} else if p.peek() == '-' {
		sign = -1
		p.pos++
	}

	intDigits = p.digits()
	if p.peek() == '.' {
		p.pos++
		fracDigits = p.digits()
		if intDigits == "" && fracDigits == "" {
			return 0, "", "", 0, "", false, false
		}
	} else if intDigits == "" {
		return 0, "", "", 0, "", false, false
	}
	if intDigits == "" {
		intDigits = "0"
	}

	if p.peek() == 'e' || p.peek() == 'E' {
		p.pos++
		expSign := 1
		if p.peek() == '+' {
			p.pos++
		} else if p.peek() == '-' {
			expSign = -1
			p.pos++
		}
		expDigits := p.digits()
		if expDigits == "" {
			return 0, "", "", 0, "", false, false
		}
		n, err := strconv.Atoi(expDigits)
		if err != nil {
			return 0, "", "", 0, "", false, false
		}
		exp = expSign * n
	}

	if p.peek() == '(' {
		p.pos++
		suDigits = p.digits()
		if suDigits == "" || p.peek() != ')' {
			return 0, "", "", 0, "", false, false
		}
		p.pos++
		hasSu = true
	}

	return sign, intDigits, fracDigits, exp, suDigits, hasSu, true
}

// InitNumb rounds value and su to scale decimal places, builds the digit
// strings, and renders display text: plain decimal when scale >= 0 and
// the run of leading zeros after the point is within maxLeadZeros,
// otherwise scientific notation.
func InitNumb(v *Value, value, su float64, scale, maxLeadZeros int) {
	v.Init(Numb)
	sign, digits := bigdec.Digits(value, scale, bigdec.RoundHalfEven)
	v.sign = sign
	v.digits = digits
	v.scale = scale
	if su != 0 {
		_, suDigits := bigdec.Digits(math.Abs(su), scale, bigdec.RoundHalfEven)
		v.hasSu = true
		v.suDigit = suDigits
	}
	v.display = renderNumb(sign, digits, scale, v.hasSu, v.suDigit, maxLeadZeros)
}

// AutoInitNumb picks a scale from (value, su, suRule) per spec §4.1: when
// su is zero the scale reproduces value's binary precision (exactly, if
// its binary fraction is short; otherwise to dblDig significant digits).
// When su > 0 it rounds su to the crystallographic convention of
// log10(suRule+½)+1 significant digits, falling back to one fewer digit
// whenever the rounded su exceeds suRule, then sets the scale so su's
// last significant digit lands at the implied decimal place.
func AutoInitNumb(v *Value, value, su float64, suRule int) error {
	if suRule < 2 {
		return ErrSuRule
	}
	var scale int
	if su == 0 {
		scale = scaleForExactValue(value)
	} else {
		scale = scaleForSu(math.Abs(su), suRule)
	}
	InitNumb(v, value, su, scale, suRule)
	return nil
}

func scaleForExactValue(value float64) int {
	if value == 0 {
		return 0
	}
	exactFracDigits, exact := exactDecimalFracDigits(value)
	if exact && exactFracDigits <= dblDig {
		if exactFracDigits < 0 {
			return 0
		}
		return exactFracDigits
	}
	msp := int(math.Floor(math.Log10(math.Abs(value)))) + 1
	return dblDig - msp
}

// exactDecimalFracDigits reports how many decimal places are needed to
// represent value exactly, by reducing its binary mantissa to odd form:
// value = odd * 2^e: e>=0 means value is an exact integer (0 fractional
// digits needed); e<0 means exactly -e decimal digits are needed, since
// 2^-k = 5^k * 10^-k.
func exactDecimalFracDigits(value float64) (digits int, exact bool) {
	bits := math.Float64bits(math.Abs(value))
	rawExp := int((bits >> 52) & 0x7ff)
	frac := bits & (1<<52 - 1)
	var mantissa uint64
	var e int
	if rawExp == 0 {
		mantissa = frac
		e = -1074
	} else {
		mantissa = frac | (1 << 52)
		e = rawExp - 1075
	}
	if mantissa == 0 {
		return 0, true
	}
	for mantissa%2 == 0 {
		mantissa /= 2
		e++
	}
	if e >= 0 {
		return 0, true
	}
	return -e, true
}

func scaleForSu(su float64, suRule int) int {
	d := int(math.Log10(float64(suRule)+0.5)) + 1
	for {
		sigDigits, leadExp := roundToSigFigs(su, d)
		asInt, _ := strconv.Atoi(sigDigits)
		if asInt > suRule && d > 1 {
			d--
			continue
		}
		return d - 1 - leadExp
	}
}

// roundToSigFigs rounds |v| to n significant decimal digits and returns
// those digits (as an n-digit string, no decimal point) along with the
// decimal exponent of the leading digit.
func roundToSigFigs(v float64, n int) (digits string, leadExp int) {
	leadExp = int(math.Floor(math.Log10(v)))
	scale := n - 1 - leadExp
	_, d := bigdec.Digits(v, scale, bigdec.RoundHalfEven)
	if len(d) > n {
		// rounding carried a digit (e.g. 9.96 -> 10.0): exponent bumps up.
		leadExp++
		d = d[:n]
	}
	for len(d) < n {
		d = d + "0"
	}
	return d, leadExp
}

func renderNumb(sign int, digits string, scale int, hasSu bool, suDigits string, maxLeadZeros int) string {
	var b strings.Builder
	leadZeros := 0
	if digits != "0" && scale > len(digits) {
		leadZeros = scale - len(digits)
	}
	if scale >= 0 && (digits == "0" || leadZeros <= maxLeadZeros) {
		writePlain(&b, sign, digits, scale)
	} else {
		writeScientific(&b, sign, digits, scale)
	}
	if hasSu {
		b.WriteByte('(')
		b.WriteString(suDigits)
		b.WriteByte(')')
	}
	return b.String()
}

func writePlain(b *strings.Builder, sign int, digits string, scale int) {
	if sign < 0 {
		b.WriteByte('-')
	}
	if scale == 0 {
		b.WriteString(digits)
		return
	}
	var intPart, fracPart string
	if scale < len(digits) {
		intPart = digits[:len(digits)-scale]
		fracPart = digits[len(digits)-scale:]
	} else {
		intPart = "0"
		fracPart = strings.Repeat("0", scale-len(digits)) + digits
	}
	b.WriteString(intPart)
	b.WriteByte('.')
	b.WriteString(fracPart)
}

func writeScientific(b *strings.Builder, sign int, digits string, scale int) {
	if sign < 0 {
		b.WriteByte('-')
	}
	exp := len(digits) - 1 - scale
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	b.WriteByte('e')
	if exp < 0 {
		b.WriteByte('-')
		exp = -exp
	} else {
		b.WriteByte('+')
	}
	expDigits := strconv.Itoa(exp)
	for len(expDigits) < 2 {
		expDigits = "0" + expDigits
	}
	b.WriteString(expDigits)
}

// coerceToNumb implements the lazy Char->Numb coercion of spec §4.4: a
// bare (unquoted) Char whose text matches the NUMB grammar converts in
// place the first time get_number/get_su is called on it.
func (v *Value) coerceToNumb() {
	if v.kind != Char || v.quoted {
		return
	}
	v.ParseNumb(v.text)
}

// Number returns the double nearest to the Numb's quantity, correctly
// rounded to within one ULP.
func (v *Value) Number() (float64, error) {
	v.coerceToNumb()
	if v.kind != Numb {
		return 0, ErrWrongKind
	}
	f, err := bigdec.Double(v.sign, v.digits, v.scale)
	if err != nil {
		return 0, ErrOverflow
	}
	return f, nil
}

// Su returns the double nearest to the Numb's standard uncertainty, or
// (0, nil) if none is recorded.
func (v *Value) Su() (float64, error) {
	v.coerceToNumb()
	if v.kind != Numb {
		return 0, ErrWrongKind
	}
	if !v.hasSu {
		return 0, nil
	}
	f, err := bigdec.Double(1, v.suDigit, v.scale)
	if err != nil {
		return 0, ErrOverflow
	}
	return f, nil
}

// Display returns the Numb's formatted display text, which is either the
// verbatim source text (after ParseNumb) or a freshly rendered form
// (after InitNumb/AutoInitNumb).
func (v *Value) Display() string {
	if v.kind != Numb {
		return ""
	}
	return v.display
}

// Sign, Digits, Scale, SuDigits, HasSu expose a Numb's raw components, as
// used by the writer to decide whether the stored display text still
// fits the current line (spec §4.5).
func (v *Value) Sign() int        { return v.sign }
func (v *Value) Digits() string   { return v.digits }
func (v *Value) Scale() int       { return v.scale }
func (v *Value) SuDigits() string { return v.suDigit }
func (v *Value) HasSu() bool      { return v.hasSu }

// DisplayScientific renders the Numb in scientific notation unconditionally,
// for callers that need a narrower fallback than Display when the stored
// display text (which may use the wider plain form) doesn't fit on the
// line (spec §4.5, §8 "Line length").
func (v *Value) DisplayScientific() string {
	if v.kind != Numb {
		return ""
	}
	var b strings.Builder
	writeScientific(&b, v.sign, v.digits, v.scale)
	if v.hasSu {
		b.WriteByte('(')
		b.WriteString(v.suDigit)
		b.WriteByte(')')
	}
	return b.String()
}

package bigdec

import "testing"

func TestDigitsRoundTrip(t *testing.T) {
	cases := []float64{0, 1, 12.346, 0.003, 1720, 1e100, 1e-100, 123456789.123456}
	for _, v := range cases {
		sign, digits := Digits(v, 6, RoundHalfEven)
		got, err := Double(sign, digits, 6)
		if err != nil {
			t.Fatalf("Double(%v) error: %v", v, err)
		}
		if diff := got - v; diff > 1e-3 || diff < -1e-3 {
			t.Errorf("round trip %v: got %v (digits=%q scale=6)", v, got, digits)
		}
	}
}

func TestDigitsLeadingZeroStripped(t *testing.T) {
	_, digits := Digits(0.003, 3, RoundHalfEven)
	if digits != "3" {
		t.Errorf("Digits(0.003, 3) = %q, want %q", digits, "3")
	}
}

func TestDoubleZero(t *testing.T) {
	v, err := Double(1, "0", 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("Double(0) = %v, want 0", v)
	}
}

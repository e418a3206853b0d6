package value

import "testing"

func TestParseNumbGrammar(t *testing.T) {
	cases := []struct {
		text       string
		wantNumber float64
		wantSu     float64
		hasSu      bool
	}{
		{"12.346(3)", 12.346, 0.003, true},
		{"-7", -7, 0, false},
		{".5", 0.5, 0, false},
		{"1.5e2", 150, 0, false},
		{"+3.", 3, 0, false},
	}
	for _, c := range cases {
		v := New(Numb)
		if err := v.ParseNumb(c.text); err != nil {
			t.Fatalf("ParseNumb(%q): %v", c.text, err)
		}
		n, err := v.Number()
		if err != nil {
			t.Fatalf("Number(%q): %v", c.text, err)
		}
		if diff := n - c.wantNumber; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ParseNumb(%q) number = %v, want %v", c.text, n, c.wantNumber)
		}
		if v.HasSu() != c.hasSu {
			t.Errorf("ParseNumb(%q) hasSu = %v, want %v", c.text, v.HasSu(), c.hasSu)
		}
		if c.hasSu {
			su, err := v.Su()
			if err != nil {
				t.Fatalf("Su(%q): %v", c.text, err)
			}
			if diff := su - c.wantSu; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ParseNumb(%q) su = %v, want %v", c.text, su, c.wantSu)
			}
		}
	}
}

func TestParseNumbRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "abc", "1.2.3", "1e", "(3)", "1(3", "1-2"} {
		v := New(Numb)
		if err := v.ParseNumb(text); err == nil {
			t.Errorf("ParseNumb(%q) succeeded, want error", text)
		}
	}
}

func TestInitNumbPlainAndScientific(t *testing.T) {
	v := New(Numb)
	InitNumb(v, 12.3456, 0.003, 3, 9)
	if got := v.Display(); got != "12.346(3)" {
		t.Errorf("InitNumb display = %q, want %q", got, "12.346(3)")
	}

	v2 := New(Numb)
	InitNumb(v2, 1720, 20, -1, 19)
	if got := v2.Display(); got != "1.72e+03(2)" {
		t.Errorf("InitNumb display = %q, want %q", got, "1.72e+03(2)")
	}
}

func TestAutoInitNumbMatchesSuRuleConvention(t *testing.T) {
	v := New(Numb)
	if err := AutoInitNumb(v, 1721.51, 24, 19); err != nil {
		t.Fatalf("AutoInitNumb: %v", err)
	}
	if got := v.Display(); got != "1.72e+03(2)" {
		t.Errorf("AutoInitNumb display = %q, want %q", got, "1.72e+03(2)")
	}
	n, _ := v.Number()
	if n != 1720 {
		t.Errorf("AutoInitNumb number = %v, want 1720", n)
	}
	su, _ := v.Su()
	if su != 20 {
		t.Errorf("AutoInitNumb su = %v, want 20", su)
	}
}

func TestAutoInitNumbRejectsSmallSuRule(t *testing.T) {
	v := New(Numb)
	if err := AutoInitNumb(v, 1, 1, 1); err != ErrSuRule {
		t.Errorf("AutoInitNumb with su_rule=1: err = %v, want ErrSuRule", err)
	}
}

func TestAutoInitNumbExactBinaryFraction(t *testing.T) {
	v := New(Numb)
	if err := AutoInitNumb(v, 0.5, 0, 19); err != nil {
		t.Fatalf("AutoInitNumb: %v", err)
	}
	n, _ := v.Number()
	if n != 0.5 {
		t.Errorf("AutoInitNumb number = %v, want 0.5", n)
	}
}

package value

import "testing"

func TestSerializeRoundTripScalarKinds(t *testing.T) {
	for _, v := range []*Value{
		New(Unknown),
		New(NotApplicable),
		newChar("hello world", true),
		newNumb(t, "12.346(3)"),
		newNumb(t, "-7"),
	} {
		roundTrip(t, v)
	}
}

func newChar(text string, quoted bool) *Value {
	v := New(Char)
	v.SetText(text, quoted)
	return v
}

func newNumb(t *testing.T, text string) *Value {
	t.Helper()
	v := New(Numb)
	if err := v.ParseNumb(text); err != nil {
		t.Fatalf("ParseNumb(%q): %v", text, err)
	}
	return v
}

func TestSerializeRoundTripList(t *testing.T) {
	v := New(List)
	v.Append(newChar("a", false))
	v.Append(newNumb(t, "3.14"))
	roundTrip(t, v)
}

func TestSerializeRoundTripTable(t *testing.T) {
	v := New(Table)
	v.SetItem("_cell.length_a", newNumb(t, "5.431(2)"))
	v.SetItem("_cell.length_b", newChar("n/a", false))
	roundTrip(t, v)
}

func TestSerializeRoundTripNested(t *testing.T) {
	inner := New(List)
	inner.Append(newChar("x", false))
	outer := New(Table)
	outer.SetItem("_atoms", inner)
	roundTrip(t, outer)
}

func roundTrip(t *testing.T, v *Value) {
	t.Helper()
	data := v.Serialize()
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	assertEqualValue(t, v, got)
}

func assertEqualValue(t *testing.T, want, got *Value) {
	t.Helper()
	if want.Kind() != got.Kind() {
		t.Fatalf("Kind mismatch: want %v, got %v", want.Kind(), got.Kind())
	}
	switch want.Kind() {
	case Char:
		if want.Text() != got.Text() || want.IsQuoted() != got.IsQuoted() {
			t.Errorf("Char mismatch: want %q/%v, got %q/%v", want.Text(), want.IsQuoted(), got.Text(), got.IsQuoted())
		}
	case Numb:
		if want.Sign() != got.Sign() || want.Digits() != got.Digits() || want.Scale() != got.Scale() ||
			want.HasSu() != got.HasSu() || want.SuDigits() != got.SuDigits() || want.Display() != got.Display() {
			t.Errorf("Numb mismatch: want %+v, got %+v", want, got)
		}
	case List:
		if want.Size() != got.Size() {
			t.Fatalf("List size mismatch: want %d, got %d", want.Size(), got.Size())
		}
		for i := 0; i < want.Size(); i++ {
			wi, _ := want.At(i)
			gi, _ := got.At(i)
			assertEqualValue(t, wi, gi)
		}
	case Table:
		wantKeys, gotKeys := want.Keys(), got.Keys()
		if len(wantKeys) != len(gotKeys) {
			t.Fatalf("Table key count mismatch: want %v, got %v", wantKeys, gotKeys)
		}
		for i, k := range wantKeys {
			if gotKeys[i] != k {
				t.Errorf("Table key[%d] = %q, want %q", i, gotKeys[i], k)
			}
			wi, _ := want.Item(k)
			gi, _ := got.Item(k)
			assertEqualValue(t, wi, gi)
		}
	}
}

package cif

import (
	"testing"

	"github.com/jbcif/cif/normalize"
	"github.com/jbcif/cif/value"
)

func TestCreateBlockDuplicateCode(t *testing.T) {
	d := New(normalize.V2_0, 0)
	if _, err := d.CreateBlock("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateBlock("B"); err != ErrDuplicateBlockCode {
		t.Errorf("duplicate (case-folded) block code: err = %v, want ErrDuplicateBlockCode", err)
	}
}

func TestScalarValueRoundTrip(t *testing.T) {
	d := New(normalize.V2_0, 0)
	b, _ := d.CreateBlock("b")

	n := value.New(value.Numb)
	if err := n.ParseNumb("1"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetValue("_x", n); err != nil {
		t.Fatal(err)
	}
	got, ok := b.ScalarValue("_X")
	if !ok {
		t.Fatal("ScalarValue(_X) not found")
	}
	num, err := got.Number()
	if err != nil || num != 1 {
		t.Errorf("ScalarValue number = %v, %v; want 1", num, err)
	}
}

func TestLoopRoundTrip(t *testing.T) {
	d := New(normalize.V2_0, 0)
	b, _ := d.CreateBlock("b")
	l, err := b.CreateLoop("_ab", "_a", "_b")
	if err != nil {
		t.Fatal(err)
	}

	p1 := l.AddPacket()
	v1 := value.New(value.Numb)
	v1.ParseNumb("1")
	p1.SetItem("_a", v1)
	t1 := value.New(value.Char)
	t1.SetText("hi", true)
	p1.SetItem("_b", t1)

	p2 := l.AddPacket()
	v2 := value.New(value.Numb)
	v2.ParseNumb("2")
	p2.SetItem("_a", v2)
	t2 := value.New(value.Char)
	t2.SetText("bye", true)
	p2.SetItem("_b", t2)

	if l.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", l.Size())
	}
	col, ok := l.Column("_a")
	if !ok || len(col) != 2 {
		t.Fatalf("Column(_a) = %v, %v", col, ok)
	}
	n0, _ := col[0].Number()
	n1, _ := col[1].Number()
	if n0 != 1 || n1 != 2 {
		t.Errorf("Column(_a) = [%v %v], want [1 2]", n0, n1)
	}
}

func TestFrameNestingDepthLimit(t *testing.T) {
	d := New(normalize.V2_0, 1)
	b, _ := d.CreateBlock("b")
	f, err := b.CreateFrame("s")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.CreateFrame("inner"); err != ErrMaxFrameDepth {
		t.Errorf("nested frame beyond depth 1: err = %v, want ErrMaxFrameDepth", err)
	}
}

func TestWalkVisitsEveryItemOnce(t *testing.T) {
	d := New(normalize.V2_0, 0)
	b, _ := d.CreateBlock("b")
	l, _ := b.CreateLoop("_ab", "_a", "_b")
	p := l.AddPacket()
	v1 := value.New(value.Numb)
	v1.ParseNumb("1")
	p.SetItem("_a", v1)
	t1 := value.New(value.Char)
	t1.SetText("hi", true)
	p.SetItem("_b", t1)

	var items []string
	err := Walk(d, Visitor{
		Item: func(name string, v *value.Value) (Directive, error) {
			items = append(items, name)
			return Continue, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("Walk visited %d items, want 2: %v", len(items), items)
	}
}

func TestPruneRemovesEmptyLoop(t *testing.T) {
	d := New(normalize.V2_0, 0)
	b, _ := d.CreateBlock("b")
	if _, err := b.CreateLoop("_ab", "_a"); err != nil {
		t.Fatal(err)
	}
	b.Prune()
	if len(b.Loops()) != 0 {
		t.Errorf("Prune() left %d loops, want 0", len(b.Loops()))
	}
}

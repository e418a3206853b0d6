package scanner

import (
	"io"
	"testing"

	"github.com/jbcif/cif/normalize"
)

type stringDecoder struct {
	data []byte
	pos  int
}

func (d *stringDecoder) Fill(dst []byte) (int, error) {
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}
	n := copy(dst, d.data[d.pos:])
	d.pos += n
	if d.pos >= len(d.data) {
		return n, io.EOF
	}
	return n, nil
}

func TestDetectEncodingCIF2Magic(t *testing.T) {
	data := []byte("#\\#CIF_2.0\ndata_b\n_x 1\n")
	conv, version, skip := DetectEncoding(data, false, UTF8Converter{})
	if version != normalize.V2_0 {
		t.Errorf("version = %v, want V2_0", version)
	}
	if conv.Name() != "utf-8" {
		t.Errorf("converter = %v, want utf-8", conv.Name())
	}
	if skip != 0 {
		t.Errorf("skip = %d, want 0", skip)
	}
}

func TestDetectEncodingDefaultsToV1(t *testing.T) {
	data := []byte("data_b\n_x 1\n")
	_, version, _ := DetectEncoding(data, false, UTF8Converter{})
	if version != normalize.V1_1 {
		t.Errorf("version = %v, want V1_1", version)
	}
}

func TestScannerTokenizesTinyDocument(t *testing.T) {
	dec := &stringDecoder{data: []byte("data_b\n_x 1\n")}
	s := NewScanner(dec, UTF8Converter{}, normalize.V1_1, 0, nil, nil)

	var kinds []Kind
	for {
		tok := s.Next()
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == Whitespace {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}

	want := []Kind{BlockHeader, DataName, SimpleValue}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestScannerTableKey(t *testing.T) {
	dec := &stringDecoder{data: []byte("'a':1")}
	s := NewScanner(dec, UTF8Converter{}, normalize.V2_0, 0, nil, nil)
	tok := s.Next()
	if tok.Kind != TableKey || tok.Text != "a" {
		t.Errorf("token = %+v, want TableKey(a)", tok)
	}
}

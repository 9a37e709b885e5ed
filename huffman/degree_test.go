package huffman

import (
	"bytes"
	"bufio"
	"testing"
)

func TestBitsPerFragmentAsU32(t *testing.T) {
	cases := []struct {
		b    BitsPerFragment
		want uint32
	}{
		{1, 2}, {2, 4}, {3, 8}, {8, 256},
	}
	for _, c := range cases {
		if got := c.b.AsU32(); got != c.want {
			t.Fatalf("BitsPerFragment(%d).AsU32() = %d, want %d", c.b, got, c.want)
		}
		if got := c.b.Mul(5); got != 5*c.want {
			t.Fatalf("BitsPerFragment(%d).Mul(5) = %d, want %d", c.b, got, 5*c.want)
		}
	}
}

func TestGeneralDegreeAsU32(t *testing.T) {
	d := GeneralDegree(3)
	if d.AsU32() != 3 {
		t.Fatalf("AsU32() = %d, want 3", d.AsU32())
	}
	if d.Mul(7) != 21 {
		t.Fatalf("Mul(7) = %d, want 21", d.Mul(7))
	}
}

func TestBitsPerFragmentWireRoundTrip(t *testing.T) {
	for b := BitsPerFragment(1); b <= 8; b++ {
		buf := new(bytes.Buffer)
		if err := WriteBitsPerFragment(buf, b); err != nil {
			t.Fatal(err)
		}
		got, err := ReadBitsPerFragment(bufio.NewReader(buf))
		if err != nil {
			t.Fatal(err)
		}
		if got != b {
			t.Fatalf("got %d, want %d", got, b)
		}
	}
}

func TestGeneralDegreeWireRoundTrip(t *testing.T) {
	for _, d := range []GeneralDegree{2, 3, 4, 17, 1000} {
		buf := new(bytes.Buffer)
		if err := WriteGeneralDegree(buf, d); err != nil {
			t.Fatal(err)
		}
		got, err := ReadGeneralDegree(bufio.NewReader(buf))
		if err != nil {
			t.Fatal(err)
		}
		if got != d {
			t.Fatalf("got %d, want %d", got, d)
		}
	}
}

func TestReadGeneralDegreeRejectsBelowTwo(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteGeneralDegree(buf, GeneralDegree(2)); err != nil {
		t.Fatal(err)
	}
	// Corrupt the stream to encode 1 instead.
	buf.Reset()
	buf.WriteByte(1)
	if _, err := ReadGeneralDegree(bufio.NewReader(buf)); err == nil {
		t.Fatal("expected error reading degree < 2")
	}
}

func TestEntropyToBPF(t *testing.T) {
	cases := []struct {
		entropy float64
		want    BitsPerFragment
	}{
		{0, 0},
		{0.5, 0},
		{1, 0},
		{1.5, 1},
		{2, 1},
		{8.5, 8},
		{100, 8},
	}
	for _, c := range cases {
		if got := EntropyToBPF(c.entropy); got != c.want {
			t.Fatalf("EntropyToBPF(%v) = %d, want %d", c.entropy, got, c.want)
		}
	}
}

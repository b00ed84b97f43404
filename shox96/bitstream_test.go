package shox96

import (
	"bytes"
	"errors"
	"testing"
)

func TestBitWriterPacksMSBFirst(t *testing.T) {
	w := newbitwriter(nil)
	w.append(codeword{0b101, 3})
	w.append(codeword{0b1, 1})
	w.appendbits(0b0110_1001_1, 9)
	if w.bits != 13 {
		t.Fatalf("bits=%d, expected 13", w.bits)
	}
	out := w.finish()
	// 1011 0110 1001 1 + first 3 bits of the terminator 001
	expected := []byte{0b1011_0110, 0b1001_1001}
	if !bytes.Equal(out, expected) {
		t.Fatalf("got %08b, expected %08b", out, expected)
	}
}

func TestBitWriterKeepsPrefix(t *testing.T) {
	w := newbitwriter([]byte{0xaa})
	w.append(codeword{0xff, 8})
	out := w.finish()
	if !bytes.Equal(out, []byte{0xaa, 0xff}) {
		t.Fatalf("got %x", out)
	}
}

func TestBitReader(t *testing.T) {
	r := newbitreader([]byte{0b1011_0110, 0b1001_1001})
	b, err := r.readbit()
	if err != nil || b != 1 {
		t.Fatalf("first bit %d %v", b, err)
	}
	v, err := r.readbits(3)
	if err != nil || v != 0b011 {
		t.Fatalf("readbits(3)=%03b %v", v, err)
	}
	v, err = r.readbits(12)
	if err != nil || v != 0b0110_1001_1001 {
		t.Fatalf("readbits(12)=%012b %v", v, err)
	}
	if r.bits != 16 {
		t.Fatalf("consumed %d bits", r.bits)
	}
	if _, err = r.readbit(); !errors.Is(err, errendofstream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}

func TestBitReaderShortRead(t *testing.T) {
	r := newbitreader([]byte{0xff})
	if _, err := r.readbits(9); !errors.Is(err, errendofstream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}

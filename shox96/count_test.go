package shox96

import (
	"errors"
	"testing"
)

func TestCountBoundaries(t *testing.T) {
	tests := []struct {
		value int
		bits  int // selector + payload
	}{
		{0, 3}, {3, 3},
		{4, 7}, {35, 7},
		{36, 10}, {163, 10},
		{164, 14}, {675, 14},
		{676, 17}, {4771, 17},
		{4772, 21}, {maxcount, 21},
	}
	for _, tt := range tests {
		w := newbitwriter(nil)
		w.appendcount(tt.value)
		if w.bits != tt.bits {
			t.Errorf("count %d: %d bits, expected %d", tt.value, w.bits, tt.bits)
		}
		r := newbitreader(w.finish())
		v, err := r.readcount()
		if err != nil {
			t.Fatalf("count %d: %v", tt.value, err)
		}
		if v != tt.value {
			t.Errorf("count %d decoded as %d", tt.value, v)
		}
	}
}

func TestCountAllValuesRoundTrip(t *testing.T) {
	w := newbitwriter(nil)
	for v := range 5000 {
		w.appendcount(v)
	}
	r := newbitreader(w.finish())
	for v := range 5000 {
		got, err := r.readcount()
		if err != nil || got != v {
			t.Fatalf("value %d decoded as %d %v", v, got, err)
		}
	}
}

func TestBucketsContiguous(t *testing.T) {
	for i := 1; i < len(buckets); i++ {
		if buckets[i].lower != buckets[i-1].upper() {
			t.Errorf("bucket %d starts at %d, previous ends at %d", i, buckets[i].lower, buckets[i-1].upper())
		}
	}
	if buckets[encodablebuckets-1].upper()-1 != maxcount {
		t.Errorf("maxcount %d, last encodable value %d", maxcount, buckets[encodablebuckets-1].upper()-1)
	}
}

// the bucket selectors reuse the set selector bit patterns
func TestBucketSelectorsShareSetCodes(t *testing.T) {
	for i, bk := range buckets {
		found := false
		for _, c := range charsetcodes {
			if c == bk.selector {
				found = true
			}
		}
		if !found {
			t.Errorf("bucket %d selector %b/%d is not a set code", i, bk.selector.bits, bk.selector.n)
		}
	}
}

func TestCountDecodeOnlyBucket(t *testing.T) {
	w := newbitwriter(nil)
	w.append(buckets[6].selector)
	w.appendbits(5, 17)
	v, err := newbitreader(w.finish()).readcount()
	if err != nil || v != 70313 {
		t.Fatalf("got %d %v", v, err)
	}
}

func TestCountTruncated(t *testing.T) {
	w := newbitwriter(nil)
	w.append(buckets[5].selector)
	w.appendbits(0, 3)
	if _, err := newbitreader(w.finish()).readcount(); !errors.Is(err, errendofstream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}

func TestCountOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	newbitwriter(nil).appendcount(maxcount + 1)
}

// Package shox96 implements a compact codec for short, mostly ASCII text.
//
// Every input byte is turned into a prefix code chosen from a static table
// tuned for english text. Digits and punctuation are reached through an
// alternate numeric set, capitals through a one letter shift or a case lock.
// Runs of the same byte and earlier occurrences of 7 or more bytes are sent
// as repeat and back reference operations. Any other byte goes through a raw
// byte escape, so arbitrary binary input round trips too.
//
// The stream has no header, it ends with a terminator padding the last byte.
// Each call handles one complete buffer and keeps no state between calls,
// the package is safe for concurrent use.
//
// Usage:
//
//	packed := shox96.Compress(nil, []byte("Hello world"))
//	text, err := shox96.Decompress(nil, packed)
package shox96

import (
	"fmt"

	"github.com/cybroslabs/libshox-go/base"
)

// worst case per input byte: switch back (4) + raw escape (9) + count (14)
const maxbitsperbyte = 27

// CompressBound returns the largest possible compressed size of n bytes.
func CompressBound(n int) int {
	return (n*maxbitsperbyte + 7) / 8
}

// Compress appends the compressed form of src to dst and returns the extended buffer.
func Compress(dst []byte, src []byte) []byte {
	enc := encoder{
		w:       newbitwriter(dst),
		src:     src,
		charset: set_primary,
		lock:    false,
	}
	enc.compress()
	return enc.w.finish()
}

// CompressTo compresses src into out and returns the number of bytes used.
// On base.ErrShortBuffer out is left untouched.
func CompressTo(out []byte, src []byte) (int, error) {
	var res []byte
	if len(out) >= CompressBound(len(src)) {
		res = Compress(out[:0], src)
	} else {
		res = Compress(nil, src)
	}
	if len(res) > len(out) {
		return 0, fmt.Errorf("compressed size %d, buffer %d: %w", len(res), len(out), base.ErrShortBuffer)
	}
	return copy(out, res), nil
}

// Decompress appends the decoded form of src to dst. Truncated input is not
// an error, whatever was decoded before the input ran out is returned.
func Decompress(dst []byte, src []byte) ([]byte, error) {
	dec := decoder{
		r:       newbitreader(src),
		out:     dst,
		start:   len(dst),
		limit:   -1,
		charset: set_primary,
		lock:    false,
	}
	err := dec.decompress()
	return dec.out, err
}

// DecompressTo decodes src into out and returns the number of bytes written.
// Output exceeding len(out) fails with base.ErrShortBuffer.
func DecompressTo(out []byte, src []byte) (int, error) {
	dec := decoder{
		r:       newbitreader(src),
		out:     out[:0],
		start:   0,
		limit:   len(out),
		charset: set_primary,
		lock:    false,
	}
	err := dec.decompress()
	return len(dec.out), err
}

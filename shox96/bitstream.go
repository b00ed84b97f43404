package shox96

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cybroslabs/libshox-go/base"
	"github.com/icza/bitio"
)

// errendofstream stops the decoder without reporting anything to the caller,
// it is returned both for exhausted input and for the terminator code.
var errendofstream = errors.New("end of stream")

type bitwriter struct {
	buf  *bytes.Buffer
	w    *bitio.Writer
	bits int // emitted by this call, dst prefix not counted
}

func newbitwriter(dst []byte) *bitwriter {
	buf := bytes.NewBuffer(dst)
	return &bitwriter{
		buf: buf,
		w:   bitio.NewWriter(buf),
	}
}

// append writes the low c.n bits of c.bits, most significant first
func (b *bitwriter) append(c codeword) {
	b.appendbits(uint32(c.bits), c.n)
}

func (b *bitwriter) appendbits(v uint32, n uint8) {
	b.w.TryWriteBits(uint64(v), n) // bytes.Buffer never fails
	b.bits += int(n)
}

// finish fills the last partial byte with the leading bits of the terminator,
// so a decoder always runs out of input in the middle of that code.
func (b *bitwriter) finish() []byte {
	if r := uint8(b.bits % 8); r != 0 {
		pad := 8 - r
		b.append(codeword{termcode.bits >> (termcode.n - pad), pad})
	}
	_ = b.w.Close()
	return b.buf.Bytes()
}

type bitreader struct {
	r    *bitio.Reader
	bits int // consumed so far
}

func newbitreader(src []byte) *bitreader {
	return &bitreader{r: bitio.NewReader(bytes.NewReader(src))}
}

func (b *bitreader) readbit() (uint8, error) {
	v, err := b.r.ReadBool()
	if err != nil {
		return 0, errendofstream
	}
	b.bits++
	if v {
		return 1, nil
	}
	return 0, nil
}

// readbits returns the next n bits, most significant first
func (b *bitreader) readbits(n uint8) (uint32, error) {
	v, err := b.r.ReadBits(n)
	if err != nil {
		return 0, errendofstream
	}
	b.bits += int(n)
	return uint32(v), nil
}

// corrupt reports a malformed stream at the current bit offset
func (b *bitreader) corrupt(format string, v ...any) error {
	return fmt.Errorf("%w: bit %d: %s", base.ErrCorruptStream, b.bits, fmt.Sprintf(format, v...))
}

package shox96

// bucket is one range of the magnitude coder: selector code, then the value
// minus lower in exactly width bits
type bucket struct {
	selector codeword
	width    uint8
	lower    uint32
}

var buckets = [7]bucket{
	{codeword{0b0, 1}, 2, 0},
	{codeword{0b10, 2}, 5, 4},
	{codeword{0b110, 3}, 7, 36},
	{codeword{0b11100, 5}, 9, 164},
	{codeword{0b11101, 5}, 12, 676},
	{codeword{0b11110, 5}, 16, 4772},
	{codeword{0b11111, 5}, 17, 70308}, // decode only
}

const (
	encodablebuckets = 6
	maxcount         = 70307 // largest value the encoder can express
)

// bucketindex selects a bucket, it shares its bit patterns with the set
// selector but maps them in a different order
type bucketindex uint8

var buckettable = func() *prefixtable[bucketindex] {
	codes := make([]codeword, len(buckets))
	for i, b := range buckets {
		codes[i] = b.selector
	}
	return newprefixtable[bucketindex](codes)
}()

func (b bucket) upper() uint32 {
	return b.lower + 1<<b.width
}

// appendcount writes v with the smallest bucket covering it
func (b *bitwriter) appendcount(v int) {
	if v < 0 || v > maxcount {
		panic("shox96: count out of range")
	}
	for _, bk := range buckets[:encodablebuckets] {
		if uint32(v) < bk.upper() {
			b.append(bk.selector)
			b.appendbits(uint32(v)-bk.lower, bk.width)
			return
		}
	}
}

func (b *bitreader) readcount() (int, error) {
	idx, err := readprefix(b, buckettable)
	if err != nil {
		return 0, err
	}
	bk := buckets[idx]
	v, err := b.readbits(bk.width)
	if err != nil {
		return 0, err
	}
	return int(v + bk.lower), nil
}

package shox96

const (
	minrepeat   = 4
	minmatch    = 7
	mindistance = 6

	maxrepeat = maxcount + minrepeat
	maxmatch  = maxcount + minmatch
	maxdist   = maxcount + mindistance
)

// repeatrun returns the length of the run starting at p when the byte before
// p and the four bytes from p are all equal, 0 otherwise.
func repeatrun(src []byte, p int) int {
	if p == 0 || p >= len(src)-minrepeat {
		return 0
	}
	c := src[p]
	if src[p-1] != c || src[p+1] != c || src[p+2] != c || src[p+3] != c {
		return 0
	}
	n := minrepeat
	for p+n < len(src) && src[p+n] == c && n < maxrepeat {
		n++
	}
	return n
}

// findmatch scans the whole prefix from the start and takes the first
// occurrence of at least minmatch bytes, not the longest one. The match may
// run past p, the decoder copies byte by byte.
func findmatch(src []byte, p int) (length, dist int) {
	if p >= len(src)-minmatch {
		return 0, 0
	}
	for j := max(0, p-maxdist); j <= p-mindistance; j++ {
		k := 0
		for p+k < len(src) && k < maxmatch && src[j+k] == src[p+k] {
			k++
		}
		if k >= minmatch {
			return k, p - j
		}
	}
	return 0, 0
}

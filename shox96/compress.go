package shox96

import "strings"

type encoder struct {
	w       *bitwriter
	src     []byte
	charset charset // set_primary or set_digits
	lock    bool
}

func (e *encoder) emit(c codeword) {
	if e.charset == set_digits {
		c = stripnumericprefix(c)
	}
	e.w.append(c)
}

func (e *encoder) compress() {
	src := e.src
	for p := 0; p < len(src); p++ {
		if n := repeatrun(src, p); n > 0 {
			e.w.append(repeatcode)
			e.w.appendcount(n - minrepeat)
			p += n - 1
			continue
		}
		if length, dist := findmatch(src, p); length > 0 {
			e.w.append(backrefcode)
			e.w.appendcount(length - minmatch)
			e.w.appendcount(dist - mindistance)
			p += length - 1
			continue
		}
		e.literal(p)
	}
}

func (e *encoder) literal(p int) {
	src := e.src
	c := src[p]

	if e.charset == set_digits {
		next := c
		if c == ' ' && p+1 < len(src) { // space stays numeric only if followed by the numeric alphabet
			next = src[p+1]
		}
		if !innumericalphabet(next) {
			e.charset = set_primary
			e.w.append(shiftcode)
		}
	}

	upper := isupper(c)
	if !upper && e.lock {
		e.lock = false
		e.emit(shiftcode)
	}
	if upper && !e.lock && lockahead(src, p) {
		e.emit(lockcode)
		e.lock = true
	}
	if e.charset == set_primary && isdigit(c) {
		e.emit(numericcode)
		e.charset = set_digits
	}

	switch {
	case c == ' ' && e.charset == set_digits:
		e.emit(numericspacecode)
	case c >= ' ' && c <= '~':
		if e.lock && upper {
			c += 'a' - 'A'
		}
		e.emit(literalcodes[c-' '])
	case c == '\n':
		e.emit(newlinecode)
	case c == '\r':
		e.emit(crcode)
	case c == '\t':
		e.emit(tabcode)
	default:
		e.emit(rawbytecode)
		e.w.appendcount(int(c))
	}
}

// lockahead reports whether the six bytes from p hold no lower case letter
func lockahead(src []byte, p int) bool {
	const window = 6
	if p+window > len(src) {
		return false
	}
	for _, c := range src[p : p+window] {
		if islower(c) {
			return false
		}
	}
	return true
}

func innumericalphabet(c byte) bool {
	return strings.IndexByte(numericalphabet, c) >= 0
}

func isupper(c byte) bool { return c >= 'A' && c <= 'Z' }
func islower(c byte) bool { return c >= 'a' && c <= 'z' }
func isdigit(c byte) bool { return c >= '0' && c <= '9' }

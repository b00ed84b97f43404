package shox96

import (
	"errors"

	"github.com/cybroslabs/libshox-go/base"
)

type decoder struct {
	r       *bitreader
	out     []byte
	start   int // decoded bytes begin here, back references cant go below
	limit   int // maximum len(out), negative means unlimited
	charset charset
	lock    bool
}

func (d *decoder) decompress() error {
	for {
		err := d.step()
		if err != nil {
			if errors.Is(err, errendofstream) {
				return nil
			}
			return err
		}
	}
}

func (d *decoder) put(c byte) error {
	if d.limit >= 0 && len(d.out) >= d.limit {
		return base.ErrShortBuffer
	}
	d.out = append(d.out, c)
	return nil
}

// step decodes one literal or one control operation
func (d *decoder) step() error {
	upper := d.lock
	v, err := readprefix(d.r, slottable)
	if err != nil {
		return err
	}
	set := d.charset
	if v == slot_escape {
		if set, err = readprefix(d.r, charsettable); err != nil {
			return err
		}
		switch set {
		case set_primary:
			if d.charset != set_primary { // back from digits
				d.charset = set_primary
				return nil
			}
			if d.lock { // release
				d.lock = false
				return nil
			}
			if v, err = readprefix(d.r, slottable); err != nil {
				return err
			}
			if v == slot_escape {
				if set, err = readprefix(d.r, charsettable); err != nil {
					return err
				}
				if set == set_primary { // shift twice
					d.lock = true
					return nil
				}
			}
			upper = true
		case set_digits:
			d.charset = set_digits
			return nil
		}
		if set != set_primary {
			if v, err = readprefix(d.r, slottable); err != nil {
				return err
			}
		}
	}

	c := sets[set][v]
	switch {
	case islower(c):
		if upper {
			c -= 'a' - 'A'
		}
	case set == set_rare && v >= slot_rawbyte:
		return d.control(v, upper)
	case upper && d.charset == set_primary && v == 1:
		c = '\t'
	}
	return d.put(c)
}

func (d *decoder) control(v slot, upper bool) error {
	switch v {
	case slot_rawbyte:
		n, err := d.r.readcount()
		if err != nil {
			return err
		}
		if n > 0xff {
			return d.r.corrupt("raw byte value %d", n)
		}
		return d.put(byte(n))
	case slot_newline:
		if upper {
			return d.put('\r')
		}
		return d.put('\n')
	case slot_backref:
		return d.backref()
	case slot_repeat:
		n, err := d.r.readcount()
		if err != nil {
			return err
		}
		if len(d.out) == d.start {
			return d.r.corrupt("repeat without preceding byte")
		}
		c := d.out[len(d.out)-1]
		for range n + minrepeat {
			if err = d.put(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return errendofstream
	}
}

func (d *decoder) backref() error {
	own, err := d.r.readbit()
	if err != nil {
		return err
	}
	if own == 0 {
		return d.r.corrupt("references to previous lines are not supported")
	}
	length, err := d.r.readcount()
	if err != nil {
		return err
	}
	dist, err := d.r.readcount()
	if err != nil {
		return err
	}
	length += minmatch
	dist += mindistance
	if dist > len(d.out)-d.start {
		return d.r.corrupt("distance %d beyond %d decoded bytes", dist, len(d.out)-d.start)
	}
	// one by one, source and destination can overlap
	for range length {
		if err = d.put(d.out[len(d.out)-dist]); err != nil {
			return err
		}
	}
	return nil
}

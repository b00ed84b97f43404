package shox96

// codeword is a prefix code, the low n bits of bits, sent most significant first
type codeword struct {
	bits uint16
	n    uint8
}

// charset selects one of the seven symbol sets
type charset uint8

const (
	set_primary   charset = iota // most common letters and space
	set_secondary                // next most common letters
	set_rare                     // rare letters, slots 6..10 are control operations
	set_digits                   // digits, the alternate numeric alphabet
	set_punct
	set_punct2
	set_symbols
)

// slot is the position of a symbol inside its set
type slot uint8

const (
	slot_escape slot = 0 // in the direct lookup, escape to the set selector

	// control operations living in set_rare
	slot_rawbyte slot = 6
	slot_newline slot = 7 // carriage return when shifted
	slot_backref slot = 8
	slot_repeat  slot = 9
	slot_term    slot = 10
)

const maxprefixbits = 5

var sets = [7][11]byte{
	{' ', ' ', 'e', 't', 'a', 'o', 'i', 'n', 's', 'r', 'l'},
	{'c', 'd', 'h', 'u', 'p', 'm', 'b', 'g', 'w', 'f', 'y'},
	{'v', 'k', 'q', 'j', 'x', 'z', ' ', ' ', ' ', ' ', ' '},
	{' ', '9', '0', '1', '2', '3', '4', '5', '6', '7', '8'},
	{'.', ',', '-', '/', '=', '+', ' ', '(', ')', '$', '%'},
	{'&', ';', ':', '<', '>', '*', '"', '{', '}', '[', ']'},
	{'@', '?', '\'', '^', '#', '_', '!', '\\', '|', '~', '`'},
}

var slotcodes = [11]codeword{
	{0b00, 2}, {0b010, 3}, {0b011, 3}, {0b100, 3},
	{0b1010, 4}, {0b1011, 4}, {0b1100, 4}, {0b1101, 4}, {0b1110, 4},
	{0b11110, 5}, {0b11111, 5},
}

var charsetcodes = [7]codeword{
	set_primary:   {0b10, 2},
	set_secondary: {0b0, 1},
	set_rare:      {0b110, 3},
	set_digits:    {0b11100, 5},
	set_punct:     {0b11101, 5},
	set_punct2:    {0b11110, 5},
	set_symbols:   {0b11111, 5},
}

// control codes, all of them start with the escape slot
var (
	shiftcode        = codeword{0b0010, 4}           // shift one letter, case release, back to primary set
	lockcode         = codeword{0b00100010, 8}       // upper case lock
	numericcode      = codeword{0b0011100, 7}        // switch to the digit set
	numericspacecode = codeword{0b00111011100, 11}   // space while in the digit set
	tabcode          = codeword{0b0010010, 7}        // shifted space
	newlinecode      = codeword{0b001101101, 9}      // rare set, slot 7
	crcode           = codeword{0b0010001101101, 13} // shifted newline
	rawbytecode      = codeword{0b001101100, 9}
	backrefcode      = codeword{0b0011011101, 10}    // trailing 1 marks a reference into this buffer
	repeatcode       = codeword{0b0011011110, 10}
	termcode         = codeword{0b0011011111, 10}
)

// literalcodes holds the code of every printable byte, starting with ' '.
// Capital letters are the shift code followed by the lower case code.
var literalcodes = [95]codeword{
	{0b010, 3}, {0b00111111100, 11}, {0b00111101100, 11}, {0b00111111010, 11}, // ' ' ! " #
	{0b001110111110, 12}, {0b001110111111, 12}, {0b001111000, 9}, {0b0011111011, 10}, // $ % & '
	{0b00111011101, 11}, {0b00111011110, 11}, {0b00111101011, 11}, {0b00111011011, 11}, // ( ) * +
	{0b0011101010, 10}, {0b0011101011, 10}, {0b001110100, 9}, {0b0011101100, 10}, // , - . /
	{0b0011100011, 10}, {0b0011100100, 10}, {0b00111001010, 11}, {0b00111001011, 11}, // 0 1 2 3
	{0b00111001100, 11}, {0b00111001101, 11}, {0b00111001110, 11}, {0b001110011110, 12}, // 4 5 6 7
	{0b001110011111, 12}, {0b0011100010, 10}, {0b0011110011, 10}, {0b0011110010, 10}, // 8 9 : ;
	{0b0011110100, 10}, {0b00111011010, 11}, {0b00111101010, 11}, {0b0011111010, 10}, // < = > ?
	{0b001111100, 9}, {0b00101010, 8}, {0b00100001100, 11}, {0b001000000, 9}, // @ A B C
	{0b0010000010, 10}, {0b0010011, 7}, {0b001000011110, 12}, {0b00100001101, 11}, // D E F G
	{0b0010000011, 10}, {0b00101100, 8}, {0b001000110100, 12}, {0b001000110010, 12}, // H I J K
	{0b001011111, 9}, {0b00100001011, 11}, {0b00101101, 8}, {0b00101011, 8}, // L M N O
	{0b00100001010, 11}, {0b001000110011, 12}, {0b001011110, 9}, {0b00101110, 8}, // P Q R S
	{0b0010100, 7}, {0b0010000100, 10}, {0b00100011000, 11}, {0b00100001110, 11}, // T U V W
	{0b0010001101010, 13}, {0b001000011111, 12}, {0b0010001101011, 13}, {0b001111011110, 12}, // X Y Z [
	{0b00111111101, 11}, {0b001111011111, 12}, {0b0011111100, 10}, {0b00111111011, 11}, // \ ] ^ _
	{0b001111111111, 12}, {0b1010, 4}, {0b0001100, 7}, {0b00000, 5}, // ` a b c
	{0b000010, 6}, {0b011, 3}, {0b00011110, 8}, {0b0001101, 7}, // d e f g
	{0b000011, 6}, {0b1100, 4}, {0b00110100, 8}, {0b00110010, 8}, // h i j k
	{0b11111, 5}, {0b0001011, 7}, {0b1101, 4}, {0b1011, 4}, // l m n o
	{0b0001010, 7}, {0b00110011, 8}, {0b11110, 5}, {0b1110, 4}, // p q r s
	{0b100, 3}, {0b000100, 6}, {0b0011000, 7}, {0b0001110, 7}, // t u v w
	{0b001101010, 9}, {0b00011111, 8}, {0b001101011, 9}, {0b00111101101, 11}, // x y z {
	{0b00111111110, 11}, {0b00111101110, 11}, {0b001111111110, 12}, // | } ~
}

// numericalphabet keeps the encoder in the digit set, only '`' is missing
// and always goes back to the primary set.
const numericalphabet = "9012345678.,-/=+ ()$%&;:<>*\"{}[]@?'^#_!\\|~"

// numericprefix is the set selection every digit code starts with,
// it is dropped while the digit set is active.
var numericprefix = numericcode

func stripnumericprefix(c codeword) codeword {
	shift := c.n - numericprefix.n
	if c.n > numericprefix.n && c.bits>>shift == numericprefix.bits {
		return codeword{c.bits & (1<<shift - 1), shift}
	}
	return c
}

type prefixentry[T ~uint8] struct {
	sym T
	ok  bool
}

// prefixtable is indexed by the bits read so far with a leading 1 marker,
// so codes of different length never collide.
type prefixtable[T ~uint8] [1 << (maxprefixbits + 1)]prefixentry[T]

func newprefixtable[T ~uint8](codes []codeword) *prefixtable[T] {
	t := new(prefixtable[T])
	for i, c := range codes {
		if c.n == 0 || c.n > maxprefixbits {
			panic("shox96: prefix code too long")
		}
		idx := 1<<c.n | int(c.bits)
		if t[idx].ok {
			panic("shox96: duplicate prefix code")
		}
		t[idx] = prefixentry[T]{sym: T(i), ok: true}
	}
	return t
}

var (
	slottable    = newprefixtable[slot](slotcodes[:])
	charsettable = newprefixtable[charset](charsetcodes[:])
)

// readprefix walks a prefix table one bit at a time
func readprefix[T ~uint8](r *bitreader, t *prefixtable[T]) (T, error) {
	idx := 1
	for range maxprefixbits {
		b, err := r.readbit()
		if err != nil {
			return 0, err
		}
		idx = idx<<1 | int(b)
		if e := t[idx]; e.ok {
			return e.sym, nil
		}
	}
	return 0, r.corrupt("no code matches %05b", idx&(1<<maxprefixbits-1))
}

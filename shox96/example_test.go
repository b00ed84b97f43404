package shox96_test

import (
	"fmt"

	"github.com/cybroslabs/libshox-go/shox96"
)

func Example() {
	in := []byte("Hello world, HELLO WORLD 2024!")
	packed := shox96.Compress(nil, in)
	fmt.Println(len(in) > len(packed))

	out, err := shox96.Decompress(nil, packed)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out))
	// Output:
	// true
	// Hello world, HELLO WORLD 2024!
}

func ExampleDecompressTo() {
	packed := shox96.Compress(nil, []byte("fixed buffer"))
	out := make([]byte, 64)
	n, err := shox96.DecompressTo(out, packed)
	fmt.Println(string(out[:n]), err)
	// Output: fixed buffer <nil>
}

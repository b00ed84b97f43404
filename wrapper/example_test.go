package wrapper_test

import (
	"fmt"
	"io"
	"time"

	"github.com/cybroslabs/libshox-go/tcp"
	"github.com/cybroslabs/libshox-go/wrapper"
	"k8s.io/utils/ptr"
)

// Example sends one compressed request and reads the answer
func Example() {
	transport := tcp.New("192.168.1.100", 4059, 5*time.Second)

	stream, err := wrapper.New(transport, &wrapper.Settings{
		Source:         1,
		Destination:    2,
		MaxMessageSize: ptr.To(1024),
	})
	if err != nil {
		fmt.Printf("Failed to create wrapper: %v\n", err)
		return
	}

	if err := stream.Open(); err != nil {
		fmt.Printf("Failed to open: %v\n", err)
		return
	}
	defer func() { _ = stream.Disconnect() }()

	if err := stream.Write([]byte("Status of Pump 3, please")); err != nil {
		fmt.Printf("Failed to write: %v\n", err)
		return
	}

	// reading flushes the request
	reply, err := io.ReadAll(stream)
	if err != nil {
		fmt.Printf("Failed to read: %v\n", err)
		return
	}
	fmt.Printf("Received %q\n", reply)

	rx, tx := stream.GetRxTxBytes()
	fmt.Printf("Link bytes in %d, out %d\n", rx, tx)
}

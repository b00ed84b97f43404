package base

import "errors"

var ErrNothingToRead = errors.New("nothing to read")
var ErrNotOpened = errors.New("connection is not open")
var ErrCommunicationTimeout = errors.New("communication timeout")

// codec errors
var ErrCorruptStream = errors.New("corrupt compressed stream")
var ErrShortBuffer = errors.New("output buffer too small")
var ErrMessageTooBig = errors.New("message too big")

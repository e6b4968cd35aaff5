package kfmt

import "io"

// ringBufferSize defines size of the ring buffer that buffers early Printf
// output. It is sized to hold the complete bring-up log of the IPL (driver
// probes plus the random number dump). The ring buffer size must always be a
// power of 2.
const ringBufferSize = 2048

// ringBuffer models a ring buffer of size ringBufferSize. This buffer is used
// for capturing the output of Printf before the console is attached.
type ringBuffer struct {
	buffer         [ringBufferSize]byte
	rIndex, wIndex int
}

// Write writes len(p) bytes from p to the ringBuffer. When the buffer is full
// the oldest bytes are overwritten.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.rIndex == rb.wIndex {
			rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		}
	}

	return len(p), nil
}

// Read reads up to len(p) bytes into p. It returns the number of bytes read (0
// <= n <= len(p)) and io.EOF once the buffer has been drained.
func (rb *ringBuffer) Read(p []byte) (n int, err error) {
	var avail int
	switch {
	case rb.rIndex < rb.wIndex:
		avail = rb.wIndex - rb.rIndex
	case rb.rIndex > rb.wIndex:
		avail = len(rb.buffer) - rb.rIndex
	default:
		return 0, io.EOF
	}

	n = copy(p, rb.buffer[rb.rIndex:rb.rIndex+avail])
	rb.rIndex = (rb.rIndex + n) & (ringBufferSize - 1)
	return n, nil
}

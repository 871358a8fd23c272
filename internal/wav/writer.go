package wav

import (
	"bufio"
	"fmt"
	"io"
)

const bufferSize = 64 << 10

// Writer streams interleaved float samples into a WAVE container. The header
// is written up front from the declared frame count, so the destination never
// needs to seek.
type Writer struct {
	bw      *bufio.Writer
	hdr     Header
	written int // interleaved samples
	scratch []byte
}

// NewWriter writes the header for h to w and returns a Writer expecting
// exactly h.Frames frames.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	head, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(w, bufferSize)
	if _, err := bw.Write(head); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{bw: bw, hdr: h}, nil
}

// Write quantizes interleaved samples and appends them to the data chunk.
func (w *Writer) Write(interleaved []float64) error {
	total := w.hdr.Frames * w.hdr.Channels
	if w.written+len(interleaved) > total {
		return fmt.Errorf("write of %d samples overflows declared %d", len(interleaved), total)
	}
	if cap(w.scratch) < len(interleaved)*2 {
		w.scratch = make([]byte, len(interleaved)*2)
	}
	if _, err := w.bw.Write(QuantizeInto(interleaved, w.scratch)); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	w.written += len(interleaved)
	return nil
}

// Close flushes buffered data. It fails if fewer samples were written than
// the header declares. It does not close the underlying writer.
func (w *Writer) Close() error {
	if want := w.hdr.Frames * w.hdr.Channels; w.written != want {
		return fmt.Errorf("wrote %d samples, header declares %d", w.written, want)
	}
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

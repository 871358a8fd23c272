// Package wav writes canonical 16-bit linear PCM RIFF/WAVE files.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	SampleRate    = 44100
	BitsPerSample = 16
	HeaderSize    = 44
	FormatPCM     = 1
)

// Header describes the fmt and data chunks of a canonical WAVE file.
type Header struct {
	Channels int
	Frames   int // samples per channel
}

// BlockAlign is the size in bytes of one interleaved frame.
func (h Header) BlockAlign() int {
	return h.Channels * BitsPerSample / 8
}

// ByteRate is the number of data bytes per second.
func (h Header) ByteRate() int {
	return SampleRate * h.BlockAlign()
}

// DataSize is the length of the data chunk payload.
func (h Header) DataSize() int {
	return h.Frames * h.BlockAlign()
}

// Validate checks the header fits the 32-bit RIFF size fields.
func (h Header) Validate() error {
	if h.Channels != 1 && h.Channels != 2 {
		return fmt.Errorf("unsupported channel count %d", h.Channels)
	}
	if h.Frames <= 0 {
		return errors.New("frame count must be positive")
	}
	if int64(h.DataSize())+HeaderSize-8 > math.MaxUint32 {
		return fmt.Errorf("%d frames exceed the RIFF size limit", h.Frames)
	}
	return nil
}

// MarshalBinary encodes the 44-byte RIFF, fmt and data chunk headers.
func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize)
	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(HeaderSize-8+h.DataSize()))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16)
	le.PutUint16(buf[20:22], FormatPCM)
	le.PutUint16(buf[22:24], uint16(h.Channels))
	le.PutUint32(buf[24:28], SampleRate)
	le.PutUint32(buf[28:32], uint32(h.ByteRate()))
	le.PutUint16(buf[32:34], uint16(h.BlockAlign()))
	le.PutUint16(buf[34:36], BitsPerSample)

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(h.DataSize()))
	return buf, nil
}

// Quantize clips s to [-1,1] and rounds it to a signed 16-bit sample.
func Quantize(s float64) int16 {
	switch {
	case math.IsNaN(s):
		s = 0
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	return int16(math.Round(s * math.MaxInt16))
}

// Dequantize maps a 16-bit sample back to [-1,1].
func Dequantize(v int16) float64 {
	if v == math.MinInt16 {
		return -1
	}
	return float64(v) / math.MaxInt16
}

// QuantizeInto writes samples as s16le into dst, avoiding allocation.
// dst must have capacity >= len(samples)*2. Returns the used portion.
func QuantizeInto(samples []float64, dst []byte) []byte {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(Quantize(s)))
	}
	return dst[:len(samples)*2]
}

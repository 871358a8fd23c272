package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestHeaderFields(t *testing.T) {
	h := Header{Channels: 2, Frames: 441000}
	if h.BlockAlign() != 4 {
		t.Errorf("BlockAlign = %d, want 4", h.BlockAlign())
	}
	if h.ByteRate() != 176400 {
		t.Errorf("ByteRate = %d, want 176400", h.ByteRate())
	}
	if h.DataSize() != 1764000 {
		t.Errorf("DataSize = %d, want 1764000", h.DataSize())
	}
}

func TestMarshalCanonicalLayout(t *testing.T) {
	h := Header{Channels: 1, Frames: 441000}
	buf, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(buf) != HeaderSize {
		t.Fatalf("header len = %d, want %d", len(buf), HeaderSize)
	}
	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", le.Uint32(buf[4:8]), 36 + 882000},
		{"fmt size", le.Uint32(buf[16:20]), 16},
		{"format", uint32(le.Uint16(buf[20:22])), 1},
		{"channels", uint32(le.Uint16(buf[22:24])), 1},
		{"sample rate", le.Uint32(buf[24:28]), 44100},
		{"byte rate", le.Uint32(buf[28:32]), 88200},
		{"block align", uint32(le.Uint16(buf[32:34])), 2},
		{"bits", uint32(le.Uint16(buf[34:36])), 16},
		{"data size", le.Uint32(buf[40:44]), 882000},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	for off, tag := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
		if got := string(buf[off : off+4]); got != tag {
			t.Errorf("tag at %d = %q, want %q", off, got, tag)
		}
	}
}

func TestHeaderValidate(t *testing.T) {
	if err := (Header{Channels: 3, Frames: 10}).Validate(); err == nil {
		t.Error("3 channels should be rejected")
	}
	if err := (Header{Channels: 1, Frames: 0}).Validate(); err == nil {
		t.Error("zero frames should be rejected")
	}
	if err := (Header{Channels: 2, Frames: math.MaxInt32}).Validate(); err == nil {
		t.Error("oversized data chunk should be rejected")
	}
}

func TestQuantizeClipsAndRounds(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{1.5, 32767},
		{-7, -32767},
		{0.5, 16384}, // 16383.5 rounds away from zero
		{-0.5, -16384},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestQuantizeRoundTrip(t *testing.T) {
	for i := 0; i <= 20000; i++ {
		s := -1 + float64(i)/10000
		if d := math.Abs(Dequantize(Quantize(s)) - s); d > 1.0/32768 {
			t.Fatalf("round trip of %v off by %g", s, d)
		}
	}
}

func TestQuantizeIntoLittleEndian(t *testing.T) {
	dst := make([]byte, 8)
	out := QuantizeInto([]float64{0, 1, -1, 256.0 / 32767}, dst)
	if len(out) != 8 {
		t.Fatalf("len = %d, want 8", len(out))
	}
	// 256 = 0x0100 -> bytes [0x00, 0x01]
	if out[6] != 0x00 || out[7] != 0x01 {
		t.Errorf("256 encoded as [%02x, %02x], want [00, 01]", out[6], out[7])
	}
	if int16(binary.LittleEndian.Uint16(out[4:])) != -32767 {
		t.Errorf("-1 encoded as %d", int16(binary.LittleEndian.Uint16(out[4:])))
	}
}

func TestWriterProducesExactLength(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Channels: 2, Frames: 1000})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	chunk := make([]float64, 600)
	if err := w.Write(chunk); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(make([]float64, 1401)); err == nil {
		t.Fatal("overflowing write should fail")
	}
	if err := w.Write(make([]float64, 1400)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != HeaderSize+4000 {
		t.Errorf("file len = %d, want %d", buf.Len(), HeaderSize+4000)
	}
}

func TestWriterCloseDetectsShortWrite(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, Header{Channels: 1, Frames: 10})
	w.Write(make([]float64, 5))
	if err := w.Close(); err == nil {
		t.Error("Close after short write should fail")
	}
}

type failingWriter struct{}

var errDisk = errors.New("disk full")

func (failingWriter) Write(p []byte) (int, error) { return 0, errDisk }

func TestWriterSurfacesIOErrors(t *testing.T) {
	w, err := NewWriter(failingWriter{}, Header{Channels: 1, Frames: 10})
	if err != nil {
		// header sits in the bufio buffer until flush
		t.Fatalf("NewWriter: %v", err)
	}
	w.Write(make([]float64, 10))
	if err := w.Close(); !errors.Is(err, errDisk) {
		t.Errorf("Close err = %v, want wrapped errDisk", err)
	}
}

func TestWriterDeterministic(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, Header{Channels: 1, Frames: 100})
		s := make([]float64, 100)
		for i := range s {
			s[i] = math.Sin(float64(i) / 7)
		}
		w.Write(s)
		w.Close()
		return buf.Bytes()
	}
	if !bytes.Equal(render(), render()) {
		t.Error("identical input produced different bytes")
	}
}

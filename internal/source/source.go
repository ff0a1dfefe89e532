package source

import (
	"context"
	"fmt"
	"io"

	"github.com/radioscan/p25rx/internal/bits"
)

// DibitSink consumes demodulated C4FM symbols in arrival order.
type DibitSink interface {
	Receive(d bits.Dibit)
}

// Format selects how dibits are packed in the input byte stream.
type Format int

const (
	// FormatPacked carries four dibits per byte, MSB first.
	FormatPacked Format = iota
	// FormatRaw carries one dibit per byte in the low two bits.
	FormatRaw
)

// ParseFormat maps a config string to its Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "packed":
		return FormatPacked, nil
	case "raw":
		return FormatRaw, nil
	default:
		return 0, fmt.Errorf("unknown dibit format %q", s)
	}
}

// push expands one input byte into dibits and feeds the sink.
func (f Format) push(b byte, sink DibitSink) {
	switch f {
	case FormatPacked:
		for shift := 6; shift >= 0; shift -= 2 {
			sink.Receive(bits.DibitFromValue(b >> uint(shift)))
		}
	case FormatRaw:
		sink.Receive(bits.DibitFromValue(b))
	}
}

// Reader pushes dibits from a byte stream into a sink on the caller's
// goroutine, preserving the single-producer contract of the framer.
type Reader struct {
	r      io.Reader
	format Format
}

// NewReader creates a stream source.
func NewReader(r io.Reader, format Format) *Reader {
	return &Reader{r: r, format: format}
}

// Run consumes the stream until EOF, read error or context cancellation.
func (s *Reader) Run(ctx context.Context, sink DibitSink) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := s.r.Read(buf)
		for _, b := range buf[:n] {
			s.format.push(b, sink)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

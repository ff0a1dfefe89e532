package source

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/radioscan/p25rx/internal/logger"
)

// UDPSource receives demodulator output as UDP datagrams and feeds the
// payload bytes to the sink. Datagram boundaries carry no meaning; the
// payload is a continuous dibit stream.
type UDPSource struct {
	address string
	format  Format
	log     *logger.Logger
	conn    *net.UDPConn
}

// NewUDPSource creates a UDP source listening on address.
func NewUDPSource(address string, format Format, log *logger.Logger) *UDPSource {
	return &UDPSource{address: address, format: format, log: log}
}

// Open binds the listening socket.
func (s *UDPSource) Open() error {
	addr, err := net.ResolveUDPAddr("udp4", s.address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s.address, err)
	}

	s.conn, err = net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("bind %q: %w", s.address, err)
	}

	s.log.Info("udp source bound", logger.String("address", s.conn.LocalAddr().String()))
	return nil
}

// Run reads datagrams until the context is cancelled. Read deadlines keep
// the loop responsive to cancellation.
func (s *UDPSource) Run(ctx context.Context, sink DibitSink) error {
	if s.conn == nil {
		return fmt.Errorf("udp source not open")
	}

	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond)); err != nil {
			return err
		}

		n, _, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("udp read: %w", err)
		}

		for _, b := range buf[:n] {
			s.format.push(b, sink)
		}
	}
}

// Close releases the socket.
func (s *UDPSource) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

package p25

import (
	"fmt"

	"github.com/radioscan/p25rx/internal/bits"
)

// NID field offsets. The assembler buffer begins at the first bit after the
// frame sync, so the NAC occupies the first 12 bits and the DUID the next 4.
const (
	nacBegin  = 0
	nacEnd    = 12
	duidBegin = 12
	duidEnd   = 16
)

// PDU header confirmation word fields, relative to the buffer start.
const (
	pduBlocksBegin = 113
	pduBlocksEnd   = 120
	pduPadBegin    = 123
	pduPadEnd      = 128
)

// Message is a decoded P25 data unit emitted to the listener. Every message
// owns its bit buffer; the framer's assembly buffers are never exposed.
type Message interface {
	// DUID returns the final data unit type.
	DUID() DUID
	// NAC returns the 12-bit Network Access Code from the NID.
	NAC() int
	// Bits returns the message payload. Callers must not retain and mutate
	// it across dispatches of other messages.
	Bits() *bits.Buffer
	String() string
}

// MessageListener consumes decoded messages from a Framer.
type MessageListener interface {
	Receive(msg Message)
}

// MessageListenerFunc adapts a function to the MessageListener interface.
type MessageListenerFunc func(msg Message)

// Receive implements MessageListener.
func (f MessageListenerFunc) Receive(msg Message) {
	f(msg)
}

// RawMessage is an undecoded data unit: the raw bit content of an HDU, TDU,
// TDULC, LDU, PDU or unknown unit.
type RawMessage struct {
	duid DUID
	bits *bits.Buffer
}

// NewRawMessage creates a message owning the given buffer. The caller passes
// a copy; RawMessage does not copy again.
func NewRawMessage(buf *bits.Buffer, duid DUID) *RawMessage {
	return &RawMessage{duid: duid, bits: buf}
}

// DUID returns the data unit type.
func (m *RawMessage) DUID() DUID {
	return m.duid
}

// NAC returns the Network Access Code, or 0 when the buffer is shorter than
// the NID.
func (m *RawMessage) NAC() int {
	if m.bits.Len() < nacEnd {
		return 0
	}
	return m.bits.Int(nacBegin, nacEnd)
}

// Bits returns the message bit buffer.
func (m *RawMessage) Bits() *bits.Buffer {
	return m.bits
}

func (m *RawMessage) String() string {
	return fmt.Sprintf("%s nac:%03X bits:%d", m.duid, m.NAC(), m.bits.Len())
}

package source

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radioscan/p25rx/internal/bits"
)

type sinkStub struct {
	dibits []bits.Dibit
}

func (s *sinkStub) Receive(d bits.Dibit) {
	s.dibits = append(s.dibits, d)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("packed")
	require.NoError(t, err)
	assert.Equal(t, FormatPacked, f)

	f, err = ParseFormat("raw")
	require.NoError(t, err)
	assert.Equal(t, FormatRaw, f)

	_, err = ParseFormat("base64")
	assert.Error(t, err)
}

func TestReaderPacked(t *testing.T) {
	// 0x1B = 00 01 10 11: four dibits MSB first.
	sink := &sinkStub{}
	r := NewReader(bytes.NewReader([]byte{0x1B}), FormatPacked)
	require.NoError(t, r.Run(context.Background(), sink))

	require.Len(t, sink.dibits, 4)
	assert.Equal(t, bits.NewDibit(false, false), sink.dibits[0])
	assert.Equal(t, bits.NewDibit(false, true), sink.dibits[1])
	assert.Equal(t, bits.NewDibit(true, false), sink.dibits[2])
	assert.Equal(t, bits.NewDibit(true, true), sink.dibits[3])
}

func TestReaderRaw(t *testing.T) {
	// One dibit per byte, low two bits; high bits ignored.
	sink := &sinkStub{}
	r := NewReader(bytes.NewReader([]byte{0x00, 0x01, 0xFE, 0x03}), FormatRaw)
	require.NoError(t, r.Run(context.Background(), sink))

	require.Len(t, sink.dibits, 4)
	assert.Equal(t, bits.NewDibit(false, false), sink.dibits[0])
	assert.Equal(t, bits.NewDibit(false, true), sink.dibits[1])
	assert.Equal(t, bits.NewDibit(true, false), sink.dibits[2])
	assert.Equal(t, bits.NewDibit(true, true), sink.dibits[3])
}

func TestReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &sinkStub{}
	r := NewReader(bytes.NewReader(make([]byte, 1024)), FormatPacked)
	err := r.Run(ctx, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.dibits)
}

package monitor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radioscan/p25rx/internal/bits"
	"github.com/radioscan/p25rx/internal/logger"
	"github.com/radioscan/p25rx/internal/p25"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

func TestEventMarshal(t *testing.T) {
	event := Event{
		Type:      "message",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		DUID:      "TDU",
		NAC:       0x293,
		Summary:   "TDU nac:293 bits:504",
	}

	data, err := event.Marshal()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "message", decoded["type"])
	assert.Equal(t, "TDU", decoded["duid"])
	assert.Equal(t, float64(0x293), decoded["nac"])
}

func TestHubReceiveQueuesEvent(t *testing.T) {
	hub := NewHub(testLogger())

	buf := bits.NewBuffer(p25.NIDLength)
	buf.Set(0)
	hub.Receive(p25.NewRawMessage(buf, p25.TDU))

	select {
	case event := <-hub.broadcast:
		assert.Equal(t, "message", event.Type)
		assert.Equal(t, "TDU", event.DUID)
	default:
		t.Fatal("expected a queued broadcast event")
	}
}

func TestHubReceiveDropsWhenFull(t *testing.T) {
	hub := NewHub(testLogger())

	buf := bits.NewBuffer(p25.NIDLength)
	msg := p25.NewRawMessage(buf, p25.TDU)

	// Fill the queue past capacity; Receive must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Receive(msg)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Receive blocked on a full broadcast queue")
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on context cancellation")
	}
}

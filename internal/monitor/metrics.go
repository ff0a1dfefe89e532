package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/radioscan/p25rx/internal/p25"
)

// Metrics holds the Prometheus collectors for decoder events. It implements
// p25.Stats for the framer's sync/dispatch/pool counters and
// p25.MessageListener for the opcode breakdown of decoded TSBKs, which only
// the dispatched message carries.
type Metrics struct {
	syncDetected  prometheus.Counter
	poolExhausted prometheus.Counter
	messages      *prometheus.CounterVec
	tsbkByOpcode  *prometheus.CounterVec
}

// NewMetrics registers the decoder collectors with reg, or with the default
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		syncDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "p25rx_sync_detected_total",
			Help: "Frame sync pattern matches",
		}),
		poolExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "p25rx_assembler_pool_exhausted_total",
			Help: "Sync triggers dropped because all assemblers were busy",
		}),
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "p25rx_messages_total",
			Help: "Decoded messages by data unit type",
		}, []string{"duid"}),
		tsbkByOpcode: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "p25rx_tsbk_total",
			Help: "Decoded trunking signalling blocks by opcode",
		}, []string{"opcode"}),
	}
}

// SyncDetected implements p25.Stats.
func (m *Metrics) SyncDetected() {
	m.syncDetected.Inc()
}

// MessageDispatched implements p25.Stats.
func (m *Metrics) MessageDispatched(duid p25.DUID) {
	m.messages.WithLabelValues(duid.String()).Inc()
}

// PoolExhausted implements p25.Stats.
func (m *Metrics) PoolExhausted() {
	m.poolExhausted.Inc()
}

// Receive implements p25.MessageListener, counting TSBKs by opcode.
func (m *Metrics) Receive(msg p25.Message) {
	if tsbk, ok := msg.(p25.TSBK); ok {
		m.tsbkByOpcode.WithLabelValues(tsbk.Opcode().String()).Inc()
	}
}

package p25

import (
	"github.com/radioscan/p25rx/internal/bits"
	"github.com/radioscan/p25rx/internal/logger"
)

// SyncPattern is the 48-bit P25 frame sync word prefixing every data unit.
const (
	SyncPattern = 0x5575F5FF77FF
	SyncLength  = 48
)

// Stats receives decoder event counts. Implementations must be cheap; the
// framer calls them on the dibit-ingest path.
type Stats interface {
	// SyncDetected counts a frame sync match.
	SyncDetected()
	// MessageDispatched counts an emitted message by its final DUID.
	MessageDispatched(duid DUID)
	// PoolExhausted counts a sync trigger dropped because every assembler
	// was busy.
	PoolExhausted()
}

// FramerConfig holds the construction-time framer settings.
type FramerConfig struct {
	// Sync is the frame sync pattern, right-aligned.
	Sync uint64
	// SyncLength is the pattern length in bits.
	SyncLength int
	// Inverted flips both bits of every incoming dibit.
	Inverted bool
	// PoolSize is the number of concurrent assembly contexts, minimum 1.
	PoolSize int
	// StatusSchedule lists the status symbol positions to skip.
	StatusSchedule []int
}

// DefaultFramerConfig returns the standard P25 framer settings: the P25 sync
// word, normal polarity, two assemblers and the fixed status schedule.
func DefaultFramerConfig() FramerConfig {
	return FramerConfig{
		Sync:           SyncPattern,
		SyncLength:     SyncLength,
		PoolSize:       2,
		StatusSchedule: DefaultStatusSchedule,
	}
}

// Framer locates P25 frame sync in a stream of C4FM dibits and assembles the
// following data units. Two assemblers are pooled by default so a false sync
// trigger does not mask a subsequent true sync. The framer is single-threaded
// on the ingest path; concurrent Receive calls are undefined.
type Framer struct {
	matcher    *bits.SyncMatcher
	assemblers []*assembler
	listener   MessageListener
	stats      Stats
	inverted   bool
	log        *logger.Logger
}

// NewFramer creates a framer from cfg. A zero Sync falls back to the P25
// pattern and PoolSize is clamped to at least one assembler.
func NewFramer(cfg FramerConfig, log *logger.Logger) *Framer {
	if cfg.Sync == 0 {
		cfg.Sync = SyncPattern
		cfg.SyncLength = SyncLength
	}
	if cfg.SyncLength == 0 {
		cfg.SyncLength = SyncLength
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 1
	}
	if cfg.StatusSchedule == nil {
		cfg.StatusSchedule = DefaultStatusSchedule
	}
	if log == nil {
		log = logger.New(logger.Config{})
	}

	f := &Framer{
		matcher:  bits.NewSyncMatcher(cfg.Sync, cfg.SyncLength),
		inverted: cfg.Inverted,
		log:      log,
	}
	for i := 0; i < cfg.PoolSize; i++ {
		f.assemblers = append(f.assemblers, newAssembler(f, cfg.StatusSchedule))
	}
	return f
}

// SetListener registers the message sink.
func (f *Framer) SetListener(listener MessageListener) {
	f.listener = listener
}

// ClearListener detaches the message sink.
func (f *Framer) ClearListener() {
	f.listener = nil
}

// SetStats registers an event counter sink.
func (f *Framer) SetStats(stats Stats) {
	f.stats = stats
}

// Receive consumes one C4FM symbol: it advances the sync matcher, feeds every
// active assembler (resetting any that completed), then activates a free
// assembler on a sync match. Completed assemblers are reset before the sync
// check, so a sync landing on the dibit that finished a message can claim the
// freed context immediately.
func (f *Framer) Receive(d bits.Dibit) {
	if f.inverted {
		d = d.Invert()
	}

	f.matcher.Receive(d.Bit1())
	f.matcher.Receive(d.Bit2())

	for _, a := range f.assemblers {
		if a.active {
			a.receive(d)
			if a.complete {
				a.reset()
			}
		}
	}

	if f.matcher.Matches() {
		if f.stats != nil {
			f.stats.SyncDetected()
		}

		activated := false
		for _, a := range f.assemblers {
			if !a.active {
				a.active = true
				activated = true
				break
			}
		}
		if !activated {
			f.log.Debug("no inactive message assembler available")
			if f.stats != nil {
				f.stats.PoolExhausted()
			}
		}
	}
}

// dispatch forwards a finished message to the listener, if one is set.
func (f *Framer) dispatch(msg Message) {
	if f.stats != nil {
		f.stats.MessageDispatched(msg.DUID())
	}
	if f.listener != nil {
		f.listener.Receive(msg)
	}
}

// Reset returns the framer to its construction state: matcher cleared and
// every assembler inactive.
func (f *Framer) Reset() {
	f.matcher.Reset()
	for _, a := range f.assemblers {
		a.reset()
	}
}

// Dispose detaches the listener and discards the assemblers. Safe only from
// the ingest task or after the last Receive call has returned.
func (f *Framer) Dispose() {
	f.listener = nil
	f.stats = nil
	f.assemblers = nil
}

package p25

import (
	"github.com/radioscan/p25rx/internal/bits"
	"github.com/radioscan/p25rx/internal/codec"
	"github.com/radioscan/p25rx/internal/logger"
)

// TSBK and PDU data blocks occupy the 196 bits following the NID.
const (
	tsbkBegin = 64
	tsbkEnd   = 260
)

// DefaultStatusSchedule lists the buffer positions of the status symbols the
// air interface injects every 70 bits, starting 22 bits into the NID. An
// assembler discards the symbol arriving at each scheduled position.
var DefaultStatusSchedule = []int{22, 92, 162, 232, 302, 372, 442, 512, 582, 652, 722, 792, 862, 932}

// assembler accumulates the bits of one data unit. Its state is the expected
// DUID, starting at NID until the DUID field has been read, then switching to
// the concrete unit and, for PDUs and TSBKs, through continuation states.
type assembler struct {
	framer   *Framer
	buf      *bits.Buffer
	trellis  *codec.TrellisHalfRate
	schedule []int

	duid     DUID
	statusIx int
	active   bool
	complete bool
}

func newAssembler(f *Framer, schedule []int) *assembler {
	a := &assembler{
		framer:   f,
		buf:      bits.NewBuffer(NID.MessageLength()),
		trellis:  codec.NewTrellisHalfRate(),
		schedule: schedule,
	}
	a.reset()
	return a
}

// receive consumes one dibit while active. A dibit arriving at a scheduled
// status position is discarded whole; otherwise both bits are appended and a
// filled buffer triggers the completion check.
func (a *assembler) receive(d bits.Dibit) {
	if !a.active {
		return
	}

	if a.statusIx < len(a.schedule) && a.buf.Pointer() == a.schedule[a.statusIx] {
		a.statusIx++
		return
	}

	if err := a.buf.Add(d.Bit1()); err != nil {
		a.complete = true
	} else if err := a.buf.Add(d.Bit2()); err != nil {
		a.complete = true
	}

	if a.buf.IsFull() {
		a.checkComplete()
	}
}

// setDUID switches the expected data unit and resizes the buffer to its
// length. Bits already written and the pointer are preserved, so a grown
// buffer continues filling from where it stopped.
func (a *assembler) setDUID(d DUID) {
	a.duid = d
	a.buf.SetSize(d.MessageLength())
}

func (a *assembler) reset() {
	a.duid = NID
	a.buf.SetSize(NID.MessageLength())
	a.buf.Reset()
	a.statusIx = 0
	a.complete = false
	a.active = false
}

// checkComplete runs when the buffer fills: it either switches to the data
// unit the accumulated bits announce, requests more bits by growing the
// buffer, or dispatches the finished message and latches complete.
func (a *assembler) checkComplete() {
	switch a.duid {
	case NID:
		duid := DUIDFromValue(a.buf.Int(duidBegin, duidEnd))
		if duid != UNKN {
			a.setDUID(duid)
		} else {
			a.complete = true
			a.framer.dispatch(NewRawMessage(a.buf.Copy(), UNKN))
		}

	case HDU, LDU1, LDU2, TDU, TDULC, PDU2, PDU3, UNKN:
		a.complete = true
		a.framer.dispatch(NewRawMessage(a.buf.Copy(), a.duid))

	case PDU1:
		blocks := a.buf.Int(pduBlocksBegin, pduBlocksEnd)
		padBlocks := a.buf.Int(pduPadBegin, pduPadEnd)

		switch blocks + padBlocks {
		case 24, 32:
			a.setDUID(PDU2)
		case 36, 48:
			a.setDUID(PDU3)
		default:
			a.complete = true
			a.framer.dispatch(NewRawMessage(a.buf.Copy(), PDU1))
		}

	case TSBK1:
		a.decodeTSBK(TSBK2)
	case TSBK2:
		a.decodeTSBK(TSBK3)
	case TSBK3:
		a.decodeTSBK(UNKN)

	default:
		a.complete = true
	}
}

// decodeTSBK deinterleaves and trellis-decodes the block at [64,260), emits
// the typed TSBK and either latches complete or rewinds the pointer to
// refill the block range for the next TSBK in the sequence.
func (a *assembler) decodeTSBK(next DUID) {
	if err := codec.Deinterleave(a.buf, tsbkBegin, tsbkEnd); err != nil {
		a.framer.log.Warn("tsbk deinterleave failed", logger.Err(err))
		a.complete = true
		return
	}
	if err := a.trellis.Decode(a.buf, tsbkBegin, tsbkEnd); err != nil {
		a.framer.log.Warn("tsbk trellis decode failed", logger.Err(err))
		a.complete = true
		return
	}

	nac := a.buf.Int(nacBegin, nacEnd)
	payload := a.buf.Get(tsbkBegin, tsbkBegin+TSBKPayloadBits)
	tsbk := DecodeTSBK(nac, a.duid, payload)

	if tsbk.LastBlock() || a.duid == TSBK3 {
		a.complete = true
	} else {
		a.setDUID(next)
		a.buf.SetPointer(tsbkBegin)
	}

	a.framer.dispatch(tsbk)
}

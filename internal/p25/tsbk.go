package p25

import (
	"fmt"

	"github.com/radioscan/p25rx/internal/bits"
)

// Opcode is the 6-bit TSBK opcode field.
type Opcode uint8

// Trunking signalling opcodes recognized by the factory. Unlisted opcodes
// decode to a generic TSBK preserving the payload.
const (
	OpcodeGroupVoiceGrant         Opcode = 0x00
	OpcodeGroupVoiceGrantUpdate   Opcode = 0x02
	OpcodeUnitToUnitVoiceGrant    Opcode = 0x04
	OpcodeAcknowledgeResponse     Opcode = 0x20
	OpcodeRFSSStatusBroadcast     Opcode = 0x3A
	OpcodeNetworkStatusBroadcast  Opcode = 0x3B
	OpcodeAdjacentStatusBroadcast Opcode = 0x3C
	OpcodeIdentifierUpdate        Opcode = 0x3D
)

func (o Opcode) String() string {
	switch o {
	case OpcodeGroupVoiceGrant:
		return "GRP_V_CH_GRANT"
	case OpcodeGroupVoiceGrantUpdate:
		return "GRP_V_CH_GRANT_UPDT"
	case OpcodeUnitToUnitVoiceGrant:
		return "UU_V_CH_GRANT"
	case OpcodeAcknowledgeResponse:
		return "ACK_RSP_FNE"
	case OpcodeRFSSStatusBroadcast:
		return "RFSS_STS_BCAST"
	case OpcodeNetworkStatusBroadcast:
		return "NET_STS_BCAST"
	case OpcodeAdjacentStatusBroadcast:
		return "ADJ_STS_BCAST"
	case OpcodeIdentifierUpdate:
		return "IDEN_UP"
	default:
		return fmt.Sprintf("OPCODE_%02X", uint8(o))
	}
}

// TSBK payload field offsets. The payload is the 98-bit output of the
// half-rate trellis decode: last-block flag, protect flag, opcode,
// manufacturer ID, 64 argument bits and the CRC, followed by two flush bits.
const (
	// TSBKPayloadBits is the decoded payload width for every block.
	TSBKPayloadBits = 98

	tsbkLastBlockBit = 0
	tsbkProtectBit   = 1
	tsbkOpcodeBegin  = 2
	tsbkOpcodeEnd    = 8
	tsbkMFIDBegin    = 8
	tsbkMFIDEnd      = 16
	tsbkArgsBegin    = 16
	tsbkArgsEnd      = 80
	tsbkCRCBegin     = 80
	tsbkCRCEnd       = 96
)

// TSBK is a decoded trunking signalling block. Concrete variants add typed
// accessors for their argument fields; all values are raw integers whose
// interpretation is left to downstream consumers.
type TSBK interface {
	Message
	// Opcode returns the 6-bit opcode.
	Opcode() Opcode
	// MFID returns the manufacturer ID octet.
	MFID() int
	// LastBlock reports whether this block terminates the TSBK sequence.
	LastBlock() bool
	// Protected reports the protect (encryption) flag.
	Protected() bool
	// CRC returns the 16-bit CRC field as received.
	CRC() int
}

// tsbkBase carries the fields common to every TSBK variant.
type tsbkBase struct {
	nac  int
	duid DUID
	bits *bits.Buffer
}

func (t *tsbkBase) DUID() DUID         { return t.duid }
func (t *tsbkBase) NAC() int           { return t.nac }
func (t *tsbkBase) Bits() *bits.Buffer { return t.bits }
func (t *tsbkBase) Opcode() Opcode     { return Opcode(t.bits.Int(tsbkOpcodeBegin, tsbkOpcodeEnd)) }
func (t *tsbkBase) MFID() int          { return t.bits.Int(tsbkMFIDBegin, tsbkMFIDEnd) }
func (t *tsbkBase) LastBlock() bool    { return t.bits.Bit(tsbkLastBlockBit) }
func (t *tsbkBase) Protected() bool    { return t.bits.Bit(tsbkProtectBit) }
func (t *tsbkBase) CRC() int           { return t.bits.Int(tsbkCRCBegin, tsbkCRCEnd) }

func (t *tsbkBase) String() string {
	return fmt.Sprintf("TSBK nac:%03X %s last:%t", t.nac, t.Opcode(), t.LastBlock())
}

// GenericTSBK preserves the payload of an unrecognized opcode.
type GenericTSBK struct {
	tsbkBase
}

// GroupVoiceGrant assigns a voice channel to a talkgroup.
type GroupVoiceGrant struct {
	tsbkBase
}

// ServiceOptions returns the service options octet.
func (t *GroupVoiceGrant) ServiceOptions() int { return t.bits.Int(16, 24) }

// Channel returns the 16-bit channel identifier.
func (t *GroupVoiceGrant) Channel() int { return t.bits.Int(24, 40) }

// GroupAddress returns the 16-bit talkgroup address.
func (t *GroupVoiceGrant) GroupAddress() int { return t.bits.Int(40, 56) }

// SourceAddress returns the 24-bit source unit address.
func (t *GroupVoiceGrant) SourceAddress() int { return t.bits.Int(56, 80) }

func (t *GroupVoiceGrant) String() string {
	return fmt.Sprintf("TSBK nac:%03X %s chan:%d grp:%d src:%d",
		t.nac, t.Opcode(), t.Channel(), t.GroupAddress(), t.SourceAddress())
}

// GroupVoiceGrantUpdate announces channel assignments for up to two groups.
type GroupVoiceGrantUpdate struct {
	tsbkBase
}

// ChannelA returns the first announced channel.
func (t *GroupVoiceGrantUpdate) ChannelA() int { return t.bits.Int(16, 32) }

// GroupAddressA returns the first announced talkgroup.
func (t *GroupVoiceGrantUpdate) GroupAddressA() int { return t.bits.Int(32, 48) }

// ChannelB returns the second announced channel.
func (t *GroupVoiceGrantUpdate) ChannelB() int { return t.bits.Int(48, 64) }

// GroupAddressB returns the second announced talkgroup.
func (t *GroupVoiceGrantUpdate) GroupAddressB() int { return t.bits.Int(64, 80) }

// UnitToUnitVoiceGrant assigns a voice channel for an individual call.
type UnitToUnitVoiceGrant struct {
	tsbkBase
}

// Channel returns the 16-bit channel identifier.
func (t *UnitToUnitVoiceGrant) Channel() int { return t.bits.Int(16, 32) }

// TargetAddress returns the 24-bit called unit address.
func (t *UnitToUnitVoiceGrant) TargetAddress() int { return t.bits.Int(32, 56) }

// SourceAddress returns the 24-bit calling unit address.
func (t *UnitToUnitVoiceGrant) SourceAddress() int { return t.bits.Int(56, 80) }

// AcknowledgeResponse acknowledges a unit request.
type AcknowledgeResponse struct {
	tsbkBase
}

// ServiceType returns the acknowledged service opcode.
func (t *AcknowledgeResponse) ServiceType() int { return t.bits.Int(18, 24) }

// TargetAddress returns the 24-bit acknowledged unit address.
func (t *AcknowledgeResponse) TargetAddress() int { return t.bits.Int(32, 56) }

// SourceAddress returns the 24-bit responding address.
func (t *AcknowledgeResponse) SourceAddress() int { return t.bits.Int(56, 80) }

// RFSSStatusBroadcast describes the current RF subsystem and site.
type RFSSStatusBroadcast struct {
	tsbkBase
}

// LRA returns the location registration area.
func (t *RFSSStatusBroadcast) LRA() int { return t.bits.Int(16, 24) }

// SystemID returns the 12-bit system identity.
func (t *RFSSStatusBroadcast) SystemID() int { return t.bits.Int(28, 40) }

// RFSSID returns the RF subsystem identity.
func (t *RFSSStatusBroadcast) RFSSID() int { return t.bits.Int(40, 48) }

// SiteID returns the site identity.
func (t *RFSSStatusBroadcast) SiteID() int { return t.bits.Int(48, 56) }

// Channel returns the control channel number.
func (t *RFSSStatusBroadcast) Channel() int { return t.bits.Int(56, 72) }

// ServiceClass returns the system service class octet.
func (t *RFSSStatusBroadcast) ServiceClass() int { return t.bits.Int(72, 80) }

func (t *RFSSStatusBroadcast) String() string {
	return fmt.Sprintf("TSBK nac:%03X %s sys:%03X rfss:%d site:%d chan:%d",
		t.nac, t.Opcode(), t.SystemID(), t.RFSSID(), t.SiteID(), t.Channel())
}

// NetworkStatusBroadcast describes the wide area network.
type NetworkStatusBroadcast struct {
	tsbkBase
}

// LRA returns the location registration area.
func (t *NetworkStatusBroadcast) LRA() int { return t.bits.Int(16, 24) }

// WACN returns the 20-bit wide area communication network identity.
func (t *NetworkStatusBroadcast) WACN() int { return t.bits.Int(24, 44) }

// SystemID returns the 12-bit system identity.
func (t *NetworkStatusBroadcast) SystemID() int { return t.bits.Int(44, 56) }

// Channel returns the control channel number.
func (t *NetworkStatusBroadcast) Channel() int { return t.bits.Int(56, 72) }

// ServiceClass returns the system service class octet.
func (t *NetworkStatusBroadcast) ServiceClass() int { return t.bits.Int(72, 80) }

// AdjacentStatusBroadcast announces a neighboring site.
type AdjacentStatusBroadcast struct {
	tsbkBase
}

// LRA returns the location registration area.
func (t *AdjacentStatusBroadcast) LRA() int { return t.bits.Int(16, 24) }

// SystemID returns the 12-bit system identity.
func (t *AdjacentStatusBroadcast) SystemID() int { return t.bits.Int(28, 40) }

// RFSSID returns the neighbor RF subsystem identity.
func (t *AdjacentStatusBroadcast) RFSSID() int { return t.bits.Int(40, 48) }

// SiteID returns the neighbor site identity.
func (t *AdjacentStatusBroadcast) SiteID() int { return t.bits.Int(48, 56) }

// Channel returns the neighbor control channel number.
func (t *AdjacentStatusBroadcast) Channel() int { return t.bits.Int(56, 72) }

// IdentifierUpdate carries channel band plan parameters.
type IdentifierUpdate struct {
	tsbkBase
}

// Identifier returns the 4-bit channel identifier this update describes.
func (t *IdentifierUpdate) Identifier() int { return t.bits.Int(16, 20) }

// Bandwidth returns the channel bandwidth field.
func (t *IdentifierUpdate) Bandwidth() int { return t.bits.Int(20, 29) }

// TransmitOffset returns the transmit offset field.
func (t *IdentifierUpdate) TransmitOffset() int { return t.bits.Int(29, 38) }

// ChannelSpacing returns the channel spacing field.
func (t *IdentifierUpdate) ChannelSpacing() int { return t.bits.Int(38, 48) }

// BaseFrequency returns the 32-bit base frequency field.
func (t *IdentifierUpdate) BaseFrequency() int { return t.bits.Int(48, 80) }

// DecodeTSBK constructs a typed TSBK from the NAC of the carrying NID, the
// block position in the sequence and the decoded 98-bit payload. The payload
// buffer is owned by the returned message. Unknown opcodes yield a
// GenericTSBK.
func DecodeTSBK(nac int, duid DUID, payload *bits.Buffer) TSBK {
	base := tsbkBase{nac: nac, duid: duid, bits: payload}

	switch Opcode(payload.Int(tsbkOpcodeBegin, tsbkOpcodeEnd)) {
	case OpcodeGroupVoiceGrant:
		return &GroupVoiceGrant{base}
	case OpcodeGroupVoiceGrantUpdate:
		return &GroupVoiceGrantUpdate{base}
	case OpcodeUnitToUnitVoiceGrant:
		return &UnitToUnitVoiceGrant{base}
	case OpcodeAcknowledgeResponse:
		return &AcknowledgeResponse{base}
	case OpcodeRFSSStatusBroadcast:
		return &RFSSStatusBroadcast{base}
	case OpcodeNetworkStatusBroadcast:
		return &NetworkStatusBroadcast{base}
	case OpcodeAdjacentStatusBroadcast:
		return &AdjacentStatusBroadcast{base}
	case OpcodeIdentifierUpdate:
		return &IdentifierUpdate{base}
	default:
		return &GenericTSBK{base}
	}
}

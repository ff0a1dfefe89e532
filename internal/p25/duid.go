package p25

// DUID identifies the P25 data unit type carried in the Network Identifier.
type DUID uint8

// Data unit identifiers. NID is the initial assembler state before the DUID
// field has been read; PDU2/PDU3 and TSBK2/TSBK3 are continuation states
// entered from PDU1 and TSBK1 and never appear in a NID.
const (
	NID DUID = iota
	HDU
	TDU
	LDU1
	TSBK1
	LDU2
	PDU1
	TDULC
	PDU2
	PDU3
	TSBK2
	TSBK3
	UNKN
)

// Wire codes for the 4-bit DUID field.
const (
	CodeHDU   = 0x0
	CodeTDU   = 0x3
	CodeLDU1  = 0x5
	CodeTSBK  = 0x7
	CodeLDU2  = 0xA
	CodePDU   = 0xC
	CodeTDULC = 0xF
)

// Canonical message lengths in bits, excluding the frame sync.
const (
	NIDLength   = 64
	HDULength   = 792
	TDULength   = 504
	LDULength   = 1728
	TSBKLength  = 260
	PDU1Length  = 260
	PDU2Length  = 456
	PDU3Length  = 652
	TDULCLength = 648
)

// DUIDFromValue maps the 4-bit DUID field value to its data unit, or UNKN for
// an unrecognized code.
func DUIDFromValue(v int) DUID {
	switch v {
	case CodeHDU:
		return HDU
	case CodeTDU:
		return TDU
	case CodeLDU1:
		return LDU1
	case CodeTSBK:
		return TSBK1
	case CodeLDU2:
		return LDU2
	case CodePDU:
		return PDU1
	case CodeTDULC:
		return TDULC
	default:
		return UNKN
	}
}

// MessageLength returns the canonical bit length of the data unit, counted
// from the first bit after sync.
func (d DUID) MessageLength() int {
	switch d {
	case NID, UNKN:
		return NIDLength
	case HDU:
		return HDULength
	case TDU:
		return TDULength
	case LDU1, LDU2:
		return LDULength
	case TSBK1, TSBK2, TSBK3:
		return TSBKLength
	case PDU1:
		return PDU1Length
	case PDU2:
		return PDU2Length
	case PDU3:
		return PDU3Length
	case TDULC:
		return TDULCLength
	default:
		return NIDLength
	}
}

func (d DUID) String() string {
	switch d {
	case NID:
		return "NID"
	case HDU:
		return "HDU"
	case TDU:
		return "TDU"
	case LDU1:
		return "LDU1"
	case TSBK1:
		return "TSBK1"
	case LDU2:
		return "LDU2"
	case PDU1:
		return "PDU1"
	case TDULC:
		return "TDULC"
	case PDU2:
		return "PDU2"
	case PDU3:
		return "PDU3"
	case TSBK2:
		return "TSBK2"
	case TSBK3:
		return "TSBK3"
	default:
		return "UNKN"
	}
}

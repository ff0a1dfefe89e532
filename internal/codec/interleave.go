package codec

import (
	"fmt"

	"github.com/radioscan/p25rx/internal/bits"
)

// P25 block interleaving for 196-bit packet blocks (TSBK and PDU data
// blocks). The permutation tables are fixed by the protocol.

// BlockBits is the interleaved block size in bits.
const BlockBits = 196

var interleaveTable = [BlockBits]int{
	0, 1, 2, 3, 52, 53, 54, 55, 100, 101, 102, 103, 148, 149, 150, 151,
	4, 5, 6, 7, 56, 57, 58, 59, 104, 105, 106, 107, 152, 153, 154, 155,
	8, 9, 10, 11, 60, 61, 62, 63, 108, 109, 110, 111, 156, 157, 158, 159,
	12, 13, 14, 15, 64, 65, 66, 67, 112, 113, 114, 115, 160, 161, 162, 163,
	16, 17, 18, 19, 68, 69, 70, 71, 116, 117, 118, 119, 164, 165, 166, 167,
	20, 21, 22, 23, 72, 73, 74, 75, 120, 121, 122, 123, 168, 169, 170, 171,
	24, 25, 26, 27, 76, 77, 78, 79, 124, 125, 126, 127, 172, 173, 174, 175,
	28, 29, 30, 31, 80, 81, 82, 83, 128, 129, 130, 131, 176, 177, 178, 179,
	32, 33, 34, 35, 84, 85, 86, 87, 132, 133, 134, 135, 180, 181, 182, 183,
	36, 37, 38, 39, 88, 89, 90, 91, 136, 137, 138, 139, 184, 185, 186, 187,
	40, 41, 42, 43, 92, 93, 94, 95, 140, 141, 142, 143, 188, 189, 190, 191,
	44, 45, 46, 47, 96, 97, 98, 99, 144, 145, 146, 147, 192, 193, 194, 195,
	48, 49, 50, 51,
}

var deinterleaveTable = [BlockBits]int{
	0, 1, 2, 3, 16, 17, 18, 19, 32, 33, 34, 35, 48, 49, 50, 51,
	64, 65, 66, 67, 80, 81, 82, 83, 96, 97, 98, 99, 112, 113, 114, 115,
	128, 129, 130, 131, 144, 145, 146, 147, 160, 161, 162, 163, 176, 177, 178, 179,
	192, 193, 194, 195, 4, 5, 6, 7, 20, 21, 22, 23, 36, 37, 38, 39,
	52, 53, 54, 55, 68, 69, 70, 71, 84, 85, 86, 87, 100, 101, 102, 103,
	116, 117, 118, 119, 132, 133, 134, 135, 148, 149, 150, 151, 164, 165, 166, 167,
	180, 181, 182, 183, 8, 9, 10, 11, 24, 25, 26, 27, 40, 41, 42, 43,
	56, 57, 58, 59, 72, 73, 74, 75, 88, 89, 90, 91, 104, 105, 106, 107,
	120, 121, 122, 123, 136, 137, 138, 139, 152, 153, 154, 155, 168, 169, 170, 171,
	184, 185, 186, 187, 12, 13, 14, 15, 28, 29, 30, 31, 44, 45, 46, 47,
	60, 61, 62, 63, 76, 77, 78, 79, 92, 93, 94, 95, 108, 109, 110, 111,
	124, 125, 126, 127, 140, 141, 142, 143, 156, 157, 158, 159, 172, 173, 174, 175,
	188, 189, 190, 191,
}

// Interleave applies the block interleave permutation to the 196 bits of buf
// in [start, end), in place.
func Interleave(buf *bits.Buffer, start, end int) error {
	return permute(buf, start, end, &interleaveTable)
}

// Deinterleave reverses the block interleave permutation on the 196 bits of
// buf in [start, end), in place.
func Deinterleave(buf *bits.Buffer, start, end int) error {
	return permute(buf, start, end, &deinterleaveTable)
}

func permute(buf *bits.Buffer, start, end int, table *[BlockBits]int) error {
	if end-start != BlockBits {
		return fmt.Errorf("codec: invalid block range [%d,%d): need %d bits", start, end, BlockBits)
	}

	original := buf.Get(start, end)
	buf.Clear(start, end)

	// Only the set bits of the snapshot need to be written back.
	for i := 0; i < BlockBits; i++ {
		if original.Bit(i) {
			buf.Set(start + table[i])
		}
	}
	return nil
}

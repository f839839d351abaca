// Package varint implements the two integer encodings Bitcoin Core uses:
// wire-format CompactSize (used in blk*.dat and raw transactions) and the
// unrelated 7-bit continuation-bit "Core varint" used only in rev*.dat
// undo data and other internal serializations. It also ports Core's
// amount (de)compression used by undo-data coin entries.
package varint

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
)

// ReadCompactSize reads a CompactSize integer and reports whether its
// encoding was non-canonical (e.g. a 0xfd prefix covering a value that
// would have fit in a single byte). Non-canonical sizes are a diagnostic,
// not a hard failure.
func ReadCompactSize(c *reader.Cursor) (uint64, error) {
	v, canonical, err := readCompactSizeChecked(c)
	if err != nil {
		return 0, err
	}
	if !canonical {
		return v, fmt.Errorf("%w: at offset %d", ierrors.ErrNonCanonicalSize, c.Tell())
	}
	return v, nil
}

func readCompactSizeChecked(c *reader.Cursor) (uint64, bool, error) {
	first, err := c.ReadU8()
	if err != nil {
		return 0, false, err
	}
	switch {
	case first < 0xfd:
		return uint64(first), true, nil
	case first == 0xfd:
		v, err := c.ReadU16LE()
		if err != nil {
			return 0, false, err
		}
		return uint64(v), v >= 0xfd, nil
	case first == 0xfe:
		v, err := c.ReadU32LE()
		if err != nil {
			return 0, false, err
		}
		return uint64(v), v > math.MaxUint16, nil
	default:
		v, err := c.ReadU64LE()
		if err != nil {
			return 0, false, err
		}
		return v, v > math.MaxUint32, nil
	}
}

// PutCompactSize encodes val in wire CompactSize form.
func PutCompactSize(val uint64) []byte {
	switch {
	case val < 0xfd:
		return []byte{uint8(val)}
	case val <= math.MaxUint16:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		return buf
	case val <= math.MaxUint32:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		return buf
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], val)
		return buf
	}
}

// ReadCoreVarint reads Bitcoin Core's internal 7-bit-per-byte varint
// (src/serialize.h ReadVarInt), distinct from CompactSize. Used only
// inside rev*.dat undo records.
func ReadCoreVarint(c *reader.Cursor) (uint64, error) {
	var n uint64
	for {
		b, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		n = (n << 7) | uint64(b&0x7f)
		if b&0x80 != 0 {
			n++
		} else {
			return n, nil
		}
	}
}

// DecompressAmount undoes Bitcoin Core's amount compression
// (src/compressor.cpp CTxOutCompressor::DecompressAmount), bit-exact.
func DecompressAmount(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	x--
	e := x % 10
	x /= 10

	var n uint64
	if e < 9 {
		d := (x % 9) + 1
		x /= 9
		n = x*10 + d
	} else {
		n = x + 1
	}
	for ; e > 0; e-- {
		n *= 10
	}
	return n
}

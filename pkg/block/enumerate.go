package block

import (
	"errors"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"
)

// TxRange is one transaction's byte extent within a blk*.dat buffer.
type TxRange struct {
	Start, End int
}

// Info is one enumerated block's location and transaction byte ranges,
// found without materializing any transaction's fields.
type Info struct {
	DataStart int
	Size      int
	NumTxs    int
	TxRanges  []TxRange
}

// Enumerate walks a (already XOR-decoded) blk*.dat buffer and returns
// every magic-anchored block's location plus the byte range of each of
// its transactions. It never decodes a transaction's fields; callers
// that need full records slice blkData[r.Start:r.End] and hand that to
// transaction.Decode themselves, so there is exactly one place that
// understands transaction field layout.
func Enumerate(blkData []byte) ([]Info, error) {
	c := reader.New(blkData)
	var infos []Info

	for c.HasMore() && c.Remaining() >= 8 {
		magic := c.Peek(4)
		if len(magic) < 4 || !magicEquals(magic) {
			break
		}
		if _, err := c.ReadBytes(4); err != nil {
			return nil, err
		}
		blockSize, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		dataStart := c.Tell()

		if _, err := c.ReadBytes(80); err != nil { // header
			return nil, err
		}
		numTxs, err := varint.ReadCompactSize(c)
		if err != nil && !errors.Is(err, ierrors.ErrNonCanonicalSize) {
			return nil, err
		}

		ranges := make([]TxRange, 0, numTxs)
		for i := uint64(0); i < numTxs; i++ {
			start, err := SkipTransaction(c)
			if err != nil {
				return nil, fmt.Errorf("tx %d in block at %d: %w", i, dataStart, err)
			}
			ranges = append(ranges, TxRange{Start: start, End: c.Tell()})
		}

		infos = append(infos, Info{
			DataStart: dataStart,
			Size:      int(blockSize),
			NumTxs:    int(numTxs),
			TxRanges:  ranges,
		})

		c.Seek(dataStart + int(blockSize))
	}

	if len(infos) == 0 {
		return nil, ierrors.ErrNoMagic
	}

	return infos, nil
}

func magicEquals(b []byte) bool {
	return b[0] == Magic[0] && b[1] == Magic[1] && b[2] == Magic[2] && b[3] == Magic[3]
}
